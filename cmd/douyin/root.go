package main

import (
	"context"
	"fmt"
	"os"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"douyin/internal/browser"
	"douyin/internal/config"
	"douyin/internal/douyin"
	"douyin/internal/post"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

// app carries the loaded configuration and logger shared by all subcommands.
type app struct {
	cfg config.Config
	log *logrus.Logger

	cfgFile string
	verbose bool
	cdpURL  string
	chrome  string
	dataDir string
}

func newRootCommand() *cobra.Command {
	a := &app{log: logrus.New()}

	rootCmd := &cobra.Command{
		Use:   "douyin",
		Short: "🎬 抖音创作者平台发布工具",
		Long: fmt.Sprintf(`%s

通过本机可见的 Chrome 浏览器把图文或口播视频发布到抖音创作者平台。
登录态保存在浏览器配置目录里，首次使用请先在弹出的浏览器中扫码登录。

%s
  douyin cover "今日分享\n第一条内容"   # 生成封面并建立帖子目录
  douyin music "要朗读的文字"           # 给最新帖子配音
  douyin post cover.png -t 标题         # 发布图文
  douyin share                          # 抓取时间线并生成口播视频`,
			bold("抖音发布工具"),
			bold("示例:")),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initialize()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "配置文件路径 (默认 ~/.douyin/douyin.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "输出调试日志")
	rootCmd.PersistentFlags().StringVar(&a.cdpURL, "cdp-url", "", "浏览器调试地址 (覆盖配置)")
	rootCmd.PersistentFlags().StringVar(&a.chrome, "chrome", "", "Chrome 可执行文件路径")
	rootCmd.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "帖子数据目录")

	rootCmd.AddCommand(newCoverCommand(a))
	rootCmd.AddCommand(newMusicCommand(a))
	rootCmd.AddCommand(newPostCommand(a))
	rootCmd.AddCommand(newShareCommand(a))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// initialize loads configuration and applies flag overrides. Runs once as
// PersistentPreRunE, so every subcommand sees the same resolved config.
func (a *app) initialize() error {
	a.log.SetOutput(os.Stderr)
	if a.verbose {
		a.log.SetLevel(logrus.DebugLevel)
	} else {
		a.log.SetLevel(logrus.InfoLevel)
	}

	var (
		cfg config.Config
		err error
	)
	if a.cfgFile != "" {
		cfg, err = config.LoadFile(a.cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	if a.cdpURL != "" {
		cfg.Browser.ControlURL = a.cdpURL
	}
	if a.chrome != "" {
		cfg.Browser.ChromePath = a.chrome
	}
	if a.dataDir != "" {
		cfg.Data.Dir = a.dataDir
	}
	a.cfg = cfg
	return nil
}

func (a *app) entry() *logrus.Entry {
	return logrus.NewEntry(a.log)
}

func (a *app) store() *post.Store {
	return &post.Store{Dir: a.cfg.Data.Dir}
}

// runPublish attaches to the browser session and hands a ready workflow to
// fn. The browser process survives the command; only our tabs are released.
func (a *app) runPublish(ctx context.Context, fn func(context.Context, *douyin.Workflow) error) error {
	mgr := browser.NewManager(browser.Config{
		ControlURL:    a.cfg.Browser.ControlURL,
		ChromePath:    a.cfg.Browser.ChromePath,
		ProfileDir:    a.cfg.Browser.ProfileDir,
		AttachTimeout: a.cfg.Browser.AttachTimeout,
	})
	mgr.Logger = a.entry()
	defer mgr.Close()

	page, err := mgr.Page(ctx)
	if err != nil {
		return err
	}

	wf := &douyin.Workflow{
		Page:     page,
		Timeouts: publishTimeouts(a.cfg.Publish.Timeouts),
		Logger:   a.entry(),
		Confirm:  waitEnter,
	}
	return fn(ctx, wf)
}

func publishTimeouts(t config.TimeoutsConfig) douyin.Timeouts {
	return douyin.Timeouts{
		Navigate: t.Navigate,
		Login:    t.Login,
		Upload:   t.Upload,
		Element:  t.Element,
		Suggest:  t.Suggest,
		Reveal:   t.Reveal,
		Submit:   t.Submit,
		Process:  t.Process,
	}
}

// waitEnter is the debug-pause hook: the run stays parked on the filled form
// until the operator presses Enter in the terminal. EOF or Ctrl-C aborts the
// submit.
func waitEnter(ctx context.Context) error {
	rl, err := readline.New(yellow("⏸") + " 已暂停，检查浏览器中的内容后按 Enter 发布... ")
	if err != nil {
		return errors.Wrap(err, "初始化终端输入")
	}

	done := make(chan error, 1)
	go func() {
		_, err := rl.Readline()
		done <- err
	}()
	select {
	case <-ctx.Done():
		rl.Close()
		<-done
		return ctx.Err()
	case err := <-done:
		rl.Close()
		if err == readline.ErrInterrupt {
			return errors.New("已中断")
		}
		return err
	}
}

func isTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
