package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"douyin/internal/cover"
	"douyin/internal/douyin"
	"douyin/internal/feed"
	"douyin/internal/ffmpeg"
	"douyin/internal/post"
	"douyin/internal/tts"
)

var errCanceled = errors.New("已取消")

func newShareCommand(a *app) *cobra.Command {
	var (
		fromFile   string
		doPost     bool
		hotspot    string
		voice      string
		noSanitize bool
	)

	cmd := &cobra.Command{
		Use:   "share [<title> <content>]",
		Short: "📺 生成口播视频并分享",
		Long: `把一段文字做成口播视频：标题渲染为封面，内容合成为语音，
再用 ffmpeg 把两者合成竖屏视频。

内容来源三选一：
  直接传入标题和内容两个参数；
  --from-file 从文件读取（第一行标题，其余内容）；
  不带参数时抓取时间线，交互式挑选帖子后自动生成文案。

默认只生成视频，加 --post 才会发布到抖音。`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			title, content, err := a.shareInput(cmd, args, fromFile)
			if errors.Is(err, errCanceled) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s 已取消\n", gray("👋"))
				return nil
			}
			if err != nil {
				return err
			}

			if !noSanitize {
				title = feed.Sanitize(title)
				content = feed.Sanitize(content)
			}

			video, err := a.shareGenerate(cmd, title, content, voice)
			if err != nil {
				return err
			}

			if !doPost {
				fmt.Fprintf(cmd.OutOrStdout(), "\n%s 视频已生成: %s\n", green("✅"), video)
				fmt.Fprintf(cmd.OutOrStdout(), "   使用 --post 参数自动发布\n")
				return nil
			}

			desc := douyin.VideoDescriptor{
				Video:       video,
				Title:       title,
				Description: truncateRunes(content, 100),
				Hotspot:     hotspot,
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n%s 开始发布...\n", cyan("📤"))
			err = a.runPublish(cmd.Context(), func(ctx context.Context, wf *douyin.Workflow) error {
				return wf.RunVideo(ctx, desc)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s 发布成功\n", green("✅"))
			return nil
		},
	}

	cmd.Flags().StringVarP(&fromFile, "from-file", "f", "", "从文件读取内容 (第一行标题)")
	cmd.Flags().BoolVar(&doPost, "post", false, "生成后自动发布")
	cmd.Flags().StringVar(&hotspot, "hotspot", "", "关联热点词")
	cmd.Flags().StringVar(&voice, "voice", "", "TTS 声音")
	cmd.Flags().BoolVar(&noSanitize, "no-sanitize", false, "不过滤平台敏感词")
	return cmd
}

// shareInput resolves title and narration content from, in order: a file,
// positional arguments, or the captured timeline with interactive selection.
func (a *app) shareInput(cmd *cobra.Command, args []string, fromFile string) (string, string, error) {
	switch {
	case fromFile != "":
		return readShareFile(fromFile)
	case len(args) == 2:
		return args[0], args[1], nil
	case len(args) == 1:
		return "", "", errors.New("需要同时提供标题和内容，或不带参数进入交互模式")
	default:
		return a.shareFromFeed(cmd)
	}
}

func readShareFile(path string) (string, string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", "", errors.Wrap(err, "读取内容文件")
	}
	parts := strings.SplitN(strings.TrimSpace(string(b)), "\n", 2)
	title := strings.TrimSpace(parts[0])
	if title == "" {
		return "", "", errors.Errorf("文件 %s 为空", path)
	}
	// A single-line file narrates its own title.
	content := title
	if len(parts) > 1 {
		content = strings.TrimSpace(parts[1])
	}
	return title, content, nil
}

// shareFromFeed captures the timeline, lets the operator pick posts, and
// builds the narration script from the picks.
func (a *app) shareFromFeed(cmd *cobra.Command) (string, string, error) {
	if !isTTY() {
		return "", "", errors.New("交互模式需要终端，请直接传入标题和内容")
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s 抓取时间线...\n", cyan("📡"))

	fetcher := &feed.Fetcher{Command: a.cfg.Feed.Command, Logger: a.entry()}
	raw, err := fetcher.Fetch(cmd.Context())
	if err != nil {
		return "", "", err
	}
	tweets := feed.ParseTweets(raw)
	if len(tweets) == 0 {
		return "", "", errors.New("未解析到有效帖子")
	}

	selected := selectTweets(cmd, tweets)
	if len(selected) == 0 {
		return "", "", errCanceled
	}

	title, script := feed.BuildScript(selected)
	fmt.Fprintf(out, "\n%s 标题: %s\n", cyan("📝"), title)
	fmt.Fprintf(out, "%s 文案:\n%s...\n", cyan("📝"), truncateRunes(script, 200))
	fmt.Fprintln(out)
	if !confirmGenerate() {
		return "", "", errCanceled
	}
	return title, script, nil
}

// selectTweets shows up to ten captured posts and reads the selection:
// comma-separated numbers, "a" for the first five, "q" or empty to quit.
func selectTweets(cmd *cobra.Command, tweets []feed.Tweet) []feed.Tweet {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\n%s 找到 %d 条帖子，选择要分享的：\n\n", cyan("📋"), len(tweets))

	shown := tweets
	if len(shown) > 10 {
		shown = shown[:10]
	}
	for i, t := range shown {
		fmt.Fprintf(out, "  [%d] %s...\n", i+1, truncateRunes(t.Text(), 80))
	}
	fmt.Fprintf(out, "\n  [a] 全选前5条\n  [q] 退出\n\n")

	choice, err := promptLine("选择 (数字/a/q): ")
	if err != nil {
		return nil
	}
	choice = strings.ToLower(choice)
	switch choice {
	case "", "q":
		return nil
	case "a":
		if len(tweets) > 5 {
			return tweets[:5]
		}
		return tweets
	}

	var picked []feed.Tweet
	for _, part := range strings.Split(choice, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil
		}
		if n >= 1 && n <= len(tweets) {
			picked = append(picked, tweets[n-1])
		}
	}
	return picked
}

func confirmGenerate() bool {
	answer, err := promptLine("确认生成视频? [Y/n]: ")
	if err != nil {
		return false
	}
	return strings.ToLower(answer) != "n"
}

func promptLine(prompt string) (string, error) {
	rl, err := readline.New(prompt)
	if err != nil {
		return "", errors.Wrap(err, "初始化终端输入")
	}
	defer rl.Close()

	line, err := rl.Readline()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// shareGenerate renders the cover, synthesizes the narration, and composes
// the still-image video inside a fresh post directory.
func (a *app) shareGenerate(cmd *cobra.Command, title, content, voice string) (string, error) {
	out := cmd.OutOrStdout()

	store := a.store()
	dir, err := store.CreatePostDir(title)
	if err != nil {
		return "", err
	}
	if err := store.WriteMeta(dir, post.Meta{Title: title, Body: content, Cover: post.CoverFile}); err != nil {
		return "", err
	}
	fmt.Fprintf(out, "%s 输出目录: %s\n", cyan("📁"), dir)

	fmt.Fprintf(out, "%s 生成封面...\n", cyan("🎨"))
	coverPath := filepath.Join(dir, post.CoverFile)
	renderer := &cover.Renderer{Logger: a.entry()}
	if err := renderer.Render(title, coverPath); err != nil {
		return "", err
	}
	fmt.Fprintf(out, "   封面: %s\n", coverPath)

	fmt.Fprintf(out, "%s 生成语音...\n", cyan("🎤"))
	audioPath := filepath.Join(dir, post.MusicFile)
	provider := &tts.EdgeProvider{Binary: a.cfg.TTS.Binary, Voice: a.cfg.TTS.Voice, Logger: a.entry()}
	if _, err := provider.Synthesize(cmd.Context(), tts.Request{Text: content, Voice: voice, Output: audioPath}); err != nil {
		return "", err
	}
	fmt.Fprintf(out, "   音频: %s\n", audioPath)

	fmt.Fprintf(out, "%s 合成视频...\n", cyan("🎬"))
	videoPath := filepath.Join(dir, post.VideoFile)
	composer, err := a.composer()
	if err != nil {
		return "", err
	}
	if _, err := composer.ComposeStill(cmd.Context(), coverPath, audioPath, videoPath); err != nil {
		return "", err
	}
	fmt.Fprintf(out, "   视频: %s\n", videoPath)
	return videoPath, nil
}

func (a *app) composer() (*ffmpeg.Composer, error) {
	c := &ffmpeg.Composer{
		Executor: &ffmpeg.LocalExecutor{Binary: a.cfg.FFmpeg.Binary, Logger: a.entry()},
		Prober: &ffmpeg.LocalProber{
			Executor: &ffmpeg.LocalExecutor{Binary: a.cfg.FFmpeg.ProbeBinary, Logger: a.entry()},
		},
		Logger: a.entry(),
	}
	if a.cfg.FFmpeg.PresetFile != "" {
		lib, err := ffmpeg.LoadPresetFile(a.cfg.FFmpeg.PresetFile)
		if err != nil {
			return nil, err
		}
		c.Presets = lib
	}
	return c, nil
}

// truncateRunes cuts s to at most n runes.
func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
