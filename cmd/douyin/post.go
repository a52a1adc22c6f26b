package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"douyin/internal/douyin"
)

func newPostCommand(a *app) *cobra.Command {
	var (
		title       string
		description string
		hotspot     string
		useMusic    bool
		noMusic     bool
		debug       bool
	)

	cmd := &cobra.Command{
		Use:   "post <images...>",
		Short: "📤 发布图文到抖音",
		Long: `把一张或多张图片作为图文作品发布到抖音创作者平台。

需要已登录的浏览器会话；没有会话时会启动一个可见的 Chrome，
请在其中完成登录后重试。--debug 在点击发布前暂停，便于人工检查。`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			desc := douyin.NewPostDescriptor(args)
			desc.Title = title
			desc.Description = description
			desc.Hotspot = hotspot
			desc.Debug = debug

			desc.UseMusic = a.cfg.Publish.UseMusic
			if cmd.Flags().Changed("music") {
				desc.UseMusic = useMusic
			}
			if noMusic {
				desc.UseMusic = false
			}

			// Fail on bad input before any browser work starts.
			if err := desc.Validate(); err != nil {
				return err
			}

			err := a.runPublish(cmd.Context(), func(ctx context.Context, wf *douyin.Workflow) error {
				return wf.Run(ctx, desc)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s 已发布\n", green("✅"))
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "作品标题")
	cmd.Flags().StringVarP(&description, "description", "d", "", "作品描述")
	cmd.Flags().StringVar(&hotspot, "hotspot", "", "关联热点词")
	cmd.Flags().BoolVar(&useMusic, "music", true, "选择平台推荐音乐")
	cmd.Flags().BoolVar(&noMusic, "no-music", false, "不添加背景音乐")
	cmd.Flags().BoolVar(&debug, "debug", false, "发布前暂停等待确认")
	cmd.MarkFlagsMutuallyExclusive("music", "no-music")
	return cmd
}
