package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"douyin/internal/cover"
	"douyin/internal/post"
)

func newCoverCommand(a *app) *cobra.Command {
	var fontPath string

	cmd := &cobra.Command{
		Use:   "cover <text>",
		Short: "🎨 生成封面图片",
		Long: `生成 1080x1920 的竖屏封面并建立帖子目录。

文字中的 \n 会被当作换行，第一行是标题，其余是正文。
帖子目录按时间戳命名，post.json 记录标题和正文。`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.ReplaceAll(args[0], `\n`, "\n")

			store := a.store()
			dir, err := store.CreatePostDir(text)
			if err != nil {
				return err
			}

			title, body := splitTitleBody(text)
			meta := post.Meta{Title: title, Body: body, Cover: post.CoverFile}
			if err := store.WriteMeta(dir, meta); err != nil {
				return err
			}

			out := filepath.Join(dir, post.CoverFile)
			r := &cover.Renderer{FontPath: fontPath, Logger: a.entry()}
			if err := r.Render(text, out); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "封面: %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVar(&fontPath, "font", "", "中文字体文件路径 (默认自动查找)")
	return cmd
}

func splitTitleBody(text string) (title, body string) {
	lines := strings.Split(text, "\n")
	title = strings.TrimSpace(lines[0])
	body = strings.TrimSpace(strings.Join(lines[1:], "\n"))
	return title, body
}
