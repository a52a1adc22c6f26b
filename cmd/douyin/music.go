package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"douyin/internal/config"
	"douyin/internal/post"
	"douyin/internal/tts"
)

func newMusicCommand(a *app) *cobra.Command {
	var voice string

	cmd := &cobra.Command{
		Use:   "music <text>",
		Short: "🎤 生成 TTS 配音",
		Long:  `用 edge-tts 把文字合成为语音，写入最新帖子目录的 ` + post.MusicFile + `。`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := a.store().Latest()
			if err != nil {
				return err
			}

			provider := &tts.EdgeProvider{
				Binary: a.cfg.TTS.Binary,
				Voice:  a.cfg.TTS.Voice,
				Logger: a.entry(),
			}
			res, err := provider.Synthesize(cmd.Context(), tts.Request{
				Text:   args[0],
				Voice:  voice,
				Output: filepath.Join(dir, post.MusicFile),
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "音乐: %s\n", res.Path)
			return nil
		},
	}

	cmd.Flags().StringVar(&voice, "voice", "", "TTS 声音 (默认 "+config.DefaultVoice+")")
	return cmd
}
