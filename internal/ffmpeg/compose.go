package ffmpeg

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const stillPresetName = "still"

// Composer builds publishable videos out of already-rendered parts.
type Composer struct {
	Executor Executor
	Prober   DurationProber
	// Presets may override the built-in still profile with a "still" entry.
	Presets *PresetLibrary
	Logger  *logrus.Entry
}

// ComposeStill loops one image under an audio track for exactly the audio's
// length and writes the result to out. Returns the probed duration.
func (c *Composer) ComposeStill(ctx context.Context, image, audio, out string) (time.Duration, error) {
	duration, err := c.prober().ProbeDuration(ctx, audio)
	if err != nil {
		return 0, err
	}
	if c.Logger != nil {
		c.Logger.WithField("duration", duration).Info("合成视频")
	}

	preset, ok := c.Presets.Get(stillPresetName)
	if !ok {
		preset = StillImagePreset()
	}
	args := []string{"-y", "-loop", "1", "-i", image, "-i", audio}
	args = append(args, preset.Args()...)
	args = append(args, "-shortest", "-t", formatSeconds(duration), out)

	if err := c.executor().Run(ctx, args); err != nil {
		return 0, errors.Wrap(err, "合成视频失败")
	}
	return duration, nil
}

func (c *Composer) executor() Executor {
	if c.Executor != nil {
		return c.Executor
	}
	return &LocalExecutor{}
}

func (c *Composer) prober() DurationProber {
	if c.Prober != nil {
		return c.Prober
	}
	return &LocalProber{}
}

func formatSeconds(d time.Duration) string {
	return fmt.Sprintf("%.2f", d.Seconds())
}
