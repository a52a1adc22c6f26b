package ffmpeg

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ErrNoDuration marks media ffprobe could not time.
var ErrNoDuration = errors.New("ffprobe reported no duration")

// DurationProber reports how long a media file plays.
type DurationProber interface {
	ProbeDuration(ctx context.Context, path string) (time.Duration, error)
}

// LocalProber asks ffprobe. The zero value uses ffprobe from PATH.
type LocalProber struct {
	Executor Executor
}

func (p *LocalProber) ProbeDuration(ctx context.Context, path string) (time.Duration, error) {
	if strings.TrimSpace(path) == "" {
		return 0, errors.New("probe path is empty")
	}
	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	}
	out, err := p.executor().RunWithOutput(ctx, args)
	if err != nil {
		return 0, errors.Wrap(err, "ffprobe")
	}
	return parseProbeDuration(out)
}

func (p *LocalProber) executor() Executor {
	if p.Executor != nil {
		return p.Executor
	}
	return &LocalExecutor{Binary: "ffprobe"}
}

// parseProbeDuration converts ffprobe's bare seconds output.
func parseProbeDuration(out string) (time.Duration, error) {
	s := strings.TrimSpace(out)
	if s == "" || s == "N/A" {
		return 0, ErrNoDuration
	}
	secs, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "parse duration %q", s)
	}
	if secs <= 0 {
		return 0, ErrNoDuration
	}
	return time.Duration(secs * float64(time.Second)), nil
}
