package feed

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// captureHeight is how far down the timeline the capture tool scrolls.
const captureHeight = "4000"

const fetchTimeout = 120 * time.Second

// Runner is the exec boundary for the capture command, injectable so tests
// record the argv.
type Runner interface {
	Output(ctx context.Context, name string, args []string) (string, error)
}

type execRunner struct{}

func (execRunner) Output(ctx context.Context, name string, args []string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", errors.Wrapf(err, "%s: %s", name, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// Fetcher captures the timeline as OCR text through an external command that
// screenshots the feed and prints the recognized text.
type Fetcher struct {
	// Command defaults to "twfeed".
	Command string
	Runner  Runner
	Logger  *logrus.Entry
}

// Fetch runs the capture and returns the raw OCR text.
func (f *Fetcher) Fetch(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	command := f.Command
	if command == "" {
		command = "twfeed"
	}
	if f.Logger != nil {
		f.Logger.WithField("command", command).Info("抓取时间线")
	}
	out, err := f.runner().Output(ctx, command, []string{"--height", captureHeight})
	if err != nil {
		return "", errors.Wrap(err, "抓取时间线")
	}
	text := strings.TrimSpace(out)
	if text == "" {
		return "", errors.New("时间线抓取结果为空")
	}
	return text, nil
}

func (f *Fetcher) runner() Runner {
	if f.Runner != nil {
		return f.Runner
	}
	return execRunner{}
}
