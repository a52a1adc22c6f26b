// Package ffmpeg shells out to ffmpeg and ffprobe for the still-image video
// composition.
package ffmpeg

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Executor runs one external binary with prepared arguments. Tests stub it
// to record the argv.
type Executor interface {
	Run(ctx context.Context, args []string) error
	RunWithOutput(ctx context.Context, args []string) (string, error)
}

// LocalExecutor executes a fixed binary; one instance per tool, so the
// ffmpeg and ffprobe executors stay separate values.
type LocalExecutor struct {
	// Binary defaults to "ffmpeg".
	Binary string
	Logger *logrus.Entry
}

func (e *LocalExecutor) bin() string {
	if e.Binary != "" {
		return e.Binary
	}
	return "ffmpeg"
}

func (e *LocalExecutor) Run(ctx context.Context, args []string) error {
	e.logf(args)
	cmd := exec.CommandContext(ctx, e.bin(), args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return errors.Wrapf(err, "%s: %s", e.bin(), trimOutput(out))
	}
	return nil
}

func (e *LocalExecutor) RunWithOutput(ctx context.Context, args []string) (string, error) {
	e.logf(args)
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.bin(), args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", errors.Wrapf(err, "%s: %s", e.bin(), trimOutput(stderr.Bytes()))
	}
	return stdout.String(), nil
}

func (e *LocalExecutor) logf(args []string) {
	if e.Logger != nil {
		e.Logger.Debugf("%s %s", e.bin(), strings.Join(args, " "))
	}
}

// trimOutput keeps the tail of tool output, which is where ffmpeg puts the
// actual failure reason.
func trimOutput(out []byte) string {
	s := strings.TrimSpace(string(out))
	const keep = 400
	if len(s) > keep {
		s = "..." + s[len(s)-keep:]
	}
	return s
}
