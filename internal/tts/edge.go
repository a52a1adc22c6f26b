package tts

import (
	"context"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// CommandRunner is the exec boundary, injectable so tests can record the
// argv instead of running anything.
type CommandRunner interface {
	Run(ctx context.Context, name string, args []string) error
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args []string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return errors.Wrapf(err, "%s: %s", name, strings.TrimSpace(string(out)))
	}
	return nil
}

// EdgeProvider shells out to the edge-tts executable, which streams from the
// Microsoft Edge speech service and writes the media file itself.
type EdgeProvider struct {
	// Binary defaults to "edge-tts" on PATH.
	Binary string
	// Voice is the fallback when the request names none.
	Voice  string
	Runner CommandRunner
	Logger *logrus.Entry
}

func (p *EdgeProvider) Name() string { return "edge-tts" }

func (p *EdgeProvider) Synthesize(ctx context.Context, req Request) (Result, error) {
	if strings.TrimSpace(req.Text) == "" {
		return Result{}, errors.New("朗读文本为空")
	}
	if req.Output == "" {
		return Result{}, errors.New("输出路径为空")
	}
	voice := req.Voice
	if voice == "" {
		voice = p.Voice
	}
	if voice == "" {
		voice = DefaultVoice
	}
	binary := p.Binary
	if binary == "" {
		binary = "edge-tts"
	}

	if p.Logger != nil {
		p.Logger.WithFields(logrus.Fields{"voice": voice, "chars": len([]rune(req.Text))}).Info("合成语音")
	}
	args := []string{"--text", req.Text, "--voice", voice, "--write-media", req.Output}
	if err := p.runner().Run(ctx, binary, args); err != nil {
		return Result{}, errors.Wrap(err, "edge-tts")
	}
	return Result{Path: req.Output, ContentType: "audio/mpeg", Voice: voice}, nil
}

func (p *EdgeProvider) runner() CommandRunner {
	if p.Runner != nil {
		return p.Runner
	}
	return execRunner{}
}
