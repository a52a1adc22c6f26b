package ffmpeg

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type stubExecutor struct {
	runCalls       [][]string
	captureCalls   [][]string
	captureOutputs []string
	runErr         error
	captureErr     error
}

func (s *stubExecutor) Run(ctx context.Context, args []string) error {
	s.runCalls = append(s.runCalls, append([]string(nil), args...))
	return s.runErr
}

func (s *stubExecutor) RunWithOutput(ctx context.Context, args []string) (string, error) {
	s.captureCalls = append(s.captureCalls, append([]string(nil), args...))
	if s.captureErr != nil {
		return "", s.captureErr
	}
	if len(s.captureOutputs) == 0 {
		return "", nil
	}
	out := s.captureOutputs[0]
	s.captureOutputs = s.captureOutputs[1:]
	return out, nil
}

func TestComposeStillBuildsExpectedCommand(t *testing.T) {
	exec := &stubExecutor{captureOutputs: []string{"3.500000\n"}}
	composer := &Composer{
		Executor: exec,
		Prober:   &LocalProber{Executor: exec},
	}

	d, err := composer.ComposeStill(context.Background(), "cover.png", "music.mp3", "video.mp4")
	if err != nil {
		t.Fatalf("compose failed: %v", err)
	}
	if d != 3500*time.Millisecond {
		t.Fatalf("unexpected duration: %v", d)
	}
	if len(exec.runCalls) != 1 {
		t.Fatalf("expected one ffmpeg call, got %d", len(exec.runCalls))
	}
	want := "-y -loop 1 -i cover.png -i music.mp3 " +
		"-c:v libx264 -tune stillimage -c:a aac -b:a 192k -pix_fmt yuv420p " +
		"-shortest -t 3.50 video.mp4"
	if got := strings.Join(exec.runCalls[0], " "); got != want {
		t.Fatalf("command mismatch:\n got %s\nwant %s", got, want)
	}
}

func TestComposeStillHonorsPresetOverride(t *testing.T) {
	exec := &stubExecutor{captureOutputs: []string{"2.000000\n"}}
	composer := &Composer{
		Executor: exec,
		Prober:   &LocalProber{Executor: exec},
		Presets: NewPresetLibrary(map[string]Preset{
			"still": {VideoCodec: "libx265", AudioCodec: "aac", AudioBitrate: "128k", PixelFormat: "yuv420p"},
		}),
	}

	if _, err := composer.ComposeStill(context.Background(), "c.png", "m.mp3", "v.mp4"); err != nil {
		t.Fatalf("compose failed: %v", err)
	}
	joined := strings.Join(exec.runCalls[0], " ")
	if !strings.Contains(joined, "-c:v libx265") || !strings.Contains(joined, "-b:a 128k") {
		t.Fatalf("expected override codec args, got %s", joined)
	}
	if strings.Contains(joined, "libx264") {
		t.Fatalf("built-in profile leaked into %s", joined)
	}
}

func TestComposeStillProbeFailureStopsCompose(t *testing.T) {
	exec := &stubExecutor{captureErr: errors.New("no such file")}
	composer := &Composer{Executor: exec, Prober: &LocalProber{Executor: exec}}

	if _, err := composer.ComposeStill(context.Background(), "c.png", "m.mp3", "v.mp4"); err == nil {
		t.Fatal("expected probe failure to surface")
	}
	if len(exec.runCalls) != 0 {
		t.Fatalf("compose must not run after probe failure, got %d calls", len(exec.runCalls))
	}
}

func TestComposeStillRunFailure(t *testing.T) {
	exec := &stubExecutor{captureOutputs: []string{"2.000000\n"}, runErr: errors.New("encoder blew up")}
	composer := &Composer{Executor: exec, Prober: &LocalProber{Executor: exec}}

	if _, err := composer.ComposeStill(context.Background(), "c.png", "m.mp3", "v.mp4"); err == nil {
		t.Fatal("expected run failure to surface")
	}
}
