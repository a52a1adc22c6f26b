package ffmpeg

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParseProbeDuration(t *testing.T) {
	d, err := parseProbeDuration("5.500000\n")
	if err != nil {
		t.Fatalf("parseProbeDuration: %v", err)
	}
	if d != 5500*time.Millisecond {
		t.Fatalf("unexpected duration: %v", d)
	}
}

func TestParseProbeDurationUnusable(t *testing.T) {
	for _, out := range []string{"", "  \n", "N/A", "0.000000"} {
		if _, err := parseProbeDuration(out); !errors.Is(err, ErrNoDuration) {
			t.Fatalf("output %q: expected ErrNoDuration, got %v", out, err)
		}
	}
	if _, err := parseProbeDuration("not-a-number"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLocalProberRejectsEmptyPath(t *testing.T) {
	prober := &LocalProber{}
	if _, err := prober.ProbeDuration(context.Background(), " "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestLocalProberBuildsArgs(t *testing.T) {
	exec := &stubExecutor{captureOutputs: []string{"5.500000\n"}}
	prober := &LocalProber{Executor: exec}

	d, err := prober.ProbeDuration(context.Background(), "music.mp3")
	if err != nil {
		t.Fatalf("probe failed: %v", err)
	}
	if d != 5500*time.Millisecond {
		t.Fatalf("unexpected duration: %v", d)
	}
	if len(exec.captureCalls) != 1 {
		t.Fatalf("expected one ffprobe call, got %d", len(exec.captureCalls))
	}
	joined := strings.Join(exec.captureCalls[0], " ")
	if !strings.Contains(joined, "-show_entries format=duration") {
		t.Fatalf("unexpected ffprobe args: %s", joined)
	}
	if got := exec.captureCalls[0][len(exec.captureCalls[0])-1]; got != "music.mp3" {
		t.Fatalf("expected path as last arg, got %q", got)
	}
}
