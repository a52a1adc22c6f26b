package tts

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type stubRunner struct {
	names []string
	calls [][]string
	err   error
}

func (s *stubRunner) Run(_ context.Context, name string, args []string) error {
	s.names = append(s.names, name)
	s.calls = append(s.calls, append([]string(nil), args...))
	return s.err
}

func TestEdgeProviderBuildsExpectedArgv(t *testing.T) {
	runner := &stubRunner{}
	p := &EdgeProvider{Binary: "edge-tts-test", Runner: runner}

	res, err := p.Synthesize(context.Background(), Request{Text: "今天的网络见闻", Output: "/tmp/music.mp3"})
	if err != nil {
		t.Fatalf("synthesize failed: %v", err)
	}
	if len(runner.calls) != 1 {
		t.Fatalf("expected one exec call, got %d", len(runner.calls))
	}
	if runner.names[0] != "edge-tts-test" {
		t.Fatalf("expected configured binary, got %q", runner.names[0])
	}
	want := []string{"--text", "今天的网络见闻", "--voice", DefaultVoice, "--write-media", "/tmp/music.mp3"}
	got := runner.calls[0]
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Fatalf("argv mismatch:\n got %v\nwant %v", got, want)
	}
	if res.Path != "/tmp/music.mp3" {
		t.Fatalf("unexpected result path %q", res.Path)
	}
	if res.Voice != DefaultVoice {
		t.Fatalf("unexpected voice %q", res.Voice)
	}
}

func TestEdgeProviderVoicePrecedence(t *testing.T) {
	runner := &stubRunner{}
	p := &EdgeProvider{Voice: "zh-CN-YunyangNeural", Runner: runner}

	res, err := p.Synthesize(context.Background(), Request{Text: "你好", Voice: "zh-CN-XiaoyiNeural", Output: "out.mp3"})
	if err != nil {
		t.Fatalf("synthesize failed: %v", err)
	}
	if res.Voice != "zh-CN-XiaoyiNeural" {
		t.Fatalf("request voice should win, got %q", res.Voice)
	}

	res, err = p.Synthesize(context.Background(), Request{Text: "你好", Output: "out.mp3"})
	if err != nil {
		t.Fatalf("synthesize failed: %v", err)
	}
	if res.Voice != "zh-CN-YunyangNeural" {
		t.Fatalf("provider voice should win over default, got %q", res.Voice)
	}
}

func TestEdgeProviderRejectsEmptyInput(t *testing.T) {
	p := &EdgeProvider{Runner: &stubRunner{}}
	if _, err := p.Synthesize(context.Background(), Request{Text: "  ", Output: "out.mp3"}); err == nil {
		t.Fatal("expected error for blank text")
	}
	if _, err := p.Synthesize(context.Background(), Request{Text: "你好"}); err == nil {
		t.Fatal("expected error for missing output path")
	}
}

func TestEdgeProviderSurfacesRunnerFailure(t *testing.T) {
	runner := &stubRunner{err: errors.New("boom")}
	p := &EdgeProvider{Runner: runner}
	if _, err := p.Synthesize(context.Background(), Request{Text: "你好", Output: "out.mp3"}); err == nil {
		t.Fatal("expected runner failure to surface")
	}
}

func TestMockProviderWritesWAV(t *testing.T) {
	out := filepath.Join(t.TempDir(), "music.wav")
	// 36 runes at 12 runes/second is a 3 second clip.
	text := strings.Repeat("字", 36)

	res, err := MockProvider{SampleRate: 16000}.Synthesize(context.Background(), Request{Text: text, Output: out})
	if err != nil {
		t.Fatalf("synthesize failed: %v", err)
	}
	if res.Duration != 3*time.Second {
		t.Fatalf("expected 3s duration, got %s", res.Duration)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		t.Fatalf("output is not a WAV file: % x", data[:12])
	}
	wantLen := 44 + 3*16000*2
	if len(data) != wantLen {
		t.Fatalf("expected %d bytes, got %d", wantLen, len(data))
	}
}

func TestEstimateDurationFloor(t *testing.T) {
	if d := estimateDuration("短"); d != 2*time.Second {
		t.Fatalf("expected 2s floor, got %s", d)
	}
	if d := estimateDuration(""); d != 2*time.Second {
		t.Fatalf("expected 2s floor for empty text, got %s", d)
	}
}

func TestProviderNames(t *testing.T) {
	if (&EdgeProvider{}).Name() != "edge-tts" {
		t.Fatal("unexpected edge provider name")
	}
	if (MockProvider{}).Name() != "mock" {
		t.Fatal("unexpected mock provider name")
	}
}
