package ffmpeg

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPresetArgs(t *testing.T) {
	preset := Preset{
		VideoCodec:   "libx264",
		Tune:         "stillimage",
		AudioCodec:   "aac",
		AudioBitrate: "192k",
		PixelFormat:  "yuv420p",
		ExtraArgs:    []string{"-movflags", "+faststart"},
	}
	got := preset.Args()
	want := []string{
		"-c:v", "libx264",
		"-tune", "stillimage",
		"-c:a", "aac",
		"-b:a", "192k",
		"-pix_fmt", "yuv420p",
		"-movflags", "+faststart",
	}
	if len(got) != len(want) {
		t.Fatalf("args length mismatch: got %d want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("args[%d]=%q want %q", i, got[i], want[i])
		}
	}
}

func TestStillImagePresetMatchesPublishProfile(t *testing.T) {
	got := StillImagePreset().Args()
	want := []string{"-c:v", "libx264", "-tune", "stillimage", "-c:a", "aac", "-b:a", "192k", "-pix_fmt", "yuv420p"}
	if len(got) != len(want) {
		t.Fatalf("args length mismatch: got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("args[%d]=%q want %q", i, got[i], want[i])
		}
	}
}

func TestLoadPresetFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	contents := []byte(`presets:
  still:
    video_codec: libx265
    tune: stillimage
    audio_codec: aac
    audio_bitrate: 128k
    pixel_format: yuv420p
    extra_args:
      - -movflags
      - +faststart
`)
	if err := os.WriteFile(path, contents, 0o644); err != nil {
		t.Fatalf("write presets: %v", err)
	}
	lib, err := LoadPresetFile(path)
	if err != nil {
		t.Fatalf("load presets: %v", err)
	}
	preset, ok := lib.Get("still")
	if !ok {
		t.Fatal("expected preset to be loaded")
	}
	if preset.VideoCodec != "libx265" || preset.AudioBitrate != "128k" {
		t.Fatalf("unexpected preset mapping: %+v", preset)
	}
	if preset.Name != "still" {
		t.Fatalf("preset name not set: %s", preset.Name)
	}
}

func TestLoadPresetFileMissing(t *testing.T) {
	if _, err := LoadPresetFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestNilLibraryGet(t *testing.T) {
	var lib *PresetLibrary
	if _, ok := lib.Get("still"); ok {
		t.Fatal("nil library should miss")
	}
}
