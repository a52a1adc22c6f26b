package ffmpeg

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Preset describes reusable encoder settings for composed videos.
type Preset struct {
	Name         string
	VideoCodec   string
	Tune         string
	AudioCodec   string
	AudioBitrate string
	PixelFormat  string
	ExtraArgs    []string
}

// Args renders the preset as ffmpeg output arguments; argument order is
// stable so composed command lines stay reproducible.
func (p Preset) Args() []string {
	args := make([]string, 0, 10+len(p.ExtraArgs))
	if p.VideoCodec != "" {
		args = append(args, "-c:v", p.VideoCodec)
	}
	if p.Tune != "" {
		args = append(args, "-tune", p.Tune)
	}
	if p.AudioCodec != "" {
		args = append(args, "-c:a", p.AudioCodec)
	}
	if p.AudioBitrate != "" {
		args = append(args, "-b:a", p.AudioBitrate)
	}
	if p.PixelFormat != "" {
		args = append(args, "-pix_fmt", p.PixelFormat)
	}
	args = append(args, p.ExtraArgs...)
	return args
}

// StillImagePreset is the encoder profile for a cover looped under a
// narration track.
func StillImagePreset() Preset {
	return Preset{
		Name:         "still",
		VideoCodec:   "libx264",
		Tune:         "stillimage",
		AudioCodec:   "aac",
		AudioBitrate: "192k",
		PixelFormat:  "yuv420p",
	}
}

// PresetLibrary stores named presets loaded from disk.
type PresetLibrary struct {
	presets map[string]Preset
}

// NewPresetLibrary constructs a library from a map of presets.
func NewPresetLibrary(m map[string]Preset) *PresetLibrary {
	cp := make(map[string]Preset, len(m))
	for k, v := range m {
		v.Name = k
		cp[k] = v
	}
	return &PresetLibrary{presets: cp}
}

// Get retrieves a preset by name; safe on a nil library.
func (l *PresetLibrary) Get(name string) (Preset, bool) {
	if l == nil {
		return Preset{}, false
	}
	preset, ok := l.presets[name]
	return preset, ok
}

// LoadPresetFile reads presets from a YAML file on disk.
func LoadPresetFile(path string) (*PresetLibrary, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, errors.Wrap(err, "load preset file")
	}
	type rawPreset struct {
		VideoCodec   string   `yaml:"video_codec"`
		Tune         string   `yaml:"tune"`
		AudioCodec   string   `yaml:"audio_codec"`
		AudioBitrate string   `yaml:"audio_bitrate"`
		PixelFormat  string   `yaml:"pixel_format"`
		ExtraArgs    []string `yaml:"extra_args"`
	}
	var payload struct {
		Presets map[string]rawPreset `yaml:"presets"`
	}
	if err := yaml.Unmarshal(data, &payload); err != nil {
		return nil, errors.Wrap(err, "parse preset file")
	}
	presets := make(map[string]Preset, len(payload.Presets))
	for name, rp := range payload.Presets {
		presets[name] = Preset{
			Name:         name,
			VideoCodec:   rp.VideoCodec,
			Tune:         rp.Tune,
			AudioCodec:   rp.AudioCodec,
			AudioBitrate: rp.AudioBitrate,
			PixelFormat:  rp.PixelFormat,
			ExtraArgs:    append([]string(nil), rp.ExtraArgs...),
		}
	}
	return NewPresetLibrary(presets), nil
}
