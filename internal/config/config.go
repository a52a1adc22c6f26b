// Package config loads the tool configuration from douyin.yaml, the
// DOUYIN_* environment and built-in defaults, in that precedence.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	DefaultControlURL = "http://127.0.0.1:9222"
	DefaultVoice      = "zh-CN-XiaoxiaoNeural"
)

// Config is the full tool configuration. Every field has a usable default;
// a missing config file is not an error.
type Config struct {
	Browser BrowserConfig `mapstructure:"browser"`
	Data    DataConfig    `mapstructure:"data"`
	Publish PublishConfig `mapstructure:"publish"`
	TTS     TTSConfig     `mapstructure:"tts"`
	FFmpeg  FFmpegConfig  `mapstructure:"ffmpeg"`
	Feed    FeedConfig    `mapstructure:"feed"`
}

type BrowserConfig struct {
	// ControlURL is the DevTools endpoint of the session browser.
	ControlURL string `mapstructure:"control_url"`
	// ChromePath overrides binary discovery when set.
	ChromePath    string        `mapstructure:"chrome_path"`
	ProfileDir    string        `mapstructure:"profile_dir"`
	AttachTimeout time.Duration `mapstructure:"attach_timeout"`
}

type DataConfig struct {
	// Dir holds the per-post output directories.
	Dir string `mapstructure:"dir"`
}

type PublishConfig struct {
	UseMusic bool           `mapstructure:"use_music"`
	Timeouts TimeoutsConfig `mapstructure:"timeouts"`
}

// TimeoutsConfig bounds the individual publish waits.
type TimeoutsConfig struct {
	Navigate time.Duration `mapstructure:"navigate"`
	Login    time.Duration `mapstructure:"login"`
	Upload   time.Duration `mapstructure:"upload"`
	Element  time.Duration `mapstructure:"element"`
	Suggest  time.Duration `mapstructure:"suggest"`
	Reveal   time.Duration `mapstructure:"reveal"`
	Submit   time.Duration `mapstructure:"submit"`
	Process  time.Duration `mapstructure:"process"`
}

type TTSConfig struct {
	Voice  string `mapstructure:"voice"`
	Binary string `mapstructure:"binary"`
}

type FFmpegConfig struct {
	Binary      string `mapstructure:"binary"`
	ProbeBinary string `mapstructure:"probe_binary"`
	// PresetFile optionally overrides the built-in encoder presets.
	PresetFile string `mapstructure:"preset_file"`
}

type FeedConfig struct {
	// Command captures the feed screenshot text, e.g. twfeed.
	Command string `mapstructure:"command"`
}

// Default returns the configuration used when nothing else is set.
func Default() Config {
	base := defaultBase()
	return Config{
		Browser: BrowserConfig{
			ControlURL:    DefaultControlURL,
			ProfileDir:    filepath.Join(base, "chrome-profile"),
			AttachTimeout: 30 * time.Second,
		},
		Data: DataConfig{Dir: filepath.Join(base, "data")},
		Publish: PublishConfig{
			UseMusic: true,
			Timeouts: TimeoutsConfig{
				Navigate: 60 * time.Second,
				Login:    15 * time.Second,
				Upload:   30 * time.Second,
				Element:  10 * time.Second,
				Suggest:  5 * time.Second,
				Reveal:   10 * time.Second,
				Submit:   10 * time.Second,
				Process:  120 * time.Second,
			},
		},
		TTS:    TTSConfig{Voice: DefaultVoice, Binary: "edge-tts"},
		FFmpeg: FFmpegConfig{Binary: "ffmpeg", ProbeBinary: "ffprobe"},
		Feed:   FeedConfig{Command: "twfeed"},
	}
}

// Load reads douyin.yaml from $HOME/.douyin or the working directory. A
// missing file leaves the defaults in place.
func Load() (Config, error) {
	v := newViper()
	v.SetConfigName("douyin")
	v.SetConfigType("yaml")
	v.AddConfigPath(defaultBase())
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, errors.Wrap(err, "read config")
		}
	}
	return unmarshal(v)
}

// LoadFile reads one explicit config file; here a missing file is an error.
func LoadFile(path string) (Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Config{}, errors.Wrapf(err, "read config %s", path)
	}
	return unmarshal(v)
}

func unmarshal(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "parse config")
	}
	return cfg, nil
}

// newViper registers every key with its default so partial files and the
// environment both merge cleanly.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("DOUYIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := Default()
	v.SetDefault("browser.control_url", def.Browser.ControlURL)
	v.SetDefault("browser.chrome_path", def.Browser.ChromePath)
	v.SetDefault("browser.profile_dir", def.Browser.ProfileDir)
	v.SetDefault("browser.attach_timeout", def.Browser.AttachTimeout)
	v.SetDefault("data.dir", def.Data.Dir)
	v.SetDefault("publish.use_music", def.Publish.UseMusic)
	v.SetDefault("publish.timeouts.navigate", def.Publish.Timeouts.Navigate)
	v.SetDefault("publish.timeouts.login", def.Publish.Timeouts.Login)
	v.SetDefault("publish.timeouts.upload", def.Publish.Timeouts.Upload)
	v.SetDefault("publish.timeouts.element", def.Publish.Timeouts.Element)
	v.SetDefault("publish.timeouts.suggest", def.Publish.Timeouts.Suggest)
	v.SetDefault("publish.timeouts.reveal", def.Publish.Timeouts.Reveal)
	v.SetDefault("publish.timeouts.submit", def.Publish.Timeouts.Submit)
	v.SetDefault("publish.timeouts.process", def.Publish.Timeouts.Process)
	v.SetDefault("tts.voice", def.TTS.Voice)
	v.SetDefault("tts.binary", def.TTS.Binary)
	v.SetDefault("ffmpeg.binary", def.FFmpeg.Binary)
	v.SetDefault("ffmpeg.probe_binary", def.FFmpeg.ProbeBinary)
	v.SetDefault("ffmpeg.preset_file", def.FFmpeg.PresetFile)
	v.SetDefault("feed.command", def.Feed.Command)
	return v
}

func defaultBase() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "douyin")
	}
	return filepath.Join(home, ".douyin")
}
