// Package tts turns narration text into an audio file on disk.
package tts

import (
	"context"
	"time"
)

// DefaultVoice is the Mandarin voice used when a request names none.
const DefaultVoice = "zh-CN-XiaoxiaoNeural"

// Request asks for one synthesis into the Output path.
type Request struct {
	Text   string
	Voice  string
	Output string
}

// Result describes the synthesized file. Duration is zero when the provider
// cannot know it; callers probe the file instead.
type Result struct {
	Path        string
	ContentType string
	Duration    time.Duration
	Voice       string
}

// Provider synthesizes speech. Implementations write the audio themselves
// and report where it landed.
type Provider interface {
	Name() string
	Synthesize(ctx context.Context, req Request) (Result, error)
}
