package tts

import (
	"bytes"
	"context"
	"encoding/binary"
	"math"
	"os"
	"time"

	"github.com/pkg/errors"
)

// MockProvider synthesizes silent audio for development and dry runs, sized
// from the text length so downstream timing code still has something real.
type MockProvider struct {
	SampleRate int
}

func (m MockProvider) Name() string { return "mock" }

// Synthesize writes a silent WAV to the requested output path.
func (m MockProvider) Synthesize(_ context.Context, req Request) (Result, error) {
	if req.Output == "" {
		return Result{}, errors.New("输出路径为空")
	}
	rate := m.SampleRate
	if rate <= 0 {
		rate = 16000
	}
	duration := estimateDuration(req.Text)
	if err := os.WriteFile(req.Output, silentWAV(duration, rate), 0o644); err != nil {
		return Result{}, errors.Wrap(err, "write mock audio")
	}
	return Result{
		Path:        req.Output,
		ContentType: "audio/wav",
		Duration:    duration,
		Voice:       req.Voice,
	}, nil
}

// estimateDuration assumes roughly 12 characters of Mandarin per second,
// with a two second floor.
func estimateDuration(text string) time.Duration {
	if len(text) == 0 {
		return 2 * time.Second
	}
	seconds := float64(len([]rune(text))) / 12.0
	seconds = math.Max(seconds, 2)
	return time.Duration(seconds * float64(time.Second))
}

// silentWAV renders a PCM16 mono file of zeros.
func silentWAV(duration time.Duration, sampleRate int) []byte {
	totalSamples := int(math.Ceil(duration.Seconds() * float64(sampleRate)))
	if totalSamples < sampleRate {
		totalSamples = sampleRate
	}
	dataSize := totalSamples * 2
	buf := bytes.NewBuffer(make([]byte, 0, 44+dataSize))
	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1))
	binary.Write(buf, binary.LittleEndian, uint16(1))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate*2))
	binary.Write(buf, binary.LittleEndian, uint16(2))
	binary.Write(buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(dataSize))
	buf.Write(make([]byte, dataSize))
	return buf.Bytes()
}
