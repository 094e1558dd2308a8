package window

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"sync"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"

	"github.com/vovakirdan/tui-overworld/internal/config"
)

// SampleRate is the audio context rate.
const SampleRate = 44100

var (
	audioOnce sync.Once
	audioCtx  *audio.Context
)

// audioContext returns the process-wide audio context; Ebitengine allows one.
func audioContext() *audio.Context {
	audioOnce.Do(func() {
		audioCtx = audio.NewContext(SampleRate)
	})
	return audioCtx
}

// AudioCue plays a short sound when a dialogue line starts.
type AudioCue struct {
	player *audio.Player
}

// NewAudioCue loads the WAV at path, or a synthesized blip when path is empty.
func NewAudioCue(path string) (*AudioCue, error) {
	ctx := audioContext()

	pcm := blip(ctx.SampleRate())
	if path != "" {
		b, err := os.ReadFile(config.ExpandHome(path))
		if err != nil {
			return nil, fmt.Errorf("window: read cue: %w", err)
		}
		stream, err := wav.DecodeWithSampleRate(ctx.SampleRate(), bytes.NewReader(b))
		if err != nil {
			return nil, fmt.Errorf("window: decode wav %q: %w", path, err)
		}
		if pcm, err = io.ReadAll(stream); err != nil {
			return nil, fmt.Errorf("window: decode wav %q: %w", path, err)
		}
	}

	return &AudioCue{player: ctx.NewPlayerFromBytes(pcm)}, nil
}

// Rewind moves playback back to the start.
func (c *AudioCue) Rewind() error {
	return c.player.SetPosition(0)
}

// Play starts playback.
func (c *AudioCue) Play() error {
	c.player.Play()
	return nil
}

// blip synthesizes a 60ms square wave at 880Hz as 16-bit stereo PCM with a
// linear fade out.
func blip(sampleRate int) []byte {
	const (
		freq     = 880.0
		lengthMS = 60
		volume   = 0.15
	)
	n := sampleRate * lengthMS / 1000
	out := make([]byte, 0, n*4)
	for i := 0; i < n; i++ {
		phase := math.Mod(float64(i)*freq/float64(sampleRate), 1)
		v := volume
		if phase >= 0.5 {
			v = -volume
		}
		v *= 1 - float64(i)/float64(n)
		s := uint16(int16(v * math.MaxInt16))
		out = binary.LittleEndian.AppendUint16(out, s) // left
		out = binary.LittleEndian.AppendUint16(out, s) // right
	}
	return out
}
