// Package render plays a list of timed events through Cave offline and writes
// the result to a WAV file.
package render

import (
	"errors"
	"fmt"
	"io"
	"math"
	"slices"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/vsariola/cave"
)

// Renderer produces blocks of audio from events; *plugin.Plugin is one.
type Renderer interface {
	Process(events []cave.Event, out cave.AudioBuffer)
}

const wavFormatPCM = 1

var ErrBitDepth = errors.New("bit depth must be 16, 24 or 32")

// Render plays events, whose frames count from the start of the rendering,
// into a buffer of the given length. Audio is rendered in blocks of blockSize
// frames, each getting the events that fall inside it with their frames made
// relative to the block. Events at or past the end are never delivered.
func Render(r Renderer, events []cave.Event, channels, frames, blockSize int) cave.AudioBuffer {
	blockSize = max(blockSize, 1)
	events = slices.Clone(events)
	slices.SortStableFunc(events, func(a, b cave.Event) int { return a.Frame - b.Frame })
	out := cave.MakeAudioBuffer(channels, frames)
	block := make(cave.AudioBuffer, channels)
	pending := make([]cave.Event, 0, len(events))
	next := 0
	for start := 0; start < frames; start += blockSize {
		end := min(start+blockSize, frames)
		pending = pending[:0]
		for next < len(events) && events[next].Frame < end {
			ev := events[next]
			ev.Frame = max(ev.Frame-start, 0)
			pending = append(pending, ev)
			next++
		}
		for c := range block {
			block[c] = out[c][start:end]
		}
		r.Process(pending, block)
	}
	return out
}

// WriteWav encodes buf as integer PCM; samples outside [-1, 1] are clipped.
func WriteWav(w io.WriteSeeker, buf cave.AudioBuffer, sampleRate, bitDepth int) error {
	if bitDepth != 16 && bitDepth != 24 && bitDepth != 32 {
		return fmt.Errorf("%w, got %d", ErrBitDepth, bitDepth)
	}
	channels := len(buf)
	enc := wav.NewEncoder(w, sampleRate, bitDepth, channels, wavFormatPCM)
	scale := float64(int64(1)<<(bitDepth-1) - 1)
	data := make([]int, 0, buf.Frames()*channels)
	for f := range buf.Frames() {
		for _, ch := range buf {
			v := math.Max(-1, math.Min(1, float64(ch[f])))
			data = append(data, int(math.Round(v*scale)))
		}
	}
	ib := &audio.IntBuffer{
		Data:           data,
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(ib); err != nil {
		return fmt.Errorf("failed to write to WAV encoder: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finish WAV file: %w", err)
	}
	return nil
}
