// Package audio provides the decoded PCM buffer model and WAV file decode glue.
package audio

import "errors"

// Static errors for buffer validation.
var (
	// ErrEmptyBuffer is returned when a buffer holds no samples.
	ErrEmptyBuffer = errors.New("audio: buffer holds no samples")
	// ErrBadSampleRate is returned when the sample rate is not positive.
	ErrBadSampleRate = errors.New("audio: sample rate must be positive")
)

// Buffer holds decoded PCM audio: interleaved float32 samples in [-1, 1],
// the sample rate in Hz and the channel count. A Buffer is immutable once
// produced by decode; the engine only ever reads from it.
type Buffer struct {
	Data       []float32 // interleaved, frame-major
	SampleRate int
	Channels   int
}

// Frames returns the number of sample frames (samples per channel).
func (b *Buffer) Frames() int {
	if b.Channels == 0 {
		return 0
	}
	return len(b.Data) / b.Channels
}

// Duration returns the buffer length in seconds.
func (b *Buffer) Duration() float64 {
	if b.SampleRate <= 0 {
		return 0
	}
	return float64(b.Frames()) / float64(b.SampleRate)
}

// Validate checks the buffer is usable for analysis or export.
func (b *Buffer) Validate() error {
	if b == nil || len(b.Data) == 0 {
		return ErrEmptyBuffer
	}
	if b.SampleRate <= 0 {
		return ErrBadSampleRate
	}
	return nil
}

// Mono returns the single analysis channel: channel 0 for mono input, an
// averaging downmix otherwise. The returned slice is freshly allocated for
// multi-channel input and aliases Data for mono input, which is safe because
// buffers are never mutated.
func (b *Buffer) Mono() []float32 {
	if b.Channels <= 1 {
		return b.Data
	}

	frames := b.Frames()
	mono := make([]float32, frames)
	inv := 1.0 / float32(b.Channels)
	for i := 0; i < frames; i++ {
		var sum float32
		base := i * b.Channels
		for ch := 0; ch < b.Channels; ch++ {
			sum += b.Data[base+ch]
		}
		mono[i] = sum * inv
	}
	return mono
}

// Channel returns frame index i of channel ch, or 0 when the index lies past
// the end of the buffer. Out-of-range reads are silence rather than errors so
// that a split rounded past the true buffer end still exports cleanly.
func (b *Buffer) Channel(ch, i int) float32 {
	idx := i*b.Channels + ch
	if i < 0 || idx >= len(b.Data) {
		return 0
	}
	return b.Data[idx]
}
