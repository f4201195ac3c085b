// Package export slices the recording into one uncompressed WAV file per
// split. The container layout is the canonical 44-byte RIFF header
// followed by interleaved 16-bit signed little-endian samples; downstream
// consumers depend on that exact layout.
package export

import (
	"math"
	"strings"

	"github.com/gigsplit/gigsplit/internal/audio"
	"github.com/gigsplit/gigsplit/internal/split"
)

const (
	headerSize    = 44
	formatPCM     = 1
	bitsPerSample = 16
)

// Segment is one encoded split, ready to write to disk or hand to an
// archiver.
type Segment struct {
	SplitID  string
	Filename string
	Data     []byte
}

// Exporter encodes splits against one PCM buffer. Read-only with respect
// to both the buffer and the store.
type Exporter struct {
	buf *audio.Buffer
}

// New creates an exporter over the given buffer. Fails fast on an
// unusable buffer so a bad recording never yields a batch of broken
// files.
func New(buf *audio.Buffer) (*Exporter, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	return &Exporter{buf: buf}, nil
}

// Encode renders one split as a complete WAV file. Sample indices past the
// end of the buffer read as silence, so a split whose end was rounded past
// the true buffer end still encodes at full length.
func (e *Exporter) Encode(sp split.Split) Segment {
	rate := e.buf.SampleRate
	channels := e.buf.Channels

	startSample := int(math.Floor(sp.Start * float64(rate)))
	length := int(math.Floor(sp.End*float64(rate))) - startSample
	if length < 0 {
		length = 0
	}

	dataSize := length * channels * bitsPerSample / 8
	out := make([]byte, headerSize+dataSize)
	writeHeader(out, rate, channels, dataSize)

	at := headerSize
	for i := 0; i < length; i++ {
		for ch := 0; ch < channels; ch++ {
			v := sampleToInt16(e.buf.Channel(ch, startSample+i))
			out[at] = byte(v)
			out[at+1] = byte(v >> 8)
			at += 2
		}
	}

	return Segment{
		SplitID:  sp.ID,
		Filename: Filename(sp.Name),
		Data:     out,
	}
}

// Stream encodes splits one at a time in the given order, handing each
// segment to fn before the next is rendered, so peak memory stays at one
// split regardless of how many exist. A non-nil error from fn stops the
// batch.
func (e *Exporter) Stream(splits []split.Split, fn func(Segment) error) error {
	for _, sp := range splits {
		if err := fn(e.Encode(sp)); err != nil {
			return err
		}
	}
	return nil
}

// ExportAll encodes every split eagerly, in order.
func (e *Exporter) ExportAll(splits []split.Split) []Segment {
	out := make([]Segment, 0, len(splits))
	for _, sp := range splits {
		out = append(out, e.Encode(sp))
	}
	return out
}

// Filename maps a split name to a safe file name: every character outside
// [A-Za-z0-9] becomes an underscore, then the container extension.
func Filename(name string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, name)
	return safe + ".wav"
}

// writeHeader fills in the canonical 44-byte RIFF/WAVE/fmt/data header.
func writeHeader(b []byte, sampleRate, channels, dataSize int) {
	byteRate := sampleRate * channels * bitsPerSample / 8
	blockAlign := channels * bitsPerSample / 8

	copy(b[0:4], "RIFF")
	putLE32(b[4:8], uint32(36+dataSize))
	copy(b[8:12], "WAVE")

	copy(b[12:16], "fmt ")
	putLE32(b[16:20], 16)
	putLE16(b[20:22], formatPCM)
	putLE16(b[22:24], uint16(channels))
	putLE32(b[24:28], uint32(sampleRate))
	putLE32(b[28:32], uint32(byteRate))
	putLE16(b[32:34], uint16(blockAlign))
	putLE16(b[34:36], bitsPerSample)

	copy(b[36:40], "data")
	putLE32(b[40:44], uint32(dataSize))
}

// sampleToInt16 converts a float sample to 16-bit PCM, clamping to [-1, 1]
// first so an over-range decode cannot wrap.
func sampleToInt16(s float32) int16 {
	v := float64(s)
	if v > 1 {
		v = 1
	}
	if v < -1 {
		v = -1
	}
	return int16(math.Round(v * 32767))
}

func putLE16(b []byte, v uint16) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
}

func putLE32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}
