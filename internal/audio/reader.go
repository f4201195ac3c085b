package audio

import (
	"fmt"
	"os"

	"github.com/go-audio/wav"
)

// ReadWAV decodes a WAV file into a Buffer. Samples are normalised to
// [-1, 1] from the container's declared bit depth. The engine itself never
// parses container bytes; this is the external-decoder collaborator for the
// common uncompressed case.
func ReadWAV(path string) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	return DecodeWAV(f)
}

// DecodeWAV decodes WAV data from an io.ReadSeeker.
func DecodeWAV(r *os.File) (*Buffer, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("not a valid WAV file: %s", r.Name())
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to read PCM data: %w", err)
	}

	bitDepth := int(decoder.BitDepth)
	if bitDepth == 0 {
		bitDepth = 16
	}
	scale := float32(int64(1) << (bitDepth - 1))

	data := make([]float32, len(buf.Data))
	for i, s := range buf.Data {
		data[i] = float32(s) / scale
	}

	out := &Buffer{
		Data:       data,
		SampleRate: buf.Format.SampleRate,
		Channels:   buf.Format.NumChannels,
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}
