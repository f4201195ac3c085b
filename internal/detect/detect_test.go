package detect

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

const testRate = 4000

// loudTrack writes seconds of near-constant loud signal into dst starting
// at offset. A little seeded noise keeps the energy profile from producing
// exact ties between windows, which no real recording ever does.
func loudTrack(dst []float32, offset, seconds int, r *rand.Rand) {
	start := offset * testRate
	for i := 0; i < seconds*testRate; i++ {
		dst[start+i] = float32(0.5 + 0.02*(r.Float64()-0.5))
	}
}

func TestDetectInputErrors(t *testing.T) {
	tests := []struct {
		name    string
		pcm     []float32
		rate    int
		wantErr error
	}{
		{
			name:    "empty buffer",
			pcm:     nil,
			rate:    testRate,
			wantErr: ErrNoSamples,
		},
		{
			name:    "zero sample rate",
			pcm:     make([]float32, testRate),
			rate:    0,
			wantErr: ErrBadSampleRate,
		},
		{
			name:    "negative sample rate",
			pcm:     make([]float32, testRate),
			rate:    -1,
			wantErr: ErrBadSampleRate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			songs, err := Detect(tt.pcm, tt.rate, DefaultSettings(), nil)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Detect() error = %v, want %v", err, tt.wantErr)
			}
			if songs != nil {
				t.Errorf("Detect() returned songs alongside error: %+v", songs)
			}
		})
	}
}

func TestDetectUniformRecording(t *testing.T) {
	// Two minutes at constant loudness: no window ever stands out, so
	// nothing is proposed no matter the settings.
	pcm := make([]float32, 120*testRate)
	for i := range pcm {
		pcm[i] = 0.5
	}

	for _, sens := range []float64{-60, -40, -10} {
		settings := DefaultSettings()
		settings.SensitivityDb = sens

		songs, err := Detect(pcm, testRate, settings, nil)
		if err != nil {
			t.Fatalf("Detect() error = %v", err)
		}
		if len(songs) != 0 {
			t.Errorf("sensitivity %v: expected no songs on uniform audio, got %+v", sens, songs)
		}
	}
}

func TestDetectTwoSongs(t *testing.T) {
	// Loud 0..90s, silence 90..95s, loud 95..200s. The 5s gap matches the
	// default minimum silence, so the detected boundary region lands on it
	// to within the smoothing blur.
	r := rand.New(rand.NewSource(42))
	pcm := make([]float32, 200*testRate)
	loudTrack(pcm, 0, 90, r)
	loudTrack(pcm, 95, 105, r)

	songs, err := Detect(pcm, testRate, DefaultSettings(), nil)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if len(songs) != 2 {
		t.Fatalf("expected 2 songs, got %d: %+v", len(songs), songs)
	}

	if songs[0].Name != "Song 1" || songs[1].Name != "Song 2" {
		t.Errorf("names = %q, %q, want Song 1, Song 2", songs[0].Name, songs[1].Name)
	}
	if songs[0].Start != 0 {
		t.Errorf("first song starts at %v, want 0", songs[0].Start)
	}
	if math.Abs(songs[0].End-90) > 1.0 {
		t.Errorf("first song ends at %v, want ~90", songs[0].End)
	}
	if math.Abs(songs[1].Start-95) > 1.0 {
		t.Errorf("second song starts at %v, want ~95", songs[1].Start)
	}
	if songs[1].End != 200 {
		t.Errorf("second song ends at %v, want 200", songs[1].End)
	}
	if songs[0].End > songs[1].Start {
		t.Errorf("songs overlap: %+v", songs)
	}
}

func TestDetectDeterministic(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	pcm := make([]float32, 200*testRate)
	loudTrack(pcm, 0, 90, r)
	loudTrack(pcm, 95, 105, r)

	first, err := Detect(pcm, testRate, DefaultSettings(), nil)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	second, err := Detect(pcm, testRate, DefaultSettings(), nil)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if !songsEqual(first, second) {
		t.Errorf("detection not deterministic:\n%+v\n%+v", first, second)
	}
}

func TestDetectProgress(t *testing.T) {
	pcm := make([]float32, 30*testRate)
	for i := range pcm {
		pcm[i] = 0.25
	}

	var seen []float64
	_, err := Detect(pcm, testRate, DefaultSettings(), func(p float64) {
		seen = append(seen, p)
	})
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if len(seen) == 0 {
		t.Fatal("no progress reported")
	}
	for i, p := range seen {
		if p < 0 || p > 1 {
			t.Errorf("progress %d = %v, outside [0,1]", i, p)
		}
		if i > 0 && p < seen[i-1] {
			t.Errorf("progress went backwards at %d: %v -> %v", i, seen[i-1], p)
		}
	}
	if last := seen[len(seen)-1]; last != 1.0 {
		t.Errorf("final progress = %v, want 1.0", last)
	}
}
