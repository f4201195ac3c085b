package detect

import (
	"math"
	"testing"
)

// testProfile builds an EnergyProfile directly from smoothed values with
// 0.5 s windows, bypassing PCM. The raw RMS mirrors the smoothed sequence;
// individual heuristics only read Smoothed.
func testProfile(smoothed []float64, span int) *EnergyProfile {
	rms := make([]float64, len(smoothed))
	copy(rms, smoothed)
	return &EnergyProfile{
		RMS:           rms,
		Smoothed:      smoothed,
		WindowSeconds: 0.5,
		SmoothingSpan: span,
		sampleRate:    44100,
	}
}

func TestScoreCandidatesUniformProfile(t *testing.T) {
	// Uniform loudness: no heuristic beyond spacing can fire, and spacing
	// alone (0.2) never clears the acceptance threshold.
	smoothed := make([]float64, 100)
	for i := range smoothed {
		smoothed[i] = 0.5
	}

	got := ScoreCandidates(testProfile(smoothed, 10), DefaultSettings())
	if len(got) != 0 {
		t.Errorf("expected no candidates on uniform profile, got %d", len(got))
	}
}

func TestScoreCandidatesSkipsEndpoints(t *testing.T) {
	// A dip at index 0 or len-1 must never be scored: endpoints lack a
	// neighbour on one side.
	smoothed := []float64{0, 0.5, 0.5, 0.5, 0}
	got := ScoreCandidates(testProfile(smoothed, 2), DefaultSettings())
	for _, c := range got {
		if c.Time == 0 || c.Time == 2.0 {
			t.Errorf("endpoint candidate at t=%v", c.Time)
		}
	}
}

func TestScoreCandidatesDeepDip(t *testing.T) {
	// Loud plateau with a deep narrow dip: the dip bottom should collect
	// threshold + local minimum + sustained drop + spacing.
	smoothed := make([]float64, 60)
	for i := range smoothed {
		smoothed[i] = 0.5
	}
	smoothed[29] = 0.45
	smoothed[30] = 0.01
	smoothed[31] = 0.45

	got := ScoreCandidates(testProfile(smoothed, 4), DefaultSettings())
	if len(got) == 0 {
		t.Fatal("expected candidates at the dip")
	}

	var best Candidate
	for _, c := range got {
		if c.Confidence > best.Confidence {
			best = c
		}
	}
	if math.Abs(best.Time-15.0) > 1e-9 {
		t.Errorf("best candidate at t=%v, want 15.0", best.Time)
	}
	if math.Abs(best.Confidence-1.0) > 1e-9 {
		t.Errorf("best confidence = %v, want 1.0 (all four heuristics)", best.Confidence)
	}
}

func TestScoreCandidatesSpacingSuppressed(t *testing.T) {
	// Two deep dips closer together than MinSongDuration/2: the second dip
	// gets no spacing bonus.
	smoothed := make([]float64, 80)
	for i := range smoothed {
		smoothed[i] = 0.5
	}
	smoothed[20] = 0.01 // t=10s
	smoothed[30] = 0.01 // t=15s, 5s later; min gap is 15s

	got := ScoreCandidates(testProfile(smoothed, 4), DefaultSettings())

	var first, second *Candidate
	for i := range got {
		switch got[i].Time {
		case 10.0:
			first = &got[i]
		case 15.0:
			second = &got[i]
		}
	}
	if first == nil || second == nil {
		t.Fatalf("expected candidates at both dips, got %+v", got)
	}
	if diff := first.Confidence - second.Confidence; math.Abs(diff-scoreSpacing) > 1e-9 {
		t.Errorf("confidence gap = %v, want spacing weight %v", diff, scoreSpacing)
	}
}

func TestScoreCandidatesAbsoluteThreshold(t *testing.T) {
	// A quiet recording throughout: the relative floor drops below the
	// absolute sensitivity, so the absolute threshold governs.
	smoothed := make([]float64, 40)
	for i := range smoothed {
		smoothed[i] = 0.005 // ~-46 dBFS, below -40 dB sensitivity
	}
	smoothed[20] = 0.001

	settings := DefaultSettings() // SensitivityDb -40 -> 0.01 linear
	got := ScoreCandidates(testProfile(smoothed, 4), settings)

	found := false
	for _, c := range got {
		if c.Time == 10.0 {
			found = true
		}
	}
	if !found {
		t.Error("expected the dip below the absolute threshold to be scored")
	}
}

func TestSustainedDrop(t *testing.T) {
	tests := []struct {
		name     string
		smoothed []float64
		i        int
		span     int
		want     bool
	}{
		{
			name:     "clear drop both sides",
			smoothed: []float64{0.5, 0.5, 0.1, 0.5, 0.5},
			i:        2,
			span:     2,
			want:     true,
		},
		{
			name:     "drop only before",
			smoothed: []float64{0.5, 0.5, 0.1, 0.1, 0.1},
			i:        2,
			span:     2,
			want:     false,
		},
		{
			name:     "shrinks near bound",
			smoothed: []float64{0.5, 0.1, 0.5, 0.5},
			i:        1,
			span:     10,
			want:     true,
		},
		{
			name:     "zero span",
			smoothed: []float64{0.5, 0.1, 0.5},
			i:        1,
			span:     0,
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sustainedDrop(tt.smoothed, tt.i, tt.span); got != tt.want {
				t.Errorf("sustainedDrop() = %v, want %v", got, tt.want)
			}
		})
	}
}
