package detect

import (
	"math"
	"testing"
)

// regionCandidate builds a candidate strong enough to seed a quiet region.
func regionCandidate(t float64) Candidate {
	return Candidate{Time: t, Confidence: 0.8}
}

func songsEqual(a, b []Song) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name ||
			math.Abs(a[i].Start-b[i].Start) > 1e-9 ||
			math.Abs(a[i].End-b[i].End) > 1e-9 {
			return false
		}
	}
	return true
}

func TestMergeQuietRegions(t *testing.T) {
	settings := DefaultSettings() // MinSilenceDuration 5s -> half-width 2.5s

	tests := []struct {
		name       string
		candidates []Candidate
		total      float64
		want       []quietRegion
	}{
		{
			name:       "no candidates",
			candidates: nil,
			total:      100,
			want:       nil,
		},
		{
			name: "weak candidates filtered",
			candidates: []Candidate{
				{Time: 50, Confidence: 0.5},
				{Time: 60, Confidence: 0.6}, // exactly at the bar, excluded
			},
			total: 100,
			want:  nil,
		},
		{
			name:       "single region",
			candidates: []Candidate{regionCandidate(50)},
			total:      100,
			want:       []quietRegion{{start: 47.5, end: 52.5}},
		},
		{
			name: "touching regions merge",
			candidates: []Candidate{
				regionCandidate(50),
				regionCandidate(53), // [50.5, 55.5] starts inside previous
			},
			total: 100,
			want:  []quietRegion{{start: 47.5, end: 55.5}},
		},
		{
			name: "distant regions stay apart",
			candidates: []Candidate{
				regionCandidate(30),
				regionCandidate(70),
			},
			total: 100,
			want: []quietRegion{
				{start: 27.5, end: 32.5},
				{start: 67.5, end: 72.5},
			},
		},
		{
			name:       "clamped to start",
			candidates: []Candidate{regionCandidate(1)},
			total:      100,
			want:       []quietRegion{{start: 0, end: 3.5}},
		},
		{
			name:       "clamped to end",
			candidates: []Candidate{regionCandidate(99)},
			total:      100,
			want:       []quietRegion{{start: 96.5, end: 100}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mergeQuietRegions(tt.candidates, tt.total, settings)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d regions, want %d: %+v", len(got), len(tt.want), got)
			}
			for i := range got {
				if math.Abs(got[i].start-tt.want[i].start) > 1e-9 ||
					math.Abs(got[i].end-tt.want[i].end) > 1e-9 {
					t.Errorf("region %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSegment(t *testing.T) {
	settings := DefaultSettings() // MinSilence 5s, MinSong 30s

	tests := []struct {
		name       string
		candidates []Candidate
		total      float64
		want       []Song
	}{
		{
			name:       "no quiet regions proposes nothing",
			candidates: nil,
			total:      120,
			want:       nil,
		},
		{
			name:       "single boundary two songs",
			candidates: []Candidate{regionCandidate(90)},
			total:      200,
			want: []Song{
				{Name: "Song 1", Start: 0, End: 87.5},
				{Name: "Song 2", Start: 92.5, End: 200},
			},
		},
		{
			name:       "trailing remainder too short",
			candidates: []Candidate{regionCandidate(90)},
			total:      110, // 110 - 92.5 < 30
			want: []Song{
				{Name: "Song 1", Start: 0, End: 87.5},
			},
		},
		{
			name: "short stretch skipped without advancing start",
			candidates: []Candidate{
				regionCandidate(12.5), // region [10,15]; 10s stretch skipped
				regionCandidate(42.5), // region [40,45]; 40s from t=0 qualifies
			},
			total: 100,
			want: []Song{
				{Name: "Song 1", Start: 0, End: 40},
				{Name: "Song 2", Start: 45, End: 100},
			},
		},
		{
			name:       "stretch of exactly minimum duration retained",
			candidates: []Candidate{regionCandidate(32.5)}, // region starts at 30.0
			total:      100,
			want: []Song{
				{Name: "Song 1", Start: 0, End: 30},
				{Name: "Song 2", Start: 35, End: 100},
			},
		},
		{
			name:       "stretch just under minimum dropped",
			candidates: []Candidate{regionCandidate(32.4)}, // region starts at 29.9
			total:      100,
			want: []Song{
				// only the trailing song from t=0; songStart never advanced
				{Name: "Song 1", Start: 0, End: 100},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Segment(tt.candidates, tt.total, settings)
			if !songsEqual(got, tt.want) {
				t.Errorf("Segment() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSegmentSortedNonOverlapping(t *testing.T) {
	candidates := []Candidate{
		regionCandidate(40),
		regionCandidate(41), // merges with previous
		regionCandidate(100),
		regionCandidate(160),
	}
	got := Segment(candidates, 250, DefaultSettings())
	if len(got) < 2 {
		t.Fatalf("expected several songs, got %+v", got)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Start < got[i-1].End {
			t.Errorf("songs %d and %d overlap: %+v %+v", i-1, i, got[i-1], got[i])
		}
	}
}
