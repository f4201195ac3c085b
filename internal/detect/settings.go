// Package detect implements loudness-based song boundary detection over a
// decoded PCM analysis channel: RMS energy profiling, heuristic scoring of
// quiet positions, and segmentation of the recording into named songs.
package detect

// Detection tuning constants.
// Weights and thresholds control how the four scoring heuristics combine and
// when a scored position is accepted as a candidate or promoted to a quiet
// region.
const (
	// DefaultWindowSeconds is the RMS window stride for the energy profile.
	DefaultWindowSeconds = 0.5

	// Scoring weights (additive per heuristic)
	scoreThreshold     = 0.3 // smoothed energy below the silence threshold
	scoreLocalMinimum  = 0.2 // strict local minimum of the smoothed profile
	scoreSustainedDrop = 0.3 // well below both neighbouring window averages
	scoreSpacing       = 0.2 // far enough from the previous accepted candidate

	// candidateConfidence is the acceptance threshold: positions scoring
	// above it are emitted as candidates.
	candidateConfidence = 0.4

	// regionConfidence is the stronger threshold used during segmentation:
	// only candidates above it seed quiet regions. A candidate can exist
	// without ever becoming a quiet region.
	regionConfidence = 0.6

	// Relative threshold shape: the silence threshold is the louder of the
	// caller's absolute sensitivity and a profile-relative floor of
	// max(avg*relativeFloorFactor, avg - stdDev*relativeDeviationFactor).
	relativeFloorFactor     = 0.15
	relativeDeviationFactor = 0.8

	// sustainedDropFactor is the fraction of the neighbouring window average
	// the smoothed value must stay below on both sides.
	sustainedDropFactor = 0.5

	// spacingFactor scales MinSongDuration into the minimum gap from the
	// previous accepted candidate for the spacing heuristic.
	spacingFactor = 0.5
)

// Settings holds one detection run's configuration. It is owned by the
// caller and passed by value; out-of-range values are the caller's
// responsibility to clamp before invocation.
type Settings struct {
	// SensitivityDb is the absolute silence threshold in dBFS (-60..-10).
	SensitivityDb float64

	// SmoothingWindowSeconds is the moving-average span applied to the raw
	// RMS profile (1..15).
	SmoothingWindowSeconds float64

	// MinSilenceDuration is the shortest gap treated as an inter-song
	// silence, in seconds (0.5..10).
	MinSilenceDuration float64

	// MinSongDuration is the shortest region emitted as a song, in seconds
	// (10..120).
	MinSongDuration float64
}

// DefaultSettings returns the documented defaults: -40 dBFS sensitivity,
// 5 s smoothing, 5 s minimum silence, 30 s minimum song.
func DefaultSettings() Settings {
	return Settings{
		SensitivityDb:          -40.0,
		SmoothingWindowSeconds: 5.0,
		MinSilenceDuration:     5.0,
		MinSongDuration:        30.0,
	}
}
