package detect

import (
	"errors"
	"math"
)

// Static errors for detection input validation.
var (
	// ErrNoSamples is returned when the PCM buffer is empty.
	ErrNoSamples = errors.New("detect: PCM buffer holds no samples")
	// ErrBadSampleRate is returned when the sample rate is not positive.
	ErrBadSampleRate = errors.New("detect: sample rate must be positive")
)

// EnergyProfile is the smoothed, fixed-stride RMS energy sequence derived
// from the analysis channel. It is disposable: recomputed whenever the PCM
// or the detection parameters change.
type EnergyProfile struct {
	// RMS holds one root-mean-square value per window.
	RMS []float64
	// Smoothed is the centered moving average of RMS, same length.
	Smoothed []float64

	// WindowSeconds is the window stride in seconds.
	WindowSeconds float64
	// SmoothingSpan is the moving-average span in profile windows.
	SmoothingSpan int

	sampleRate int
}

// WindowTime returns the start time of window i in seconds.
func (p *EnergyProfile) WindowTime(i int) float64 {
	return float64(i) * p.WindowSeconds
}

// Len returns the number of windows in the profile.
func (p *EnergyProfile) Len() int {
	return len(p.RMS)
}

// BuildProfile partitions pcm into consecutive non-overlapping windows of
// windowSeconds (the last window may be shorter), computes per-window RMS,
// and smooths the result with a centered moving average whose range shrinks
// at the profile edges. Pure and deterministic.
func BuildProfile(pcm []float32, sampleRate int, windowSeconds, smoothingWindowSeconds float64) (*EnergyProfile, error) {
	return buildProfile(pcm, sampleRate, windowSeconds, smoothingWindowSeconds, nil)
}

// buildProfile is BuildProfile with an optional per-window progress callback.
// Each window boundary is a safe cooperative suspension point.
func buildProfile(pcm []float32, sampleRate int, windowSeconds, smoothingWindowSeconds float64, progress func(float64)) (*EnergyProfile, error) {
	if len(pcm) == 0 {
		return nil, ErrNoSamples
	}
	if sampleRate <= 0 {
		return nil, ErrBadSampleRate
	}

	windowSamples := int(windowSeconds * float64(sampleRate))
	if windowSamples < 1 {
		windowSamples = 1
	}

	windowCount := (len(pcm) + windowSamples - 1) / windowSamples
	rms := make([]float64, windowCount)

	for w := 0; w < windowCount; w++ {
		start := w * windowSamples
		end := start + windowSamples
		if end > len(pcm) {
			end = len(pcm)
		}

		var sumSquares float64
		for _, s := range pcm[start:end] {
			sumSquares += float64(s) * float64(s)
		}
		rms[w] = math.Sqrt(sumSquares / float64(end-start))

		if progress != nil {
			progress(float64(w+1) / float64(windowCount))
		}
	}

	// Smoothing span is measured in profile windows, not samples.
	span := int(smoothingWindowSeconds * float64(sampleRate) / float64(windowSamples))
	smoothed := smooth(rms, span/2)

	return &EnergyProfile{
		RMS:           rms,
		Smoothed:      smoothed,
		WindowSeconds: float64(windowSamples) / float64(sampleRate),
		SmoothingSpan: span,
		sampleRate:    sampleRate,
	}, nil
}

// smooth applies a centered moving average with the given half-width. The
// averaging range is clamped to the profile bounds: it shrinks at the edges
// rather than padding with zeros.
func smooth(values []float64, halfWidth int) []float64 {
	out := make([]float64, len(values))
	if halfWidth <= 0 {
		copy(out, values)
		return out
	}

	for i := range values {
		lo := i - halfWidth
		if lo < 0 {
			lo = 0
		}
		hi := i + halfWidth
		if hi > len(values)-1 {
			hi = len(values) - 1
		}

		var sum float64
		for j := lo; j <= hi; j++ {
			sum += values[j]
		}
		out[i] = sum / float64(hi-lo+1)
	}
	return out
}

// meanAndStdDev computes the mean and population standard deviation of the
// whole smoothed profile, used once per scoring pass.
func meanAndStdDev(values []float64) (mean, stdDev float64) {
	if len(values) == 0 {
		return 0, 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean = sum / float64(len(values))

	var sumSq float64
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	stdDev = math.Sqrt(sumSq / float64(len(values)))
	return mean, stdDev
}

// dbToLinear converts a dBFS value to linear amplitude.
func dbToLinear(db float64) float64 {
	return math.Pow(10, db/20.0)
}
