package detect

// ProgressFunc receives detection progress in [0,1]. Called at window
// granularity during profiling; each invocation is a safe point for the
// caller to surface progress or decide to stop consuming results.
type ProgressFunc func(progress float64)

// Profiling dominates a detection run; scoring and segmentation walk the
// much smaller window sequence. Progress is weighted accordingly.
const profileProgressShare = 0.9

// Detect runs the full pipeline over the analysis channel: energy profile,
// candidate scoring, segmentation. Returns the detected songs in time
// order. Fails fast with ErrNoSamples/ErrBadSampleRate on unusable input
// and never partially completes.
func Detect(pcm []float32, sampleRate int, settings Settings, progress ProgressFunc) ([]Song, error) {
	var onWindow func(float64)
	if progress != nil {
		onWindow = func(frac float64) {
			progress(frac * profileProgressShare)
		}
	}

	profile, err := buildProfile(pcm, sampleRate, DefaultWindowSeconds, settings.SmoothingWindowSeconds, onWindow)
	if err != nil {
		return nil, err
	}

	candidates := ScoreCandidates(profile, settings)
	totalDuration := float64(len(pcm)) / float64(sampleRate)
	songs := Segment(candidates, totalDuration, settings)

	if progress != nil {
		progress(1.0)
	}
	return songs, nil
}
