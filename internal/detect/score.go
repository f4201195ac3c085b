package detect

// Candidate is a scored potential split boundary. Ephemeral: produced and
// consumed within one detection pass.
type Candidate struct {
	// Time is the candidate position in seconds.
	Time float64
	// Confidence accumulates additively from the scoring heuristics. It is
	// compared against thresholds, never clamped to [0,1].
	Confidence float64
}

// ScoreCandidates walks the interior windows of the profile and scores each
// position with four independent heuristics. Positions scoring above the
// acceptance threshold are emitted in window order (time ascending).
//
// The first and last windows are skipped: they cannot have both neighbours.
func ScoreCandidates(p *EnergyProfile, settings Settings) []Candidate {
	if p.Len() < 3 {
		return nil
	}

	smoothed := p.Smoothed
	avg, stdDev := meanAndStdDev(smoothed)

	// The silence threshold is the louder of the caller's absolute
	// sensitivity and a floor derived from the profile itself, so a quiet
	// recording still yields candidates and a hot one is not flooded.
	thresholdLinear := dbToLinear(settings.SensitivityDb)
	relativeThreshold := avg * relativeFloorFactor
	if deviation := avg - stdDev*relativeDeviationFactor; deviation > relativeThreshold {
		relativeThreshold = deviation
	}
	threshold := thresholdLinear
	if relativeThreshold > threshold {
		threshold = relativeThreshold
	}

	minGap := settings.MinSongDuration * spacingFactor

	var candidates []Candidate
	lastAccepted := -1.0
	haveAccepted := false

	for i := 1; i < len(smoothed)-1; i++ {
		v := smoothed[i]
		confidence := 0.0

		// Heuristic 1: below the absolute/relative silence threshold.
		if v < threshold {
			confidence += scoreThreshold
		}

		// Heuristic 2: strict local minimum.
		if v < smoothed[i-1] && v < smoothed[i+1] {
			confidence += scoreLocalMinimum
		}

		// Heuristic 3: sustained drop against both neighbouring window
		// averages. Window length shrinks near the profile bounds.
		if sustainedDrop(smoothed, i, p.SmoothingSpan) {
			confidence += scoreSustainedDrop
		}

		// Heuristic 4: spacing from the previous accepted candidate.
		t := p.WindowTime(i)
		if !haveAccepted || t-lastAccepted > minGap {
			confidence += scoreSpacing
		}

		if confidence > candidateConfidence {
			candidates = append(candidates, Candidate{Time: t, Confidence: confidence})
			lastAccepted = t
			haveAccepted = true
		}
	}

	return candidates
}

// sustainedDrop reports whether smoothed[i] sits below half the average of
// the preceding window AND half the average of the following window. The
// side windows have length min(span, distance to the profile bound).
func sustainedDrop(smoothed []float64, i, span int) bool {
	if span < 1 {
		return false
	}

	before := span
	if i < before {
		before = i
	}
	after := span
	if remaining := len(smoothed) - 1 - i; remaining < after {
		after = remaining
	}
	if before == 0 || after == 0 {
		return false
	}

	var beforeSum float64
	for j := i - before; j < i; j++ {
		beforeSum += smoothed[j]
	}
	beforeAvg := beforeSum / float64(before)

	var afterSum float64
	for j := i + 1; j <= i+after; j++ {
		afterSum += smoothed[j]
	}
	afterAvg := afterSum / float64(after)

	v := smoothed[i]
	return v < sustainedDropFactor*beforeAvg && v < sustainedDropFactor*afterAvg
}
