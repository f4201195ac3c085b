package detect

import "fmt"

// Song is one detected region, the seed for a split. Start and End are in
// seconds, End exclusive.
type Song struct {
	Name  string
	Start float64
	End   float64
}

// quietRegion is a merged interval judged likely to be inter-song silence.
// Ephemeral within one detection pass.
type quietRegion struct {
	start float64
	end   float64
}

// Segment converts scored candidates into named song regions.
//
// High-confidence candidates become quiet windows of MinSilenceDuration
// centered on the candidate, merged left-to-right while they touch. Songs
// are then the stretches between quiet regions that satisfy
// MinSongDuration; too-short stretches are skipped without advancing the
// song start, so gaps accumulate until a later region finally yields a
// long-enough song. A trailing song covers the remainder when long enough.
// When no quiet region exists at all the recording is treated as
// unsegmentable and nothing is proposed.
//
// Output is sorted and non-overlapping by construction, and deterministic
// for identical input.
func Segment(candidates []Candidate, totalDuration float64, settings Settings) []Song {
	regions := mergeQuietRegions(candidates, totalDuration, settings)
	if len(regions) == 0 {
		return nil
	}

	var songs []Song
	songStart := 0.0
	next := 1

	for _, r := range regions {
		if r.start-songStart >= settings.MinSongDuration {
			songs = append(songs, Song{
				Name:  fmt.Sprintf("Song %d", next),
				Start: songStart,
				End:   r.start,
			})
			next++
			songStart = r.end
		}
	}

	if totalDuration-songStart >= settings.MinSongDuration {
		songs = append(songs, Song{
			Name:  fmt.Sprintf("Song %d", next),
			Start: songStart,
			End:   totalDuration,
		})
	}

	return songs
}

// mergeQuietRegions builds silence windows around candidates that clear the
// region confidence threshold and merges touching windows in one
// left-to-right sweep. Candidates arrive time-ascending, so no sorting is
// needed.
func mergeQuietRegions(candidates []Candidate, totalDuration float64, settings Settings) []quietRegion {
	half := settings.MinSilenceDuration / 2

	var regions []quietRegion
	for _, c := range candidates {
		if c.Confidence <= regionConfidence {
			continue
		}

		start := c.Time - half
		if start < 0 {
			start = 0
		}
		end := c.Time + half
		if end > totalDuration {
			end = totalDuration
		}

		if n := len(regions); n > 0 && start <= regions[n-1].end {
			if end > regions[n-1].end {
				regions[n-1].end = end
			}
			continue
		}
		regions = append(regions, quietRegion{start: start, end: end})
	}
	return regions
}
