// Package split holds the authoritative, ordered collection of song
// splits: identity, naming, and the non-overlap and ordering rules every
// mutation must preserve.
package split

import "fmt"

// MinLength is the shortest a split may become, in seconds. Resizes clamp
// against it rather than letting a drag collapse a split to nothing.
const MinLength = 1.0

// Edge selects which end of a split a resize or drag acts on.
type Edge int

const (
	EdgeStart Edge = iota
	EdgeEnd
)

func (e Edge) String() string {
	switch e {
	case EdgeStart:
		return "start"
	case EdgeEnd:
		return "end"
	default:
		return fmt.Sprintf("Edge(%d)", int(e))
	}
}

// Split is one named region of the recording. ID is assigned by the store
// and never changes across renames or resizes; times are seconds, End
// exclusive.
type Split struct {
	ID    string
	Name  string
	Start float64
	End   float64
}

// Duration returns the split length in seconds.
func (s Split) Duration() float64 {
	return s.End - s.Start
}

// overlaps reports whether the half-open intervals of two splits intersect.
func (s Split) overlaps(o Split) bool {
	return s.Start < o.End && o.Start < s.End
}
