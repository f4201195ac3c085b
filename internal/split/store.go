package split

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

var (
	// ErrOverlap rejects an add whose interval intersects an existing split.
	ErrOverlap = errors.New("split overlaps an existing split")
	// ErrOutOfBounds rejects times outside [0, totalDuration] or start >= end.
	ErrOutOfBounds = errors.New("split times out of bounds")
	// ErrTooShort rejects a split shorter than MinLength.
	ErrTooShort = errors.New("split shorter than minimum length")
	// ErrNotFound reports an unknown split id.
	ErrNotFound = errors.New("split not found")
)

// Seed is detection output ready to enter the store: a named region
// without an identity yet.
type Seed struct {
	Name  string
	Start float64
	End   float64
}

// Store owns the splits for one loaded recording. Iteration order is
// always sorted by start time and intervals never overlap; every mutation
// either completes with those invariants intact or leaves the store
// unchanged. Safe for concurrent use: the detection worker replaces
// contents while the interactive surface reads.
type Store struct {
	mu            sync.RWMutex
	totalDuration float64
	splits        []Split
}

// NewStore creates an empty store bounded to the recording's duration.
func NewStore(totalDuration float64) *Store {
	return &Store{totalDuration: totalDuration}
}

// TotalDuration returns the bound splits are clamped against.
func (st *Store) TotalDuration() float64 {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.totalDuration
}

// Len returns the number of splits.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.splits)
}

// ReplaceAll discards the current contents and installs the detection
// result wholesale, assigning fresh ids. Seeds must arrive sorted and
// non-overlapping, which detection guarantees by construction.
func (st *Store) ReplaceAll(seeds []Seed) {
	st.mu.Lock()
	defer st.mu.Unlock()

	splits := make([]Split, 0, len(seeds))
	for _, s := range seeds {
		splits = append(splits, Split{
			ID:    uuid.NewString(),
			Name:  s.Name,
			Start: s.Start,
			End:   s.End,
		})
	}
	st.splits = splits
	st.assertInvariants()
}

// Add inserts a new split if its interval is in bounds, at least MinLength
// long, and free of overlap with every existing split. An empty name gets
// the next sequential default. On any rejection the store is unchanged.
func (st *Store) Add(start, end float64, name string) (Split, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if start < 0 || end > st.totalDuration || start >= end {
		return Split{}, ErrOutOfBounds
	}
	if end-start < MinLength {
		return Split{}, ErrTooShort
	}

	candidate := Split{Start: start, End: end}
	for _, s := range st.splits {
		if s.overlaps(candidate) {
			return Split{}, fmt.Errorf("%w: %q spans [%.2f, %.2f)", ErrOverlap, s.Name, s.Start, s.End)
		}
	}

	if name == "" {
		name = fmt.Sprintf("Song %d", len(st.splits)+1)
	}
	candidate.ID = uuid.NewString()
	candidate.Name = name

	idx := st.insertionIndex(start)
	st.splits = append(st.splits, Split{})
	copy(st.splits[idx+1:], st.splits[idx:])
	st.splits[idx] = candidate

	st.assertInvariants()
	return candidate, nil
}

// Remove deletes the split with the given id. Other splits keep their
// identities and order.
func (st *Store) Remove(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	idx := st.indexOf(id)
	if idx < 0 {
		return ErrNotFound
	}
	st.splits = append(st.splits[:idx], st.splits[idx+1:]...)
	return nil
}

// Rename changes a split's user-facing name. Timing and order are
// untouched.
func (st *Store) Rename(id, name string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	idx := st.indexOf(id)
	if idx < 0 {
		return ErrNotFound
	}
	st.splits[idx].Name = name
	return nil
}

// ResizeResult reports the outcome of a resize: the split as stored after
// clamping, plus any siblings the move displaced.
type ResizeResult struct {
	Split   Split
	Dropped []Split
}

// ResizeEdge moves one edge of a split to newTime, clamped so the split
// keeps MinLength and stays inside the recording. A sibling the moved edge
// now overlaps is dropped from the store rather than blocking the gesture;
// the caller learns which ones went via the result.
func (st *Store) ResizeEdge(id string, edge Edge, newTime float64) (ResizeResult, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	idx := st.indexOf(id)
	if idx < 0 {
		return ResizeResult{}, ErrNotFound
	}

	sp := st.splits[idx]
	switch edge {
	case EdgeStart:
		sp.Start = clamp(newTime, 0, sp.End-MinLength)
	case EdgeEnd:
		sp.End = clamp(newTime, sp.Start+MinLength, st.totalDuration)
	default:
		return ResizeResult{}, fmt.Errorf("unknown edge %v", edge)
	}

	var kept []Split
	var dropped []Split
	for _, other := range st.splits {
		if other.ID == id {
			continue
		}
		if other.overlaps(sp) {
			dropped = append(dropped, other)
			continue
		}
		kept = append(kept, other)
	}

	at := 0
	for at < len(kept) && kept[at].Start < sp.Start {
		at++
	}
	kept = append(kept, Split{})
	copy(kept[at+1:], kept[at:])
	kept[at] = sp

	st.splits = kept
	st.assertInvariants()
	return ResizeResult{Split: sp, Dropped: dropped}, nil
}

// Get returns the split with the given id.
func (st *Store) Get(id string) (Split, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	idx := st.indexOf(id)
	if idx < 0 {
		return Split{}, ErrNotFound
	}
	return st.splits[idx], nil
}

// All returns a copy of the splits in start-time order.
func (st *Store) All() []Split {
	st.mu.RLock()
	defer st.mu.RUnlock()

	out := make([]Split, len(st.splits))
	copy(out, st.splits)
	return out
}

// InRange returns the splits whose intervals intersect [start, end), in
// start-time order.
func (st *Store) InRange(start, end float64) []Split {
	st.mu.RLock()
	defer st.mu.RUnlock()

	probe := Split{Start: start, End: end}
	var out []Split
	for _, s := range st.splits {
		if s.overlaps(probe) {
			out = append(out, s)
		}
	}
	return out
}

// indexOf returns the position of the split with the given id, -1 if
// absent. Caller holds the lock.
func (st *Store) indexOf(id string) int {
	for i, s := range st.splits {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// insertionIndex returns where a split starting at start belongs in the
// sorted slice. Caller holds the lock.
func (st *Store) insertionIndex(start float64) int {
	for i, s := range st.splits {
		if start < s.Start {
			return i
		}
	}
	return len(st.splits)
}

// assertInvariants panics if the splits are not sorted, overlap, or leave
// the recording's bounds. A failure here is a bug in the store, never a
// user condition. Caller holds the lock.
func (st *Store) assertInvariants() {
	for i, s := range st.splits {
		if s.Start < 0 || s.End > st.totalDuration || s.Start >= s.End {
			panic(fmt.Sprintf("split store corrupt: %q has bounds [%v, %v) in %vs recording",
				s.Name, s.Start, s.End, st.totalDuration))
		}
		if i > 0 && st.splits[i-1].End > s.Start {
			panic(fmt.Sprintf("split store corrupt: %q and %q overlap or are unsorted",
				st.splits[i-1].Name, s.Name))
		}
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
