// Package session translates pointer gestures and explicit commands into
// split store mutations. It owns the transient interaction state (hover,
// drag, playhead) and performs hit-testing through a caller-supplied
// time-to-pixel mapping; it never draws anything itself.
package session

import (
	"github.com/gigsplit/gigsplit/internal/split"
)

// DefaultSplitLength is the length in seconds of a split created at the
// playhead, before clamping to the end of the recording.
const DefaultSplitLength = 60.0

// TimeMapper converts between recording time and horizontal pixels. The
// rendering layer supplies one that reflects its current zoom and scroll.
type TimeMapper interface {
	TimeToPixel(t float64) float64
	PixelToTime(x float64) float64
}

// Geometry describes the interactive surface: how close the pointer must
// be to a handle to grab it, and the vertical band handles occupy.
type Geometry struct {
	HitRadiusPx float64
	BandTop     float64
	BandBottom  float64
}

// DefaultGeometry matches a typical waveform strip.
func DefaultGeometry() Geometry {
	return Geometry{HitRadiusPx: 8, BandTop: 0, BandBottom: 200}
}

func (g Geometry) inBand(y float64) bool {
	return y >= g.BandTop && y <= g.BandBottom
}

// StateKind tags the interaction state.
type StateKind int

const (
	StateIdle StateKind = iota
	StateHover
	StateDragging
)

func (k StateKind) String() string {
	switch k {
	case StateIdle:
		return "idle"
	case StateHover:
		return "hover"
	case StateDragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// State is the current interaction state. SplitID and Edge are meaningful
// only when Kind is StateHover or StateDragging.
type State struct {
	Kind    StateKind
	SplitID string
	Edge    split.Edge
}

// EventKind tags a pointer event.
type EventKind int

const (
	PointerMove EventKind = iota
	PointerDown
	PointerUp
)

// PointerEvent is one pointer sample from the rendering layer. Remove
// marks a pointer-down carrying the remove gesture (e.g. a secondary
// button or modifier); it is ignored on other kinds.
type PointerEvent struct {
	Kind   EventKind
	X, Y   float64
	Remove bool
}

// EffectKind tags a side effect produced by a transition.
type EffectKind int

const (
	// EffectSeek moved the playhead.
	EffectSeek EffectKind = iota
	// EffectResize resized a split edge during a drag.
	EffectResize
	// EffectRemove deleted a split.
	EffectRemove
)

// Effect reports a store mutation or playhead move performed by a
// transition, so the rendering layer knows what to repaint.
type Effect struct {
	Kind    EffectKind
	SplitID string
	Time    float64
	Dropped []split.Split
}

// Session is the interaction layer for one loaded recording. Not safe for
// concurrent use; all events arrive on the rendering layer's loop.
type Session struct {
	store    *split.Store
	mapper   TimeMapper
	geometry Geometry

	state    State
	playhead float64
}

// New creates a session over the given store and mapping.
func New(store *split.Store, mapper TimeMapper, geometry Geometry) *Session {
	return &Session{
		store:    store,
		mapper:   mapper,
		geometry: geometry,
	}
}

// State returns the current interaction state.
func (s *Session) State() State {
	return s.state
}

// Playhead returns the current playhead time in seconds.
func (s *Session) Playhead() float64 {
	return s.playhead
}

// SetPlayhead moves the playhead, clamped to the recording.
func (s *Session) SetPlayhead(t float64) {
	s.playhead = clamp(t, 0, s.store.TotalDuration())
}

// Handle feeds one pointer event through the state machine and returns
// the effects the transition produced.
func (s *Session) Handle(ev PointerEvent) []Effect {
	switch ev.Kind {
	case PointerMove:
		return s.pointerMove(ev)
	case PointerDown:
		return s.pointerDown(ev)
	case PointerUp:
		return s.pointerUp()
	default:
		return nil
	}
}

func (s *Session) pointerMove(ev PointerEvent) []Effect {
	if s.state.Kind == StateDragging {
		t := s.mapper.PixelToTime(ev.X)
		res, err := s.store.ResizeEdge(s.state.SplitID, s.state.Edge, t)
		if err != nil {
			// The dragged split vanished under us; nothing left to drag.
			s.state = State{}
			return nil
		}
		return []Effect{{
			Kind:    EffectResize,
			SplitID: s.state.SplitID,
			Time:    t,
			Dropped: res.Dropped,
		}}
	}

	if id, edge, ok := s.hitTest(ev.X, ev.Y); ok {
		s.state = State{Kind: StateHover, SplitID: id, Edge: edge}
	} else {
		s.state = State{}
	}
	return nil
}

func (s *Session) pointerDown(ev PointerEvent) []Effect {
	if s.state.Kind == StateHover {
		s.state.Kind = StateDragging
		return nil
	}

	// Re-test at the press position: a down can arrive without a prior
	// move (touch input).
	if id, edge, ok := s.hitTest(ev.X, ev.Y); ok {
		s.state = State{Kind: StateDragging, SplitID: id, Edge: edge}
		return nil
	}

	t := s.mapper.PixelToTime(ev.X)
	if ev.Remove {
		if body, ok := s.splitAt(t); ok {
			if err := s.store.Remove(body.ID); err == nil {
				return []Effect{{Kind: EffectRemove, SplitID: body.ID}}
			}
		}
		return nil
	}

	s.SetPlayhead(t)
	return []Effect{{Kind: EffectSeek, Time: s.playhead}}
}

// pointerUp ends a drag from anywhere, including outside the surface.
func (s *Session) pointerUp() []Effect {
	if s.state.Kind == StateDragging {
		s.state = State{}
	}
	return nil
}

// AddAtPlayhead creates a split starting at the playhead with the default
// length, clamped to the end of the recording. Overlap or a too-small
// remainder rejects the add; the caller may surface the error or drop it.
func (s *Session) AddAtPlayhead() (split.Split, error) {
	start := s.playhead
	end := start + DefaultSplitLength
	if total := s.store.TotalDuration(); end > total {
		end = total
	}
	return s.store.Add(start, end, "")
}

// RemoveHovered deletes the split under the current hover, if any.
func (s *Session) RemoveHovered() []Effect {
	if s.state.Kind != StateHover {
		return nil
	}
	id := s.state.SplitID
	if err := s.store.Remove(id); err != nil {
		return nil
	}
	s.state = State{}
	return []Effect{{Kind: EffectRemove, SplitID: id}}
}

// hitTest resolves the pointer position to a split handle. All start
// handles are checked before any end handle, so a start handle wins when
// two handles coincide.
func (s *Session) hitTest(x, y float64) (string, split.Edge, bool) {
	if !s.geometry.inBand(y) {
		return "", 0, false
	}

	splits := s.store.All()
	for _, sp := range splits {
		if s.withinRadius(x, sp.Start) {
			return sp.ID, split.EdgeStart, true
		}
	}
	for _, sp := range splits {
		if s.withinRadius(x, sp.End) {
			return sp.ID, split.EdgeEnd, true
		}
	}
	return "", 0, false
}

func (s *Session) withinRadius(x, t float64) bool {
	px := s.mapper.TimeToPixel(t)
	d := x - px
	if d < 0 {
		d = -d
	}
	return d <= s.geometry.HitRadiusPx
}

// splitAt returns the split whose body contains time t.
func (s *Session) splitAt(t float64) (split.Split, bool) {
	for _, sp := range s.store.All() {
		if t >= sp.Start && t < sp.End {
			return sp, true
		}
	}
	return split.Split{}, false
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
