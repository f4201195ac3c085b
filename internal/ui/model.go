// Package ui provides the Bubbletea terminal user interface for gigsplit:
// a detection progress phase followed by an interactive split editor.
package ui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gigsplit/gigsplit/internal/session"
	"github.com/gigsplit/gigsplit/internal/split"
)

// Phase tracks which surface the model is showing
type Phase int

const (
	PhaseDetecting Phase = iota
	PhaseEditing
)

// Timeline layout. The session's vertical hit band is pinned to the
// timeline row so clicks elsewhere never grab a handle.
const (
	timelineRow  = 5
	timelineLeft = 2
	seekStep     = 5.0 // seconds per arrow key press
)

// tickMsg drives the spinner during detection
type tickMsg time.Time

// Model is the Bubbletea model for the whole run
type Model struct {
	FileName string
	Duration float64
	Store    *split.Store
	Session  *session.Session

	// Channel for receiving messages from the detection worker
	ProgressChan chan tea.Msg

	Phase    Phase
	Progress float64
	Err      error

	// Editing state
	selected  int // index into Store.All(), -1 for none
	renaming  bool
	renameID  string
	renameBuf string
	status    string

	// Set when the user asked for export on quit; the caller exports
	// after the program exits so the terminal is back to normal.
	ExportRequested bool

	StartTime    time.Time
	spinnerIndex int

	Width  int
	Height int

	mapper *cellMapper
}

// NewModel creates the UI model over a seeded-or-empty store.
func NewModel(fileName string, duration float64, store *split.Store) Model {
	mapper := &cellMapper{offsetX: timelineLeft, cells: 60, duration: duration}
	sess := session.New(store, mapper, session.Geometry{
		HitRadiusPx: 1,
		BandTop:     timelineRow,
		BandBottom:  timelineRow,
	})

	return Model{
		FileName:     fileName,
		Duration:     duration,
		Store:        store,
		Session:      sess,
		ProgressChan: make(chan tea.Msg, 100),
		selected:     -1,
		StartTime:    time.Now(),
		mapper:       mapper,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), waitForProgress(m.ProgressChan))
}

// tickCmd returns a command that sends a tick message every 100ms
func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForProgress creates a command that waits for worker messages
func waitForProgress(progressChan chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-progressChan
	}
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.updateKey(msg)

	case tea.MouseMsg:
		if m.Phase == PhaseEditing && !m.renaming {
			m.handleMouse(msg)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		cells := msg.Width - timelineLeft - 2
		if cells < 20 {
			cells = 20
		}
		m.mapper.cells = float64(cells)
		return m, nil

	case tickMsg:
		if m.Phase == PhaseDetecting {
			m.spinnerIndex = (m.spinnerIndex + 1) % len(spinnerFrames)
			return m, tickCmd()
		}
		return m, nil

	case DetectProgressMsg:
		m.Progress = msg.Progress
		return m, waitForProgress(m.ProgressChan)

	case DetectDoneMsg:
		if msg.Err != nil {
			m.Err = msg.Err
			return m, tea.Quit
		}
		m.Phase = PhaseEditing
		m.status = fmt.Sprintf("Detected %d songs", msg.Songs)
		return m, nil
	}

	return m, nil
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.renaming {
		return m.updateRenameKey(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	}

	if m.Phase != PhaseEditing {
		return m, nil
	}

	switch msg.String() {
	case "e":
		m.ExportRequested = true
		return m, tea.Quit

	case "a":
		sp, err := m.Session.AddAtPlayhead()
		if err != nil {
			m.status = fmt.Sprintf("Cannot add split here: %v", err)
		} else {
			m.status = fmt.Sprintf("Added %q", sp.Name)
		}

	case "tab":
		if n := m.Store.Len(); n > 0 {
			m.selected = (m.selected + 1) % n
		}

	case "r":
		if sp, ok := m.selectedSplit(); ok {
			m.renaming = true
			m.renameID = sp.ID
			m.renameBuf = sp.Name
		}

	case "d":
		if sp, ok := m.selectedSplit(); ok {
			if err := m.Store.Remove(sp.ID); err == nil {
				m.status = fmt.Sprintf("Removed %q", sp.Name)
				m.selected = -1
			}
		}

	case "left":
		m.Session.SetPlayhead(m.Session.Playhead() - seekStep)

	case "right":
		m.Session.SetPlayhead(m.Session.Playhead() + seekStep)
	}

	return m, nil
}

func (m Model) updateRenameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if m.renameBuf != "" {
			if err := m.Store.Rename(m.renameID, m.renameBuf); err == nil {
				m.status = fmt.Sprintf("Renamed to %q", m.renameBuf)
			}
		}
		m.renaming = false

	case "esc":
		m.renaming = false

	case "backspace":
		if len(m.renameBuf) > 0 {
			runes := []rune(m.renameBuf)
			m.renameBuf = string(runes[:len(runes)-1])
		}

	default:
		if msg.Type == tea.KeyRunes {
			m.renameBuf += string(msg.Runes)
		} else if msg.String() == " " {
			m.renameBuf += " "
		}
	}

	return m, nil
}

// handleMouse translates terminal mouse events into session pointer
// events. Release is forwarded from any position so a drag always ends.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	ev := session.PointerEvent{
		X: float64(msg.X),
		Y: float64(msg.Y),
	}

	switch msg.Action {
	case tea.MouseActionMotion:
		ev.Kind = session.PointerMove
	case tea.MouseActionPress:
		ev.Kind = session.PointerDown
		ev.Remove = msg.Button == tea.MouseButtonRight
	case tea.MouseActionRelease:
		ev.Kind = session.PointerUp
	default:
		return
	}

	for _, eff := range m.Session.Handle(ev) {
		switch eff.Kind {
		case session.EffectSeek:
			m.status = fmt.Sprintf("Playhead at %s", fmtTime(eff.Time))
		case session.EffectRemove:
			m.status = "Removed split"
			m.selected = -1
		case session.EffectResize:
			if len(eff.Dropped) > 0 {
				m.status = fmt.Sprintf("Dropped %d overlapped split(s)", len(eff.Dropped))
			}
		}
	}
}

func (m Model) selectedSplit() (split.Split, bool) {
	all := m.Store.All()
	if m.selected < 0 || m.selected >= len(all) {
		return split.Split{}, false
	}
	return all[m.selected], true
}
