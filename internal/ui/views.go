package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#005FAF"))

	barFillStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#005FAF"))

	barEmptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFA500"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("36"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))
)

// View renders the UI
func (m Model) View() string {
	if m.Err != nil {
		return errorStyle.Render("Error: "+m.Err.Error()) + "\n"
	}

	switch m.Phase {
	case PhaseDetecting:
		return m.viewDetecting()
	default:
		return m.viewEditing()
	}
}

func (m Model) viewDetecting() string {
	var b strings.Builder

	b.WriteString("\n ")
	b.WriteString(titleStyle.Render("Gigsplit ✂"))
	b.WriteString(dimStyle.Render("  " + m.FileName))
	b.WriteString("\n\n")

	spinner := spinnerFrames[m.spinnerIndex]
	elapsed := formatElapsed(time.Since(m.StartTime))
	b.WriteString(fmt.Sprintf(" %s Detecting songs… %s\n\n", spinner, dimStyle.Render(elapsed)))

	b.WriteString(" " + renderProgressBar(m.Progress, 40) + "\n")

	return b.String()
}

func (m Model) viewEditing() string {
	var b strings.Builder

	b.WriteString("\n ")
	b.WriteString(titleStyle.Render("Gigsplit ✂"))
	b.WriteString(dimStyle.Render("  " + m.FileName))
	b.WriteString(dimStyle.Render("  (" + fmtTime(m.Duration) + ")"))
	b.WriteString("\n\n")

	b.WriteString(m.renderTimeline())
	b.WriteString("\n\n")
	b.WriteString(m.renderSplitList())

	if m.renaming {
		b.WriteString("\n " + selectedStyle.Render("Rename: "+m.renameBuf+"▏") +
			dimStyle.Render("  enter to confirm, esc to cancel"))
	} else if m.status != "" {
		b.WriteString("\n " + statusStyle.Render(m.status))
	}

	b.WriteString("\n\n " + dimStyle.Render(
		"drag handles to resize · click to seek · right-click to delete\n "+
			"a add at playhead · tab select · r rename · d delete · ←/→ seek · e export · q quit"))
	b.WriteString("\n")

	return b.String()
}

// renderTimeline draws the split layout as a single row of cells
// aligned with the session's pixel mapping, so mouse coordinates on
// this row map straight back to recording time.
func (m Model) renderTimeline() string {
	cells := int(m.mapper.cells)
	row := make([]rune, cells)
	for i := range row {
		row[i] = '·'
	}

	selID := ""
	if sp, ok := m.selectedSplit(); ok {
		selID = sp.ID
	}

	type span struct {
		from, to int
		selected bool
	}
	var spans []span
	for _, sp := range m.Store.All() {
		from := m.cellFor(sp.Start)
		to := m.cellFor(sp.End)
		if to <= from {
			to = from + 1
		}
		for i := from; i < to && i < cells; i++ {
			row[i] = '█'
		}
		if from < cells {
			row[from] = '▐'
		}
		if to-1 < cells {
			row[to-1] = '▌'
		}
		spans = append(spans, span{from, to, sp.ID == selID})
	}

	ph := m.cellFor(m.Session.Playhead())
	if ph >= 0 && ph < cells {
		row[ph] = '┃'
	}

	line := strings.Repeat(" ", timelineLeft)
	prev := 0
	for _, s := range spans {
		if s.from < prev {
			s.from = prev
		}
		if s.from > prev {
			line += dimStyle.Render(string(row[prev:s.from]))
		}
		to := s.to
		if to > cells {
			to = cells
		}
		if to <= s.from {
			continue
		}
		seg := string(row[s.from:to])
		if s.selected {
			line += selectedStyle.Render(seg)
		} else {
			line += barFillStyle.Render(seg)
		}
		prev = to
	}
	if prev < cells {
		line += dimStyle.Render(string(row[prev:]))
	}

	// Pad so the timeline lands on its fixed hit band row. Three rows
	// precede it in viewEditing (blank, header, blank).
	return strings.Repeat("\n", timelineRow-3) + line
}

func (m Model) cellFor(t float64) int {
	return int(m.mapper.TimeToPixel(t)) - timelineLeft
}

func (m Model) renderSplitList() string {
	all := m.Store.All()
	if len(all) == 0 {
		return " " + dimStyle.Render("No songs yet. Press 'a' to add a split at the playhead.") + "\n"
	}

	var b strings.Builder
	for i, sp := range all {
		marker := "  "
		line := fmt.Sprintf("%-24s %s - %s  (%s)",
			sp.Name, fmtTime(sp.Start), fmtTime(sp.End), fmtTime(sp.Duration()))
		if i == m.selected {
			marker = selectedStyle.Render("▸ ")
			line = selectedStyle.Render(line)
		}
		b.WriteString(" " + marker + line + "\n")
	}
	return b.String()
}

// renderProgressBar renders a progress bar of the given width
func renderProgressBar(progress float64, width int) string {
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}

	filled := int(progress * float64(width))
	bar := barFillStyle.Render(strings.Repeat("━", filled)) +
		barEmptyStyle.Render(strings.Repeat("━", width-filled))

	return fmt.Sprintf("%s %3.0f%%", bar, progress*100)
}

func formatElapsed(d time.Duration) string {
	secs := int(d.Seconds())
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

func fmtTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	mins := int(seconds) / 60
	secs := seconds - float64(mins*60)
	return fmt.Sprintf("%d:%04.1f", mins, secs)
}
