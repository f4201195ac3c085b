// Package logging generates the detection report saved alongside exported songs.

package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gigsplit/gigsplit/internal/detect"
	"github.com/gigsplit/gigsplit/internal/split"
)

// ReportData contains all the information needed to generate a detection report
type ReportData struct {
	InputPath    string
	OutputDir    string
	StartTime    time.Time
	EndTime      time.Time
	DecodeTime   time.Duration
	DetectTime   time.Duration
	ExportTime   time.Duration // zero when nothing was exported
	SampleRate   int
	Channels     int
	DurationSecs float64
	Settings     detect.Settings
	Splits       []split.Split
	Exported     []string // filenames in export order, nil when export skipped
	FromCache    bool
}

// GenerateReport creates a detection report and saves it into the output
// directory. The report filename is <input-stem>-split.log
func GenerateReport(data ReportData) error {
	stem := strings.TrimSuffix(filepath.Base(data.InputPath), filepath.Ext(data.InputPath))
	logPath := filepath.Join(data.OutputDir, stem+"-split.log")

	f, err := os.Create(logPath)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	defer f.Close()

	WriteReport(f, data)
	return nil
}

// WriteReport renders the full report onto w.
func WriteReport(w io.Writer, data ReportData) {
	writeReportHeader(w, data)
	writeRunSummary(w, data)
	writeSettings(w, data.Settings)
	writeSplits(w, data.Splits)
	if data.Exported != nil {
		writeExported(w, data.Exported)
	}
}

func writeSection(w io.Writer, title string) {
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("-", len(title)))
}

func writeReportHeader(w io.Writer, data ReportData) {
	fmt.Fprintln(w, "Gigsplit Detection Report")
	fmt.Fprintln(w, "=========================")
	fmt.Fprintf(w, "File: %s\n", filepath.Base(data.InputPath))
	fmt.Fprintf(w, "Processed: %s\n", data.EndTime.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(w, "Duration: %s (%s, %d Hz)\n",
		formatDuration(time.Duration(data.DurationSecs*float64(time.Second))),
		channelName(data.Channels), data.SampleRate)
	fmt.Fprintln(w, "")
}

// writeRunSummary outputs the timing summary for the run's stages.
func writeRunSummary(w io.Writer, data ReportData) {
	writeSection(w, "Run Summary")

	decodeLabel := "Decode:    "
	if data.FromCache {
		decodeLabel = "Cache hit: "
	}
	fmt.Fprintf(w, "%s%s\n", decodeLabel, formatDuration(data.DecodeTime))
	fmt.Fprintf(w, "Detection: %s\n", formatDuration(data.DetectTime))
	if data.ExportTime > 0 {
		fmt.Fprintf(w, "Export:    %s\n", formatDuration(data.ExportTime))
	}

	totalTime := data.EndTime.Sub(data.StartTime)
	fmt.Fprintf(w, "Total:     %s", formatDuration(totalTime))

	if data.DurationSecs > 0 && totalTime > 0 {
		audioDuration := time.Duration(data.DurationSecs * float64(time.Second))
		rtf := float64(audioDuration) / float64(totalTime)
		fmt.Fprintf(w, " (%.0fx real-time)", rtf)
	}
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "")
}

func writeSettings(w io.Writer, s detect.Settings) {
	writeSection(w, "Detection Settings")

	table := NewMetricTable("Value")
	table.AddRow("Sensitivity", []string{formatMetric(s.SensitivityDb, 1)}, "dB")
	table.AddRow("Smoothing window", []string{formatMetric(s.SmoothingWindowSeconds, 1)}, "s")
	table.AddRow("Min silence", []string{formatMetric(s.MinSilenceDuration, 1)}, "s")
	table.AddRow("Min song", []string{formatMetric(s.MinSongDuration, 1)}, "s")
	fmt.Fprint(w, table.String())
	fmt.Fprintln(w, "")
}

func writeSplits(w io.Writer, splits []split.Split) {
	writeSection(w, "Splits")

	if len(splits) == 0 {
		fmt.Fprintln(w, "No songs detected.")
		fmt.Fprintln(w, "")
		return
	}

	table := NewMetricTable("Start", "End", "Length")
	for _, sp := range splits {
		table.AddRow(sp.Name, []string{
			formatTimestamp(sp.Start),
			formatTimestamp(sp.End),
			formatTimestamp(sp.Duration()),
		}, "")
	}
	fmt.Fprint(w, table.String())
	fmt.Fprintln(w, "")
}

func writeExported(w io.Writer, filenames []string) {
	writeSection(w, "Exported Files")
	for _, name := range filenames {
		fmt.Fprintf(w, "  %s\n", name)
	}
	fmt.Fprintln(w, "")
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}

	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60

	if minutes < 60 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}

	hours := minutes / 60
	minutes = minutes % 60
	return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
}

// channelName returns a human-readable channel name
func channelName(channels int) string {
	switch channels {
	case 1:
		return "mono"
	case 2:
		return "stereo"
	default:
		return fmt.Sprintf("%d channels", channels)
	}
}
