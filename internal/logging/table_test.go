package logging

import (
	"math"
	"strings"
	"testing"
)

func TestMetricTableAlignment(t *testing.T) {
	table := NewMetricTable("Start", "End")
	table.AddRow("Song 1", []string{"0:00.0", "1:30.0"}, "")
	table.AddRow("Long Song Name", []string{"1:35.0", "12:00.5"}, "")

	out := table.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines:\n%s", len(lines), out)
	}

	// Every row must be the same width for the columns to line up.
	width := len(lines[1])
	for i, line := range lines[1:] {
		if len(strings.TrimRight(line, " ")) > width {
			t.Errorf("row %d wider than first row:\n%s", i, out)
		}
	}
	if !strings.Contains(lines[0], "Start") || !strings.Contains(lines[0], "End") {
		t.Errorf("header missing column names: %q", lines[0])
	}
}

func TestMetricTableMissingValues(t *testing.T) {
	table := NewMetricTable("A", "B")
	table.AddRow("row", []string{"1.0"}, "")

	if out := table.String(); !strings.Contains(out, MissingValue) {
		t.Errorf("missing value not rendered as %q:\n%s", MissingValue, out)
	}
}

func TestMetricTableEmpty(t *testing.T) {
	table := NewMetricTable("A")
	if out := table.String(); out != "" {
		t.Errorf("empty table rendered %q, want empty string", out)
	}
}

func TestFormatMetric(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		decimals int
		want     string
	}{
		{name: "plain", value: 12.345, decimals: 1, want: "12.3"},
		{name: "zero", value: 0, decimals: 2, want: "0.00"},
		{name: "tiny uses scientific", value: 0.00001, decimals: 2, want: "1.00e-05"},
		{name: "nan", value: math.NaN(), decimals: 1, want: MissingValue},
		{name: "inf", value: math.Inf(1), decimals: 1, want: MissingValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatMetric(tt.value, tt.decimals); got != tt.want {
				t.Errorf("formatMetric(%v, %d) = %q, want %q", tt.value, tt.decimals, got, tt.want)
			}
		})
	}
}

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		seconds float64
		want    string
	}{
		{name: "zero", seconds: 0, want: "0:00.0"},
		{name: "under a minute", seconds: 42.5, want: "0:42.5"},
		{name: "minutes", seconds: 95, want: "1:35.0"},
		{name: "hours", seconds: 3723.5, want: "1:02:03.5"},
		{name: "negative", seconds: -1, want: MissingValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatTimestamp(tt.seconds); got != tt.want {
				t.Errorf("formatTimestamp(%v) = %q, want %q", tt.seconds, got, tt.want)
			}
		})
	}
}
