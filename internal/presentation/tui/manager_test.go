package tui

import (
	"strings"
	"testing"
	"time"

	"pdfcompressor/internal/domain/entities"
)

func TestCreateProgressBar(t *testing.T) {
	tests := []struct {
		progress float64
		filled   int
		color    string
	}{
		{progress: -5, filled: 0, color: "red"},
		{progress: 30, filled: 3, color: "yellow"},
		{progress: 60, filled: 6, color: "blue"},
		{progress: 150, filled: 10, color: "green"},
	}

	for _, tt := range tests {
		bar := createProgressBar(tt.progress, 10)
		if got := strings.Count(bar, "█"); got != tt.filled {
			t.Errorf("progress %.0f: expected %d filled cells, got %d", tt.progress, tt.filled, got)
		}
		if got := strings.Count(bar, "░"); got != 10-tt.filled {
			t.Errorf("progress %.0f: expected %d empty cells, got %d", tt.progress, 10-tt.filled, got)
		}
		if !strings.HasPrefix(bar, "["+tt.color+"]") {
			t.Errorf("progress %.0f: expected color %s in %q", tt.progress, tt.color, bar)
		}
	}
}

func TestTruncateFileName(t *testing.T) {
	if got := truncateFileName("short.pdf", 10, 7); got != "short.pdf" {
		t.Errorf("unexpected truncation %q", got)
	}
	if got := truncateFileName("очень-длинное-имя.pdf", 10, 7); got != "очень-д..." {
		t.Errorf("unexpected truncation %q", got)
	}
}

func TestTargetOptions(t *testing.T) {
	tests := []struct {
		value string
		index int
	}{
		{value: "", index: 0},
		{value: "10MB", index: 1},
		{value: "2mb", index: 3},
		{value: "1048576", index: 4},
		{value: "3MB", index: 0},
		{value: "garbage", index: 0},
	}

	for _, tt := range tests {
		if got := targetOptionIndex(tt.value); got != tt.index {
			t.Errorf("targetOptionIndex(%q) = %d, want %d", tt.value, got, tt.index)
		}
	}

	if targetOptionValue(0) != "" || targetOptionValue(4) != "1MB" || targetOptionValue(9) != "" {
		t.Error("unexpected target option values")
	}
}

func TestFormatStatus(t *testing.T) {
	status := entities.ProcessingStatus{
		Phase:              entities.PhaseCompressing,
		CurrentFile:        "/tmp/docs/report.pdf",
		CurrentAttempt:     2,
		CurrentFilePercent: 58,
		CurrentSettings:    entities.CompressionSettings{Quality: 0.57, Scale: 1.3},
		TotalFiles:         3,
		ProcessedFiles:     1,
		SuccessfulFiles:    1,
		Progress:           52.6,
		StartTime:          time.Now(),
	}

	text := formatStatus(status)
	for _, want := range []string{"report.pdf", "Попытка 2", "качество 0.57", "58%", "52.6%"} {
		if !strings.Contains(text, want) {
			t.Errorf("status text missing %q:\n%s", want, text)
		}
	}
}

func TestHistoryRows(t *testing.T) {
	rows := historyRows([]entities.HistoryEntry{
		{Filename: "a.pdf", OriginalSize: 2 * entities.MB, CompressedSize: entities.MB, Ratio: 50},
	})
	if len(rows) != 1 || rows[0][1] != "a.pdf" || rows[0][4] != "50.0%" || rows[0][2] != "2.00 MB" {
		t.Errorf("unexpected rows %v", rows)
	}
}
