package entities_test

import (
	"math"
	"testing"

	"pdfcompressor/internal/domain/entities"
)

func TestNextAttemptSettings(t *testing.T) {
	tests := []struct {
		name            string
		quality, scale  float64
		expectedQuality float64
		expectedScale   float64
	}{
		{"Balanced step", 0.72, 1.5, 0.57, 1.3},
		{"Strong hits floors", 0.50, 1.0, 0.35, 0.8},
		{"Clamped to floors", 0.35, 0.9, 0.30, 0.8},
		{"At floors", 0.30, 0.8, 0.30, 0.8},
		{"Below floors stays", 0.2, 0.5, 0.2, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := entities.CompressionSettings{Quality: tt.quality, Scale: tt.scale, Grayscale: true, TargetSizeBytes: 100}
			next := entities.NextAttemptSettings(in)

			if math.Abs(next.Quality-tt.expectedQuality) > 1e-9 {
				t.Errorf("Expected quality %.2f, got %.4f", tt.expectedQuality, next.Quality)
			}
			if math.Abs(next.Scale-tt.expectedScale) > 1e-9 {
				t.Errorf("Expected scale %.2f, got %.4f", tt.expectedScale, next.Scale)
			}
			if !next.Grayscale || next.TargetSizeBytes != 100 {
				t.Error("Expected other settings to be preserved")
			}
			// Исходные параметры не меняются
			if in.Quality != tt.quality || in.Scale != tt.scale {
				t.Error("Input settings were mutated")
			}
		})
	}
}

func TestNextAttemptSettings_ReachesFloorsWithinAttempts(t *testing.T) {
	s := entities.CompressionSettings{Quality: 0.85, Scale: 2.0, TargetSizeBytes: 1}
	for i := 1; i < entities.MaxTargetAttempts; i++ {
		prev := s
		s = entities.NextAttemptSettings(s)
		if s.Quality > prev.Quality || s.Scale > prev.Scale {
			t.Fatalf("Step %d increased settings: %+v -> %+v", i, prev, s)
		}
	}
	if s.Quality < entities.MinQuality || s.Scale < entities.MinScale {
		t.Errorf("Settings dropped below floors: %+v", s)
	}
}

func TestShouldStop(t *testing.T) {
	noTarget := entities.CompressionSettings{Quality: 0.5, Scale: 1}
	withTarget := entities.CompressionSettings{Quality: 0.5, Scale: 1, TargetSizeBytes: 1000}

	tests := []struct {
		name     string
		settings entities.CompressionSettings
		size     int64
		attempts int
		expected bool
	}{
		{"No target stops after one pass", noTarget, 1 << 30, 1, true},
		{"Target met", withTarget, 1000, 1, true},
		{"Target missed, attempts left", withTarget, 1001, 1, false},
		{"Target missed at fourth", withTarget, 5000, 4, false},
		{"Target missed, attempts exhausted", withTarget, 5000, 5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := entities.ShouldStop(tt.settings, tt.size, tt.attempts); got != tt.expected {
				t.Errorf("ShouldStop() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCompressionRatio(t *testing.T) {
	tests := []struct {
		original, compressed int64
		expected             float64
	}{
		{1000, 500, 50.0},
		{3, 2, 33.3},
		{3, 1, 66.7},
		{1000, 1000, 0},
		{1000, 0, 100},
		{0, 10, 0},
		{1000, 1100, -10.0},
	}

	for _, tt := range tests {
		got := entities.CompressionRatio(tt.original, tt.compressed)
		if got != tt.expected {
			t.Errorf("CompressionRatio(%d, %d) = %v, want %v", tt.original, tt.compressed, got, tt.expected)
		}
		if tt.compressed <= tt.original && tt.original > 0 && (got < 0 || got > 100) {
			t.Errorf("Ratio %v out of bounds", got)
		}
	}
}

func TestProgressHelpers(t *testing.T) {
	if got := entities.RenderPercent(0, 4); got != 5 {
		t.Errorf("RenderPercent(0, 4) = %d, want 5", got)
	}
	if got := entities.RenderPercent(2, 4); got != 45 {
		t.Errorf("RenderPercent(2, 4) = %d, want 45", got)
	}
	if got := entities.RenderPercent(4, 4); got != 85 {
		t.Errorf("RenderPercent(4, 4) = %d, want 85", got)
	}

	if got := entities.OverallProgress(1, 50, 4); got != 37.5 {
		t.Errorf("OverallProgress(1, 50, 4) = %v, want 37.5", got)
	}
	if got := entities.OverallProgress(0, 0, 0); got != 0 {
		t.Errorf("OverallProgress with no files = %v, want 0", got)
	}
}
