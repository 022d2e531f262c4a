package entities

import "math"

// Параметры подбора размера
const (
	MaxTargetAttempts = 5

	QualityStep = 0.15
	ScaleStep   = 0.2

	MinQuality = 0.30
	MinScale   = 0.80
)

// NextAttemptSettings возвращает параметры следующей попытки после промаха по размеру.
// Качество и масштаб уменьшаются на фиксированный шаг до своих минимумов;
// значение, уже лежащее ниже минимума, не повышается.
func NextAttemptSettings(s CompressionSettings) CompressionSettings {
	next := s
	next.Quality = stepDown(s.Quality, QualityStep, MinQuality)
	next.Scale = stepDown(s.Scale, ScaleStep, MinScale)
	return next
}

func stepDown(value, step, floor float64) float64 {
	if value <= floor {
		return value
	}
	// Округляем, чтобы 0.72 - 0.15 давало 0.57, а не 0.5699999
	return math.Max(roundTo(value-step, 4), floor)
}

// ShouldStop решает, завершать ли подбор после попытки с номером attempts (с 1)
func ShouldStop(s CompressionSettings, outputSize int64, attempts int) bool {
	if !s.HasTarget() {
		return true
	}
	if outputSize <= s.TargetSizeBytes {
		return true
	}
	return attempts >= s.MaxAttempts()
}

// CompressionRatio вычисляет процент экономии, округленный до одного знака
func CompressionRatio(originalSize, compressedSize int64) float64 {
	if originalSize <= 0 {
		return 0
	}
	ratio := (float64(originalSize) - float64(compressedSize)) / float64(originalSize) * 100
	return roundTo(ratio, 1)
}

func roundTo(value float64, digits int) float64 {
	p := math.Pow(10, float64(digits))
	return math.Round(value*p) / p
}
