package entities

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Preset именованная пара (качество, масштаб) для грубого выбора силы сжатия
type Preset string

const (
	PresetLight    Preset = "light"
	PresetBalanced Preset = "balanced"
	PresetStrong   Preset = "strong"
)

// Размеры для целевого ограничения (меню выбора)
const (
	MB int64 = 1024 * 1024

	TargetSize10MB = 10 * MB
	TargetSize5MB  = 5 * MB
	TargetSize2MB  = 2 * MB
	TargetSize1MB  = 1 * MB
)

// TargetSizes фиксированное меню целевых размеров
var TargetSizes = []int64{TargetSize10MB, TargetSize5MB, TargetSize2MB, TargetSize1MB}

// presetValues качество и масштаб для каждого пресета
var presetValues = map[Preset]struct {
	quality float64
	scale   float64
}{
	PresetLight:    {quality: 0.85, scale: 2.0},
	PresetBalanced: {quality: 0.72, scale: 1.5},
	PresetStrong:   {quality: 0.50, scale: 1.0},
}

// Presets возвращает пресеты в порядке возрастания силы сжатия
func Presets() []Preset {
	return []Preset{PresetLight, PresetBalanced, PresetStrong}
}

// ParsePreset разбирает имя пресета без учета регистра
func ParsePreset(name string) (Preset, error) {
	p := Preset(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := presetValues[p]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return p, nil
}

// CompressionSettings параметры одной попытки сжатия.
// Контроллер меняет их только между попытками.
type CompressionSettings struct {
	Quality         float64 // Качество JPEG (0, 1]
	Scale           float64 // Масштаб растеризации, > 0
	Grayscale       bool    // Перевод в оттенки серого перед кодированием
	TargetSizeBytes int64   // Целевой размер, 0 - без ограничения
	PageRange       string  // Диапазон страниц, пусто - все страницы
	AttemptLimit    int     // Предел попыток при заданной цели, 0 - MaxTargetAttempts
}

// NewCompressionSettings создает параметры сжатия по пресету
func NewCompressionSettings(preset Preset) *CompressionSettings {
	values, ok := presetValues[preset]
	if !ok {
		values = presetValues[PresetBalanced]
	}

	return &CompressionSettings{
		Quality: values.quality,
		Scale:   values.scale,
	}
}

// HasTarget проверяет, задан ли целевой размер
func (s *CompressionSettings) HasTarget() bool {
	return s.TargetSizeBytes > 0
}

// MaxAttempts возвращает предельное число попыток для этих параметров
func (s *CompressionSettings) MaxAttempts() int {
	if !s.HasTarget() {
		return 1
	}
	if s.AttemptLimit > 0 {
		return s.AttemptLimit
	}
	return MaxTargetAttempts
}

// JPEGQuality переводит качество (0, 1] в шкалу encoder'а 1..100
func (s *CompressionSettings) JPEGQuality() int {
	return JPEGQuality(s.Quality)
}

// JPEGQuality переводит качество (0, 1] в шкалу 1..100
func JPEGQuality(quality float64) int {
	q := int(math.Round(quality * 100))
	if q < 1 {
		q = 1
	}
	if q > 100 {
		q = 100
	}
	return q
}

// Normalize приводит значения к допустимым границам
func (s *CompressionSettings) Normalize() {
	if s.Quality > 1 {
		s.Quality = 1
	}
	if s.Quality <= 0 || math.IsNaN(s.Quality) {
		s.Quality = MinQuality
	}
	if s.TargetSizeBytes < 0 {
		s.TargetSizeBytes = 0
	}
	if s.AttemptLimit < 0 {
		s.AttemptLimit = 0
	}
	s.PageRange = strings.TrimSpace(s.PageRange)
}

// Validate проверяет корректность параметров
func (s *CompressionSettings) Validate() error {
	if s.Quality <= 0 || s.Quality > 1 || math.IsNaN(s.Quality) {
		return ErrInvalidQuality
	}
	if s.Scale <= 0 || math.IsNaN(s.Scale) || math.IsInf(s.Scale, 0) {
		return ErrInvalidScale
	}
	if s.TargetSizeBytes < 0 {
		return ErrInvalidTargetSize
	}
	return nil
}

// String возвращает краткое описание параметров для журнала
func (s CompressionSettings) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "качество %.2f, масштаб %.2f", s.Quality, s.Scale)
	if s.Grayscale {
		b.WriteString(", ч/б")
	}
	if s.HasTarget() {
		fmt.Fprintf(&b, ", цель %s", FormatSize(s.TargetSizeBytes))
	}
	if s.PageRange != "" {
		fmt.Fprintf(&b, ", страницы %s", s.PageRange)
	}
	return b.String()
}

// ParseTargetSize разбирает целевой размер: "10MB", "512KB", "1048576" или пусто
func ParseTargetSize(value string) (int64, error) {
	v := strings.ToUpper(strings.TrimSpace(value))
	if v == "" || v == "0" || v == "NONE" {
		return 0, nil
	}

	multiplier := int64(1)
	switch {
	case strings.HasSuffix(v, "MB"):
		multiplier = MB
		v = strings.TrimSuffix(v, "MB")
	case strings.HasSuffix(v, "KB"):
		multiplier = 1024
		v = strings.TrimSuffix(v, "KB")
	case strings.HasSuffix(v, "B"):
		v = strings.TrimSuffix(v, "B")
	}

	n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTargetSize, value)
	}
	return int64(n * float64(multiplier)), nil
}

// FormatSize форматирует размер в байтах для UI
func FormatSize(size int64) string {
	switch {
	case size >= MB:
		return fmt.Sprintf("%.2f MB", float64(size)/float64(MB))
	case size >= 1024:
		return fmt.Sprintf("%.1f KB", float64(size)/1024)
	default:
		return fmt.Sprintf("%d B", size)
	}
}
