package entities

import (
	"fmt"
	"time"
)

// Config представляет конфигурацию приложения
type Config struct {
	Scanner     ScannerConfig        `yaml:"scanner"`
	Compression AppCompressionConfig `yaml:"compression"`
	Processing  ProcessingConfig     `yaml:"processing"`
	History     HistoryConfig        `yaml:"history"`
	Server      ServerConfig         `yaml:"server"`
	Output      OutputConfig         `yaml:"output"`
}

// ScannerConfig настройки сканирования директорий
type ScannerConfig struct {
	SourceDirectory string `yaml:"source_directory"`
	TargetDirectory string `yaml:"target_directory"`
	ReplaceOriginal bool   `yaml:"replace_original"`
	PageRange       string `yaml:"page_range"`
}

// AppCompressionConfig настройки сжатия приложения
type AppCompressionConfig struct {
	Preset     string  `yaml:"preset"`
	Quality    float64 `yaml:"quality"` // 0 - взять из пресета
	Scale      float64 `yaml:"scale"`   // 0 - взять из пресета
	Grayscale  bool    `yaml:"grayscale"`
	TargetSize string  `yaml:"target_size"` // 10MB, 5MB, 2MB, 1MB или пусто

	Algorithm        string `yaml:"algorithm"`
	UniPDFLicenseKey string `yaml:"unipdf_license_key"`
	MaxPageDimension int    `yaml:"max_page_dimension"` // Максимальная сторона растра в пикселях, 0 - без ограничения
	OptimizeOutput   bool   `yaml:"optimize_output"`
	AutoStart        bool   `yaml:"auto_start"`
}

// ProcessingConfig настройки обработки
type ProcessingConfig struct {
	MaxAttempts    int `yaml:"max_attempts"`
	TimeoutSeconds int `yaml:"timeout_seconds"`
	MaxFileSizeMB  int `yaml:"max_file_size_mb"`
}

// HistoryConfig настройки хранилища журнала сжатий
type HistoryConfig struct {
	Backend         string `yaml:"backend"` // file, memory, mongo
	Directory       string `yaml:"directory"`
	MongoURI        string `yaml:"mongo_uri"`
	MongoDatabase   string `yaml:"mongo_database"`
	MongoCollection string `yaml:"mongo_collection"`
}

// ServerConfig настройки HTTP API
type ServerConfig struct {
	Address        string   `yaml:"address"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// OutputConfig настройки вывода
type OutputConfig struct {
	LogLevel     string `yaml:"log_level"`
	ProgressBar  bool   `yaml:"progress_bar"`
	LogToFile    bool   `yaml:"log_to_file"`
	LogFileName  string `yaml:"log_file_name"`
	LogMaxSizeMB int    `yaml:"log_max_size_mb"`
}

// MaxFileSize максимальный размер входного файла в байтах
const MaxFileSize = 100 * MB

// ProcessingStatus статус обработки
type ProcessingStatus struct {
	// Текущая фаза обработки
	Phase ProcessingPhase

	// Информация о текущем файле
	CurrentFile        string
	CurrentFileSize    int64
	CurrentAttempt     int
	CurrentFilePercent int
	CurrentSettings    CompressionSettings

	// Общая статистика
	TotalFiles      int
	ProcessedFiles  int
	SuccessfulFiles int
	FailedFiles     int
	SkippedFiles    int

	// Прогресс
	Progress float64

	// Статистика сжатия
	TotalOriginalSize   int64
	TotalCompressedSize int64
	TotalSavedSpace     int64
	AverageCompression  float64

	// Текущий результат
	LastResult *CompressionResult

	// Время выполнения
	StartTime     time.Time
	ElapsedTime   time.Duration
	EstimatedTime time.Duration

	// Состояние
	IsComplete bool
	Error      error

	// Сообщение для UI
	Message string
}

// ProcessingPhase фаза обработки
type ProcessingPhase int

const (
	PhaseInitializing ProcessingPhase = iota
	PhaseScanning
	PhaseCompressing
	PhaseReplacing
	PhaseCompleted
	PhaseFailed
)

// UIScreen типы экранов UI
type UIScreen int

const (
	UIScreenMenu UIScreen = iota
	UIScreenConfig
	UIScreenProcessing
	UIScreenHistory
)

// Validate проверяет корректность конфигурации приложения
func (c *AppCompressionConfig) Validate() error {
	if c.Preset != "" {
		if _, err := ParsePreset(c.Preset); err != nil {
			return err
		}
	}
	if c.Quality < 0 || c.Quality > 1 {
		return ErrInvalidQuality
	}
	if c.Scale < 0 {
		return ErrInvalidScale
	}
	if _, err := ParseTargetSize(c.TargetSize); err != nil {
		return err
	}
	if c.MaxPageDimension < 0 {
		return fmt.Errorf("максимальный размер растра не может быть отрицательным: %d", c.MaxPageDimension)
	}
	return nil
}

// Settings собирает параметры сжатия из конфигурации.
// Явные качество и масштаб перекрывают значения пресета.
func (c *AppCompressionConfig) Settings(pageRange string) (*CompressionSettings, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	preset := PresetBalanced
	if c.Preset != "" {
		preset, _ = ParsePreset(c.Preset)
	}

	settings := NewCompressionSettings(preset)
	if c.Quality > 0 {
		settings.Quality = c.Quality
	}
	if c.Scale > 0 {
		settings.Scale = c.Scale
	}
	settings.Grayscale = c.Grayscale
	settings.PageRange = pageRange

	target, _ := ParseTargetSize(c.TargetSize)
	settings.TargetSizeBytes = target

	settings.Normalize()
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// MaxFileSizeBytes возвращает ограничение размера входного файла
func (c *ProcessingConfig) MaxFileSizeBytes() int64 {
	if c.MaxFileSizeMB <= 0 {
		return MaxFileSize
	}
	return int64(c.MaxFileSizeMB) * MB
}

// NewProcessingStatus создает новый статус обработки
func NewProcessingStatus(totalFiles int) *ProcessingStatus {
	return &ProcessingStatus{
		Phase:      PhaseInitializing,
		TotalFiles: totalFiles,
		StartTime:  time.Now(),
	}
}

// UpdateProgress обновляет прогресс обработки
func (ps *ProcessingStatus) UpdateProgress() {
	if ps.TotalFiles > 0 {
		ps.SetProgress(OverallProgress(ps.ProcessedFiles, 0, ps.TotalFiles))
	}

	ps.ElapsedTime = time.Since(ps.StartTime)

	// Оценка оставшегося времени
	if ps.ProcessedFiles > 0 && ps.ProcessedFiles < ps.TotalFiles {
		avgTimePerFile := ps.ElapsedTime / time.Duration(ps.ProcessedFiles)
		remainingFiles := ps.TotalFiles - ps.ProcessedFiles
		ps.EstimatedTime = avgTimePerFile * time.Duration(remainingFiles)
	}
}

// SetProgress устанавливает общий прогресс, не допуская его уменьшения
func (ps *ProcessingStatus) SetProgress(progress float64) {
	if progress > 100 {
		progress = 100
	}
	if progress > ps.Progress {
		ps.Progress = progress
	}
}

// ApplyEvent обновляет статус по событию прогресса отдельного файла
func (ps *ProcessingStatus) ApplyEvent(event ProgressEvent) {
	ps.CurrentAttempt = event.Attempt
	ps.CurrentFilePercent = event.Percent
	ps.CurrentSettings = event.Settings
	ps.SetProgress(event.Overall)
	ps.ElapsedTime = time.Since(ps.StartTime)
}

// AddResult добавляет результат обработки файла
func (ps *ProcessingStatus) AddResult(result *CompressionResult) {
	ps.ProcessedFiles++
	ps.LastResult = result

	if result.Success && result.Error == nil {
		ps.SuccessfulFiles++
		ps.TotalOriginalSize += result.OriginalSize
		ps.TotalCompressedSize += result.CompressedSize
		ps.TotalSavedSpace += result.SavedSpace

		// Пересчитываем среднее сжатие
		if ps.TotalOriginalSize > 0 {
			ps.AverageCompression = ((float64(ps.TotalOriginalSize) - float64(ps.TotalCompressedSize)) / float64(ps.TotalOriginalSize)) * 100
		}
	} else {
		ps.FailedFiles++
	}

	ps.UpdateProgress()
}

// SetPhase устанавливает фазу обработки
func (ps *ProcessingStatus) SetPhase(phase ProcessingPhase, message string) {
	ps.Phase = phase
	ps.Message = message
}

// SetCurrentFile устанавлиет текущий обрабатываемый файл
func (ps *ProcessingStatus) SetCurrentFile(filePath string, size int64) {
	ps.CurrentFile = filePath
	ps.CurrentFileSize = size
	ps.CurrentAttempt = 0
	ps.CurrentFilePercent = 0
}

// Complete завершает обработку
func (ps *ProcessingStatus) Complete() {
	ps.IsComplete = true
	ps.Phase = PhaseCompleted
	ps.Progress = 100
	ps.ElapsedTime = time.Since(ps.StartTime)
	ps.EstimatedTime = 0
}

// Fail отмечает обработку как неудачную
func (ps *ProcessingStatus) Fail(err error) {
	ps.IsComplete = true
	ps.Phase = PhaseFailed
	ps.Error = err
	ps.ElapsedTime = time.Since(ps.StartTime)
}

// GetPhaseName возвращает название фазы
func (phase ProcessingPhase) String() string {
	switch phase {
	case PhaseInitializing:
		return "Инициализация"
	case PhaseScanning:
		return "Сканирование файлов"
	case PhaseCompressing:
		return "Сжатие файлов"
	case PhaseReplacing:
		return "Замена оригиналов"
	case PhaseCompleted:
		return "Завершено"
	case PhaseFailed:
		return "Ошибка"
	default:
		return "Неизвестно"
	}
}

// FormatElapsedTime форматирует время выполнения
func (ps *ProcessingStatus) FormatElapsedTime() string {
	return formatDuration(ps.ElapsedTime)
}

// FormatEstimatedTime форматирует оставшееся время
func (ps *ProcessingStatus) FormatEstimatedTime() string {
	if ps.EstimatedTime == 0 {
		return "N/A"
	}
	return formatDuration(ps.EstimatedTime)
}

func formatDuration(duration time.Duration) string {
	if duration < time.Second {
		return "< 1 сек"
	}
	return duration.Round(time.Second).String()
}
