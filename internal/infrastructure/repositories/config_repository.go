package repositories

import (
	"fmt"

	"pdfcompressor/internal/domain/entities"
)

// ConfigRepository собирает параметры сжатия из конфигурации приложения
type ConfigRepository struct{}

// NewConfigRepository создает новый репозиторий конфигурации
func NewConfigRepository() *ConfigRepository {
	return &ConfigRepository{}
}

// GetCompressionSettings объединяет пресет, явные значения, диапазон страниц
// и предел попыток в параметры одного прогона
func (r *ConfigRepository) GetCompressionSettings(config *entities.Config) (*entities.CompressionSettings, error) {
	if config == nil {
		return nil, fmt.Errorf("конфигурация не задана")
	}

	settings, err := config.Compression.Settings(config.Scanner.PageRange)
	if err != nil {
		return nil, err
	}

	settings.AttemptLimit = config.Processing.MaxAttempts
	settings.Normalize()
	if err := r.ValidateSettings(settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// ValidateSettings валидирует параметры сжатия
func (r *ConfigRepository) ValidateSettings(settings *entities.CompressionSettings) error {
	return settings.Validate()
}
