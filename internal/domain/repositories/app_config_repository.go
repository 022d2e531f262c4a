package repositories

import "pdfcompressor/internal/domain/entities"

// AppConfigRepository интерфейс для загрузки и сохранения config.yaml
type AppConfigRepository interface {
	Load(configPath string) (*entities.Config, error)
	Save(configPath string, config *entities.Config) error
}
