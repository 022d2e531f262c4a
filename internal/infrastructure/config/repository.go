package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"pdfcompressor/internal/domain/entities"
)

// Repository реализация репозитория конфигурации
type Repository struct {
	envFile string
}

// NewRepository создает новый репозиторий конфигурации.
// Переменные окружения дополнительно читаются из .env в текущей директории.
func NewRepository() *Repository {
	return &Repository{envFile: ".env"}
}

// NewRepositoryWithEnvFile создает репозиторий с указанным .env файлом, пусто - без него
func NewRepositoryWithEnvFile(envFile string) *Repository {
	return &Repository{envFile: envFile}
}

// Load загружает конфигурацию из файла и применяет переменные окружения PDFC_*
func (r *Repository) Load(configPath string) (*entities.Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		// Отсутствующие в файле поля сохраняют значения по умолчанию
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("ошибка разбора %s: %w", configPath, err)
		}
	case os.IsNotExist(err):
		// Если файл не существует, используем конфигурацию по умолчанию
	default:
		return nil, err
	}

	if err := r.loadEnvFile(); err != nil {
		return nil, err
	}
	if err := applyEnvOverrides(config); err != nil {
		return nil, err
	}

	if err := config.Compression.Validate(); err != nil {
		return nil, fmt.Errorf("некорректная секция compression: %w", err)
	}

	return config, nil
}

// Save сохраняет конфигурацию в файл
func (r *Repository) Save(configPath string, config *entities.Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// loadEnvFile загружает .env, не перекрывая уже заданные переменные
func (r *Repository) loadEnvFile() error {
	if r.envFile == "" {
		return nil
	}
	if _, err := os.Stat(r.envFile); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(r.envFile); err != nil {
		return fmt.Errorf("ошибка чтения %s: %w", r.envFile, err)
	}
	return nil
}

// DefaultConfig создает конфигурацию по умолчанию
func DefaultConfig() *entities.Config {
	return &entities.Config{
		Scanner: entities.ScannerConfig{
			SourceDirectory: "./pdfs",
			TargetDirectory: "./compressed",
			ReplaceOriginal: false,
		},
		Compression: entities.AppCompressionConfig{
			Preset:           string(entities.PresetBalanced),
			Algorithm:        "pdfcpu",
			MaxPageDimension: 6000,
			OptimizeOutput:   true,
			AutoStart:        false,
		},
		Processing: entities.ProcessingConfig{
			MaxAttempts:    entities.MaxTargetAttempts,
			TimeoutSeconds: 300,
			MaxFileSizeMB:  int(entities.MaxFileSize / entities.MB),
		},
		History: entities.HistoryConfig{
			Backend:         "file",
			Directory:       "./history",
			MongoDatabase:   "pdfcompressor",
			MongoCollection: "history",
		},
		Server: entities.ServerConfig{
			Address:        ":8080",
			AllowedOrigins: []string{"*"},
		},
		Output: entities.OutputConfig{
			LogLevel:     "info",
			ProgressBar:  true,
			LogToFile:    true,
			LogFileName:  "compressor.log",
			LogMaxSizeMB: 10,
		},
	}
}

// applyEnvOverrides перекрывает значения переменными окружения PDFC_*
func applyEnvOverrides(config *entities.Config) error {
	setString(&config.Scanner.SourceDirectory, "PDFC_SOURCE_DIR")
	setString(&config.Scanner.TargetDirectory, "PDFC_TARGET_DIR")
	setString(&config.Scanner.PageRange, "PDFC_PAGE_RANGE")
	setString(&config.Compression.Preset, "PDFC_PRESET")
	setString(&config.Compression.TargetSize, "PDFC_TARGET_SIZE")
	setString(&config.Compression.Algorithm, "PDFC_ALGORITHM")
	setString(&config.Compression.UniPDFLicenseKey, "PDFC_UNIPDF_LICENSE_KEY")
	setString(&config.History.Backend, "PDFC_HISTORY_BACKEND")
	setString(&config.History.Directory, "PDFC_HISTORY_DIR")
	setString(&config.History.MongoURI, "PDFC_MONGO_URI")
	setString(&config.History.MongoDatabase, "PDFC_MONGO_DATABASE")
	setString(&config.Server.Address, "PDFC_SERVER_ADDRESS")
	setString(&config.Output.LogLevel, "PDFC_LOG_LEVEL")

	if value := os.Getenv("PDFC_ALLOWED_ORIGINS"); value != "" {
		var origins []string
		for _, origin := range strings.Split(value, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				origins = append(origins, origin)
			}
		}
		config.Server.AllowedOrigins = origins
	}

	if err := setBool(&config.Scanner.ReplaceOriginal, "PDFC_REPLACE_ORIGINAL"); err != nil {
		return err
	}
	if err := setBool(&config.Compression.Grayscale, "PDFC_GRAYSCALE"); err != nil {
		return err
	}
	if err := setFloat(&config.Compression.Quality, "PDFC_QUALITY"); err != nil {
		return err
	}
	if err := setFloat(&config.Compression.Scale, "PDFC_SCALE"); err != nil {
		return err
	}
	if err := setInt(&config.Processing.MaxAttempts, "PDFC_MAX_ATTEMPTS"); err != nil {
		return err
	}
	if err := setInt(&config.Processing.TimeoutSeconds, "PDFC_TIMEOUT_SECONDS"); err != nil {
		return err
	}
	return setInt(&config.Processing.MaxFileSizeMB, "PDFC_MAX_FILE_SIZE_MB")
}

// Helper functions for environment variable handling
func setString(target *string, key string) {
	if value := os.Getenv(key); value != "" {
		*target = value
	}
}

func setBool(target *bool, key string) error {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("некорректное значение %s=%q: %w", key, value, err)
	}
	*target = b
	return nil
}

func setFloat(target *float64, key string) error {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("некорректное значение %s=%q: %w", key, value, err)
	}
	*target = f
	return nil
}

func setInt(target *int, key string) error {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("некорректное значение %s=%q: %w", key, value, err)
	}
	*target = n
	return nil
}
