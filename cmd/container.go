package main

import (
	"context"
	"errors"
	"fmt"

	"pdfcompressor/internal/domain/entities"
	"pdfcompressor/internal/domain/repositories"
	"pdfcompressor/internal/infrastructure/compressors"
	infraRepos "pdfcompressor/internal/infrastructure/repositories"
	usecases "pdfcompressor/internal/usecase"
)

// Container связывает зависимости приложения
type Container struct {
	Config  *entities.Config
	Logger  repositories.Logger
	History *usecases.HistoryStore

	fileRepo   *infraRepos.FileSystemRepository
	configRepo *infraRepos.ConfigRepository
	store      repositories.KeyValueStore
}

// NewContainer создает контейнер и открывает хранилище журнала
func NewContainer(ctx context.Context, cfg *entities.Config, logger repositories.Logger) (*Container, error) {
	store, err := newHistoryBackend(ctx, cfg.History)
	if err != nil {
		return nil, err
	}

	return &Container{
		Config:     cfg,
		Logger:     logger,
		History:    usecases.NewHistoryStore(store, logger),
		fileRepo:   infraRepos.NewFileSystemRepository(),
		configRepo: infraRepos.NewConfigRepository(),
		store:      store,
	}, nil
}

// NewCompressor собирает конвейер сжатия по секции compression
func (c *Container) NewCompressor(cfg *entities.Config) *usecases.CompressPDFUseCase {
	assembler := c.newAssembler(cfg.Compression)

	uc := usecases.NewCompressPDFUseCase(
		compressors.NewFitzRasterizer(),
		compressors.NewJPEGEncoder(cfg.Compression.MaxPageDimension),
		assembler,
		c.Logger,
	)
	uc.SetMaxFileSize(cfg.Processing.MaxFileSizeBytes())
	return uc
}

// NewBatch создает сценарий пакетной обработки
func (c *Container) NewBatch(cfg *entities.Config) *usecases.ProcessPDFsUseCase {
	return usecases.NewProcessPDFsUseCase(
		c.NewCompressor(cfg),
		c.fileRepo,
		c.configRepo,
		c.History,
		c.Logger,
	)
}

// Settings собирает параметры сжатия из конфигурации
func (c *Container) Settings(cfg *entities.Config) (*entities.CompressionSettings, error) {
	return c.configRepo.GetCompressionSettings(cfg)
}

// Close закрывает хранилище журнала
func (c *Container) Close(ctx context.Context) {
	if err := c.store.Close(ctx); err != nil {
		c.Logger.Warning("Ошибка закрытия хранилища журнала: %v", err)
	}
}

// newAssembler выбирает сборщик PDF на основе конфигурации
func (c *Container) newAssembler(cfg entities.AppCompressionConfig) repositories.PageAssembler {
	switch cfg.Algorithm {
	case "unipdf":
		assembler, err := compressors.NewUniPDFAssembler(cfg.UniPDFLicenseKey)
		if err == nil {
			return compressors.NewCheckedAssembler(assembler)
		}
		c.Logger.Warning("UniPDF недоступен (%v), используется pdfcpu", err)
	case "", "pdfcpu":
	default:
		c.Logger.Warning("Неизвестный алгоритм %q, используется pdfcpu", cfg.Algorithm)
	}
	return compressors.NewCheckedAssembler(compressors.NewPDFCPUAssembler(cfg.OptimizeOutput))
}

// newHistoryBackend открывает хранилище журнала по секции history
func newHistoryBackend(ctx context.Context, cfg entities.HistoryConfig) (repositories.KeyValueStore, error) {
	switch cfg.Backend {
	case "memory":
		return infraRepos.NewMemoryKeyValueStore(), nil
	case "mongo":
		if cfg.MongoURI == "" {
			return nil, errors.New("history.mongo_uri обязателен для backend mongo")
		}
		store, err := infraRepos.NewMongoKeyValueStore(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "", "file":
		directory := cfg.Directory
		if directory == "" {
			directory = "history"
		}
		store, err := infraRepos.NewFileKeyValueStore(directory)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("неизвестный backend журнала: %q", cfg.Backend)
	}
}
