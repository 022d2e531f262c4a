package main

import (
	"context"
	"sync"

	"pdfcompressor/internal/domain/entities"
	"pdfcompressor/internal/domain/repositories"
	"pdfcompressor/internal/presentation/tui"
)

// ApplicationProcessor запускает обработку по команде из TUI
type ApplicationProcessor struct {
	container  *Container
	config     *entities.Config
	tuiManager *tui.Manager
	logger     repositories.Logger

	// Graceful shutdown
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewApplicationProcessor создает новый процессор приложения
func NewApplicationProcessor(
	ctx context.Context,
	container *Container,
	config *entities.Config,
	tuiManager *tui.Manager,
	logger repositories.Logger,
) *ApplicationProcessor {
	ctx, cancel := context.WithCancel(ctx)

	return &ApplicationProcessor{
		container:  container,
		config:     config,
		tuiManager: tuiManager,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// SetConfig обновляет конфигурацию перед следующим запуском
func (p *ApplicationProcessor) SetConfig(config *entities.Config) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.config = config
}

// StartProcessing сжимает PDF файлы исходной директории.
// Параллельный запуск не допускается: второй вызов ждет окончания первого.
func (p *ApplicationProcessor) StartProcessing() {
	p.wg.Add(1)
	defer p.wg.Done()

	p.mu.Lock()
	defer p.mu.Unlock()

	batch := p.container.NewBatch(p.config)
	batch.SetProgressReporter(p.tuiManager.SendStatusUpdate)

	if err := batch.Execute(p.ctx, p.config); err != nil {
		p.logger.Error("Ошибка обработки: %v", err)
		return
	}

	p.logger.Success("Обработка файлов завершена успешно")
}

// Shutdown корректно завершает работу процессора
func (p *ApplicationProcessor) Shutdown() {
	p.cancel()
	p.wg.Wait()
}
