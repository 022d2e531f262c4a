package usecases

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"pdfcompressor/internal/domain/entities"
	"pdfcompressor/internal/domain/repositories"
)

// BatchOptions куда и как сохранять результаты пакета
type BatchOptions struct {
	SourceDirectory string // Для сохранения структуры поддиректорий
	TargetDirectory string // Пусто - рядом с исходным файлом с суффиксом _compressed
	ReplaceOriginal bool
	Timeout         time.Duration // Ограничение на один файл, 0 - без ограничения
}

// ProcessPDFsUseCase сценарий пакетной обработки PDF файлов.
// Файлы сжимаются последовательно, ошибка одного файла не прерывает пакет.
type ProcessPDFsUseCase struct {
	compressPDF      *CompressPDFUseCase
	fileRepo         repositories.FileRepository
	configRepo       repositories.ConfigRepository
	history          *HistoryStore
	logger           repositories.Logger
	progressReporter func(entities.ProcessingStatus)
	observer         repositories.ProgressObserver
}

// NewProcessPDFsUseCase создает новый сценарий обработки PDF
func NewProcessPDFsUseCase(
	compressPDF *CompressPDFUseCase,
	fileRepo repositories.FileRepository,
	configRepo repositories.ConfigRepository,
	history *HistoryStore,
	logger repositories.Logger,
) *ProcessPDFsUseCase {
	return &ProcessPDFsUseCase{
		compressPDF: compressPDF,
		fileRepo:    fileRepo,
		configRepo:  configRepo,
		history:     history,
		logger:      logger,
	}
}

// SetProgressReporter устанавливает функцию для отчета о прогрессе
func (uc *ProcessPDFsUseCase) SetProgressReporter(reporter func(entities.ProcessingStatus)) {
	uc.progressReporter = reporter
}

// SetProgressObserver устанавливает получателя событий прогресса с общим процентом пакета
func (uc *ProcessPDFsUseCase) SetProgressObserver(observer repositories.ProgressObserver) {
	uc.observer = observer
}

// reportProgress отправляет обновление прогресса
func (uc *ProcessPDFsUseCase) reportProgress(status *entities.ProcessingStatus) {
	if uc.progressReporter != nil {
		uc.progressReporter(*status)
	}
}

// Execute выполняет обработку PDF файлов исходной директории согласно конфигурации
func (uc *ProcessPDFsUseCase) Execute(ctx context.Context, config *entities.Config) error {
	// Фаза 1: Инициализация
	status := entities.NewProcessingStatus(0)
	status.SetPhase(entities.PhaseInitializing, "Инициализация обработки...")
	uc.reportProgress(status)

	uc.logInfo("╔════════════════════════════════════════════════════════════")
	uc.logInfo("║ Начало обработки PDF файлов")
	uc.logInfo("╠════════════════════════════════════════════════════════════")
	uc.logInfo("║ Исходная директория: %s", config.Scanner.SourceDirectory)

	if config.Scanner.ReplaceOriginal {
		uc.logInfo("║ Режим: Замена оригинальных файлов")
	} else {
		uc.logInfo("║ Целевая директория: %s", config.Scanner.TargetDirectory)
	}

	settings, err := uc.configRepo.GetCompressionSettings(config)
	if err != nil {
		err = fmt.Errorf("ошибка валидации конфигурации сжатия: %w", err)
		status.Fail(err)
		uc.reportProgress(status)
		return err
	}

	uc.logInfo("║ Алгоритм: %s", config.Compression.Algorithm)
	uc.logInfo("║ Параметры: %s", settings)
	uc.logInfo("╚════════════════════════════════════════════════════════════")

	// Проверяем существование исходной директории
	if !uc.fileRepo.FileExists(config.Scanner.SourceDirectory) {
		err := fmt.Errorf("%w: %s", entities.ErrDirectoryNotFound, config.Scanner.SourceDirectory)
		status.Fail(err)
		uc.reportProgress(status)
		return err
	}

	// Создаем целевую директорию, если нужно
	if !config.Scanner.ReplaceOriginal && config.Scanner.TargetDirectory != "" {
		if err := uc.fileRepo.CreateDirectory(config.Scanner.TargetDirectory); err != nil {
			err = fmt.Errorf("ошибка создания целевой директории: %w", err)
			status.Fail(err)
			uc.reportProgress(status)
			return err
		}
	}

	// Фаза 2: Сканирование файлов
	status.SetPhase(entities.PhaseScanning, "Сканирование PDF файлов...")
	uc.reportProgress(status)
	uc.logInfo("🔍 Сканирование директории...")

	files, err := uc.fileRepo.ListPDFFiles(config.Scanner.SourceDirectory)
	if err != nil {
		err = fmt.Errorf("ошибка получения списка файлов: %w", err)
		status.Fail(err)
		uc.reportProgress(status)
		return err
	}

	if len(files) == 0 {
		uc.logWarning("⚠️  PDF файлы не найдены в директории: %s", config.Scanner.SourceDirectory)
		status.Complete()
		uc.reportProgress(status)
		return nil
	}

	uc.logSuccess("✓ Найдено файлов для обработки: %d", len(files))

	opts := BatchOptions{
		SourceDirectory: config.Scanner.SourceDirectory,
		TargetDirectory: config.Scanner.TargetDirectory,
		ReplaceOriginal: config.Scanner.ReplaceOriginal,
		Timeout:         time.Duration(config.Processing.TimeoutSeconds) * time.Second,
	}

	_, status = uc.ProcessFiles(ctx, files, *settings, opts)
	if status.Error != nil {
		return status.Error
	}
	return nil
}

// ProcessFiles сжимает перечисленные файлы по очереди и сохраняет результаты.
// OutputBytes успешных результатов освобождаются после записи на диск.
func (uc *ProcessPDFsUseCase) ProcessFiles(
	ctx context.Context,
	files []string,
	settings entities.CompressionSettings,
	opts BatchOptions,
) ([]*entities.CompressionResult, *entities.ProcessingStatus) {
	status := entities.NewProcessingStatus(len(files))
	results := make([]*entities.CompressionResult, 0, len(files))

	// Фаза 3: Сжатие файлов
	status.SetPhase(entities.PhaseCompressing, "Сжатие PDF файлов...")
	uc.reportProgress(status)
	uc.logInfo("")
	uc.logInfo("🔄 Начало сжатия файлов...")
	uc.logInfo("─────────────────────────────────────────────────────────────")

	for i, inputFile := range files {
		if err := ctx.Err(); err != nil {
			uc.logWarning("Обработка прервана: %v", err)
			status.Fail(err)
			uc.reportProgress(status)
			return results, status
		}

		result := uc.processFile(ctx, i, inputFile, settings, opts, status)
		results = append(results, result)

		status.AddResult(result)
		uc.reportProgress(status)
		uc.logResult(i+1, len(files), result)
	}

	// Финальная фаза
	status.Complete()
	uc.reportProgress(status)
	uc.logSummary(status)

	return results, status
}

// processFile сжимает один файл пакета и записывает результат
func (uc *ProcessPDFsUseCase) processFile(
	ctx context.Context,
	index int,
	inputFile string,
	settings entities.CompressionSettings,
	opts BatchOptions,
	status *entities.ProcessingStatus,
) *entities.CompressionResult {
	fileInfo, err := uc.fileRepo.GetFileInfo(inputFile)
	if err != nil {
		return entities.NewFailedResult(inputFile, 0,
			fmt.Errorf("%w: %v", entities.ErrFileNotFound, err))
	}

	status.SetCurrentFile(inputFile, fileInfo.Size)
	uc.reportProgress(status)
	uc.notify(entities.ProgressEvent{
		Kind:       entities.ProgressFileStarted,
		File:       inputFile,
		FileIndex:  index,
		TotalFiles: status.TotalFiles,
		Pages:      fileInfo.Pages,
		Settings:   settings,
	}, status)

	data, err := uc.fileRepo.ReadFile(inputFile)
	if err != nil {
		return entities.NewFailedResult(inputFile, fileInfo.Size,
			fmt.Errorf("ошибка чтения файла: %w", err))
	}

	fileCtx := ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		fileCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	observer := repositories.ProgressFunc(func(event entities.ProgressEvent) {
		event.File = inputFile
		event.FileIndex = index
		event.TotalFiles = status.TotalFiles
		uc.notify(event, status)
	})

	result := uc.compressPDF.Execute(fileCtx, inputFile, data, settings, observer)
	if !result.Success {
		return result
	}

	outputFile := uc.outputPath(inputFile, opts)
	if opts.ReplaceOriginal {
		status.SetPhase(entities.PhaseReplacing, "Замена оригинала...")
		err = uc.fileRepo.ReplaceFile(inputFile, result.OutputBytes)
		status.SetPhase(entities.PhaseCompressing, "Сжатие PDF файлов...")
	} else {
		err = uc.fileRepo.WriteFile(outputFile, result.OutputBytes)
	}
	result.OutputBytes = nil

	if err != nil {
		uc.logError("Не удалось сохранить %s: %v", outputFile, err)
		result.Success = false
		result.Error = fmt.Errorf("ошибка сохранения результата: %w", err)
		return result
	}
	uc.logInfo("Результат сохранен: %s", outputFile)

	uc.recordHistory(ctx, filepath.Base(inputFile), result)
	return result
}

// notify пересчитывает общий прогресс и передает событие дальше
func (uc *ProcessPDFsUseCase) notify(event entities.ProgressEvent, status *entities.ProcessingStatus) {
	event.Overall = entities.OverallProgress(event.FileIndex, event.Percent, event.TotalFiles)
	status.ApplyEvent(event)
	// Общий прогресс не убывает даже при повторных попытках
	event.Overall = status.Progress

	if uc.observer != nil {
		uc.observer.OnProgress(event)
	}
	if event.Kind != entities.ProgressPageEncoded || event.PagesDone == event.Pages {
		uc.reportProgress(status)
	}
}

// outputPath определяет путь выходного файла
func (uc *ProcessPDFsUseCase) outputPath(inputFile string, opts BatchOptions) string {
	if opts.ReplaceOriginal {
		return inputFile
	}

	fileName := filepath.Base(inputFile)
	if opts.TargetDirectory == "" {
		ext := filepath.Ext(fileName)
		return filepath.Join(filepath.Dir(inputFile), strings.TrimSuffix(fileName, ext)+"_compressed"+ext)
	}

	if opts.SourceDirectory != "" {
		// Сохраняем структуру директорий
		relPath, err := filepath.Rel(opts.SourceDirectory, inputFile)
		if err == nil && !strings.HasPrefix(relPath, "..") {
			return filepath.Join(opts.TargetDirectory, relPath)
		}
	}

	// Если не удалось получить относительный путь, используем просто имя файла
	return filepath.Join(opts.TargetDirectory, fileName)
}

// recordHistory добавляет успешное сжатие в журнал; ошибка журнала не влияет на результат
func (uc *ProcessPDFsUseCase) recordHistory(ctx context.Context, fileName string, result *entities.CompressionResult) {
	if uc.history == nil {
		return
	}
	if _, err := uc.history.Add(ctx, entities.NewHistoryEntry(fileName, result)); err != nil {
		uc.logWarning("Не удалось записать журнал для %s: %v", fileName, err)
	}
}

// logResult логирует результат обработки файла
func (uc *ProcessPDFsUseCase) logResult(n, total int, result *entities.CompressionResult) {
	fileName := filepath.Base(result.CurrentFile)
	if result.Success && result.Error == nil {
		uc.logSuccess("[%d/%d] ✓ %s", n, total, fileName)
		uc.logInfo("    └─ Размер: %s → %s",
			entities.FormatSize(result.OriginalSize),
			entities.FormatSize(result.CompressedSize))
		uc.logInfo("    └─ Сжатие: %.1f%% | Сэкономлено: %s | Попыток: %d",
			result.CompressionRatio,
			entities.FormatSize(result.SavedSpace),
			result.Attempts)
		if !result.TargetMet {
			uc.logWarning("    └─ Целевой размер не достигнут (%s)", result.SettingsUsed)
		}
	} else {
		uc.logError("[%d/%d] ✗ %s", n, total, fileName)
		uc.logError("    └─ Ошибка: %v", result.Error)
	}
}

// logSummary логирует итоговую статистику
func (uc *ProcessPDFsUseCase) logSummary(status *entities.ProcessingStatus) {
	uc.logInfo("")
	uc.logInfo("╔════════════════════════════════════════════════════════════")
	uc.logInfo("║ Обработка завершена")
	uc.logInfo("╠════════════════════════════════════════════════════════════")
	uc.logInfo("║ Время выполнения: %s", status.FormatElapsedTime())
	uc.logInfo("╠════════════════════════════════════════════════════════════")
	uc.logInfo("║ Статистика файлов:")
	uc.logInfo("║   • Всего: %d", status.TotalFiles)
	uc.logSuccess("║   • Успешно: %d", status.SuccessfulFiles)

	if status.FailedFiles > 0 {
		uc.logError("║   • Ошибок: %d", status.FailedFiles)
	}

	if status.TotalOriginalSize > 0 {
		uc.logInfo("╠════════════════════════════════════════════════════════════")
		uc.logInfo("║ Статистика сжатия:")
		uc.logInfo("║   • Исходный размер: %s", entities.FormatSize(status.TotalOriginalSize))
		uc.logInfo("║   • Сжатый размер: %s", entities.FormatSize(status.TotalCompressedSize))
		uc.logSuccess("║   • Среднее сжатие: %.1f%%", status.AverageCompression)
		uc.logSuccess("║   • Сэкономлено: %s", entities.FormatSize(status.TotalSavedSpace))
	}

	uc.logInfo("╚════════════════════════════════════════════════════════════")
}

// Методы для логирования
func (uc *ProcessPDFsUseCase) logInfo(format string, args ...interface{}) {
	if uc.logger != nil {
		uc.logger.Info(format, args...)
	}
}

func (uc *ProcessPDFsUseCase) logSuccess(format string, args ...interface{}) {
	if uc.logger != nil {
		uc.logger.Success(format, args...)
	}
}

func (uc *ProcessPDFsUseCase) logWarning(format string, args ...interface{}) {
	if uc.logger != nil {
		uc.logger.Warning(format, args...)
	}
}

func (uc *ProcessPDFsUseCase) logError(format string, args ...interface{}) {
	if uc.logger != nil {
		uc.logger.Error(format, args...)
	}
}
