package controllers

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"text/tabwriter"

	"pdfcompressor/internal/domain/entities"
	"pdfcompressor/internal/domain/repositories"
	usecases "pdfcompressor/internal/usecase"
)

// CLIController контроллер для командной строки без TUI
type CLIController struct {
	processUseCase *usecases.ProcessPDFsUseCase
	history        *usecases.HistoryStore
	out            io.Writer
}

// NewCLIController создает новый CLI контроллер
func NewCLIController(
	processUseCase *usecases.ProcessPDFsUseCase,
	history *usecases.HistoryStore,
	out io.Writer,
) *CLIController {
	return &CLIController{
		processUseCase: processUseCase,
		history:        history,
		out:            out,
	}
}

// HandleFiles сжимает перечисленные файлы и печатает результаты.
// Возвращает ошибку, если хотя бы один файл не удалось сжать.
func (c *CLIController) HandleFiles(
	ctx context.Context,
	files []string,
	settings entities.CompressionSettings,
	opts usecases.BatchOptions,
) error {
	fmt.Fprintln(c.out, "🔥 PDF Compressor - Сжатие PDF файлов")
	fmt.Fprintln(c.out, "====================================")
	fmt.Fprintf(c.out, "Параметры: %s\n\n", settings)

	c.processUseCase.SetProgressObserver(repositories.ProgressFunc(c.printProgress))

	results, status := c.processUseCase.ProcessFiles(ctx, files, settings, opts)
	for _, result := range results {
		c.showCompressionResult(result)
	}

	fmt.Fprintf(c.out, "\n🎉 Обработка завершена! Успешно сжато: %d/%d файлов за %s\n",
		status.SuccessfulFiles, status.TotalFiles, status.FormatElapsedTime())

	if status.Error != nil {
		return status.Error
	}
	if status.FailedFiles > 0 {
		return fmt.Errorf("%w: %d из %d файлов", entities.ErrCompressionFailed, status.FailedFiles, status.TotalFiles)
	}
	return nil
}

// HandleHistory печатает журнал сжатий или очищает его
func (c *CLIController) HandleHistory(ctx context.Context, clear bool) error {
	if clear {
		if err := c.history.Clear(ctx); err != nil {
			return err
		}
		fmt.Fprintln(c.out, "🧹 Журнал очищен")
		return nil
	}

	entries, err := c.history.Get(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(c.out, "Журнал пуст")
		return nil
	}

	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ДАТА\tФАЙЛ\tИСХОДНЫЙ\tСЖАТЫЙ\tСЖАТИЕ")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.1f%%\n",
			e.Date.Local().Format("2006-01-02 15:04"), e.Filename,
			entities.FormatSize(e.OriginalSize), entities.FormatSize(e.CompressedSize), e.Ratio)
	}
	return tw.Flush()
}

// printProgress печатает начало каждой попытки
func (c *CLIController) printProgress(event entities.ProgressEvent) {
	if event.Kind != entities.ProgressAttemptStarted {
		return
	}
	fmt.Fprintf(c.out, "[%d/%d] %s: попытка %d (%s) | общий прогресс %.0f%%\n",
		event.FileIndex+1, event.TotalFiles, filepath.Base(event.File),
		event.Attempt, event.Settings, event.Overall)
}

// showCompressionResult показывает результат сжатия файла
func (c *CLIController) showCompressionResult(result *entities.CompressionResult) {
	name := filepath.Base(result.CurrentFile)
	if !result.Success {
		fmt.Fprintf(c.out, "❌ %s: %s\n", name, result.ErrorMessage())
		return
	}

	fmt.Fprintf(c.out, "✅ %s: %s → %s, сжатие %.1f%%, попыток %d\n",
		name,
		entities.FormatSize(result.OriginalSize),
		entities.FormatSize(result.CompressedSize),
		result.CompressionRatio,
		result.Attempts)

	if !result.TargetMet {
		fmt.Fprintf(c.out, "   ⚠️ Целевой размер %s не достигнут\n", entities.FormatSize(result.SettingsUsed.TargetSizeBytes))
	} else if !result.IsEffective() {
		fmt.Fprintln(c.out, "   ⚠️ Файл не стал меньше (возможно, уже оптимизирован)")
	}
}
