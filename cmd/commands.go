package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"pdfcompressor/internal/domain/entities"
	"pdfcompressor/internal/domain/repositories"
	"pdfcompressor/internal/infrastructure/logging"
	"pdfcompressor/internal/interface/controllers"
	usecases "pdfcompressor/internal/usecase"
)

// shutdownTimeout время на завершение активных HTTP запросов
const shutdownTimeout = 30 * time.Second

// compressFlags флаги команды compress
type compressFlags struct {
	preset     string
	quality    float64
	scale      float64
	grayscale  bool
	target     string
	pageRange  string
	outputDir  string
	replace    bool
	algorithm  string
	maxAttempt int
}

func newCompressCommand() *cobra.Command {
	var flags compressFlags

	cmd := &cobra.Command{
		Use:   "compress <input.pdf>...",
		Short: "Сжать PDF файлы без TUI",
		Long: `Сжимает файлы по очереди. Без -o результат сохраняется рядом с исходным
файлом с суффиксом _compressed, с --replace заменяет оригинал.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompress(cmd, args, flags)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.preset, "preset", "p", "", "Пресет: light, balanced, strong")
	f.Float64VarP(&flags.quality, "quality", "q", 0, "Качество JPEG (0, 1], перекрывает пресет")
	f.Float64VarP(&flags.scale, "scale", "s", 0, "Масштаб растеризации, перекрывает пресет")
	f.BoolVarP(&flags.grayscale, "grayscale", "g", false, "Перевести страницы в оттенки серого")
	f.StringVarP(&flags.target, "target", "t", "", "Целевой размер: 10MB, 5MB, 2MB, 1MB или байты")
	f.StringVarP(&flags.pageRange, "range", "r", "", "Страницы, например 1-5,8,12-15")
	f.StringVarP(&flags.outputDir, "output", "o", "", "Директория для результатов")
	f.BoolVar(&flags.replace, "replace", false, "Заменить исходные файлы")
	f.StringVar(&flags.algorithm, "algorithm", "", "Сборка PDF: pdfcpu или unipdf")
	f.IntVar(&flags.maxAttempt, "max-attempts", 0, "Предел попыток при заданной цели")

	return cmd
}

func runCompress(cmd *cobra.Command, files []string, flags compressFlags) error {
	cfg, fileLogger, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newConsoleLogger(cfg, fileLogger)
	defer logger.Close()

	// Флаги перекрывают конфигурацию
	changed := cmd.Flags().Changed
	if changed("preset") {
		cfg.Compression.Preset = flags.preset
		cfg.Compression.Quality, cfg.Compression.Scale = 0, 0
	}
	if changed("quality") {
		cfg.Compression.Quality = flags.quality
	}
	if changed("scale") {
		cfg.Compression.Scale = flags.scale
	}
	if changed("grayscale") {
		cfg.Compression.Grayscale = flags.grayscale
	}
	if changed("target") {
		cfg.Compression.TargetSize = flags.target
	}
	if changed("range") {
		cfg.Scanner.PageRange = flags.pageRange
	}
	if changed("algorithm") {
		cfg.Compression.Algorithm = flags.algorithm
	}
	if changed("max-attempts") {
		cfg.Processing.MaxAttempts = flags.maxAttempt
	}

	ctx := cmd.Context()
	container, err := NewContainer(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer container.Close(context.Background())

	settings, err := container.Settings(cfg)
	if err != nil {
		return err
	}

	opts := usecases.BatchOptions{
		TargetDirectory: flags.outputDir,
		ReplaceOriginal: flags.replace,
		Timeout:         time.Duration(cfg.Processing.TimeoutSeconds) * time.Second,
	}

	cli := controllers.NewCLIController(container.NewBatch(cfg), container.History, cmd.OutOrStdout())
	return cli.HandleFiles(ctx, files, *settings, opts)
}

func newHistoryCommand() *cobra.Command {
	var clearHistory bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Показать журнал последних сжатий",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, fileLogger, err := loadConfig()
			if err != nil {
				return err
			}
			logger := newConsoleLogger(cfg, fileLogger)
			defer logger.Close()

			container, err := NewContainer(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer container.Close(context.Background())

			cli := controllers.NewCLIController(nil, container.History, cmd.OutOrStdout())
			return cli.HandleHistory(cmd.Context(), clearHistory)
		},
	}

	cmd.Flags().BoolVar(&clearHistory, "clear", false, "Очистить журнал")
	return cmd
}

func newServeCommand() *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Запустить HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, fileLogger, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("address") {
				cfg.Server.Address = address
			}
			logger := newConsoleLogger(cfg, fileLogger)
			defer logger.Close()

			return runServer(cmd.Context(), cfg, logger)
		},
	}

	cmd.Flags().StringVarP(&address, "address", "a", "", "Адрес HTTP сервера (по умолчанию server.address)")
	return cmd
}

func runServer(ctx context.Context, cfg *entities.Config, logger repositories.Logger) error {
	container, err := NewContainer(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer container.Close(context.Background())

	api := controllers.NewHTTPController(container.NewCompressor(cfg), container.History, cfg, logger)

	server := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           api.Router(cfg.Server.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Run server
	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP API слушает %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Graceful shutdown
	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка HTTP сервера: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Остановка HTTP API...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("HTTP API остановлен")
	return nil
}

// newConsoleLogger логгер для режимов без TUI, дублирующий записи в файл
func newConsoleLogger(cfg *entities.Config, fileLogger *logging.FileLogger) repositories.Logger {
	return logging.NewConsoleLogger(os.Stderr, cfg.Output.LogLevel, fileLogger)
}
