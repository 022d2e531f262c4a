package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"pdfcompressor/internal/domain/entities"
	"pdfcompressor/internal/domain/repositories"
	"pdfcompressor/internal/infrastructure/config"
	"pdfcompressor/internal/infrastructure/logging"
	"pdfcompressor/internal/presentation/tui"
)

var configPath string

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "pdfcompressor",
		Short: "Сжатие PDF с подбором под целевой размер",
		Long: `Каждая страница растеризуется, сжимается в JPEG и собирается в новый PDF.
Без подкоманды запускается TUI.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context())
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Путь к файлу конфигурации")
	root.AddCommand(newCompressCommand(), newHistoryCommand(), newServeCommand())
	return root
}

// loadConfig загружает конфигурацию и файловый логгер
func loadConfig() (*entities.Config, *logging.FileLogger, error) {
	appConfig, err := config.NewRepository().Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	// Инициализация базового логгера (в файл)
	fileLogger, err := logging.NewFileLogger(
		appConfig.Output.LogFileName,
		appConfig.Output.LogLevel,
		appConfig.Output.LogMaxSizeMB,
		appConfig.Output.LogToFile,
	)
	if err != nil {
		log.Printf("Предупреждение: не удалось инициализировать логгер: %v", err)
	}
	return appConfig, fileLogger, nil
}

func runTUI(ctx context.Context) error {
	configRepo := config.NewRepository()
	appConfig, fileLogger, err := loadConfig()
	if err != nil {
		return fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}

	// Инициализация TUI
	tuiManager := tui.NewManager(configRepo, configPath, appConfig, nil)

	// Оборачиваем логгер адаптером, чтобы видеть логи в TUI
	var fileLog repositories.Logger
	if fileLogger != nil {
		fileLog = fileLogger
	}
	logger := tui.NewUILogger(fileLog, tuiManager, appConfig.Output.LogLevel)
	defer logger.Close()

	container, err := NewContainer(ctx, appConfig, logger)
	if err != nil {
		return err
	}
	defer container.Close(context.Background())

	tuiManager.SetHistorySource(container.History)
	tuiManager.Initialize()

	// Создание процессора для обработки команд
	processor := NewApplicationProcessor(ctx, container, appConfig, tuiManager, logger)
	defer processor.Shutdown()

	// Привязываем запуск обработки к TUI
	tuiManager.SetOnStartProcessing(func() {
		// Получаем актуальную конфигурацию из TUI
		processor.SetConfig(tuiManager.GetConfig())
		processor.StartProcessing()
	})

	// Автозапуск, если включен в конфигурации
	if appConfig.Compression.AutoStart {
		go processor.StartProcessing()
	}

	// Запуск TUI
	// Cleanup при выходе
	defer tuiManager.Cleanup()

	if err := tuiManager.Run(); err != nil {
		return fmt.Errorf("ошибка запуска TUI: %w", err)
	}
	return nil
}
