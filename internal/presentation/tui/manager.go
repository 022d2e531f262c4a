package tui

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"pdfcompressor/internal/domain/entities"
	"pdfcompressor/internal/domain/repositories"
)

// HistorySource журнал сжатий для экрана истории
type HistorySource interface {
	Get(ctx context.Context) ([]entities.HistoryEntry, error)
	Clear(ctx context.Context) error
}

// UI Configuration constants
const (
	MaxLogBufferSize   = 1000
	LogFlushInterval   = 50 * time.Millisecond
	ProgressBarWidth   = 40
	MaxFileNameLength  = 60
	MaxFileNameDisplay = 57
	ProgressViewHeight = 13
)

// Элементы формы конфигурации по порядку
const (
	formSourceDir = iota
	formTargetDir
	formReplace
	formPreset
	formGrayscale
	formTargetSize
	formPageRange
	formAlgorithm
	formLicense
	formAutoStart
)

var algorithms = []string{"pdfcpu", "unipdf"}

// targetOptions варианты целевого размера в форме
var targetOptions = []string{"Без ограничения", "10MB", "5MB", "2MB", "1MB"}

// Manager управляет TUI интерфейсом
type Manager struct {
	app           *tview.Application
	pages         *tview.Pages
	currentScreen entities.UIScreen

	// UI компоненты
	mainMenu     *tview.List
	configForm   *tview.Form
	progressView *tview.TextView
	logView      *tview.TextView
	historyTable *tview.Table

	// Callbacks
	onStartProcessing func()

	// Зависимости
	configStore repositories.AppConfigRepository
	configPath  string
	history     HistorySource

	// Состояние
	config       *entities.Config
	logBuffer    []string
	statusMutex  sync.RWMutex
	isProcessing bool

	// Оптимизированный батчинг логов через канал
	logChan  chan string
	logDone  chan struct{}
	logMutex sync.Mutex
}

// NewManager создает новый менеджер TUI
func NewManager(configStore repositories.AppConfigRepository, configPath string, config *entities.Config, history HistorySource) *Manager {
	m := &Manager{
		app:         tview.NewApplication(),
		pages:       tview.NewPages(),
		configStore: configStore,
		configPath:  configPath,
		config:      config,
		history:     history,
		logBuffer:   make([]string, 0, MaxLogBufferSize),
		logChan:     make(chan string, 100), // Buffered channel для батчинга
		logDone:     make(chan struct{}),
	}
	// Запускаем горутину обработки логов
	go m.logProcessor()
	return m
}

// Initialize инициализирует TUI
func (m *Manager) Initialize() {
	m.createUI()
	m.setupKeyBindings()
}

// Run запускает TUI
func (m *Manager) Run() error {
	return m.app.SetRoot(m.pages, true).EnableMouse(true).Run()
}

// SetOnStartProcessing устанавливает callback для начала обработки
func (m *Manager) SetOnStartProcessing(callback func()) {
	m.onStartProcessing = callback
}

// SetHistorySource устанавливает журнал для экрана истории
func (m *Manager) SetHistorySource(history HistorySource) {
	m.history = history
}

// SendStatusUpdate отправляет обновление статуса
func (m *Manager) SendStatusUpdate(status entities.ProcessingStatus) {
	m.updateProgress(status)
}

// GetConfig возвращает копию текущей конфигурации
func (m *Manager) GetConfig() *entities.Config {
	m.statusMutex.RLock()
	defer m.statusMutex.RUnlock()

	cfg := *m.config
	return &cfg
}

// reloadConfig перечитывает конфигурацию, отменяя несохраненные изменения
func (m *Manager) reloadConfig() {
	cfg, err := m.configStore.Load(m.configPath)
	if err != nil {
		m.AddLog("error", fmt.Sprintf("Ошибка загрузки конфигурации: %v", err))
		return
	}
	m.config = cfg
}

// saveConfig сохраняет конфигурацию
func (m *Manager) saveConfig() {
	if err := m.configStore.Save(m.configPath, m.config); err != nil {
		m.AddLog("error", fmt.Sprintf("Ошибка сохранения конфигурации: %v", err))
	}
}

// createUI создает пользовательский интерфейс
func (m *Manager) createUI() {
	m.createMainMenu()
	m.createConfigScreen()
	m.createProcessingScreen()
	m.createHistoryScreen()

	m.pages.AddPage("menu", m.mainMenu, true, true)
	m.pages.AddPage("config", m.configForm, true, false)
	m.pages.AddPage("processing", m.createProcessingLayout(), true, false)
	m.pages.AddPage("history", m.historyTable, true, false)

	m.currentScreen = entities.UIScreenMenu
}

// createMainMenu создает главное меню
func (m *Manager) createMainMenu() {
	m.mainMenu = tview.NewList().
		AddItem("🚀 Запуск сжатия", "Сжать PDF файлы исходной директории", '1', func() {
			m.startProcessing()
		}).
		AddItem("⚙️ Конфигурация", "Пресет, целевой размер, страницы и директории", '2', func() {
			m.switchToScreen(entities.UIScreenConfig)
		}).
		AddItem("🕘 История", "Последние сжатые файлы", '3', func() {
			m.switchToScreen(entities.UIScreenHistory)
		}).
		AddItem("❌ Выход", "Закрыть приложение", 'q', func() {
			m.Cleanup()
			m.app.Stop()
		})

	m.mainMenu.SetBorder(true).
		SetTitle("🔥 PDF Compressor - Главное меню").
		SetTitleAlign(tview.AlignCenter)

	// Настраиваем стиль
	m.mainMenu.SetSelectedBackgroundColor(tcell.ColorDarkBlue).
		SetSelectedTextColor(tcell.ColorWhite).
		SetMainTextColor(tcell.ColorWhite).
		SetSecondaryTextColor(tcell.ColorGray)
}

// createConfigScreen создает экран конфигурации
func (m *Manager) createConfigScreen() {
	presets := presetNames()

	m.configForm = tview.NewForm().
		AddInputField("Исходная директория", m.config.Scanner.SourceDirectory, 60, nil, func(text string) {
			m.config.Scanner.SourceDirectory = text
		}).
		AddInputField("Целевая директория", m.config.Scanner.TargetDirectory, 60, nil, func(text string) {
			m.config.Scanner.TargetDirectory = text
		}).
		AddCheckbox("Заменить оригинал", m.config.Scanner.ReplaceOriginal, func(checked bool) {
			m.config.Scanner.ReplaceOriginal = checked
		}).
		AddDropDown("Пресет", presets, indexOf(presets, m.config.Compression.Preset, 1), func(option string, optionIndex int) {
			if optionIndex >= 0 && option != m.config.Compression.Preset {
				m.config.Compression.Preset = option
				// Явные значения перекрывали бы выбранный пресет
				m.config.Compression.Quality, m.config.Compression.Scale = 0, 0
			}
		}).
		AddCheckbox("Оттенки серого", m.config.Compression.Grayscale, func(checked bool) {
			m.config.Compression.Grayscale = checked
		}).
		AddDropDown("Целевой размер", targetOptions, targetOptionIndex(m.config.Compression.TargetSize), func(option string, optionIndex int) {
			if optionIndex >= 0 {
				m.config.Compression.TargetSize = targetOptionValue(optionIndex)
			}
		}).
		AddInputField("Страницы (например 1-5, 8)", m.config.Scanner.PageRange, 30, nil, func(text string) {
			m.config.Scanner.PageRange = text
		}).
		AddDropDown("Сборка PDF", algorithms, indexOf(algorithms, m.config.Compression.Algorithm, 0), func(option string, optionIndex int) {
			m.config.Compression.Algorithm = option
			m.updateLicenseFieldVisibility()
		}).
		AddInputField("Лицензия UniPDF (UNIDOC_LICENSE_API_KEY)", m.config.Compression.UniPDFLicenseKey, 60, nil, func(text string) {
			m.config.Compression.UniPDFLicenseKey = text
		}).
		AddCheckbox("Автостарт", m.config.Compression.AutoStart, func(checked bool) {
			m.config.Compression.AutoStart = checked
		}).
		AddButton("Сохранить", func() {
			m.saveConfig()
			m.switchToScreen(entities.UIScreenMenu)
			// Позиционируемся на пункте "Конфигурация" (индекс 1)
			m.mainMenu.SetCurrentItem(1)
		})

	m.updateLicenseFieldVisibility()

	m.configForm.SetBorder(true).
		SetTitle("🔥 PDF Compressor - Конфигурация (ESC - выйти без сохранения)").
		SetTitleAlign(tview.AlignCenter)

	// Обработка ESC для выхода без сохранения
	m.configForm.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape {
			m.reloadConfig()
			m.switchToScreen(entities.UIScreenMenu)
			return nil
		}
		return event
	})
}

// createProcessingScreen создает экран обработки
func (m *Manager) createProcessingScreen() {
	m.progressView = tview.NewTextView().
		SetDynamicColors(true).
		SetRegions(true).
		SetScrollable(true)

	m.progressView.SetBorder(true).
		SetTitle("📊 Прогресс обработки").
		SetTitleAlign(tview.AlignCenter)

	m.logView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetMaxLines(MaxLogBufferSize)

	m.logView.SetBorder(true).
		SetTitle("📋 Журнал событий").
		SetTitleAlign(tview.AlignCenter)
}

// createProcessingLayout создает layout для экрана обработки
func (m *Manager) createProcessingLayout() *tview.Flex {
	return tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(m.logView, 0, 1, false).
		AddItem(m.progressView, ProgressViewHeight, 0, false)
}

// createHistoryScreen создает экран истории сжатий
func (m *Manager) createHistoryScreen() {
	m.historyTable = tview.NewTable().
		SetBorders(false).
		SetFixed(1, 0).
		SetSelectable(true, false)

	m.historyTable.SetBorder(true).
		SetTitle("🕘 История (C - очистить, R - обновить, ESC - меню)").
		SetTitleAlign(tview.AlignCenter)

	m.historyTable.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Rune() {
		case 'c', 'C':
			if m.history == nil {
				return nil
			}
			if err := m.history.Clear(context.Background()); err != nil {
				m.AddLog("error", fmt.Sprintf("Ошибка очистки истории: %v", err))
			}
			m.refreshHistory()
			return nil
		case 'r', 'R':
			m.refreshHistory()
			return nil
		}
		return event
	})
}

// refreshHistory перечитывает журнал в таблицу
func (m *Manager) refreshHistory() {
	if m.history == nil {
		return
	}
	entries, err := m.history.Get(context.Background())
	if err != nil {
		m.AddLog("error", fmt.Sprintf("Ошибка чтения истории: %v", err))
	}

	m.historyTable.Clear()
	for col, title := range []string{"Дата", "Файл", "Исходный", "Сжатый", "Сжатие"} {
		m.historyTable.SetCell(0, col, tview.NewTableCell(title).
			SetTextColor(tcell.ColorYellow).
			SetSelectable(false))
	}

	if len(entries) == 0 {
		m.historyTable.SetCell(1, 0, tview.NewTableCell("История пуста").SetTextColor(tcell.ColorGray))
		return
	}

	for i, row := range historyRows(entries) {
		for col, text := range row {
			m.historyTable.SetCell(i+1, col, tview.NewTableCell(text).SetExpansion(1))
		}
	}
}

// setupKeyBindings настраивает горячие клавиши
func (m *Manager) setupKeyBindings() {
	m.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyF1:
			m.switchToScreen(entities.UIScreenMenu)
			return nil
		case tcell.KeyF2:
			m.switchToScreen(entities.UIScreenConfig)
			return nil
		case tcell.KeyF3:
			if m.isProcessing {
				m.switchToScreen(entities.UIScreenProcessing)
			}
			return nil
		case tcell.KeyF4:
			m.switchToScreen(entities.UIScreenHistory)
			return nil
		case tcell.KeyEscape:
			// ESC работает по-разному в зависимости от экрана
			if m.currentScreen == entities.UIScreenConfig {
				// В конфигурации ESC обрабатывается локально формой
				return event
			} else if m.currentScreen != entities.UIScreenMenu {
				m.switchToScreen(entities.UIScreenMenu)
				return nil
			}
		}

		// Обработка числовых клавиш для меню
		if m.currentScreen == entities.UIScreenMenu {
			switch event.Rune() {
			case '1':
				m.startProcessing()
				return nil
			case '2':
				m.switchToScreen(entities.UIScreenConfig)
				return nil
			case '3':
				m.switchToScreen(entities.UIScreenHistory)
				return nil
			case 'q', 'Q':
				m.Cleanup()
				m.app.Stop()
				return nil
			}
		}

		return event
	})
}

// switchToScreen переключает на указанный экран
func (m *Manager) switchToScreen(screen entities.UIScreen) {
	m.statusMutex.Lock()
	defer m.statusMutex.Unlock()

	m.currentScreen = screen

	switch screen {
	case entities.UIScreenMenu:
		m.pages.SwitchToPage("menu")
	case entities.UIScreenConfig:
		m.refreshConfigForm()
		m.pages.SwitchToPage("config")
	case entities.UIScreenProcessing:
		m.pages.SwitchToPage("processing")
	case entities.UIScreenHistory:
		m.refreshHistory()
		m.pages.SwitchToPage("history")
		m.app.SetFocus(m.historyTable)
	}
}

// startProcessing начинает обработку
func (m *Manager) startProcessing() {
	if m.isProcessing {
		m.switchToScreen(entities.UIScreenProcessing)
		return
	}

	m.saveConfig()
	m.isProcessing = true
	m.switchToScreen(entities.UIScreenProcessing)

	if m.onStartProcessing != nil {
		go m.onStartProcessing()
	}
}

// updateProgress обновляет прогресс
func (m *Manager) updateProgress(status entities.ProcessingStatus) {
	if m.progressView == nil {
		return
	}

	progressText := formatStatus(status)
	if status.IsComplete {
		m.isProcessing = false
	}

	// Обновляем UI потокобезопасно через QueueUpdateDraw
	m.app.QueueUpdateDraw(func() {
		m.progressView.SetText(progressText)
	})
}

// formatStatus формирует текст панели прогресса
func formatStatus(status entities.ProcessingStatus) string {
	// Корректное усечение имени файла с учетом UTF-8
	displayFile := truncateFileName(filepath.Base(status.CurrentFile), MaxFileNameLength, MaxFileNameDisplay)

	// Фаза обработки
	phaseText := status.Phase.String()
	if status.Message != "" {
		phaseText = status.Message
	}

	var b strings.Builder
	fmt.Fprintf(&b,
		"[yellow]⚙️  Фаза:[white] %s\n"+
			"[yellow]📁 Текущий файл:[white] %s",
		phaseText, displayFile)

	// Размер текущего файла
	if status.CurrentFileSize > 0 {
		fmt.Fprintf(&b, " [dim](%s)[white]", entities.FormatSize(status.CurrentFileSize))
	}
	b.WriteString("\n")

	if status.CurrentAttempt > 0 {
		fmt.Fprintf(&b, "[yellow]🔁 Попытка %d:[white] %s [cyan]%d%%[white]\n",
			status.CurrentAttempt, status.CurrentSettings, status.CurrentFilePercent)
	}

	// Прогресс-бар
	fmt.Fprintf(&b, "[cyan]📊 Прогресс:[white] %s [cyan]%.1f%%[white]\n",
		createProgressBar(status.Progress, ProgressBarWidth), status.Progress)

	// Статистика файлов
	fmt.Fprintf(&b, "[green]📈 Файлы:[white] всего [cyan]%d[white], обработано [cyan]%d[white], успешно [green]%d[white]",
		status.TotalFiles, status.ProcessedFiles, status.SuccessfulFiles)
	if status.FailedFiles > 0 {
		fmt.Fprintf(&b, ", ошибок [red]%d[white]", status.FailedFiles)
	}
	b.WriteString("\n")

	// Статистика сжатия
	if status.TotalOriginalSize > 0 {
		fmt.Fprintf(&b, "[green]💾 Сжатие:[white] %s → %s, среднее [green]%.1f%%[white], сэкономлено [green]%s[white]\n",
			entities.FormatSize(status.TotalOriginalSize),
			entities.FormatSize(status.TotalCompressedSize),
			status.AverageCompression,
			entities.FormatSize(status.TotalSavedSpace))
	}

	if last := status.LastResult; last != nil && last.Success && !last.TargetMet {
		fmt.Fprintf(&b, "[yellow]⚠️  %s: цель не достигнута за %d попыток[white]\n",
			filepath.Base(last.CurrentFile), last.Attempts)
	}

	// Время выполнения
	fmt.Fprintf(&b, "[yellow]⏱️  Прошло:[white] %s", status.FormatElapsedTime())
	if !status.IsComplete && status.EstimatedTime > 0 {
		fmt.Fprintf(&b, ", осталось ~%s", status.FormatEstimatedTime())
	}
	b.WriteString("\n")

	if status.IsComplete {
		if status.Error != nil {
			fmt.Fprintf(&b, "[red]❌ Обработка завершена с ошибкой: %v[white]\n", status.Error)
		} else {
			b.WriteString("[green]✅ Обработка успешно завершена![white]\n")
		}
	}
	b.WriteString("[yellow]F1/ESC[white] - Главное меню  [yellow]F4[white] - История")

	return b.String()
}

// truncateFileName корректно усекает имя файла с учетом UTF-8
func truncateFileName(fileName string, maxLength, truncateAt int) string {
	runes := []rune(fileName)
	if len(runes) <= maxLength {
		return fileName
	}
	return string(runes[:truncateAt]) + "..."
}

// createProgressBar создает цветной прогресс-бар
func createProgressBar(progress float64, width int) string {
	// Нормализуем значения
	if progress < 0 {
		progress = 0
	} else if progress > 100 {
		progress = 100
	}

	filled := int(math.Round(progress * float64(width) / 100))
	if filled > width {
		filled = width
	}

	// Разные символы для заполненной и пустой части
	const filledChar = "█"
	const emptyChar = "░"

	// Цвет зависит от прогресса
	var color string
	switch {
	case progress < 25:
		color = "red"
	case progress < 50:
		color = "yellow"
	case progress < 75:
		color = "blue"
	default:
		color = "green"
	}

	filledPart := strings.Repeat(filledChar, filled)
	emptyPart := strings.Repeat(emptyChar, width-filled)

	return fmt.Sprintf("[%s]%s[gray]%s", color, filledPart, emptyPart)
}

// historyRows форматирует записи журнала для таблицы
func historyRows(entries []entities.HistoryEntry) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.Date.Local().Format("02.01.2006 15:04"),
			truncateFileName(e.Filename, MaxFileNameLength, MaxFileNameDisplay),
			entities.FormatSize(e.OriginalSize),
			entities.FormatSize(e.CompressedSize),
			fmt.Sprintf("%.1f%%", e.Ratio),
		})
	}
	return rows
}

func presetNames() []string {
	var names []string
	for _, p := range entities.Presets() {
		names = append(names, string(p))
	}
	return names
}

// indexOf возвращает индекс value в options или fallback
func indexOf(options []string, value string, fallback int) int {
	for i, o := range options {
		if strings.EqualFold(o, value) {
			return i
		}
	}
	return fallback
}

// targetOptionIndex находит пункт меню для значения target_size
func targetOptionIndex(targetSize string) int {
	size, err := entities.ParseTargetSize(targetSize)
	if err != nil || size == 0 {
		return 0
	}
	for i, t := range entities.TargetSizes {
		if t == size {
			return i + 1
		}
	}
	return 0
}

// targetOptionValue значение target_size для пункта меню
func targetOptionValue(index int) string {
	if index <= 0 || index >= len(targetOptions) {
		return ""
	}
	return targetOptions[index]
}

// AddLog добавляет запись в лог через канал (неблокирующе)
func (m *Manager) AddLog(level, message string) {
	var color string
	switch strings.ToLower(level) {
	case "error":
		color = "red"
	case "warning":
		color = "yellow"
	case "success":
		color = "green"
	case "debug":
		color = "gray"
	default:
		color = "white"
	}

	logLine := fmt.Sprintf("[%s]%s:[white] %s", color, strings.ToUpper(level), tview.Escape(message))

	// Неблокирующая отправка в канал
	select {
	case m.logChan <- logLine:
	default:
		// Если канал переполнен, пропускаем лог (лучше чем блокировка)
	}
}

// logProcessor обрабатывает логи в отдельной горутине с батчингом
func (m *Manager) logProcessor() {
	ticker := time.NewTicker(LogFlushInterval)
	defer ticker.Stop()

	batch := make([]string, 0, 50)

	for {
		select {
		case logLine := <-m.logChan:
			batch = append(batch, logLine)

			// Если накопился достаточный батч, сбрасываем
			if len(batch) >= 20 {
				m.flushLogBatch(batch)
				batch = make([]string, 0, 50)
			}

		case <-ticker.C:
			// Периодический сброс
			if len(batch) > 0 {
				m.flushLogBatch(batch)
				batch = make([]string, 0, 50)
			}

		case <-m.logDone:
			// Финальный сброс при завершении
			if len(batch) > 0 {
				m.flushLogBatch(batch)
			}
			return
		}
	}
}

// flushLogBatch сбрасывает батч логов в UI
func (m *Manager) flushLogBatch(batch []string) {
	m.statusMutex.Lock()
	m.logBuffer = append(m.logBuffer, batch...)

	// Ограничиваем размер буфера
	if len(m.logBuffer) > MaxLogBufferSize {
		m.logBuffer = m.logBuffer[len(m.logBuffer)-MaxLogBufferSize:]
	}

	// Создаем копию буфера для UI
	logText := strings.Join(m.logBuffer, "\n")
	m.statusMutex.Unlock()

	// Обновляем UI потокобезопасно
	if m.logView != nil {
		m.app.QueueUpdateDraw(func() {
			if m.logView != nil { // Двойная проверка
				m.logView.SetText(logText)
				m.logView.ScrollToEnd()
			}
		})
	}
}

// Cleanup освобождает ресурсы менеджера (идемпотентный)
func (m *Manager) Cleanup() {
	m.logMutex.Lock()
	defer m.logMutex.Unlock()

	// Проверяем, что канал еще открыт
	select {
	case <-m.logDone:
		// Канал уже закрыт
		return
	default:
		close(m.logDone)
	}
}

// updateLicenseFieldVisibility обновляет поле лицензии в зависимости от выбранной сборки
func (m *Manager) updateLicenseFieldVisibility() {
	if m.configForm == nil || m.configForm.GetFormItemCount() <= formLicense {
		return
	}

	licenseField, ok := m.configForm.GetFormItem(formLicense).(*tview.InputField)
	if !ok {
		return
	}

	if m.config.Compression.Algorithm == "unipdf" {
		licenseField.SetLabel("🔑 Лицензия UniPDF (UNIDOC_LICENSE_API_KEY) - ОБЯЗАТЕЛЬНО")
		licenseField.SetFieldBackgroundColor(tcell.ColorDarkBlue)
	} else {
		licenseField.SetLabel("Лицензия UniPDF (не требуется для pdfcpu)")
		licenseField.SetFieldBackgroundColor(tcell.ColorDarkGray)
	}
}

// refreshConfigForm синхронизирует значения формы с текущими данными конфигурации
func (m *Manager) refreshConfigForm() {
	if m.configForm == nil {
		return
	}
	cfg := m.config

	if item, ok := m.configForm.GetFormItem(formSourceDir).(*tview.InputField); ok {
		item.SetText(cfg.Scanner.SourceDirectory)
	}
	if item, ok := m.configForm.GetFormItem(formTargetDir).(*tview.InputField); ok {
		item.SetText(cfg.Scanner.TargetDirectory)
	}
	if item, ok := m.configForm.GetFormItem(formReplace).(*tview.Checkbox); ok {
		item.SetChecked(cfg.Scanner.ReplaceOriginal)
	}
	if item, ok := m.configForm.GetFormItem(formPreset).(*tview.DropDown); ok {
		item.SetCurrentOption(indexOf(presetNames(), cfg.Compression.Preset, 1))
	}
	if item, ok := m.configForm.GetFormItem(formGrayscale).(*tview.Checkbox); ok {
		item.SetChecked(cfg.Compression.Grayscale)
	}
	if item, ok := m.configForm.GetFormItem(formTargetSize).(*tview.DropDown); ok {
		item.SetCurrentOption(targetOptionIndex(cfg.Compression.TargetSize))
	}
	if item, ok := m.configForm.GetFormItem(formPageRange).(*tview.InputField); ok {
		item.SetText(cfg.Scanner.PageRange)
	}
	if item, ok := m.configForm.GetFormItem(formAlgorithm).(*tview.DropDown); ok {
		item.SetCurrentOption(indexOf(algorithms, cfg.Compression.Algorithm, 0))
	}
	if item, ok := m.configForm.GetFormItem(formLicense).(*tview.InputField); ok {
		item.SetText(cfg.Compression.UniPDFLicenseKey)
	}
	if item, ok := m.configForm.GetFormItem(formAutoStart).(*tview.Checkbox); ok {
		item.SetChecked(cfg.Compression.AutoStart)
	}

	m.updateLicenseFieldVisibility()
}
