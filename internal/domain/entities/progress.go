package entities

// ProgressKind тип события прогресса
type ProgressKind int

const (
	ProgressFileStarted ProgressKind = iota
	ProgressAttemptStarted
	ProgressPageEncoded
	ProgressAttemptAssembled
	ProgressFileFinished
)

// Контрольные точки процента внутри одной попытки
const (
	ProgressAttemptStart = 5
	ProgressRenderSpan   = 80
	ProgressAssembled    = 90
	ProgressDone         = 100
)

// String возвращает название события
func (k ProgressKind) String() string {
	switch k {
	case ProgressFileStarted:
		return "file_started"
	case ProgressAttemptStarted:
		return "attempt_started"
	case ProgressPageEncoded:
		return "page_encoded"
	case ProgressAttemptAssembled:
		return "attempt_assembled"
	case ProgressFileFinished:
		return "file_finished"
	default:
		return "unknown"
	}
}

// ProgressEvent событие прогресса сжатия.
// Percent монотонен в пределах попытки и сбрасывается при повторной попытке.
// Overall относится ко всему пакету файлов.
type ProgressEvent struct {
	Kind       ProgressKind
	File       string
	FileIndex  int // С 0
	TotalFiles int
	Attempt    int // С 1
	Page       int // Номер страницы документа для ProgressPageEncoded
	PagesDone  int
	Pages      int
	Percent    int
	Overall    float64
	Settings   CompressionSettings
}

// RenderPercent процент файла после обработки done страниц из total
func RenderPercent(done, total int) int {
	if total <= 0 {
		return ProgressAttemptStart
	}
	return ProgressAttemptStart + ProgressRenderSpan*done/total
}

// OverallProgress общий прогресс пакета в процентах
func OverallProgress(completedFiles int, filePercent int, totalFiles int) float64 {
	if totalFiles <= 0 {
		return 0
	}
	fraction := float64(filePercent) / 100
	if fraction > 1 {
		fraction = 1
	}
	return (float64(completedFiles) + fraction) / float64(totalFiles) * 100
}
