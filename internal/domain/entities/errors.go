package entities

import (
	"errors"
	"fmt"
)

// Доменные ошибки
var (
	ErrInvalidQuality    = errors.New("качество должно быть в диапазоне (0, 1]")
	ErrInvalidScale      = errors.New("масштаб должен быть больше 0")
	ErrInvalidTargetSize = errors.New("неверный целевой размер")
	ErrUnknownPreset     = errors.New("неизвестный пресет")
	ErrFileNotFound      = errors.New("файл не найден")
	ErrInvalidFileFormat = errors.New("файл не является PDF")
	ErrFileTooLarge      = errors.New("файл превышает максимальный размер")
	ErrEmptyFile         = errors.New("файл пуст")
	ErrNoPagesSelected   = errors.New("не выбрано ни одной страницы")
	ErrCompressionFailed = errors.New("ошибка сжатия файла")
	ErrDirectoryNotFound = errors.New("директория не найдена")
	ErrNoFilesFound      = errors.New("PDF файлы не найдены")
	ErrLicenseRequired   = errors.New("UniPDF требует лицензионный ключ")
)

// FailureKind категория сбоя при сжатии
type FailureKind int

const (
	FailureValidation FailureKind = iota
	FailureRender
	FailureEncode
	FailureAssembly
)

// String возвращает название категории
func (k FailureKind) String() string {
	switch k {
	case FailureValidation:
		return "validation"
	case FailureRender:
		return "render"
	case FailureEncode:
		return "encode"
	case FailureAssembly:
		return "assembly"
	default:
		return "unknown"
	}
}

// CompressionError ошибка сжатия с категорией и страницей (0 - без страницы)
type CompressionError struct {
	Kind FailureKind
	Page int
	Err  error
}

// Error реализует интерфейс error
func (e *CompressionError) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("%s: страница %d: %v", e.Kind, e.Page, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

// Unwrap возвращает исходную ошибку
func (e *CompressionError) Unwrap() error {
	return e.Err
}

// NewValidationError создает ошибку проверки входных данных
func NewValidationError(err error) *CompressionError {
	return &CompressionError{Kind: FailureValidation, Err: err}
}

// NewRenderError создает ошибку растеризации
func NewRenderError(page int, err error) *CompressionError {
	return &CompressionError{Kind: FailureRender, Page: page, Err: err}
}

// NewEncodeError создает ошибку кодирования изображения
func NewEncodeError(page int, err error) *CompressionError {
	return &CompressionError{Kind: FailureEncode, Page: page, Err: err}
}

// NewAssemblyError создает ошибку сборки документа
func NewAssemblyError(err error) *CompressionError {
	return &CompressionError{Kind: FailureAssembly, Err: err}
}

// IsFailureKind проверяет категорию ошибки в цепочке
func IsFailureKind(err error, kind FailureKind) bool {
	var ce *CompressionError
	if errors.As(err, &ce) {
		return ce.Kind == kind
	}
	return false
}
