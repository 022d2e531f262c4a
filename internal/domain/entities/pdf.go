package entities

import (
	"image"
	"time"
)

// PDFDocument представляет PDF документ на диске
type PDFDocument struct {
	Path         string
	Size         int64
	ModifiedTime time.Time
	Pages        int
}

// RenderedPage растровое изображение страницы, живет одну попытку
type RenderedPage struct {
	PageNumber int
	Image      *image.RGBA
	Width      int
	Height     int
	Scale      float64
}

// EncodedPage сжатое изображение страницы
type EncodedPage struct {
	PageNumber int
	Data       []byte
	Width      int     // Ширина растра в пикселях
	Height     int     // Высота растра в пикселях
	Scale      float64 // Масштаб, с которым получен растр
	Quality    int     // Качество JPEG 1..100
	Grayscale  bool

	// Размер исходной страницы в пунктах, фиксируется до уменьшения растра
	PointWidth  float64
	PointHeight float64
}

// PageSize возвращает размер страницы в пунктах PDF.
// Без явного размера он вычисляется как пиксели / масштаб.
func (p *EncodedPage) PageSize() (float64, float64) {
	if p.PointWidth > 0 && p.PointHeight > 0 {
		return p.PointWidth, p.PointHeight
	}
	if p.Scale <= 0 {
		return float64(p.Width), float64(p.Height)
	}
	return float64(p.Width) / p.Scale, float64(p.Height) / p.Scale
}

// CompressionResult представляет результат сжатия
type CompressionResult struct {
	CurrentFile      string
	OriginalSize     int64
	CompressedSize   int64
	CompressionRatio float64
	SavedSpace       int64
	Success          bool
	Error            error

	OutputBytes  []byte
	PageCount    int
	SettingsUsed CompressionSettings
	Attempts     int
	TargetMet    bool
}

// CalculateCompressionRatio вычисляет коэффициент сжатия
func (cr *CompressionResult) CalculateCompressionRatio() {
	if cr.OriginalSize > 0 {
		cr.CompressionRatio = CompressionRatio(cr.OriginalSize, cr.CompressedSize)
		cr.SavedSpace = cr.OriginalSize - cr.CompressedSize
	}
}

// IsEffective проверяет, было ли сжатие эффективным
func (cr *CompressionResult) IsEffective() bool {
	return cr.Success && cr.CompressionRatio > 0
}

// ErrorMessage возвращает текст ошибки для отображения
func (cr *CompressionResult) ErrorMessage() string {
	if cr.Error == nil {
		return ""
	}
	return cr.Error.Error()
}

// NewFailedResult создает результат неудачного сжатия без выходных данных
func NewFailedResult(file string, originalSize int64, err error) *CompressionResult {
	return &CompressionResult{
		CurrentFile:  file,
		OriginalSize: originalSize,
		Success:      false,
		Error:        err,
	}
}
