package compressors

import (
	"fmt"
	"sync"

	"github.com/gen2brain/go-fitz"

	"pdfcompressor/internal/domain/entities"
	"pdfcompressor/internal/domain/repositories"
)

// PointsPerInch базовое разрешение PDF: масштаб 1.0 соответствует 72 DPI
const PointsPerInch = 72.0

// FitzRasterizer растеризатор страниц на основе MuPDF (go-fitz)
type FitzRasterizer struct{}

// NewFitzRasterizer создает новый растеризатор
func NewFitzRasterizer() *FitzRasterizer {
	return &FitzRasterizer{}
}

// Open открывает PDF из памяти
func (r *FitzRasterizer) Open(data []byte) (repositories.SourceDocument, error) {
	if len(data) == 0 {
		return nil, entities.NewRenderError(0, entities.ErrEmptyFile)
	}

	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, entities.NewRenderError(0, fmt.Errorf("не удалось открыть PDF: %w", err))
	}

	pages := doc.NumPage()
	if pages <= 0 {
		doc.Close()
		return nil, entities.NewRenderError(0, fmt.Errorf("документ не содержит страниц"))
	}

	return &fitzDocument{
		doc:   doc,
		pages: pages,
		size:  int64(len(data)),
	}, nil
}

// fitzDocument открытый документ MuPDF. Документ не потокобезопасен.
type fitzDocument struct {
	mu    sync.Mutex
	doc   *fitz.Document
	pages int
	size  int64
}

func (d *fitzDocument) PageCount() int {
	return d.pages
}

func (d *fitzDocument) Size() int64 {
	return d.size
}

// RenderPage растеризует страницу (с 1) с масштабом scale
func (d *fitzDocument) RenderPage(page int, scale float64) (*entities.RenderedPage, error) {
	if page < 1 || page > d.pages {
		return nil, entities.NewRenderError(page, fmt.Errorf("страница вне диапазона 1..%d", d.pages))
	}
	if scale <= 0 {
		return nil, entities.NewRenderError(page, entities.ErrInvalidScale)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.doc == nil {
		return nil, entities.NewRenderError(page, fmt.Errorf("документ закрыт"))
	}

	img, err := d.doc.ImageDPI(page-1, PointsPerInch*scale)
	if err != nil {
		return nil, entities.NewRenderError(page, err)
	}

	bounds := img.Bounds()
	return &entities.RenderedPage{
		PageNumber: page,
		Image:      img,
		Width:      bounds.Dx(),
		Height:     bounds.Dy(),
		Scale:      scale,
	}, nil
}

// Close освобождает ресурсы MuPDF (идемпотентный)
func (d *fitzDocument) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.doc == nil {
		return nil
	}
	err := d.doc.Close()
	d.doc = nil
	return err
}
