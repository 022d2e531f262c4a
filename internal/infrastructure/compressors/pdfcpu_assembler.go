package compressors

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"pdfcompressor/internal/domain/entities"
	"pdfcompressor/internal/domain/repositories"
)

func init() {
	// PDFCPU не должен создавать свой config.yml в домашней директории
	model.ConfigPath = "disable"
}

// PDFCPUAssembler сборщик PDF из изображений страниц на основе PDFCPU
type PDFCPUAssembler struct {
	optimize bool
}

// NewPDFCPUAssembler создает новый PDFCPU сборщик.
// optimize включает финальную оптимизацию документа (удаление дубликатов, сжатие потоков).
func NewPDFCPUAssembler(optimize bool) *PDFCPUAssembler {
	return &PDFCPUAssembler{optimize: optimize}
}

func newPDFCPUConfiguration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// Assemble создает документ: одна страница на изображение, изображение заполняет страницу
func (p *PDFCPUAssembler) Assemble(pages []*entities.EncodedPage) ([]byte, error) {
	if len(pages) == 0 {
		return nil, entities.NewAssemblyError(entities.ErrNoPagesSelected)
	}

	var out []byte
	for _, group := range groupBySize(pages) {
		data, err := p.importGroup(out, group)
		if err != nil {
			return nil, entities.NewAssemblyError(err)
		}
		out = data
	}

	if p.optimize {
		optimized, err := optimizePDF(out)
		if err != nil {
			return nil, entities.NewAssemblyError(fmt.Errorf("ошибка оптимизации PDFCPU: %w", err))
		}
		// Оптимизация не должна увеличивать файл
		if len(optimized) < len(out) {
			out = optimized
		}
	}

	return out, nil
}

// importGroup добавляет страницы одного размера к документу prev (nil - новый документ)
func (p *PDFCPUAssembler) importGroup(prev []byte, group []*entities.EncodedPage) ([]byte, error) {
	width, height := group[0].PageSize()

	// При types.Full PDFCPU берет размер страницы из пикселей изображения,
	// поэтому страница задается явно, а изображение вписывается в нее целиком
	imp := pdfcpu.DefaultImportConfig()
	imp.PageDim = &types.Dim{Width: width, Height: height}
	imp.UserDim = true
	imp.Pos = types.Center
	imp.Scale = 1.0
	imp.ScaleAbs = false
	imp.InpUnit = types.POINTS

	readers := make([]io.Reader, 0, len(group))
	for _, page := range group {
		readers = append(readers, bytes.NewReader(page.Data))
	}

	var rs io.ReadSeeker
	if prev != nil {
		rs = bytes.NewReader(prev)
	}

	var buf bytes.Buffer
	if err := api.ImportImages(rs, &buf, readers, imp, newPDFCPUConfiguration()); err != nil {
		return nil, fmt.Errorf("ошибка импорта изображений страниц %d-%d: %w",
			group[0].PageNumber, group[len(group)-1].PageNumber, err)
	}

	return buf.Bytes(), nil
}

// groupBySize разбивает страницы на последовательные группы с одинаковым размером
func groupBySize(pages []*entities.EncodedPage) [][]*entities.EncodedPage {
	var groups [][]*entities.EncodedPage
	for _, page := range pages {
		if n := len(groups); n > 0 && sameSize(groups[n-1][0], page) {
			groups[n-1] = append(groups[n-1], page)
			continue
		}
		groups = append(groups, []*entities.EncodedPage{page})
	}
	return groups
}

func sameSize(a, b *entities.EncodedPage) bool {
	aw, ah := a.PageSize()
	bw, bh := b.PageSize()
	return math.Abs(aw-bw) < 0.01 && math.Abs(ah-bh) < 0.01
}

// optimizePDF выполняет оптимизацию PDFCPU над документом в памяти
func optimizePDF(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := api.Optimize(bytes.NewReader(data), &buf, newPDFCPUConfiguration()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PageCount возвращает количество страниц PDF в памяти
func PageCount(data []byte) (int, error) {
	return api.PageCount(bytes.NewReader(data), newPDFCPUConfiguration())
}

// PageDims возвращает размеры страниц PDF в памяти в пунктах
func PageDims(data []byte) ([]types.Dim, error) {
	return api.PageDims(bytes.NewReader(data), newPDFCPUConfiguration())
}

// pageSizeTolerance допустимое расхождение размера страницы в пунктах
const pageSizeTolerance = 0.5

// CheckedAssembler проверяет через PDFCPU, что в собранном документе
// столько же страниц, сколько изображений было передано, и что каждая
// страница сохранила физический размер оригинала
type CheckedAssembler struct {
	next repositories.PageAssembler
}

// NewCheckedAssembler оборачивает сборщик проверкой количества страниц
func NewCheckedAssembler(next repositories.PageAssembler) *CheckedAssembler {
	return &CheckedAssembler{next: next}
}

// Assemble собирает документ и сверяет количество страниц
func (c *CheckedAssembler) Assemble(pages []*entities.EncodedPage) ([]byte, error) {
	data, err := c.next.Assemble(pages)
	if err != nil {
		return nil, err
	}

	count, err := PageCount(data)
	if err != nil {
		return nil, entities.NewAssemblyError(fmt.Errorf("собранный документ не читается: %w", err))
	}
	if count != len(pages) {
		return nil, entities.NewAssemblyError(fmt.Errorf("в собранном документе %d страниц, ожидалось %d", count, len(pages)))
	}

	dims, err := PageDims(data)
	if err != nil {
		return nil, entities.NewAssemblyError(fmt.Errorf("не удалось прочитать размеры страниц: %w", err))
	}
	for i, page := range pages {
		width, height := page.PageSize()
		if math.Abs(dims[i].Width-width) > pageSizeTolerance || math.Abs(dims[i].Height-height) > pageSizeTolerance {
			return nil, entities.NewAssemblyError(fmt.Errorf("страница %d: размер %.1fx%.1f, ожидалось %.1fx%.1f",
				page.PageNumber, dims[i].Width, dims[i].Height, width, height))
		}
	}
	return data, nil
}
