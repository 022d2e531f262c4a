package compressors_test

import (
	"bytes"
	"math"
	"testing"

	"pdfcompressor/internal/domain/entities"
	"pdfcompressor/internal/infrastructure/compressors"
)

func encodePages(t *testing.T, sizes [][2]int, scale float64) []*entities.EncodedPage {
	t.Helper()

	encoder := compressors.NewJPEGEncoder(0)
	pages := make([]*entities.EncodedPage, 0, len(sizes))
	for i, size := range sizes {
		page := newNoisyPage(size[0], size[1], scale)
		page.PageNumber = i + 1

		encoded, err := encoder.Encode(page, 0.6, false)
		if err != nil {
			t.Fatalf("Encode() error = %v", err)
		}
		pages = append(pages, encoded)
	}
	return pages
}

func TestPDFCPUAssembler_Assemble(t *testing.T) {
	tests := []struct {
		name     string
		optimize bool
	}{
		{"Plain", false},
		{"Optimized", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Две страницы одного размера и одна альбомная
			pages := encodePages(t, [][2]int{{120, 160}, {120, 160}, {160, 120}}, 2)

			assembler := compressors.NewPDFCPUAssembler(tt.optimize)
			data, err := assembler.Assemble(pages)
			if err != nil {
				t.Fatalf("Assemble() error = %v", err)
			}

			if !bytes.HasPrefix(data, []byte("%PDF-")) {
				t.Fatalf("Output is not a PDF")
			}

			count, err := compressors.PageCount(data)
			if err != nil {
				t.Fatalf("PageCount() error = %v", err)
			}
			if count != 3 {
				t.Errorf("Expected 3 pages, got %d", count)
			}
		})
	}
}

func TestPDFCPUAssembler_NoPages(t *testing.T) {
	assembler := compressors.NewPDFCPUAssembler(false)
	_, err := assembler.Assemble(nil)
	if !entities.IsFailureKind(err, entities.FailureAssembly) {
		t.Errorf("Expected assembly failure, got %v", err)
	}
}

func TestFitzRasterizer_RendersAssembledDocument(t *testing.T) {
	pages := encodePages(t, [][2]int{{200, 100}, {100, 200}}, 1)
	data, err := compressors.NewPDFCPUAssembler(false).Assemble(pages)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	rasterizer := compressors.NewFitzRasterizer()
	doc, err := rasterizer.Open(data)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer doc.Close()

	if doc.PageCount() != 2 {
		t.Fatalf("Expected 2 pages, got %d", doc.PageCount())
	}
	if doc.Size() != int64(len(data)) {
		t.Errorf("Expected size %d, got %d", len(data), doc.Size())
	}

	// Размер растра растет линейно с масштабом
	rendered, err := doc.RenderPage(1, 2)
	if err != nil {
		t.Fatalf("RenderPage() error = %v", err)
	}
	if abs(rendered.Width-400) > 1 || abs(rendered.Height-200) > 1 {
		t.Errorf("Expected about 400x200 pixels, got %dx%d", rendered.Width, rendered.Height)
	}
	if rendered.PageNumber != 1 || rendered.Scale != 2 {
		t.Errorf("Unexpected page metadata: %+v", rendered)
	}

	if _, err := doc.RenderPage(3, 1); !entities.IsFailureKind(err, entities.FailureRender) {
		t.Errorf("Expected render failure for missing page, got %v", err)
	}
	if _, err := doc.RenderPage(1, 0); !entities.IsFailureKind(err, entities.FailureRender) {
		t.Errorf("Expected render failure for zero scale, got %v", err)
	}
}

func TestFitzRasterizer_InvalidDocument(t *testing.T) {
	rasterizer := compressors.NewFitzRasterizer()

	if _, err := rasterizer.Open(nil); !entities.IsFailureKind(err, entities.FailureRender) {
		t.Errorf("Expected render failure for empty input, got %v", err)
	}
	if _, err := rasterizer.Open([]byte("not a pdf at all")); err == nil {
		t.Error("Expected error for garbage input")
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

type truncatingAssembler struct {
	inner *compressors.PDFCPUAssembler
}

func (a truncatingAssembler) Assemble(pages []*entities.EncodedPage) ([]byte, error) {
	return a.inner.Assemble(pages[:len(pages)-1])
}

func TestCheckedAssembler(t *testing.T) {
	pages := encodePages(t, [][2]int{{120, 160}, {120, 160}}, 2)

	checked := compressors.NewCheckedAssembler(compressors.NewPDFCPUAssembler(false))
	if _, err := checked.Assemble(pages); err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	broken := compressors.NewCheckedAssembler(truncatingAssembler{inner: compressors.NewPDFCPUAssembler(false)})
	if _, err := broken.Assemble(pages); !entities.IsFailureKind(err, entities.FailureAssembly) {
		t.Errorf("Expected assembly failure on page count mismatch, got %v", err)
	}
}

// encodeScaled кодирует растры с собственным масштабом для каждой страницы
func encodeScaled(t *testing.T, encoder *compressors.JPEGEncoder, rasters []*entities.RenderedPage) []*entities.EncodedPage {
	t.Helper()

	pages := make([]*entities.EncodedPage, 0, len(rasters))
	for i, raster := range rasters {
		raster.PageNumber = i + 1
		encoded, err := encoder.Encode(raster, 0.6, false)
		if err != nil {
			t.Fatalf("Encode() error = %v", err)
		}
		pages = append(pages, encoded)
	}
	return pages
}

func assertPageDims(t *testing.T, data []byte, want [][2]float64) {
	t.Helper()

	dims, err := compressors.PageDims(data)
	if err != nil {
		t.Fatalf("PageDims() error = %v", err)
	}
	if len(dims) != len(want) {
		t.Fatalf("Expected %d pages, got %d", len(want), len(dims))
	}
	for i, dim := range dims {
		if math.Abs(dim.Width-want[i][0]) > 0.01 || math.Abs(dim.Height-want[i][1]) > 0.01 {
			t.Errorf("Page %d: expected %.1fx%.1f points, got %.2fx%.2f", i+1, want[i][0], want[i][1], dim.Width, dim.Height)
		}
	}
}

func TestPDFCPUAssembler_KeepsPhysicalPageSize(t *testing.T) {
	tests := []struct {
		name         string
		maxDimension int
		rasters      []*entities.RenderedPage
		want         [][2]float64
	}{
		{
			name:    "scale 2",
			rasters: []*entities.RenderedPage{newNoisyPage(120, 160, 2), newNoisyPage(160, 120, 2)},
			want:    [][2]float64{{60, 80}, {80, 60}},
		},
		{
			name:    "scale 1.5",
			rasters: []*entities.RenderedPage{newNoisyPage(918, 1188, 1.5)},
			want:    [][2]float64{{612, 792}},
		},
		{
			name:         "pixel cap",
			maxDimension: 500,
			rasters:      []*entities.RenderedPage{newNoisyPage(918, 1188, 1.5)},
			want:         [][2]float64{{612, 792}},
		},
		{
			name: "mixed sizes and scales",
			rasters: []*entities.RenderedPage{
				newNoisyPage(120, 160, 2),
				newNoisyPage(60, 80, 1),
				newNoisyPage(160, 120, 2),
				newNoisyPage(300, 400, 2),
			},
			want: [][2]float64{{60, 80}, {60, 80}, {80, 60}, {150, 200}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoder := compressors.NewJPEGEncoder(tt.maxDimension)
			pages := encodeScaled(t, encoder, tt.rasters)

			for _, optimize := range []bool{false, true} {
				data, err := compressors.NewCheckedAssembler(compressors.NewPDFCPUAssembler(optimize)).Assemble(pages)
				if err != nil {
					t.Fatalf("Assemble(optimize=%v) error = %v", optimize, err)
				}
				assertPageDims(t, data, tt.want)
			}
		})
	}
}

func TestPDFCPUAssembler_PixelCapShrinksRasterOnly(t *testing.T) {
	encoder := compressors.NewJPEGEncoder(500)
	pages := encodeScaled(t, encoder, []*entities.RenderedPage{newNoisyPage(918, 1188, 1.5)})

	if pages[0].Height != 500 {
		t.Fatalf("Expected capped raster height 500, got %d", pages[0].Height)
	}

	data, err := compressors.NewPDFCPUAssembler(false).Assemble(pages)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	// Повторная растеризация в масштабе 1 дает размер страницы в пунктах
	doc, err := compressors.NewFitzRasterizer().Open(data)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer doc.Close()

	rendered, err := doc.RenderPage(1, 1)
	if err != nil {
		t.Fatalf("RenderPage() error = %v", err)
	}
	if abs(rendered.Width-612) > 1 || abs(rendered.Height-792) > 1 {
		t.Errorf("Expected about 612x792 pixels at scale 1, got %dx%d", rendered.Width, rendered.Height)
	}
}

type resizingAssembler struct {
	inner *compressors.PDFCPUAssembler
}

func (a resizingAssembler) Assemble(pages []*entities.EncodedPage) ([]byte, error) {
	scaled := make([]*entities.EncodedPage, len(pages))
	for i, page := range pages {
		copyPage := *page
		copyPage.PointWidth, copyPage.PointHeight = float64(page.Width), float64(page.Height)
		scaled[i] = &copyPage
	}
	return a.inner.Assemble(scaled)
}

func TestCheckedAssembler_RejectsWrongPageSize(t *testing.T) {
	pages := encodePages(t, [][2]int{{120, 160}}, 2)

	checked := compressors.NewCheckedAssembler(resizingAssembler{inner: compressors.NewPDFCPUAssembler(false)})
	if _, err := checked.Assemble(pages); !entities.IsFailureKind(err, entities.FailureAssembly) {
		t.Errorf("Expected assembly failure on page size mismatch, got %v", err)
	}
}
