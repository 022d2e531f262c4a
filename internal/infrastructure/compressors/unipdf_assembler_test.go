package compressors

import (
	"bytes"
	"testing"

	"github.com/unidoc/unipdf/v3/model"

	"pdfcompressor/internal/domain/entities"
)

func TestNewJPEGXObject_EmbedsEncodedBytes(t *testing.T) {
	data := []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 'J', 'F', 'I', 'F'}
	page := &entities.EncodedPage{PageNumber: 1, Data: data, Width: 120, Height: 160, Scale: 2, Quality: 55}

	ximg := newJPEGXObject(page)
	if !bytes.Equal(ximg.Stream, data) {
		t.Error("JPEG stream must be embedded without re-encoding")
	}
	if ximg.Filter == nil || ximg.Filter.GetFilterName() != "DCTDecode" {
		t.Errorf("Expected DCTDecode filter, got %v", ximg.Filter)
	}
	if *ximg.Width != 120 || *ximg.Height != 160 || *ximg.BitsPerComponent != 8 {
		t.Errorf("Unexpected image dictionary: %dx%d, %d bpc", *ximg.Width, *ximg.Height, *ximg.BitsPerComponent)
	}
	if _, ok := ximg.ColorSpace.(*model.PdfColorspaceDeviceRGB); !ok {
		t.Errorf("Expected DeviceRGB, got %T", ximg.ColorSpace)
	}

	page.Grayscale = true
	if _, ok := newJPEGXObject(page).ColorSpace.(*model.PdfColorspaceDeviceGray); !ok {
		t.Error("Expected DeviceGray for grayscale page")
	}
}

func TestNewImagePage_MediaBoxFromPageSize(t *testing.T) {
	tests := []struct {
		name         string
		page         *entities.EncodedPage
		wantW, wantH float64
	}{
		{"scale 2", &entities.EncodedPage{Width: 120, Height: 160, Scale: 2}, 60, 80},
		{"capped raster", &entities.EncodedPage{Width: 386, Height: 500, Scale: 0.63, PointWidth: 612, PointHeight: 792}, 612, 792},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.page.Data = []byte{0xff, 0xd8}
			pdfPage, err := newImagePage(tt.page)
			if err != nil {
				t.Fatalf("newImagePage() error = %v", err)
			}
			box := pdfPage.MediaBox
			if box.Llx != 0 || box.Lly != 0 || box.Urx != tt.wantW || box.Ury != tt.wantH {
				t.Errorf("MediaBox = %+v, want 0 0 %v %v", *box, tt.wantW, tt.wantH)
			}
			if !pdfPage.HasXObjectByName(imageResourceName) {
				t.Error("Expected image resource on page")
			}
		})
	}
}
