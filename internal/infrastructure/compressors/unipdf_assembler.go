package compressors

import (
	"bytes"
	"fmt"
	"os"
	"sync"

	"github.com/unidoc/unipdf/v3/common"
	"github.com/unidoc/unipdf/v3/common/license"
	"github.com/unidoc/unipdf/v3/core"
	"github.com/unidoc/unipdf/v3/model"

	"pdfcompressor/internal/domain/entities"
)

// LicenseEnvVar переменная окружения с ключом UniPDF
const LicenseEnvVar = "UNIDOC_LICENSE_API_KEY"

var (
	licenseOnce sync.Once
	licenseErr  error
)

// UniPDFAssembler сборщик PDF на основе UniPDF creator
type UniPDFAssembler struct{}

// NewUniPDFAssembler создает новый UniPDF сборщик.
// Ключ берется из конфигурации, затем из переменной UNIDOC_LICENSE_API_KEY.
func NewUniPDFAssembler(licenseKey string) (*UniPDFAssembler, error) {
	if licenseKey == "" {
		licenseKey = os.Getenv(LicenseEnvVar)
	}
	if licenseKey == "" {
		return nil, fmt.Errorf("%w: установите его в конфигурации или в переменной %s, либо используйте алгоритм 'pdfcpu'",
			entities.ErrLicenseRequired, LicenseEnvVar)
	}

	licenseOnce.Do(func() {
		// Логи UniPDF только для ошибок, иначе они засоряют TUI
		common.SetLogger(common.NewConsoleLogger(common.LogLevelError))
		licenseErr = license.SetMeteredKey(licenseKey)
	})
	if licenseErr != nil {
		return nil, fmt.Errorf("ошибка установки лицензии UniPDF: %w", licenseErr)
	}

	return &UniPDFAssembler{}, nil
}

// Assemble создает документ: одна страница на изображение, изображение заполняет страницу.
// Готовый JPEG встраивается в поток как есть, без повторного кодирования.
func (u *UniPDFAssembler) Assemble(pages []*entities.EncodedPage) ([]byte, error) {
	if len(pages) == 0 {
		return nil, entities.NewAssemblyError(entities.ErrNoPagesSelected)
	}

	writer := model.NewPdfWriter()
	for _, page := range pages {
		pdfPage, err := newImagePage(page)
		if err != nil {
			return nil, entities.NewAssemblyError(fmt.Errorf("страница %d: %w", page.PageNumber, err))
		}
		if err := writer.AddPage(pdfPage); err != nil {
			return nil, entities.NewAssemblyError(fmt.Errorf("страница %d: ошибка добавления страницы: %w", page.PageNumber, err))
		}
	}

	var buf bytes.Buffer
	if err := writer.Write(&buf); err != nil {
		return nil, entities.NewAssemblyError(fmt.Errorf("ошибка записи файла: %w", err))
	}

	return buf.Bytes(), nil
}

// newImagePage создает страницу размера PageSize() с изображением на всю площадь
func newImagePage(page *entities.EncodedPage) (*model.PdfPage, error) {
	width, height := page.PageSize()

	pdfPage := model.NewPdfPage()
	pdfPage.MediaBox = &model.PdfRectangle{Llx: 0, Lly: 0, Urx: width, Ury: height}

	if err := pdfPage.AddImageResource(imageResourceName, newJPEGXObject(page)); err != nil {
		return nil, fmt.Errorf("ошибка добавления изображения: %w", err)
	}

	content := fmt.Sprintf("q %.4f 0 0 %.4f 0 0 cm /%s Do Q", width, height, imageResourceName)
	if err := pdfPage.AddContentStreamByString(content); err != nil {
		return nil, fmt.Errorf("ошибка записи содержимого: %w", err)
	}
	return pdfPage, nil
}

const imageResourceName core.PdfObjectName = "Im0"

// newJPEGXObject оборачивает готовые байты JPEG в XObject с фильтром DCTDecode
func newJPEGXObject(page *entities.EncodedPage) *model.XObjectImage {
	encoder := newDCTEncoder(page)

	width := int64(page.Width)
	height := int64(page.Height)
	bits := int64(encoder.BitsPerComponent)

	ximg := model.NewXObjectImage()
	ximg.Width = &width
	ximg.Height = &height
	ximg.BitsPerComponent = &bits
	ximg.Filter = encoder
	ximg.Stream = page.Data
	if page.Grayscale {
		ximg.ColorSpace = model.NewPdfColorspaceDeviceGray()
	} else {
		ximg.ColorSpace = model.NewPdfColorspaceDeviceRGB()
	}
	return ximg
}

func newDCTEncoder(page *entities.EncodedPage) *core.DCTEncoder {
	encoder := core.NewDCTEncoder()
	encoder.Width = page.Width
	encoder.Height = page.Height
	encoder.BitsPerComponent = 8
	encoder.ColorComponents = 3
	if page.Grayscale {
		encoder.ColorComponents = 1
	}
	if page.Quality > 0 {
		encoder.Quality = page.Quality
	}
	return encoder
}
