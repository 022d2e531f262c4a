package compressors

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"math"

	"github.com/nfnt/resize"

	"pdfcompressor/internal/domain/entities"
)

// Веса яркости ITU-R BT.601
const (
	lumaR = 0.299
	lumaG = 0.587
	lumaB = 0.114
)

// JPEGEncoder кодирует растр страницы в JPEG
type JPEGEncoder struct {
	maxDimension int // Максимальная сторона растра, 0 - без ограничения
}

// NewJPEGEncoder создает новый JPEG encoder.
// maxDimension ограничивает длинную сторону растра (0 - без ограничения).
func NewJPEGEncoder(maxDimension int) *JPEGEncoder {
	if maxDimension < 0 {
		maxDimension = 0
	}
	return &JPEGEncoder{maxDimension: maxDimension}
}

// Encode сжимает страницу: белый фон -> (уменьшение) -> (оттенки серого) -> JPEG.
// Растр страницы изменяется на месте.
func (e *JPEGEncoder) Encode(page *entities.RenderedPage, quality float64, grayscale bool) (*entities.EncodedPage, error) {
	if page == nil || page.Image == nil {
		return nil, entities.NewEncodeError(0, fmt.Errorf("пустой растр страницы"))
	}

	img := page.Image
	scale := page.Scale
	pointWidth, pointHeight := pagePoints(img.Bounds(), scale)

	// JPEG не поддерживает прозрачность
	FlattenOnWhite(img)

	// Ограничиваем размер растра, пересчитывая эффективный масштаб
	if resized, factor := e.limitDimensions(img); factor < 1 {
		img = resized
		scale *= factor
	}

	if grayscale {
		ApplyGrayscale(img)
	}

	var src image.Image = img
	if grayscale {
		src = toGray(img)
	}

	jpegQuality := entities.JPEGQuality(quality)

	var buf bytes.Buffer
	options := &jpeg.Options{Quality: jpegQuality}
	if err := jpeg.Encode(&buf, src, options); err != nil {
		return nil, entities.NewEncodeError(page.PageNumber, fmt.Errorf("не удалось закодировать JPEG: %w", err))
	}

	bounds := img.Bounds()
	return &entities.EncodedPage{
		PageNumber: page.PageNumber,
		Data:       buf.Bytes(),
		Width:      bounds.Dx(),
		Height:     bounds.Dy(),
		Scale:      scale,
		Quality:    jpegQuality,
		Grayscale:  grayscale,

		PointWidth:  pointWidth,
		PointHeight: pointHeight,
	}, nil
}

// pagePoints размер страницы в пунктах по исходному растру
func pagePoints(bounds image.Rectangle, scale float64) (float64, float64) {
	if scale <= 0 {
		return float64(bounds.Dx()), float64(bounds.Dy())
	}
	return float64(bounds.Dx()) / scale, float64(bounds.Dy()) / scale
}

// limitDimensions уменьшает растр, если длинная сторона больше ограничения
func (e *JPEGEncoder) limitDimensions(img *image.RGBA) (*image.RGBA, float64) {
	if e.maxDimension == 0 {
		return img, 1
	}

	bounds := img.Bounds()
	longest := bounds.Dx()
	if bounds.Dy() > longest {
		longest = bounds.Dy()
	}
	if longest <= e.maxDimension {
		return img, 1
	}

	factor := float64(e.maxDimension) / float64(longest)
	newWidth := uint(math.Max(1, math.Round(float64(bounds.Dx())*factor)))
	newHeight := uint(math.Max(1, math.Round(float64(bounds.Dy())*factor)))

	resized := resize.Resize(newWidth, newHeight, img, resize.Lanczos3)
	out, ok := resized.(*image.RGBA)
	if !ok {
		out = image.NewRGBA(resized.Bounds())
		draw.Draw(out, out.Bounds(), resized, resized.Bounds().Min, draw.Src)
	}

	// Фактический коэффициент по ширине
	return out, float64(out.Bounds().Dx()) / float64(bounds.Dx())
}

// FlattenOnWhite накладывает изображение на непрозрачный белый фон
func FlattenOnWhite(img *image.RGBA) {
	pix := img.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		a := pix[i+3]
		if a == 0xff {
			continue
		}
		// Цвета хранятся с предумноженной альфой: c + (1 - a) * 255
		inv := 0xff - a
		pix[i] += inv
		pix[i+1] += inv
		pix[i+2] += inv
		pix[i+3] = 0xff
	}
}

// ApplyGrayscale заменяет RGB каждого пикселя на яркость 0.299R + 0.587G + 0.114B.
// Повторное применение не меняет результат.
func ApplyGrayscale(img *image.RGBA) {
	pix := img.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		y := luma(pix[i], pix[i+1], pix[i+2])
		pix[i] = y
		pix[i+1] = y
		pix[i+2] = y
	}
}

func luma(r, g, b uint8) uint8 {
	y := math.Round(lumaR*float64(r) + lumaG*float64(g) + lumaB*float64(b))
	if y > 255 {
		y = 255
	}
	return uint8(y)
}

// toGray копирует уже обесцвеченный растр в одноканальное изображение
func toGray(img *image.RGBA) *image.Gray {
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		src := img.Pix[img.PixOffset(bounds.Min.X, y):]
		dst := gray.Pix[gray.PixOffset(bounds.Min.X, y):]
		for x := 0; x < bounds.Dx(); x++ {
			dst[x] = src[x*4]
		}
	}
	return gray
}
