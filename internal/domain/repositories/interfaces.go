package repositories

import (
	"context"

	"pdfcompressor/internal/domain/entities"
)

// SourceDocument открытый исходный PDF документ.
// Владеет им контроллер на время одного сжатия, затем вызывает Close.
type SourceDocument interface {
	PageCount() int
	Size() int64
	RenderPage(page int, scale float64) (*entities.RenderedPage, error)
	Close() error
}

// DocumentOpener открывает PDF документ для растеризации
type DocumentOpener interface {
	Open(data []byte) (SourceDocument, error)
}

// ImageEncoder сжимает растр страницы в JPEG
type ImageEncoder interface {
	Encode(page *entities.RenderedPage, quality float64, grayscale bool) (*entities.EncodedPage, error)
}

// PageAssembler собирает новый PDF из сжатых страниц
type PageAssembler interface {
	Assemble(pages []*entities.EncodedPage) ([]byte, error)
}

// ProgressObserver получает события прогресса сжатия
type ProgressObserver interface {
	OnProgress(event entities.ProgressEvent)
}

// ProgressFunc адаптер функции к ProgressObserver
type ProgressFunc func(event entities.ProgressEvent)

// OnProgress вызывает функцию
func (f ProgressFunc) OnProgress(event entities.ProgressEvent) {
	f(event)
}

// FileRepository интерфейс для работы с файловой системой
type FileRepository interface {
	GetFileInfo(path string) (*entities.PDFDocument, error)
	FileExists(path string) bool
	CreateDirectory(path string) error
	ListPDFFiles(directory string) ([]string, error)
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte) error
	ReplaceFile(path string, data []byte) error
}

// ConfigRepository интерфейс для работы с параметрами сжатия
type ConfigRepository interface {
	GetCompressionSettings(config *entities.Config) (*entities.CompressionSettings, error)
	ValidateSettings(settings *entities.CompressionSettings) error
}

// KeyValueStore постоянное хранилище ключ-значение для журнала.
// Load для отсутствующего ключа возвращает nil, nil.
type KeyValueStore interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close(ctx context.Context) error
}
