package usecases_test

import (
	"errors"
	"fmt"
	"image"
	"os"
	"sort"
	"sync"

	"pdfcompressor/internal/domain/entities"
	"pdfcompressor/internal/domain/repositories"
)

// pdfBytes минимальные данные, проходящие проверку заголовка
func pdfBytes(size int) []byte {
	data := make([]byte, size)
	copy(data, "%PDF-1.7\n")
	return data
}

type fakeDoc struct {
	pages       int
	failPage    int
	renderCalls int
	closed      bool
}

func (d *fakeDoc) PageCount() int { return d.pages }
func (d *fakeDoc) Size() int64    { return 0 }
func (d *fakeDoc) Close() error {
	d.closed = true
	return nil
}

func (d *fakeDoc) RenderPage(page int, scale float64) (*entities.RenderedPage, error) {
	d.renderCalls++
	if page == d.failPage {
		return nil, errors.New("broken page stream")
	}
	w, h := int(100*scale), int(150*scale)
	return &entities.RenderedPage{
		PageNumber: page,
		Image:      image.NewRGBA(image.Rect(0, 0, 1, 1)),
		Width:      w,
		Height:     h,
		Scale:      scale,
	}, nil
}

type fakeOpener struct {
	pages    int
	failPage int
	err      error
	opened   []*fakeDoc
}

func (o *fakeOpener) Open(data []byte) (repositories.SourceDocument, error) {
	if o.err != nil {
		return nil, o.err
	}
	doc := &fakeDoc{pages: o.pages, failPage: o.failPage}
	o.opened = append(o.opened, doc)
	return doc, nil
}

// fakeEncoder размер страницы пропорционален quality * scale^2
type fakeEncoder struct {
	unit int
}

func (e *fakeEncoder) Encode(page *entities.RenderedPage, quality float64, grayscale bool) (*entities.EncodedPage, error) {
	size := int(quality * page.Scale * page.Scale * float64(e.unit))
	return &entities.EncodedPage{
		PageNumber: page.PageNumber,
		Data:       make([]byte, size),
		Width:      page.Width,
		Height:     page.Height,
		Scale:      page.Scale,
		Quality:    entities.JPEGQuality(quality),
		Grayscale:  grayscale,
	}, nil
}

const assemblyOverhead = 100

type fakeAssembler struct {
	calls int
	err   error
}

func (a *fakeAssembler) Assemble(pages []*entities.EncodedPage) ([]byte, error) {
	a.calls++
	if a.err != nil {
		return nil, a.err
	}
	total := assemblyOverhead
	for _, p := range pages {
		total += len(p.Data)
	}
	return make([]byte, total), nil
}

type eventRecorder struct {
	mu     sync.Mutex
	events []entities.ProgressEvent
}

func (r *eventRecorder) OnProgress(event entities.ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *eventRecorder) ofKind(kind entities.ProgressKind) []entities.ProgressEvent {
	var out []entities.ProgressEvent
	for _, e := range r.events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// memoryFileRepo файловая система в памяти
type memoryFileRepo struct {
	files    map[string][]byte
	replaced []string
}

func newMemoryFileRepo(files map[string][]byte) *memoryFileRepo {
	return &memoryFileRepo{files: files}
}

func (r *memoryFileRepo) GetFileInfo(path string) (*entities.PDFDocument, error) {
	data, ok := r.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return &entities.PDFDocument{Path: path, Size: int64(len(data))}, nil
}

func (r *memoryFileRepo) FileExists(path string) bool {
	if _, ok := r.files[path]; ok {
		return true
	}
	return path == "src"
}

func (r *memoryFileRepo) CreateDirectory(string) error { return nil }

func (r *memoryFileRepo) ListPDFFiles(string) ([]string, error) {
	var out []string
	for path := range r.files {
		out = append(out, path)
	}
	sort.Strings(out)
	return out, nil
}

func (r *memoryFileRepo) ReadFile(path string) ([]byte, error) {
	data, ok := r.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return data, nil
}

func (r *memoryFileRepo) WriteFile(path string, data []byte) error {
	r.files[path] = data
	return nil
}

func (r *memoryFileRepo) ReplaceFile(path string, data []byte) error {
	if _, ok := r.files[path]; !ok {
		return fmt.Errorf("replace %s: %w", path, os.ErrNotExist)
	}
	r.files[path] = data
	r.replaced = append(r.replaced, path)
	return nil
}
