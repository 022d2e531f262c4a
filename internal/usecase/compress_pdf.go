package usecases

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"pdfcompressor/internal/domain/entities"
	"pdfcompressor/internal/domain/repositories"
)

// pdfHeaderWindow PDF допускает мусор перед заголовком в первых 1024 байтах
const pdfHeaderWindow = 1024

// CompressPDFUseCase сценарий сжатия одного PDF файла с подбором размера.
// Страницы и попытки обрабатываются строго последовательно.
type CompressPDFUseCase struct {
	opener      repositories.DocumentOpener
	encoder     repositories.ImageEncoder
	assembler   repositories.PageAssembler
	logger      repositories.Logger
	maxFileSize int64
}

// NewCompressPDFUseCase создает новый сценарий сжатия PDF
func NewCompressPDFUseCase(
	opener repositories.DocumentOpener,
	encoder repositories.ImageEncoder,
	assembler repositories.PageAssembler,
	logger repositories.Logger,
) *CompressPDFUseCase {
	if logger == nil {
		logger = repositories.NopLogger{}
	}
	return &CompressPDFUseCase{
		opener:      opener,
		encoder:     encoder,
		assembler:   assembler,
		logger:      logger,
		maxFileSize: entities.MaxFileSize,
	}
}

// SetMaxFileSize устанавливает ограничение размера входного файла
func (uc *CompressPDFUseCase) SetMaxFileSize(size int64) {
	if size > 0 {
		uc.maxFileSize = size
	}
}

// Execute сжимает документ data. Любая ошибка превращается в неуспешный результат
// без выходных данных; промах по целевому размеру ошибкой не считается.
func (uc *CompressPDFUseCase) Execute(
	ctx context.Context,
	name string,
	data []byte,
	settings entities.CompressionSettings,
	observer repositories.ProgressObserver,
) *entities.CompressionResult {
	run := &sizeTargetRun{
		uc:        uc,
		name:      name,
		data:      data,
		requested: settings,
		observer:  observer,
		state:     stateInit,
	}

	for !run.state.terminal() {
		run.state = run.step(ctx)
	}

	if run.doc != nil {
		if err := run.doc.Close(); err != nil {
			uc.logger.Warning("Не удалось закрыть документ %s: %v", name, err)
		}
	}

	return run.result()
}

// ValidateInput проверяет, что data похож на PDF допустимого размера
func (uc *CompressPDFUseCase) ValidateInput(data []byte) error {
	if len(data) == 0 {
		return entities.NewValidationError(entities.ErrEmptyFile)
	}
	if int64(len(data)) > uc.maxFileSize {
		return entities.NewValidationError(fmt.Errorf("%w: %s > %s",
			entities.ErrFileTooLarge, entities.FormatSize(int64(len(data))), entities.FormatSize(uc.maxFileSize)))
	}

	head := data
	if len(head) > pdfHeaderWindow {
		head = head[:pdfHeaderWindow]
	}
	if !bytes.Contains(head, []byte("%PDF-")) {
		return entities.NewValidationError(entities.ErrInvalidFileFormat)
	}
	return nil
}

// runState состояние автомата подбора размера
type runState int

const (
	stateInit runState = iota
	stateRender
	stateReassemble
	stateEvaluate
	stateAdjust
	stateDone
	stateFailed
)

func (s runState) terminal() bool {
	return s == stateDone || s == stateFailed
}

// sizeTargetRun один прогон автомата для одного файла
type sizeTargetRun struct {
	uc        *CompressPDFUseCase
	name      string
	data      []byte
	requested entities.CompressionSettings
	observer  repositories.ProgressObserver

	state     runState
	doc       repositories.SourceDocument
	selection entities.PageSelection
	current   entities.CompressionSettings
	attempts  int
	encoded   []*entities.EncodedPage
	output    []byte
	err       error
}

func (r *sizeTargetRun) step(ctx context.Context) runState {
	switch r.state {
	case stateInit:
		return r.init()
	case stateRender:
		return r.render(ctx)
	case stateReassemble:
		return r.reassemble()
	case stateEvaluate:
		return r.evaluate()
	case stateAdjust:
		return r.adjust()
	default:
		return r.fail(fmt.Errorf("неизвестное состояние %d", r.state))
	}
}

func (r *sizeTargetRun) init() runState {
	settings := r.requested
	settings.Normalize()
	if err := settings.Validate(); err != nil {
		return r.fail(entities.NewValidationError(err))
	}

	if err := r.uc.ValidateInput(r.data); err != nil {
		return r.fail(err)
	}

	doc, err := r.uc.opener.Open(r.data)
	if err != nil {
		return r.fail(asFailure(err, entities.FailureRender, 0))
	}
	r.doc = doc

	r.selection = entities.ParsePageRange(settings.PageRange, doc.PageCount())
	if len(r.selection) == 0 {
		return r.fail(entities.NewValidationError(fmt.Errorf("%w: %q", entities.ErrNoPagesSelected, settings.PageRange)))
	}

	r.current = settings
	r.attempts = 0

	r.uc.logger.Debug("%s: %d из %d страниц, %s", r.name, len(r.selection), doc.PageCount(), r.current)
	return stateRender
}

func (r *sizeTargetRun) render(ctx context.Context) runState {
	r.attempts++
	r.encoded = make([]*entities.EncodedPage, 0, len(r.selection))
	r.emit(entities.ProgressAttemptStarted, 0, entities.ProgressAttemptStart)

	for i, pageNumber := range r.selection {
		if err := ctx.Err(); err != nil {
			return r.fail(err)
		}

		rendered, err := r.doc.RenderPage(pageNumber, r.current.Scale)
		if err != nil {
			return r.fail(asFailure(err, entities.FailureRender, pageNumber))
		}

		encoded, err := r.uc.encoder.Encode(rendered, r.current.Quality, r.current.Grayscale)
		if err != nil {
			return r.fail(asFailure(err, entities.FailureEncode, pageNumber))
		}
		r.encoded = append(r.encoded, encoded)

		r.emit(entities.ProgressPageEncoded, pageNumber, entities.RenderPercent(i+1, len(r.selection)))
	}

	return stateReassemble
}

func (r *sizeTargetRun) reassemble() runState {
	output, err := r.uc.assembler.Assemble(r.encoded)
	r.encoded = nil
	if err != nil {
		return r.fail(asFailure(err, entities.FailureAssembly, 0))
	}

	r.output = output
	r.emit(entities.ProgressAttemptAssembled, 0, entities.ProgressAssembled)
	return stateEvaluate
}

func (r *sizeTargetRun) evaluate() runState {
	size := int64(len(r.output))
	if entities.ShouldStop(r.current, size, r.attempts) {
		if r.current.HasTarget() && size > r.current.TargetSizeBytes {
			r.uc.logger.Warning("%s: цель %s не достигнута за %d попыток, результат %s",
				r.name, entities.FormatSize(r.current.TargetSizeBytes), r.attempts, entities.FormatSize(size))
		}
		return stateDone
	}
	return stateAdjust
}

func (r *sizeTargetRun) adjust() runState {
	size := int64(len(r.output))
	r.output = nil
	r.current = entities.NextAttemptSettings(r.current)

	r.uc.logger.Info("%s: попытка %d дала %s (> %s), повтор: %s",
		r.name, r.attempts, entities.FormatSize(size), entities.FormatSize(r.current.TargetSizeBytes), r.current)
	return stateRender
}

func (r *sizeTargetRun) fail(err error) runState {
	r.err = err
	r.output = nil
	r.encoded = nil
	return stateFailed
}

// emit отправляет событие прогресса наблюдателю
func (r *sizeTargetRun) emit(kind entities.ProgressKind, page int, percent int) {
	if r.observer == nil {
		return
	}

	done := 0
	switch kind {
	case entities.ProgressPageEncoded:
		done = len(r.encoded)
	case entities.ProgressAttemptAssembled:
		done = len(r.selection)
	}

	r.observer.OnProgress(entities.ProgressEvent{
		Kind:       kind,
		File:       r.name,
		TotalFiles: 1,
		Attempt:    r.attempts,
		Page:       page,
		PagesDone:  done,
		Pages:      len(r.selection),
		Percent:    percent,
		Overall:    float64(percent),
		Settings:   r.current,
	})
}

// result строит итоговый неизменяемый результат
func (r *sizeTargetRun) result() *entities.CompressionResult {
	originalSize := int64(len(r.data))

	if r.state == stateFailed {
		result := entities.NewFailedResult(r.name, originalSize, r.err)
		result.Attempts = r.attempts
		result.SettingsUsed = r.current
		return result
	}

	result := &entities.CompressionResult{
		CurrentFile:    r.name,
		OriginalSize:   originalSize,
		CompressedSize: int64(len(r.output)),
		Success:        true,
		OutputBytes:    r.output,
		PageCount:      len(r.selection),
		SettingsUsed:   r.current,
		Attempts:       r.attempts,
	}
	result.TargetMet = !r.current.HasTarget() || result.CompressedSize <= r.current.TargetSizeBytes
	result.CalculateCompressionRatio()

	if r.observer != nil {
		r.emit(entities.ProgressFileFinished, 0, entities.ProgressDone)
	}
	return result
}

// asFailure оборачивает ошибку в CompressionError, если она еще не классифицирована
func asFailure(err error, kind entities.FailureKind, page int) error {
	var ce *entities.CompressionError
	if errors.As(err, &ce) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &entities.CompressionError{Kind: kind, Page: page, Err: err}
}
