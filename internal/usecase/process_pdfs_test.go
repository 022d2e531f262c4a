package usecases_test

import (
	"context"
	"path/filepath"
	"testing"

	"pdfcompressor/internal/domain/entities"
	infraRepos "pdfcompressor/internal/infrastructure/repositories"
	usecases "pdfcompressor/internal/usecase"
)

func newBatch(files map[string][]byte) (*usecases.ProcessPDFsUseCase, *memoryFileRepo, *usecases.HistoryStore) {
	controller := usecases.NewCompressPDFUseCase(&fakeOpener{pages: 2}, &fakeEncoder{unit: 100}, &fakeAssembler{}, nil)
	repo := newMemoryFileRepo(files)
	history := usecases.NewHistoryStore(infraRepos.NewMemoryKeyValueStore(), nil)
	batch := usecases.NewProcessPDFsUseCase(controller, repo, infraRepos.NewConfigRepository(), history, nil)
	return batch, repo, history
}

func TestProcessFiles_ContinuesAfterFailure(t *testing.T) {
	files := map[string][]byte{
		filepath.Join("src", "a.pdf"):        pdfBytes(5000),
		filepath.Join("src", "broken.pdf"):   []byte("not a pdf at all"),
		filepath.Join("src", "sub", "c.pdf"): pdfBytes(5000),
	}
	batch, repo, history := newBatch(files)

	recorder := &eventRecorder{}
	batch.SetProgressObserver(recorder)

	var reports []entities.ProcessingStatus
	batch.SetProgressReporter(func(s entities.ProcessingStatus) { reports = append(reports, s) })

	inputs := []string{
		filepath.Join("src", "a.pdf"),
		filepath.Join("src", "broken.pdf"),
		filepath.Join("src", "sub", "c.pdf"),
	}
	settings := *entities.NewCompressionSettings(entities.PresetBalanced)

	results, status := batch.ProcessFiles(context.Background(), inputs, settings, usecases.BatchOptions{
		SourceDirectory: "src",
		TargetDirectory: "out",
	})

	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}
	if !results[0].Success || results[1].Success || !results[2].Success {
		t.Errorf("Unexpected success flags: %v %v %v", results[0].Success, results[1].Success, results[2].Success)
	}
	if status.SuccessfulFiles != 2 || status.FailedFiles != 1 || !status.IsComplete {
		t.Errorf("Unexpected status: %+v", status)
	}
	if status.Progress != 100 {
		t.Errorf("Expected final progress 100, got %.1f", status.Progress)
	}

	for _, out := range []string{filepath.Join("out", "a.pdf"), filepath.Join("out", "sub", "c.pdf")} {
		if _, ok := repo.files[out]; !ok {
			t.Errorf("Expected output %s to be written", out)
		}
	}
	if results[0].OutputBytes != nil {
		t.Error("Output bytes should be released after writing")
	}

	entries, _ := history.Get(context.Background())
	if len(entries) != 2 || entries[0].Filename != "c.pdf" || entries[1].Filename != "a.pdf" {
		t.Errorf("Unexpected history %+v", entries)
	}

	prev := 0.0
	for _, e := range recorder.events {
		if e.TotalFiles != 3 {
			t.Errorf("Event should carry total files 3, got %d", e.TotalFiles)
		}
		if e.Overall < prev {
			t.Errorf("Overall progress decreased: %.2f -> %.2f", prev, e.Overall)
		}
		prev = e.Overall
	}
	if len(reports) == 0 {
		t.Error("Expected status reports")
	}
}

func TestProcessFiles_ReplaceOriginal(t *testing.T) {
	path := filepath.Join("src", "a.pdf")
	original := pdfBytes(20000)
	batch, repo, _ := newBatch(map[string][]byte{path: original})

	results, _ := batch.ProcessFiles(context.Background(), []string{path},
		*entities.NewCompressionSettings(entities.PresetStrong), usecases.BatchOptions{ReplaceOriginal: true})

	if !results[0].Success {
		t.Fatalf("Expected success, got %v", results[0].Error)
	}
	if len(repo.replaced) != 1 || repo.replaced[0] != path {
		t.Errorf("Expected %s to be replaced, got %v", path, repo.replaced)
	}
	if int64(len(repo.files[path])) != results[0].CompressedSize {
		t.Errorf("Replaced file has %d bytes, want %d", len(repo.files[path]), results[0].CompressedSize)
	}
}

func TestProcessFiles_DefaultOutputNextToInput(t *testing.T) {
	path := filepath.Join("docs", "report.pdf")
	batch, repo, _ := newBatch(map[string][]byte{path: pdfBytes(1000)})

	batch.ProcessFiles(context.Background(), []string{path},
		*entities.NewCompressionSettings(entities.PresetBalanced), usecases.BatchOptions{})

	if _, ok := repo.files[filepath.Join("docs", "report_compressed.pdf")]; !ok {
		t.Error("Expected report_compressed.pdf next to the input")
	}
}

func TestProcessPDFs_ExecuteInvalidConfig(t *testing.T) {
	batch, _, _ := newBatch(map[string][]byte{})

	config := &entities.Config{
		Scanner:     entities.ScannerConfig{SourceDirectory: "src", TargetDirectory: "out"},
		Compression: entities.AppCompressionConfig{Preset: "extreme"},
	}
	if err := batch.Execute(context.Background(), config); err == nil {
		t.Error("Expected error for unknown preset")
	}
}

func TestProcessPDFs_ExecuteDirectory(t *testing.T) {
	files := map[string][]byte{
		filepath.Join("src", "a.pdf"): pdfBytes(3000),
		filepath.Join("src", "b.pdf"): pdfBytes(3000),
	}
	batch, repo, _ := newBatch(files)

	config := &entities.Config{
		Scanner:     entities.ScannerConfig{SourceDirectory: "src", TargetDirectory: "out"},
		Compression: entities.AppCompressionConfig{Preset: "light", TargetSize: "1MB"},
		Processing:  entities.ProcessingConfig{MaxAttempts: 3},
	}

	var last entities.ProcessingStatus
	batch.SetProgressReporter(func(s entities.ProcessingStatus) { last = s })

	if err := batch.Execute(context.Background(), config); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if last.SuccessfulFiles != 2 || !last.IsComplete {
		t.Errorf("Unexpected final status %+v", last)
	}
	if _, ok := repo.files[filepath.Join("out", "b.pdf")]; !ok {
		t.Error("Expected out/b.pdf")
	}
}
