package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"pdfcompressor/internal/domain/entities"
	"pdfcompressor/internal/domain/repositories"
	usecases "pdfcompressor/internal/usecase"
)

// multipartOverhead запас сверх размера файла на поля формы
const multipartOverhead = 1 << 20

// HTTPController HTTP API для сжатия одного файла и журнала
type HTTPController struct {
	compressPDF *usecases.CompressPDFUseCase
	history     *usecases.HistoryStore
	defaults    entities.AppCompressionConfig
	maxAttempts int
	maxUpload   int64
	logger      repositories.Logger
}

// NewHTTPController создает HTTP контроллер; значения формы перекрывают defaults
func NewHTTPController(
	compressPDF *usecases.CompressPDFUseCase,
	history *usecases.HistoryStore,
	config *entities.Config,
	logger repositories.Logger,
) *HTTPController {
	if logger == nil {
		logger = repositories.NopLogger{}
	}
	return &HTTPController{
		compressPDF: compressPDF,
		history:     history,
		defaults:    config.Compression,
		maxAttempts: config.Processing.MaxAttempts,
		maxUpload:   config.Processing.MaxFileSizeBytes(),
		logger:      logger,
	}
}

// Router создает маршрутизатор со всеми маршрутами и CORS
func (c *HTTPController) Router(allowedOrigins []string) http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "pdfcompressor"})
	}).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/compress", c.Compress).Methods(http.MethodPost)
	api.HandleFunc("/history", c.GetHistory).Methods(http.MethodGet)
	api.HandleFunc("/history", c.ClearHistory).Methods(http.MethodDelete)

	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{
			"Content-Disposition",
			"X-Original-Size",
			"X-Compressed-Size",
			"X-Compression-Ratio",
			"X-Attempts",
			"X-Target-Met",
		},
		MaxAge: 300,
	}).Handler(router)
}

// Compress принимает multipart поле file и возвращает сжатый PDF
func (c *HTTPController) Compress(w http.ResponseWriter, r *http.Request) {
	limit := c.maxUpload + multipartOverhead
	if r.ContentLength > limit {
		writeError(w, http.StatusRequestEntityTooLarge, entities.ErrFileTooLarge.Error())
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(multipartOverhead); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, entities.ErrFileTooLarge.Error())
			return
		}
		writeError(w, http.StatusBadRequest, "некорректная форма: "+err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "поле file обязательно")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "ошибка чтения файла: "+err.Error())
		return
	}

	settings, err := c.settingsFromForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	name := filepath.Base(header.Filename)
	c.logger.Info("HTTP: сжатие %s (%s), %s", name, entities.FormatSize(int64(len(data))), settings)

	result := c.compressPDF.Execute(r.Context(), name, data, *settings, nil)
	if !result.Success {
		c.logger.Error("HTTP: %s: %v", name, result.Error)
		writeError(w, statusForError(result.Error), result.ErrorMessage())
		return
	}

	if c.history != nil {
		if _, err := c.history.Add(r.Context(), entities.NewHistoryEntry(name, result)); err != nil {
			c.logger.Warning("HTTP: не удалось записать журнал: %v", err)
		}
	}

	h := w.Header()
	h.Set("Content-Type", "application/pdf")
	h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", compressedName(name)))
	h.Set("Content-Length", strconv.Itoa(len(result.OutputBytes)))
	h.Set("X-Original-Size", strconv.FormatInt(result.OriginalSize, 10))
	h.Set("X-Compressed-Size", strconv.FormatInt(result.CompressedSize, 10))
	h.Set("X-Compression-Ratio", strconv.FormatFloat(result.CompressionRatio, 'f', 1, 64))
	h.Set("X-Attempts", strconv.Itoa(result.Attempts))
	h.Set("X-Target-Met", strconv.FormatBool(result.TargetMet))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.OutputBytes); err != nil {
		c.logger.Warning("HTTP: ошибка отправки ответа: %v", err)
	}
}

// GetHistory возвращает журнал сжатий
func (c *HTTPController) GetHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := c.history.Get(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// ClearHistory очищает журнал сжатий
func (c *HTTPController) ClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := c.history.Clear(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// settingsFromForm собирает параметры из полей формы поверх конфигурации
func (c *HTTPController) settingsFromForm(r *http.Request) (*entities.CompressionSettings, error) {
	cfg := c.defaults

	if v := r.FormValue("preset"); v != "" {
		cfg.Preset = v
		// Пресет из запроса важнее явных значений конфигурации
		cfg.Quality, cfg.Scale = 0, 0
	}
	if v := r.FormValue("quality"); v != "" {
		q, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", entities.ErrInvalidQuality, v)
		}
		cfg.Quality = q
	}
	if v := r.FormValue("scale"); v != "" {
		s, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", entities.ErrInvalidScale, v)
		}
		cfg.Scale = s
	}
	if v := r.FormValue("grayscale"); v != "" {
		g, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("некорректное значение grayscale: %q", v)
		}
		cfg.Grayscale = g
	}
	if v, ok := r.Form["target_size"]; ok && len(v) > 0 {
		cfg.TargetSize = v[0]
	}

	settings, err := cfg.Settings(r.FormValue("page_range"))
	if err != nil {
		return nil, err
	}
	settings.AttemptLimit = c.maxAttempts
	return settings, nil
}

// statusForError сопоставляет категорию сбоя с HTTP статусом
func statusForError(err error) int {
	switch {
	case errors.Is(err, entities.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case entities.IsFailureKind(err, entities.FailureValidation):
		return http.StatusBadRequest
	case entities.IsFailureKind(err, entities.FailureRender):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func compressedName(name string) string {
	ext := filepath.Ext(name)
	if !strings.EqualFold(ext, ".pdf") {
		return name + "_compressed.pdf"
	}
	return strings.TrimSuffix(name, ext) + "_compressed" + ext
}

// writeJSON пишет JSON ответ
func writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError пишет ответ с ошибкой
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}
