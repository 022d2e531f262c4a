package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"pdfcompressor/internal/domain/entities"
	"pdfcompressor/internal/domain/repositories"
)

// HistoryStore журнал последних сжатий поверх хранилища ключ-значение.
// Записи хранятся одним JSON массивом, новые в начале.
type HistoryStore struct {
	store      repositories.KeyValueStore
	logger     repositories.Logger
	maxEntries int
	now        func() time.Time

	mu sync.Mutex
}

// NewHistoryStore создает журнал сжатий
func NewHistoryStore(store repositories.KeyValueStore, logger repositories.Logger) *HistoryStore {
	if logger == nil {
		logger = repositories.NopLogger{}
	}
	return &HistoryStore{
		store:      store,
		logger:     logger,
		maxEntries: entities.HistoryMaxEntries,
		now:        time.Now,
	}
}

// Get возвращает записи журнала, новые первыми
func (h *HistoryStore) Get(ctx context.Context) ([]entities.HistoryEntry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.load(ctx)
}

// Add добавляет запись в начало журнала, заполняя ID и дату при их отсутствии.
// Журнал обрезается до maxEntries записей.
func (h *HistoryStore) Add(ctx context.Context, entry entities.HistoryEntry) (entities.HistoryEntry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	entries, err := h.load(ctx)
	if err != nil {
		return entry, err
	}

	now := h.now()
	if entry.Date.IsZero() {
		entry.Date = now
	}
	if entry.ID == "" {
		entry.ID = nextHistoryID(now, entries)
	}

	entries = append([]entities.HistoryEntry{entry}, entries...)
	if len(entries) > h.maxEntries {
		entries = entries[:h.maxEntries]
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return entry, fmt.Errorf("ошибка сериализации журнала: %w", err)
	}
	if err := h.store.Save(ctx, entities.HistoryKey, data); err != nil {
		return entry, fmt.Errorf("ошибка сохранения журнала: %w", err)
	}

	return entry, nil
}

// Clear удаляет все записи журнала
func (h *HistoryStore) Clear(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.store.Delete(ctx, entities.HistoryKey); err != nil {
		return fmt.Errorf("ошибка очистки журнала: %w", err)
	}
	return nil
}

// load читает журнал; поврежденные данные читаются как пустой журнал
func (h *HistoryStore) load(ctx context.Context) ([]entities.HistoryEntry, error) {
	data, err := h.store.Load(ctx, entities.HistoryKey)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения журнала: %w", err)
	}
	if len(data) == 0 {
		return []entities.HistoryEntry{}, nil
	}

	var entries []entities.HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		h.logger.Warning("Журнал поврежден и будет перезаписан: %v", err)
		return []entities.HistoryEntry{}, nil
	}
	if entries == nil {
		entries = []entities.HistoryEntry{}
	}
	return entries, nil
}

// nextHistoryID возвращает миллисекунды now строкой, но не меньше последнего ID + 1
func nextHistoryID(now time.Time, entries []entities.HistoryEntry) string {
	id := now.UnixMilli()
	if len(entries) > 0 {
		if last, err := strconv.ParseInt(entries[0].ID, 10, 64); err == nil && last >= id {
			id = last + 1
		}
	}
	return strconv.FormatInt(id, 10)
}
