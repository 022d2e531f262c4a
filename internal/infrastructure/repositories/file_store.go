package repositories

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// FileKeyValueStore хранит каждое значение в отдельном файле <directory>/<key>.json
type FileKeyValueStore struct {
	directory string
}

// NewFileKeyValueStore создает файловое хранилище, создавая директорию при необходимости
func NewFileKeyValueStore(directory string) (*FileKeyValueStore, error) {
	if err := os.MkdirAll(directory, 0755); err != nil {
		return nil, fmt.Errorf("не удалось создать директорию хранилища %s: %w", directory, err)
	}
	return &FileKeyValueStore{directory: directory}, nil
}

func (s *FileKeyValueStore) path(key string) string {
	return filepath.Join(s.directory, unsafeKeyChars.ReplaceAllString(key, "_")+".json")
}

func (s *FileKeyValueStore) Load(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return nil, nil
	}
	return data, err
}

// Save записывает значение через временный файл и переименование
func (s *FileKeyValueStore) Save(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := s.path(key)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, value, 0644); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

func (s *FileKeyValueStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := os.Remove(s.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *FileKeyValueStore) Close(context.Context) error {
	return nil
}
