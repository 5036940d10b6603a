package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mishwar/go-mishwar/internal/models"
)

// FileAdapter stores each collection as one JSON file under a data
// directory. This is the default backend for single-node deployments.
type FileAdapter struct {
	dir string
}

func NewFileAdapter(dir string) (*FileAdapter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileAdapter{dir: dir}, nil
}

func (a *FileAdapter) path(key string) string {
	// "bookings:requests" -> bookings_requests.json
	return filepath.Join(a.dir, strings.ReplaceAll(key, ":", "_")+".json")
}

func (a *FileAdapter) Load(ctx context.Context, key string) (map[string]*models.BookingRecord, error) {
	data, err := os.ReadFile(a.path(key))
	if os.IsNotExist(err) {
		return map[string]*models.BookingRecord{}, nil
	}
	if err != nil {
		return nil, err
	}

	collection := map[string]*models.BookingRecord{}
	if err := json.Unmarshal(data, &collection); err != nil {
		return nil, fmt.Errorf("corrupt collection %s: %w", key, err)
	}
	return collection, nil
}

func (a *FileAdapter) Save(ctx context.Context, key string, collection map[string]*models.BookingRecord) error {
	data, err := json.Marshal(collection)
	if err != nil {
		return err
	}

	// Write to a temp file in the same directory, then rename so readers
	// never observe a partially written collection.
	tmp, err := os.CreateTemp(a.dir, ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), a.path(key))
}
