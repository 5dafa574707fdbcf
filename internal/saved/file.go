package saved

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rsilvagit/go-jobboard/internal/model"
)

// FileStore keeps the list as a JSON array in one file.
type FileStore struct {
	Path string
}

func (f FileStore) Load(_ context.Context) ([]model.SavedJob, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("saved: reading %s: %w", f.Path, err)
	}
	var items []model.SavedJob
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("saved: decoding %s: %w", f.Path, err)
	}
	return items, nil
}

func (f FileStore) Save(_ context.Context, items []model.SavedJob) error {
	if items == nil {
		items = []model.SavedJob{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("saved: encoding: %w", err)
	}
	tmp := filepath.Join(filepath.Dir(f.Path), "."+filepath.Base(f.Path)+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("saved: writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.Path); err != nil {
		return fmt.Errorf("saved: replacing %s: %w", f.Path, err)
	}
	return nil
}
