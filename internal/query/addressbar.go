package query

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// AddressBar is where the encoded state lives between sessions. Replace
// overwrites the current entry; there is no history.
type AddressBar interface {
	Read() (string, error)
	Replace(rawQuery string) error
}

// FileBar keeps the query string in a single file.
type FileBar struct {
	Path string
}

// Read returns "" when the file does not exist yet.
func (b FileBar) Read() (string, error) {
	data, err := os.ReadFile(b.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query: reading %s: %w", b.Path, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Replace writes through a temp file and rename so readers never see a
// partial query string.
func (b FileBar) Replace(rawQuery string) error {
	tmp, err := os.CreateTemp(filepath.Dir(b.Path), ".jobboard-url-*")
	if err != nil {
		return fmt.Errorf("query: creating temp file: %w", err)
	}
	if _, err := tmp.WriteString(rawQuery + "\n"); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("query: writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("query: closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), b.Path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("query: replacing %s: %w", b.Path, err)
	}
	return nil
}

// MemoryBar is an in-process AddressBar.
type MemoryBar struct {
	mu     sync.Mutex
	query  string
	writes int
}

// NewMemoryBar returns a MemoryBar holding initial.
func NewMemoryBar(initial string) *MemoryBar {
	return &MemoryBar{query: initial}
}

// Read returns the last query string written.
func (b *MemoryBar) Read() (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.query, nil
}

// Replace overwrites the query string and counts the write.
func (b *MemoryBar) Replace(rawQuery string) error {
	b.mu.Lock()
	b.query = rawQuery
	b.writes++
	b.mu.Unlock()
	return nil
}

// Writes returns how many times Replace was called.
func (b *MemoryBar) Writes() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.writes
}
