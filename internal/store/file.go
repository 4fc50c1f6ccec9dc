package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/tidwall/gjson"

	"github.com/dshills/scriptmarks/internal/logging"
)

// File is a Store persisted to a JSON file. Every Set and Delete rewrites
// the file atomically.
type File struct {
	mem    *Memory
	path   string
	logger *logging.Logger
}

// OpenFile loads the store at path. A missing file starts empty. A file
// that is not a JSON object is discarded with a warning and replaced on the
// next write.
func OpenFile(path string, logger *logging.Logger) (*File, error) {
	if logger == nil {
		logger = logging.Null()
	}
	f := &File{
		mem:    NewMemory(),
		path:   path,
		logger: logger.WithComponent("store").WithField("path", path),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return f, nil
		}
		return nil, fmt.Errorf("read store: %w", err)
	}

	if !gjson.ValidBytes(data) || !gjson.ParseBytes(data).IsObject() {
		f.logger.Warn("discarding malformed settings file")
		return f, nil
	}
	f.mem.doc = string(data)
	return f, nil
}

// Path returns the backing file path.
func (f *File) Path() string {
	return f.path
}

// Get implements Store.
func (f *File) Get(key string) (gjson.Result, bool) {
	return f.mem.Get(key)
}

// Set implements Store.
func (f *File) Set(key string, v any) error {
	f.mem.mu.Lock()
	defer f.mem.mu.Unlock()

	doc, err := f.mem.setLocked(key, v)
	if err != nil {
		return err
	}
	return f.flush(doc)
}

// Delete implements Store.
func (f *File) Delete(key string) error {
	f.mem.mu.Lock()
	defer f.mem.mu.Unlock()

	doc, err := f.mem.deleteLocked(key)
	if err != nil {
		return err
	}
	return f.flush(doc)
}

func (f *File) flush(doc string) error {
	return WriteFileAtomic(f.path, []byte(doc))
}

// WriteFileAtomic writes data to a temp file next to path and renames it
// into place, creating the parent directory if needed.
func WriteFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

var _ Store = (*File)(nil)

// DocumentPath returns the settings file for the screenplay at docPath:
// <dataDir>/documents/<xxhash64 of the absolute path>.json.
func DocumentPath(dataDir, docPath string) (string, error) {
	abs, err := filepath.Abs(docPath)
	if err != nil {
		return "", fmt.Errorf("resolve document path: %w", err)
	}
	name := fmt.Sprintf("%016x.json", xxhash.Sum64String(abs))
	return filepath.Join(dataDir, "documents", name), nil
}

// UserDefaultsPath returns the user defaults file in dataDir.
func UserDefaultsPath(dataDir string) string {
	return filepath.Join(dataDir, "defaults.json")
}
