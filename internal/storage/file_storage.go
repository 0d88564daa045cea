// internal/storage/file_storage.go
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStorage reads and atomically replaces whole files under BaseDir.
type FileStorage struct {
	BaseDir string

	// path -> *sync.RWMutex
	fileLocks sync.Map
}

// NewFileStorage creates baseDir when missing.
func NewFileStorage(baseDir string) (*FileStorage, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &FileStorage{BaseDir: baseDir}, nil
}

func (fs *FileStorage) getFileLock(fullPath string) *sync.RWMutex {
	value, _ := fs.fileLocks.LoadOrStore(fullPath, &sync.RWMutex{})
	return value.(*sync.RWMutex)
}

// Path returns the absolute location of name.
func (fs *FileStorage) Path(name string) string {
	return filepath.Join(fs.BaseDir, name)
}

// WriteFile replaces name with content. The data is written to a temp
// file, synced and renamed over the target, so readers see either the old
// or the new file.
func (fs *FileStorage) WriteFile(name string, content []byte) error {
	fullPath := fs.Path(name)
	lock := fs.getFileLock(fullPath)
	lock.Lock()
	defer lock.Unlock()

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(fullPath), filepath.Base(fullPath)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tempPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tempPath) }

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tempPath, fullPath); err != nil {
		cleanup()
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}

// ReadFile returns the content of name. A missing file yields an error
// satisfying os.IsNotExist.
func (fs *FileStorage) ReadFile(name string) ([]byte, error) {
	fullPath := fs.Path(name)
	lock := fs.getFileLock(fullPath)
	lock.RLock()
	defer lock.RUnlock()
	return os.ReadFile(fullPath)
}

// SaveJSONFile writes v as indented JSON.
func (fs *FileStorage) SaveJSONFile(name string, v interface{}) error {
	content, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return fs.WriteFile(name, content)
}

// LoadJSONFile decodes name into v.
func (fs *FileStorage) LoadJSONFile(name string, v interface{}) error {
	content, err := fs.ReadFile(name)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(content, v); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	return nil
}

// FileExists reports whether name exists.
func (fs *FileStorage) FileExists(name string) bool {
	_, err := os.Stat(fs.Path(name))
	return err == nil
}

// Backup copies name to name+suffix and returns the backup path.
func (fs *FileStorage) Backup(name, suffix string) (string, error) {
	content, err := fs.ReadFile(name)
	if err != nil {
		return "", err
	}
	if err := fs.WriteFile(name+suffix, content); err != nil {
		return "", err
	}
	return fs.Path(name + suffix), nil
}
