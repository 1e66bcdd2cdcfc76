package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStore persists each scope as one human-readable JSON document
// under a root directory. Documents are 2-space indented and safe to
// hand-edit; a missing or malformed document reads as empty.
type FileStore struct {
	root   string
	locker *scopeLocker
}

// NewFileStore creates a file-backed store rooted at dir. The directory
// is created if it does not exist.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{root: dir, locker: newScopeLocker()}, nil
}

// path maps a scope name to its document file. Scope names may contain
// "/" to group related documents into subdirectories; path segments are
// cleaned so a scope can never escape the root.
func (f *FileStore) path(scope string) string {
	clean := filepath.Clean("/" + strings.ReplaceAll(scope, "\\", "/"))
	return filepath.Join(f.root, clean+".json")
}

func (f *FileStore) load(scope string) Doc {
	data, err := os.ReadFile(f.path(scope))
	if err != nil {
		return Doc{}
	}
	doc := Doc{}
	if err := json.Unmarshal(data, &doc); err != nil {
		// Corrupt documents degrade to empty rather than erroring.
		return Doc{}
	}
	return doc
}

func (f *FileStore) save(scope string, doc Doc) error {
	path := f.path(scope)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	// Write to a temp file in the same directory, then rename, so a
	// crash mid-write never leaves a truncated document behind.
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}

func (f *FileStore) Get(scope, key string) (json.RawMessage, bool) {
	m := f.locker.lock(scope)
	defer m.Unlock()

	raw, ok := f.load(scope)[key]
	return raw, ok
}

func (f *FileStore) Keys(scope string) []string {
	m := f.locker.lock(scope)
	defer m.Unlock()

	return f.load(scope).Keys()
}

func (f *FileStore) Update(scope string, fn func(doc Doc) error) error {
	m := f.locker.lock(scope)
	defer m.Unlock()

	doc := f.load(scope)
	if err := fn(doc); err != nil {
		return err
	}
	return f.save(scope, doc)
}

func (f *FileStore) DeleteScope(scope string) error {
	m := f.locker.lock(scope)
	defer m.Unlock()

	err := os.Remove(f.path(scope))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
