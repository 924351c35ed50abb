package table

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const fileName = "table.json"

type fileState struct {
	TableID   string    `json:"table_id"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FileStore keeps the table id in one JSON file under the kiosk state dir.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{path: filepath.Join(dir, fileName)}
}

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Get(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", ErrNotSelected
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", s.path, err)
	}
	var st fileState
	if err := json.Unmarshal(b, &st); err != nil {
		return "", fmt.Errorf("decode %s: %w", s.path, err)
	}
	if st.TableID == "" {
		return "", ErrNotSelected
	}
	return st.TableID, nil
}

func (s *FileStore) Set(_ context.Context, tableID string) error {
	id, err := Normalize(tableID)
	if err != nil {
		return err
	}
	b, err := json.Marshal(fileState{TableID: id, UpdatedAt: time.Now().UTC()})
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	// write then rename so a crash never leaves half a file behind
	tmp, err := os.CreateTemp(filepath.Dir(s.path), fileName+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

func (s *FileStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
