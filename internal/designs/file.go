package designs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	kerrors "github.com/stylevault/stylevault/internal/errors"
)

// FileStore keeps one JSON file per record under a directory.
type FileStore struct {
	dir string
	mu  sync.RWMutex
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create designs directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// Save writes rec. Returns ErrDesignExists if the ID is taken.
func (s *FileStore) Save(ctx context.Context, rec *Record) error {
	if err := validateRecord(rec); err != nil {
		return err
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode design record: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// O_EXCL makes the existence check and the create one step.
	f, err := os.OpenFile(s.path(rec.ID), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if errors.Is(err, os.ErrExist) {
		return fmt.Errorf("%w: %s", kerrors.ErrDesignExists, rec.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to create design record: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(s.path(rec.ID))
		return fmt.Errorf("failed to write design record: %w", err)
	}
	return f.Close()
}

// Get returns ErrDesignNotFound for an unknown ID.
func (s *FileStore) Get(ctx context.Context, id string) (*Record, error) {
	if !validID(id) {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrDesignNotFound, id)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read(s.path(id), id)
}

func (s *FileStore) List(ctx context.Context, filter ListFilter) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read designs directory: %w", err)
	}

	var records []*Record
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		id := strings.TrimSuffix(entry.Name(), ".json")
		rec, err := s.read(filepath.Join(s.dir, entry.Name()), id)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return filterRecords(records, filter)
}

func (s *FileStore) read(path, id string) (*Record, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrDesignNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read design record: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse design record %s: %w", id, err)
	}
	return &rec, nil
}
