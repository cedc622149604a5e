package assignment

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/stylevault/stylevault/internal/configs"
)

// Stylist is one roster entry.
type Stylist struct {
	ID                 string `toml:"id"`
	Name               string `toml:"name"`
	Active             bool   `toml:"active"`
	Available          bool   `toml:"available"`
	CurrentAssignments int    `toml:"current_assignments"`
	MaxAssignments     int    `toml:"max_assignments"`
}

// HasCapacity reports whether the stylist can take another design.
func (s Stylist) HasCapacity() bool {
	return s.CurrentAssignments < s.MaxAssignments
}

// Eligible reports whether the stylist may be assigned at all.
func (s Stylist) Eligible() bool {
	return s.Active && s.Available && s.HasCapacity()
}

// Roster loads and saves the full stylist list.
type Roster interface {
	Load() ([]Stylist, error)
	Save(stylists []Stylist) error
}

type rosterFile struct {
	Stylists []Stylist `toml:"stylist"`
}

// FileRoster is a Roster kept in a TOML file.
type FileRoster struct {
	path string
}

func NewFileRoster(path string) *FileRoster {
	return &FileRoster{path: path}
}

// Load returns an empty roster when the file does not exist yet.
func (r *FileRoster) Load() ([]Stylist, error) {
	var file rosterFile
	if _, err := os.Stat(r.path); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err := configs.LoadTOML(r.path, &file); err != nil {
		return nil, fmt.Errorf("failed to load stylist roster: %w", err)
	}
	return file.Stylists, nil
}

func (r *FileRoster) Save(stylists []Stylist) error {
	if err := configs.SaveTOML(r.path, rosterFile{Stylists: stylists}); err != nil {
		return fmt.Errorf("failed to save stylist roster: %w", err)
	}
	return nil
}

// MemoryRoster is a Roster held in memory.
type MemoryRoster struct {
	mu       sync.Mutex
	stylists []Stylist
	// SaveErr, when set, is returned by Save.
	SaveErr error
}

func NewMemoryRoster(stylists ...Stylist) *MemoryRoster {
	return &MemoryRoster{stylists: append([]Stylist(nil), stylists...)}
}

func (r *MemoryRoster) Load() ([]Stylist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Stylist(nil), r.stylists...), nil
}

func (r *MemoryRoster) Save(stylists []Stylist) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.SaveErr != nil {
		return r.SaveErr
	}
	r.stylists = append([]Stylist(nil), stylists...)
	return nil
}
