// Package bookmark persists named drill positions so a view can be reopened
// later with the same file, path and metric.
package bookmark

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/KaramelBytes/drilldown-cli/internal/utils"
	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("bookmark not found")
	ErrExists   = errors.New("bookmark already exists")
	ErrNoName   = errors.New("bookmark name is required")
)

// Bookmark is one saved drill position.
type Bookmark struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	File       string    `json:"file"`
	Sheet      string    `json:"sheet,omitempty"`
	SheetIndex int       `json:"sheet_index,omitempty"`
	Path       []string  `json:"path"`
	Metric     string    `json:"metric,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ShortID is the first eight characters of the ID, or all of it when shorter.
func (b Bookmark) ShortID() string {
	if len(b.ID) <= 8 {
		return b.ID
	}
	return b.ID[:8]
}

// Store is the on-disk bookmark list.
type Store struct {
	Bookmarks []Bookmark `json:"bookmarks"`

	// Not serialized: location of the json file
	path string
}

// Open loads the store at path. A missing file yields an empty store.
func Open(path string) (*Store, error) {
	s := &Store{path: path}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("read bookmarks: %w", err)
	}
	if err := json.Unmarshal(b, s); err != nil {
		return nil, fmt.Errorf("parse bookmarks %s: %w", path, err)
	}
	return s, nil
}

// Path returns the file backing the store.
func (s *Store) Path() string { return s.path }

// Save writes the store using atomic write.
func (s *Store) Save() error {
	if s.path == "" {
		return errors.New("bookmark file not set")
	}
	data, err := utils.PrettyJSON(s)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(s.path, data)
}

// Add assigns an id and timestamp and appends b. Names are unique.
func (s *Store) Add(b Bookmark) (Bookmark, error) {
	b.Name = strings.TrimSpace(b.Name)
	if b.Name == "" {
		return Bookmark{}, ErrNoName
	}
	if _, err := s.Get(b.Name); err == nil {
		return Bookmark{}, fmt.Errorf("%q: %w", b.Name, ErrExists)
	}
	b.ID = uuid.NewString()
	b.CreatedAt = time.Now().UTC()
	b.Path = append([]string(nil), b.Path...)
	s.Bookmarks = append(s.Bookmarks, b)
	return b, nil
}

// Get finds a bookmark by exact name, full id, or unique id prefix.
func (s *Store) Get(ref string) (Bookmark, error) {
	i, err := s.index(ref)
	if err != nil {
		return Bookmark{}, err
	}
	return s.Bookmarks[i], nil
}

// Remove deletes the bookmark matching ref.
func (s *Store) Remove(ref string) error {
	i, err := s.index(ref)
	if err != nil {
		return err
	}
	s.Bookmarks = append(s.Bookmarks[:i], s.Bookmarks[i+1:]...)
	return nil
}

// List returns bookmarks ordered by name.
func (s *Store) List() []Bookmark {
	out := append([]Bookmark(nil), s.Bookmarks...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *Store) index(ref string) (int, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return -1, ErrNoName
	}
	for i, b := range s.Bookmarks {
		if b.Name == ref || b.ID == ref {
			return i, nil
		}
	}
	match := -1
	for i, b := range s.Bookmarks {
		if strings.HasPrefix(b.ID, ref) {
			if match >= 0 {
				return -1, fmt.Errorf("id prefix %q is ambiguous: %w", ref, ErrNotFound)
			}
			match = i
		}
	}
	if match < 0 {
		return -1, fmt.Errorf("%q: %w", ref, ErrNotFound)
	}
	return match, nil
}
