// Package layouts resolves template names against a layouts directory.
package layouts

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Set is a snapshot of the layouts available in one directory. A layout's name
// is its file name without extension, so "region.html" and "region.liquid"
// both provide "region".
type Set struct {
	dir   string
	files map[string]string
}

// Load scans dir (non-recursively). A missing directory yields an empty set.
func Load(dir string) (*Set, error) {
	s := &Set{dir: dir, files: map[string]string{}}
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read layouts directory: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		if _, dup := s.files[name]; !dup {
			s.files[name] = filepath.Join(dir, e.Name())
		}
	}
	return s, nil
}

// Has reports whether a layout with the given name exists.
func (s *Set) Has(name string) bool {
	_, ok := s.files[name]
	return ok
}

// Path returns the file providing the layout.
func (s *Set) Path(name string) (string, bool) {
	p, ok := s.files[name]
	return p, ok
}

// Names returns the sorted layout names.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.files))
	for n := range s.files {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Dir returns the scanned directory.
func (s *Set) Dir() string { return s.dir }
