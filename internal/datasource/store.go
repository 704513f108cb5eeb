package datasource

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ohler55/ojg/jp"

	"git.home.luguber.info/inful/pagegen/internal/logfields"
)

// Store is an immutable snapshot of a data directory.
type Store struct {
	root string
	data map[string]any
}

// New wraps an already decoded tree.
func New(data map[string]any) *Store {
	if data == nil {
		data = map[string]any{}
	}
	return &Store{data: data}
}

// Load reads every supported file under dir. A missing directory yields an
// empty store. Hidden files and directories, and files with unknown
// extensions, are ignored. When two files share a base name in the same
// directory, the one sorting last by file name wins.
func Load(dir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{root: dir, data: map[string]any{}}

	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Debug("Data directory not found", logfields.Dir(dir))
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("stat data directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("data directory %s is not a directory", dir)
	}

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if path == dir {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !Supported(d.Name()) {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		// #nosec G304 -- path comes from walking the configured data directory
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read data file: %w", err)
		}
		value, err := Decode(d.Name(), content)
		if err != nil {
			return err
		}
		s.insert(rel, value)
		logger.Debug("Loaded data file", logfields.DataFile(filepath.ToSlash(rel)))
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("Loaded data directory", logfields.Dir(dir), logfields.Count(len(s.data)))
	return s, nil
}

// insert places value at the key path derived from rel
// ("teams/core.yml" -> ["teams", "core"]).
func (s *Store) insert(rel string, value any) {
	parts := strings.Split(filepath.ToSlash(rel), "/")
	last := len(parts) - 1
	parts[last] = strings.TrimSuffix(parts[last], filepath.Ext(parts[last]))

	node := s.data
	for _, dir := range parts[:last] {
		child, ok := node[dir].(map[string]any)
		if !ok {
			child = map[string]any{}
			node[dir] = child
		}
		node = child
	}
	node[parts[last]] = value
}

// Root returns the directory the store was loaded from.
func (s *Store) Root() string { return s.root }

// Keys returns the sorted top-level keys.
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Lookup resolves key against the tree. Plain names return the top-level
// value; names containing "." or "/" walk nested maps one segment at a time
// ("teams/core.members"). Keys starting with "$" are JSONPath expressions: a
// single match is returned as is and several matches as a list. A key that
// resolves to nothing returns (nil, nil). Only a malformed JSONPath
// expression is an error.
func (s *Store) Lookup(key string) (any, error) {
	if v, ok := s.data[key]; ok {
		return v, nil
	}

	var x jp.Expr
	if strings.HasPrefix(key, "$") {
		parsed, err := jp.ParseString(key)
		if err != nil {
			return nil, fmt.Errorf("invalid data_file path %q: %w", key, err)
		}
		x = parsed
	} else {
		x = childPath(key)
		if x == nil {
			return nil, nil
		}
	}

	results := x.Get(s.data)
	switch len(results) {
	case 0:
		return nil, nil
	case 1:
		return results[0], nil
	default:
		return results, nil
	}
}

// childPath builds a literal child-by-child expression from a dotted or
// slash-separated key. Segments are never parsed, so names may contain any
// character except the separators. A key with an empty segment yields nil.
func childPath(key string) jp.Expr {
	segments := strings.FieldsFunc(key, func(r rune) bool { return r == '.' || r == '/' })
	if len(segments) == 0 || strings.Count(key, ".")+strings.Count(key, "/") != len(segments)-1 {
		return nil
	}
	x := jp.R()
	for _, seg := range segments {
		x = x.C(seg)
	}
	return x
}
