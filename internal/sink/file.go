package sink

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/pagegen/internal/frontmatter"
	"git.home.luguber.info/inful/pagegen/internal/logfields"
	"git.home.luguber.info/inful/pagegen/internal/metrics"
	"git.home.luguber.info/inful/pagegen/internal/pagegen"
)

// LayoutField is the front matter key naming the template of a page.
const LayoutField = "layout"

// ErrPathEscapes is returned for descriptors whose path is absolute or leaves
// the destination directory.
var ErrPathEscapes = errors.New("page path escapes destination directory")

// FileSink writes pages as front matter documents under a destination
// directory. Each page carries its data fields, its template as "layout", and
// a content fingerprint. A page whose file already holds the same fingerprint
// is left untouched.
type FileSink struct {
	root     string
	logger   *slog.Logger
	recorder metrics.Recorder
}

// FileOption configures a FileSink.
type FileOption func(*FileSink)

// WithLogger sets the sink's logger.
func WithLogger(l *slog.Logger) FileOption {
	return func(s *FileSink) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) FileOption {
	return func(s *FileSink) {
		if r != nil {
			s.recorder = r
		}
	}
}

// NewFileSink returns a sink writing under root.
func NewFileSink(root string, opts ...FileOption) *FileSink {
	s := &FileSink{root: root, logger: slog.Default(), recorder: metrics.NoopRecorder{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Emit implements pagegen.PageSink.
func (s *FileSink) Emit(ctx context.Context, page pagegen.PageDescriptor) error {
	_, err := s.Write(ctx, page)
	return err
}

// Write writes one page and reports whether the file changed.
func (s *FileSink) Write(ctx context.Context, page pagegen.PageDescriptor) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	fullPath, err := s.resolve(page.Path)
	if err != nil {
		return false, err
	}

	stamped, fp, err := frontmatter.Stamp(Document(page))
	if err != nil {
		return false, fmt.Errorf("fingerprint %s: %w", page.Path, err)
	}

	// #nosec G304 -- fullPath is validated to stay under the destination.
	if existing, err := os.ReadFile(fullPath); err == nil && frontmatter.StoredFingerprint(existing) == fp {
		s.recorder.ObserveSinkWrite(false)
		s.logger.Debug("Page unchanged", logfields.Path(page.Path))
		return false, nil
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("read existing page: %w", err)
	}

	content, err := frontmatter.Render(stamped)
	if err != nil {
		return false, fmt.Errorf("render %s: %w", page.Path, err)
	}
	if err := writeAtomic(fullPath, content); err != nil {
		return false, err
	}
	s.recorder.ObserveSinkWrite(true)
	s.logger.Debug("Page written", logfields.Path(page.Path), logfields.Template(page.Template))
	return true, nil
}

// resolve maps a descriptor path to a file under root.
func (s *FileSink) resolve(rel string) (string, error) {
	if s.root == "" {
		return "", errors.New("destination directory is required")
	}
	if rel == "" {
		return "", errors.New("page path is required")
	}
	cleanRel := filepath.Clean(filepath.FromSlash(rel))
	if filepath.IsAbs(cleanRel) || cleanRel == ".." || strings.HasPrefix(cleanRel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrPathEscapes, rel)
	}
	fullPath := filepath.Join(s.root, cleanRel)
	r, err := filepath.Rel(s.root, fullPath)
	if err != nil || strings.HasPrefix(r, "..") {
		return "", fmt.Errorf("%w: %s", ErrPathEscapes, rel)
	}
	return fullPath, nil
}

// Document builds the front matter document written for page. The page's
// template overrides any "layout" field of its data.
func Document(page pagegen.PageDescriptor) frontmatter.Document {
	fields := make(map[string]any, len(page.Data)+1)
	for k, v := range page.Data {
		fields[k] = v
	}
	fields[LayoutField] = page.Template
	return frontmatter.Document{Fields: fields}
}

func writeAtomic(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create page directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".page-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write page: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close page: %w", err)
	}
	// #nosec G302 -- generated pages are public site content.
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod page: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename page: %w", err)
	}
	return nil
}
