// Package frontmatter reads and writes generated page documents: a YAML front
// matter block between "---" lines, followed by an optional body.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// ErrUnterminated is returned by Parse when a document opens a front matter
// block but never closes it.
var ErrUnterminated = errors.New("front matter block is not terminated")

// Document is a page split into its front matter fields and body.
type Document struct {
	Fields map[string]any
	Body   []byte
}

// Parse splits content into front matter fields and body. Content that does
// not start with a delimiter line is returned as body with no fields.
// Both LF and CRLF line endings are accepted.
func Parse(content []byte) (Document, error) {
	nl := newline(content)
	open := []byte(delimiter + nl)
	if !bytes.HasPrefix(content, open) {
		return Document{Body: content}, nil
	}

	rest := content[len(open):]
	var raw, body []byte
	switch {
	case bytes.HasPrefix(rest, open):
		body = rest[len(open):]
	default:
		closing := []byte(nl + delimiter + nl)
		idx := bytes.Index(rest, closing)
		if idx < 0 {
			if !bytes.HasSuffix(rest, []byte(nl+delimiter)) {
				return Document{}, ErrUnterminated
			}
			idx = len(rest) - len(nl+delimiter)
			closing = rest[idx:]
		}
		raw = rest[:idx+len(nl)]
		body = rest[idx+len(closing):]
	}

	fields := map[string]any{}
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := yaml.Unmarshal(raw, &fields); err != nil {
			return Document{}, fmt.Errorf("parse front matter: %w", err)
		}
		if fields == nil {
			fields = map[string]any{}
		}
	}
	return Document{Fields: fields, Body: body}, nil
}

// Render writes the document with LF line endings. The front matter block is
// always present, even when there are no fields, so the result is recognized
// as a page by static site generators.
func Render(doc Document) ([]byte, error) {
	fm, err := Marshal(doc.Fields)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.Grow(len(fm) + len(doc.Body) + 2*len(delimiter) + 2)
	buf.WriteString(delimiter + "\n")
	buf.Write(fm)
	buf.WriteString(delimiter + "\n")
	buf.Write(doc.Body)
	return buf.Bytes(), nil
}

func newline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
