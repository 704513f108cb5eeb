package pagegen

import "context"

// Reserved data fields written by the generator. Values found under these keys
// in source records are always overwritten.
const (
	FieldParentSlug = "parentSlug"
	FieldChildSlug  = "childSlug"
	FieldTitle      = "title"
)

// DefaultOutputExt is the extension of generated page files.
const DefaultOutputExt = "html"

// Record is an open mapping of field name to value, as decoded from a data file.
type Record = map[string]any

// Level identifies the hierarchy level of a generated page.
type Level string

const (
	LevelParent Level = "parent"
	LevelChild  Level = "child"
)

// PageDescriptor describes one output page. It is created once per record and
// handed to the sink; the generator keeps no reference to it afterwards and
// sinks must treat it as read-only.
type PageDescriptor struct {
	// Dir is the page directory, "<out_dir>/<slug>" or "<out_dir>/<slug>/<slug>".
	Dir string
	// Path is Dir + "/index." + ext.
	Path string
	// Template is the name of the template that renders the page.
	Template string
	// Title is the raw display name, formatted as text.
	Title string
	Level Level
	// Rule is the index of the rule that produced the page.
	Rule int
	// Data is the record merged with the generated title and slug fields.
	Data Record
}

// URL returns the page link derived from the descriptor's slug fields.
func (p PageDescriptor) URL() string { return PageURL(p.Data) }

// RecordSource looks up a data collection by its data_file key. A key with no
// data returns (nil, nil); an error means the source itself failed.
type RecordSource interface {
	Lookup(key string) (any, error)
}

// TemplateResolver reports whether a template with the given name exists.
type TemplateResolver interface {
	Has(name string) bool
}

// PageSink receives descriptors one at a time, in traversal order.
type PageSink interface {
	Emit(ctx context.Context, page PageDescriptor) error
}

// MapSource is a RecordSource over an in-memory map.
type MapSource map[string]any

// Lookup implements RecordSource.
func (m MapSource) Lookup(key string) (any, error) {
	return m[key], nil
}
