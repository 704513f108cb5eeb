package datasource

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for files whose extension has no decoder.
var ErrUnsupportedFormat = errors.New("unsupported data file format")

type decodeFunc func([]byte) (any, error)

var decoders = map[string]decodeFunc{
	".yml":  decodeYAML,
	".yaml": decodeYAML,
	".json": decodeJSON,
	".toml": decodeTOML,
	".csv":  delimitedDecoder(','),
	".tsv":  delimitedDecoder('\t'),
}

// Supported reports whether name has an extension the loader can decode.
func Supported(name string) bool {
	_, ok := decoders[strings.ToLower(filepath.Ext(name))]
	return ok
}

// Decode decodes content according to the extension of name.
func Decode(name string, content []byte) (any, error) {
	dec, ok := decoders[strings.ToLower(filepath.Ext(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
	v, err := dec(content)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return v, nil
}

func decodeYAML(content []byte) (any, error) {
	var v any
	if err := yaml.Unmarshal(content, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// decodeJSON keeps numbers as json.Number so large integers survive intact.
func decodeJSON(content []byte) (any, error) {
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(content))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("unexpected data after top-level value")
	}
	return v, nil
}

// decodeTOML decodes a TOML document into a table. Arrays of tables decode to
// []map[string]any.
func decodeTOML(content []byte) (any, error) {
	v := map[string]any{}
	if _, err := toml.Decode(string(content), &v); err != nil {
		return nil, err
	}
	return v, nil
}

func delimitedDecoder(comma rune) decodeFunc {
	return func(content []byte) (any, error) {
		r := csv.NewReader(bytes.NewReader(content))
		r.Comma = comma
		r.FieldsPerRecord = -1
		if comma == '\t' {
			r.LazyQuotes = true
		}

		header, err := r.Read()
		if errors.Is(err, io.EOF) {
			return []any{}, nil
		}
		if err != nil {
			return nil, err
		}

		rows := []any{}
		for {
			fields, err := r.Read()
			if errors.Is(err, io.EOF) {
				return rows, nil
			}
			if err != nil {
				return nil, err
			}
			row := make(map[string]any, len(header))
			for i, col := range header {
				if i < len(fields) {
					row[col] = fields[i]
				} else {
					row[col] = nil
				}
			}
			rows = append(rows, row)
		}
	}
}
