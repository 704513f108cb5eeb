package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"testing"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil error", err: nil, expected: 0},
		{name: "validation", err: ValidationError("bad flag").Build(), expected: 2},
		{name: "config", err: ConfigError("templates missing").Build(), expected: 7},
		{name: "data", err: DataError("data dir unreadable").Build(), expected: 8},
		{name: "output", err: OutputError("write failed").Build(), expected: 11},
		{name: "wrapped classified", err: fmt.Errorf("pass: %w", OutputError("write failed").Build()), expected: 11},
		{name: "unclassified", err: errors.New("boom"), expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := adapter.ExitCodeFor(tt.err); got != tt.expected {
				t.Errorf("ExitCodeFor() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	cause := errors.New("permission denied")
	err := WrapError(cause, CategoryOutput, "write page").Fatal().Build()

	quiet := NewCLIErrorAdapter(false, nil)
	if got := quiet.FormatError(err); got != "Error: write page: permission denied" {
		t.Errorf("unexpected non-verbose format: %q", got)
	}

	verbose := NewCLIErrorAdapter(true, nil)
	if got := verbose.FormatError(err); got != "[output:fatal] write page: permission denied" {
		t.Errorf("unexpected verbose format: %q", got)
	}

	if got := quiet.FormatError(errors.New("plain")); got != "Error: plain" {
		t.Errorf("unexpected unclassified format: %q", got)
	}
}

func TestCLIErrorAdapter_FormatErrorNamesLocation(t *testing.T) {
	quiet := NewCLIErrorAdapter(false, nil)

	err := OutputError("emit page").
		WithCause(errors.New("read-only file system")).
		WithContext("path", "areas/north-america/index.html").
		Build()
	want := "Error: emit page: read-only file system (path: areas/north-america/index.html)"
	if got := quiet.FormatError(err); got != want {
		t.Errorf("FormatError() = %q, want %q", got, want)
	}

	dirErr := DataError("load data directory").WithContext("dir", "_data").WithContext("rule", 3).Build()
	if got := quiet.FormatError(dirErr); got != "Error: load data directory (dir: _data)" {
		t.Errorf("unexpected format: %q", got)
	}
}
