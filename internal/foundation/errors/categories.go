package errors

import "maps"

// ErrorCategory classifies an error by the subsystem that produced it.
type ErrorCategory string

const (
	// CategoryConfig covers malformed rules and unresolved templates.
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// CategoryData covers failures of the record tree provider.
	CategoryData     ErrorCategory = "data"
	CategoryTemplate ErrorCategory = "template"

	// CategoryOutput covers page sink and journal failures.
	CategoryOutput  ErrorCategory = "output"
	CategoryJournal ErrorCategory = "journal"

	// CategoryInternal marks errors that carry no classification.
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates the impact of an error on the current pass.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Aborts the generation pass
	SeverityError   ErrorSeverity = "error"   // Fails the current operation
	SeverityWarning ErrorSeverity = "warning" // Skips one rule or record, pass continues
)

// ErrorContext holds structured key/value detail attached to an error.
type ErrorContext map[string]any

// Set adds or updates a context value.
func (c ErrorContext) Set(key string, value any) ErrorContext {
	if c == nil {
		c = make(ErrorContext)
	}
	c[key] = value
	return c
}

// Get retrieves a context value.
func (c ErrorContext) Get(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	value, exists := c[key]
	return value, exists
}

// GetString retrieves a string context value.
func (c ErrorContext) GetString(key string) (string, bool) {
	if value, exists := c.Get(key); exists {
		if str, ok := value.(string); ok {
			return str, true
		}
	}
	return "", false
}

// Merge combines two contexts, with other taking precedence.
func (c ErrorContext) Merge(other ErrorContext) ErrorContext {
	if c == nil {
		return other
	}
	if other == nil {
		return c
	}
	result := make(ErrorContext, len(c)+len(other))
	maps.Copy(result, c)
	maps.Copy(result, other)
	return result
}
