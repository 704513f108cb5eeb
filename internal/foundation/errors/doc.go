// Package errors provides the classified error type used across pagegen.
//
// Errors carry a category (config, data, template, output, ...) and a severity
// so that callers can decide whether a failure skips one rule or aborts a whole
// generation pass, and so the CLI can map failures to stable exit codes.
//
// Example usage:
//
//	err := errors.NewError(errors.CategoryConfig, "templates not found").
//		WithContext("parent_template", rule.ParentTemplate).
//		WithContext("child_template", rule.ChildTemplate).
//		Warning().
//		Build()
package errors
