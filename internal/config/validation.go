package config

import (
	"errors"
	"fmt"
	"strings"
)

// ValidateConfig validates site-level settings. Problems with individual
// generation rules are not errors here: the generator skips such rules and
// reports them. RuleProblems lists them ahead of a pass.
func ValidateConfig(cfg *Config) error {
	return newConfigurationValidator(cfg).validate()
}

// RuleProblems returns one error per malformed rule, in rule order.
func RuleProblems(cfg *Config) []error {
	var problems []error
	for i, r := range cfg.PageGenerator {
		if _, err := r.Resolve(); err != nil {
			problems = append(problems, fmt.Errorf("page_generator[%d]: %w", i, err))
		}
	}
	return problems
}

type configurationValidator struct {
	config *Config
}

func newConfigurationValidator(config *Config) *configurationValidator {
	return &configurationValidator{config: config}
}

func (cv *configurationValidator) validate() error {
	if err := cv.validatePaths(); err != nil {
		return err
	}
	if err := cv.validateOutputExt(); err != nil {
		return err
	}
	return cv.validateWatch()
}

func (cv *configurationValidator) validatePaths() error {
	named := map[string]string{
		"destination": cv.config.Destination,
		"data_dir":    cv.config.DataDir,
		"layouts_dir": cv.config.LayoutsDir,
	}
	for _, key := range []string{"destination", "data_dir", "layouts_dir"} {
		if strings.TrimSpace(named[key]) == "" {
			return fmt.Errorf("%s cannot be empty", key)
		}
	}
	if cv.config.DestinationPath() == cv.config.SourcePath() {
		return errors.New("destination cannot be the site source directory")
	}
	return nil
}

func (cv *configurationValidator) validateOutputExt() error {
	ext := cv.config.OutputExt
	if strings.HasPrefix(ext, ".") {
		return fmt.Errorf("output_ext %q must not start with a dot", ext)
	}
	if strings.ContainsAny(ext, `/\`) {
		return fmt.Errorf("output_ext %q must not contain path separators", ext)
	}
	return nil
}

func (cv *configurationValidator) validateWatch() error {
	d, err := cv.config.Watch.DebounceDuration()
	if err != nil {
		return fmt.Errorf("watch.debounce: %w", err)
	}
	if d < 0 {
		return errors.New("watch.debounce cannot be negative")
	}
	every, err := cv.config.Watch.Interval()
	if err != nil {
		return fmt.Errorf("watch.every: %w", err)
	}
	if every < 0 {
		return errors.New("watch.every cannot be negative")
	}
	return nil
}
