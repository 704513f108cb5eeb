package config

import "git.home.luguber.info/inful/pagegen/internal/pagegen"

// Default values applied to omitted settings.
const (
	DefaultSource      = "."
	DefaultDestination = "_site"
	DefaultDataDir     = "_data"
	DefaultLayoutsDir  = "_layouts"
	DefaultDebounce    = "500ms"
)

// DefaultApplier applies defaults for one configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

// SiteDefaultApplier fills in the site directories and output extension.
type SiteDefaultApplier struct{}

func (SiteDefaultApplier) Domain() string { return "site" }

func (SiteDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Source == "" {
		cfg.Source = DefaultSource
	}
	if cfg.Destination == "" {
		cfg.Destination = DefaultDestination
	}
	if cfg.DataDir == "" {
		cfg.DataDir = DefaultDataDir
	}
	if cfg.LayoutsDir == "" {
		cfg.LayoutsDir = DefaultLayoutsDir
	}
	if cfg.OutputExt == "" {
		cfg.OutputExt = pagegen.DefaultOutputExt
	}
	return nil
}

// WatchDefaultApplier fills in watch mode settings.
type WatchDefaultApplier struct{}

func (WatchDefaultApplier) Domain() string { return "watch" }

func (WatchDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Watch.Debounce == "" {
		cfg.Watch.Debounce = DefaultDebounce
	}
	return nil
}

func defaultAppliers() []DefaultApplier {
	return []DefaultApplier{SiteDefaultApplier{}, WatchDefaultApplier{}}
}

// applyDefaults runs every applier in order. Rule-level defaults (out_dir,
// child_template) are left to pagegen.Rule.Resolve so that a configuration
// written back to disk keeps the operator's omissions.
func applyDefaults(cfg *Config) error {
	for _, a := range defaultAppliers() {
		if err := a.ApplyDefaults(cfg); err != nil {
			return err
		}
	}
	return nil
}
