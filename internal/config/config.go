// Package config loads the site configuration: paths of the site directories
// and the page_generator rule list.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/pagegen/internal/foundation/errors"
	"git.home.luguber.info/inful/pagegen/internal/pagegen"
)

// DefaultFileNames are the config files looked up in a site directory, in order.
var DefaultFileNames = []string{"_config.yml", "_config.yaml", "_config.toml"}

// Config represents the site configuration.
type Config struct {
	// Source is the site root. Relative values are resolved against the
	// directory holding the config file.
	Source      string `yaml:"source" toml:"source"`
	Destination string `yaml:"destination" toml:"destination"`
	DataDir     string `yaml:"data_dir" toml:"data_dir"`
	LayoutsDir  string `yaml:"layouts_dir" toml:"layouts_dir"`
	OutputExt   string `yaml:"output_ext" toml:"output_ext"`
	// Journal is the generation journal database. Empty disables journaling.
	Journal string      `yaml:"journal,omitempty" toml:"journal,omitempty"`
	Watch   WatchConfig `yaml:"watch,omitempty" toml:"watch,omitempty"`

	PageGenerator []pagegen.Rule `yaml:"page_generator" toml:"page_generator"`

	// path is the file the configuration was loaded from.
	path string
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	// Debounce is the quiet period after a file change before a pass starts.
	Debounce string `yaml:"debounce,omitempty" toml:"debounce,omitempty"`
	// Every schedules periodic passes. Empty disables them.
	Every string `yaml:"every,omitempty" toml:"every,omitempty"`
}

// DebounceDuration parses Debounce.
func (w WatchConfig) DebounceDuration() (time.Duration, error) {
	return time.ParseDuration(w.Debounce)
}

// Interval parses Every. An empty value yields zero.
func (w WatchConfig) Interval() (time.Duration, error) {
	if w.Every == "" {
		return 0, nil
	}
	return time.ParseDuration(w.Every)
}

// Path returns the file the configuration was loaded from.
func (c *Config) Path() string { return c.path }

// SourcePath returns the absolute-or-relative site root.
func (c *Config) SourcePath() string {
	return c.resolve(filepath.Dir(c.path), c.Source)
}

// DataPath returns the data directory.
func (c *Config) DataPath() string { return c.resolve(c.SourcePath(), c.DataDir) }

// LayoutsPath returns the layouts directory.
func (c *Config) LayoutsPath() string { return c.resolve(c.SourcePath(), c.LayoutsDir) }

// DestinationPath returns the output directory.
func (c *Config) DestinationPath() string { return c.resolve(c.SourcePath(), c.Destination) }

// JournalPath returns the journal database path, or "" when disabled.
func (c *Config) JournalPath() string {
	if c.Journal == "" {
		return ""
	}
	return c.resolve(c.SourcePath(), c.Journal)
}

func (c *Config) resolve(base, p string) string {
	if filepath.IsAbs(p) || base == "" {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}

// Find returns the first of DefaultFileNames present in dir.
func Find(dir string) (string, error) {
	for _, name := range DefaultFileNames {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", ferrors.ConfigError("configuration file not found").
		Fatal().
		WithContext("dir", dir).
		WithContext("candidates", strings.Join(DefaultFileNames, ", ")).
		Build()
}

// Load reads the configuration at configPath. An empty configPath looks up
// DefaultFileNames in the working directory. Environment files next to the
// configuration are loaded first and ${VAR} references are expanded before
// decoding. Defaults are applied and the result is validated.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		found, err := Find(".")
		if err != nil {
			return nil, err
		}
		configPath = found
	}

	if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
		return nil, ferrors.ConfigError("configuration file not found").
			Fatal().WithContext("path", configPath).Build()
	}

	if err := loadEnvFiles(filepath.Dir(configPath)); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "load environment file").
			Fatal().Build()
	}

	// #nosec G304 -- configPath is provided by the operator
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "read config file").
			Fatal().WithContext("path", configPath).Build()
	}

	cfg, err := decode(configPath, []byte(os.ExpandEnv(string(data))))
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "parse config file").
			Fatal().WithContext("path", configPath).Build()
	}
	cfg.path = configPath

	if err := applyDefaults(cfg); err != nil {
		return nil, err
	}
	if err := ValidateConfig(cfg); err != nil {
		return nil, ferrors.ValidationError("invalid configuration").WithCause(err).
			Fatal().WithContext("path", configPath).Build()
	}
	return cfg, nil
}

func decode(path string, data []byte) (*Config, error) {
	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return nil, err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
		}
	default:
		if len(bytes.TrimSpace(data)) == 0 {
			return &cfg, nil
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

// Init writes an example configuration to configPath. The format follows the
// file extension.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return ferrors.ConfigError("configuration file already exists (use --force to overwrite)").
			Fatal().WithContext("path", configPath).Build()
	}

	example := Example()
	var buf bytes.Buffer
	switch strings.ToLower(filepath.Ext(configPath)) {
	case ".toml":
		if err := toml.NewEncoder(&buf).Encode(example); err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
	default:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(example); err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
	}

	if dir := filepath.Dir(configPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(configPath, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Example returns the configuration written by Init.
func Example() *Config {
	cfg := &Config{
		PageGenerator: []pagegen.Rule{
			{
				DataFile:       "regions",
				ParentKey:      "Name",
				SubKey:         "cities.Name",
				OutDir:         "areas",
				ParentTemplate: "region",
				ChildTemplate:  "city",
			},
		},
	}
	_ = applyDefaults(cfg)
	return cfg
}
