package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/pagegen/internal/foundation/errors"
	"git.home.luguber.info/inful/pagegen/internal/pagegen"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestLoad_YAML(t *testing.T) {
	dir := t.TempDir()
	p := writeConfig(t, dir, "_config.yml", `
destination: public
output_ext: md
page_generator:
  - data_file: regions
    parent_key: Name
    sub_key: cities.Name
    out_dir: areas
    parent_template: region
    child_template: city
  - data_file: teams
    parent_key: team
    sub_key: members.login
    parent_template: team
`)
	cfg, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, p, cfg.Path())
	assert.Equal(t, "md", cfg.OutputExt)
	assert.Equal(t, filepath.Join(dir, "public"), cfg.DestinationPath())
	assert.Equal(t, filepath.Join(dir, "_data"), cfg.DataPath())
	assert.Equal(t, filepath.Join(dir, "_layouts"), cfg.LayoutsPath())
	assert.Empty(t, cfg.JournalPath())
	require.Len(t, cfg.PageGenerator, 2)
	assert.Equal(t, pagegen.Rule{
		DataFile: "regions", ParentKey: "Name", SubKey: "cities.Name",
		OutDir: "areas", ParentTemplate: "region", ChildTemplate: "city",
	}, cfg.PageGenerator[0])
	assert.Empty(t, cfg.PageGenerator[1].OutDir, "rule defaults are applied by the generator")

	debounce, err := cfg.Watch.DebounceDuration()
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, debounce)
}

func TestLoad_TOML(t *testing.T) {
	dir := t.TempDir()
	p := writeConfig(t, dir, "_config.toml", `
source = "site"
journal = ".pagegen/journal.db"

[watch]
every = "10m"

[[page_generator]]
data_file = "regions"
parent_key = "Name"
sub_key = "cities.Name"
parent_template = "region"
`)
	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "site"), cfg.SourcePath())
	assert.Equal(t, filepath.Join(dir, "site", "_site"), cfg.DestinationPath())
	assert.Equal(t, filepath.Join(dir, "site", ".pagegen", "journal.db"), cfg.JournalPath())
	require.Len(t, cfg.PageGenerator, 1)
	assert.Equal(t, "regions", cfg.PageGenerator[0].DataFile)

	every, err := cfg.Watch.Interval()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, every)
}

func TestLoad_TOMLUnknownKeys(t *testing.T) {
	p := writeConfig(t, t.TempDir(), "_config.toml", "destinaton = \"typo\"\n")
	_, err := Load(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "destinaton")
}

func TestLoad_EnvExpansion(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PAGEGEN_TEST_DEST", "from-process")
	writeConfig(t, dir, ".env", "PAGEGEN_TEST_DEST=from-dotenv\nPAGEGEN_TEST_EXT=htm\n")
	writeConfig(t, dir, ".env.local", "PAGEGEN_TEST_EXT=xml\n")
	t.Cleanup(func() { _ = os.Unsetenv("PAGEGEN_TEST_EXT") })

	p := writeConfig(t, dir, "_config.yaml", "destination: ${PAGEGEN_TEST_DEST}\noutput_ext: ${PAGEGEN_TEST_EXT}\n")
	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "from-process", cfg.Destination)
	assert.Equal(t, "xml", cfg.OutputExt)
}

func TestLoad_EmptyFileUsesDefaults(t *testing.T) {
	p := writeConfig(t, t.TempDir(), "_config.yml", "")
	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, DefaultDestination, cfg.Destination)
	assert.Equal(t, pagegen.DefaultOutputExt, cfg.OutputExt)
	assert.Empty(t, cfg.PageGenerator)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yml"))
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))

	bad := writeConfig(t, dir, "bad.yml", "page_generator: [unclosed\n")
	_, err = Load(bad)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))

	invalid := writeConfig(t, dir, "invalid.yml", "output_ext: .html\n")
	_, err = Load(invalid)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	_, err := Find(dir)
	require.Error(t, err)

	writeConfig(t, dir, "_config.toml", "")
	writeConfig(t, dir, "_config.yaml", "")
	p, err := Find(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "_config.yaml"), p)
}

func TestInit(t *testing.T) {
	for _, name := range []string{"_config.yml", "_config.toml"} {
		t.Run(name, func(t *testing.T) {
			p := filepath.Join(t.TempDir(), name)
			require.NoError(t, Init(p, false))

			cfg, err := Load(p)
			require.NoError(t, err)
			require.Len(t, cfg.PageGenerator, 1)
			assert.Equal(t, Example().PageGenerator, cfg.PageGenerator)

			err = Init(p, false)
			require.Error(t, err)
			require.NoError(t, Init(p, true))
		})
	}
}
