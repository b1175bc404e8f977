package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docimages/internal/foundation/errors"
)

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte("project:\n  title: Guide\n"))
	require.NoError(t, err)

	assert.Equal(t, "Guide", cfg.Project.Title)
	assert.Equal(t, "docs", cfg.SourceDir)
	assert.Equal(t, "./site", cfg.Output.Directory)
	assert.True(t, cfg.Output.Clean)
	assert.Equal(t, "html", cfg.Builder)
	assert.Equal(t, []string{"images"}, cfg.Extensions)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestParseOutputCleanDefault(t *testing.T) {
	cfg, err := Parse([]byte("output:\n  directory: build/html\n"))
	require.NoError(t, err)
	assert.True(t, cfg.Output.Clean)

	cfg, err = Parse([]byte("output:\n  directory: build/html\n  clean: false\n"))
	require.NoError(t, err)
	assert.False(t, cfg.Output.Clean)

	cfg, err = Parse([]byte("output:\n  clean: false\n"))
	require.NoError(t, err)
	assert.Equal(t, "./site", cfg.Output.Directory)
	assert.False(t, cfg.Output.Clean)

	assert.True(t, Default().Output.Clean)
}

func TestParseKeepsExtensionSections(t *testing.T) {
	cfg, err := Parse([]byte(`
builder: TEXT
images:
  backend: LightBox2
  download: false
`))
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.Builder)

	node, ok := cfg.Section("images")
	require.True(t, ok)

	var section struct {
		Backend  string `yaml:"backend"`
		Download bool   `yaml:"download"`
	}
	require.NoError(t, node.Decode(&section))
	assert.Equal(t, "LightBox2", section.Backend)
	assert.False(t, section.Download)

	_, ok = cfg.Section("missing")
	assert.False(t, ok)
}

func TestParseExpandsEnvironment(t *testing.T) {
	t.Setenv("DOCIMAGES_TEST_TITLE", "From Env")
	cfg, err := Parse([]byte("project:\n  title: ${DOCIMAGES_TEST_TITLE}\n"))
	require.NoError(t, err)
	assert.Equal(t, "From Env", cfg.Project.Title)
}

func TestParseRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown builder", "builder: latex\n"},
		{"duplicate extension", "extensions: [images, images]\n"},
		{"empty extension", "extensions: ['']\n"},
		{"broken yaml", "project: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.True(t, errors.IsClassified(err))
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestLoadReadsEnvFileWithoutOverriding(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DOCIMAGES_ENV_SRC=content\nDOCIMAGES_ENV_KEEP=file\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte("source_dir: ${DOCIMAGES_ENV_SRC}\nproject:\n  title: ${DOCIMAGES_ENV_KEEP}\n"), 0o600))
	t.Setenv("DOCIMAGES_ENV_KEEP", "process")
	t.Cleanup(func() { _ = os.Unsetenv("DOCIMAGES_ENV_SRC") })

	cfg, err := Load(filepath.Join(dir, DefaultConfigFile))
	require.NoError(t, err)
	assert.Equal(t, "content", cfg.SourceDir)
	assert.Equal(t, "process", cfg.Project.Title)
	assert.Equal(t, filepath.Join(dir, DefaultConfigFile), cfg.Path())
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFile)
	require.NoError(t, Init(path, false))

	cfg, err := Load(path)
	require.NoError(t, err)
	_, ok := cfg.Section("images")
	assert.True(t, ok)

	err = Init(path, false)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
	require.NoError(t, Init(path, true))
}

func TestLoggingConfig(t *testing.T) {
	assert.Equal(t, LogLevelWarn, NormalizeLogLevel(" WARN "))
	assert.Equal(t, LogLevelInfo, NormalizeLogLevel("loud"))
	assert.Equal(t, LogFormatJSON, NormalizeLogFormat("Json"))

	l := LoggingConfig{Level: "error"}
	assert.Equal(t, "ERROR", l.SlogLevel(false).String())
	assert.Equal(t, "DEBUG", l.SlogLevel(true).String())
}
