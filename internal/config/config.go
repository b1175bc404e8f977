package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docimages/internal/foundation/errors"
)

// DefaultConfigFile is the configuration file name used when none is given.
const DefaultConfigFile = "docimages.yaml"

// Config represents the project configuration consumed by the build host.
type Config struct {
	Project    ProjectConfig `yaml:"project"`
	SourceDir  string        `yaml:"source_dir"`
	Output     OutputConfig  `yaml:"output"`
	Builder    string        `yaml:"builder"`
	Extensions []string      `yaml:"extensions"`
	Logging    LoggingConfig `yaml:"logging"`
	Metrics    MetricsConfig `yaml:"metrics"`

	// Sections keeps every top-level YAML section as an undecoded node so
	// extensions can decode the values they declared.
	Sections map[string]yaml.Node `yaml:"-"`

	path string
}

// ProjectConfig holds page-level metadata.
type ProjectConfig struct {
	Title string `yaml:"title"`
}

// OutputConfig represents output configuration.
type OutputConfig struct {
	Directory string `yaml:"directory"`
	Clean     bool   `yaml:"clean"` // Clean output directory before build
}

// MetricsConfig controls metrics export.
type MetricsConfig struct {
	// Textfile, when set, receives the Prometheus registry after each build.
	Textfile string `yaml:"textfile,omitempty"`
}

// Path returns the file the configuration was loaded from.
func (c *Config) Path() string {
	return c.path
}

// Section returns the raw YAML node for a top-level section.
func (c *Config) Section(name string) (*yaml.Node, bool) {
	if c == nil || c.Sections == nil {
		return nil, false
	}
	node, ok := c.Sections[name]
	if !ok {
		return nil, false
	}
	return &node, true
}

// Load loads configuration from the specified file.
func Load(configPath string) (*Config, error) {
	if err := loadEnvFiles(filepath.Dir(configPath)); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigError("configuration file not found").
				WithContext("path", configPath).Build()
		}
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read config file").
			WithContext("path", configPath).Build()
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	cfg.path = configPath
	return cfg, nil
}

// Parse decodes configuration YAML, expanding environment variables first,
// then applies defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	expanded := []byte(os.ExpandEnv(string(data)))

	// clean defaults to true; only an explicit output.clean overrides it
	cfg := Config{Output: OutputConfig{Clean: true}}
	if err := yaml.Unmarshal(expanded, &cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to unmarshal config").Fatal().Build()
	}
	if err := yaml.Unmarshal(expanded, &cfg.Sections); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to unmarshal config sections").Fatal().Build()
	}

	applyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns an in-memory configuration with all defaults applied.
func Default() *Config {
	cfg := &Config{Output: OutputConfig{Clean: true}}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Project.Title == "" {
		cfg.Project.Title = "Documentation"
	}
	if cfg.SourceDir == "" {
		cfg.SourceDir = "docs"
	}
	if cfg.Output.Directory == "" {
		cfg.Output.Directory = "./site"
	}
	if cfg.Builder == "" {
		cfg.Builder = string(BuilderHTML)
	}
	if cfg.Extensions == nil {
		cfg.Extensions = []string{"images"}
	}
	cfg.Logging.Level = string(NormalizeLogLevel(cfg.Logging.Level))
	cfg.Logging.Format = string(NormalizeLogFormat(cfg.Logging.Format))
	if cfg.Sections == nil {
		cfg.Sections = map[string]yaml.Node{}
	}
}

// Validate checks invariants that defaults cannot repair.
func Validate(cfg *Config) error {
	builder, err := builderNormalizer.NormalizeWithError(cfg.Builder)
	if err != nil {
		return errors.ValidationError("unsupported builder").
			WithCause(err).
			WithContext("builder", cfg.Builder).Build()
	}
	cfg.Builder = string(builder)

	seen := make(map[string]struct{}, len(cfg.Extensions))
	for _, name := range cfg.Extensions {
		if name == "" {
			return errors.ValidationError("extension name must not be empty").Build()
		}
		if _, dup := seen[name]; dup {
			return errors.ValidationError(fmt.Sprintf("extension %q listed twice", name)).Build()
		}
		seen[name] = struct{}{}
	}
	return nil
}
