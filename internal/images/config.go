package images

import (
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docimages/internal/foundation/errors"
	"git.home.luguber.info/inful/docimages/internal/version"
)

// ConfigSection is the top-level configuration key owned by the extension.
const ConfigSection = "images"

// Config is the images configuration section.
type Config struct {
	Backend                string            `yaml:"backend"`
	DefaultImageWidth      string            `yaml:"default_image_width"`
	DefaultImageHeight     string            `yaml:"default_image_height"`
	DefaultGroup           string            `yaml:"default_group"`
	DefaultShowTitle       bool              `yaml:"default_show_title"`
	Download               bool              `yaml:"download"`
	Requests               RequestsConfig    `yaml:"requests"`
	CachePath              string            `yaml:"cache_path"`
	OverrideImageDirective bool              `yaml:"override_image_directive"`
	ShowCaption            bool              `yaml:"show_caption"`
	BackendOptions         map[string]string `yaml:"backend_options"`
}

// RequestsConfig controls how remote images are fetched.
type RequestsConfig struct {
	Timeout   time.Duration     `yaml:"timeout"`
	Headers   map[string]string `yaml:"headers"`
	UserAgent string            `yaml:"user_agent"`
}

// DefaultConfig returns the configuration used for keys absent from the
// project file.
func DefaultConfig() Config {
	return Config{
		Backend:            "LightBox2",
		DefaultImageWidth:  "100%",
		DefaultImageHeight: "auto",
		Download:           true,
		Requests: RequestsConfig{
			Timeout:   30 * time.Second,
			Headers:   map[string]string{},
			UserAgent: version.UserAgent(),
		},
		CachePath:      "_images",
		BackendOptions: map[string]string{},
	}
}

// decodeConfig merges node over the defaults. A nil node yields the defaults.
func decodeConfig(node *yaml.Node) (Config, error) {
	cfg := DefaultConfig()
	if node != nil {
		if err := node.Decode(&cfg); err != nil {
			return Config{}, errors.WrapError(err, errors.CategoryConfig, "invalid images configuration").
				WithContext("section", ConfigSection).Build()
		}
	}
	if err := cfg.normalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	def := DefaultConfig()
	c.Backend = strings.TrimSpace(c.Backend)
	if c.Backend == "" {
		c.Backend = def.Backend
	}
	if c.DefaultImageWidth == "" {
		c.DefaultImageWidth = def.DefaultImageWidth
	}
	if c.DefaultImageHeight == "" {
		c.DefaultImageHeight = def.DefaultImageHeight
	}
	if c.Requests.Timeout <= 0 {
		c.Requests.Timeout = def.Requests.Timeout
	}
	if c.Requests.UserAgent == "" {
		c.Requests.UserAgent = def.Requests.UserAgent
	}
	if c.Requests.Headers == nil {
		c.Requests.Headers = map[string]string{}
	}
	if c.BackendOptions == nil {
		c.BackendOptions = map[string]string{}
	}

	c.CachePath = filepath.ToSlash(filepath.Clean(strings.TrimSpace(c.CachePath)))
	if c.CachePath == "." {
		c.CachePath = def.CachePath
	}
	if filepath.IsAbs(c.CachePath) || c.CachePath == ".." || strings.HasPrefix(c.CachePath, "../") {
		return errors.ConfigError("cache_path must be relative to the source directory").
			WithContext("cache_path", c.CachePath).Build()
	}
	return nil
}
