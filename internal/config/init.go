package config

import (
	"os"

	"git.home.luguber.info/inful/docimages/internal/foundation/errors"
)

const exampleConfig = `# docimages configuration
project:
  title: My Documentation

source_dir: docs
builder: html

output:
  directory: ./site
  clean: true

extensions:
  - images

logging:
  level: info
  format: text

metrics:
  textfile: ""

images:
  backend: LightBox2
  default_image_width: 100%
  default_image_height: auto
  default_group: ""
  default_show_title: false
  download: true
  cache_path: _images
  override_image_directive: false
  show_caption: false
  requests:
    timeout: 30s
    headers: {}
  backend_options:
    cdn_base: https://cdnjs.cloudflare.com/ajax/libs/lightbox2/2.11.4
`

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).Build()
	}
	if err := os.WriteFile(configPath, []byte(exampleConfig), 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write config file").
			WithContext("path", configPath).Build()
	}
	return nil
}
