package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/docimages/internal/foundation/errors"
)

var envFileNames = []string{".env", ".env.local"}

// loadEnvFiles loads KEY=VALUE files next to the configuration file.
// Existing process environment variables are never overwritten; missing files are skipped.
func loadEnvFiles(dir string) error {
	for _, name := range envFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return errors.WrapError(err, errors.CategoryConfig, "failed to load env file").
				WithContext("path", path).Build()
		}
	}
	return nil
}
