package host

import (
	"path"
	"path/filepath"
	"strings"
)

// Env is the build environment shared between the host and extensions while
// documents are read.
type Env struct {
	// SrcDir is the absolute source directory.
	SrcDir string
	// DocName is the document currently being read (slash separated, no extension).
	DocName string
	// Images records every image referenced by a document.
	Images *ImageRegistry

	values map[string]any
}

// NewEnv creates an environment rooted at srcDir.
func NewEnv(srcDir string) *Env {
	return &Env{
		SrcDir: srcDir,
		Images: NewImageRegistry(srcDir),
		values: make(map[string]any),
	}
}

// Set stores extension state under key.
func (e *Env) Set(key string, value any) {
	e.values[key] = value
}

// Get returns extension state stored under key.
func (e *Env) Get(key string) (any, bool) {
	v, ok := e.values[key]
	return v, ok
}

// DocDir returns the absolute source directory of the current document.
func (e *Env) DocDir() string {
	return DocDir(e.SrcDir, e.DocName)
}

// DocDir returns the absolute source directory of docname below srcDir.
func DocDir(srcDir, docname string) string {
	return filepath.Join(srcDir, filepath.FromSlash(path.Dir(docname)))
}

// RelativeRoot returns the relative path from docname's output location to the
// output root, either "" or a sequence of "../".
func RelativeRoot(docname string) string {
	return strings.Repeat("../", strings.Count(docname, "/"))
}
