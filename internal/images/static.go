package images

import (
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"go.uber.org/multierr"

	"git.home.luguber.info/inful/docimages/internal/foundation/errors"
	"git.home.luguber.info/inful/docimages/internal/host"
	"git.home.luguber.info/inful/docimages/internal/logfields"
)

// StaticSubdir is the directory below the output _static directory that
// backend static files are installed into.
const StaticSubdir = "docimages"

// InstallBackendStaticFiles registers the backend's external assets and then
// copies its static files to <out>/_static/docimages/<backend>/, registering
// scripts and stylesheets with the app. Copy failures are collected and
// returned together.
func InstallBackendStaticFiles(app *host.App, backend Backend) error {
	if p, ok := backend.(ExternalAssetProvider); ok {
		for _, asset := range p.ExternalAssets() {
			registerAsset(app, asset, "external")
		}
	}

	p, ok := backend.(StaticFileProvider)
	if !ok {
		return nil
	}
	fsys, files := p.StaticFiles()
	staticRoot := filepath.Join(app.OutDir(), host.StaticDir)
	destDir := filepath.Join(staticRoot, StaticSubdir, backend.Name())
	app.Logger().Info("Copying backend static files", logfields.Backend(backend.Name()),
		logfields.Count(len(files)), logfields.Dest(destDir))

	var errs error
	for _, name := range files {
		dest := filepath.Join(destDir, filepath.FromSlash(name))
		if err := copyFromFS(fsys, name, dest); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("copy %s: %w", name, err))
			continue
		}
		registerAsset(app, path.Join(StaticSubdir, backend.Name(), name), "")
	}
	if errs != nil {
		return errors.WrapError(errs, errors.CategoryFileSystem, "failed to install backend static files").
			WithContext("backend", backend.Name()).
			WithContext("failed", len(multierr.Errors(errs))).Build()
	}
	return nil
}

// registerAsset adds ref as script or stylesheet by extension. kind labels
// the metric; empty means the extension itself.
func registerAsset(app *host.App, ref, kind string) {
	p := ref
	if u, err := url.Parse(ref); err == nil {
		p = u.Path
	}
	ext := path.Ext(p)
	switch ext {
	case ".js":
		app.AddJSFile(ref)
	case ".css":
		app.AddCSSFile(ref)
	}
	if kind == "" {
		kind = "other"
		if ext != "" {
			kind = ext[1:]
		}
	}
	app.Recorder().IncStaticAsset(kind)
}

func copyFromFS(fsys fs.FS, name, dest string) error {
	in, err := fsys.Open(name)
	if err != nil {
		return err
	}
	defer func() {
		_ = in.Close()
	}()
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
