package host

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"git.home.luguber.info/inful/docimages/internal/config"
	"git.home.luguber.info/inful/docimages/internal/foundation/errors"
	"git.home.luguber.info/inful/docimages/internal/logfields"
)

// Builder writes documents for one output format.
type Builder interface {
	// Name returns the builder name (html, text).
	Name() string
	// Format returns the output format node handlers are selected by.
	Format() Format
	// OutDir returns the absolute output directory.
	OutDir() string
	// ImagePath returns the images directory relative to docname's output file.
	ImagePath(docname string) string
	// Images maps registered image URIs to their output file names.
	Images() map[string]string
	// PrepareWriting is called once after env-updated, before any document is written.
	PrepareWriting(ctx context.Context, env *Env) error
	// WriteDoc renders and writes one document.
	WriteDoc(ctx context.Context, doc *Document) error
	// Finish copies images and completes the output.
	Finish(ctx context.Context) error
}

// newBuilder creates the builder configured for app.
func newBuilder(name config.BuilderName, app *App) (Builder, error) {
	base := baseBuilder{app: app, outDir: app.outDir, images: map[string]string{}}
	switch name {
	case config.BuilderHTML:
		return &htmlBuilder{baseBuilder: base}, nil
	case config.BuilderText:
		return &textBuilder{baseBuilder: base}, nil
	default:
		return nil, errors.ConfigError("unknown builder").WithContext("builder", string(name)).Build()
	}
}

type baseBuilder struct {
	app    *App
	outDir string
	images map[string]string
	copy   []*ImageFile
}

func (b *baseBuilder) OutDir() string {
	return b.outDir
}

func (b *baseBuilder) ImagePath(docname string) string {
	return RelativeRoot(docname) + ImagesDir
}

func (b *baseBuilder) Images() map[string]string {
	return b.images
}

// PrepareWriting selects the registered images whose source exists.
func (b *baseBuilder) PrepareWriting(_ context.Context, env *Env) error {
	for _, f := range env.Images.Files() {
		info, err := os.Stat(f.Source)
		if err != nil || info.IsDir() {
			b.app.logger.Warn("Image file not readable",
				logfields.URI(f.URI), logfields.Path(f.Source))
			continue
		}
		b.images[f.URI] = f.OutName
		b.copy = append(b.copy, f)
	}
	return nil
}

// copyImages copies every selected image into the output images directory.
func (b *baseBuilder) copyImages(ctx context.Context) error {
	if len(b.copy) == 0 {
		return nil
	}
	dest := filepath.Join(b.outDir, ImagesDir)
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to create images directory").
			WithContext("path", dest).Build()
	}
	for _, f := range b.copy {
		if err := ctx.Err(); err != nil {
			return err
		}
		target := filepath.Join(dest, f.OutName)
		if err := CopyFile(f.Source, target); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to copy image").
				WithContext("source", f.Source).WithContext("dest", target).Build()
		}
		b.app.logger.Debug("Copied image", logfields.URI(f.URI), logfields.Dest(target))
	}
	b.app.logger.Info("Copied images", logfields.Count(len(b.copy)), slog.String("dir", dest))
	return nil
}

func (b *baseBuilder) writeOutput(docname, ext string, data []byte) error {
	target := filepath.Join(b.outDir, filepath.FromSlash(docname)+ext)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to create output directory").
			WithContext("path", filepath.Dir(target)).Build()
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write document").
			WithContext("path", target).Build()
	}
	b.app.logger.Debug("Wrote document", logfields.Document(docname), logfields.Path(target))
	return nil
}

// imageURI returns the output reference for uri as seen from docname.
func (b *baseBuilder) imageURI(docname, uri string) string {
	if name, ok := b.images[uri]; ok {
		return path.Join(b.ImagePath(docname), name)
	}
	return uri
}

// CopyFile copies src to dst, creating dst's parent directory and preserving the file mode.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = in.Close()
	}()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("copy %s: %w", src, err)
	}
	return out.Close()
}
