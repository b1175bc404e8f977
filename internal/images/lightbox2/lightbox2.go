// Package lightbox2 renders thumbnails as LightBox2 galleries.
package lightbox2

import (
	"embed"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/docimages/internal/foundation/errors"
	"git.home.luguber.info/inful/docimages/internal/host"
	"git.home.luguber.info/inful/docimages/internal/images"
)

const (
	// Name selects this backend through images.backend.
	Name = "LightBox2"
	// DefaultCDNBase serves the LightBox2 distribution unless
	// images.backend_options.cdn_base overrides it.
	DefaultCDNBase = "https://cdnjs.cloudflare.com/ajax/libs/lightbox2/2.11.4"
)

//go:embed static
var staticFS embed.FS

var staticFiles = []string{
	"lightbox2-customize/jquery-noconflict.js",
	"lightbox2-customize/pointer.css",
}

// distPrefix is where files from backend_options.dist_dir are installed.
const distPrefix = "lightbox2/dist/"

var distFiles = []string{
	"images/close.png",
	"images/next.png",
	"images/prev.png",
	"images/loading.gif",
	"js/lightbox-plus-jquery.min.js",
	"js/lightbox-plus-jquery.min.map",
	"css/lightbox.min.css",
}

// bundleFS routes dist files to a local LightBox2 distribution and
// everything else to the embedded customizations.
type bundleFS struct {
	dist     fs.FS
	embedded fs.FS
}

func (b bundleFS) Open(name string) (fs.File, error) {
	if rest, ok := strings.CutPrefix(name, distPrefix); ok {
		return b.dist.Open(rest)
	}
	return b.embedded.Open(name)
}

func init() {
	images.RegisterBackend(images.BackendInfo{
		Name:    Name,
		Package: "git.home.luguber.info/inful/docimages/internal/images/lightbox2",
		Factory: New,
	})
}

// Backend is the LightBox2 images backend.
type Backend struct {
	images.BaseBackend
	cdnBase string
	distDir string
}

// New creates the backend from the images configuration.
func New(app *host.App, cfg images.Config) (images.Backend, error) {
	base := DefaultCDNBase
	if v := strings.TrimSpace(cfg.BackendOptions["cdn_base"]); v != "" {
		u, err := url.Parse(v)
		if err != nil || (u.Scheme == "" && !strings.HasPrefix(v, "//")) {
			return nil, errors.ConfigError("backend_options.cdn_base must be an absolute URL").
				WithContext("cdn_base", v).Build()
		}
		base = strings.TrimSuffix(v, "/")
	}
	distDir, err := resolveDistDir(app, cfg.BackendOptions["dist_dir"])
	if err != nil {
		return nil, err
	}
	return &Backend{BaseBackend: images.BaseBackend{App: app}, cdnBase: base, distDir: distDir}, nil
}

// resolveDistDir returns the absolute dist_dir, relative paths being taken
// from the source directory. Empty means the CDN serves the distribution.
func resolveDistDir(app *host.App, v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", nil
	}
	dir := filepath.FromSlash(v)
	if !filepath.IsAbs(dir) && app != nil {
		dir = filepath.Join(app.SrcDir(), dir)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", errors.ConfigError("backend_options.dist_dir must be a LightBox2 dist directory").
			WithContext("dist_dir", v).Build()
	}
	return dir, nil
}

func (b *Backend) Name() string {
	return Name
}

// StaticFiles implements images.StaticFileProvider. With a dist_dir the
// LightBox2 distribution is installed ahead of the customizations.
func (b *Backend) StaticFiles() (fs.FS, []string) {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	if b.distDir == "" {
		return sub, staticFiles
	}
	files := make([]string, 0, len(distFiles)+len(staticFiles))
	for _, name := range distFiles {
		files = append(files, distPrefix+name)
	}
	files = append(files, staticFiles...)
	return bundleFS{dist: os.DirFS(b.distDir), embedded: sub}, files
}

// ExternalAssets implements images.ExternalAssetProvider.
func (b *Backend) ExternalAssets() []string {
	if b.distDir != "" {
		return nil
	}
	return []string{
		b.cdnBase + "/js/lightbox-plus-jquery.min.js",
		b.cdnBase + "/css/lightbox.min.css",
	}
}

// imageURI rewrites images copied by the builder to their output location.
func imageURI(w host.Writer, n *images.ImageNode) string {
	builder := w.Builder()
	if name, ok := builder.Images()[n.URI]; ok {
		return builder.ImagePath(w.DocName()) + "/" + name
	}
	return n.URI
}

func writeAttr(sb *strings.Builder, name, value string) {
	sb.WriteString(name)
	sb.WriteString(`="`)
	sb.WriteString(html.EscapeString(value))
	sb.WriteString(`" `)
}

// VisitImageHTML implements images.HTMLRenderer.
func (b *Backend) VisitImageHTML(w host.Writer, n *images.ImageNode) error {
	uri := imageURI(w, n)
	var sb strings.Builder

	if n.ShowCaption {
		sb.WriteString(`<figure class="` + html.EscapeString(strings.Join(n.Classes, " ")) + `">`)
		sb.WriteString("<a ")
		if len(n.LegacyClasses) > 0 {
			writeAttr(&sb, "class", strings.Join(n.LegacyClasses, " "))
		}
	} else {
		sb.WriteString("<a ")
		writeAttr(&sb, "class", strings.Join(n.Classes, " "))
	}

	lightbox := uri
	if n.Group != "" {
		lightbox = "group-" + n.Group
	}
	linkTitle := n.Title + n.Content
	writeAttr(&sb, "data-lightbox", lightbox)
	writeAttr(&sb, "href", uri)
	writeAttr(&sb, "title", linkTitle)
	writeAttr(&sb, "data-title", linkTitle)
	// only one id attribute is meaningful
	if len(n.IDs) > 0 {
		writeAttr(&sb, "id", n.IDs[0])
	}

	sb.WriteString("><img ")
	writeAttr(&sb, "src", uri)
	writeAttr(&sb, "width", n.Width)
	writeAttr(&sb, "height", n.Height)
	writeAttr(&sb, "alt", n.Alt)
	writeAttr(&sb, "title", n.Title)
	if n.Align != "" {
		writeAttr(&sb, "class", "align-"+n.Align)
	}
	sb.WriteString("/>")

	w.WriteString(sb.String())
	return nil
}

// DepartImageHTML implements images.HTMLRenderer.
func (b *Backend) DepartImageHTML(w host.Writer, n *images.ImageNode) error {
	w.WriteString("</a>")
	if n.ShowCaption {
		w.WriteString("<figcaption>" + html.EscapeString(n.Title) + "</figcaption>")
		w.WriteString("</figure>")
	}
	return nil
}

// VisitImageText implements images.TextRenderer.
func (b *Backend) VisitImageText(w host.Writer, n *images.ImageNode) error {
	if n.Alt != "" {
		w.WriteString("[image: " + n.Alt + "]")
	} else {
		w.WriteString("[image]")
	}
	if n.Title != "" {
		w.WriteString(" (" + n.Title + ")")
	}
	return nil
}

// DepartImageText implements images.TextRenderer.
func (b *Backend) DepartImageText(host.Writer, *images.ImageNode) error {
	return nil
}
