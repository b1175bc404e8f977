package images

import (
	"io/fs"

	"github.com/yuin/goldmark/ast"

	"git.home.luguber.info/inful/docimages/internal/host"
)

// Backend renders ImageNodes. Formats without a matching renderer interface
// use the fallback methods.
type Backend interface {
	// Name identifies the backend in logs and names its static output directory.
	Name() string
	VisitImageFallback(w host.Writer, n *ImageNode) error
	DepartImageFallback(w host.Writer, n *ImageNode) error
}

// StaticFileProvider is implemented by backends that ship static files.
type StaticFileProvider interface {
	// StaticFiles returns the file system holding the files and their slash
	// separated paths within it.
	StaticFiles() (fs.FS, []string)
}

// ExternalAssetProvider is implemented by backends that load scripts or
// stylesheets from absolute URLs.
type ExternalAssetProvider interface {
	ExternalAssets() []string
}

// HTMLRenderer renders ImageNodes for the html format.
type HTMLRenderer interface {
	VisitImageHTML(w host.Writer, n *ImageNode) error
	DepartImageHTML(w host.Writer, n *ImageNode) error
}

// LaTeXRenderer renders ImageNodes for the latex format.
type LaTeXRenderer interface {
	VisitImageLaTeX(w host.Writer, n *ImageNode) error
	DepartImageLaTeX(w host.Writer, n *ImageNode) error
}

// ManRenderer renders ImageNodes for the man format.
type ManRenderer interface {
	VisitImageMan(w host.Writer, n *ImageNode) error
	DepartImageMan(w host.Writer, n *ImageNode) error
}

// TexinfoRenderer renders ImageNodes for the texinfo format.
type TexinfoRenderer interface {
	VisitImageTexinfo(w host.Writer, n *ImageNode) error
	DepartImageTexinfo(w host.Writer, n *ImageNode) error
}

// TextRenderer renders ImageNodes for the text format.
type TextRenderer interface {
	VisitImageText(w host.Writer, n *ImageNode) error
	DepartImageText(w host.Writer, n *ImageNode) error
}

// EPUBRenderer renders ImageNodes for the epub format.
type EPUBRenderer interface {
	VisitImageEPUB(w host.Writer, n *ImageNode) error
	DepartImageEPUB(w host.Writer, n *ImageNode) error
}

type imageFunc func(w host.Writer, n *ImageNode) error

// renderersFor selects the visit and depart functions of b for format.
func renderersFor(b Backend, format host.Format) (visit, depart imageFunc) {
	switch format {
	case host.FormatHTML:
		if r, ok := b.(HTMLRenderer); ok {
			return r.VisitImageHTML, r.DepartImageHTML
		}
	case host.FormatLaTeX:
		if r, ok := b.(LaTeXRenderer); ok {
			return r.VisitImageLaTeX, r.DepartImageLaTeX
		}
	case host.FormatMan:
		if r, ok := b.(ManRenderer); ok {
			return r.VisitImageMan, r.DepartImageMan
		}
	case host.FormatTexinfo:
		if r, ok := b.(TexinfoRenderer); ok {
			return r.VisitImageTexinfo, r.DepartImageTexinfo
		}
	case host.FormatText:
		if r, ok := b.(TextRenderer); ok {
			return r.VisitImageText, r.DepartImageText
		}
	case host.FormatEPUB:
		if r, ok := b.(EPUBRenderer); ok {
			return r.VisitImageEPUB, r.DepartImageEPUB
		}
	}
	return b.VisitImageFallback, b.DepartImageFallback
}

// nodeHandlers binds b to every output format.
func nodeHandlers(b Backend) map[host.Format]host.NodeHandler {
	handlers := make(map[host.Format]host.NodeHandler, len(host.Formats()))
	for _, format := range host.Formats() {
		visit, depart := renderersFor(b, format)
		handlers[format] = host.NodeHandler{Visit: adapt(visit), Depart: adapt(depart)}
	}
	return handlers
}

func adapt(f imageFunc) host.NodeFunc {
	return func(w host.Writer, node ast.Node) error {
		n, ok := node.(*ImageNode)
		if !ok {
			return nil
		}
		return f(w, n)
	}
}

// BaseBackend provides the fallback rendering: the builder's default image markup.
type BaseBackend struct {
	App *host.App
}

func (BaseBackend) VisitImageFallback(w host.Writer, n *ImageNode) error {
	return w.VisitImage(n)
}

func (BaseBackend) DepartImageFallback(w host.Writer, n *ImageNode) error {
	return w.DepartImage(n)
}
