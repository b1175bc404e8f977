package host

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/util"
)

// ImageSource is implemented by nodes the builders' default image rendering can handle.
type ImageSource interface {
	ImageURI() string
	ImageAlt() string
}

// Writer is handed to node handlers while a document is written.
type Writer interface {
	// WriteString appends s to the document body.
	WriteString(s string)
	// Builder returns the active builder.
	Builder() Builder
	// DocName returns the document being written.
	DocName() string
	// VisitImage renders img with the builder's default image markup.
	VisitImage(img ImageSource) error
	// DepartImage closes the default image markup.
	DepartImage(img ImageSource) error
}

// NodeFunc renders one side of a node.
type NodeFunc func(w Writer, node ast.Node) error

// NodeHandler renders a node for one output format: Visit on entry, Depart on exit.
type NodeHandler struct {
	Visit  NodeFunc
	Depart NodeFunc
}

type imageRenderer interface {
	visitImage(w *bodyWriter, img ImageSource) error
	departImage(w *bodyWriter, img ImageSource) error
}

type bodyWriter struct {
	buf     util.BufWriter
	builder Builder
	docname string
	images  imageRenderer
}

func (w *bodyWriter) WriteString(s string) {
	_, _ = w.buf.WriteString(s)
}

func (w *bodyWriter) Builder() Builder {
	return w.builder
}

func (w *bodyWriter) DocName() string {
	return w.docname
}

func (w *bodyWriter) VisitImage(img ImageSource) error {
	return w.images.visitImage(w, img)
}

func (w *bodyWriter) DepartImage(img ImageSource) error {
	return w.images.departImage(w, img)
}
