package host

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// nodeDispatcher is a goldmark node renderer that forwards the node kinds
// registered with App.AddNode to their handlers for one output format.
type nodeDispatcher struct {
	app    *App
	format Format
	writer *bodyWriter
	// blockEnd is written after a block node has been departed.
	blockEnd string
}

func newNodeDispatcher(app *App, format Format, w *bodyWriter, blockEnd string) *nodeDispatcher {
	return &nodeDispatcher{app: app, format: format, writer: w, blockEnd: blockEnd}
}

// RegisterFuncs implements renderer.NodeRenderer.
func (d *nodeDispatcher) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	for kind, handlers := range d.app.nodes {
		h, ok := handlers[d.format]
		if !ok {
			continue
		}
		reg.Register(kind, d.render(h))
	}
}

func (d *nodeDispatcher) render(h NodeHandler) renderer.NodeRendererFunc {
	return func(w util.BufWriter, _ []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
		fn := h.Depart
		if entering {
			fn = h.Visit
		}
		d.writer.buf = w
		if fn != nil {
			if err := fn(d.writer, n); err != nil {
				return ast.WalkStop, err
			}
		}
		if !entering && n.Type() == ast.TypeBlock && d.blockEnd != "" {
			_, _ = w.WriteString(d.blockEnd)
		}
		return ast.WalkContinue, nil
	}
}
