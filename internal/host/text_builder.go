package host

import (
	"bytes"
	"context"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"

	"git.home.luguber.info/inful/docimages/internal/foundation/errors"
)

type textBuilder struct {
	baseBuilder
	md     goldmark.Markdown
	writer *bodyWriter
}

func (b *textBuilder) Name() string   { return "text" }
func (b *textBuilder) Format() Format { return FormatText }

func (b *textBuilder) PrepareWriting(ctx context.Context, env *Env) error {
	if err := b.baseBuilder.PrepareWriting(ctx, env); err != nil {
		return err
	}
	b.writer = &bodyWriter{builder: b, images: b}
	b.md = goldmark.New(goldmark.WithRenderer(renderer.NewRenderer(renderer.WithNodeRenderers(
		util.Prioritized(&textRenderer{}, 1000),
		util.Prioritized(newNodeDispatcher(b.app, FormatText, b.writer, "\n\n"), 100),
	))))
	return nil
}

func (b *textBuilder) WriteDoc(_ context.Context, doc *Document) error {
	b.writer.docname = doc.Name
	var out bytes.Buffer
	if err := b.md.Renderer().Render(&out, doc.Source, doc.Root); err != nil {
		return errors.BuildError("failed to render document").
			WithCause(err).WithContext("document", doc.Name).Build()
	}
	data := bytes.TrimRight(out.Bytes(), "\n")
	return b.writeOutput(doc.Name, ".txt", append(data, '\n'))
}

func (b *textBuilder) Finish(ctx context.Context) error {
	return b.copyImages(ctx)
}

func (b *textBuilder) visitImage(w *bodyWriter, img ImageSource) error {
	if alt := img.ImageAlt(); alt != "" {
		w.WriteString("[image: " + alt + "]")
	} else {
		w.WriteString("[image]")
	}
	return nil
}

func (b *textBuilder) departImage(*bodyWriter, ImageSource) error {
	return nil
}

// textRenderer renders the CommonMark node kinds as plain text.
type textRenderer struct{}

func (r *textRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindHeading, r.renderHeading)
	reg.Register(ast.KindParagraph, r.renderBlockEnd)
	reg.Register(ast.KindTextBlock, r.renderTextBlock)
	reg.Register(ast.KindText, r.renderText)
	reg.Register(ast.KindString, r.renderString)
	reg.Register(ast.KindLink, r.renderLink)
	reg.Register(ast.KindAutoLink, r.renderAutoLink)
	reg.Register(ast.KindImage, r.renderImage)
	reg.Register(ast.KindCodeBlock, r.renderCodeBlock)
	reg.Register(ast.KindFencedCodeBlock, r.renderCodeBlock)
	reg.Register(ast.KindListItem, r.renderListItem)
	reg.Register(ast.KindList, r.renderBlockEnd)
	reg.Register(ast.KindThematicBreak, r.renderThematicBreak)
	reg.Register(ast.KindHTMLBlock, r.skip)
	reg.Register(ast.KindRawHTML, r.skip)
}

func (r *textRenderer) skip(util.BufWriter, []byte, ast.Node, bool) (ast.WalkStatus, error) {
	return ast.WalkSkipChildren, nil
}

func (r *textRenderer) renderHeading(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	h := n.(*ast.Heading)
	title := strings.TrimSpace(string(nodeText(h, source)))
	underline := "-"
	switch h.Level {
	case 1:
		underline = "*"
	case 2:
		underline = "="
	}
	_, _ = w.WriteString(title + "\n" + strings.Repeat(underline, len([]rune(title))) + "\n\n")
	return ast.WalkSkipChildren, nil
}

func (r *textRenderer) renderBlockEnd(w util.BufWriter, _ []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		if _, nested := n.Parent().(*ast.ListItem); !nested || n.NextSibling() != nil {
			_, _ = w.WriteString("\n\n")
		} else {
			_ = w.WriteByte('\n')
		}
	}
	return ast.WalkContinue, nil
}

func (r *textRenderer) renderTextBlock(w util.BufWriter, _ []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		_ = w.WriteByte('\n')
	}
	return ast.WalkContinue, nil
}

func (r *textRenderer) renderText(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	t := n.(*ast.Text)
	_, _ = w.Write(t.Segment.Value(source))
	if t.SoftLineBreak() || t.HardLineBreak() {
		_ = w.WriteByte('\n')
	}
	return ast.WalkContinue, nil
}

func (r *textRenderer) renderString(w util.BufWriter, _ []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.Write(n.(*ast.String).Value)
	}
	return ast.WalkContinue, nil
}

func (r *textRenderer) renderLink(w util.BufWriter, _ []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		_, _ = w.WriteString(" <" + string(n.(*ast.Link).Destination) + ">")
	}
	return ast.WalkContinue, nil
}

func (r *textRenderer) renderAutoLink(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.Write(n.(*ast.AutoLink).URL(source))
	}
	return ast.WalkSkipChildren, nil
}

func (r *textRenderer) renderImage(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	if alt := strings.TrimSpace(string(nodeText(n, source))); alt != "" {
		_, _ = w.WriteString("[image: " + alt + "]")
	} else {
		_, _ = w.WriteString("[image]")
	}
	return ast.WalkSkipChildren, nil
}

func (r *textRenderer) renderCodeBlock(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		_, _ = w.WriteString("    ")
		_, _ = w.Write(seg.Value(source))
	}
	_ = w.WriteByte('\n')
	return ast.WalkSkipChildren, nil
}

func (r *textRenderer) renderListItem(w util.BufWriter, _ []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	depth := 0
	for p := n.Parent(); p != nil; p = p.Parent() {
		if _, ok := p.(*ast.List); ok {
			depth++
		}
	}
	_, _ = w.WriteString(strings.Repeat("  ", depth-1))
	list := n.Parent().(*ast.List)
	if list.IsOrdered() {
		index := list.Start
		for s := n.PreviousSibling(); s != nil; s = s.PreviousSibling() {
			index++
		}
		_, _ = w.WriteString(strconv.Itoa(index) + ". ")
	} else {
		_, _ = w.WriteString("* ")
	}
	return ast.WalkContinue, nil
}

func (r *textRenderer) renderThematicBreak(w util.BufWriter, _ []byte, _ ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString(strings.Repeat("-", 40) + "\n\n")
	}
	return ast.WalkContinue, nil
}
