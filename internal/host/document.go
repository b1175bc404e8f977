package host

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/docimages/internal/foundation/errors"
	"git.home.luguber.info/inful/docimages/internal/frontmatter"
	"git.home.luguber.info/inful/docimages/internal/logfields"
)

// Document is one Markdown source file and its parsed tree.
type Document struct {
	// Name is the slash separated path below the source directory without extension.
	Name string
	// SourcePath is the absolute path of the Markdown file.
	SourcePath string
	// Title comes from the front matter, else the first heading, else Name.
	Title string
	// Source is the Markdown body the tree's segments refer to.
	Source []byte
	// Root is the parsed document after directives were resolved.
	Root ast.Node

	lineOffset int
}

// readDoc parses doc and replaces its directive blocks with the nodes their
// directives produce.
func (a *App) readDoc(doc *Document) error {
	raw, err := os.ReadFile(doc.SourcePath)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to read document").
			WithContext("path", doc.SourcePath).Build()
	}
	page, err := frontmatter.Parse(raw)
	if err != nil {
		return errors.DirectiveError("invalid front matter").
			WithCause(err).WithContext("document", doc.Name).Build()
	}
	doc.Title = page.Meta.Title
	doc.lineOffset = page.BodyLine
	body := page.Body

	a.env.DocName = doc.Name
	doc.Source = body
	doc.Root = a.markdown.Parser().Parse(text.NewReader(body))
	if doc.Title == "" {
		doc.Title = firstHeading(doc.Root, body)
	}
	if doc.Title == "" {
		doc.Title = doc.Name
	}

	a.resolveDirectives(doc)
	return nil
}

func (a *App) resolveDirectives(doc *Document) {
	var blocks []*DirectiveBlock
	_ = ast.Walk(doc.Root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if b, ok := n.(*DirectiveBlock); ok {
			blocks = append(blocks, b)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	for _, b := range blocks {
		b.Line += doc.lineOffset
		nodes, err := a.runDirective(doc, b)
		parent := b.Parent()
		if err != nil {
			a.recorder.IncDirectiveError(b.Name)
			a.report.addIssue(DirectiveIssue{Document: doc.Name, Line: b.Line, Directive: b.Name, Message: err.Error()})
			a.logger.Error("Directive failed",
				logfields.Document(doc.Name),
				logfields.Line(b.Line),
				logfields.Directive(b.Name),
				logfields.Error(err))
			parent.RemoveChild(parent, b)
			continue
		}
		a.recorder.IncDirective(b.Name)
		for _, n := range nodes {
			parent.InsertBefore(parent, b, n)
		}
		parent.RemoveChild(parent, b)
	}
}

func (a *App) runDirective(doc *Document, b *DirectiveBlock) (nodes []ast.Node, err error) {
	d, ok := a.directives[b.Name]
	if !ok {
		return nil, fmt.Errorf("unknown directive %q", b.Name)
	}
	args, opts, err := bind(d.Spec(), b)
	if err != nil {
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("directive panicked: %v", r)
		}
	}()
	a.logger.Debug("Running directive",
		logfields.Document(doc.Name), logfields.Line(b.Line), logfields.Directive(b.Name),
		slog.Any("arguments", args))
	return d.Run(&DirectiveContext{
		Name:      b.Name,
		Arguments: args,
		Options:   opts,
		Content:   b.Content,
		Line:      b.Line,
		App:       a,
		Env:       a.env,
	})
}

func firstHeading(root ast.Node, source []byte) string {
	var title string
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok && h.Level == 1 {
			title = strings.TrimSpace(string(nodeText(h, source)))
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return title
}

// nodeText concatenates the text segments below n.
func nodeText(n ast.Node, source []byte) []byte {
	var buf bytes.Buffer
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return buf.Bytes()
}
