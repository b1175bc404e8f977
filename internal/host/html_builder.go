package host

import (
	"bytes"
	"context"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
	"golang.org/x/net/html"

	"git.home.luguber.info/inful/docimages/internal/foundation/errors"
)

// StaticDir is the output directory, relative to the output root, holding
// registered scripts and stylesheets.
const StaticDir = "_static"

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}} - {{.Project}}</title>
{{- range .Styles}}
<link rel="stylesheet" href="{{.}}" type="text/css">
{{- end}}
</head>
<body>
<div class="document">
{{.Body}}
</div>
{{- range .Scripts}}
<script src="{{.}}"></script>
{{- end}}
</body>
</html>
`))

type pageData struct {
	Title   string
	Project string
	Body    template.HTML
	Styles  []string
	Scripts []string
}

type htmlBuilder struct {
	baseBuilder
	md     goldmark.Markdown
	writer *bodyWriter
}

func (b *htmlBuilder) Name() string   { return "html" }
func (b *htmlBuilder) Format() Format { return FormatHTML }

func (b *htmlBuilder) PrepareWriting(ctx context.Context, env *Env) error {
	if err := b.baseBuilder.PrepareWriting(ctx, env); err != nil {
		return err
	}
	b.writer = &bodyWriter{builder: b, images: b}
	b.md = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			gmhtml.WithUnsafe(),
			renderer.WithNodeRenderers(util.Prioritized(newNodeDispatcher(b.app, FormatHTML, b.writer, "\n"), 100)),
		),
	)
	return nil
}

func (b *htmlBuilder) WriteDoc(_ context.Context, doc *Document) error {
	b.writer.docname = doc.Name
	var body bytes.Buffer
	if err := b.md.Renderer().Render(&body, doc.Source, doc.Root); err != nil {
		return errors.BuildError("failed to render document").
			WithCause(err).WithContext("document", doc.Name).Build()
	}

	data := pageData{
		Title:   doc.Title,
		Project: b.app.cfg.Project.Title,
		// #nosec G203 -- body is produced by the Markdown renderer and node handlers
		Body: template.HTML(body.String()),
	}
	for _, s := range b.app.Styles() {
		data.Styles = append(data.Styles, assetHref(doc.Name, s))
	}
	for _, s := range b.app.Scripts() {
		data.Scripts = append(data.Scripts, assetHref(doc.Name, s))
	}

	var page bytes.Buffer
	if err := pageTemplate.Execute(&page, data); err != nil {
		return errors.BuildError("failed to render page template").
			WithCause(err).WithContext("document", doc.Name).Build()
	}
	return b.writeOutput(doc.Name, ".html", page.Bytes())
}

func (b *htmlBuilder) Finish(ctx context.Context) error {
	return b.copyImages(ctx)
}

func (b *htmlBuilder) visitImage(w *bodyWriter, img ImageSource) error {
	src := b.imageURI(w.docname, img.ImageURI())
	w.WriteString(`<img src="` + html.EscapeString(src) + `" alt="` + html.EscapeString(img.ImageAlt()) + `" />`)
	return nil
}

func (b *htmlBuilder) departImage(*bodyWriter, ImageSource) error {
	return nil
}

// IsAbsoluteURL reports whether ref carries a scheme or is protocol relative.
func IsAbsoluteURL(ref string) bool {
	return strings.HasPrefix(ref, "//") || strings.Contains(ref, "://")
}

// assetHref resolves a registered script or stylesheet for docname.
func assetHref(docname, ref string) string {
	if IsAbsoluteURL(ref) {
		return ref
	}
	return RelativeRoot(docname) + StaticDir + "/" + strings.TrimPrefix(ref, "/")
}
