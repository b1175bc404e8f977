package images

import (
	"strings"

	"github.com/google/uuid"
	"github.com/yuin/goldmark/ast"

	"git.home.luguber.info/inful/docimages/internal/host"
)

func unchanged(v string) (any, error) { return v, nil }

func wrap[T any](f func(string) (T, error)) host.OptionConverter {
	return func(v string) (any, error) {
		out, err := f(v)
		if err != nil {
			return nil, err
		}
		return out, nil
	}
}

var thumbnailOptions = map[string]host.OptionConverter{
	"width":        wrap(ParseLengthOrPercentage),
	"height":       wrap(ParseLength),
	"group":        unchanged,
	"class":        wrap(ParseClasses),
	"alt":          unchanged,
	"download":     wrap(ParseBoolean),
	"title":        unchanged,
	"align":        wrap(ParseAlign),
	"show_caption": wrap(ParseBoolean),
	"legacy_class": wrap(ParseClasses),
	"name":         wrap(ParseIdentifier),
}

// thumbnailDirective implements the thumbnail directive, and the image
// directive when override_image_directive is set.
type thumbnailDirective struct {
	cfg func() Config
}

func (d *thumbnailDirective) Spec() host.DirectiveSpec {
	return host.DirectiveSpec{
		RequiredArguments: 1,
		HasContent:        true,
		Options:           thumbnailOptions,
	}
}

func (d *thumbnailDirective) Run(dc *host.DirectiveContext) ([]ast.Node, error) {
	cfg := d.cfg()
	n := &ImageNode{
		Group:       cfg.DefaultGroup,
		Width:       cfg.DefaultImageWidth,
		Height:      cfg.DefaultImageHeight,
		ShowCaption: cfg.ShowCaption,
	}
	download := cfg.Download

	if v, ok := dc.Option("group"); ok {
		n.Group = v.(string)
	} else if n.Group == "" {
		n.Group = uuid.NewString()
	}
	if v, ok := dc.Option("class"); ok {
		n.Classes = v.([]string)
	}
	if v, ok := dc.Option("width"); ok {
		n.Width = v.(string)
	}
	if v, ok := dc.Option("height"); ok {
		n.Height = v.(string)
	}
	if v, ok := dc.Option("alt"); ok {
		n.Alt = v.(string)
	}
	if v, ok := dc.Option("align"); ok {
		n.Align = string(v.(Alignment))
	}
	if v, ok := dc.Option("show_caption"); ok {
		n.ShowCaption = v.(bool)
	}
	if v, ok := dc.Option("legacy_class"); ok {
		n.LegacyClasses = v.([]string)
	}
	if v, ok := dc.Option("download"); ok {
		download = v.(bool)
	}
	if v, ok := dc.Option("name"); ok {
		n.IDs = []string{v.(string)}
	}

	uri := dc.Arguments[0]
	remote, err := IsRemote(uri, dc.Env.SrcDir, dc.Env.DocDir())
	if err != nil {
		return nil, err
	}
	switch {
	case remote && download:
		n.Remote = true
		// cache paths are relative to the source root
		n.URI = dc.Env.Images.AddFile(dc.Env.DocName, "/"+CachedPath(cfg.CachePath, uri))
		n.RemoteURI = uri
		RemoteImagesOf(dc.Env)[uri] = n.URI
	case remote:
		n.Remote = true
		n.URI = uri
		n.RemoteURI = uri
	default:
		n.URI = dc.Env.Images.AddFile(dc.Env.DocName, uri)
	}

	n.Content = joinContent(dc.Content)
	title, hasTitle := dc.Option("title")
	if !hasTitle && cfg.DefaultShowTitle {
		title, hasTitle = "", true
	}
	switch {
	case !hasTitle:
		n.Title = ""
	case title.(string) != "":
		n.Title = title.(string)
	default:
		n.Title = n.Content
		n.Content = ""
	}
	return []ast.Node{n}, nil
}

// joinContent joins the non-blank content lines with single spaces.
func joinContent(lines []string) string {
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			parts = append(parts, l)
		}
	}
	return strings.Join(parts, " ")
}
