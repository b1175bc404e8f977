package images

import (
	"strings"

	"github.com/yuin/goldmark/ast"
)

// KindImage is the node kind produced by the thumbnail directive.
var KindImage = ast.NewNodeKind("ThumbnailImage")

// ImageNode is a resolved image reference ready for a backend to render.
type ImageNode struct {
	ast.BaseBlock

	// URI is what the output refers to: the local path, the cached path of a
	// downloaded remote image, or the remote address itself.
	URI string
	// RemoteURI is the original address of a remote image.
	RemoteURI string
	Remote    bool

	Content       string
	Title         string
	ShowCaption   bool
	LegacyClasses []string
	Group         string
	Width         string
	Height        string
	Classes       []string
	Alt           string
	Align         string
	IDs           []string
}

// Kind implements ast.Node.
func (n *ImageNode) Kind() ast.NodeKind {
	return KindImage
}

// Dump implements ast.Node.
func (n *ImageNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"URI":     n.URI,
		"Remote":  n.RemoteURI,
		"Group":   n.Group,
		"Title":   n.Title,
		"Classes": strings.Join(n.Classes, " "),
	}, nil)
}

// ImageURI implements host.ImageSource.
func (n *ImageNode) ImageURI() string {
	return n.URI
}

// ImageAlt implements host.ImageSource.
func (n *ImageNode) ImageAlt() string {
	return n.Alt
}
