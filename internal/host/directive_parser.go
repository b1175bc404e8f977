package host

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// KindDirective is the node kind of an unresolved directive block.
var KindDirective = ast.NewNodeKind("Directive")

// RawOption is a directive option as written.
type RawOption struct {
	Name  string
	Value string
}

// DirectiveBlock is a parsed but not yet executed directive:
//
//	:::name argument
//	:option: value
//	content
//	:::
type DirectiveBlock struct {
	ast.BaseBlock
	Name     string
	Argument string
	Options  []RawOption
	Content  []string
	Line     int

	inOptions bool
}

// Kind implements ast.Node.
func (n *DirectiveBlock) Kind() ast.NodeKind {
	return KindDirective
}

// Dump implements ast.Node.
func (n *DirectiveBlock) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Name":     n.Name,
		"Argument": n.Argument,
	}, nil)
}

const directiveFence = ":::"

var optionLine = regexp.MustCompile(`^:([A-Za-z0-9_-]+):(?:[ \t]+(.*))?$`)

type directiveParser struct {
	known func(name string) bool
}

// newDirectiveParser returns a block parser for fenced directives whose name
// satisfies known. Unknown names are left to the other block parsers.
func newDirectiveParser(known func(name string) bool) parser.BlockParser {
	return &directiveParser{known: known}
}

func (p *directiveParser) Trigger() []byte {
	return []byte{':'}
}

func (p *directiveParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, segment := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 || !bytes.HasPrefix(line[pos:], []byte(directiveFence)) {
		return nil, parser.NoChildren
	}
	rest := strings.TrimSpace(string(line[pos+len(directiveFence):]))
	name, arg, _ := strings.Cut(rest, " ")
	if name == "" || !p.known(name) {
		return nil, parser.NoChildren
	}

	node := &DirectiveBlock{
		Name:      name,
		Argument:  strings.TrimSpace(arg),
		Line:      bytes.Count(reader.Source()[:segment.Start], []byte{'\n'}) + 1,
		inOptions: true,
	}
	reader.Advance(segment.Len() - trailingNewline(line))
	return node, parser.NoChildren
}

func (p *directiveParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	line, segment := reader.PeekLine()
	if line == nil {
		return parser.Close
	}
	n := node.(*DirectiveBlock)
	advance := segment.Len() - trailingNewline(line)

	body := strings.TrimRight(string(line), "\r\n")
	if strings.TrimSpace(body) == directiveFence {
		reader.Advance(advance)
		return parser.Close
	}

	if n.inOptions {
		if m := optionLine.FindStringSubmatch(strings.TrimSpace(body)); m != nil {
			n.Options = append(n.Options, RawOption{Name: m[1], Value: strings.TrimSpace(m[2])})
			reader.Advance(advance)
			return parser.Continue | parser.NoChildren
		}
		n.inOptions = false
		if util.IsBlank(line) {
			reader.Advance(advance)
			return parser.Continue | parser.NoChildren
		}
	}

	n.Content = append(n.Content, body)
	reader.Advance(advance)
	return parser.Continue | parser.NoChildren
}

func (p *directiveParser) Close(node ast.Node, reader text.Reader, pc parser.Context) {}

func (p *directiveParser) CanInterruptParagraph() bool {
	return true
}

func (p *directiveParser) CanAcceptIndentedLine() bool {
	return false
}

func trailingNewline(line []byte) int {
	if len(line) > 0 && line[len(line)-1] == '\n' {
		return 1
	}
	return 0
}
