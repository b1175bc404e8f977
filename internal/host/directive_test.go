package host

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

func parseBlocks(t *testing.T, src string) []*DirectiveBlock {
	t.Helper()
	md := goldmark.New(goldmark.WithParserOptions(parser.WithBlockParsers(
		util.Prioritized(newDirectiveParser(func(name string) bool { return name == "thumbnail" }), 150),
	)))
	root := md.Parser().Parse(text.NewReader([]byte(src)))
	var blocks []*DirectiveBlock
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		if b, ok := n.(*DirectiveBlock); ok {
			blocks = append(blocks, b)
		}
	}
	return blocks
}

func TestDirectiveParserOptionsAndContent(t *testing.T) {
	blocks := parseBlocks(t, "Intro\n\n:::thumbnail img/a.png\n:width: 50%\n:download:\n\nFirst line\nsecond line\n:::\n")
	require.Len(t, blocks, 1)
	b := blocks[0]
	assert.Equal(t, "thumbnail", b.Name)
	assert.Equal(t, "img/a.png", b.Argument)
	assert.Equal(t, 3, b.Line)
	assert.Equal(t, []RawOption{{Name: "width", Value: "50%"}, {Name: "download", Value: ""}}, b.Options)
	assert.Equal(t, []string{"First line", "second line"}, b.Content)
}

func TestDirectiveParserOptionLikeContentAfterText(t *testing.T) {
	blocks := parseBlocks(t, ":::thumbnail a.png\ntext\n:alt: not an option\n:::\n")
	require.Len(t, blocks, 1)
	assert.Empty(t, blocks[0].Options)
	assert.Equal(t, []string{"text", ":alt: not an option"}, blocks[0].Content)
}

func TestDirectiveParserUnclosedRunsToEnd(t *testing.T) {
	blocks := parseBlocks(t, ":::thumbnail a.png\ncaption")
	require.Len(t, blocks, 1)
	assert.Equal(t, []string{"caption"}, blocks[0].Content)
}

func TestDirectiveParserIgnoresUnknownNames(t *testing.T) {
	assert.Empty(t, parseBlocks(t, ":::gallery a.png\n:::\n"))
}

func TestBind(t *testing.T) {
	spec := DirectiveSpec{
		RequiredArguments: 1,
		HasContent:        false,
		Options: map[string]OptionConverter{
			"n": func(v string) (any, error) { return strconv.Atoi(v) },
		},
	}
	block := func(arg string, content []string, opts ...RawOption) *DirectiveBlock {
		return &DirectiveBlock{BaseBlock: ast.BaseBlock{}, Argument: arg, Options: opts, Content: content}
	}

	args, opts, err := bind(spec, block("a.png", nil, RawOption{"n", "3"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"a.png"}, args)
	assert.Equal(t, 3, opts["n"])

	_, _, err = bind(spec, block("", nil))
	assert.EqualError(t, err, "1 argument(s) required, 0 supplied")

	_, _, err = bind(spec, block("a b", nil))
	assert.EqualError(t, err, "maximum 1 argument(s) allowed, 2 supplied")

	_, _, err = bind(spec, block("a", nil, RawOption{"n", "x"}))
	assert.ErrorContains(t, err, `invalid option value: (option: "n"; value: "x")`)

	_, _, err = bind(spec, block("a", nil, RawOption{"n", "1"}, RawOption{"n", "2"}))
	assert.ErrorContains(t, err, "duplicate option")

	_, _, err = bind(spec, block("a", []string{"", "text"}))
	assert.EqualError(t, err, "no content permitted")

	spec.FinalArgumentWhitespace = true
	args, _, err = bind(spec, block("a b  c", nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"a b c"}, args)
}
