package frontmatter

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document started with a YAML
// front matter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml front matter start delimiter found but closing delimiter is missing")

// Meta is the document metadata the build understands. Other keys are kept in Extra.
type Meta struct {
	Title string         `yaml:"title"`
	Extra map[string]any `yaml:",inline"`
}

// Page is a Markdown document split into front matter and body.
type Page struct {
	Meta           Meta
	HasFrontMatter bool
	// Body is the Markdown following the front matter.
	Body []byte
	// BodyLine is the number of source lines preceding Body.
	BodyLine int
}

// Parse splits content into YAML front matter (`---` delimited) and body and
// decodes the front matter. Documents without front matter yield the full
// input as body.
func Parse(content []byte) (*Page, error) {
	fm, body, had, err := Split(content)
	if err != nil {
		return nil, err
	}
	page := &Page{HasFrontMatter: had, Body: body}
	if !had {
		return page, nil
	}
	page.BodyLine = bytes.Count(content[:len(content)-len(body)], []byte{'\n'})
	if len(bytes.TrimSpace(fm)) > 0 {
		if err := yaml.Unmarshal(fm, &page.Meta); err != nil {
			return nil, fmt.Errorf("decode front matter: %w", err)
		}
	}
	return page, nil
}

// Split separates raw front matter from the Markdown body.
func Split(content []byte) (frontmatter []byte, body []byte, had bool, err error) {
	nl := detectNewline(content)
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, nil
	}

	start := len(open)
	if bytes.HasPrefix(content[start:], open) {
		return []byte{}, content[start+len(open):], true, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(content[start:], closeSeq)
	if idx < 0 {
		return nil, nil, false, ErrMissingClosingDelimiter
	}
	end := start + idx + len(nl)
	return content[start:end], content[start+idx+len(closeSeq):], true, nil
}

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
