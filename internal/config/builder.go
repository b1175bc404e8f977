package config

import "git.home.luguber.info/inful/docimages/internal/foundation/normalization"

// BuilderName enumerates the output builders the host ships.
type BuilderName string

const (
	BuilderHTML BuilderName = "html"
	BuilderText BuilderName = "text"
)

var builderNormalizer = normalization.NewNormalizer(map[string]BuilderName{
	"html": BuilderHTML,
	"text": BuilderText,
}, BuilderHTML)

// NormalizeBuilder maps a builder name onto a known builder, defaulting to html.
func NormalizeBuilder(raw string) BuilderName {
	return builderNormalizer.Normalize(raw)
}
