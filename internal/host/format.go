package host

// Format identifies an output format a node handler can render to.
type Format string

const (
	FormatHTML    Format = "html"
	FormatLaTeX   Format = "latex"
	FormatMan     Format = "man"
	FormatTexinfo Format = "texinfo"
	FormatText    Format = "text"
	FormatEPUB    Format = "epub"
)

// Formats lists every output format node handlers may be bound for.
func Formats() []Format {
	return []Format{FormatHTML, FormatLaTeX, FormatMan, FormatTexinfo, FormatText, FormatEPUB}
}
