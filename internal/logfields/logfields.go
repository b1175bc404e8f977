package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyURI        = "uri"
	KeyRemoteURI  = "remote_uri"
	KeyPath       = "path"
	KeyDest       = "dest"
	KeyDocument   = "document"
	KeyLine       = "line"
	KeyDirective  = "directive"
	KeyBackend    = "backend"
	KeyBuilder    = "builder"
	KeyFormat     = "format"
	KeyEvent      = "event"
	KeyExtension  = "extension"
	KeyStatus     = "status"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeyBytes      = "bytes"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func URI(u string) slog.Attr          { return slog.String(KeyURI, u) }
func RemoteURI(u string) slog.Attr    { return slog.String(KeyRemoteURI, u) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Dest(p string) slog.Attr         { return slog.String(KeyDest, p) }
func Document(d string) slog.Attr     { return slog.String(KeyDocument, d) }
func Line(n int) slog.Attr            { return slog.Int(KeyLine, n) }
func Directive(n string) slog.Attr    { return slog.String(KeyDirective, n) }
func Backend(n string) slog.Attr      { return slog.String(KeyBackend, n) }
func Builder(n string) slog.Attr      { return slog.String(KeyBuilder, n) }
func Format(f string) slog.Attr       { return slog.String(KeyFormat, f) }
func Event(e string) slog.Attr        { return slog.String(KeyEvent, e) }
func Extension(n string) slog.Attr    { return slog.String(KeyExtension, n) }
func Status(code int) slog.Attr       { return slog.Int(KeyStatus, code) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Bytes(n int64) slog.Attr         { return slog.Int64(KeyBytes, n) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
