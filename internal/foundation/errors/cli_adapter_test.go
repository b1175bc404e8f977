package errors

import (
	"log/slog"
	"strings"
	"testing"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, 0},
		{"validation error", ValidationError("invalid input").Build(), 2},
		{"config error", ConfigError("bad config").Build(), 7},
		{"network error", NetworkError("timeout").Build(), 8},
		{"directive error", DirectiveError("bad option").Build(), 11},
		{"backend error", BackendError("cannot instantiate").Build(), 11},
		{"internal error", InternalError("boom").Build(), 10},
		{"unclassified error", &customError{msg: "unknown error"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := adapter.ExitCodeFor(tt.err); got != tt.expected {
				t.Errorf("ExitCodeFor() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	quiet := NewCLIErrorAdapter(false, slog.Default())
	verbose := NewCLIErrorAdapter(true, slog.Default())

	tests := []struct {
		name     string
		adapter  *CLIErrorAdapter
		err      error
		contains string
	}{
		{"nil error", quiet, nil, ""},
		{"internal error hidden", quiet, InternalError("internal issue").Build(), "Internal error occurred (use -v for details)"},
		{"config error shown", quiet, ConfigError("bad config").Build(), "Error: bad config"},
		{"verbose shows category", verbose, ConfigError("bad config").Build(), "[config:fatal] bad config"},
		{"unclassified error", quiet, &customError{msg: "unknown error"}, "Error: unknown error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.adapter.FormatError(tt.err)
			if tt.contains == "" {
				if got != "" {
					t.Errorf("FormatError() = %q, want empty string", got)
				}
				return
			}
			if !strings.Contains(got, tt.contains) {
				t.Errorf("FormatError() = %q, want to contain %q", got, tt.contains)
			}
		})
	}
}

type customError struct {
	msg string
}

func (e *customError) Error() string {
	return e.msg
}
