package host

import (
	"fmt"
	"time"
)

// DirectiveIssue records a directive that failed and rendered nothing.
type DirectiveIssue struct {
	Document  string
	Line      int
	Directive string
	Message   string
}

func (i DirectiveIssue) String() string {
	return fmt.Sprintf("%s:%d: %s: %s", i.Document, i.Line, i.Directive, i.Message)
}

// Report summarizes a build.
type Report struct {
	Documents int
	Images    int
	Issues    []DirectiveIssue
	Duration  time.Duration
}

func newReport() *Report {
	return &Report{}
}

func (r *Report) addIssue(issue DirectiveIssue) {
	r.Issues = append(r.Issues, issue)
}

// HasIssues reports whether any directive failed.
func (r *Report) HasIssues() bool {
	return r != nil && len(r.Issues) > 0
}
