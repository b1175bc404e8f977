package host

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark/ast"
)

// OptionConverter validates and converts a raw directive option value.
type OptionConverter func(value string) (any, error)

// DirectiveSpec describes the arguments, options and content a directive accepts.
type DirectiveSpec struct {
	RequiredArguments       int
	OptionalArguments       int
	FinalArgumentWhitespace bool
	HasContent              bool
	Options                 map[string]OptionConverter
}

// Directive turns a parsed directive block into document nodes.
type Directive interface {
	Spec() DirectiveSpec
	Run(dc *DirectiveContext) ([]ast.Node, error)
}

// DirectiveContext carries everything a directive needs to run.
type DirectiveContext struct {
	Name      string
	Arguments []string
	Options   map[string]any
	Content   []string
	Line      int
	App       *App
	Env       *Env
}

// Option returns a converted option value and whether it was given.
func (dc *DirectiveContext) Option(name string) (any, bool) {
	v, ok := dc.Options[name]
	return v, ok
}

// bind validates a raw block against spec and converts its options.
func bind(spec DirectiveSpec, block *DirectiveBlock) (args []string, opts map[string]any, err error) {
	args = strings.Fields(block.Argument)
	maxArgs := spec.RequiredArguments + spec.OptionalArguments
	if len(args) < spec.RequiredArguments {
		return nil, nil, fmt.Errorf("%d argument(s) required, %d supplied", spec.RequiredArguments, len(args))
	}
	if len(args) > maxArgs {
		if !spec.FinalArgumentWhitespace || maxArgs == 0 {
			return nil, nil, fmt.Errorf("maximum %d argument(s) allowed, %d supplied", maxArgs, len(args))
		}
		args = append(args[:maxArgs-1], strings.Join(args[maxArgs-1:], " "))
	}

	opts = make(map[string]any, len(block.Options))
	for _, raw := range block.Options {
		convert, known := spec.Options[raw.Name]
		if !known {
			return nil, nil, fmt.Errorf("unknown option: %q", raw.Name)
		}
		if _, dup := opts[raw.Name]; dup {
			return nil, nil, fmt.Errorf("duplicate option %q", raw.Name)
		}
		v, err := convert(raw.Value)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid option value: (option: %q; value: %q) %w", raw.Name, raw.Value, err)
		}
		opts[raw.Name] = v
	}

	if !spec.HasContent && hasText(block.Content) {
		return nil, nil, fmt.Errorf("no content permitted")
	}
	return args, opts, nil
}

func hasText(lines []string) bool {
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			return true
		}
	}
	return false
}
