package images

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gosimple/slug"

	"git.home.luguber.info/inful/docimages/internal/foundation/normalization"
)

var booleanValues = normalization.NewNormalizer(map[string]bool{
	"yes":   true,
	"1":     true,
	"true":  true,
	"ok":    true,
	"no":    false,
	"0":     false,
	"false": false,
	"none":  false,
}, false)

// ParseBoolean converts a directive boolean.
func ParseBoolean(value string) (bool, error) {
	if strings.TrimSpace(value) == "" {
		return false, fmt.Errorf("no argument provided but required")
	}
	b, ok := booleanValues.Lookup(value)
	if !ok {
		return false, fmt.Errorf("please use one of: yes, true, no, false. Do not use `%s` as boolean", value)
	}
	return b, nil
}

// Alignment is the horizontal placement of an image.
type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

var alignments = normalization.NewNormalizer(map[string]Alignment{
	"left":   AlignLeft,
	"center": AlignCenter,
	"right":  AlignRight,
}, "")

// ParseAlign converts an align option value.
func ParseAlign(value string) (Alignment, error) {
	if strings.TrimSpace(value) == "" {
		return "", fmt.Errorf("must supply an argument; choose from %s", quoteAll(alignments.ValidKeys()))
	}
	a, ok := alignments.Lookup(value)
	if !ok {
		return "", fmt.Errorf("%q unknown; choose from %s", value, quoteAll(alignments.ValidKeys()))
	}
	return a, nil
}

func quoteAll(keys []string) string {
	q := make([]string, len(keys))
	for i, k := range keys {
		q[i] = fmt.Sprintf("%q", k)
	}
	return strings.Join(q, ", ")
}

var (
	lengthUnits   = []string{"em", "ex", "px", "in", "cm", "mm", "pt", "pc"}
	lengthPattern = regexp.MustCompile(`^([0-9]+(?:\.[0-9]*)?|\.[0-9]+)\s*([a-zA-Z%]*)$`)
)

// ParseLength accepts a positive number with an optional CSS length unit.
func ParseLength(value string) (string, error) {
	return parseMeasure(value, false)
}

// ParseLengthOrPercentage accepts what ParseLength accepts plus percentages.
func ParseLengthOrPercentage(value string) (string, error) {
	return parseMeasure(value, true)
}

func parseMeasure(value string, percent bool) (string, error) {
	m := lengthPattern.FindStringSubmatch(strings.TrimSpace(value))
	if m != nil {
		unit := strings.ToLower(m[2])
		if unit == "" || (percent && unit == "%") || contains(lengthUnits, unit) {
			return m[1] + unit, nil
		}
	}
	units := append([]string(nil), lengthUnits...)
	if percent {
		units = append(units, "%")
	}
	return "", fmt.Errorf("not a positive measure of one of the following units: %s", quoteAll(units))
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// ParseClasses splits a space separated class list and normalizes every
// entry to an identifier.
func ParseClasses(value string) ([]string, error) {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return nil, fmt.Errorf("argument required but none supplied")
	}
	classes := make([]string, 0, len(fields))
	for _, f := range fields {
		id := slug.Make(f)
		if id == "" {
			return nil, fmt.Errorf("cannot make %q into a class name", f)
		}
		classes = append(classes, id)
	}
	return classes, nil
}

// ParseIdentifier normalizes a name option into an element id.
func ParseIdentifier(value string) (string, error) {
	id := slug.Make(strings.TrimSpace(value))
	if id == "" {
		return "", fmt.Errorf("cannot make %q into an identifier", value)
	}
	return id, nil
}
