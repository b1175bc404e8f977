package images

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBoolean(t *testing.T) {
	cases := map[string]bool{
		"yes": true, "1": true, "True": true, " ok ": true,
		"no": false, "0": false, "FALSE": false, "None": false,
	}
	for in, want := range cases {
		got, err := ParseBoolean(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseBoolean("  ")
	assert.EqualError(t, err, "no argument provided but required")

	_, err = ParseBoolean("maybe")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "`maybe`")
}

func TestParseAlign(t *testing.T) {
	a, err := ParseAlign(" Center ")
	require.NoError(t, err)
	assert.Equal(t, AlignCenter, a)

	_, err = ParseAlign("middle")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"middle" unknown`)

	_, err = ParseAlign("")
	require.Error(t, err)
}

func TestParseLength(t *testing.T) {
	for in, want := range map[string]string{
		"100":    "100",
		"12px":   "12px",
		"1.5 em": "1.5em",
		".5IN":   ".5in",
	} {
		got, err := ParseLength(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	for _, bad := range []string{"50%", "auto", "-3px", "12 furlongs", ""} {
		_, err := ParseLength(bad)
		assert.Error(t, err, bad)
	}

	got, err := ParseLengthOrPercentage("50 %")
	require.NoError(t, err)
	assert.Equal(t, "50%", got)
}

func TestParseClasses(t *testing.T) {
	classes, err := ParseClasses("Wide  Shadow_Box")
	require.NoError(t, err)
	assert.Equal(t, []string{"wide", "shadow_box"}, classes)

	_, err = ParseClasses("   ")
	assert.EqualError(t, err, "argument required but none supplied")
}

func TestParseIdentifier(t *testing.T) {
	id, err := ParseIdentifier("Main Diagram")
	require.NoError(t, err)
	assert.Equal(t, "main-diagram", id)

	_, err = ParseIdentifier("!!!")
	assert.Error(t, err)
}
