package normalization

import (
	"testing"
)

type TestEnum string

const (
	TestEnumAlpha TestEnum = "alpha"
	TestEnumBeta  TestEnum = "beta"
	TestEnumGamma TestEnum = "gamma"
)

func TestNormalizer_Basic(t *testing.T) {
	normalizer := NewNormalizer(map[string]TestEnum{
		"alpha": TestEnumAlpha,
		"beta":  TestEnumBeta,
		"gamma": TestEnumGamma,
	}, TestEnumAlpha)

	tests := []struct {
		name     string
		input    string
		expected TestEnum
	}{
		{"exact match", "alpha", TestEnumAlpha},
		{"case insensitive", "ALPHA", TestEnumAlpha},
		{"with spaces", "  beta  ", TestEnumBeta},
		{"mixed case spaces", "  GaMmA  ", TestEnumGamma},
		{"invalid input", "invalid", TestEnumAlpha}, // Should return default
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := normalizer.Normalize(tt.input)
			if result != tt.expected {
				t.Errorf("Normalize(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestNormalizer_WithError(t *testing.T) {
	normalizer := NewNormalizer(map[string]TestEnum{
		"alpha": TestEnumAlpha,
		"beta":  TestEnumBeta,
	}, TestEnumAlpha)

	result, err := normalizer.NormalizeWithError("ALPHA")
	if err != nil {
		t.Errorf("NormalizeWithError(valid input) returned error: %v", err)
	}
	if result != TestEnumAlpha {
		t.Errorf("NormalizeWithError(valid input) = %v, want %v", result, TestEnumAlpha)
	}

	if _, err = normalizer.NormalizeWithError("invalid"); err == nil {
		t.Error("NormalizeWithError(invalid input) should return error")
	}
}

func TestNormalizer_Lookup(t *testing.T) {
	normalizer := NewNormalizer(map[string]bool{"yes": true, "no": false}, false)

	if v, ok := normalizer.Lookup(" YES "); !ok || !v {
		t.Errorf("Lookup(YES) = %v, %v", v, ok)
	}
	if _, ok := normalizer.Lookup("maybe"); ok {
		t.Error("Lookup(maybe) should not be recognized")
	}
	if keys := normalizer.ValidKeys(); len(keys) != 2 || keys[0] != "no" {
		t.Errorf("ValidKeys() = %v", keys)
	}
}
