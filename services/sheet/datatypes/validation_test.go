// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidNumber(t *testing.T) {
	valid := []string{
		"0", "42", "-17", "3.14", "-2.5", ".5", "-.5", "100.",
		"1e5", "2.5e-3", "1E+10", "  42  ",
	}
	for _, s := range valid {
		assert.True(t, IsValidNumber(s), "want %q valid", s)
	}

	invalid := []string{
		"", " ", "abc", "1,000", "12a", "a12", "1.2.3", "--5",
		"1e", "e5", "+5", "0x1F", "1e999",
	}
	for _, s := range invalid {
		assert.False(t, IsValidNumber(s), "want %q invalid", s)
	}
}

func TestDateShapeVsValidity(t *testing.T) {
	tests := []struct {
		value string
		shape bool
		valid bool
	}{
		{"12/25/2024", true, true},
		{"1/5/2024", true, true},
		{"12-25-2024", true, true},
		{"2024-12-25", true, true},
		{"2024-1-5", true, true},
		{"12/25/24", true, true},
		// Date-shaped but impossible: stays TypeDate, flagged invalid.
		{"13/45/2024", true, false},
		{"2024-13-01", true, false},
		{"2/30/2024", true, false},
		// Not date-shaped at all.
		{"25/12/2024/5", false, false},
		{"December 25", false, false},
		{"2024/12/25", false, false},
		{"12.25.2024", false, false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.shape, LooksLikeDate(tc.value), "LooksLikeDate(%q)", tc.value)
		assert.Equal(t, tc.valid, IsValidDate(tc.value), "IsValidDate(%q)", tc.value)
	}
}

func TestDetectDataType(t *testing.T) {
	tests := []struct {
		value string
		want  DataType
	}{
		{"", TypeEmpty},
		{"   ", TypeEmpty},
		{"42", TypeNumber},
		{"-3.14", TypeNumber},
		{"2.5e-3", TypeNumber},
		{"12/25/2024", TypeDate},
		{"13/45/2024", TypeDate}, // date-shaped wins even when unparseable
		{"hello", TypeText},
		{"42 apples", TypeText},
		// Formula is never auto-detected; "=SUM(A1:A5)" stays text until a
		// caller explicitly classifies it as a formula.
		{"=SUM(A1:A5)", TypeText},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, DetectDataType(tc.value), "DetectDataType(%q)", tc.value)
	}
}

func TestClassifyNumbers(t *testing.T) {
	res := Classify("42")
	assert.Equal(t, TypeNumber, res.DetectedType)
	assert.True(t, res.IsValid)
	assert.Equal(t, "42", res.FormattedValue)

	// Integer-valued floats render without a decimal point.
	res = Classify("42.0")
	assert.Equal(t, "42", res.FormattedValue)

	res = Classify("3.14159")
	assert.Equal(t, "3.14159", res.FormattedValue)

	// Scientific notation normalizes through the float form.
	res = Classify("1e3")
	assert.Equal(t, TypeNumber, res.DetectedType)
	assert.Equal(t, "1000", res.FormattedValue)

	res = ClassifyAs("12a", TypeNumber)
	assert.False(t, res.IsValid)
	assert.Contains(t, res.Errors, "Invalid number format")
}

func TestClassifyDates(t *testing.T) {
	res := Classify("12/25/2024")
	assert.Equal(t, TypeDate, res.DetectedType)
	assert.True(t, res.IsValid)
	// Valid dates keep their original form.
	assert.Equal(t, "12/25/2024", res.FormattedValue)

	res = Classify("2024-13-01")
	assert.Equal(t, TypeDate, res.DetectedType)
	assert.False(t, res.IsValid)
	assert.Contains(t, res.Errors,
		"Invalid date format. Use MM/DD/YYYY, YYYY-MM-DD, or similar")
}

func TestClassifyText(t *testing.T) {
	res := Classify("hello world")
	assert.Equal(t, TypeText, res.DetectedType)
	assert.True(t, res.IsValid)

	long := strings.Repeat("x", MaxTextLength+1)
	res = Classify(long)
	assert.Equal(t, TypeText, res.DetectedType)
	assert.False(t, res.IsValid)
	assert.Contains(t, res.Errors, "Text too long (max 1000 characters)")

	exact := strings.Repeat("x", MaxTextLength)
	assert.True(t, Classify(exact).IsValid)

	// Special characters are ordinary text.
	res = Classify("héllo wörld 你好 🎉")
	assert.Equal(t, TypeText, res.DetectedType)
	assert.True(t, res.IsValid)
}

func TestClassifyEmpty(t *testing.T) {
	res := Classify("")
	assert.Equal(t, TypeEmpty, res.DetectedType)
	assert.True(t, res.IsValid)
	assert.Empty(t, res.FormattedValue)

	res = Classify("   ")
	assert.Equal(t, TypeEmpty, res.DetectedType)
	assert.Empty(t, res.FormattedValue)
}
