// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DataType classifies the semantic type of a cell value.
type DataType string

const (
	TypeEmpty   DataType = "empty"
	TypeNumber  DataType = "number"
	TypeDate    DataType = "date"
	TypeText    DataType = "text"
	TypeFormula DataType = "formula"
)

// MaxTextLength is the longest text value considered valid. Longer values
// are still stored, only flagged.
const MaxTextLength = 1000

// numberPattern allows integers, decimals, negative numbers, and scientific
// notation. Classification order matters: number-shaped strings are never
// reclassified as date or text.
var numberPattern = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// dateShapePatterns match strings that look like dates format-wise, even if
// the date itself is impossible (month 13). Shape detection and parse
// validity are deliberately decoupled so a client can render a date-typed
// but flagged cell.
var dateShapePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`), // MM/DD/YYYY or M/D/YYYY
	regexp.MustCompile(`^\d{1,2}-\d{1,2}-\d{4}$`), // MM-DD-YYYY or M-D-YYYY
	regexp.MustCompile(`^\d{4}-\d{1,2}-\d{1,2}$`), // YYYY-MM-DD or YYYY-M-D
	regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{2}$`), // MM/DD/YY or M/D/YY
}

// dateLayouts are the parse layouts matching dateShapePatterns. Go's
// non-padded reference layouts accept both padded and unpadded fields.
var dateLayouts = []string{"1/2/2006", "1-2-2006", "2006-1-2", "1/2/06"}

// ValidationResult is the outcome of classifying a raw cell value.
type ValidationResult struct {
	DetectedType   DataType `json:"detected_type"`
	IsValid        bool     `json:"is_valid"`
	Errors         []string `json:"errors"`
	FormattedValue string   `json:"formatted_value"`
}

// IsValidNumber reports whether s is a number: it must match the numeric
// grammar and parse as a finite float.
func IsValidNumber(s string) bool {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || !numberPattern.MatchString(trimmed) {
		return false
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	return err == nil && !math.IsInf(f, 0) && !math.IsNaN(f)
}

// LooksLikeDate reports whether s matches one of the supported date shapes,
// regardless of whether the date actually exists.
func LooksLikeDate(s string) bool {
	trimmed := strings.TrimSpace(s)
	for _, p := range dateShapePatterns {
		if p.MatchString(trimmed) {
			return true
		}
	}
	return false
}

// IsValidDate reports whether s is date-shaped and parses strictly.
func IsValidDate(s string) bool {
	trimmed := strings.TrimSpace(s)
	if !LooksLikeDate(trimmed) {
		return false
	}
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, trimmed); err == nil {
			return true
		}
	}
	return false
}

// DetectDataType infers the semantic type of a raw value. The auto path
// never yields TypeFormula, even for "=..." input; formula classification
// is only available when explicitly requested via ClassifyAs.
func DetectDataType(raw string) DataType {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return TypeEmpty
	}
	if IsValidNumber(trimmed) {
		return TypeNumber
	}
	if LooksLikeDate(trimmed) {
		return TypeDate
	}
	return TypeText
}

// Classify infers the type of raw and validates it under that type.
func Classify(raw string) ValidationResult {
	return ClassifyAs(raw, DetectDataType(raw))
}

// ClassifyAs validates raw under an explicitly requested type. A
// ValidationResult with IsValid=false never blocks a write; the caller
// stores the record and lets collaborators see what was typed.
func ClassifyAs(raw string, expected DataType) ValidationResult {
	trimmed := strings.TrimSpace(raw)

	result := ValidationResult{
		DetectedType:   DetectDataType(raw),
		IsValid:        true,
		Errors:         []string{},
		FormattedValue: trimmed,
	}

	if trimmed == "" {
		result.DetectedType = TypeEmpty
		result.FormattedValue = ""
		return result
	}

	switch expected {
	case TypeNumber:
		f, err := strconv.ParseFloat(trimmed, 64)
		if !IsValidNumber(trimmed) || err != nil {
			result.IsValid = false
			result.Errors = append(result.Errors, "Invalid number format")
			break
		}
		result.FormattedValue = formatNumber(f)

	case TypeDate:
		if !IsValidDate(trimmed) {
			result.IsValid = false
			result.Errors = append(result.Errors,
				"Invalid date format. Use MM/DD/YYYY, YYYY-MM-DD, or similar")
		}
		// Valid dates keep the original trimmed form, no normalization.

	case TypeText:
		if len(trimmed) > MaxTextLength {
			result.IsValid = false
			result.Errors = append(result.Errors, "Text too long (max 1000 characters)")
		}

	case TypeEmpty:
		result.FormattedValue = ""

	case TypeFormula:
		result.DetectedType = TypeFormula
	}

	return result
}

// formatNumber renders integer-valued floats without a decimal point or
// exponent, everything else via the shortest default representation.
func formatNumber(f float64) string {
	if f == math.Trunc(f) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
