// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// cellRefPattern matches a full cell reference: a run of uppercase column
// letters followed by a 1-based row number, e.g. "A1", "AB120".
var cellRefPattern = regexp.MustCompile(`^([A-Z]+)([0-9]+)$`)

// CellRef is a zero-based (column, row) grid coordinate.
type CellRef struct {
	Col int
	Row int
}

// ParseCellRef parses a cell id like "A1" into its zero-based coordinate.
//
// The column letters are a bijective base-26 numeral (A=1 .. Z=26, AA=27),
// the row digits are 1-based. Anything that does not match the full
// `[A-Z]+[0-9]+` shape is rejected.
func ParseCellRef(id string) (CellRef, error) {
	m := cellRefPattern.FindStringSubmatch(id)
	if m == nil {
		return CellRef{}, fmt.Errorf("invalid cell reference %q", id)
	}

	col := 0
	for _, ch := range m[1] {
		col = col*26 + int(ch-'A') + 1
	}

	row, err := strconv.Atoi(m[2])
	if err != nil {
		// Only reachable for absurdly long digit runs that overflow int.
		return CellRef{}, fmt.Errorf("invalid row in cell reference %q: %w", id, err)
	}
	if row < 1 {
		return CellRef{}, fmt.Errorf("invalid row in cell reference %q: rows are 1-based", id)
	}

	return CellRef{Col: col - 1, Row: row - 1}, nil
}

// CellID renders a zero-based coordinate as a cell id, the inverse of
// ParseCellRef. CellID(CellRef{26, 0}) == "AA1".
func CellID(col, row int) string {
	var sb strings.Builder
	letters := ""
	n := col + 1
	for n > 0 {
		n--
		letters = string(rune('A'+n%26)) + letters
		n /= 26
	}
	sb.WriteString(letters)
	sb.WriteString(strconv.Itoa(row + 1))
	return sb.String()
}

// String renders the reference as its cell id.
func (r CellRef) String() string {
	return CellID(r.Col, r.Row)
}

// ParseRangeRef parses a rectangular range like "A1:B10". The string must
// contain exactly one ':' and both endpoints must be valid cell references.
func ParseRangeRef(rangeStr string) (start, end CellRef, err error) {
	parts := strings.Split(rangeStr, ":")
	if len(parts) != 2 {
		return CellRef{}, CellRef{}, fmt.Errorf("invalid range %q: want start:end", rangeStr)
	}
	start, err = ParseCellRef(parts[0])
	if err != nil {
		return CellRef{}, CellRef{}, fmt.Errorf("invalid range %q: %w", rangeStr, err)
	}
	end, err = ParseCellRef(parts[1])
	if err != nil {
		return CellRef{}, CellRef{}, fmt.Errorf("invalid range %q: %w", rangeStr, err)
	}
	return start, end, nil
}
