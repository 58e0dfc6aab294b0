// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

import "testing"

func TestParseCellRef(t *testing.T) {
	tests := []struct {
		id   string
		col  int
		row  int
		fail bool
	}{
		{id: "A1", col: 0, row: 0},
		{id: "B2", col: 1, row: 1},
		{id: "Z1", col: 25, row: 0},
		{id: "AA1", col: 26, row: 0},
		{id: "AZ1", col: 51, row: 0},
		{id: "BA1", col: 52, row: 0},
		{id: "AB120", col: 27, row: 119},
		{id: "", fail: true},
		{id: "A", fail: true},
		{id: "1", fail: true},
		{id: "1A", fail: true},
		{id: "a1", fail: true},
		{id: "A0", fail: true},
		{id: "A-1", fail: true},
		{id: "A1B", fail: true},
		{id: " A1", fail: true},
	}

	for _, tc := range tests {
		t.Run(tc.id, func(t *testing.T) {
			ref, err := ParseCellRef(tc.id)
			if tc.fail {
				if err == nil {
					t.Fatalf("ParseCellRef(%q) = %v, want error", tc.id, ref)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCellRef(%q) error: %v", tc.id, err)
			}
			if ref.Col != tc.col || ref.Row != tc.row {
				t.Errorf("ParseCellRef(%q) = (%d,%d), want (%d,%d)",
					tc.id, ref.Col, ref.Row, tc.col, tc.row)
			}
		})
	}
}

func TestCellIDRoundTrip(t *testing.T) {
	// Every coordinate in a generous window must survive encode/decode.
	for col := 0; col < 60; col++ {
		for row := 0; row < 120; row += 7 {
			id := CellID(col, row)
			ref, err := ParseCellRef(id)
			if err != nil {
				t.Fatalf("ParseCellRef(CellID(%d,%d)=%q) error: %v", col, row, id, err)
			}
			if ref.Col != col || ref.Row != row {
				t.Fatalf("round trip (%d,%d) -> %q -> (%d,%d)", col, row, id, ref.Col, ref.Row)
			}
		}
	}
}

func TestCellIDMultiLetter(t *testing.T) {
	tests := []struct {
		col, row int
		want     string
	}{
		{0, 0, "A1"},
		{25, 0, "Z1"},
		{26, 0, "AA1"},
		{51, 9, "AZ10"},
		{52, 0, "BA1"},
		{701, 0, "ZZ1"},
		{702, 0, "AAA1"},
	}
	for _, tc := range tests {
		if got := CellID(tc.col, tc.row); got != tc.want {
			t.Errorf("CellID(%d,%d) = %q, want %q", tc.col, tc.row, got, tc.want)
		}
	}
}

func TestParseRangeRef(t *testing.T) {
	start, end, err := ParseRangeRef("A1:B10")
	if err != nil {
		t.Fatalf("ParseRangeRef error: %v", err)
	}
	if start != (CellRef{Col: 0, Row: 0}) || end != (CellRef{Col: 1, Row: 9}) {
		t.Errorf("ParseRangeRef(A1:B10) = %v, %v", start, end)
	}

	for _, bad := range []string{"A1", "A1:B2:C3", ":B2", "A1:", "a1:B2"} {
		if _, _, err := ParseRangeRef(bad); err == nil {
			t.Errorf("ParseRangeRef(%q) succeeded, want error", bad)
		}
	}
}
