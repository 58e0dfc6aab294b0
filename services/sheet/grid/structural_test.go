// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cellValues flattens the occupied cells to id -> formatted value, which is
// all the structural assertions care about.
func cellValues(s *Store) map[string]string {
	out := make(map[string]string)
	for id, rec := range s.Snapshot().Cells {
		out[id] = rec.Value
	}
	return out
}

func TestInsertRowShiftsDown(t *testing.T) {
	s := NewStore()
	s.Set("A1", "r0", "u")
	s.Set("A2", "r1", "u")
	s.Set("A3", "r2", "u")
	rows := s.Snapshot().Rows

	s.InsertRow(1)

	assert.Equal(t, map[string]string{
		"A1": "r0",
		"A3": "r1",
		"A4": "r2",
	}, cellValues(s))
	assert.Equal(t, rows+1, s.Snapshot().Rows)
}

func TestDeleteRowDropsAndShiftsUp(t *testing.T) {
	s := NewStore()
	s.Set("A1", "r0", "u")
	s.Set("B2", "r1", "u")
	s.Set("C3", "r2", "u")
	rows := s.Snapshot().Rows

	s.DeleteRow(1)

	assert.Equal(t, map[string]string{
		"A1": "r0",
		"C2": "r2",
	}, cellValues(s))
	assert.Equal(t, rows-1, s.Snapshot().Rows)
}

func TestInsertColumnShiftsRight(t *testing.T) {
	s := NewStore()
	s.Set("A1", "c0", "u")
	s.Set("B1", "c1", "u")
	s.Set("Z1", "c25", "u")
	cols := s.Snapshot().Columns

	s.InsertColumn(1)

	// Z shifts into the multi-letter range.
	assert.Equal(t, map[string]string{
		"A1":  "c0",
		"C1":  "c1",
		"AA1": "c25",
	}, cellValues(s))
	assert.Equal(t, cols+1, s.Snapshot().Columns)
}

func TestDeleteColumnDropsAndShiftsLeft(t *testing.T) {
	s := NewStore()
	s.Set("A1", "c0", "u")
	s.Set("B1", "c1", "u")
	s.Set("AA2", "c26", "u")

	s.DeleteColumn(1)

	assert.Equal(t, map[string]string{
		"A1": "c0",
		"Z2": "c26",
	}, cellValues(s))
}

func TestInsertThenDeleteRowIsIdentity(t *testing.T) {
	s := NewStore()
	s.Set("A1", "a", "u")
	s.Set("B5", "b", "u")
	s.Set("AA10", "c", "u")
	before := cellValues(s)
	rows := s.Snapshot().Rows

	s.InsertRow(3)
	s.DeleteRow(3)

	assert.Equal(t, before, cellValues(s))
	assert.Equal(t, rows, s.Snapshot().Rows)
}

func TestInsertThenDeleteColumnIsIdentity(t *testing.T) {
	s := NewStore()
	s.Set("A1", "a", "u")
	s.Set("D4", "b", "u")
	before := cellValues(s)
	cols := s.Snapshot().Columns

	s.InsertColumn(2)
	s.DeleteColumn(2)

	assert.Equal(t, before, cellValues(s))
	assert.Equal(t, cols, s.Snapshot().Columns)
}

func TestDeleteRowAtZero(t *testing.T) {
	s := NewStore()
	s.Set("A1", "gone", "u")
	s.Set("A2", "stays", "u")

	s.DeleteRow(0)

	vals := cellValues(s)
	require.Len(t, vals, 1)
	assert.Equal(t, "stays", vals["A1"])
}

func TestStructuralEditDoesNotRewriteFormulaText(t *testing.T) {
	s := NewStore()
	s.Set("A1", "1", "u")
	s.Set("C1", "=SUM(A1:A5)", "u")

	s.InsertRow(0)

	// The formula cell moves but its text is untouched.
	got, ok := s.Get("C2")
	require.True(t, ok)
	assert.Equal(t, "=SUM(A1:A5)", got.OriginalValue)
}
