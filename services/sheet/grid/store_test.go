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

	"github.com/jinterlante1206/AleutianGrid/services/sheet/datatypes"
)

func TestNewStoreDefaults(t *testing.T) {
	s := NewStore()
	snap := s.Snapshot()
	assert.Equal(t, datatypes.DefaultColumns, snap.Columns)
	assert.Equal(t, datatypes.DefaultRows, snap.Rows)
	assert.Equal(t, datatypes.DefaultTitle, snap.Metadata.Title)
	assert.Empty(t, snap.Cells)
}

func TestSetAndGet(t *testing.T) {
	s := NewStore()

	rec := s.Set("A1", "42", "user-1")
	assert.Equal(t, "42", rec.Value)
	assert.Equal(t, "42", rec.OriginalValue)
	assert.Equal(t, datatypes.TypeNumber, rec.DataType)
	assert.True(t, rec.IsValid)
	assert.Equal(t, "user-1", rec.LastModifiedBy)
	assert.False(t, rec.LastModifiedAt.IsZero())

	got, ok := s.Get("A1")
	require.True(t, ok)
	assert.Equal(t, rec, got)

	_, ok = s.Get("B2")
	assert.False(t, ok)
}

func TestSetStoresInvalidValues(t *testing.T) {
	s := NewStore()

	// Invalid input is stored and flagged, never rejected.
	rec := s.Set("A1", "2024-13-01", "user-1")
	assert.Equal(t, datatypes.TypeDate, rec.DataType)
	assert.False(t, rec.IsValid)
	assert.NotEmpty(t, rec.ValidationErrors)

	got, ok := s.Get("A1")
	require.True(t, ok)
	assert.Equal(t, "2024-13-01", got.OriginalValue)
}

func TestSetReplacesRecordWhole(t *testing.T) {
	s := NewStore()
	s.Set("A1", "not a number at all but really long text", "user-1")
	rec := s.Set("A1", "7", "user-2")

	assert.Equal(t, "7", rec.Value)
	assert.Equal(t, datatypes.TypeNumber, rec.DataType)
	assert.Equal(t, "user-2", rec.LastModifiedBy)
	assert.Empty(t, rec.ValidationErrors)
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	s := NewStore()
	s.Set("A1", "hello", "user-1")

	snap := s.Snapshot()
	s.Set("A1", "changed", "user-2")
	s.Set("B1", "new", "user-2")

	assert.Equal(t, "hello", snap.Cells["A1"].Value)
	_, ok := snap.Cells["B1"]
	assert.False(t, ok)

	// Mutating the snapshot must not reach the live document.
	snap.Cells["C1"] = datatypes.CellRecord{Value: "rogue"}
	_, ok = s.Get("C1")
	assert.False(t, ok)
}

func TestSnapshotErrorSlicesDoNotAlias(t *testing.T) {
	s := NewStore()
	s.Set("A1", "13/45/2024", "user-1")

	snap := s.Snapshot()
	errs := snap.Cells["A1"].ValidationErrors
	require.NotEmpty(t, errs)
	errs[0] = "tampered"

	live, _ := s.Get("A1")
	assert.NotEqual(t, "tampered", live.ValidationErrors[0])
}

func TestReplaceAndReset(t *testing.T) {
	s := NewStore()
	s.Set("A1", "keep?", "user-1")

	fresh := datatypes.NewGrid()
	fresh.Metadata.Title = "Imported"
	fresh.Cells["B2"] = datatypes.CellRecord{Value: "v", DataType: datatypes.TypeText, IsValid: true}
	s.Replace(fresh)

	assert.Equal(t, "Imported", s.Title())
	_, ok := s.Get("A1")
	assert.False(t, ok)
	_, ok = s.Get("B2")
	assert.True(t, ok)

	s.Reset()
	assert.Equal(t, datatypes.DefaultTitle, s.Title())
	assert.Empty(t, s.Snapshot().Cells)
	assert.Equal(t, datatypes.DefaultRows, s.Snapshot().Rows)
}

func TestReplaceNilCellMap(t *testing.T) {
	s := NewStore()
	s.Replace(&datatypes.Grid{Columns: 5, Rows: 5})

	// Replace must leave the document writable.
	s.Set("A1", "x", "user-1")
	_, ok := s.Get("A1")
	assert.True(t, ok)
}

func TestSetTitleTouchesLastModified(t *testing.T) {
	s := NewStore()
	before := s.Snapshot().Metadata.LastModified

	s.SetTitle("Q3 Budget")
	assert.Equal(t, "Q3 Budget", s.Title())
	after := s.Snapshot().Metadata.LastModified
	assert.False(t, after.Before(before))
}
