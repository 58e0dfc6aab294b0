// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package grid

import (
	"github.com/jinterlante1206/AleutianGrid/services/sheet/datatypes"
)

// Structural edits are single-pass remaps over the occupied cells: decode
// every id, apply a coordinate transform, re-encode into a fresh map. Never
// in place — a cell moving onto a position another cell is read from in the
// same pass must not alias.
//
// Structural edits do not rewrite formula text referencing shifted cells.
// That matches the minimal formula support; fixing references is out of
// scope until formulas grow a real dependency model.

// InsertRow shifts every occupied cell with row >= index down by one, leaving
// the inserted row empty.
func (s *Store) InsertRow(index int) {
	s.remap(func(ref datatypes.CellRef) (datatypes.CellRef, bool) {
		if ref.Row >= index {
			ref.Row++
		}
		return ref, true
	})
	s.doc.Rows++
	s.touch()
}

// DeleteRow drops every cell in the row and shifts cells below it up by one.
func (s *Store) DeleteRow(index int) {
	s.remap(func(ref datatypes.CellRef) (datatypes.CellRef, bool) {
		switch {
		case ref.Row == index:
			return ref, false
		case ref.Row > index:
			ref.Row--
		}
		return ref, true
	})
	if s.doc.Rows > 0 {
		s.doc.Rows--
	}
	s.touch()
}

// InsertColumn shifts every occupied cell with column >= index right by one.
func (s *Store) InsertColumn(index int) {
	s.remap(func(ref datatypes.CellRef) (datatypes.CellRef, bool) {
		if ref.Col >= index {
			ref.Col++
		}
		return ref, true
	})
	s.doc.Columns++
	s.touch()
}

// DeleteColumn drops every cell in the column and shifts cells right of it
// left by one.
func (s *Store) DeleteColumn(index int) {
	s.remap(func(ref datatypes.CellRef) (datatypes.CellRef, bool) {
		switch {
		case ref.Col == index:
			return ref, false
		case ref.Col > index:
			ref.Col--
		}
		return ref, true
	})
	if s.doc.Columns > 0 {
		s.doc.Columns--
	}
	s.touch()
}

// remap rebuilds the cell map by pushing every occupied coordinate through
// transform. A false second return drops the cell. Ids that fail to decode
// should not exist; they are carried over untouched rather than lost.
func (s *Store) remap(transform func(datatypes.CellRef) (datatypes.CellRef, bool)) {
	fresh := make(map[string]datatypes.CellRecord, len(s.doc.Cells))
	for id, rec := range s.doc.Cells {
		ref, err := datatypes.ParseCellRef(id)
		if err != nil {
			fresh[id] = rec
			continue
		}
		moved, keep := transform(ref)
		if !keep {
			continue
		}
		fresh[moved.String()] = rec
	}
	s.doc.Cells = fresh
}
