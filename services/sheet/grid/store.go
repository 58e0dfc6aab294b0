// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package grid owns the authoritative in-memory document and the structural
// edit algorithms that remap cell coordinates.
//
// # Thread Safety
//
// Store is NOT internally synchronized. The whole document runs under a
// single coarse critical section owned by the collab hub: every mutating
// event is processed to completion, and broadcast snapshots are taken inside
// the same section, before the next mutation begins. Fine-grained locking
// buys nothing here — the grid is bounded to tens of thousands of cells and
// full-scan operations finish in microseconds to low milliseconds.
package grid

import (
	"time"

	"github.com/jinterlante1206/AleutianGrid/services/sheet/datatypes"
)

// Store holds the single shared document.
type Store struct {
	doc *datatypes.Grid
}

// NewStore returns a store holding a fresh default document.
func NewStore() *Store {
	return &Store{doc: datatypes.NewGrid()}
}

// Get returns the record for a cell id. ok is false for logically empty
// cells (sparse map, absent means empty).
func (s *Store) Get(cellID string) (datatypes.CellRecord, bool) {
	rec, ok := s.doc.Cells[cellID]
	return rec, ok
}

// Set classifies raw and stores the resulting record under cellID, replacing
// any previous record whole. Invalid values are stored regardless — the
// record is only flagged, so collaborators see what was typed.
func (s *Store) Set(cellID, raw, author string) datatypes.CellRecord {
	res := datatypes.Classify(raw)
	rec := datatypes.CellRecord{
		Value:            res.FormattedValue,
		OriginalValue:    raw,
		DataType:         res.DetectedType,
		IsValid:          res.IsValid,
		ValidationErrors: res.Errors,
		LastModifiedBy:   author,
		LastModifiedAt:   time.Now().UTC(),
	}
	s.doc.Cells[cellID] = rec
	s.touch()
	return rec
}

// Snapshot returns a deep, point-in-time copy of the document. Export and
// broadcast never alias the live cell map, so a snapshot stays consistent
// even mid-edit-stream.
func (s *Store) Snapshot() *datatypes.Grid {
	return s.doc.Clone()
}

// Cells returns a deep copy of the occupied cell map, for full-replace
// broadcasts.
func (s *Store) Cells() map[string]datatypes.CellRecord {
	return s.doc.Clone().Cells
}

// Replace swaps the whole document, used by load, import and reset. The
// store takes ownership of g.
func (s *Store) Replace(g *datatypes.Grid) {
	if g.Cells == nil {
		g.Cells = make(map[string]datatypes.CellRecord)
	}
	s.doc = g
}

// Reset reinitializes the document to the empty default extent.
func (s *Store) Reset() {
	s.doc = datatypes.NewGrid()
}

// SetTitle updates the document title.
func (s *Store) SetTitle(title string) {
	s.doc.Metadata.Title = title
	s.touch()
}

// Title returns the current document title.
func (s *Store) Title() string {
	return s.doc.Metadata.Title
}

func (s *Store) touch() {
	s.doc.Metadata.LastModified = time.Now().UTC()
}
