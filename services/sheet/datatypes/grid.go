// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package datatypes defines the shared document model for the sheet service:
// cell references, the value classifier, the grid itself, and the websocket
// event payloads exchanged with collaborating clients.
package datatypes

import "time"

// SystemAuthor attributes writes that did not come from a joined user
// (imports, snapshot loads, resets).
const SystemAuthor = "system"

// Default minimum visible extent for a fresh document (columns A-Z, 100 rows).
const (
	DefaultColumns = 26
	DefaultRows    = 100
)

// DefaultTitle is the metadata title of a fresh document.
const DefaultTitle = "Untitled Spreadsheet"

// CellRecord is the stored state of one cell. Records are replaced whole on
// every write; there is no partial merge.
type CellRecord struct {
	// Value is the formatted value produced by the classifier.
	Value string `json:"value"`
	// OriginalValue is what the user actually typed, stored verbatim even
	// when validation flags it.
	OriginalValue    string   `json:"original_value"`
	DataType         DataType `json:"data_type"`
	IsValid          bool     `json:"is_valid"`
	ValidationErrors []string `json:"validation_errors"`
	// LastModifiedBy is a logical user id, or SystemAuthor.
	LastModifiedBy string    `json:"last_modified_by"`
	LastModifiedAt time.Time `json:"last_modified_at"`
}

// GridMetadata carries document-level bookkeeping.
type GridMetadata struct {
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"created_at"`
	LastModified time.Time `json:"last_modified"`
}

// Grid is the whole-document state. Cells is sparse: an absent id is a
// logically empty cell. Columns and Rows are a minimum visible extent, not a
// hard bound — ids beyond them are accepted and stored.
type Grid struct {
	Cells    map[string]CellRecord `json:"cells"`
	Columns  int                   `json:"columns"`
	Rows     int                   `json:"rows"`
	Metadata GridMetadata          `json:"metadata"`
}

// NewGrid returns a fresh empty document with the default extent.
func NewGrid() *Grid {
	now := time.Now().UTC()
	return &Grid{
		Cells:   make(map[string]CellRecord),
		Columns: DefaultColumns,
		Rows:    DefaultRows,
		Metadata: GridMetadata{
			Title:        DefaultTitle,
			CreatedAt:    now,
			LastModified: now,
		},
	}
}

// Clone returns a deep, point-in-time copy with no aliasing of the cell map
// or the per-record error slices.
func (g *Grid) Clone() *Grid {
	cells := make(map[string]CellRecord, len(g.Cells))
	for id, rec := range g.Cells {
		if rec.ValidationErrors != nil {
			errs := make([]string, len(rec.ValidationErrors))
			copy(errs, rec.ValidationErrors)
			rec.ValidationErrors = errs
		}
		cells[id] = rec
	}
	clone := *g
	clone.Cells = cells
	return &clone
}
