// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package grid

import (
	"sort"
	"strconv"
	"strings"

	"github.com/jinterlante1206/AleutianGrid/services/sheet/datatypes"
)

// sortRow is one participating row: its original index and every occupied
// cell in it, keyed by column.
type sortRow struct {
	originalRow int
	cells       map[int]datatypes.CellRecord

	// Sort key: numeric values group before string values regardless of
	// direction; desc reverses the full tuple ordering afterwards.
	isString bool
	numKey   float64
	strKey   string
}

// SortByColumn sorts the document by the values in column col.
//
// Only rows with a non-blank value in col participate; they are re-emitted
// contiguously starting at row 0, each carrying every cell of its row across
// the full column span. Rows with col blank keep their original coordinates
// untouched. When the sheet had gaps this can collide with re-emitted rows;
// the sorted write wins. That last-write-wins overlap is inherited behavior
// whose desired semantics are ambiguous, so it is kept as-is.
//
// Descending is the exact reverse of the full ascending sequence, so rows
// with equal keys also come out in reversed relative order, and the string
// group precedes the numeric group.
//
// An empty direction is the clear-sort signal: the document is not mutated.
// A column index outside the populated range simply yields zero participants.
func (s *Store) SortByColumn(col int, direction string) {
	if direction == "" {
		return
	}

	byRow := make(map[int]map[int]datatypes.CellRecord)
	for id, rec := range s.doc.Cells {
		ref, err := datatypes.ParseCellRef(id)
		if err != nil {
			continue
		}
		if byRow[ref.Row] == nil {
			byRow[ref.Row] = make(map[int]datatypes.CellRecord)
		}
		byRow[ref.Row][ref.Col] = rec
	}

	var participants []sortRow
	for r := 0; r < s.doc.Rows; r++ {
		rowCells, ok := byRow[r]
		if !ok {
			continue
		}
		keyCell, ok := rowCells[col]
		if !ok || strings.TrimSpace(keyCell.Value) == "" {
			continue
		}

		sr := sortRow{originalRow: r, cells: rowCells}
		key := strings.TrimSpace(keyCell.Value)
		if f, err := strconv.ParseFloat(key, 64); err == nil {
			sr.numKey = f
		} else {
			sr.isString = true
			sr.strKey = strings.ToLower(key)
		}
		participants = append(participants, sr)
	}
	if len(participants) == 0 {
		return
	}

	sort.SliceStable(participants, func(i, j int) bool {
		a, b := participants[i], participants[j]
		if a.isString != b.isString {
			return !a.isString
		}
		if a.isString {
			return a.strKey < b.strKey
		}
		return a.numKey < b.numKey
	})
	if direction == datatypes.SortDesc {
		for i, j := 0, len(participants)-1; i < j; i, j = i+1, j-1 {
			participants[i], participants[j] = participants[j], participants[i]
		}
	}

	participating := make(map[int]bool, len(participants))
	for _, sr := range participants {
		participating[sr.originalRow] = true
	}

	// Untouched rows first, then sorted rows, so a coordinate collision
	// resolves in favor of the sorted write.
	fresh := make(map[string]datatypes.CellRecord, len(s.doc.Cells))
	for id, rec := range s.doc.Cells {
		if _, err := datatypes.ParseCellRef(id); err != nil {
			fresh[id] = rec
		}
	}
	for r, rowCells := range byRow {
		if participating[r] {
			continue
		}
		for c, rec := range rowCells {
			fresh[datatypes.CellID(c, r)] = rec
		}
	}
	for dest, sr := range participants {
		for c, rec := range sr.cells {
			fresh[datatypes.CellID(c, dest)] = rec
		}
	}

	s.doc.Cells = fresh
	s.touch()
}
