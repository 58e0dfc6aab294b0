// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package tabular converts between the grid and a flat CSV representation.
// The first CSV row maps to grid row 0 (the header cells), values containing
// commas or quotes are quote-wrapped per RFC 4180.
package tabular

import (
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/jinterlante1206/AleutianGrid/services/sheet/datatypes"
	sheetgrid "github.com/jinterlante1206/AleutianGrid/services/sheet/grid"
)

// Parse converts CSV text into a fresh grid. Every non-empty field runs
// through the value classifier and is attributed to the system author. The
// extent is the default minimum, grown when the data exceeds it.
func Parse(text string) (*datatypes.Grid, error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1 // ragged rows are fine
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	store := sheetgrid.NewStore()
	maxCols := 0
	for r, record := range records {
		if len(record) > maxCols {
			maxCols = len(record)
		}
		for c, field := range record {
			if strings.TrimSpace(field) == "" {
				continue
			}
			store.Set(datatypes.CellID(c, r), field, datatypes.SystemAuthor)
		}
	}

	g := store.Snapshot()
	if len(records) > g.Rows {
		g.Rows = len(records)
	}
	if maxCols > g.Columns {
		g.Columns = maxCols
	}
	return g, nil
}

// Render converts a grid into CSV text covering the occupied bounding box.
// Only cell values survive the trip; types and validation flags are
// re-derived on import.
func Render(g *datatypes.Grid) (string, error) {
	maxRow, maxCol := -1, -1
	for id, rec := range g.Cells {
		if rec.Value == "" {
			continue
		}
		ref, err := datatypes.ParseCellRef(id)
		if err != nil {
			continue
		}
		if ref.Row > maxRow {
			maxRow = ref.Row
		}
		if ref.Col > maxCol {
			maxCol = ref.Col
		}
	}
	if maxRow < 0 {
		return "", nil
	}

	var sb strings.Builder
	writer := csv.NewWriter(&sb)
	record := make([]string, maxCol+1)
	for r := 0; r <= maxRow; r++ {
		for c := 0; c <= maxCol; c++ {
			if rec, ok := g.Cells[datatypes.CellID(c, r)]; ok {
				record[c] = rec.Value
			} else {
				record[c] = ""
			}
		}
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("render csv: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("render csv: %w", err)
	}
	return sb.String(), nil
}
