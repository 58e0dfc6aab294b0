// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package xlsx converts between the grid and an Excel workbook. Only values
// survive the trip: styling, merges and formulas beyond their literal text
// are out of scope for a collaborative grid snapshot.
package xlsx

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/unidoc/unioffice/spreadsheet"
	"github.com/unidoc/unioffice/spreadsheet/reference"

	"github.com/jinterlante1206/AleutianGrid/services/sheet/datatypes"
	sheetgrid "github.com/jinterlante1206/AleutianGrid/services/sheet/grid"
)

// Export writes the grid as a single-sheet workbook. Number cells are
// written as numbers so spreadsheet applications treat them natively;
// everything else is written as its formatted string.
func Export(g *datatypes.Grid, w io.Writer) error {
	wb := spreadsheet.New()
	sheet := wb.AddSheet()
	sheet.SetName(sheetName(g.Metadata.Title))

	for id, rec := range g.Cells {
		if rec.Value == "" {
			continue
		}
		if _, err := datatypes.ParseCellRef(id); err != nil {
			continue
		}
		cell := sheet.Cell(id)
		if rec.DataType == datatypes.TypeNumber {
			if f, err := strconv.ParseFloat(rec.Value, 64); err == nil {
				cell.SetNumber(f)
				continue
			}
		}
		cell.SetString(rec.Value)
	}

	if err := wb.Save(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Import reads the first sheet of a workbook into a fresh grid. Every value
// runs through the classifier and is attributed to the system author.
func Import(r io.ReaderAt, size int64) (*datatypes.Grid, error) {
	wb, err := spreadsheet.Read(r, size)
	if err != nil {
		return nil, fmt.Errorf("read workbook: %w", err)
	}
	sheets := wb.Sheets()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	sheet := sheets[0]

	store := sheetgrid.NewStore()
	maxRow, maxCol := -1, -1
	for _, row := range sheet.Rows() {
		rowIdx := int(row.RowNumber()) - 1
		for _, cell := range row.Cells() {
			colName, err := cell.Column()
			if err != nil {
				continue
			}
			colIdx := int(reference.ColumnToIndex(colName))
			value := cell.GetFormattedValue()
			if strings.TrimSpace(value) == "" {
				continue
			}
			store.Set(datatypes.CellID(colIdx, rowIdx), value, datatypes.SystemAuthor)
			if rowIdx > maxRow {
				maxRow = rowIdx
			}
			if colIdx > maxCol {
				maxCol = colIdx
			}
		}
	}

	g := store.Snapshot()
	if name := sheet.Name(); name != "" {
		g.Metadata.Title = name
	}
	if maxRow+1 > g.Rows {
		g.Rows = maxRow + 1
	}
	if maxCol+1 > g.Columns {
		g.Columns = maxCol + 1
	}
	return g, nil
}

// sheetName trims a document title to Excel's 31-character sheet name limit
// and strips the characters Excel rejects.
func sheetName(title string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return ' '
		}
		return r
	}, title)
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		cleaned = "Sheet1"
	}
	if len(cleaned) > 31 {
		cleaned = cleaned[:31]
	}
	return cleaned
}
