// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package formula evaluates the minimal formula surface: SUM, AVERAGE and
// COUNT over a single rectangular range. This is deliberately not a formula
// language — no operator precedence, no dependency graph, no recalculation
// ordering. Structural edits never rewrite formula text.
package formula

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jinterlante1206/AleutianGrid/services/sheet/datatypes"
)

// ErrorToken is what display layers render when evaluation fails.
const ErrorToken = "#ERROR!"

// ErrNotFormula marks input that does not start with '='.
var ErrNotFormula = errors.New("not a formula")

// ErrInvalidSyntax marks input that is '='-prefixed but not FN(args).
var ErrInvalidSyntax = errors.New("invalid formula syntax")

var formulaPattern = regexp.MustCompile(`^=(\w+)\((.*)\)$`)

// IsFormula reports whether a raw value is formula-shaped.
func IsFormula(raw string) bool {
	return strings.HasPrefix(raw, "=")
}

// parsed is the function name and raw argument list of a formula.
type parsed struct {
	name string
	args []string
}

func parse(raw string) (parsed, error) {
	if !IsFormula(raw) {
		return parsed{}, ErrNotFormula
	}
	m := formulaPattern.FindStringSubmatch(raw)
	if m == nil {
		return parsed{}, ErrInvalidSyntax
	}
	args := strings.Split(m[2], ",")
	for i := range args {
		args[i] = strings.TrimSpace(args[i])
	}
	return parsed{name: strings.ToUpper(m[1]), args: args}, nil
}

// rangeValues extracts the numeric values of a range. Number cells
// contribute their float value; text cells contribute when float-parsable;
// everything else is skipped.
func rangeValues(rangeStr string, g *datatypes.Grid) ([]float64, error) {
	start, end, err := datatypes.ParseRangeRef(rangeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid cell range: %w", err)
	}

	var values []float64
	for row := min(start.Row, end.Row); row <= max(start.Row, end.Row); row++ {
		for col := min(start.Col, end.Col); col <= max(start.Col, end.Col); col++ {
			rec, ok := g.Cells[datatypes.CellID(col, row)]
			if !ok {
				continue
			}
			switch rec.DataType {
			case datatypes.TypeNumber, datatypes.TypeText:
				if f, err := strconv.ParseFloat(rec.Value, 64); err == nil {
					values = append(values, f)
				}
			}
		}
	}
	return values, nil
}

// Evaluate runs a formula against a grid snapshot. Unsupported functions,
// wrong arity, and bad ranges come back as errors, never panics.
func Evaluate(raw string, g *datatypes.Grid) (float64, error) {
	p, err := parse(raw)
	if err != nil {
		return 0, err
	}

	switch p.name {
	case "SUM", "AVERAGE", "COUNT":
		if len(p.args) != 1 {
			return 0, fmt.Errorf("%s requires exactly 1 argument", p.name)
		}
	default:
		return 0, fmt.Errorf("unsupported function: %s", p.name)
	}

	values, err := rangeValues(p.args[0], g)
	if err != nil {
		return 0, err
	}

	switch p.name {
	case "SUM":
		var sum float64
		for _, v := range values {
			sum += v
		}
		return sum, nil
	case "AVERAGE":
		if len(values) == 0 {
			return 0, nil
		}
		var sum float64
		for _, v := range values {
			sum += v
		}
		return sum / float64(len(values)), nil
	default: // COUNT
		return float64(len(values)), nil
	}
}

// FormatResult renders an evaluation result the way cells display it: whole
// numbers without decimals, everything else with two.
func FormatResult(result float64) string {
	if result == float64(int64(result)) {
		return strconv.FormatInt(int64(result), 10)
	}
	return strconv.FormatFloat(result, 'f', 2, 64)
}

// Display renders the value a cell should show for a formula, with the fixed
// error token on any failure.
func Display(raw string, g *datatypes.Grid) string {
	result, err := Evaluate(raw, g)
	if err != nil {
		return ErrorToken
	}
	return FormatResult(result)
}
