// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jinterlante1206/AleutianGrid/pkg/validation"
	"github.com/jinterlante1206/AleutianGrid/services/sheet/collab"
	"github.com/jinterlante1206/AleutianGrid/services/sheet/formula"
	"github.com/jinterlante1206/AleutianGrid/services/sheet/persistence"
	"github.com/jinterlante1206/AleutianGrid/services/sheet/tabular"
	"github.com/jinterlante1206/AleutianGrid/services/sheet/xlsx"
)

// maxImportBytes bounds import request bodies.
const maxImportBytes = 32 << 20 // 32MB

// HealthCheck reports liveness.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetSheet returns the current document as a consistent snapshot.
func GetSheet(hub *collab.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, hub.Snapshot())
	}
}

// GetUsers returns the active session list.
func GetUsers(hub *collab.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, hub.Users())
	}
}

// ResetSheet reinitializes the document to the empty default extent and
// broadcasts the fresh state to every connection.
func ResetSheet(hub *collab.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		slog.Info("resetting spreadsheet")
		snapshot := hub.Reset()
		c.JSON(http.StatusOK, gin.H{
			"message":     "Spreadsheet reset successfully",
			"spreadsheet": snapshot,
		})
	}
}

// UpdateTitleRequest is the payload for a document title change.
type UpdateTitleRequest struct {
	Title string `json:"title" binding:"required"`
}

// UpdateTitle changes the document title and announces it.
func UpdateTitle(hub *collab.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateTitleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
			return
		}
		hub.SetTitle(req.Title)
		c.JSON(http.StatusOK, gin.H{"title": req.Title})
	}
}

// FormulaRequest is the payload for a server-side formula evaluation.
type FormulaRequest struct {
	Formula string `json:"formula" binding:"required"`
}

// EvaluateFormula evaluates =SUM/AVERAGE/COUNT over the current document.
func EvaluateFormula(hub *collab.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req FormulaRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "formula is required"})
			return
		}
		result, err := formula.Evaluate(req.Formula, hub.Snapshot())
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   err.Error(),
				"display": formula.ErrorToken,
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"result":  result,
			"display": formula.FormatResult(result),
		})
	}
}

// ExportCSV renders the document's occupied bounding box as CSV text.
func ExportCSV(hub *collab.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		text, err := tabular.Render(hub.Snapshot())
		if err != nil {
			slog.Error("csv export failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export CSV"})
			return
		}
		c.Header("Content-Disposition", `attachment; filename="spreadsheet.csv"`)
		c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(text))
	}
}

// ImportCSV replaces the whole document from a CSV body and broadcasts the
// new state. A parse failure leaves the in-memory grid unchanged.
func ImportCSV(hub *collab.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportBytes))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
			return
		}
		g, err := tabular.Parse(string(body))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		hub.ReplaceGrid(g)
		slog.Info("csv imported", "cells", len(g.Cells))
		c.JSON(http.StatusOK, gin.H{"message": "CSV imported successfully", "cells": len(g.Cells)})
	}
}

// ExportXLSX renders the document as an Excel workbook.
func ExportXLSX(hub *collab.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		var buf bytes.Buffer
		if err := xlsx.Export(hub.Snapshot(), &buf); err != nil {
			slog.Error("xlsx export failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export workbook"})
			return
		}
		c.Header("Content-Disposition", `attachment; filename="spreadsheet.xlsx"`)
		c.Data(http.StatusOK,
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			buf.Bytes())
	}
}

// ImportXLSX replaces the whole document from a workbook body.
func ImportXLSX(hub *collab.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportBytes))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
			return
		}
		g, err := xlsx.Import(bytes.NewReader(body), int64(len(body)))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		hub.ReplaceGrid(g)
		slog.Info("xlsx imported", "cells", len(g.Cells))
		c.JSON(http.StatusOK, gin.H{"message": "Workbook imported successfully", "cells": len(g.Cells)})
	}
}

// ListSnapshots lists every saved snapshot with its metadata and size.
func ListSnapshots(store *persistence.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		infos, err := store.List()
		if err != nil {
			slog.Error("failed to list snapshots", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list snapshots"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"snapshots": infos})
	}
}

// SaveSnapshot stores the current document under a name. The grid snapshot
// is taken inside the document critical section, so a save racing an edit
// stream still captures a consistent state.
func SaveSnapshot(hub *collab.Hub, store *persistence.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		name, err := validation.SanitizeSnapshotName(c.Param("name"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := store.Save(name, hub.Snapshot()); err != nil {
			slog.Error("failed to save snapshot", "name", name, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		slog.Info("snapshot saved", "name", name)
		c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Snapshot %q saved", name)})
	}
}

// LoadSnapshot replaces the document from a saved snapshot and broadcasts
// the loaded state.
func LoadSnapshot(hub *collab.Hub, store *persistence.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		name, err := validation.SanitizeSnapshotName(c.Param("name"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		g, err := store.Load(name)
		if errors.Is(err, persistence.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("snapshot %q not found", name)})
			return
		}
		if err != nil {
			slog.Error("failed to load snapshot", "name", name, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		hub.ReplaceGrid(g)
		slog.Info("snapshot loaded", "name", name, "cells", len(g.Cells))
		c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Snapshot %q loaded", name)})
	}
}

// DeleteSnapshot removes a saved snapshot.
func DeleteSnapshot(store *persistence.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		name, err := validation.SanitizeSnapshotName(c.Param("name"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		err = store.Delete(name)
		if errors.Is(err, persistence.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("snapshot %q not found", name)})
			return
		}
		if err != nil {
			slog.Error("failed to delete snapshot", "name", name, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Snapshot %q deleted", name)})
	}
}
