// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jinterlante1206/AleutianGrid/services/sheet/collab"
	"github.com/jinterlante1206/AleutianGrid/services/sheet/handlers"
	"github.com/jinterlante1206/AleutianGrid/services/sheet/persistence"
)

// SetupRoutes registers the full HTTP and websocket surface of the sheet
// service.
func SetupRoutes(router *gin.Engine, hub *collab.Hub, snapshots *persistence.Store) {
	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API version 1 group
	v1 := router.Group("/v1")
	{
		sheet := v1.Group("/sheet")
		{
			sheet.GET("", handlers.GetSheet(hub))
			sheet.POST("/reset", handlers.ResetSheet(hub))
			sheet.PUT("/title", handlers.UpdateTitle(hub))
			sheet.GET("/users", handlers.GetUsers(hub))
			sheet.POST("/formula", handlers.EvaluateFormula(hub))
			sheet.GET("/export/csv", handlers.ExportCSV(hub))
			sheet.POST("/import/csv", handlers.ImportCSV(hub))
			sheet.GET("/export/xlsx", handlers.ExportXLSX(hub))
			sheet.POST("/import/xlsx", handlers.ImportXLSX(hub))
			sheet.GET("/ws", handlers.HandleSheetWebSocket(hub))
		}
		snaps := v1.Group("/snapshots")
		{
			snaps.GET("", handlers.ListSnapshots(snapshots))
			snaps.POST("/:name", handlers.SaveSnapshot(hub, snapshots))
			snaps.POST("/:name/load", handlers.LoadSnapshot(hub, snapshots))
			snaps.DELETE("/:name", handlers.DeleteSnapshot(snapshots))
		}
	}
}
