// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

import "encoding/json"

// Inbound event names accepted over the websocket.
const (
	EventJoin            = "join"
	EventCellUpdate      = "cell_update"
	EventCellSelection   = "cell_selection"
	EventRowOperation    = "row_operation"
	EventColumnOperation = "column_operation"
	EventSortOperation   = "sort_operation"
)

// Outbound event names broadcast to clients.
const (
	EventUserConnected        = "user_connected"
	EventSpreadsheetData      = "spreadsheet_data"
	EventSpreadsheetReset     = "spreadsheet_reset"
	EventActiveUsers          = "active_users"
	EventUserJoined           = "user_joined"
	EventCellUpdated          = "cell_updated"
	EventCellSelected         = "cell_selected"
	EventUserSelection        = "user_selection"
	EventRowOpApplied         = "row_operation_applied"
	EventColumnOpApplied      = "column_operation_applied"
	EventSortApplied          = "sort_applied"
	EventUserLeft             = "user_left"
	EventUserSelectionCleared = "user_selection_cleared"
	EventTitleUpdated         = "title_updated"
)

// Structural operation kinds.
const (
	OpInsert = "insert"
	OpDelete = "delete"
)

// Sort directions. An empty direction is the clear-sort signal: no data
// mutation, current state is still broadcast.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// Envelope frames every websocket message in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// --- Inbound payloads ---

// JoinRequest registers a logical identity on a connection. Both fields are
// optional; missing ids are generated server-side.
type JoinRequest struct {
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
}

// CellUpdateRequest writes a raw value into one cell.
type CellUpdateRequest struct {
	CellID string `json:"cell_id" validate:"required"`
	Value  string `json:"value"`
}

// CellSelectionRequest moves a user's presence cursor.
type CellSelectionRequest struct {
	CellID string `json:"cell_id" validate:"required"`
}

// StructuralOpRequest inserts or deletes a whole row or column.
type StructuralOpRequest struct {
	Type  string `json:"type" validate:"required,oneof=insert delete"`
	Index int    `json:"index" validate:"min=0"`
}

// SortRequest sorts the document by one column, or clears the sort when
// Direction is empty.
type SortRequest struct {
	Column    int    `json:"column" validate:"min=0"`
	Direction string `json:"direction" validate:"omitempty,oneof=asc desc"`
}

// --- Outbound payloads ---

// UserConnectedEvent acknowledges a raw transport connection, before join.
type UserConnectedEvent struct {
	ConnectionID string `json:"connection_id"`
}

// UserJoinedEvent announces a new collaborator to everyone else.
type UserJoinedEvent struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Color  string `json:"color"`
}

// CellUpdatedEvent is the delta broadcast after a cell write.
type CellUpdatedEvent struct {
	CellID        string   `json:"cell_id"`
	Value         string   `json:"value"`
	OriginalValue string   `json:"original_value"`
	DataType      DataType `json:"data_type"`
	IsValid       bool     `json:"is_valid"`
	Errors        []string `json:"errors"`
	UserID        string   `json:"user_id"`
}

// CellSelectedEvent carries a collaborator's cursor move with display hints.
type CellSelectedEvent struct {
	CellID    string `json:"cell_id"`
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name"`
	UserColor string `json:"user_color"`
}

// UserSelectionEvent is the compact form of a cursor move keyed by user.
type UserSelectionEvent struct {
	UserID string `json:"user_id"`
	CellID string `json:"cell_id"`
	Color  string `json:"color"`
}

// StructuralOpAppliedEvent is the full-replace broadcast after a row or
// column insert/delete. Cells is the entire post-operation cell map, not a
// delta: coordinate remaps touch too much of the sheet for deltas to pay off.
type StructuralOpAppliedEvent struct {
	Type   string                `json:"type"`
	Index  int                   `json:"index"`
	UserID string                `json:"user_id"`
	Cells  map[string]CellRecord `json:"cells"`
}

// SortAppliedEvent is the full-replace broadcast after a sort. Unlike the
// structural operations it goes to every connection including the sender.
type SortAppliedEvent struct {
	Column    int                   `json:"column"`
	Direction string                `json:"direction"`
	Cells     map[string]CellRecord `json:"cells"`
}

// UserLeftEvent announces a departed collaborator.
type UserLeftEvent struct {
	UserID string `json:"user_id"`
}

// UserSelectionClearedEvent tells clients to drop a departed user's cursor.
type UserSelectionClearedEvent struct {
	UserID string `json:"user_id"`
}

// TitleUpdatedEvent announces a document title change.
type TitleUpdatedEvent struct {
	Title string `json:"title"`
}
