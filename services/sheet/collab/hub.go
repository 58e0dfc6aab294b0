// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package collab orchestrates the shared document: it validates inbound
// events against the session registry, applies them to the grid store, and
// fans the resulting broadcasts out to the other connections.
//
// # Concurrency
//
// One mutex guards the grid store and the presence registry together. Every
// mutating event runs to completion inside it, and broadcast snapshots are
// taken inside the same section, so no connection ever observes a torn grid
// and a disconnect cannot race a half-applied edit from the same user. The
// only work done while fanning out is a non-blocking enqueue onto each
// client's buffered send queue; a slow connection loses messages, never
// stalls the document.
package collab

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jinterlante1206/AleutianGrid/services/sheet/datatypes"
	"github.com/jinterlante1206/AleutianGrid/services/sheet/grid"
	"github.com/jinterlante1206/AleutianGrid/services/sheet/observability"
	"github.com/jinterlante1206/AleutianGrid/services/sheet/presence"
)

// Event processing outcomes, for metrics.
const (
	outcomeApplied = "applied"
	outcomeDropped = "dropped"
)

// Hub owns the shared document and every live connection.
type Hub struct {
	mu       sync.Mutex
	store    *grid.Store
	registry *presence.Registry
	clients  map[string]*Client

	metrics  *observability.Metrics
	validate *validator.Validate
}

// NewHub wires a hub around a store and registry.
func NewHub(store *grid.Store, registry *presence.Registry, metrics *observability.Metrics) *Hub {
	return &Hub{
		store:    store,
		registry: registry,
		clients:  make(map[string]*Client),
		metrics:  metrics,
		validate: validator.New(),
	}
}

// Register adds a connection in the Connected (pre-join) state and
// acknowledges it with its connection id.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c.ID] = c
	h.mu.Unlock()

	h.metrics.ActiveConnections.Inc()
	slog.Info("client connected", "connection_id", c.ID)
	h.sendTo(c, datatypes.EventUserConnected, datatypes.UserConnectedEvent{ConnectionID: c.ID})
}

// Disconnect removes a connection, evicts its session if it had joined, and
// tells the remaining collaborators.
func (h *Hub) Disconnect(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c.ID]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c.ID)
	session, hadSession := h.registry.Leave(c.ID)

	if hadSession {
		h.broadcastLocked(datatypes.EventUserLeft,
			datatypes.UserLeftEvent{UserID: session.UserID}, "")
		h.broadcastLocked(datatypes.EventUserSelectionCleared,
			datatypes.UserSelectionClearedEvent{UserID: session.UserID}, "")
	}
	h.mu.Unlock()

	h.metrics.ActiveConnections.Dec()
	c.close()
	slog.Info("client disconnected", "connection_id", c.ID, "had_session", hadSession)
}

// Dispatch routes one inbound envelope. Events from connections that have
// not joined (other than join itself) are dropped silently: the permissive
// no-error policy is inherited behavior, kept so clients never have to
// handle rejection of optimistic sends.
func (h *Hub) Dispatch(c *Client, env datatypes.Envelope) {
	start := time.Now()
	applied := false
	switch env.Event {
	case datatypes.EventJoin:
		applied = h.handleJoin(c, env.Data)
	case datatypes.EventCellUpdate:
		applied = h.handleCellUpdate(c, env.Data)
	case datatypes.EventCellSelection:
		applied = h.handleCellSelection(c, env.Data)
	case datatypes.EventRowOperation:
		applied = h.handleStructuralOp(c, env.Data, false)
	case datatypes.EventColumnOperation:
		applied = h.handleStructuralOp(c, env.Data, true)
	case datatypes.EventSortOperation:
		applied = h.handleSort(c, env.Data)
	default:
		slog.Debug("dropping unknown event", "event", env.Event, "connection_id", c.ID)
	}

	if applied {
		h.metrics.RecordEvent(env.Event, outcomeApplied)
		h.metrics.ApplyDurationSeconds.WithLabelValues(env.Event).
			Observe(time.Since(start).Seconds())
	} else {
		h.metrics.RecordEvent(env.Event, outcomeDropped)
	}
}

// decode unmarshals and struct-validates an inbound payload. Malformed
// payloads are protocol errors: dropped, logged at debug.
func (h *Hub) decode(raw json.RawMessage, v any) bool {
	if err := json.Unmarshal(raw, v); err != nil {
		slog.Debug("dropping malformed payload", "error", err)
		return false
	}
	if err := h.validate.Struct(v); err != nil {
		slog.Debug("dropping invalid payload", "error", err)
		return false
	}
	return true
}

func (h *Hub) handleJoin(c *Client, raw json.RawMessage) bool {
	var req datatypes.JoinRequest
	if len(raw) > 0 && !h.decode(raw, &req) {
		return false
	}

	h.mu.Lock()
	session, evicted := h.registry.Join(c.ID, req.UserID, req.UserName)
	c.joined = true
	if evicted != nil {
		// Latest connection wins for a logical identity. The old
		// connection drops back to the pre-join state; its later events
		// are ignored until it joins again.
		if old, ok := h.clients[evicted.ConnectionID]; ok {
			old.joined = false
		}
		h.broadcastLocked(datatypes.EventUserLeft,
			datatypes.UserLeftEvent{UserID: evicted.UserID}, c.ID)
		h.broadcastLocked(datatypes.EventUserSelectionCleared,
			datatypes.UserSelectionClearedEvent{UserID: evicted.UserID}, c.ID)
	}

	snapshot := h.store.Snapshot()
	users := h.registry.Active()

	h.sendToLocked(c, datatypes.EventSpreadsheetData, snapshot)
	h.sendToLocked(c, datatypes.EventActiveUsers, users)
	h.broadcastLocked(datatypes.EventUserJoined, datatypes.UserJoinedEvent{
		UserID: session.UserID,
		Name:   session.Name,
		Color:  session.Color,
	}, c.ID)
	h.mu.Unlock()

	slog.Info("user joined", "user_id", session.UserID, "name", session.Name,
		"color", session.Color, "connection_id", c.ID, "evicted", evicted != nil)
	return true
}

func (h *Hub) handleCellUpdate(c *Client, raw json.RawMessage) bool {
	var req datatypes.CellUpdateRequest
	if !h.decode(raw, &req) {
		return false
	}

	h.mu.Lock()
	session, ok := h.joinedSessionLocked(c)
	if !ok {
		h.mu.Unlock()
		return false
	}

	rec := h.store.Set(req.CellID, req.Value, session.UserID)
	h.broadcastLocked(datatypes.EventCellUpdated, datatypes.CellUpdatedEvent{
		CellID:        req.CellID,
		Value:         rec.Value,
		OriginalValue: rec.OriginalValue,
		DataType:      rec.DataType,
		IsValid:       rec.IsValid,
		Errors:        rec.ValidationErrors,
		UserID:        session.UserID,
	}, c.ID)
	h.mu.Unlock()
	return true
}

func (h *Hub) handleCellSelection(c *Client, raw json.RawMessage) bool {
	var req datatypes.CellSelectionRequest
	if !h.decode(raw, &req) {
		return false
	}

	h.mu.Lock()
	session, ok := h.joinedSessionLocked(c)
	if !ok {
		h.mu.Unlock()
		return false
	}

	h.registry.SetCurrentCell(session.UserID, req.CellID)
	h.broadcastLocked(datatypes.EventCellSelected, datatypes.CellSelectedEvent{
		CellID:    req.CellID,
		UserID:    session.UserID,
		UserName:  session.Name,
		UserColor: session.Color,
	}, c.ID)
	h.broadcastLocked(datatypes.EventUserSelection, datatypes.UserSelectionEvent{
		UserID: session.UserID,
		CellID: req.CellID,
		Color:  session.Color,
	}, c.ID)
	h.mu.Unlock()
	return true
}

func (h *Hub) handleStructuralOp(c *Client, raw json.RawMessage, column bool) bool {
	var req datatypes.StructuralOpRequest
	if !h.decode(raw, &req) {
		return false
	}

	h.mu.Lock()
	session, ok := h.joinedSessionLocked(c)
	if !ok {
		h.mu.Unlock()
		return false
	}

	event := datatypes.EventRowOpApplied
	switch {
	case column && req.Type == datatypes.OpInsert:
		h.store.InsertColumn(req.Index)
		event = datatypes.EventColumnOpApplied
	case column && req.Type == datatypes.OpDelete:
		h.store.DeleteColumn(req.Index)
		event = datatypes.EventColumnOpApplied
	case req.Type == datatypes.OpInsert:
		h.store.InsertRow(req.Index)
	default:
		h.store.DeleteRow(req.Index)
	}

	// Structural edits broadcast the full post-operation cell map, not a
	// delta; the snapshot is taken under the same lock as the mutation.
	h.broadcastLocked(event, datatypes.StructuralOpAppliedEvent{
		Type:   req.Type,
		Index:  req.Index,
		UserID: session.UserID,
		Cells:  h.store.Cells(),
	}, c.ID)
	h.mu.Unlock()

	slog.Info("structural edit applied", "event", event, "type", req.Type,
		"index", req.Index, "user_id", session.UserID)
	return true
}

func (h *Hub) handleSort(c *Client, raw json.RawMessage) bool {
	var req datatypes.SortRequest
	if !h.decode(raw, &req) {
		return false
	}

	h.mu.Lock()
	_, ok := h.joinedSessionLocked(c)
	if !ok {
		h.mu.Unlock()
		return false
	}

	h.store.SortByColumn(req.Column, req.Direction)

	// Sorts broadcast to every connection including the sender: the sender
	// cannot predict the result locally the way it can for its own typing.
	h.broadcastLocked(datatypes.EventSortApplied, datatypes.SortAppliedEvent{
		Column:    req.Column,
		Direction: req.Direction,
		Cells:     h.store.Cells(),
	}, "")
	h.mu.Unlock()

	slog.Info("sort applied", "column", req.Column, "direction", req.Direction)
	return true
}

// joinedSessionLocked resolves the session for a connection that must be in
// the Joined state. Callers hold h.mu.
func (h *Hub) joinedSessionLocked(c *Client) (datatypes.UserSession, bool) {
	if !c.joined {
		return datatypes.UserSession{}, false
	}
	return h.registry.Lookup(c.ID)
}

// --- HTTP-facing document operations (share the same critical section) ---

// Snapshot returns a deep copy of the current document.
func (h *Hub) Snapshot() *datatypes.Grid {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.store.Snapshot()
}

// Users returns the active session list.
func (h *Hub) Users() []datatypes.UserSession {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.registry.Active()
}

// Reset reinitializes the document and broadcasts the fresh state to every
// connection.
func (h *Hub) Reset() *datatypes.Grid {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.store.Reset()
	snapshot := h.store.Snapshot()
	h.broadcastLocked(datatypes.EventSpreadsheetReset, snapshot, "")
	return snapshot
}

// SetTitle updates the document title and announces it.
func (h *Hub) SetTitle(title string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.store.SetTitle(title)
	h.broadcastLocked(datatypes.EventTitleUpdated,
		datatypes.TitleUpdatedEvent{Title: title}, "")
}

// ReplaceGrid swaps the whole document (snapshot load, import) and
// broadcasts the new state to every connection.
func (h *Hub) ReplaceGrid(g *datatypes.Grid) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.store.Replace(g)
	h.broadcastLocked(datatypes.EventSpreadsheetData, h.store.Snapshot(), "")
}

// EvaluateFormula runs fn against a consistent snapshot of the document.
// The callback indirection keeps the formula package free of lock concerns.
func (h *Hub) EvaluateFormula(fn func(*datatypes.Grid) (float64, string)) (float64, string) {
	snapshot := h.Snapshot()
	return fn(snapshot)
}

// --- Fan-out ---

// sendTo delivers one event to a single client.
func (h *Hub) sendTo(c *Client, event string, data any) {
	h.mu.Lock()
	h.sendToLocked(c, event, data)
	h.mu.Unlock()
}

func (h *Hub) sendToLocked(c *Client, event string, data any) {
	msg, err := marshalEnvelope(event, data)
	if err != nil {
		slog.Error("failed to encode outbound event", "event", event, "error", err)
		return
	}
	if !c.enqueue(msg) {
		h.metrics.DroppedSendsTotal.Inc()
		slog.Warn("dropping message for slow client",
			"event", event, "connection_id", c.ID)
	}
}

// broadcastLocked fans an event out to every connection except exceptConnID
// (empty means everyone). Callers hold h.mu; the enqueue never blocks.
func (h *Hub) broadcastLocked(event string, data any, exceptConnID string) {
	msg, err := marshalEnvelope(event, data)
	if err != nil {
		slog.Error("failed to encode broadcast", "event", event, "error", err)
		return
	}
	for id, c := range h.clients {
		if id == exceptConnID {
			continue
		}
		if !c.enqueue(msg) {
			h.metrics.DroppedSendsTotal.Inc()
			slog.Warn("dropping broadcast for slow client",
				"event", event, "connection_id", id)
		}
	}
	h.metrics.RecordBroadcast(event)
}

func marshalEnvelope(event string, data any) ([]byte, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(datatypes.Envelope{Event: event, Data: payload})
}
