// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package presence tracks which logical user owns which connection, assigns
// presence colors, and remembers each user's last selected cell.
//
// The registry is pure bookkeeping with no internal locking; it shares the
// collab hub's critical section with the grid store so join/leave
// interleavings stay consistent with concurrent edits.
package presence

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jinterlante1206/AleutianGrid/services/sheet/datatypes"
)

// Palette is the fixed ordered set of presence colors. Color use is a
// derived view: a color is in use iff some active session holds it, computed
// by scanning sessions on demand rather than kept as a second source of
// truth that can drift.
var Palette = []string{
	"#3B82F6", "#EF4444", "#10B981", "#F59E0B",
	"#8B5CF6", "#EC4899", "#06B6D4", "#84CC16",
	"#F97316", "#6366F1", "#14B8A6", "#F43F5E",
	"#8B5A2B", "#4F46E5", "#059669", "#DC2626",
}

// Registry maps connection ids to user sessions.
type Registry struct {
	// byConn is the authoritative session set, keyed by connection id.
	byConn map[string]*datatypes.UserSession
	// byUser indexes the same sessions by logical user id.
	byUser map[string]*datatypes.UserSession
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byConn: make(map[string]*datatypes.UserSession),
		byUser: make(map[string]*datatypes.UserSession),
	}
}

// Join registers a session for connID. Empty userID and name get generated
// defaults. If the user already has a session on another connection, that
// session is evicted first (latest connection wins) and returned so the
// caller can broadcast the departure.
func (r *Registry) Join(connID, userID, name string) (session datatypes.UserSession, evicted *datatypes.UserSession) {
	if userID == "" {
		userID = uuid.New().String()
	}
	if name == "" {
		short := userID
		if len(short) > 8 {
			short = short[:8]
		}
		name = fmt.Sprintf("User %s", short)
	}

	if old, ok := r.byUser[userID]; ok && old.ConnectionID != connID {
		removed := *old
		delete(r.byConn, old.ConnectionID)
		delete(r.byUser, userID)
		evicted = &removed
	}

	s := &datatypes.UserSession{
		ConnectionID: connID,
		UserID:       userID,
		Name:         name,
		Color:        r.pickColor(),
	}
	r.byConn[connID] = s
	r.byUser[userID] = s
	return *s, evicted
}

// Leave removes the session keyed by connID and returns it. Nothing beyond
// the session itself is freed; the color pool is derived state.
func (r *Registry) Leave(connID string) (datatypes.UserSession, bool) {
	s, ok := r.byConn[connID]
	if !ok {
		return datatypes.UserSession{}, false
	}
	delete(r.byConn, connID)
	if cur, ok := r.byUser[s.UserID]; ok && cur.ConnectionID == connID {
		delete(r.byUser, s.UserID)
	}
	return *s, true
}

// Lookup returns the session for a connection id.
func (r *Registry) Lookup(connID string) (datatypes.UserSession, bool) {
	s, ok := r.byConn[connID]
	if !ok {
		return datatypes.UserSession{}, false
	}
	return *s, true
}

// SetCurrentCell records a user's cursor position. The cell id is not range
// checked; presence is advisory.
func (r *Registry) SetCurrentCell(userID, cellID string) bool {
	s, ok := r.byUser[userID]
	if !ok {
		return false
	}
	s.CurrentCell = cellID
	return true
}

// Active returns a copy of every active session. Order is not significant.
func (r *Registry) Active() []datatypes.UserSession {
	out := make([]datatypes.UserSession, 0, len(r.byConn))
	for _, s := range r.byConn {
		out = append(out, *s)
	}
	return out
}

// pickColor returns the first palette color no active session holds. When
// the palette is exhausted it returns the first entry; collisions are the
// documented degraded behavior, not an error.
func (r *Registry) pickColor() string {
	inUse := make(map[string]bool, len(r.byConn))
	for _, s := range r.byConn {
		inUse[s.Color] = true
	}
	for _, c := range Palette {
		if !inUse[c] {
			return c
		}
	}
	return Palette[0]
}
