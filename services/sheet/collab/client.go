// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package collab

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/jinterlante1206/AleutianGrid/services/sheet/datatypes"
)

// sendQueueSize bounds each connection's outbound queue. A client that
// falls this far behind starts losing messages instead of stalling the hub.
const sendQueueSize = 256

// Client is one websocket connection. Its lifecycle is
// Connected → Joined → Disconnected; only a joined connection may mutate
// the document or presence.
type Client struct {
	ID   string
	hub  *Hub
	conn *websocket.Conn

	// joined is guarded by hub.mu alongside the rest of the shared state.
	joined bool

	send      chan []byte
	closeOnce sync.Once
}

// NewClient wraps an upgraded websocket connection. conn may be nil in
// tests; the write pump is simply never started.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		ID:   uuid.New().String(),
		hub:  hub,
		conn: conn,
		send: make(chan []byte, sendQueueSize),
	}
}

// enqueue offers a message to the outbound queue without blocking. It
// reports false when the queue is full.
func (c *Client) enqueue(msg []byte) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// close shuts the outbound queue, which ends the write pump. Safe to call
// more than once.
func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

// ReadPump consumes inbound envelopes until the connection drops, then
// unregisters the client. Runs on the connection's handler goroutine.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Disconnect(c)
		if err := c.conn.Close(); err != nil {
			slog.Debug("closing websocket", "connection_id", c.ID, "error", err)
		}
	}()

	for {
		var env datatypes.Envelope
		if err := c.conn.ReadJSON(&env); err != nil {
			slog.Info("websocket client disconnected",
				"connection_id", c.ID, "error", err.Error())
			return
		}
		c.hub.Dispatch(c, env)
	}
}

// WritePump drains the outbound queue onto the wire. Runs on its own
// goroutine per connection; exits when the queue is closed or a write fails.
func (c *Client) WritePump() {
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			slog.Warn("failed to write to websocket",
				"connection_id", c.ID, "error", err)
			return
		}
	}
	// Queue closed: the hub dropped us. Tell the peer before the read
	// side tears the connection down.
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
