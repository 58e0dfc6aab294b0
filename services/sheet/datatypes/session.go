// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

// UserSession is the authoritative presence record for one joined user.
// UserID is the logical identity used for attribution and presence in every
// outbound payload; the transport connection id never leaks into broadcasts.
type UserSession struct {
	ConnectionID string `json:"-"`
	UserID       string `json:"user_id"`
	Name         string `json:"name"`
	Color        string `json:"color"`
	// CurrentCell is the user's last selected cell id, empty when none.
	CurrentCell string `json:"current_cell,omitempty"`
}
