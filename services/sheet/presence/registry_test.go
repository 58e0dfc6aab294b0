// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package presence

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinDefaults(t *testing.T) {
	r := NewRegistry()

	s, evicted := r.Join("conn-1", "", "")
	assert.Nil(t, evicted)
	assert.NotEmpty(t, s.UserID)
	assert.True(t, strings.HasPrefix(s.Name, "User "))
	// Default name uses the first 8 chars of the generated user id.
	assert.Equal(t, "User "+s.UserID[:8], s.Name)
	assert.Equal(t, Palette[0], s.Color)
}

func TestJoinExplicitIdentity(t *testing.T) {
	r := NewRegistry()

	s, _ := r.Join("conn-1", "alice-id", "Alice")
	assert.Equal(t, "alice-id", s.UserID)
	assert.Equal(t, "Alice", s.Name)

	got, ok := r.Lookup("conn-1")
	require.True(t, ok)
	assert.Equal(t, s, got)
}

func TestJoinAssignsUniqueColors(t *testing.T) {
	r := NewRegistry()

	seen := make(map[string]bool)
	for i := 0; i < len(Palette); i++ {
		s, _ := r.Join(fmt.Sprintf("conn-%d", i), fmt.Sprintf("user-%d", i), "")
		assert.False(t, seen[s.Color], "color %s assigned twice", s.Color)
		seen[s.Color] = true
	}
	assert.Len(t, seen, len(Palette))
}

func TestPaletteExhaustionFallsBack(t *testing.T) {
	r := NewRegistry()
	for i := 0; i < len(Palette); i++ {
		r.Join(fmt.Sprintf("conn-%d", i), fmt.Sprintf("user-%d", i), "")
	}

	s, _ := r.Join("conn-extra", "user-extra", "")
	assert.Equal(t, Palette[0], s.Color)
}

func TestColorsAreRecycled(t *testing.T) {
	r := NewRegistry()
	first, _ := r.Join("conn-1", "user-1", "")
	r.Join("conn-2", "user-2", "")

	_, ok := r.Leave("conn-1")
	require.True(t, ok)

	// The freed color is the lowest-index free slot again.
	s, _ := r.Join("conn-3", "user-3", "")
	assert.Equal(t, first.Color, s.Color)
}

func TestDuplicateUserEvictsOldConnection(t *testing.T) {
	r := NewRegistry()
	r.Join("conn-old", "alice-id", "Alice")

	s, evicted := r.Join("conn-new", "alice-id", "Alice")
	require.NotNil(t, evicted)
	assert.Equal(t, "conn-old", evicted.ConnectionID)
	assert.Equal(t, "alice-id", evicted.UserID)
	assert.Equal(t, "conn-new", s.ConnectionID)

	_, ok := r.Lookup("conn-old")
	assert.False(t, ok)
	_, ok = r.Lookup("conn-new")
	assert.True(t, ok)
	assert.Len(t, r.Active(), 1)
}

func TestRejoinSameConnectionDoesNotEvict(t *testing.T) {
	r := NewRegistry()
	r.Join("conn-1", "alice-id", "Alice")

	_, evicted := r.Join("conn-1", "alice-id", "Alice")
	assert.Nil(t, evicted)
	assert.Len(t, r.Active(), 1)
}

func TestLeave(t *testing.T) {
	r := NewRegistry()
	r.Join("conn-1", "alice-id", "Alice")

	s, ok := r.Leave("conn-1")
	require.True(t, ok)
	assert.Equal(t, "alice-id", s.UserID)
	assert.Empty(t, r.Active())

	_, ok = r.Leave("conn-1")
	assert.False(t, ok)
}

func TestSetCurrentCell(t *testing.T) {
	r := NewRegistry()
	r.Join("conn-1", "alice-id", "Alice")

	assert.True(t, r.SetCurrentCell("alice-id", "B7"))
	s, _ := r.Lookup("conn-1")
	assert.Equal(t, "B7", s.CurrentCell)

	assert.False(t, r.SetCurrentCell("nobody", "A1"))
}
