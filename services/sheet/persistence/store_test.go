// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jinterlante1206/AleutianGrid/services/sheet/datatypes"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(InMemoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleGrid(title string) *datatypes.Grid {
	g := datatypes.NewGrid()
	g.Metadata.Title = title
	g.Cells["A1"] = datatypes.CellRecord{
		Value: "42", OriginalValue: "42",
		DataType: datatypes.TypeNumber, IsValid: true,
		ValidationErrors: []string{},
		LastModifiedBy:   "user-1",
	}
	return g
}

func TestSaveAndLoad(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Save("backup", sampleGrid("Budget")))

	got, err := s.Load("backup")
	require.NoError(t, err)
	assert.Equal(t, "Budget", got.Metadata.Title)
	assert.Equal(t, "42", got.Cells["A1"].Value)
	assert.Equal(t, datatypes.TypeNumber, got.Cells["A1"].DataType)
}

func TestLoadNotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Load("nothing-here")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveOverwrites(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Save("backup", sampleGrid("First")))
	require.NoError(t, s.Save("backup", sampleGrid("Second")))

	got, err := s.Load("backup")
	require.NoError(t, err)
	assert.Equal(t, "Second", got.Metadata.Title)

	infos, err := s.List()
	require.NoError(t, err)
	assert.Len(t, infos, 1)
}

func TestList(t *testing.T) {
	s := openTestStore(t)

	infos, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, infos)

	require.NoError(t, s.Save("alpha", sampleGrid("Alpha Doc")))
	require.NoError(t, s.Save("beta", sampleGrid("Beta Doc")))

	infos, err = s.List()
	require.NoError(t, err)
	require.Len(t, infos, 2)

	byName := make(map[string]SnapshotInfo)
	for _, info := range infos {
		byName[info.Name] = info
	}
	assert.Equal(t, "Alpha Doc", byName["alpha"].Title)
	assert.Equal(t, "Beta Doc", byName["beta"].Title)
	assert.Greater(t, byName["alpha"].SizeBytes, int64(0))
}

func TestDelete(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Save("doomed", sampleGrid("Doc")))
	require.NoError(t, s.Delete("doomed"))

	_, err := s.Load("doomed")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.Delete("doomed"), ErrNotFound)
}

func TestLoadRepairsNilCellMap(t *testing.T) {
	s := openTestStore(t)

	g := datatypes.NewGrid()
	g.Cells = nil
	require.NoError(t, s.Save("empty", g))

	got, err := s.Load("empty")
	require.NoError(t, err)
	require.NotNil(t, got.Cells)
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(Config{})
	assert.Error(t, err)
}

func TestOpenOnDisk(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(DefaultConfig(dir))
	require.NoError(t, err)

	require.NoError(t, s.Save("persisted", sampleGrid("Disk Doc")))
	require.NoError(t, s.Close())

	// Reopen and verify the snapshot survived.
	s, err = Open(DefaultConfig(dir))
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Load("persisted")
	require.NoError(t, err)
	assert.Equal(t, "Disk Doc", got.Metadata.Title)
}
