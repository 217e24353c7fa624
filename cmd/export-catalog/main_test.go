package main

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tacticshub/pkg/models"
)

func TestWriteSeedAndUnitsCSV(t *testing.T) {
	dir := t.TempDir()
	data := models.GameData{
		Units:  []models.Unit{{ID: "ahri", Name: "Ahri", Cost: 4, Traits: []string{"Arcana", "Scholar"}}},
		Traits: []models.Trait{{ID: "arcana", Name: "Arcana"}},
	}

	seed := filepath.Join(dir, "out", "catalog.json")
	require.NoError(t, writeSeed(seed, data))
	b, err := os.ReadFile(seed)
	require.NoError(t, err)
	var back models.GameData
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, "Ahri", back.Units[0].Name)

	unitsPath := filepath.Join(dir, "units.csv")
	require.NoError(t, writeUnitsCSV(unitsPath, data.Units))
	rows := readAll(t, unitsPath)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"id", "name", "cost", "traits", "image"}, rows[0])
	assert.Equal(t, "Arcana|Scholar", rows[1][3])
}

func TestWriteCompositionsCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "comps.csv")
	at := time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC)
	require.NoError(t, writeCompositionsCSV(path, []models.Composition{{
		ID:        "c1",
		UserID:    "alice",
		Name:      "Arcana",
		Rating:    models.RatingA,
		IsPublic:  true,
		Units:     []models.BoardUnit{{UnitID: "ahri"}, {UnitID: "zoe", Position: 1}},
		UpdatedAt: at,
	}}))

	rows := readAll(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"c1", "alice", "", "Arcana", "A", "true", "ahri|zoe", "2024-03-02T10:00:00Z"}, rows[1])
}

func readAll(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}
