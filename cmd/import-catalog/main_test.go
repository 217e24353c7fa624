package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tacticshub/internal/catalog"
	"tacticshub/pkg/database"
	"tacticshub/pkg/models"
)

func TestReadUnitsCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "units.csv")
	require.NoError(t, os.WriteFile(path, []byte("ID,Name,Cost,Traits\nahri,Ahri,4,Arcana|Scholar\n,skipped,1,\nvi,Vi,3,\n"), 0o644))

	units, err := readUnitsCSV(path)
	require.NoError(t, err)
	require.Len(t, units, 2)
	assert.Equal(t, []string{"Arcana", "Scholar"}, units[0].Traits)
	assert.Equal(t, 3, units[1].Cost)
	assert.Empty(t, units[1].Traits)
}

func TestImportAllUpserts(t *testing.T) {
	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "seed.db")})
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, database.Migrate(db))
	repo := catalog.NewRepo(db)
	ctx := context.Background()

	data, err := readSeed(filepath.Join("..", "..", "data", "catalog.json"))
	require.NoError(t, err)

	n, err := importAll(ctx, repo, data)
	require.NoError(t, err)
	assert.Equal(t, len(data.Units)+len(data.Traits)+len(data.Components)+len(data.Items), n)

	// re-running updates in place
	data.Units[0].Cost = 5
	_, err = importAll(ctx, repo, data)
	require.NoError(t, err)
	units, err := repo.ListUnits(ctx)
	require.NoError(t, err)
	assert.Len(t, units, len(data.Units))

	_, err = importAll(ctx, repo, models.GameData{Units: []models.Unit{{ID: "bad", Name: "Bad", Cost: 0}}})
	require.ErrorIs(t, err, models.ErrInvalidCost)
}

func TestReadSeedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
units:
  - id: ahri
    name: Ahri
    cost: 4
    traits: [Arcana, Scholar]
traits:
  - id: arcana
    name: Arcana
    breakpoints:
      - {num: 2, color: bronze}
      - {num: 4, color: gold}
items:
  - id: deathcap
    name: Rabadon's Deathcap
    type: standard
    recipe: [rod, rod]
`), 0o644))

	data, err := readSeed(path)
	require.NoError(t, err)
	require.Len(t, data.Units, 1)
	assert.Equal(t, []string{"Arcana", "Scholar"}, data.Units[0].Traits)
	require.Len(t, data.Traits, 1)
	assert.Equal(t, models.TierGold, data.Traits[0].Breakpoints[1].Color)
	assert.Equal(t, []string{"rod", "rod"}, data.Items[0].Recipe)
	require.NoError(t, data.Items[0].Validate())
}
