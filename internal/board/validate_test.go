package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tacticshub/pkg/models"
)

func validComp() models.Composition {
	return models.Composition{
		ID:     "c1",
		UserID: "owner",
		Name:   "Arcana Reroll",
		Units:  []models.BoardUnit{{UnitID: "ahri", Position: 0, Items: []string{"deathcap"}}},
		Rating: models.RatingA,
	}
}

func TestValidateForSave(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.Composition)
		wantErr error
	}{
		{name: "ok", mutate: func(*models.Composition) {}},
		{name: "blank name", mutate: func(c *models.Composition) { c.Name = "   " }, wantErr: ErrNameRequired},
		{name: "no units", mutate: func(c *models.Composition) { c.Units = nil }, wantErr: ErrNoUnits},
		{name: "no owner", mutate: func(c *models.Composition) { c.UserID = "" }, wantErr: ErrOwnerRequired},
		{name: "bad rating", mutate: func(c *models.Composition) { c.Rating = "Z" }, wantErr: ErrBadRating},
		{
			name: "duplicate position",
			mutate: func(c *models.Composition) {
				c.Units = append(c.Units, models.BoardUnit{UnitID: "zoe", Position: 0})
			},
			wantErr: ErrDuplicatePosition,
		},
		{
			name:    "position out of range",
			mutate:  func(c *models.Composition) { c.Units[0].Position = Capacity },
			wantErr: ErrPositionOutOfRange,
		},
		{
			name:    "too many items",
			mutate:  func(c *models.Composition) { c.Units[0].Items = []string{"a", "b", "c", "d"} },
			wantErr: ErrItemCap,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validComp()
			tt.mutate(&c)
			err := ValidateForSave(c)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateForUpdateOwnership(t *testing.T) {
	c := validComp()

	require.NoError(t, ValidateForUpdate(Actor{ID: "owner"}, c))
	require.NoError(t, ValidateForUpdate(Actor{ID: "someone", Admin: true}, c))
	require.ErrorIs(t, ValidateForUpdate(Actor{ID: "someone"}, c), ErrForbidden)
	require.ErrorIs(t, ValidateForUpdate(Actor{}, c), ErrForbidden)
}

func TestCheckReferences(t *testing.T) {
	units := []models.Unit{{ID: "ahri"}}
	items := []models.Item{{ID: "deathcap"}}

	require.NoError(t, CheckReferences(validComp().Units, units, items))

	err := CheckReferences([]models.BoardUnit{{UnitID: "zoe"}}, units, items)
	require.ErrorIs(t, err, ErrUnknownUnit)

	err = CheckReferences([]models.BoardUnit{{UnitID: "ahri", Items: []string{"bramble"}}}, units, items)
	require.ErrorIs(t, err, ErrUnknownItem)
}

func TestSummarize(t *testing.T) {
	data := models.GameData{
		Units: []models.Unit{
			{ID: "ahri", Name: "Ahri", Cost: 4, Traits: []string{"Arcana", "Scholar"}},
			{ID: "zoe", Name: "Zoe", Cost: 1, Traits: []string{"Arcana"}},
		},
		Traits: []models.Trait{
			{ID: "t1", Name: "Arcana", Breakpoints: []models.Breakpoint{{Num: 2, Color: models.TierSilver}}},
		},
		Items: []models.Item{{ID: "deathcap", Name: "Deathcap"}, {ID: "shojin", Name: "Shojin"}},
	}
	c := models.Composition{
		ID: "c1",
		Units: []models.BoardUnit{
			{UnitID: "ahri", Position: 0, Items: []string{"deathcap", "shojin"}},
			{UnitID: "zoe", Position: 1, Items: []string{"deathcap"}},
		},
	}

	s := Summarize(c, data)

	require.Len(t, s.Units, 2)
	assert.Equal(t, "zoe", s.Units[0].ID)

	require.Len(t, s.Traits, 2)
	assert.Equal(t, "Arcana", s.Traits[0].Name)
	assert.Equal(t, models.TierSilver, s.Traits[0].Tier())
	assert.Equal(t, "Scholar", s.Traits[1].Name)
	assert.Equal(t, 1, s.Traits[1].Count)
	assert.Nil(t, s.Traits[1].Breakpoint)

	require.Len(t, s.Items, 2)
	assert.Equal(t, "deathcap", s.Items[0].ID)
	assert.Equal(t, "shojin", s.Items[1].ID)
}

func TestGroupByRating(t *testing.T) {
	comps := []models.Composition{
		{ID: "1", Rating: models.RatingB},
		{ID: "2"},
		{ID: "3", Rating: models.RatingS},
		{ID: "4", Rating: models.RatingB},
	}

	groups := GroupByRating(comps)

	require.Len(t, groups, 3)
	assert.Equal(t, models.RatingS, groups[0].Rating)
	assert.Equal(t, models.RatingB, groups[1].Rating)
	assert.Len(t, groups[1].Compositions, 2)
	assert.Equal(t, "Unrated", groups[2].Label)
}
