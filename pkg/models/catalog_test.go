package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierRank(t *testing.T) {
	assert.Equal(t, 1, TierBronze.Rank())
	assert.Equal(t, 5, TierPlatinum.Rank())
	assert.Greater(t, TierGold.Rank(), TierSilver.Rank())
	assert.Equal(t, 0, Tier("rainbow").Rank())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		entity  interface{ Validate() error }
		wantErr error
	}{
		{"unit ok", Unit{ID: "u1", Name: "Ahri", Cost: 4}, nil},
		{"unit cost zero", Unit{ID: "u1", Name: "Ahri"}, ErrInvalidCost},
		{"unit cost six", Unit{ID: "u1", Name: "Ahri", Cost: 6}, ErrInvalidCost},
		{"unit no id", Unit{Name: "Ahri", Cost: 1}, ErrInvalidID},
		{"trait ok", Trait{ID: "t1", Name: "Arcana", Breakpoints: []Breakpoint{{Num: 2, Color: TierBronze}}}, nil},
		{"trait zero threshold", Trait{ID: "t1", Name: "Arcana", Breakpoints: []Breakpoint{{Num: 0, Color: TierBronze}}}, ErrInvalidBreakpoint},
		{"trait bad tier", Trait{ID: "t1", Name: "Arcana", Breakpoints: []Breakpoint{{Num: 2, Color: "pink"}}}, ErrInvalidTier},
		{"component no name", Component{ID: "c1", Name: "  "}, ErrInvalidName},
		{"item ok", Item{ID: "i1", Name: "Deathcap", Type: ItemStandard}, nil},
		{"item bad type", Item{ID: "i1", Name: "Deathcap", Type: "legendary"}, ErrInvalidItemType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entity.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCompositionPatchApply(t *testing.T) {
	c := Composition{ID: "c1", Name: "Old", Description: "keep", IsPublic: false}
	name := "New"
	public := true
	got := CompositionPatch{ID: "c1", Name: &name, IsPublic: &public}.Apply(c)

	assert.Equal(t, "New", got.Name)
	assert.Equal(t, "keep", got.Description)
	assert.True(t, got.IsPublic)
}

func TestItemIsBase(t *testing.T) {
	assert.True(t, Item{}.IsBase())
	assert.False(t, Item{Recipe: []string{"c1", "c2"}}.IsBase())
}
