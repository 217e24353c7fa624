// Package traits works out which trait bonuses a set of placed units turns on.
package traits

import (
	"sort"

	"tacticshub/pkg/models"
)

// Active is one trait with at least one contributing unit.
type Active struct {
	Name       string             `json:"name"`
	TraitID    string             `json:"traitId,omitempty"`
	Count      int                `json:"count"`
	Breakpoint *models.Breakpoint `json:"breakpoint,omitempty"` // nil when the count is below every threshold
}

// Tier returns the reached tier, or "" when no breakpoint is reached.
func (a Active) Tier() models.Tier {
	if a.Breakpoint == nil {
		return ""
	}
	return a.Breakpoint.Color
}

// View maps trait name to its activation.
type View map[string]Active

// Resolve looks up the unit definition for every placed unit. Placements
// pointing at unknown units are skipped.
func Resolve(placed []models.BoardUnit, catalog []models.Unit) []models.Unit {
	byID := make(map[string]models.Unit, len(catalog))
	for _, u := range catalog {
		byID[u.ID] = u
	}
	out := make([]models.Unit, 0, len(placed))
	for _, bu := range placed {
		if u, ok := byID[bu.UnitID]; ok {
			out = append(out, u)
		}
	}
	return out
}

// Activate counts, for every trait in the catalog, how many units carry it
// and picks the highest breakpoint the count reaches. Traits nobody carries
// are left out.
func Activate(units []models.Unit, catalog []models.Trait) View {
	view := make(View)
	for _, t := range catalog {
		count := 0
		for _, u := range units {
			if u.HasTrait(t.Name) {
				count++
			}
		}
		if count == 0 {
			continue
		}
		view[t.Name] = Active{
			Name:       t.Name,
			TraitID:    t.ID,
			Count:      count,
			Breakpoint: Reached(t.Breakpoints, count),
		}
	}
	return view
}

// ActivateBoard resolves placed units against the unit catalog and activates.
func ActivateBoard(placed []models.BoardUnit, units []models.Unit, catalog []models.Trait) View {
	return Activate(Resolve(placed, units), catalog)
}

// Reached returns the breakpoint with the largest threshold not above count.
// Among equal thresholds the earliest one in bps wins.
func Reached(bps []models.Breakpoint, count int) *models.Breakpoint {
	var best *models.Breakpoint
	for i := range bps {
		if bps[i].Num > count {
			continue
		}
		if best == nil || bps[i].Num > best.Num {
			bp := bps[i]
			best = &bp
		}
	}
	return best
}

// Sorted orders a view for display: higher tier first, traits with no tier
// last, then larger count, then name.
func Sorted(view View) []Active {
	out := make([]Active, 0, len(view))
	for _, a := range view {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		ri, rj := out[i].Tier().Rank(), out[j].Tier().Rank()
		if ri != rj {
			return ri > rj
		}
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}
