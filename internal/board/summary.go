package board

import (
	"sort"

	"tacticshub/internal/traits"
	"tacticshub/pkg/models"
)

// Summary is the list-view digest of a saved composition.
type Summary struct {
	Composition models.Composition `json:"composition"`
	Units       []models.Unit      `json:"units"`
	Traits      []traits.Active    `json:"traits"`
	Items       []models.Item      `json:"items"`
}

// Summarize resolves a composition against the catalog. Unit trait names that
// have no catalog entry still show up, without a breakpoint.
func Summarize(c models.Composition, data models.GameData) Summary {
	units := traits.Resolve(c.Units, data.Units)
	sort.SliceStable(units, func(i, j int) bool { return units[i].Cost < units[j].Cost })

	view := traits.Activate(units, data.Traits)
	for _, u := range units {
		for _, name := range u.Traits {
			if _, ok := view[name]; ok {
				continue
			}
			view[name] = traits.Active{Name: name, Count: countCarriers(units, name)}
		}
	}

	itemsByID := make(map[string]models.Item, len(data.Items))
	for _, it := range data.Items {
		itemsByID[it.ID] = it
	}
	seen := make(map[string]bool)
	var items []models.Item
	for _, bu := range c.Units {
		for _, id := range bu.Items {
			if seen[id] {
				continue
			}
			seen[id] = true
			if it, ok := itemsByID[id]; ok {
				items = append(items, it)
			}
		}
	}

	return Summary{
		Composition: c,
		Units:       units,
		Traits:      traits.Sorted(view),
		Items:       items,
	}
}

func countCarriers(units []models.Unit, trait string) int {
	n := 0
	for _, u := range units {
		if u.HasTrait(trait) {
			n++
		}
	}
	return n
}

// RatingGroup is every composition sharing one rating.
type RatingGroup struct {
	Rating       models.Rating        `json:"rating"`
	Label        string               `json:"label"`
	Compositions []models.Composition `json:"compositions"`
}

// GroupByRating buckets compositions S, A, B, C then unrated, skipping
// empty buckets and keeping input order inside each bucket.
func GroupByRating(comps []models.Composition) []RatingGroup {
	buckets := make(map[models.Rating][]models.Composition)
	for _, c := range comps {
		r := c.Rating
		if !r.Valid() {
			r = models.RatingNone
		}
		buckets[r] = append(buckets[r], c)
	}

	order := append(append([]models.Rating{}, models.Ratings...), models.RatingNone)
	var out []RatingGroup
	for _, r := range order {
		if len(buckets[r]) == 0 {
			continue
		}
		label := string(r)
		if r == models.RatingNone {
			label = "Unrated"
		}
		out = append(out, RatingGroup{Rating: r, Label: label, Compositions: buckets[r]})
	}
	return out
}
