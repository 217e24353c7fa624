// Package board holds the composition assembly rules: where units sit, what
// they carry, and who may save the result.
//
// The flat []models.BoardUnit list is the source of truth. Every mutation
// returns a new list and leaves its input untouched; the slot view from
// Slots is a projection recomputed on demand.
package board

import (
	"errors"

	"tacticshub/pkg/models"
)

const (
	// Capacity is the number of hexes on the board.
	Capacity = 28
	// MaxItems is how many items one unit can hold.
	MaxItems = 3
)

var (
	ErrPositionOutOfRange = errors.New("position out of range")
	ErrPositionOccupied   = errors.New("position occupied")
	ErrEmptyPosition      = errors.New("no unit at position")
	ErrItemCap            = errors.New("unit already holds the maximum number of items")
	ErrItemIndex          = errors.New("item index out of range")
	ErrUnitRequired       = errors.New("unit id required")
	ErrItemRequired       = errors.New("item id required")
)

func inRange(pos int) bool {
	return pos >= 0 && pos < Capacity
}

func indexOf(units []models.BoardUnit, pos int) int {
	for i, u := range units {
		if u.Position == pos {
			return i
		}
	}
	return -1
}

func clone(units []models.BoardUnit) []models.BoardUnit {
	out := make([]models.BoardUnit, len(units))
	for i, u := range units {
		if u.Items != nil {
			u.Items = append(make([]string, 0, len(u.Items)), u.Items...)
		}
		out[i] = u
	}
	return out
}

// Place puts unitID at pos. An occupied or out-of-range position is refused
// and the input list is returned unchanged.
func Place(units []models.BoardUnit, unitID string, pos int) ([]models.BoardUnit, error) {
	if unitID == "" {
		return units, ErrUnitRequired
	}
	if !inRange(pos) {
		return units, ErrPositionOutOfRange
	}
	if indexOf(units, pos) >= 0 {
		return units, ErrPositionOccupied
	}
	out := clone(units)
	return append(out, models.BoardUnit{UnitID: unitID, Position: pos, Items: []string{}}), nil
}

// Remove drops the unit at pos along with its items. Removing an empty
// position is a no-op.
func Remove(units []models.BoardUnit, pos int) []models.BoardUnit {
	i := indexOf(units, pos)
	if i < 0 {
		return units
	}
	if len(units) == 1 {
		return nil
	}
	out := make([]models.BoardUnit, 0, len(units)-1)
	for j, u := range clone(units) {
		if j != i {
			out = append(out, u)
		}
	}
	return out
}

// AddItem appends itemID to the unit at pos.
func AddItem(units []models.BoardUnit, pos int, itemID string) ([]models.BoardUnit, error) {
	if itemID == "" {
		return units, ErrItemRequired
	}
	i := indexOf(units, pos)
	if i < 0 {
		return units, ErrEmptyPosition
	}
	if len(units[i].Items) >= MaxItems {
		return units, ErrItemCap
	}
	out := clone(units)
	out[i].Items = append(out[i].Items, itemID)
	return out, nil
}

// RemoveItem drops the item at index idx from the unit at pos.
func RemoveItem(units []models.BoardUnit, pos, idx int) ([]models.BoardUnit, error) {
	i := indexOf(units, pos)
	if i < 0 {
		return units, ErrEmptyPosition
	}
	if idx < 0 || idx >= len(units[i].Items) {
		return units, ErrItemIndex
	}
	out := clone(units)
	items := out[i].Items
	out[i].Items = append(items[:idx:idx], items[idx+1:]...)
	return out, nil
}

// Slots projects the list onto the board. Entries outside the board are
// left out of the projection.
func Slots(units []models.BoardUnit) [Capacity]*models.BoardUnit {
	var slots [Capacity]*models.BoardUnit
	for i := range units {
		if inRange(units[i].Position) && slots[units[i].Position] == nil {
			u := units[i]
			slots[u.Position] = &u
		}
	}
	return slots
}
