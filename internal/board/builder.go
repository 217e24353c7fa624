package board

import "tacticshub/pkg/models"

// NoSelection marks a Builder with no selected hex.
const NoSelection = -1

// Builder tracks an in-progress composition together with the hex the user
// has selected. Item operations act on the selected hex.
type Builder struct {
	Units    []models.BoardUnit
	Selected int
}

func NewBuilder(units []models.BoardUnit) *Builder {
	return &Builder{Units: units, Selected: NoSelection}
}

// Select marks pos as the active hex.
func (b *Builder) Select(pos int) error {
	if !inRange(pos) {
		return ErrPositionOutOfRange
	}
	b.Selected = pos
	return nil
}

// PlaceSelected puts unitID on the selected hex and clears the selection.
func (b *Builder) PlaceSelected(unitID string) error {
	if b.Selected == NoSelection {
		return ErrPositionOutOfRange
	}
	units, err := Place(b.Units, unitID, b.Selected)
	if err != nil {
		return err
	}
	b.Units = units
	b.Selected = NoSelection
	return nil
}

// Remove drops the unit at pos; a selection on pos goes with it.
func (b *Builder) Remove(pos int) {
	b.Units = Remove(b.Units, pos)
	if b.Selected == pos {
		b.Selected = NoSelection
	}
}

func (b *Builder) AddItem(itemID string) error {
	units, err := AddItem(b.Units, b.Selected, itemID)
	if err != nil {
		return err
	}
	b.Units = units
	return nil
}

func (b *Builder) RemoveItem(idx int) error {
	units, err := RemoveItem(b.Units, b.Selected, idx)
	if err != nil {
		return err
	}
	b.Units = units
	return nil
}

// Reset empties the board.
func (b *Builder) Reset() {
	b.Units = nil
	b.Selected = NoSelection
}
