package board

import (
	"errors"
	"fmt"
	"strings"

	"tacticshub/pkg/models"
)

var (
	ErrNameRequired      = errors.New("composition name required")
	ErrNoUnits           = errors.New("composition needs at least one unit")
	ErrOwnerRequired     = errors.New("composition owner required")
	ErrForbidden         = errors.New("only the owner or an administrator may change this composition")
	ErrDuplicatePosition = errors.New("two units share a position")
	ErrUnknownUnit       = errors.New("unknown unit")
	ErrUnknownItem       = errors.New("unknown item")
	ErrBadRating         = errors.New("unknown rating")
)

// Actor is the authenticated caller.
type Actor struct {
	ID    string
	Admin bool
}

// CanEdit reports whether a may update or delete c.
func CanEdit(a Actor, c models.Composition) bool {
	if a.ID == "" {
		return false
	}
	return a.Admin || a.ID == c.UserID
}

// ValidateUnits checks positions and item counts of a unit list.
func ValidateUnits(units []models.BoardUnit) error {
	seen := make(map[int]bool, len(units))
	for _, u := range units {
		if strings.TrimSpace(u.UnitID) == "" {
			return ErrUnitRequired
		}
		if !inRange(u.Position) {
			return fmt.Errorf("%w: %d", ErrPositionOutOfRange, u.Position)
		}
		if seen[u.Position] {
			return fmt.Errorf("%w: %d", ErrDuplicatePosition, u.Position)
		}
		seen[u.Position] = true
		if len(u.Items) > MaxItems {
			return fmt.Errorf("%w at position %d", ErrItemCap, u.Position)
		}
	}
	return nil
}

// CheckReferences makes sure every unit and item id exists in the catalog.
func CheckReferences(units []models.BoardUnit, catalogUnits []models.Unit, catalogItems []models.Item) error {
	unitIDs := make(map[string]bool, len(catalogUnits))
	for _, u := range catalogUnits {
		unitIDs[u.ID] = true
	}
	itemIDs := make(map[string]bool, len(catalogItems))
	for _, it := range catalogItems {
		itemIDs[it.ID] = true
	}
	for _, bu := range units {
		if !unitIDs[bu.UnitID] {
			return fmt.Errorf("%w: %s", ErrUnknownUnit, bu.UnitID)
		}
		for _, id := range bu.Items {
			if !itemIDs[id] {
				return fmt.Errorf("%w: %s", ErrUnknownItem, id)
			}
		}
	}
	return nil
}

// ValidateForSave runs the checks a new composition must pass before it is
// sent anywhere.
func ValidateForSave(c models.Composition) error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrNameRequired
	}
	if len(c.Units) == 0 {
		return ErrNoUnits
	}
	if strings.TrimSpace(c.UserID) == "" {
		return ErrOwnerRequired
	}
	if !c.Rating.Valid() {
		return fmt.Errorf("%w: %s", ErrBadRating, c.Rating)
	}
	return ValidateUnits(c.Units)
}

// ValidateForUpdate is ValidateForSave plus the ownership check.
func ValidateForUpdate(a Actor, c models.Composition) error {
	if err := ValidateForSave(c); err != nil {
		return err
	}
	if !CanEdit(a, c) {
		return ErrForbidden
	}
	return nil
}
