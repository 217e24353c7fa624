package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidID         = errors.New("id required")
	ErrInvalidName       = errors.New("name required")
	ErrInvalidCost       = errors.New("cost must be 1-5")
	ErrInvalidBreakpoint = errors.New("breakpoint threshold must be positive")
	ErrInvalidTier       = errors.New("unknown tier")
	ErrInvalidItemType   = errors.New("unknown item type")
)

// Tier is the colour band a trait reaches at a breakpoint.
type Tier string

const (
	TierBronze      Tier = "bronze"
	TierLightBronze Tier = "light-bronze"
	TierSilver      Tier = "silver"
	TierGold        Tier = "gold"
	TierPlatinum    Tier = "platinum"
)

// Tiers lists every tier from lowest to highest rank.
var Tiers = []Tier{TierBronze, TierLightBronze, TierSilver, TierGold, TierPlatinum}

// Rank orders tiers; unknown tiers rank 0, bronze ranks 1.
func (t Tier) Rank() int {
	for i, known := range Tiers {
		if known == t {
			return i + 1
		}
	}
	return 0
}

type ItemType string

const (
	ItemStandard ItemType = "standard"
	ItemEmblem   ItemType = "emblem"
	ItemArtifact ItemType = "artifact"
	ItemOther    ItemType = "other"
)

func (t ItemType) Valid() bool {
	switch t {
	case ItemStandard, ItemEmblem, ItemArtifact, ItemOther:
		return true
	}
	return false
}

type Unit struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Cost   int      `json:"cost"`
	Image  string   `json:"image"`
	Traits []string `json:"traits"` // trait names, not IDs
}

type Breakpoint struct {
	Num   int  `json:"num"`   // unit count threshold
	Color Tier `json:"color"` // tier reached at the threshold
}

type Trait struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Image       string       `json:"image"`
	Breakpoints []Breakpoint `json:"breakpoints"`
}

type Component struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

type Item struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Type   ItemType `json:"type"`
	Image  string   `json:"image"`
	Recipe []string `json:"recipe"` // component IDs; empty means base item
}

// IsBase reports whether the item has no recipe.
func (i Item) IsBase() bool {
	return len(i.Recipe) == 0
}

func (u Unit) Validate() error {
	if err := validateNamed(u.ID, u.Name); err != nil {
		return fmt.Errorf("unit %q: %w", u.ID, err)
	}
	if u.Cost < 1 || u.Cost > 5 {
		return fmt.Errorf("unit %q: %w", u.ID, ErrInvalidCost)
	}
	return nil
}

// HasTrait reports whether the unit lists the named trait.
func (u Unit) HasTrait(name string) bool {
	for _, t := range u.Traits {
		if t == name {
			return true
		}
	}
	return false
}

func (t Trait) Validate() error {
	if err := validateNamed(t.ID, t.Name); err != nil {
		return fmt.Errorf("trait %q: %w", t.ID, err)
	}
	for _, bp := range t.Breakpoints {
		if bp.Num <= 0 {
			return fmt.Errorf("trait %q: %w", t.ID, ErrInvalidBreakpoint)
		}
		if bp.Color.Rank() == 0 {
			return fmt.Errorf("trait %q: %w: %s", t.ID, ErrInvalidTier, bp.Color)
		}
	}
	return nil
}

func (c Component) Validate() error {
	if err := validateNamed(c.ID, c.Name); err != nil {
		return fmt.Errorf("component %q: %w", c.ID, err)
	}
	return nil
}

func (i Item) Validate() error {
	if err := validateNamed(i.ID, i.Name); err != nil {
		return fmt.Errorf("item %q: %w", i.ID, err)
	}
	if !i.Type.Valid() {
		return fmt.Errorf("item %q: %w: %s", i.ID, ErrInvalidItemType, i.Type)
	}
	return nil
}

func validateNamed(id, name string) error {
	if strings.TrimSpace(id) == "" {
		return ErrInvalidID
	}
	if strings.TrimSpace(name) == "" {
		return ErrInvalidName
	}
	return nil
}
