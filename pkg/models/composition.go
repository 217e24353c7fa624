package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidOwner  = errors.New("owner required")
	ErrInvalidRating = errors.New("unknown rating")
)

// Rating is the quality tier an author gives a composition.
type Rating string

const (
	RatingS    Rating = "S"
	RatingA    Rating = "A"
	RatingB    Rating = "B"
	RatingC    Rating = "C"
	RatingNone Rating = ""
)

// Ratings lists ratings from best to worst.
var Ratings = []Rating{RatingS, RatingA, RatingB, RatingC}

func (r Rating) Valid() bool {
	switch r {
	case RatingS, RatingA, RatingB, RatingC, RatingNone:
		return true
	}
	return false
}

type BoardUnit struct {
	UnitID   string   `json:"unitId"`
	Position int      `json:"position"`
	Items    []string `json:"items"`
}

type Composition struct {
	ID          string      `json:"id"`
	UserID      string      `json:"userId"`
	Author      string      `json:"author,omitempty"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Units       []BoardUnit `json:"units"`
	Rating      Rating      `json:"rating,omitempty"`
	IsPublic    bool        `json:"isPublic"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// CompositionPatch is a partial update; nil fields are left untouched.
type CompositionPatch struct {
	ID          string       `json:"id"`
	Name        *string      `json:"name,omitempty"`
	Description *string      `json:"description,omitempty"`
	Units       *[]BoardUnit `json:"units,omitempty"`
	Rating      *Rating      `json:"rating,omitempty"`
	IsPublic    *bool        `json:"isPublic,omitempty"`
}

// Apply returns c with every non-nil patch field copied over.
func (p CompositionPatch) Apply(c Composition) Composition {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.Units != nil {
		c.Units = *p.Units
	}
	if p.Rating != nil {
		c.Rating = *p.Rating
	}
	if p.IsPublic != nil {
		c.IsPublic = *p.IsPublic
	}
	return c
}

// PatchFrom builds a patch that overwrites every editable field.
func PatchFrom(c Composition) CompositionPatch {
	units := c.Units
	return CompositionPatch{
		ID:          c.ID,
		Name:        &c.Name,
		Description: &c.Description,
		Units:       &units,
		Rating:      &c.Rating,
		IsPublic:    &c.IsPublic,
	}
}

// GameData is the full catalog snapshot.
type GameData struct {
	Units      []Unit      `json:"units"`
	Traits     []Trait     `json:"traits"`
	Components []Component `json:"components"`
	Items      []Item      `json:"items"`
}

// Validate checks the fields every stored composition carries.
func (c Composition) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("composition: %w", ErrInvalidID)
	}
	if strings.TrimSpace(c.UserID) == "" {
		return fmt.Errorf("composition %q: %w", c.ID, ErrInvalidOwner)
	}
	if !c.Rating.Valid() {
		return fmt.Errorf("composition %q: %w: %s", c.ID, ErrInvalidRating, c.Rating)
	}
	return nil
}
