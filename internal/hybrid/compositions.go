package hybrid

import (
	"context"
	"fmt"
	"strings"

	"tacticshub/internal/board"
	"tacticshub/internal/gateway"
	"tacticshub/pkg/models"
)

// GetCompositions always asks the remote store. publicOnly takes precedence
// over ownerID.
func (s *Storage) GetCompositions(ctx context.Context, ownerID string, publicOnly bool) ([]models.Composition, error) {
	comps, err := s.gw.GetCompositions(ctx, gateway.CompositionQuery{UserID: ownerID, PublicOnly: publicOnly})
	if err != nil {
		return nil, fmt.Errorf("get compositions: %w", err)
	}
	return orEmpty(comps), nil
}

// SaveComposition validates c for actor and creates it remotely. An empty
// owner defaults to the actor.
func (s *Storage) SaveComposition(ctx context.Context, actor board.Actor, c models.Composition) (*models.Composition, error) {
	if strings.TrimSpace(c.UserID) == "" {
		c.UserID = actor.ID
	}
	if err := board.ValidateForSave(c); err != nil {
		return nil, fmt.Errorf("save composition: %w", err)
	}
	if !board.CanEdit(actor, c) {
		return nil, fmt.Errorf("save composition: %w", board.ErrForbidden)
	}
	saved, err := s.gw.SaveComposition(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("save composition: %w", err)
	}
	if saved == nil {
		return nil, fmt.Errorf("save composition: %w", gateway.ErrRejected)
	}
	return saved, nil
}

// UpdateComposition sends every editable field of c as a patch.
func (s *Storage) UpdateComposition(ctx context.Context, actor board.Actor, c models.Composition) (*models.Composition, error) {
	if strings.TrimSpace(c.ID) == "" {
		return nil, fmt.Errorf("update composition: %w", models.ErrInvalidID)
	}
	if err := board.ValidateForUpdate(actor, c); err != nil {
		return nil, fmt.Errorf("update composition %s: %w", c.ID, err)
	}
	updated, err := s.gw.UpdateComposition(ctx, models.PatchFrom(c))
	if err != nil {
		return nil, fmt.Errorf("update composition %s: %w", c.ID, err)
	}
	if updated == nil {
		return nil, fmt.Errorf("update composition %s: %w", c.ID, gateway.ErrRejected)
	}
	return updated, nil
}

func (s *Storage) DeleteComposition(ctx context.Context, actor board.Actor, c models.Composition) error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("delete composition: %w", models.ErrInvalidID)
	}
	if !board.CanEdit(actor, c) {
		return fmt.Errorf("delete composition %s: %w", c.ID, board.ErrForbidden)
	}
	if err := s.gw.DeleteComposition(ctx, c.ID); err != nil {
		return fmt.Errorf("delete composition %s: %w", c.ID, err)
	}
	return nil
}
