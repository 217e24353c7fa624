package hybrid

import (
	"context"
	"fmt"
	"strings"

	"tacticshub/internal/gateway"
	"tacticshub/internal/localcache"
	"tacticshub/pkg/models"
)

// Catalog writes go straight to the remote store. A successful write
// invalidates the affected collection so the next read refetches it.

func (s *Storage) SaveUnit(ctx context.Context, u models.Unit) (*models.Unit, error) {
	return writeThrough(s, localcache.Units, "save", func() (*models.Unit, error) { return s.gw.SaveUnit(ctx, u) })
}

func (s *Storage) UpdateUnit(ctx context.Context, u models.Unit) (*models.Unit, error) {
	if err := u.Validate(); err != nil {
		return nil, fmt.Errorf("update units: %w", err)
	}
	return writeThrough(s, localcache.Units, "update", func() (*models.Unit, error) { return s.gw.UpdateUnit(ctx, u) })
}

func (s *Storage) DeleteUnit(ctx context.Context, id string) error {
	return s.deleteThrough(ctx, localcache.Units, id, s.gw.DeleteUnit)
}

func (s *Storage) SaveTrait(ctx context.Context, t models.Trait) (*models.Trait, error) {
	return writeThrough(s, localcache.Traits, "save", func() (*models.Trait, error) { return s.gw.SaveTrait(ctx, t) })
}

func (s *Storage) UpdateTrait(ctx context.Context, t models.Trait) (*models.Trait, error) {
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("update traits: %w", err)
	}
	return writeThrough(s, localcache.Traits, "update", func() (*models.Trait, error) { return s.gw.UpdateTrait(ctx, t) })
}

func (s *Storage) DeleteTrait(ctx context.Context, id string) error {
	return s.deleteThrough(ctx, localcache.Traits, id, s.gw.DeleteTrait)
}

func (s *Storage) SaveComponent(ctx context.Context, c models.Component) (*models.Component, error) {
	return writeThrough(s, localcache.Components, "save", func() (*models.Component, error) { return s.gw.SaveComponent(ctx, c) })
}

func (s *Storage) UpdateComponent(ctx context.Context, c models.Component) (*models.Component, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("update components: %w", err)
	}
	return writeThrough(s, localcache.Components, "update", func() (*models.Component, error) { return s.gw.UpdateComponent(ctx, c) })
}

func (s *Storage) DeleteComponent(ctx context.Context, id string) error {
	return s.deleteThrough(ctx, localcache.Components, id, s.gw.DeleteComponent)
}

func (s *Storage) SaveItem(ctx context.Context, i models.Item) (*models.Item, error) {
	return writeThrough(s, localcache.Items, "save", func() (*models.Item, error) { return s.gw.SaveItem(ctx, i) })
}

func (s *Storage) UpdateItem(ctx context.Context, i models.Item) (*models.Item, error) {
	if err := i.Validate(); err != nil {
		return nil, fmt.Errorf("update items: %w", err)
	}
	return writeThrough(s, localcache.Items, "update", func() (*models.Item, error) { return s.gw.UpdateItem(ctx, i) })
}

func (s *Storage) DeleteItem(ctx context.Context, id string) error {
	return s.deleteThrough(ctx, localcache.Items, id, s.gw.DeleteItem)
}

func writeThrough[T any](s *Storage, c localcache.Collection, verb string, op func() (*T, error)) (*T, error) {
	out, err := op()
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", verb, c, err)
	}
	if out == nil {
		return nil, fmt.Errorf("%s %s: %w", verb, c, gateway.ErrRejected)
	}
	s.Invalidate(c)
	return out, nil
}

func (s *Storage) deleteThrough(ctx context.Context, c localcache.Collection, id string, del func(context.Context, string) error) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("delete %s: %w", c, models.ErrInvalidID)
	}
	if err := del(ctx, id); err != nil {
		return fmt.Errorf("delete %s %s: %w", c, id, err)
	}
	s.Invalidate(c)
	return nil
}
