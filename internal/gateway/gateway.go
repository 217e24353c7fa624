// Package gateway talks to the authoritative store behind the HTTP API.
package gateway

import (
	"context"
	"errors"
	"log"

	"tacticshub/pkg/models"
)

var (
	// ErrRejected is returned when the API answers with a non-2xx status.
	ErrRejected = errors.New("request rejected")
	// ErrNotFound is returned for 404 answers.
	ErrNotFound = errors.New("not found")
)

type CatalogSource interface {
	GetUnits(ctx context.Context) ([]models.Unit, error)
	GetTraits(ctx context.Context) ([]models.Trait, error)
	GetComponents(ctx context.Context) ([]models.Component, error)
	GetItems(ctx context.Context) ([]models.Item, error)
}

type CatalogWriter interface {
	SaveUnit(ctx context.Context, u models.Unit) (*models.Unit, error)
	UpdateUnit(ctx context.Context, u models.Unit) (*models.Unit, error)
	DeleteUnit(ctx context.Context, id string) error

	SaveTrait(ctx context.Context, t models.Trait) (*models.Trait, error)
	UpdateTrait(ctx context.Context, t models.Trait) (*models.Trait, error)
	DeleteTrait(ctx context.Context, id string) error

	SaveComponent(ctx context.Context, c models.Component) (*models.Component, error)
	UpdateComponent(ctx context.Context, c models.Component) (*models.Component, error)
	DeleteComponent(ctx context.Context, id string) error

	SaveItem(ctx context.Context, i models.Item) (*models.Item, error)
	UpdateItem(ctx context.Context, i models.Item) (*models.Item, error)
	DeleteItem(ctx context.Context, id string) error
}

type CompositionQuery struct {
	UserID     string
	PublicOnly bool
}

type CompositionStore interface {
	GetCompositions(ctx context.Context, q CompositionQuery) ([]models.Composition, error)
	SaveComposition(ctx context.Context, c models.Composition) (*models.Composition, error)
	UpdateComposition(ctx context.Context, p models.CompositionPatch) (*models.Composition, error)
	DeleteComposition(ctx context.Context, id string) error
}

// Gateway is everything the client needs from the remote store.
type Gateway interface {
	CatalogSource
	CatalogWriter
	CompositionStore
}

type validator interface {
	Validate() error
}

// keepValid drops malformed records instead of passing them on.
func keepValid[T validator](logger *log.Logger, kind string, in []T) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		if err := v.Validate(); err != nil {
			logger.Printf("[gateway] dropping malformed %s: %v", kind, err)
			continue
		}
		out = append(out, v)
	}
	return out
}
