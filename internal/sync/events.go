package sync

import "time"

const (
	EventCatalogUpdate     = "catalog.update"
	EventCatalogDelete     = "catalog.delete"
	EventCompositionUpdate = "composition.update"
	EventCompositionDelete = "composition.delete"
)

// CatalogEvent tells clients that one catalog collection changed.
type CatalogEvent struct {
	Type       string    `json:"type"`
	Collection string    `json:"collection"`
	ID         string    `json:"id"`
	At         time.Time `json:"at"`
}

type CompositionEvent struct {
	Type          string    `json:"type"`
	CompositionID string    `json:"composition_id"`
	UserID        string    `json:"user_id"`
	IsPublic      bool      `json:"is_public,omitempty"`
	At            time.Time `json:"at"`
}

// Envelope is enough of any event to route it by type.
type Envelope struct {
	Type       string `json:"type"`
	Collection string `json:"collection,omitempty"`
}
