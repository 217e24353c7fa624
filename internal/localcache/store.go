// Package localcache persists catalog snapshots on the client side.
//
// Stores never return errors: when the backing storage is missing or broken
// every call degrades to a no-op that reports an empty result.
package localcache

import "time"

// Collection names one of the four catalog snapshots.
type Collection string

const (
	Units      Collection = "units"
	Traits     Collection = "traits"
	Components Collection = "components"
	Items      Collection = "items"
)

// Collections lists every catalog collection in a fixed order.
var Collections = []Collection{Units, Traits, Components, Items}

// Valid reports whether c is one of the four known collections.
func (c Collection) Valid() bool {
	switch c {
	case Units, Traits, Components, Items:
		return true
	}
	return false
}

// Metadata stamps a cached collection.
type Metadata struct {
	LastUpdated time.Time `json:"lastUpdated"`
	Version     int       `json:"version"`
}

// Store is key-addressed storage for collection data and its metadata.
// Data and metadata writes are separate calls; a crash between them can
// leave data without metadata, which readers must treat as stale.
type Store interface {
	Get(c Collection) ([]byte, bool)
	Set(c Collection, data []byte)
	GetMetadata(c Collection) (Metadata, bool)
	SetMetadata(c Collection, meta Metadata)
	Clear(c Collection)
	ClearAll()
}

func dataKey(c Collection) string {
	return "tacticshub_" + string(c)
}

func metadataKey(c Collection) string {
	return string(c) + "_metadata"
}

// Unavailable is the store used where no persistent storage exists.
type Unavailable struct{}

func (Unavailable) Get(Collection) ([]byte, bool)           { return nil, false }
func (Unavailable) Set(Collection, []byte)                  {}
func (Unavailable) GetMetadata(Collection) (Metadata, bool) { return Metadata{}, false }
func (Unavailable) SetMetadata(Collection, Metadata)        {}
func (Unavailable) Clear(Collection)                        {}
func (Unavailable) ClearAll()                               {}
