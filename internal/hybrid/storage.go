// Package hybrid puts a local cache in front of the remote store.
//
// Catalog reads are served from the cache while it is fresh and fall back to
// whatever the cache holds when the remote store fails. Compositions are never
// cached.
package hybrid

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"tacticshub/internal/gateway"
	"tacticshub/internal/localcache"
	"tacticshub/pkg/models"
)

const (
	// CacheVersion is stamped into every metadata record. Bump it whenever
	// the cached JSON shape changes.
	CacheVersion = 1
	// DefaultWindow is how long a cached collection stays fresh.
	DefaultWindow = time.Hour
)

const bulkKey = "all"

type Storage struct {
	gw      gateway.Gateway
	store   localcache.Store
	window  time.Duration
	version int
	now     func() time.Time
	logger  *log.Logger

	flight singleflight.Group
}

type Option func(*Storage)

// WithWindow overrides the freshness window. Non-positive values are ignored.
func WithWindow(d time.Duration) Option {
	return func(s *Storage) {
		if d > 0 {
			s.window = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Storage) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(s *Storage) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithVersion changes the expected cache version; mostly useful in tests.
func WithVersion(v int) Option {
	return func(s *Storage) { s.version = v }
}

// New builds a coordinator. A nil store behaves like localcache.Unavailable.
func New(gw gateway.Gateway, store localcache.Store, opts ...Option) *Storage {
	if store == nil {
		store = localcache.Unavailable{}
	}
	s := &Storage{
		gw:      gw,
		store:   store,
		window:  DefaultWindow,
		version: CacheVersion,
		now:     time.Now,
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CollectionStatus describes one cached collection.
// Valid follows the metadata rule only. Empty is set when the stored data is
// missing, empty or unreadable; reads treat such a collection as a miss even
// while Valid is true.
type CollectionStatus struct {
	Valid       bool       `json:"valid"`
	Empty       bool       `json:"empty"`
	LastUpdated *time.Time `json:"lastUpdated,omitempty"`
}

func (s *Storage) GetUnits(ctx context.Context) []models.Unit {
	return getCollection(ctx, s, localcache.Units, s.gw.GetUnits)
}

func (s *Storage) GetTraits(ctx context.Context) []models.Trait {
	return getCollection(ctx, s, localcache.Traits, s.gw.GetTraits)
}

func (s *Storage) GetComponents(ctx context.Context) []models.Component {
	return getCollection(ctx, s, localcache.Components, s.gw.GetComponents)
}

func (s *Storage) GetItems(ctx context.Context) []models.Item {
	return getCollection(ctx, s, localcache.Items, s.gw.GetItems)
}

// GetAllGameData returns the four collections from cache only when every one
// of them is fresh and non-empty. Otherwise all four are refetched together
// so they stay consistent with each other.
func (s *Storage) GetAllGameData(ctx context.Context) models.GameData {
	if data, ok := s.cachedAll(); ok {
		return data
	}
	data, err := s.loadAll(ctx)
	if err != nil {
		s.logger.Printf("[hybrid] bulk fetch failed, serving cache: %v", err)
		return models.GameData{
			Units:      fallback[models.Unit](s, localcache.Units),
			Traits:     fallback[models.Trait](s, localcache.Traits),
			Components: fallback[models.Component](s, localcache.Components),
			Items:      fallback[models.Item](s, localcache.Items),
		}
	}
	return data
}

// RefreshCache refetches every collection regardless of freshness. The cache
// is left untouched when any fetch fails.
func (s *Storage) RefreshCache(ctx context.Context) error {
	if _, err := s.loadAll(ctx); err != nil {
		s.logger.Printf("[hybrid] refresh failed: %v", err)
		return fmt.Errorf("refresh cache: %w", err)
	}
	s.logger.Printf("[hybrid] cache refreshed")
	return nil
}

// ClearCache drops all cached data and metadata.
func (s *Storage) ClearCache() {
	s.store.ClearAll()
	s.logger.Printf("[hybrid] cache cleared")
}

// Invalidate drops one collection so the next read refetches it.
func (s *Storage) Invalidate(c localcache.Collection) {
	if !c.Valid() {
		return
	}
	s.store.Clear(c)
}

// CacheStatus reports freshness per collection without touching anything.
func (s *Storage) CacheStatus() map[localcache.Collection]CollectionStatus {
	out := make(map[localcache.Collection]CollectionStatus, len(localcache.Collections))
	for _, c := range localcache.Collections {
		st := CollectionStatus{Valid: s.fresh(c), Empty: s.empty(c)}
		if meta, ok := s.store.GetMetadata(c); ok {
			at := meta.LastUpdated
			st.LastUpdated = &at
		}
		out[c] = st
	}
	return out
}

// fresh applies the metadata half of the validity rule: present, current
// version and younger than the window.
func (s *Storage) fresh(c localcache.Collection) bool {
	meta, ok := s.store.GetMetadata(c)
	if !ok || meta.Version != s.version {
		return false
	}
	return s.now().Sub(meta.LastUpdated) < s.window
}

// empty mirrors the data half of the read path without decoding records.
func (s *Storage) empty(c localcache.Collection) bool {
	raw, ok := s.store.Get(c)
	if !ok || len(raw) == 0 {
		return true
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return true
	}
	return len(items) == 0
}

func getCollection[T any](ctx context.Context, s *Storage, c localcache.Collection, fetch func(context.Context) ([]T, error)) []T {
	if s.fresh(c) {
		if items, ok := cached[T](s, c); ok {
			return items
		}
	}

	v, err := s.shared(ctx, string(c), func(ctx context.Context) (any, error) {
		items, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		if items == nil {
			items = []T{}
		}
		put(s, c, items, s.now())
		return items, nil
	})
	if err != nil {
		s.logger.Printf("[hybrid] fetch %s failed, serving cache: %v", c, err)
		return fallback[T](s, c)
	}
	return slices.Clone(v.([]T))
}

// cached decodes a collection, treating missing, empty or unreadable data as
// a miss.
func cached[T any](s *Storage, c localcache.Collection) ([]T, bool) {
	raw, ok := s.store.Get(c)
	if !ok || len(raw) == 0 {
		return nil, false
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		s.logger.Printf("[hybrid] discarding unreadable %s cache: %v", c, err)
		return nil, false
	}
	if len(items) == 0 {
		return nil, false
	}
	return items, true
}

// fallback returns whatever the cache holds, stale or not, and never nil.
func fallback[T any](s *Storage, c localcache.Collection) []T {
	items, ok := cached[T](s, c)
	if !ok {
		return []T{}
	}
	return items
}

func put[T any](s *Storage, c localcache.Collection, items []T, at time.Time) {
	raw, err := json.Marshal(items)
	if err != nil {
		s.logger.Printf("[hybrid] encode %s: %v", c, err)
		return
	}
	s.store.Set(c, raw)
	s.store.SetMetadata(c, localcache.Metadata{LastUpdated: at, Version: s.version})
}

func (s *Storage) cachedAll() (models.GameData, bool) {
	for _, c := range localcache.Collections {
		if !s.fresh(c) {
			return models.GameData{}, false
		}
	}
	units, ok := cached[models.Unit](s, localcache.Units)
	if !ok {
		return models.GameData{}, false
	}
	traits, ok := cached[models.Trait](s, localcache.Traits)
	if !ok {
		return models.GameData{}, false
	}
	components, ok := cached[models.Component](s, localcache.Components)
	if !ok {
		return models.GameData{}, false
	}
	items, ok := cached[models.Item](s, localcache.Items)
	if !ok {
		return models.GameData{}, false
	}
	return models.GameData{Units: units, Traits: traits, Components: components, Items: items}, true
}

// loadAll fetches the four collections concurrently and writes them only
// after every fetch succeeded. Concurrent callers share one round trip.
func (s *Storage) loadAll(ctx context.Context) (models.GameData, error) {
	v, err := s.shared(ctx, bulkKey, func(ctx context.Context) (any, error) {
		data, err := s.fetchAll(ctx)
		if err != nil {
			return nil, err
		}
		at := s.now()
		put(s, localcache.Units, data.Units, at)
		put(s, localcache.Traits, data.Traits, at)
		put(s, localcache.Components, data.Components, at)
		put(s, localcache.Items, data.Items, at)
		return data, nil
	})
	if err != nil {
		return models.GameData{}, err
	}
	data := v.(models.GameData)
	return models.GameData{
		Units:      slices.Clone(data.Units),
		Traits:     slices.Clone(data.Traits),
		Components: slices.Clone(data.Components),
		Items:      slices.Clone(data.Items),
	}, nil
}

// shared runs fn once per key for all concurrent callers. fn sees the first
// caller's values but never its cancellation, so one caller giving up does not
// fail the others. Each caller still stops waiting when its own ctx is done.
func (s *Storage) shared(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	detached := context.WithoutCancel(ctx)
	ch := s.flight.DoChan(key, func() (any, error) { return fn(detached) })
	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// fetchAll has no cancellation: one failure does not abort the other fetches.
func (s *Storage) fetchAll(ctx context.Context) (models.GameData, error) {
	var (
		g    errgroup.Group
		data models.GameData
	)
	g.Go(func() error {
		units, err := s.gw.GetUnits(ctx)
		if err != nil {
			return fmt.Errorf("fetch units: %w", err)
		}
		data.Units = orEmpty(units)
		return nil
	})
	g.Go(func() error {
		traits, err := s.gw.GetTraits(ctx)
		if err != nil {
			return fmt.Errorf("fetch traits: %w", err)
		}
		data.Traits = orEmpty(traits)
		return nil
	})
	g.Go(func() error {
		components, err := s.gw.GetComponents(ctx)
		if err != nil {
			return fmt.Errorf("fetch components: %w", err)
		}
		data.Components = orEmpty(components)
		return nil
	})
	g.Go(func() error {
		items, err := s.gw.GetItems(ctx)
		if err != nil {
			return fmt.Errorf("fetch items: %w", err)
		}
		data.Items = orEmpty(items)
		return nil
	})
	if err := g.Wait(); err != nil {
		return models.GameData{}, err
	}
	return data, nil
}

func orEmpty[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
