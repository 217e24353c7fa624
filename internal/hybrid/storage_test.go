package hybrid

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tacticshub/internal/board"
	"tacticshub/internal/gateway"
	"tacticshub/internal/localcache"
	"tacticshub/pkg/models"
)

var errDown = errors.New("remote store down")

type fakeGateway struct {
	mu    sync.Mutex
	calls map[string]int
	fail  map[string]bool

	units      []models.Unit
	traits     []models.Trait
	components []models.Component
	items      []models.Item
	comps      []models.Composition

	lastQuery gateway.CompositionQuery
	lastPatch models.CompositionPatch
	saveNil   bool

	// gate, when set, holds GetUnits until closed.
	gate chan struct{}
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		calls:      map[string]int{},
		fail:       map[string]bool{},
		units:      []models.Unit{{ID: "ahri", Name: "Ahri", Cost: 4, Traits: []string{"Arcana"}}},
		traits:     []models.Trait{{ID: "t1", Name: "Arcana", Breakpoints: []models.Breakpoint{{Num: 2, Color: models.TierBronze}}}},
		components: []models.Component{{ID: "rod", Name: "Rod"}},
		items:      []models.Item{{ID: "deathcap", Name: "Deathcap", Type: models.ItemStandard, Recipe: []string{"rod", "rod"}}},
	}
}

func (f *fakeGateway) hit(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
	if f.fail[op] {
		return fmt.Errorf("%s: %w", op, errDown)
	}
	return nil
}

func (f *fakeGateway) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeGateway) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeGateway) setFail(op string, v bool) {
	f.mu.Lock()
	f.fail[op] = v
	f.mu.Unlock()
}

func (f *fakeGateway) GetUnits(ctx context.Context) ([]models.Unit, error) {
	if f.gate != nil {
		<-f.gate
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := f.hit("units"); err != nil {
		return nil, err
	}
	return f.units, nil
}

func (f *fakeGateway) GetTraits(context.Context) ([]models.Trait, error) {
	if err := f.hit("traits"); err != nil {
		return nil, err
	}
	return f.traits, nil
}

func (f *fakeGateway) GetComponents(context.Context) ([]models.Component, error) {
	if err := f.hit("components"); err != nil {
		return nil, err
	}
	return f.components, nil
}

func (f *fakeGateway) GetItems(context.Context) ([]models.Item, error) {
	if err := f.hit("items"); err != nil {
		return nil, err
	}
	return f.items, nil
}

func (f *fakeGateway) SaveUnit(_ context.Context, u models.Unit) (*models.Unit, error) {
	if err := f.hit("saveUnit"); err != nil {
		return nil, err
	}
	if f.saveNil {
		return nil, nil
	}
	u.ID = "new-unit"
	return &u, nil
}

func (f *fakeGateway) UpdateUnit(_ context.Context, u models.Unit) (*models.Unit, error) {
	if err := f.hit("updateUnit"); err != nil {
		return nil, err
	}
	return &u, nil
}

func (f *fakeGateway) DeleteUnit(context.Context, string) error { return f.hit("deleteUnit") }

func (f *fakeGateway) SaveTrait(_ context.Context, t models.Trait) (*models.Trait, error) {
	if err := f.hit("saveTrait"); err != nil {
		return nil, err
	}
	return &t, nil
}

func (f *fakeGateway) UpdateTrait(_ context.Context, t models.Trait) (*models.Trait, error) {
	if err := f.hit("updateTrait"); err != nil {
		return nil, err
	}
	return &t, nil
}

func (f *fakeGateway) DeleteTrait(context.Context, string) error { return f.hit("deleteTrait") }

func (f *fakeGateway) SaveComponent(_ context.Context, c models.Component) (*models.Component, error) {
	if err := f.hit("saveComponent"); err != nil {
		return nil, err
	}
	return &c, nil
}

func (f *fakeGateway) UpdateComponent(_ context.Context, c models.Component) (*models.Component, error) {
	if err := f.hit("updateComponent"); err != nil {
		return nil, err
	}
	return &c, nil
}

func (f *fakeGateway) DeleteComponent(context.Context, string) error { return f.hit("deleteComponent") }

func (f *fakeGateway) SaveItem(_ context.Context, i models.Item) (*models.Item, error) {
	if err := f.hit("saveItem"); err != nil {
		return nil, err
	}
	return &i, nil
}

func (f *fakeGateway) UpdateItem(_ context.Context, i models.Item) (*models.Item, error) {
	if err := f.hit("updateItem"); err != nil {
		return nil, err
	}
	return &i, nil
}

func (f *fakeGateway) DeleteItem(context.Context, string) error { return f.hit("deleteItem") }

func (f *fakeGateway) GetCompositions(_ context.Context, q gateway.CompositionQuery) ([]models.Composition, error) {
	if err := f.hit("getComps"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.lastQuery = q
	f.mu.Unlock()
	return f.comps, nil
}

func (f *fakeGateway) SaveComposition(_ context.Context, c models.Composition) (*models.Composition, error) {
	if err := f.hit("saveComp"); err != nil {
		return nil, err
	}
	if f.saveNil {
		return nil, nil
	}
	c.ID = "comp-1"
	return &c, nil
}

func (f *fakeGateway) UpdateComposition(_ context.Context, p models.CompositionPatch) (*models.Composition, error) {
	if err := f.hit("updateComp"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.lastPatch = p
	f.mu.Unlock()
	c := p.Apply(models.Composition{ID: p.ID})
	return &c, nil
}

func (f *fakeGateway) DeleteComposition(context.Context, string) error { return f.hit("deleteComp") }

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newStorage(t *testing.T, opts ...Option) (*Storage, *fakeGateway, *localcache.MemoryStore, *clock) {
	t.Helper()
	gw := newFakeGateway()
	store := localcache.NewMemoryStore()
	clk := &clock{t: time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)}
	base := []Option{WithClock(clk.now), WithLogger(log.New(io.Discard, "", 0))}
	return New(gw, store, append(base, opts...)...), gw, store, clk
}

func seed(t *testing.T, store localcache.Store, c localcache.Collection, v any, meta localcache.Metadata) {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	store.Set(c, raw)
	store.SetMetadata(c, meta)
}

func seedAll(t *testing.T, store localcache.Store, gw *fakeGateway, meta localcache.Metadata) {
	seed(t, store, localcache.Units, gw.units, meta)
	seed(t, store, localcache.Traits, gw.traits, meta)
	seed(t, store, localcache.Components, gw.components, meta)
	seed(t, store, localcache.Items, gw.items, meta)
}

func TestGetUnitsEmptyCacheFetchesAndStamps(t *testing.T) {
	s, gw, store, clk := newStorage(t)
	gw.units = make([]models.Unit, 10)
	for i := range gw.units {
		gw.units[i] = models.Unit{ID: fmt.Sprintf("u%d", i), Name: "Unit", Cost: 1}
	}

	units := s.GetUnits(context.Background())

	assert.Len(t, units, 10)
	assert.Equal(t, 1, gw.count("units"))

	raw, ok := store.Get(localcache.Units)
	require.True(t, ok)
	var cached []models.Unit
	require.NoError(t, json.Unmarshal(raw, &cached))
	assert.Len(t, cached, 10)

	meta, ok := store.GetMetadata(localcache.Units)
	require.True(t, ok)
	assert.Equal(t, CacheVersion, meta.Version)
	assert.True(t, clk.t.Equal(meta.LastUpdated))
}

func TestGetUnitsServesFreshCache(t *testing.T) {
	s, gw, store, clk := newStorage(t)
	seed(t, store, localcache.Units, gw.units, localcache.Metadata{LastUpdated: clk.t, Version: CacheVersion})

	clk.advance(59 * time.Minute)
	assert.Len(t, s.GetUnits(context.Background()), 1)
	assert.Equal(t, 0, gw.total())
}

func TestStalenessForcesFetch(t *testing.T) {
	tests := []struct {
		name string
		age  time.Duration
		ver  int
	}{
		{name: "exactly window old", age: DefaultWindow, ver: CacheVersion},
		{name: "older than window", age: 3 * time.Hour, ver: CacheVersion},
		{name: "version mismatch", age: time.Minute, ver: CacheVersion + 1},
		{name: "old version", age: 0, ver: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, gw, store, clk := newStorage(t)
			seed(t, store, localcache.Traits, gw.traits, localcache.Metadata{LastUpdated: clk.t.Add(-tt.age), Version: tt.ver})

			s.GetTraits(context.Background())
			assert.Equal(t, 1, gw.count("traits"))

			meta, ok := store.GetMetadata(localcache.Traits)
			require.True(t, ok)
			assert.Equal(t, CacheVersion, meta.Version)
		})
	}
}

func TestEmptyOrMissingMetadataIsMiss(t *testing.T) {
	s, gw, store, clk := newStorage(t)
	seed(t, store, localcache.Items, []models.Item{}, localcache.Metadata{LastUpdated: clk.t, Version: CacheVersion})
	store.Set(localcache.Components, []byte(`[{"id":"rod","name":"Rod"}]`))

	s.GetItems(context.Background())
	s.GetComponents(context.Background())

	assert.Equal(t, 1, gw.count("items"))
	assert.Equal(t, 1, gw.count("components"))
}

func TestUnreadableCacheIsMiss(t *testing.T) {
	s, gw, store, clk := newStorage(t)
	store.Set(localcache.Units, []byte(`{not json`))
	store.SetMetadata(localcache.Units, localcache.Metadata{LastUpdated: clk.t, Version: CacheVersion})

	assert.Len(t, s.GetUnits(context.Background()), 1)
	assert.Equal(t, 1, gw.count("units"))
}

func TestFallbackToStaleCacheOnFailure(t *testing.T) {
	s, gw, store, clk := newStorage(t)
	stale := []models.Unit{{ID: "old", Name: "Old", Cost: 2}}
	seed(t, store, localcache.Units, stale, localcache.Metadata{LastUpdated: clk.t.Add(-5 * time.Hour), Version: CacheVersion})
	gw.setFail("units", true)

	got := s.GetUnits(context.Background())

	assert.Equal(t, stale, got)
	assert.Equal(t, 1, gw.count("units"))
	// failed fetch must not restamp the cache
	meta, _ := store.GetMetadata(localcache.Units)
	assert.True(t, clk.t.Add(-5*time.Hour).Equal(meta.LastUpdated))
}

func TestFallbackWithEmptyCacheReturnsEmpty(t *testing.T) {
	s, gw, _, _ := newStorage(t)
	gw.setFail("items", true)

	got := s.GetItems(context.Background())
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestGetAllGameDataAllValidSkipsFetch(t *testing.T) {
	s, gw, store, clk := newStorage(t)
	seedAll(t, store, gw, localcache.Metadata{LastUpdated: clk.t, Version: CacheVersion})

	data := s.GetAllGameData(context.Background())

	assert.Equal(t, 0, gw.total())
	assert.Len(t, data.Units, 1)
	assert.Len(t, data.Items, 1)
}

func TestGetAllGameDataOneExpiredRefetchesAll(t *testing.T) {
	s, gw, store, clk := newStorage(t)
	seedAll(t, store, gw, localcache.Metadata{LastUpdated: clk.t, Version: CacheVersion})
	seed(t, store, localcache.Components, gw.components, localcache.Metadata{LastUpdated: clk.t.Add(-2 * time.Hour), Version: CacheVersion})

	s.GetAllGameData(context.Background())

	assert.Equal(t, 4, gw.total())
	for _, op := range []string{"units", "traits", "components", "items"} {
		assert.Equal(t, 1, gw.count(op), op)
	}
	for _, c := range localcache.Collections {
		meta, ok := store.GetMetadata(c)
		require.True(t, ok)
		assert.True(t, clk.t.Equal(meta.LastUpdated), string(c))
	}
}

func TestGetAllGameDataOneEmptyRefetchesAll(t *testing.T) {
	s, gw, store, clk := newStorage(t)
	meta := localcache.Metadata{LastUpdated: clk.t, Version: CacheVersion}
	seedAll(t, store, gw, meta)
	seed(t, store, localcache.Traits, []models.Trait{}, meta)

	data := s.GetAllGameData(context.Background())

	assert.Equal(t, 4, gw.total())
	assert.Len(t, data.Traits, 1)
}

func TestGetAllGameDataPartialFailureWritesNothing(t *testing.T) {
	s, gw, store, clk := newStorage(t)
	old := localcache.Metadata{LastUpdated: clk.t.Add(-2 * time.Hour), Version: CacheVersion}
	seedAll(t, store, gw, old)
	gw.units = []models.Unit{{ID: "fresh", Name: "Fresh", Cost: 1}}
	gw.setFail("items", true)

	data := s.GetAllGameData(context.Background())

	assert.Equal(t, 4, gw.total())
	// stale cache served, fresh units not written
	require.Len(t, data.Units, 1)
	assert.Equal(t, "ahri", data.Units[0].ID)
	for _, c := range localcache.Collections {
		meta, _ := store.GetMetadata(c)
		assert.True(t, old.LastUpdated.Equal(meta.LastUpdated), string(c))
	}
}

func TestRefreshThenGetDoesNotRefetch(t *testing.T) {
	s, gw, store, clk := newStorage(t)
	seedAll(t, store, gw, localcache.Metadata{LastUpdated: clk.t, Version: CacheVersion})

	require.NoError(t, s.RefreshCache(context.Background()))
	assert.Equal(t, 4, gw.total())

	s.GetUnits(context.Background())
	s.GetTraits(context.Background())
	s.GetComponents(context.Background())
	s.GetItems(context.Background())
	s.GetAllGameData(context.Background())
	assert.Equal(t, 4, gw.total())
}

func TestRefreshFailureReturnsError(t *testing.T) {
	s, gw, store, _ := newStorage(t)
	gw.setFail("traits", true)

	err := s.RefreshCache(context.Background())
	require.ErrorIs(t, err, errDown)
	for _, c := range localcache.Collections {
		_, ok := store.Get(c)
		assert.False(t, ok, string(c))
	}
}

func TestClearCacheForcesRefetch(t *testing.T) {
	s, gw, _, _ := newStorage(t)
	require.NoError(t, s.RefreshCache(context.Background()))

	s.ClearCache()
	for c, st := range s.CacheStatus() {
		assert.False(t, st.Valid, string(c))
		assert.Nil(t, st.LastUpdated, string(c))
	}

	s.GetUnits(context.Background())
	assert.Equal(t, 2, gw.count("units"))
}

func TestCacheStatus(t *testing.T) {
	s, gw, store, clk := newStorage(t, WithWindow(10*time.Minute))
	seed(t, store, localcache.Units, gw.units, localcache.Metadata{LastUpdated: clk.t, Version: CacheVersion})
	seed(t, store, localcache.Traits, gw.traits, localcache.Metadata{LastUpdated: clk.t.Add(-11 * time.Minute), Version: CacheVersion})

	status := s.CacheStatus()

	require.Len(t, status, 4)
	assert.True(t, status[localcache.Units].Valid)
	require.NotNil(t, status[localcache.Units].LastUpdated)
	assert.False(t, status[localcache.Traits].Valid)
	require.NotNil(t, status[localcache.Traits].LastUpdated)
	assert.False(t, status[localcache.Items].Valid)
	assert.Nil(t, status[localcache.Items].LastUpdated)
	assert.Equal(t, 0, gw.total())
}

func TestCacheStatusReportsEmptyData(t *testing.T) {
	s, gw, store, clk := newStorage(t)
	fresh := localcache.Metadata{LastUpdated: clk.t, Version: CacheVersion}
	seed(t, store, localcache.Units, gw.units, fresh)
	seed(t, store, localcache.Traits, []models.Trait{}, fresh)
	store.Set(localcache.Items, []byte("{broken"))
	store.SetMetadata(localcache.Items, fresh)

	status := s.CacheStatus()
	assert.True(t, status[localcache.Units].Valid)
	assert.False(t, status[localcache.Units].Empty)
	assert.True(t, status[localcache.Traits].Valid)
	assert.True(t, status[localcache.Traits].Empty)
	assert.True(t, status[localcache.Items].Empty)
	assert.True(t, status[localcache.Components].Empty)

	// valid but empty still refetches on read
	s.GetTraits(context.Background())
	assert.Equal(t, 1, gw.count("traits"))
	assert.False(t, s.CacheStatus()[localcache.Traits].Empty)
}

func TestInvalidate(t *testing.T) {
	s, gw, _, _ := newStorage(t)
	require.NoError(t, s.RefreshCache(context.Background()))

	s.Invalidate(localcache.Items)
	s.Invalidate("bogus")

	s.GetUnits(context.Background())
	s.GetItems(context.Background())
	assert.Equal(t, 1, gw.count("units"))
	assert.Equal(t, 2, gw.count("items"))
}

func TestNilStoreBehavesUnavailable(t *testing.T) {
	gw := newFakeGateway()
	s := New(gw, nil, WithLogger(log.New(io.Discard, "", 0)))

	assert.Len(t, s.GetUnits(context.Background()), 1)
	assert.Len(t, s.GetUnits(context.Background()), 1)
	assert.Equal(t, 2, gw.count("units"))
	assert.False(t, s.CacheStatus()[localcache.Units].Valid)
}

func TestReturnedSliceDoesNotAliasCache(t *testing.T) {
	s, _, _, _ := newStorage(t)
	units := s.GetUnits(context.Background())
	units[0].Name = "mutated"

	assert.Equal(t, "Ahri", s.GetUnits(context.Background())[0].Name)
}

func TestCatalogWriteInvalidates(t *testing.T) {
	s, gw, store, _ := newStorage(t)
	require.NoError(t, s.RefreshCache(context.Background()))

	saved, err := s.SaveUnit(context.Background(), models.Unit{Name: "Jinx", Cost: 3})
	require.NoError(t, err)
	assert.Equal(t, "new-unit", saved.ID)

	_, ok := store.GetMetadata(localcache.Units)
	assert.False(t, ok)
	_, ok = store.GetMetadata(localcache.Traits)
	assert.True(t, ok)

	require.NoError(t, s.DeleteItem(context.Background(), "deathcap"))
	_, ok = store.Get(localcache.Items)
	assert.False(t, ok)
	assert.Equal(t, 1, gw.count("deleteItem"))
}

func TestCatalogWriteFailureKeepsCache(t *testing.T) {
	s, gw, store, _ := newStorage(t)
	require.NoError(t, s.RefreshCache(context.Background()))
	gw.setFail("updateTrait", true)

	_, err := s.UpdateTrait(context.Background(), gw.traits[0])
	require.ErrorIs(t, err, errDown)
	_, ok := store.GetMetadata(localcache.Traits)
	assert.True(t, ok)

	gw.saveNil = true
	_, err = s.SaveUnit(context.Background(), models.Unit{Name: "Jinx", Cost: 3})
	require.ErrorIs(t, err, gateway.ErrRejected)

	err = s.DeleteComponent(context.Background(), " ")
	require.ErrorIs(t, err, models.ErrInvalidID)
	assert.Equal(t, 0, gw.count("deleteComponent"))

	_, err = s.UpdateItem(context.Background(), models.Item{ID: "x", Name: "X", Type: "weird"})
	require.ErrorIs(t, err, models.ErrInvalidItemType)
	assert.Equal(t, 0, gw.count("updateItem"))
}

func TestConcurrentReadsShareFetch(t *testing.T) {
	s, gw, _, _ := newStorage(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			data := s.GetAllGameData(context.Background())
			assert.Len(t, data.Units, 1)
		}()
	}
	wg.Wait()

	// concurrent callers may or may not overlap; never more than one fetch each
	assert.LessOrEqual(t, gw.count("units"), 8)
	assert.GreaterOrEqual(t, gw.count("units"), 1)
	assert.Equal(t, gw.count("units"), gw.count("items"))
}

func TestCancelledCallerDoesNotFailJoinedRead(t *testing.T) {
	s, gw, store, _ := newStorage(t)
	gw.gate = make(chan struct{})

	gone, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Empty(t, s.GetUnits(gone))

	got := make(chan []models.Unit, 1)
	go func() { got <- s.GetUnits(context.Background()) }()
	close(gw.gate)

	units := <-got
	require.Len(t, units, 1)
	assert.Equal(t, "ahri", units[0].ID)
	_, ok := store.GetMetadata(localcache.Units)
	assert.True(t, ok)
}

func TestCancelledCallerDoesNotFailJoinedRefresh(t *testing.T) {
	s, gw, _, _ := newStorage(t)
	gw.gate = make(chan struct{})

	gone, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, s.RefreshCache(gone), context.Canceled)

	done := make(chan error, 1)
	go func() { done <- s.RefreshCache(context.Background()) }()
	close(gw.gate)

	require.NoError(t, <-done)
	for c, st := range s.CacheStatus() {
		assert.True(t, st.Valid, string(c))
	}
}

func TestCompositionsPassThrough(t *testing.T) {
	s, gw, store, _ := newStorage(t)
	gw.comps = []models.Composition{{ID: "c1", UserID: "owner", Name: "Comp"}}

	comps, err := s.GetCompositions(context.Background(), "owner", true)
	require.NoError(t, err)
	assert.Len(t, comps, 1)
	assert.Equal(t, gateway.CompositionQuery{UserID: "owner", PublicOnly: true}, gw.lastQuery)

	_, err = s.GetCompositions(context.Background(), "", false)
	require.NoError(t, err)
	assert.Equal(t, 2, gw.count("getComps"))

	// compositions never touch the cache
	for _, c := range localcache.Collections {
		_, ok := store.Get(c)
		assert.False(t, ok)
	}

	gw.setFail("getComps", true)
	_, err = s.GetCompositions(context.Background(), "", true)
	require.ErrorIs(t, err, errDown)
}

func TestSaveComposition(t *testing.T) {
	s, gw, _, _ := newStorage(t)
	owner := board.Actor{ID: "owner"}
	c := models.Composition{
		Name:  "Arcana",
		Units: []models.BoardUnit{{UnitID: "ahri", Position: 0}},
	}

	saved, err := s.SaveComposition(context.Background(), owner, c)
	require.NoError(t, err)
	assert.Equal(t, "comp-1", saved.ID)
	assert.Equal(t, "owner", saved.UserID)

	c.Name = ""
	_, err = s.SaveComposition(context.Background(), owner, c)
	require.ErrorIs(t, err, board.ErrNameRequired)

	c.Name = "Arcana"
	c.Units = nil
	_, err = s.SaveComposition(context.Background(), owner, c)
	require.ErrorIs(t, err, board.ErrNoUnits)

	_, err = s.SaveComposition(context.Background(), board.Actor{}, models.Composition{Name: "x", Units: []models.BoardUnit{{UnitID: "a"}}})
	require.ErrorIs(t, err, board.ErrOwnerRequired)

	assert.Equal(t, 1, gw.count("saveComp"))

	gw.saveNil = true
	c.Units = []models.BoardUnit{{UnitID: "ahri", Position: 0}}
	_, err = s.SaveComposition(context.Background(), owner, c)
	require.ErrorIs(t, err, gateway.ErrRejected)
}

func TestUpdateAndDeleteCompositionRequireOwnerOrAdmin(t *testing.T) {
	s, gw, _, _ := newStorage(t)
	c := models.Composition{
		ID:     "c1",
		UserID: "owner",
		Name:   "Arcana",
		Units:  []models.BoardUnit{{UnitID: "ahri", Position: 0}},
		Rating: models.RatingS,
	}

	_, err := s.UpdateComposition(context.Background(), board.Actor{ID: "intruder"}, c)
	require.ErrorIs(t, err, board.ErrForbidden)
	err = s.DeleteComposition(context.Background(), board.Actor{ID: "intruder"}, c)
	require.ErrorIs(t, err, board.ErrForbidden)
	assert.Equal(t, 0, gw.total())

	updated, err := s.UpdateComposition(context.Background(), board.Actor{ID: "owner"}, c)
	require.NoError(t, err)
	assert.Equal(t, "Arcana", updated.Name)
	require.NotNil(t, gw.lastPatch.Rating)
	assert.Equal(t, models.RatingS, *gw.lastPatch.Rating)

	require.NoError(t, s.DeleteComposition(context.Background(), board.Actor{ID: "admin", Admin: true}, c))
	assert.Equal(t, 1, gw.count("deleteComp"))

	gw.setFail("deleteComp", true)
	err = s.DeleteComposition(context.Background(), board.Actor{ID: "owner"}, c)
	require.ErrorIs(t, err, errDown)
}
