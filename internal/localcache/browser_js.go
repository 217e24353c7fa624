//go:build js && wasm

package localcache

import (
	"encoding/json"
	"syscall/js"
)

// BrowserStore stores collections in window.localStorage. Browsers can
// refuse storage access (privacy mode, quota); every such failure is
// swallowed and reported as an empty result.
type BrowserStore struct {
	storage js.Value
}

// NewBrowserStore returns a BrowserStore, or Unavailable when the page has
// no localStorage.
func NewBrowserStore() Store {
	storage, ok := lookupStorage()
	if !ok {
		return Unavailable{}
	}
	return &BrowserStore{storage: storage}
}

func lookupStorage() (storage js.Value, ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	window := js.Global().Get("window")
	if window.IsUndefined() || window.IsNull() {
		return js.Value{}, false
	}
	storage = window.Get("localStorage")
	if storage.IsUndefined() || storage.IsNull() {
		return js.Value{}, false
	}
	return storage, true
}

func (s *BrowserStore) getItem(key string) (v string, ok bool) {
	defer func() {
		if recover() != nil {
			v, ok = "", false
		}
	}()
	item := s.storage.Call("getItem", key)
	if item.IsNull() || item.IsUndefined() {
		return "", false
	}
	return item.String(), true
}

func (s *BrowserStore) setItem(key, value string) {
	defer func() { _ = recover() }()
	s.storage.Call("setItem", key, value)
}

func (s *BrowserStore) removeItem(key string) {
	defer func() { _ = recover() }()
	s.storage.Call("removeItem", key)
}

func (s *BrowserStore) Get(c Collection) ([]byte, bool) {
	v, ok := s.getItem(dataKey(c))
	if !ok {
		return nil, false
	}
	return []byte(v), true
}

func (s *BrowserStore) Set(c Collection, data []byte) {
	s.setItem(dataKey(c), string(data))
}

func (s *BrowserStore) GetMetadata(c Collection) (Metadata, bool) {
	v, ok := s.getItem(metadataKey(c))
	if !ok {
		return Metadata{}, false
	}
	var m Metadata
	if err := json.Unmarshal([]byte(v), &m); err != nil {
		return Metadata{}, false
	}
	return m, true
}

func (s *BrowserStore) SetMetadata(c Collection, meta Metadata) {
	b, err := json.Marshal(meta)
	if err != nil {
		return
	}
	s.setItem(metadataKey(c), string(b))
}

func (s *BrowserStore) Clear(c Collection) {
	s.removeItem(dataKey(c))
	s.removeItem(metadataKey(c))
}

func (s *BrowserStore) ClearAll() {
	for _, c := range Collections {
		s.Clear(c)
	}
}
