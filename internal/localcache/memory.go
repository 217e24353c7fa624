package localcache

import "sync"

// MemoryStore keeps everything in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[Collection][]byte
	meta map[Collection]Metadata
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[Collection][]byte),
		meta: make(map[Collection]Metadata),
	}
}

func (s *MemoryStore) Get(c Collection) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.data[c]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), b...), true
}

func (s *MemoryStore) Set(c Collection, data []byte) {
	s.mu.Lock()
	s.data[c] = append([]byte(nil), data...)
	s.mu.Unlock()
}

func (s *MemoryStore) GetMetadata(c Collection) (Metadata, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.meta[c]
	return m, ok
}

func (s *MemoryStore) SetMetadata(c Collection, meta Metadata) {
	s.mu.Lock()
	s.meta[c] = meta
	s.mu.Unlock()
}

func (s *MemoryStore) Clear(c Collection) {
	s.mu.Lock()
	delete(s.data, c)
	delete(s.meta, c)
	s.mu.Unlock()
}

func (s *MemoryStore) ClearAll() {
	s.mu.Lock()
	s.data = make(map[Collection][]byte)
	s.meta = make(map[Collection]Metadata)
	s.mu.Unlock()
}
