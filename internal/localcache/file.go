package localcache

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps one file per key under Dir. If Dir cannot be created the
// store behaves like Unavailable.
type FileStore struct {
	Dir    string
	mu     sync.Mutex
	usable bool
	logger *log.Logger
}

func NewFileStore(dir string, logger *log.Logger) *FileStore {
	if logger == nil {
		logger = log.Default()
	}
	s := &FileStore{Dir: dir, logger: logger}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.Printf("[localcache] cache dir %s unavailable: %v", dir, err)
		return s
	}
	s.usable = true
	return s
}

// Available reports whether the store has a usable directory.
func (s *FileStore) Available() bool {
	return s.usable
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.Dir, key+".json")
}

func (s *FileStore) read(key string) ([]byte, bool) {
	if !s.usable {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path(key))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Printf("[localcache] read %s: %v", key, err)
		}
		return nil, false
	}
	return b, true
}

func (s *FileStore) write(key string, b []byte) {
	if !s.usable {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	// write-then-rename so readers never see half a file
	tmp := s.path(key) + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		s.logger.Printf("[localcache] write %s: %v", key, err)
		return
	}
	if err := os.Rename(tmp, s.path(key)); err != nil {
		s.logger.Printf("[localcache] rename %s: %v", key, err)
		_ = os.Remove(tmp)
	}
}

func (s *FileStore) remove(key string) {
	if !s.usable {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.logger.Printf("[localcache] remove %s: %v", key, err)
	}
}

func (s *FileStore) Get(c Collection) ([]byte, bool) {
	return s.read(dataKey(c))
}

func (s *FileStore) Set(c Collection, data []byte) {
	s.write(dataKey(c), data)
}

func (s *FileStore) GetMetadata(c Collection) (Metadata, bool) {
	b, ok := s.read(metadataKey(c))
	if !ok {
		return Metadata{}, false
	}
	var m Metadata
	if err := json.Unmarshal(b, &m); err != nil {
		return Metadata{}, false
	}
	return m, true
}

func (s *FileStore) SetMetadata(c Collection, meta Metadata) {
	b, err := json.Marshal(meta)
	if err != nil {
		return
	}
	s.write(metadataKey(c), b)
}

func (s *FileStore) Clear(c Collection) {
	s.remove(dataKey(c))
	s.remove(metadataKey(c))
}

func (s *FileStore) ClearAll() {
	for _, c := range Collections {
		s.Clear(c)
	}
}
