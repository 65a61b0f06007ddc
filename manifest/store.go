package manifest

import (
	"encoding/json"
	"sync"

	"github.com/greasekit/greasekit/errs"
	"github.com/greasekit/greasekit/internal/storage"
)

// Store persists the manifest through the storage collaborator. Every
// operation is a whole-document read-modify-write; a mutex serializes the
// cycle so concurrent callers cannot interleave (the alternative, accepting
// last-writer-wins, was rejected).
type Store struct {
	mu      sync.Mutex
	storage storage.Storage
	name    string
}

// NewStore returns a store persisting to the named file in the save location.
func NewStore(st storage.Storage, name string) *Store {
	return &Store{storage: st, name: name}
}

// Load reads the manifest in full. A missing manifest file yields a fresh
// manifest seeded with default settings; an unreadable or unparseable one is
// fatal to the call, since no meaningful work can proceed without it.
func (s *Store) Load() (*Manifest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() (*Manifest, error) {
	if !s.storage.Exists(s.name) {
		return New(), nil
	}
	data, err := s.storage.Read(s.name)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errs.Wrap(errs.KindIO, "manifest.Load", err).WithFile(s.name)
	}
	m.normalize()
	return &m, nil
}

func (s *Store) save(m *Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return errs.Wrap(errs.KindIO, "manifest.Save", err).WithFile(s.name)
	}
	return s.storage.Write(s.name, data)
}

// Update runs fn against the current manifest and writes the result back in
// full. If fn returns an error nothing is written.
func (s *Store) Update(fn func(*Manifest) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(m); err != nil {
		return err
	}
	return s.save(m)
}
