package store

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps documents in a map.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[uuid.UUID]Document
	now  func() time.Time
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[uuid.UUID]Document), now: time.Now}
}

func (s *MemoryStore) Save(_ context.Context, doc *Document) error {
	if err := validate(doc); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc.UpdatedAt = s.now().UTC()
	cp := *doc
	cp.Graph = slices.Clone(doc.Graph)
	s.docs[doc.ID] = cp
	return nil
}

func (s *MemoryStore) Load(_ context.Context, id uuid.UUID) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	if !ok {
		return nil, notFound(id)
	}
	doc.Graph = slices.Clone(doc.Graph)
	return &doc, nil
}

func (s *MemoryStore) List(_ context.Context) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Document, 0, len(s.docs))
	for _, d := range s.docs {
		d.Graph = nil
		out = append(out, d)
	}
	sortRecent(out)
	return out, nil
}

func (s *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return notFound(id)
	}
	delete(s.docs, id)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

// sortRecent orders by UpdatedAt descending, then by id.
func sortRecent(docs []Document) {
	slices.SortFunc(docs, func(a, b Document) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID.String(), b.ID.String())
	})
}

var _ Store = (*MemoryStore)(nil)
