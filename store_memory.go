// store_memory.go - In-process Store used by tests and as a dev fallback
package main

import "sync"

type memoryStore struct {
	mu   sync.Mutex
	seq  int64
	docs []doc
}

func newMemoryStore() *memoryStore {
	return &memoryStore{}
}

func (s *memoryStore) List(ordered bool) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make([]doc, len(s.docs))
	for i, d := range s.docs {
		snapshot[i] = doc{seq: d.seq, rec: d.rec.Clone()}
	}
	if ordered {
		return sortDocs(snapshot), nil
	}
	return recordsOf(snapshot), nil
}

func (s *memoryStore) Get(id string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, d := range s.docs {
		if d.rec.ID() == id {
			return d.rec.Clone(), nil
		}
	}
	return nil, errNotFound
}

func (s *memoryStore) InsertMany(recs []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.insertLocked(recs)
	return nil
}

func (s *memoryStore) insertLocked(recs []Record) {
	for _, r := range recs {
		s.seq++
		s.docs = append(s.docs, doc{seq: s.seq, rec: r.Clone()})
	}
}

func (s *memoryStore) Patch(id string, patch Record) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, d := range s.docs {
		if d.rec.ID() == id {
			merged := d.rec.Clone()
			merged.Merge(patch)
			s.docs[i].rec = merged
			return merged.Clone(), nil
		}
	}
	return nil, errNotFound
}

func (s *memoryStore) Delete(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, d := range s.docs {
		if d.rec.ID() == id {
			s.docs = append(s.docs[:i], s.docs[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *memoryStore) DeleteAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs = nil
	return nil
}

func (s *memoryStore) Count() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.docs), nil
}

func (s *memoryStore) SeedDefaults(recs []Record) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.docs) > 0 {
		return false, nil
	}
	s.insertLocked(recs)
	return true, nil
}

func (s *memoryStore) Reset(recs []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs = nil
	s.insertLocked(recs)
	return nil
}

func (s *memoryStore) Close() error { return nil }
