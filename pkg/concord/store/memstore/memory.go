package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cognicore/concord/pkg/concord/internalerr"
	"github.com/cognicore/concord/pkg/concord/store"
)

// Store is an in-memory implementation of store.Store for tests and
// sessions without a database.
type Store struct {
	mu      sync.RWMutex
	corpora map[string]store.Corpus
	outputs map[string]store.Output
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		corpora: make(map[string]store.Corpus),
		outputs: make(map[string]store.Output),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// SaveCorpus inserts or replaces a corpus, keyed by name.
func (s *Store) SaveCorpus(ctx context.Context, c store.Corpus) error {
	if c.Name == "" {
		return fmt.Errorf("corpus name required: %w", internalerr.ErrInvalidInput)
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.corpora[c.Name] = copyCorpus(c)
	return nil
}

// GetCorpus returns a corpus by name.
func (s *Store) GetCorpus(ctx context.Context, name string) (store.Corpus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.corpora[name]
	if !ok {
		return store.Corpus{}, fmt.Errorf("corpus %q: %w", name, internalerr.ErrNotFound)
	}
	return copyCorpus(c), nil
}

// ListCorpora returns every corpus ordered by name.
func (s *Store) ListCorpora(ctx context.Context) ([]store.CorpusInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.CorpusInfo, 0, len(s.corpora))
	for _, c := range s.corpora {
		out = append(out, store.CorpusInfo{Name: c.Name, Tokens: len(c.Tokens), CreatedAt: c.CreatedAt})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// DeleteCorpus removes a corpus and its saved outputs.
func (s *Store) DeleteCorpus(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.corpora[name]; !ok {
		return fmt.Errorf("corpus %q: %w", name, internalerr.ErrNotFound)
	}
	delete(s.corpora, name)
	for id, o := range s.outputs {
		if o.Corpus == name {
			delete(s.outputs, id)
		}
	}
	return nil
}

// SaveOutput stores a command output.
func (s *Store) SaveOutput(ctx context.Context, o store.Output) (store.Output, error) {
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	if o.ID == "" {
		o.ID = store.NewID(o.CreatedAt)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.outputs[o.ID] = o
	return o, nil
}

// GetOutput returns an output by ID.
func (s *Store) GetOutput(ctx context.Context, id string) (store.Output, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.outputs[id]
	if !ok {
		return store.Output{}, fmt.Errorf("output %q: %w", id, internalerr.ErrNotFound)
	}
	return o, nil
}

// ListOutputs returns the newest outputs first. An empty corpus name
// lists outputs of every corpus.
func (s *Store) ListOutputs(ctx context.Context, corpus string, limit int) ([]store.Output, error) {
	if limit <= 0 {
		limit = store.DefaultOutputLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []store.Output
	for _, o := range s.outputs {
		if corpus == "" || o.Corpus == corpus {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func copyCorpus(c store.Corpus) store.Corpus {
	c.Tokens = append([]string(nil), c.Tokens...)
	return c
}
