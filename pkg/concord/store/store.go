package store

import (
	"context"
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Store persists the corpus library and saved command outputs.
// Lookups of unknown names or IDs return internalerr.ErrNotFound.
type Store interface {
	Close() error

	// Corpora
	SaveCorpus(ctx context.Context, c Corpus) error
	GetCorpus(ctx context.Context, name string) (Corpus, error)
	ListCorpora(ctx context.Context) ([]CorpusInfo, error)
	DeleteCorpus(ctx context.Context, name string) error

	// Outputs
	SaveOutput(ctx context.Context, o Output) (Output, error)
	GetOutput(ctx context.Context, id string) (Output, error)
	ListOutputs(ctx context.Context, corpus string, limit int) ([]Output, error)
}

// Corpus is a stored corpus: its cleaned text and tokens. Saving a corpus
// under an existing name replaces it.
type Corpus struct {
	Name      string
	Raw       string
	Tokens    []string
	CreatedAt time.Time
}

// CorpusInfo summarizes a stored corpus.
type CorpusInfo struct {
	Name      string
	Tokens    int
	CreatedAt time.Time
}

// Output is a saved command result. SaveOutput assigns ID and CreatedAt
// when they are empty.
type Output struct {
	ID        string
	Corpus    string
	Command   string
	Body      string
	CreatedAt time.Time
}

var (
	idMu    sync.Mutex
	entropy = ulid.Monotonic(rand.Reader, 0)
)

// NewID returns a new ULID. IDs sort in creation order.
func NewID(t time.Time) string {
	idMu.Lock()
	defer idMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

// DefaultOutputLimit applies when ListOutputs is given no positive limit.
const DefaultOutputLimit = 20
