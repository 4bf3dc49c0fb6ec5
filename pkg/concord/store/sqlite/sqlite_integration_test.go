package sqlite

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/cognicore/concord/pkg/concord/internalerr"
	"github.com/cognicore/concord/pkg/concord/store"
)

func open(t *testing.T) (store.Store, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := OpenSQLite(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st, dbPath
}

// TestSQLiteIntegrationBasic tests basic corpus CRUD operations
func TestSQLiteIntegrationBasic(t *testing.T) {
	ctx := context.Background()
	st, _ := open(t)

	created := time.Date(2020, 6, 1, 9, 30, 0, 0, time.UTC)
	c := store.Corpus{
		Name:      "us-news",
		Raw:       "Police beat protesters.\n",
		Tokens:    []string{"Police", "beat", "protesters", "."},
		CreatedAt: created,
	}
	if err := st.SaveCorpus(ctx, c); err != nil {
		t.Fatalf("SaveCorpus: %v", err)
	}

	got, err := st.GetCorpus(ctx, "us-news")
	if err != nil {
		t.Fatalf("GetCorpus: %v", err)
	}
	if got.Raw != c.Raw {
		t.Errorf("Raw mismatch: got %q, want %q", got.Raw, c.Raw)
	}
	if len(got.Tokens) != 4 || got.Tokens[2] != "protesters" {
		t.Errorf("Tokens mismatch: %v", got.Tokens)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt mismatch: got %v, want %v", got.CreatedAt, created)
	}

	// Replace under the same name
	c.Tokens = c.Tokens[:2]
	if err := st.SaveCorpus(ctx, c); err != nil {
		t.Fatalf("SaveCorpus replace: %v", err)
	}
	if err := st.SaveCorpus(ctx, store.Corpus{Name: "cn-news", Tokens: []string{"x"}}); err != nil {
		t.Fatal(err)
	}

	list, err := st.ListCorpora(ctx)
	if err != nil {
		t.Fatalf("ListCorpora: %v", err)
	}
	if len(list) != 2 || list[0].Name != "cn-news" || list[1].Name != "us-news" {
		t.Fatalf("unexpected corpora %+v", list)
	}
	if list[1].Tokens != 2 {
		t.Errorf("expected replaced token count 2, got %d", list[1].Tokens)
	}
}

func TestSQLiteNotFound(t *testing.T) {
	ctx := context.Background()
	st, _ := open(t)

	if _, err := st.GetCorpus(ctx, "missing"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("GetCorpus: expected ErrNotFound, got %v", err)
	}
	if _, err := st.GetOutput(ctx, "missing"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("GetOutput: expected ErrNotFound, got %v", err)
	}
	if err := st.DeleteCorpus(ctx, "missing"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("DeleteCorpus: expected ErrNotFound, got %v", err)
	}
	if err := st.SaveCorpus(ctx, store.Corpus{}); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("SaveCorpus: expected ErrInvalidInput, got %v", err)
	}
}

func TestSQLiteOutputs(t *testing.T) {
	ctx := context.Background()
	st, _ := open(t)

	if err := st.SaveCorpus(ctx, store.Corpus{Name: "cats", Tokens: []string{"cat"}}); err != nil {
		t.Fatal(err)
	}
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 3; i++ {
		o, err := st.SaveOutput(ctx, store.Output{
			Corpus:    "cats",
			Command:   fmt.Sprintf("coll cat %d", i),
			Body:      "table",
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("SaveOutput: %v", err)
		}
		ids = append(ids, o.ID)
	}
	if _, err := st.SaveOutput(ctx, store.Output{Corpus: "dogs", Command: "conc dog", Body: "lines"}); err != nil {
		t.Fatal(err)
	}

	got, err := st.ListOutputs(ctx, "cats", 0)
	if err != nil {
		t.Fatalf("ListOutputs: %v", err)
	}
	if len(got) != 3 || got[0].ID != ids[2] || got[2].ID != ids[0] {
		t.Fatalf("expected newest first, got %+v", got)
	}

	all, err := st.ListOutputs(ctx, "", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 4 {
		t.Errorf("expected 4 outputs, got %d", len(all))
	}

	one, err := st.GetOutput(ctx, ids[1])
	if err != nil {
		t.Fatal(err)
	}
	if one.Command != "coll cat 1" || !one.CreatedAt.Equal(base.Add(time.Second)) {
		t.Errorf("GetOutput = %+v", one)
	}

	if err := st.DeleteCorpus(ctx, "cats"); err != nil {
		t.Fatalf("DeleteCorpus: %v", err)
	}
	left, err := st.ListOutputs(ctx, "", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(left) != 1 || left[0].Corpus != "dogs" {
		t.Errorf("expected only the dogs output left, got %+v", left)
	}
}

func TestSQLitePersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "library.db")

	st, err := OpenSQLite(ctx, dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := st.SaveCorpus(ctx, store.Corpus{Name: "kept", Tokens: []string{"a", "b"}}); err != nil {
		t.Fatal(err)
	}
	st.Close()

	st, err = OpenSQLite(ctx, dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	c, err := st.GetCorpus(ctx, "kept")
	if err != nil {
		t.Fatalf("GetCorpus after reopen: %v", err)
	}
	if len(c.Tokens) != 2 {
		t.Errorf("expected 2 tokens, got %d", len(c.Tokens))
	}
}

func TestSQLiteConcurrentOutputs(t *testing.T) {
	ctx := context.Background()
	st, _ := open(t)

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := st.SaveOutput(ctx, store.Output{Corpus: "c", Command: fmt.Sprint(i), Body: "b"})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("SaveOutput: %v", err)
		}
	}

	got, err := st.ListOutputs(ctx, "c", 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 20 {
		t.Errorf("expected 20 outputs, got %d", len(got))
	}
}
