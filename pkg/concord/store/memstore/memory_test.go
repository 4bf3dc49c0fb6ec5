package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cognicore/concord/pkg/concord/internalerr"
	"github.com/cognicore/concord/pkg/concord/store"
)

func TestCorpusRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New()

	tokens := []string{"the", "cat", "sat"}
	if err := s.SaveCorpus(ctx, store.Corpus{Name: "cats", Raw: "The cat sat.", Tokens: tokens}); err != nil {
		t.Fatalf("SaveCorpus: %v", err)
	}
	tokens[0] = "mutated"

	c, err := s.GetCorpus(ctx, "cats")
	if err != nil {
		t.Fatalf("GetCorpus: %v", err)
	}
	if c.Tokens[0] != "the" {
		t.Error("store should keep its own copy of tokens")
	}
	if c.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestCorpusReplaceAndList(t *testing.T) {
	ctx := context.Background()
	s := New()

	for _, c := range []store.Corpus{
		{Name: "zh", Tokens: []string{"a"}},
		{Name: "us", Tokens: []string{"a", "b"}},
		{Name: "zh", Tokens: []string{"a", "b", "c"}},
	} {
		if err := s.SaveCorpus(ctx, c); err != nil {
			t.Fatal(err)
		}
	}

	list, err := s.ListCorpora(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].Name != "us" || list[1].Name != "zh" {
		t.Fatalf("unexpected list %+v", list)
	}
	if list[1].Tokens != 3 {
		t.Errorf("expected replaced corpus with 3 tokens, got %d", list[1].Tokens)
	}
}

func TestMissingCorpus(t *testing.T) {
	ctx := context.Background()
	s := New()
	if _, err := s.GetCorpus(ctx, "nope"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("GetCorpus: expected ErrNotFound, got %v", err)
	}
	if err := s.DeleteCorpus(ctx, "nope"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("DeleteCorpus: expected ErrNotFound, got %v", err)
	}
	if err := s.SaveCorpus(ctx, store.Corpus{}); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("SaveCorpus without name: expected ErrInvalidInput, got %v", err)
	}
}

func TestOutputs(t *testing.T) {
	ctx := context.Background()
	s := New()
	if err := s.SaveCorpus(ctx, store.Corpus{Name: "cats"}); err != nil {
		t.Fatal(err)
	}

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	var ids []string
	for i, cmd := range []string{"coll cat", "conc cat", "parse cat"} {
		o, err := s.SaveOutput(ctx, store.Output{Corpus: "cats", Command: cmd, Body: "body", CreatedAt: base.Add(time.Duration(i) * time.Minute)})
		if err != nil {
			t.Fatal(err)
		}
		if o.ID == "" {
			t.Fatal("SaveOutput should assign an ID")
		}
		ids = append(ids, o.ID)
	}
	if _, err := s.SaveOutput(ctx, store.Output{Corpus: "dogs", Command: "coll dog"}); err != nil {
		t.Fatal(err)
	}

	got, err := s.ListOutputs(ctx, "cats", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ID != ids[2] || got[1].ID != ids[1] {
		t.Fatalf("expected newest two outputs first, got %+v", got)
	}

	all, err := s.ListOutputs(ctx, "", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 4 {
		t.Errorf("expected 4 outputs across corpora, got %d", len(all))
	}

	o, err := s.GetOutput(ctx, ids[0])
	if err != nil || o.Command != "coll cat" {
		t.Errorf("GetOutput = %+v, %v", o, err)
	}
	if _, err := s.GetOutput(ctx, "missing"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if err := s.DeleteCorpus(ctx, "cats"); err != nil {
		t.Fatal(err)
	}
	left, _ := s.ListOutputs(ctx, "", 0)
	if len(left) != 1 {
		t.Errorf("deleting a corpus should drop its outputs, %d left", len(left))
	}
}
