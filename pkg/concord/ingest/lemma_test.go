package ingest

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

const lemmaYAML = `
lemmas:
  - lemma: be
    forms: [am, is, are, was, were]
  - lemma: Police
    forms: [policeman, policemen]
`

func TestParseLexicon(t *testing.T) {
	lex, err := ParseLexicon([]byte(lemmaYAML))
	if err != nil {
		t.Fatalf("ParseLexicon: %v", err)
	}

	if lex.Size() != 2 {
		t.Errorf("Expected 2 lemmas, got %d", lex.Size())
	}
	if got := lex.Lemma("Was"); got != "be" {
		t.Errorf("Lemma(Was) = %q, want be", got)
	}
	if got := lex.Lemma("policemen"); got != "police" {
		t.Errorf("Lemma(policemen) = %q, want police", got)
	}
	if got := lex.Lemma("rocks"); got != "rocks" {
		t.Errorf("Unknown forms should be returned unchanged, got %q", got)
	}

	expected := []string{"am", "are", "be", "is", "was", "were"}
	if forms := lex.Forms("be"); !reflect.DeepEqual(forms, expected) {
		t.Errorf("Forms(be) = %v, want %v", forms, expected)
	}
}

func TestLexiconReassignsForm(t *testing.T) {
	lex := NewLexicon()
	lex.Add("left", []string{"lefts"})
	lex.Add("leave", []string{"left", "leaves"})

	if got := lex.Lemma("left"); got != "leave" {
		t.Errorf("Lemma(left) = %q, want leave", got)
	}
	for _, f := range lex.Forms("left") {
		if f == "left" {
			t.Error("form should be removed from its previous lemma")
		}
	}
}

func TestLoadLexiconMissingFile(t *testing.T) {
	if _, err := LoadLexicon(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing lexicon file")
	}
}

func TestLemmatize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lemmas.yaml")
	if err := os.WriteFile(path, []byte(lemmaYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	lex, err := LoadLexicon(path)
	if err != nil {
		t.Fatalf("LoadLexicon: %v", err)
	}

	got, err := Lemmatize("The policemen were there.", lex)
	if err != nil {
		t.Fatalf("Lemmatize: %v", err)
	}
	if want := "The police be there ."; got != want {
		t.Errorf("Lemmatize() = %q, want %q", got, want)
	}
}
