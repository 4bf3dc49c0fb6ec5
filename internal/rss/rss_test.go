package rss

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const dump = `{"url":"https://a.test/1","title":"Police clash with protesters","outlet":"Herald","text":"<p>Police fired tear gas</p><p>Protesters threw rocks!</p>","source_cats":["politics"]}
not json
{"url":"https://b.test/2","title":"Markets rally","outlet":"Ledger","text":"Stocks rose","source_cats":["business"]}

`

func TestReadJSONLSkipsMalformedLines(t *testing.T) {
	items, skipped, err := ReadJSONL(strings.NewReader(dump))
	if err != nil {
		t.Fatalf("ReadJSONL: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if len(skipped) != 1 || skipped[0].Line != 2 {
		t.Fatalf("expected line 2 skipped, got %+v", skipped)
	}
	if items[0].Outlet != "Herald" || items[1].Body != "Stocks rose" {
		t.Errorf("unexpected items %+v", items)
	}
}

func TestReadJSONLNoItems(t *testing.T) {
	if _, _, err := ReadJSONL(strings.NewReader("\n\nbroken\n")); err == nil {
		t.Fatal("expected error when nothing decodes")
	}
}

func TestText(t *testing.T) {
	items, _, err := ReadJSONL(strings.NewReader(dump))
	if err != nil {
		t.Fatal(err)
	}

	text, used, err := Text(items, Filter{})
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if used != 2 {
		t.Errorf("used = %d", used)
	}
	want := "Police clash with protesters.\nPolice fired tear gas.\nProtesters threw rocks!\n\nMarkets rally.\nStocks rose.\n"
	if text != want {
		t.Errorf("Text = %q, want %q", text, want)
	}
}

func TestTextFilter(t *testing.T) {
	items, _, err := ReadJSONL(strings.NewReader(dump))
	if err != nil {
		t.Fatal(err)
	}

	text, used, err := Text(items, Filter{Outlet: "ledger"})
	if err != nil {
		t.Fatal(err)
	}
	if used != 1 || !strings.HasPrefix(text, "Markets rally.") {
		t.Errorf("outlet filter: used %d text %q", used, text)
	}

	_, used, err = Text(items, Filter{Category: "Politics"})
	if err != nil {
		t.Fatal(err)
	}
	if used != 1 {
		t.Errorf("category filter used %d", used)
	}
}

func TestLoadFromJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "news.jsonl")
	if err := os.WriteFile(path, []byte(dump), 0o644); err != nil {
		t.Fatal(err)
	}
	items, _, err := LoadFromJSONL(path)
	if err != nil {
		t.Fatalf("LoadFromJSONL: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("expected 2 items, got %d", len(items))
	}
}
