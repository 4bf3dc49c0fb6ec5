// Package rss turns JSONL dumps of news items into corpus text.
package rss

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/cognicore/concord/pkg/concord/ingest"
)

// Item represents a simplified RSS/news item
type Item struct {
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Outlet      string    `json:"outlet"`
	PublishedAt time.Time `json:"published_at"`
	Body        string    `json:"text"`
	SourceCats  []string  `json:"source_cats"`
}

// Skipped records a line that could not be decoded.
type Skipped struct {
	Line int
	Err  error
}

// LoadFromJSONL loads items from a JSONL file. Malformed lines are
// returned as skipped rather than failing the load.
func LoadFromJSONL(path string) ([]Item, []Skipped, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read file %s: %w", path, err)
	}
	defer f.Close()

	items, skipped, err := ReadJSONL(f)
	if err != nil {
		return nil, skipped, fmt.Errorf("%s: %w", path, err)
	}
	return items, skipped, nil
}

// ReadJSONL decodes one item per non-blank line.
func ReadJSONL(r io.Reader) ([]Item, []Skipped, error) {
	var (
		items   []Item
		skipped []Skipped
	)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for i := 1; scanner.Scan(); i++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var item Item
		if err := json.Unmarshal([]byte(line), &item); err != nil {
			skipped = append(skipped, Skipped{Line: i, Err: err})
			continue
		}
		items = append(items, item)
	}
	if err := scanner.Err(); err != nil {
		return nil, skipped, err
	}

	if len(items) == 0 {
		return nil, skipped, fmt.Errorf("no valid items found")
	}

	return items, skipped, nil
}

// Filter selects items by outlet and source category. Empty fields match
// everything; matching ignores case.
type Filter struct {
	Outlet   string
	Category string
}

func (f Filter) match(item Item) bool {
	if f.Outlet != "" && !strings.EqualFold(item.Outlet, f.Outlet) {
		return false
	}
	if f.Category == "" {
		return true
	}
	for _, c := range item.SourceCats {
		if strings.EqualFold(c, f.Category) {
			return true
		}
	}
	return false
}

// Text joins the title and HTML-stripped body of every matching item into
// one cleaned corpus text, items separated by blank lines. It returns the
// number of items used.
func Text(items []Item, filter Filter) (string, int, error) {
	var b strings.Builder
	used := 0
	for _, item := range items {
		if !filter.match(item) {
			continue
		}
		body, err := ingest.StripHTML(item.Body)
		if err != nil {
			return "", used, fmt.Errorf("item %s: %w", item.URL, err)
		}
		text := ingest.Clean(strings.TrimSpace(item.Title) + "\n" + body)
		if strings.TrimSpace(text) == "" {
			continue
		}
		if used > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(text)
		used++
	}
	return b.String(), used, nil
}
