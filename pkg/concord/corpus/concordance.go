package corpus

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/cognicore/concord/pkg/concord/internalerr"
)

// DefaultWidth is the default character span on each side of a
// concordance line.
const DefaultWidth = 50

// Line is one concordance line: the context to the left of Pos and the
// context starting at Pos.
type Line struct {
	Pos   int
	Left  string
	Right string
	Width int
}

// String renders the line with the left context right-aligned and the
// right context left-aligned, each to Width display columns.
func (l Line) String() string {
	left := runewidth.FillLeft(tailColumns(l.Left, l.Width), l.Width)
	right := runewidth.FillRight(runewidth.Truncate(l.Right, l.Width, ""), l.Width)
	return fmt.Sprintf("%d %s %s", l.Pos, left, right)
}

// Line returns the concordance line centred on pos. The left context is
// the width/4 tokens before pos, the right context pos and the tokens
// after it up to width/4 tokens in total, clipped to the corpus bounds.
func (c *Corpus) Line(pos, width int) (Line, error) {
	if pos < 0 || pos >= len(c.tokens) {
		return Line{}, fmt.Errorf("position %d outside corpus of %d tokens: %w", pos, len(c.tokens), internalerr.ErrInvalidInput)
	}
	if width <= 0 {
		return Line{}, fmt.Errorf("width %d: %w", width, internalerr.ErrInvalidInput)
	}

	wc := contextTokens(width)
	lo := max(0, pos-wc)
	hi := min(len(c.tokens), pos+wc)

	return Line{
		Pos:   pos,
		Left:  strings.Join(c.tokens[lo:pos], " "),
		Right: strings.Join(c.tokens[pos:hi], " "),
		Width: width,
	}, nil
}

// Concordance returns a line for every occurrence of keys[0]. With more
// than one key, an occurrence is kept only when every key appears as a
// whole token within width characters of it.
func (c *Corpus) Concordance(keys []string, width int) ([]Line, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("concordance needs a key: %w", internalerr.ErrInvalidInput)
	}
	if width <= 0 {
		return nil, fmt.Errorf("width %d: %w", width, internalerr.ErrInvalidInput)
	}

	var lines []Line
	for _, pos := range c.index[keys[0]] {
		if len(keys) > 1 && !c.spanContains(pos, width, keys) {
			continue
		}
		line, err := c.Line(pos, width)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// spanContains reports whether every key is a token lying entirely within
// width characters of the token at pos (tokens joined by single spaces).
func (c *Corpus) spanContains(pos, width int, keys []string) bool {
	wc := contextTokens(width)
	inSpan := map[string]struct{}{c.tokens[pos]: {}}

	// left: distance from the start of token j to the start of pos
	dist := 0
	for j := pos - 1; j >= 0 && j >= pos-wc; j-- {
		dist += runewidth.StringWidth(c.tokens[j]) + 1
		if dist > width+1 {
			break
		}
		inSpan[c.tokens[j]] = struct{}{}
	}

	// right: distance from the start of pos to the end of token j
	dist = runewidth.StringWidth(c.tokens[pos])
	for j := pos + 1; j < len(c.tokens) && j < pos+wc; j++ {
		dist += 1 + runewidth.StringWidth(c.tokens[j])
		if dist > width {
			break
		}
		inSpan[c.tokens[j]] = struct{}{}
	}

	for _, k := range keys {
		if _, ok := inSpan[k]; !ok {
			return false
		}
	}
	return true
}

func contextTokens(width int) int {
	return max(1, width/4)
}

// tailColumns returns the longest suffix of s that fits in w columns.
func tailColumns(s string, w int) string {
	if runewidth.StringWidth(s) <= w {
		return s
	}
	runes := []rune(s)
	cols := 0
	i := len(runes)
	for i > 0 {
		rw := runewidth.RuneWidth(runes[i-1])
		if cols+rw > w {
			break
		}
		cols += rw
		i--
	}
	return string(runes[i:])
}
