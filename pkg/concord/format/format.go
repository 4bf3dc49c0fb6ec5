// Package format renders concordance lines and collocate lists as text
// tables.
package format

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/cognicore/concord/pkg/concord/collocate"
	"github.com/cognicore/concord/pkg/concord/corpus"
)

// Column widths of the ranked tables.
const (
	rankWidth        = 5
	columnWidth      = 16
	collocationWidth = 40
)

// Collocates renders classified collocates: rank, collocate, location,
// frequency, score.
func Collocates(results []collocate.Result) string {
	var b strings.Builder
	b.WriteString(pad("", rankWidth) + pad("Collocate", columnWidth) + pad("Location", columnWidth) + pad("Frequency", columnWidth) + "Score\n")
	for i, r := range results {
		b.WriteString(pad(fmt.Sprint(i+1), rankWidth))
		b.WriteString(pad(r.Collocate, columnWidth))
		b.WriteString(pad(r.Position, columnWidth))
		b.WriteString(pad(fmt.Sprint(r.Freq), columnWidth))
		b.WriteString(Score(r.Score))
		b.WriteByte('\n')
	}
	return b.String()
}

// Collocations renders whole n-grams: rank, collocation, frequency, score.
func Collocations(results []collocate.Result) string {
	var b strings.Builder
	b.WriteString(pad("", rankWidth) + pad("Collocation", collocationWidth) + pad("Frequency", columnWidth) + "Score\n")
	for i, r := range results {
		b.WriteString(pad(fmt.Sprint(i+1), rankWidth))
		b.WriteString(pad(r.Collocate, collocationWidth))
		b.WriteString(pad(fmt.Sprint(r.Freq), columnWidth))
		b.WriteString(Score(r.Score))
		b.WriteByte('\n')
	}
	return b.String()
}

// Results picks the table matching mode.
func Results(results []collocate.Result, mode collocate.Mode) string {
	if mode == collocate.ModeNGram {
		return Collocations(results)
	}
	return Collocates(results)
}

// Lines renders concordance lines, one per row.
func Lines(lines []corpus.Line) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// Score renders a score rounded to four decimals.
func Score(s float64) string {
	return fmt.Sprintf("%.4f", s)
}

// pad left-aligns s in w display columns, keeping at least one space
// after it.
func pad(s string, w int) string {
	if runewidth.StringWidth(s) >= w {
		return s + " "
	}
	return runewidth.FillRight(s, w)
}
