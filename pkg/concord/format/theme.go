package format

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color scheme for terminal output
type Theme struct {
	Keys    []lipgloss.Style // Keys[0] marks the first key; the rest cycle over further keys
	RowEven lipgloss.Style
	RowOdd  lipgloss.Style
	plain   bool
}

// NewTheme builds the default scheme on renderer r.
func NewTheme(r *lipgloss.Renderer) Theme {
	return Theme{
		Keys: []lipgloss.Style{
			r.NewStyle().Foreground(lipgloss.Color("1")),
			r.NewStyle().Foreground(lipgloss.Color("2")),
			r.NewStyle().Foreground(lipgloss.Color("3")),
			r.NewStyle().Foreground(lipgloss.Color("4")),
			r.NewStyle().Foreground(lipgloss.Color("5")),
			r.NewStyle().Foreground(lipgloss.Color("6")),
		},
		RowEven: r.NewStyle().Bold(true).Foreground(lipgloss.Color("8")),
		RowOdd:  r.NewStyle().Foreground(lipgloss.Color("7")),
	}
}

// DefaultTheme is the default scheme on the default renderer, which
// drops colors when stdout is not a terminal.
func DefaultTheme() Theme {
	return NewTheme(lipgloss.DefaultRenderer())
}

// PlainTheme leaves text untouched.
func PlainTheme() Theme {
	return Theme{plain: true}
}

// Concordance colors every token equal to a key.
func (th Theme) Concordance(text string, keys []string) string {
	return th.paint(text, keys, false)
}

// Table colors key tokens and shades alternate rows after the header.
func (th Theme) Table(text string, keys []string) string {
	return th.paint(text, keys, true)
}

func (th Theme) paint(text string, keys []string, shade bool) string {
	if th.plain {
		return text
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		var row *lipgloss.Style
		if shade && i > 0 {
			if i%2 == 1 {
				row = &th.RowEven
			} else {
				row = &th.RowOdd
			}
		}

		tokens := strings.Split(line, " ")
		for j, tok := range tokens {
			if tok == "" {
				continue
			}
			if style, ok := th.keyStyle(tok, keys); ok {
				tokens[j] = style.Render(tok)
			} else if row != nil {
				tokens[j] = row.Render(tok)
			}
		}
		lines[i] = strings.Join(tokens, " ")
	}
	return strings.Join(lines, "\n")
}

func (th Theme) keyStyle(tok string, keys []string) (lipgloss.Style, bool) {
	if len(th.Keys) == 0 {
		return lipgloss.Style{}, false
	}
	for i, k := range keys {
		if tok != k {
			continue
		}
		if i == 0 {
			return th.Keys[0], true
		}
		if len(th.Keys) == 1 {
			return th.Keys[0], true
		}
		return th.Keys[1+(i-1)%(len(th.Keys)-1)], true
	}
	return lipgloss.Style{}, false
}
