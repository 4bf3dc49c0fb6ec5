package ingest

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// lineEnders are the final characters that leave a line untouched by Clean.
const lineEnders = ".?!\" '”’"

// Clean drops empty lines and terminates every remaining line with a
// period unless it already ends in punctuation, a quote or a space, so
// that line breaks survive sentence splitting.
func Clean(text string) string {
	var out strings.Builder
	out.Grow(len(text) + len(text)/40)

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		out.WriteString(line)
		if last, _ := utf8.DecodeLastRuneInString(line); !strings.ContainsRune(lineEnders, last) {
			out.WriteByte('.')
		}
		out.WriteByte('\n')
	}

	return out.String()
}

// blockElements start a new line when their text is extracted.
var blockElements = map[string]struct{}{
	"p": {}, "div": {}, "br": {}, "li": {}, "tr": {}, "blockquote": {},
	"h1": {}, "h2": {}, "h3": {}, "h4": {}, "h5": {}, "h6": {},
	"article": {}, "section": {}, "header": {}, "footer": {}, "title": {},
}

// StripHTML extracts the text content of an HTML document. Script and
// style contents are dropped and block elements become line breaks.
func StripHTML(s string) (string, error) {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	var extractText func(*html.Node)
	extractText = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "template":
				return
			}
		}
		if n.Type == html.TextNode {
			buf.WriteString(strings.Join(strings.Fields(n.Data), " "))
			if strings.HasSuffix(n.Data, " ") || strings.HasSuffix(n.Data, "\n") {
				buf.WriteByte(' ')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extractText(c)
		}
		if n.Type == html.ElementNode {
			if _, ok := blockElements[n.Data]; ok {
				buf.WriteByte('\n')
			}
		}
	}
	extractText(doc)

	lines := strings.Split(buf.String(), "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}
