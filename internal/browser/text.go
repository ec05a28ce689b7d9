package browser

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// blockElements start a new line in rendered text, as a browser's innerText does.
var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"br": true, "dd": true, "div": true, "dl": true, "dt": true,
	"footer": true, "h1": true, "h2": true, "h3": true, "h4": true,
	"h5": true, "h6": true, "header": true, "hr": true, "li": true,
	"main": true, "nav": true, "ol": true, "p": true, "section": true,
	"table": true, "tr": true, "ul": true,
}

// InnerText renders n the way a browser lays out visible text: one line per
// block element, whitespace runs collapsed to a single space, script and
// style dropped, blank lines removed. Adjacent inline runs are only
// separated where the source had whitespace between them.
func InnerText(n *html.Node) string {
	var b strings.Builder
	space := false

	var visit func(*html.Node)
	visit = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if p := n.Parent; p != nil && (p.Data == "script" || p.Data == "style") {
				return
			}
			fields := strings.Fields(n.Data)
			if len(fields) == 0 {
				space = space || n.Data != ""
				return
			}
			first, _ := utf8.DecodeRuneInString(n.Data)
			if space || unicode.IsSpace(first) {
				b.WriteByte(' ')
			}
			b.WriteString(strings.Join(fields, " "))
			last, _ := utf8.DecodeLastRuneInString(n.Data)
			space = unicode.IsSpace(last)
			return
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
		}

		block := n.Type == html.ElementNode && blockElements[n.Data]
		if block {
			b.WriteByte('\n')
			space = false
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
		if block {
			b.WriteByte('\n')
			space = false
		}
	}
	visit(n)

	var lines []string
	for _, line := range strings.Split(b.String(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
