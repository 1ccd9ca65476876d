package content

import (
	"strings"

	"golang.org/x/net/html"
)

// blockTags are elements that force a line break in the text rendering.
var blockTags = map[string]bool{
	"article": true, "blockquote": true, "br": true, "div": true,
	"footer": true, "h1": true, "h2": true, "h3": true, "h4": true,
	"h5": true, "h6": true, "header": true, "hr": true, "li": true,
	"ol": true, "p": true, "pre": true, "section": true, "table": true,
	"tr": true, "ul": true,
}

// skipTags are subtrees that contribute nothing to readable text.
var skipTags = map[string]bool{
	"head": true, "iframe": true, "noscript": true, "script": true,
	"style": true,
}

// Text reduces an HTML document to readable plain text for the terminal
// content pane. On a malformed document the input is returned unchanged.
func Text(document string) string {
	root, err := html.Parse(strings.NewReader(document))
	if err != nil {
		return document
	}
	var b strings.Builder
	visit(root, &b)
	return tidy(b.String())
}

func visit(n *html.Node, b *strings.Builder) {
	if n.Type == html.ElementNode && skipTags[n.Data] {
		return
	}
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		visit(c, b)
	}
	if n.Type == html.ElementNode && blockTags[n.Data] {
		b.WriteByte('\n')
	}
}

// tidy trims trailing whitespace per line and collapses runs of blank
// lines, leaving at most one between paragraphs.
func tidy(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := true
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if strings.TrimSpace(line) == "" {
			if !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, line)
		blank = false
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}
