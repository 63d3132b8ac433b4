package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// visibleText walks the document and joins its text with paragraph breaks
// between block elements
func visibleText(doc *goquery.Document) string {
	var b strings.Builder
	for _, n := range doc.Nodes {
		extractText(n, &b)
	}
	return cleanupText(b.String())
}

func extractText(n *html.Node, b *strings.Builder) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "noscript", "template", "head":
			return
		}
	}

	if n.Type == html.TextNode {
		if text := strings.TrimSpace(n.Data); text != "" {
			b.WriteString(" ")
			b.WriteString(text)
			b.WriteString(" ")
		}
		return
	}

	block := n.Type == html.ElementNode && isBlockElement(n.Data)
	if block {
		b.WriteString("\n")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		extractText(c, b)
	}
	if block {
		b.WriteString("\n")
	}
}

func isBlockElement(tag string) bool {
	switch tag {
	case "p", "div", "h1", "h2", "h3", "h4", "h5", "h6", "li", "ul", "ol",
		"blockquote", "article", "section", "main", "pre", "br", "hr",
		"table", "tr", "td", "th", "dl", "dt", "dd", "figure", "figcaption":
		return true
	}
	return false
}

// cleanupText collapses whitespace inside lines and separates
// non-empty lines with a blank line
func cleanupText(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))

	for _, line := range lines {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			cleaned = append(cleaned, line)
		}
	}

	return strings.Join(cleaned, "\n\n")
}
