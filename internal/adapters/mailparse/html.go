package mailparse

import (
	"strings"

	"golang.org/x/net/html"
)

// HTMLToText flattens an HTML body into readable text. Link targets are kept
// next to their anchor text so classifiers can judge them.
func HTMLToText(body string) string {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return body
	}

	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "head":
				return
			}
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				sb.WriteString(text)
				sb.WriteString(" ")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key == "href" && attr.Val != "" {
					sb.WriteString("<" + attr.Val + "> ")
				}
			}
		}
		if n.Type == html.ElementNode {
			switch n.Data {
			case "p", "br", "div", "li", "tr", "h1", "h2", "h3":
				sb.WriteString("\n")
			}
		}
	}
	walk(doc)

	lines := strings.Split(sb.String(), "\n")
	out := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
