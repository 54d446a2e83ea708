package analyzer

import (
	"strings"

	"golang.org/x/net/html"
)

// hiddenTextParents hold text that is never rendered as page copy.
var hiddenTextParents = map[string]struct{}{
	"script":   {},
	"style":    {},
	"noscript": {},
	"template": {},
}

// ExtractInnerText extracts all text content inside a node.
func ExtractInnerText(node *html.Node) string {
	var sb strings.Builder
	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(node)
	return sb.String()
}

// ExtractVisibleText is ExtractInnerText without script, style, noscript and
// template content. Text nodes are separated by a space so adjacent elements
// never merge into one word.
func ExtractVisibleText(node *html.Node) string {
	var sb strings.Builder
	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if _, hidden := hiddenTextParents[n.Data]; hidden {
				return
			}
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(node)
	return sb.String()
}

// IsElement checks whether node is an element with the given tag name.
func IsElement(node *html.Node, tag string) bool {
	return node.Type == html.ElementNode && node.Data == tag
}

// GetAttr returns the value of the named attribute, matched case-insensitively.
// If the attribute is absent, it returns an empty string and false.
func GetAttr(node *html.Node, key string) (string, bool) {
	for _, attr := range node.Attr {
		if strings.EqualFold(attr.Key, key) {
			return attr.Val, true
		}
	}
	return "", false
}

// GetHrefValue finds and returns the href attribute from an <a> tag.
// If there's no href, it returns an empty string.
func GetHrefValue(node *html.Node) string {
	href, _ := GetAttr(node, "href")
	return strings.TrimSpace(href)
}

// Walk visits node and all of its descendants depth-first, stopping early
// when visit returns false.
func Walk(node *html.Node, visit func(*html.Node) bool) {
	var traverse func(*html.Node) bool
	traverse = func(n *html.Node) bool {
		if !visit(n) {
			return false
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if !traverse(c) {
				return false
			}
		}
		return true
	}
	traverse(node)
}
