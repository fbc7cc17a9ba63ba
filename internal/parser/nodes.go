
package parser

import (
	"strings"

	"golang.org/x/net/html"
)

// node is either a textNode or an elementNode.
type node interface {
	isNode()
}

type textNode struct {
	content string
}

type elementNode struct {
	tag      string
	classes  []string
	children []node
}

func (textNode) isNode()    {}
func (elementNode) isNode() {}

// toNode converts an html.Node subtree. Comments, doctypes and other
// invisible nodes are dropped.
func toNode(n *html.Node) (node, bool) {
	switch n.Type {
	case html.TextNode:
		return textNode{content: n.Data}, true
	case html.ElementNode:
		el := elementNode{tag: n.Data}
		for _, a := range n.Attr {
			if a.Key == "class" {
				el.classes = strings.Fields(a.Val)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if child, ok := toNode(c); ok {
				el.children = append(el.children, child)
			}
		}
		return el, true
	}
	return nil, false
}

// text concatenates every text descendant of n, separated by sep.
func text(n node, sep string) string {
	var parts []string
	collectText(n, &parts)
	return strings.Join(parts, sep)
}

func collectText(n node, out *[]string) {
	switch n := n.(type) {
	case textNode:
		*out = append(*out, n.content)
	case elementNode:
		for _, c := range n.children {
			collectText(c, out)
		}
	}
}

// paragraphs walks the children of body: a text child is one paragraph,
// an element child contributes each of its own children as a paragraph.
// The archive nests several paragraphs inside a single span, so this is
// exactly two levels deep and no more.
func paragraphs(body elementNode) []string {
	var out []string
	for _, child := range body.children {
		switch child := child.(type) {
		case textNode:
			out = append(out, child.content)
		case elementNode:
			for _, sub := range child.children {
				out = append(out, text(sub, ""))
			}
		}
	}
	return out
}
