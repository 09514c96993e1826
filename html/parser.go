// Package html parses markup into dom trees using golang.org/x/net/html
// as the underlying parser implementation.
package html

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/chrisuehlinger/ripple/dom"
)

// Parse parses a complete HTML document. Missing html, head and body
// elements are synthesized by the underlying parser.
func Parse(markup string) (*dom.Document, error) {
	return ParseReader(strings.NewReader(markup))
}

// ParseReader parses a complete HTML document from r.
func ParseReader(r io.Reader) (*dom.Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	doc := dom.NewDocument()
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		node := convertNode(doc, c)
		if node == nil {
			continue
		}
		if _, err := doc.AsNode().AppendChildWithError(node); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// ParseFragment parses markup the way a browser parses innerHTML for the
// given context element. A nil context parses in a body context. The
// returned nodes are detached and share the context's owner document.
func ParseFragment(markup string, context *dom.Element) ([]*dom.Node, error) {
	var doc *dom.Document
	if context != nil {
		doc = context.AsNode().OwnerDocument()
	}
	if doc == nil {
		doc = dom.NewDocument()
	}
	return parseFragment(strings.NewReader(markup), doc, context)
}

func parseFragment(r io.Reader, doc *dom.Document, context *dom.Element) ([]*dom.Node, error) {
	name := "body"
	if context != nil {
		name = context.LocalName()
	}
	contextNode := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Lookup([]byte(name)),
		Data:     name,
	}
	parsed, err := html.ParseFragment(r, contextNode)
	if err != nil {
		return nil, err
	}
	var nodes []*dom.Node
	for _, p := range parsed {
		if node := convertNode(doc, p); node != nil {
			nodes = append(nodes, node)
		}
	}
	return nodes, nil
}

// Mount parses markup as a fragment in parent's context and appends the
// resulting nodes under parent. It returns the inclusive sibling range
// covering everything that was mounted, which is the unit delegation
// binding operates on.
func Mount(parent *dom.Node, markup string) (dom.Range, error) {
	if parent == nil {
		return dom.Range{}, dom.ErrInvalidState("mount target is nil")
	}
	var context *dom.Element
	doc := parent.OwnerDocument()
	switch parent.NodeType() {
	case dom.ElementNode:
		context = (*dom.Element)(parent)
	case dom.DocumentNode:
		doc = (*dom.Document)(parent)
	default:
		return dom.Range{}, dom.ErrHierarchyRequest("mount target must be an element or document")
	}
	if doc == nil {
		doc = dom.NewDocument()
	}
	nodes, err := parseFragment(strings.NewReader(markup), doc, context)
	if err != nil {
		return dom.Range{}, err
	}
	for _, n := range nodes {
		if _, err := parent.AppendChildWithError(n); err != nil {
			return dom.Range{}, err
		}
	}
	if len(nodes) == 0 {
		return dom.Range{}, nil
	}
	return dom.NewRange(nodes[0], nodes[len(nodes)-1]), nil
}

// convertNode converts a golang.org/x/net/html node into a dom node owned
// by doc. Doctype and error nodes have no dom representation and convert
// to nil.
func convertNode(doc *dom.Document, n *html.Node) *dom.Node {
	switch n.Type {
	case html.ElementNode:
		el := doc.CreateElement(n.Data)
		for _, attr := range n.Attr {
			if attr.Namespace != "" {
				continue
			}
			el.SetAttribute(attr.Key, attr.Val)
		}
		node := el.AsNode()
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if child := convertNode(doc, c); child != nil {
				node.AppendChild(child)
			}
		}
		return node
	case html.TextNode:
		return doc.CreateTextNode(n.Data)
	case html.CommentNode:
		return doc.CreateComment(n.Data)
	default:
		return nil
	}
}
