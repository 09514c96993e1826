package css

import (
	"strings"

	"github.com/chrisuehlinger/ripple/dom"
)

// Matches tests if a selector matches an element. A selector list matches
// when any of its complex selectors does.
func (s *Selector) Matches(el *dom.Element) bool {
	for _, cs := range s.Complexes {
		if cs.Matches(el) {
			return true
		}
	}
	return false
}

// Matches tests if a complex selector matches an element. Matching starts
// from the rightmost compound (the subject) and walks left through the
// combinators. Ancestor walks are not bounded by any query scope; only the
// subject element is constrained by the caller.
func (cs *ComplexSelector) Matches(el *dom.Element) bool {
	if len(cs.Compounds) == 0 {
		return false
	}

	last := len(cs.Compounds) - 1
	if !cs.Compounds[last].Matches(el) {
		return false
	}
	return cs.matchLeft(last, el)
}

// matchLeft matches the compounds left of index i, el being the element
// that satisfied compound i. A descendant combinator may be satisfied by
// any matching ancestor, so each candidate is tried in turn.
func (cs *ComplexSelector) matchLeft(i int, el *dom.Element) bool {
	if i == 0 {
		return true
	}

	switch cs.Compounds[i-1].Combinator {
	case CombinatorDescendant:
		for ancestor := el.ParentElement(); ancestor != nil; ancestor = ancestor.ParentElement() {
			if cs.Compounds[i-1].Matches(ancestor) && cs.matchLeft(i-1, ancestor) {
				return true
			}
		}
		return false

	case CombinatorChild:
		parent := el.ParentElement()
		if parent == nil || !cs.Compounds[i-1].Matches(parent) {
			return false
		}
		return cs.matchLeft(i-1, parent)

	default:
		return false
	}
}

// Matches tests if a compound selector matches an element.
func (c *CompoundSelector) Matches(el *dom.Element) bool {
	if c.Type != "" && c.Type != "*" && el.LocalName() != c.Type {
		return false
	}
	for _, id := range c.IDs {
		if el.Id() != id {
			return false
		}
	}
	for _, class := range c.Classes {
		if !el.HasClass(class) {
			return false
		}
	}
	for _, attr := range c.Attrs {
		if !attr.Matches(el) {
			return false
		}
	}
	return true
}

// Matches tests if an attribute matcher matches an element.
func (a *AttrMatcher) Matches(el *dom.Element) bool {
	if !el.HasAttribute(a.Name) {
		return false
	}
	if a.Operator == AttrExists {
		return true
	}

	value := el.GetAttribute(a.Name)
	switch a.Operator {
	case AttrEquals:
		return value == a.Value
	case AttrIncludes:
		for _, word := range strings.Fields(value) {
			if word == a.Value {
				return true
			}
		}
		return false
	case AttrPrefix:
		return a.Value != "" && strings.HasPrefix(value, a.Value)
	case AttrSuffix:
		return a.Value != "" && strings.HasSuffix(value, a.Value)
	case AttrSubstring:
		return a.Value != "" && strings.Contains(value, a.Value)
	}
	return false
}

// queryAll collects the strict descendants of context matched by the
// selector, in document order. The context node itself is never a candidate.
func queryAll(context *dom.Node, selector *Selector, firstOnly bool) []*dom.Node {
	var results []*dom.Node
	var walk func(*dom.Node) bool
	walk = func(node *dom.Node) bool {
		for child := node.FirstChild(); child != nil; child = child.NextSibling() {
			if child.NodeType() == dom.ElementNode {
				if selector.Matches((*dom.Element)(child)) {
					results = append(results, child)
					if firstOnly {
						return false
					}
				}
				if !walk(child) {
					return false
				}
			}
		}
		return true
	}
	walk(context)
	return results
}
