package dom

import (
	"strings"
)

// Document represents a document tree root.
type Document Node

// NewDocument creates a new empty Document.
func NewDocument() *Document {
	node := newNode(DocumentNode, "#document", nil)
	node.documentData = &documentData{}
	doc := (*Document)(node)
	node.ownerDoc = doc
	return doc
}

// AsNode returns the underlying Node.
func (d *Document) AsNode() *Node {
	return (*Node)(d)
}

// NodeType returns DocumentNode (9).
func (d *Document) NodeType() NodeType {
	return DocumentNode
}

// NodeName returns "#document".
func (d *Document) NodeName() string {
	return "#document"
}

// CreateElement creates a new element with the given tag name.
// The tag name is stored lowercase, per HTML.
func (d *Document) CreateElement(tagName string) *Element {
	local := strings.ToLower(tagName)
	node := newNode(ElementNode, local, d)
	node.elementData = &elementData{
		localName: local,
		tagName:   strings.ToUpper(tagName),
	}
	return (*Element)(node)
}

// CreateTextNode creates a new text node with the given data.
func (d *Document) CreateTextNode(data string) *Node {
	node := newNode(TextNode, "#text", d)
	node.nodeValue = data
	return node
}

// CreateComment creates a new comment node with the given data.
func (d *Document) CreateComment(data string) *Node {
	node := newNode(CommentNode, "#comment", d)
	node.nodeValue = data
	return node
}

// DocumentElement returns the root element of the document, or nil.
func (d *Document) DocumentElement() *Element {
	for child := d.AsNode().firstChild; child != nil; child = child.nextSibling {
		if child.nodeType == ElementNode {
			return (*Element)(child)
		}
	}
	return nil
}

// Body returns the body element, or nil if the document has none.
func (d *Document) Body() *Element {
	docEl := d.DocumentElement()
	if docEl == nil {
		return nil
	}
	for child := docEl.AsNode().firstChild; child != nil; child = child.nextSibling {
		if child.nodeType == ElementNode {
			el := (*Element)(child)
			if el.LocalName() == "body" {
				return el
			}
		}
	}
	return nil
}

// GetElementById returns the first element with the given id, or nil.
func (d *Document) GetElementById(id string) *Element {
	if id == "" {
		return nil
	}
	var found *Element
	d.AsNode().EachElement(func(el *Element) bool {
		if el.Id() == id {
			found = el
			return false
		}
		return true
	})
	return found
}

// ActiveElement returns the element that currently has focus, or nil.
func (d *Document) ActiveElement() *Element {
	if d.AsNode().documentData.activeElement == nil {
		return nil
	}
	return (*Element)(d.AsNode().documentData.activeElement)
}

// setFocus moves focus to target (which may be nil), firing blur and
// focusout on the old element and focus and focusin on the new one.
func (d *Document) setFocus(target *Node) {
	data := d.AsNode().documentData
	old := data.activeElement
	if old == target {
		return
	}

	data.activeElement = target

	if old != nil {
		old.DispatchEvent(NewEvent("blur", EventInit{}))
		old.DispatchEvent(NewEvent("focusout", EventInit{Bubbles: true}))
	}
	if target != nil {
		target.DispatchEvent(NewEvent("focus", EventInit{}))
		target.DispatchEvent(NewEvent("focusin", EventInit{Bubbles: true}))
	}
}

// LegacyEvents reports whether the document emulates engines on which
// change and submit events do not bubble.
func (d *Document) LegacyEvents() bool {
	return d.AsNode().documentData.legacyEvents
}

// SetLegacyEvents switches the document between modern event behavior and
// the legacy behavior where change and submit fire on their target alone.
func (d *Document) SetLegacyEvents(legacy bool) {
	d.AsNode().documentData.legacyEvents = legacy
}

// SetSubmitHandler registers the host action performed when a form's native
// submission runs. Passing nil makes native submission a no-op.
func (d *Document) SetSubmitHandler(handler func(*Element)) {
	d.AsNode().documentData.submitHandler = handler
}
