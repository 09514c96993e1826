package dom

import (
	"strings"
)

// Element represents an element in the document tree.
// Element inherits from Node and provides element-specific properties and methods.
type Element Node

// AsNode returns the underlying Node.
func (e *Element) AsNode() *Node {
	return (*Node)(e)
}

// NodeType returns ElementNode (1).
func (e *Element) NodeType() NodeType {
	return ElementNode
}

// NodeName returns the tag name in uppercase.
func (e *Element) NodeName() string {
	return e.TagName()
}

// TagName returns the tag name in uppercase.
func (e *Element) TagName() string {
	if e.AsNode().elementData != nil {
		return e.AsNode().elementData.tagName
	}
	return strings.ToUpper(e.AsNode().nodeName)
}

// LocalName returns the local name of the element in lowercase.
func (e *Element) LocalName() string {
	if e.AsNode().elementData != nil {
		return e.AsNode().elementData.localName
	}
	return strings.ToLower(e.AsNode().nodeName)
}

// Id returns the id attribute value.
func (e *Element) Id() string {
	return e.GetAttribute("id")
}

// SetId sets the id attribute value.
func (e *Element) SetId(id string) {
	e.SetAttribute("id", id)
}

// ClassName returns the class attribute value.
func (e *Element) ClassName() string {
	return e.GetAttribute("class")
}

// SetClassName sets the class attribute value.
func (e *Element) SetClassName(className string) {
	e.SetAttribute("class", className)
}

// HasClass returns true if the class attribute contains the given token.
func (e *Element) HasClass(name string) bool {
	if name == "" {
		return false
	}
	for _, token := range strings.Fields(e.ClassName()) {
		if token == name {
			return true
		}
	}
	return false
}

// Attributes returns a copy of the element's attributes in document order.
func (e *Element) Attributes() []Attr {
	if e.AsNode().elementData == nil {
		return nil
	}
	attrs := make([]Attr, len(e.AsNode().elementData.attrs))
	copy(attrs, e.AsNode().elementData.attrs)
	return attrs
}

// GetAttribute returns the value of the attribute with the given name.
// Attribute names are matched case-insensitively, per HTML.
func (e *Element) GetAttribute(name string) string {
	if e.AsNode().elementData == nil {
		return ""
	}
	name = strings.ToLower(name)
	for _, a := range e.AsNode().elementData.attrs {
		if a.Name == name {
			return a.Value
		}
	}
	return ""
}

// HasAttribute returns true if the element has an attribute with the given name.
func (e *Element) HasAttribute(name string) bool {
	if e.AsNode().elementData == nil {
		return false
	}
	name = strings.ToLower(name)
	for _, a := range e.AsNode().elementData.attrs {
		if a.Name == name {
			return true
		}
	}
	return false
}

// SetAttribute sets the value of the attribute with the given name,
// replacing any existing value.
func (e *Element) SetAttribute(name, value string) {
	if e.AsNode().elementData == nil {
		e.AsNode().elementData = &elementData{
			localName: strings.ToLower(e.AsNode().nodeName),
			tagName:   strings.ToUpper(e.AsNode().nodeName),
		}
	}
	name = strings.ToLower(name)
	for i, a := range e.AsNode().elementData.attrs {
		if a.Name == name {
			e.AsNode().elementData.attrs[i].Value = value
			return
		}
	}
	e.AsNode().elementData.attrs = append(e.AsNode().elementData.attrs, Attr{Name: name, Value: value})
}

// RemoveAttribute removes the attribute with the given name, if present.
func (e *Element) RemoveAttribute(name string) {
	if e.AsNode().elementData == nil {
		return
	}
	name = strings.ToLower(name)
	attrs := e.AsNode().elementData.attrs
	for i, a := range attrs {
		if a.Name == name {
			e.AsNode().elementData.attrs = append(attrs[:i], attrs[i+1:]...)
			return
		}
	}
}

// Value returns the value attribute, used by form controls.
func (e *Element) Value() string {
	return e.GetAttribute("value")
}

// SetValue sets the value attribute.
func (e *Element) SetValue(value string) {
	e.SetAttribute("value", value)
}

// ParentElement returns the parent Element, or nil if the parent is not an element.
func (e *Element) ParentElement() *Element {
	return e.AsNode().ParentElement()
}

// FirstElementChild returns the first child that is an element, or nil.
func (e *Element) FirstElementChild() *Element {
	for child := e.AsNode().firstChild; child != nil; child = child.nextSibling {
		if child.nodeType == ElementNode {
			return (*Element)(child)
		}
	}
	return nil
}

// LastElementChild returns the last child that is an element, or nil.
func (e *Element) LastElementChild() *Element {
	for child := e.AsNode().lastChild; child != nil; child = child.prevSibling {
		if child.nodeType == ElementNode {
			return (*Element)(child)
		}
	}
	return nil
}

// NextElementSibling returns the next sibling that is an element, or nil.
func (e *Element) NextElementSibling() *Element {
	for sib := e.AsNode().nextSibling; sib != nil; sib = sib.nextSibling {
		if sib.nodeType == ElementNode {
			return (*Element)(sib)
		}
	}
	return nil
}

// PreviousElementSibling returns the previous sibling that is an element, or nil.
func (e *Element) PreviousElementSibling() *Element {
	for sib := e.AsNode().prevSibling; sib != nil; sib = sib.prevSibling {
		if sib.nodeType == ElementNode {
			return (*Element)(sib)
		}
	}
	return nil
}

// Children returns the element children in document order.
func (e *Element) Children() []*Element {
	var children []*Element
	for child := e.AsNode().firstChild; child != nil; child = child.nextSibling {
		if child.nodeType == ElementNode {
			children = append(children, (*Element)(child))
		}
	}
	return children
}

// GetElementsByTagName returns descendant elements with the given tag name,
// in document order. "*" matches every element.
func (e *Element) GetElementsByTagName(name string) []*Element {
	name = strings.ToLower(name)
	var results []*Element
	for child := e.AsNode().firstChild; child != nil; child = child.nextSibling {
		child.eachElement(func(el *Element) bool {
			if name == "*" || el.LocalName() == name {
				results = append(results, el)
			}
			return true
		})
	}
	return results
}

// Click dispatches a click event on the element, as if the user had
// activated it. Returns false if a listener cancelled the event.
func (e *Element) Click() bool {
	ev := NewEvent("click", EventInit{Bubbles: true, Cancelable: true})
	return e.AsNode().DispatchEvent(ev)
}

// DispatchChange fires a change event on the element, as if the user had
// committed an edit. On documents with legacy events enabled the change
// event does not bubble, matching engines that fire change on the control
// alone.
func (e *Element) DispatchChange() {
	bubbles := true
	if doc := e.AsNode().ownerDoc; doc != nil && doc.LegacyEvents() {
		bubbles = false
	}
	e.AsNode().DispatchEvent(NewEvent("change", EventInit{Bubbles: bubbles}))
}

// Focus moves document focus to this element, firing blur and focusout on
// the previously focused element and focus and focusin on this one.
// Focus and blur do not bubble; focusin and focusout do.
func (e *Element) Focus() {
	doc := e.AsNode().ownerDoc
	if doc == nil {
		return
	}
	doc.setFocus(e.AsNode())
}

// Blur removes document focus from this element if it is focused.
func (e *Element) Blur() {
	doc := e.AsNode().ownerDoc
	if doc == nil || doc.AsNode().documentData == nil {
		return
	}
	if doc.AsNode().documentData.activeElement == e.AsNode() {
		doc.setFocus(nil)
	}
}

// RequestSubmit fires a cancelable submit event on the element and, unless a
// listener prevents it, performs the native submission. Whether the submit
// event bubbles depends on the owner document's legacy-events setting: legacy
// engines fire submit on the form alone.
func (e *Element) RequestSubmit() {
	bubbles := true
	if doc := e.AsNode().ownerDoc; doc != nil && doc.LegacyEvents() {
		bubbles = false
	}
	ev := NewEvent("submit", EventInit{Bubbles: bubbles, Cancelable: true})
	if e.AsNode().DispatchEvent(ev) {
		e.SubmitNative()
	}
}

// SubmitNative performs the document's native submission action for this
// element without firing any events. This is the primitive a submit handler
// defers to after interposing its own dispatch.
func (e *Element) SubmitNative() {
	doc := e.AsNode().ownerDoc
	if doc == nil || doc.AsNode().documentData == nil {
		return
	}
	if handler := doc.AsNode().documentData.submitHandler; handler != nil {
		handler(e)
	}
}
