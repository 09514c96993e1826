package js

import (
	"errors"

	"github.com/dop251/goja"

	"github.com/chrisuehlinger/ripple/css"
	"github.com/chrisuehlinger/ripple/delegate"
	"github.com/chrisuehlinger/ripple/dom"
	"github.com/chrisuehlinger/ripple/html"
)

// Host wires a document, a selector engine and a delegation binder into
// the JavaScript runtime. Scripts see a document global for tree access
// plus a ripple namespace carrying the delegation entry points:
//
//	ripple.mount(parent, markup)      -> {start, end}
//	ripple.attach(start, end, spec, data)
//	ripple.prepare(start, end)
//	ripple.reset(node)
//
// Handlers in the event map receive the wrapped event as their argument
// and the data value as their this binding.
type Host struct {
	runtime *Runtime
	doc     *dom.Document
	engine  *css.Engine
	binder  *delegate.Binder

	nodeMap   map[*dom.Node]*goja.Object // Cache to return same JS object for same DOM node
	listeners []jsListener
}

// NewHost binds the document and delegation binder into the runtime's
// global scope and returns the host.
func NewHost(runtime *Runtime, doc *dom.Document, engine *css.Engine, binder *delegate.Binder) *Host {
	h := &Host{
		runtime: runtime,
		doc:     doc,
		engine:  engine,
		binder:  binder,
		nodeMap: make(map[*dom.Node]*goja.Object),
	}
	runtime.vm.Set("document", h.BindDocument())
	runtime.vm.Set("ripple", h.setupRipple())
	return h
}

// Binder returns the delegation binder driving this host.
func (h *Host) Binder() *delegate.Binder {
	return h.binder
}

// BindNode creates (or returns the cached) JavaScript object for a node.
func (h *Host) BindNode(node *dom.Node) *goja.Object {
	if node == nil {
		return nil
	}
	switch node.NodeType() {
	case dom.ElementNode:
		return h.BindElement((*dom.Element)(node))
	case dom.DocumentNode:
		return h.BindDocument()
	default:
		return h.bindCharacterData(node)
	}
}

// bindOrNull wraps a node, mapping nil to JavaScript null.
func (h *Host) bindOrNull(node *dom.Node) goja.Value {
	obj := h.BindNode(node)
	if obj == nil {
		return goja.Null()
	}
	return obj
}

// bindElementOrNull wraps an element, mapping nil to JavaScript null.
func (h *Host) bindElementOrNull(el *dom.Element) goja.Value {
	if el == nil {
		return goja.Null()
	}
	return h.BindElement(el)
}

// BindElement creates (or returns the cached) JavaScript object for an
// element.
func (h *Host) BindElement(el *dom.Element) *goja.Object {
	if el == nil {
		return nil
	}

	node := el.AsNode()

	// Check cache
	if jsObj, ok := h.nodeMap[node]; ok {
		return jsObj
	}

	vm := h.runtime.vm
	jsEl := vm.NewObject()

	// Store reference to the Go element
	jsEl.Set("_goElement", el)
	jsEl.Set("_goNode", node)

	// Node properties
	jsEl.Set("nodeType", int(dom.ElementNode))
	jsEl.DefineAccessorProperty("nodeName", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(el.NodeName())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	// Element properties
	jsEl.DefineAccessorProperty("tagName", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(el.TagName())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsEl.DefineAccessorProperty("localName", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(el.LocalName())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsEl.DefineAccessorProperty("id", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(el.Id())
	}), vm.ToValue(func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) > 0 {
			el.SetId(call.Arguments[0].String())
		}
		return goja.Undefined()
	}), goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsEl.DefineAccessorProperty("className", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(el.ClassName())
	}), vm.ToValue(func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) > 0 {
			el.SetClassName(call.Arguments[0].String())
		}
		return goja.Undefined()
	}), goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsEl.DefineAccessorProperty("value", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(el.Value())
	}), vm.ToValue(func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) > 0 {
			el.SetValue(call.Arguments[0].String())
		}
		return goja.Undefined()
	}), goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsEl.DefineAccessorProperty("textContent", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(node.TextContent())
	}), vm.ToValue(func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) > 0 {
			node.SetTextContent(call.Arguments[0].String())
		}
		return goja.Undefined()
	}), goja.FLAG_FALSE, goja.FLAG_TRUE)

	// Tree accessors
	jsEl.DefineAccessorProperty("parentNode", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return h.bindOrNull(node.ParentNode())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsEl.DefineAccessorProperty("parentElement", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return h.bindElementOrNull(node.ParentElement())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsEl.DefineAccessorProperty("firstElementChild", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return h.bindElementOrNull(el.FirstElementChild())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsEl.DefineAccessorProperty("lastElementChild", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return h.bindElementOrNull(el.LastElementChild())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsEl.DefineAccessorProperty("nextElementSibling", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return h.bindElementOrNull(el.NextElementSibling())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsEl.DefineAccessorProperty("previousElementSibling", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return h.bindElementOrNull(el.PreviousElementSibling())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsEl.DefineAccessorProperty("children", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		children := el.Children()
		items := make([]interface{}, len(children))
		for i, child := range children {
			items[i] = h.BindElement(child)
		}
		return vm.ToValue(items)
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	// Attribute methods
	jsEl.Set("getAttribute", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return goja.Null()
		}
		name := call.Arguments[0].String()
		if !el.HasAttribute(name) {
			return goja.Null()
		}
		return vm.ToValue(el.GetAttribute(name))
	})

	jsEl.Set("setAttribute", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 2 {
			panic(vm.NewTypeError("setAttribute requires a name and a value"))
		}
		el.SetAttribute(call.Arguments[0].String(), call.Arguments[1].String())
		return goja.Undefined()
	})

	jsEl.Set("hasAttribute", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return vm.ToValue(false)
		}
		return vm.ToValue(el.HasAttribute(call.Arguments[0].String()))
	})

	jsEl.Set("removeAttribute", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return goja.Undefined()
		}
		el.RemoveAttribute(call.Arguments[0].String())
		return goja.Undefined()
	})

	// Tree mutation
	jsEl.Set("appendChild", func(call goja.FunctionCall) goja.Value {
		child := h.argNode(call, 0)
		if child == nil {
			panic(vm.NewTypeError("appendChild requires a node"))
		}
		if _, err := node.AppendChildWithError(child); err != nil {
			h.throwError(err)
		}
		return h.bindOrNull(child)
	})

	jsEl.Set("insertBefore", func(call goja.FunctionCall) goja.Value {
		child := h.argNode(call, 0)
		if child == nil {
			panic(vm.NewTypeError("insertBefore requires a node"))
		}
		ref := h.argNode(call, 1)
		if _, err := node.InsertBeforeWithError(child, ref); err != nil {
			h.throwError(err)
		}
		return h.bindOrNull(child)
	})

	jsEl.Set("removeChild", func(call goja.FunctionCall) goja.Value {
		child := h.argNode(call, 0)
		if child == nil {
			panic(vm.NewTypeError("removeChild requires a node"))
		}
		if _, err := node.RemoveChildWithError(child); err != nil {
			h.throwError(err)
		}
		return h.bindOrNull(child)
	})

	jsEl.Set("contains", func(call goja.FunctionCall) goja.Value {
		other := h.argNode(call, 0)
		return vm.ToValue(other != nil && node.Contains(other))
	})

	// Selector methods
	jsEl.Set("querySelector", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return goja.Null()
		}
		return h.bindElementOrNull(h.engine.SelectFirst(node, call.Arguments[0].String()))
	})

	jsEl.Set("querySelectorAll", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return vm.ToValue([]interface{}{})
		}
		return h.bindNodeSlice(h.engine.Select(node, call.Arguments[0].String()))
	})

	jsEl.Set("matches", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return vm.ToValue(false)
		}
		return vm.ToValue(h.engine.MatchesSelector(el, call.Arguments[0].String()))
	})

	// Interaction methods
	jsEl.Set("click", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(el.Click())
	})

	jsEl.Set("focus", func(call goja.FunctionCall) goja.Value {
		el.Focus()
		return goja.Undefined()
	})

	jsEl.Set("blur", func(call goja.FunctionCall) goja.Value {
		el.Blur()
		return goja.Undefined()
	})

	jsEl.Set("requestSubmit", func(call goja.FunctionCall) goja.Value {
		el.RequestSubmit()
		return goja.Undefined()
	})

	jsEl.Set("dispatchChange", func(call goja.FunctionCall) goja.Value {
		el.DispatchChange()
		return goja.Undefined()
	})

	h.bindEventTargetMethods(jsEl, node)

	h.nodeMap[node] = jsEl
	return jsEl
}

// BindDocument creates (or returns the cached) JavaScript object for
// the host's document.
func (h *Host) BindDocument() *goja.Object {
	node := h.doc.AsNode()

	if jsObj, ok := h.nodeMap[node]; ok {
		return jsObj
	}

	vm := h.runtime.vm
	doc := h.doc
	jsDoc := vm.NewObject()

	jsDoc.Set("_goDoc", doc)
	jsDoc.Set("_goNode", node)

	jsDoc.Set("nodeType", int(dom.DocumentNode))
	jsDoc.Set("nodeName", doc.NodeName())

	jsDoc.DefineAccessorProperty("documentElement", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return h.bindElementOrNull(doc.DocumentElement())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsDoc.DefineAccessorProperty("body", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return h.bindElementOrNull(doc.Body())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsDoc.DefineAccessorProperty("activeElement", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return h.bindElementOrNull(doc.ActiveElement())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsDoc.DefineAccessorProperty("legacyEvents", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(doc.LegacyEvents())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsDoc.Set("getElementById", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return goja.Null()
		}
		return h.bindElementOrNull(doc.GetElementById(call.Arguments[0].String()))
	})

	jsDoc.Set("createElement", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			panic(vm.NewTypeError("createElement requires a tag name"))
		}
		return h.BindElement(doc.CreateElement(call.Arguments[0].String()))
	})

	jsDoc.Set("createTextNode", func(call goja.FunctionCall) goja.Value {
		data := ""
		if len(call.Arguments) > 0 {
			data = call.Arguments[0].String()
		}
		return h.bindCharacterData(doc.CreateTextNode(data))
	})

	jsDoc.Set("createComment", func(call goja.FunctionCall) goja.Value {
		data := ""
		if len(call.Arguments) > 0 {
			data = call.Arguments[0].String()
		}
		return h.bindCharacterData(doc.CreateComment(data))
	})

	jsDoc.Set("querySelector", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return goja.Null()
		}
		return h.bindElementOrNull(h.engine.SelectFirst(node, call.Arguments[0].String()))
	})

	jsDoc.Set("querySelectorAll", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return vm.ToValue([]interface{}{})
		}
		return h.bindNodeSlice(h.engine.Select(node, call.Arguments[0].String()))
	})

	h.nodeMap[node] = jsDoc
	return jsDoc
}

// bindCharacterData creates (or returns the cached) JavaScript object
// for a text or comment node.
func (h *Host) bindCharacterData(node *dom.Node) *goja.Object {
	if node == nil {
		return nil
	}

	if jsObj, ok := h.nodeMap[node]; ok {
		return jsObj
	}

	vm := h.runtime.vm
	jsNode := vm.NewObject()

	jsNode.Set("_goNode", node)

	jsNode.Set("nodeType", int(node.NodeType()))
	jsNode.Set("nodeName", node.NodeName())

	jsNode.DefineAccessorProperty("nodeValue", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(node.NodeValue())
	}), vm.ToValue(func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) > 0 {
			node.SetNodeValue(call.Arguments[0].String())
		}
		return goja.Undefined()
	}), goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsNode.DefineAccessorProperty("textContent", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(node.TextContent())
	}), vm.ToValue(func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) > 0 {
			node.SetTextContent(call.Arguments[0].String())
		}
		return goja.Undefined()
	}), goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsNode.DefineAccessorProperty("parentNode", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return h.bindOrNull(node.ParentNode())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	h.bindEventTargetMethods(jsNode, node)

	h.nodeMap[node] = jsNode
	return jsNode
}

// setupRipple builds the ripple namespace object carrying the
// delegation entry points.
func (h *Host) setupRipple() *goja.Object {
	vm := h.runtime.vm
	ripple := vm.NewObject()

	ripple.Set("mount", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 2 {
			panic(vm.NewTypeError("ripple.mount requires a parent node and markup"))
		}
		parent := h.argNode(call, 0)
		r, err := html.Mount(parent, call.Arguments[1].String())
		if err != nil {
			h.throwError(err)
		}
		result := vm.NewObject()
		result.Set("start", h.bindOrNull(r.Start))
		result.Set("end", h.bindOrNull(r.End))
		return result
	})

	ripple.Set("attach", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 3 {
			panic(vm.NewTypeError("ripple.attach requires start, end and an event map"))
		}
		start := h.argNode(call, 0)
		end := h.argNode(call, 1)
		if end == nil {
			end = start
		}

		specObj := h.argObject(call, 2)
		if specObj == nil {
			return goja.Undefined()
		}
		var data goja.Value = goja.Undefined()
		if len(call.Arguments) > 3 {
			data = call.Arguments[3]
		}

		events := make(delegate.EventMap)
		for _, key := range specObj.Keys() {
			callable, ok := goja.AssertFunction(specObj.Get(key))
			if !ok {
				continue
			}
			events[key] = h.jsHandler(callable)
		}

		h.binder.AttachEvents(start, end, events, data)
		return goja.Undefined()
	})

	ripple.Set("prepare", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return goja.Undefined()
		}
		start := h.argNode(call, 0)
		end := h.argNode(call, 1)
		if end == nil {
			end = start
		}
		h.binder.PrepareForEvents(start, end)
		return goja.Undefined()
	})

	ripple.Set("reset", func(call goja.FunctionCall) goja.Value {
		h.binder.ResetEvents(h.argNode(call, 0))
		return goja.Undefined()
	})

	return ripple
}

// argNode unwraps the Go node behind a call argument, or nil.
func (h *Host) argNode(call goja.FunctionCall, index int) *dom.Node {
	obj := h.argObject(call, index)
	if obj == nil {
		return nil
	}
	return h.getGoNode(obj)
}

// argObject returns the call argument at index as an object, or nil.
func (h *Host) argObject(call goja.FunctionCall, index int) *goja.Object {
	if index >= len(call.Arguments) {
		return nil
	}
	v := call.Arguments[index]
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}
	obj, ok := v.(*goja.Object)
	if !ok {
		return nil
	}
	return obj
}

// getGoNode extracts the Go *dom.Node from a JavaScript object.
func (h *Host) getGoNode(obj *goja.Object) *dom.Node {
	if obj == nil {
		return nil
	}

	if v := obj.Get("_goNode"); v != nil && !goja.IsUndefined(v) && !goja.IsNull(v) {
		if node, ok := v.Export().(*dom.Node); ok {
			return node
		}
	}

	if v := obj.Get("_goElement"); v != nil && !goja.IsUndefined(v) && !goja.IsNull(v) {
		if el, ok := v.Export().(*dom.Element); ok {
			return el.AsNode()
		}
	}

	if v := obj.Get("_goDoc"); v != nil && !goja.IsUndefined(v) && !goja.IsNull(v) {
		if doc, ok := v.Export().(*dom.Document); ok {
			return doc.AsNode()
		}
	}

	return nil
}

// throwError raises a Go error into the script as a thrown exception.
func (h *Host) throwError(err error) {
	vm := h.runtime.vm
	var domErr *dom.DOMError
	if errors.As(err, &domErr) {
		exc := vm.NewObject()
		exc.Set("name", domErr.Name)
		exc.Set("message", domErr.Message)
		panic(vm.ToValue(exc))
	}
	panic(vm.NewTypeError(err.Error()))
}

// bindNodeSlice wraps a node slice as a JavaScript array.
func (h *Host) bindNodeSlice(nodes []*dom.Node) goja.Value {
	items := make([]interface{}, len(nodes))
	for i, node := range nodes {
		items[i] = h.BindNode(node)
	}
	return h.runtime.vm.ToValue(items)
}
