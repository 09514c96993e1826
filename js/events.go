package js

import (
	"github.com/dop251/goja"

	"github.com/chrisuehlinger/ripple/delegate"
	"github.com/chrisuehlinger/ripple/dom"
)

// jsListener records a script-registered listener so that
// removeEventListener can find the underlying dom registration again.
type jsListener struct {
	node *dom.Node
	typ  string
	fn   goja.Value // original value for comparison
	id   int
}

// wrapEvent creates a JavaScript view of a dom event. The type,
// currentTarget and defaultPrevented properties are live accessors
// because delegation rewrites them around each handler invocation.
func (h *Host) wrapEvent(ev *dom.Event) *goja.Object {
	vm := h.runtime.vm
	jsEv := vm.NewObject()

	jsEv.Set("_goEvent", ev)

	jsEv.DefineAccessorProperty("type", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(ev.Type())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsEv.DefineAccessorProperty("target", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return h.bindOrNull(ev.Target())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsEv.DefineAccessorProperty("currentTarget", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return h.bindOrNull(ev.CurrentTarget())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsEv.DefineAccessorProperty("defaultPrevented", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(ev.DefaultPrevented())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsEv.DefineAccessorProperty("eventPhase", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(int(ev.Phase()))
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsEv.Set("bubbles", ev.Bubbles())
	jsEv.Set("cancelable", ev.Cancelable())

	jsEv.DefineAccessorProperty("detail", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		switch detail := ev.Detail.(type) {
		case nil:
			return goja.Null()
		case *dom.Event:
			return h.wrapEvent(detail)
		case goja.Value:
			return detail
		default:
			return vm.ToValue(detail)
		}
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsEv.Set("preventDefault", func(call goja.FunctionCall) goja.Value {
		ev.PreventDefault()
		return goja.Undefined()
	})

	jsEv.Set("stopPropagation", func(call goja.FunctionCall) goja.Value {
		ev.StopPropagation()
		return goja.Undefined()
	})

	jsEv.Set("stopImmediatePropagation", func(call goja.FunctionCall) goja.Value {
		ev.StopImmediatePropagation()
		return goja.Undefined()
	})

	return jsEv
}

// jsHandler adapts a script function into a delegation handler. The
// data value attached at AttachEvents time becomes the this binding of
// the callback, and callback failures feed the runtime's error path.
func (h *Host) jsHandler(callable goja.Callable) delegate.Handler {
	return func(data any, ev *dom.Event) {
		thisVal, ok := data.(goja.Value)
		if !ok || thisVal == nil {
			thisVal = goja.Undefined()
		}
		if _, err := callable(thisVal, h.wrapEvent(ev)); err != nil {
			h.runtime.reportError(err)
		}
	}
}

// addEventListener registers a script function as a direct dom listener.
// Registering the same function for the same type twice is a no-op.
func (h *Host) addEventListener(node *dom.Node, typ string, fn goja.Value) {
	if node == nil || typ == "" {
		return
	}
	callable, ok := goja.AssertFunction(fn)
	if !ok {
		return
	}

	for _, l := range h.listeners {
		if l.node == node && l.typ == typ && l.fn.SameAs(fn) {
			return
		}
	}

	id := node.AddEventListener(typ, func(ev *dom.Event) {
		if _, err := callable(goja.Undefined(), h.wrapEvent(ev)); err != nil {
			h.runtime.reportError(err)
		}
	})
	h.listeners = append(h.listeners, jsListener{node: node, typ: typ, fn: fn, id: id})
}

// removeEventListener unregisters a previously added script listener.
func (h *Host) removeEventListener(node *dom.Node, typ string, fn goja.Value) {
	if node == nil || typ == "" {
		return
	}
	for i, l := range h.listeners {
		if l.node == node && l.typ == typ && l.fn.SameAs(fn) {
			node.RemoveEventListener(typ, l.id)
			h.listeners = append(h.listeners[:i], h.listeners[i+1:]...)
			return
		}
	}
}

// bindEventTargetMethods adds addEventListener and removeEventListener
// to a bound node object.
func (h *Host) bindEventTargetMethods(jsObj *goja.Object, node *dom.Node) {
	jsObj.Set("addEventListener", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 2 {
			return goja.Undefined()
		}
		h.addEventListener(node, call.Arguments[0].String(), call.Arguments[1])
		return goja.Undefined()
	})

	jsObj.Set("removeEventListener", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 2 {
			return goja.Undefined()
		}
		h.removeEventListener(node, call.Arguments[0].String(), call.Arguments[1])
		return goja.Undefined()
	})
}
