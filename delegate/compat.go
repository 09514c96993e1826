package delegate

import (
	"github.com/chrisuehlinger/ripple/dom"
)

// PrepareForEvents instruments the inclusive sibling range [start, end]
// so that change and submit reach delegated listeners even when the
// environment fires them without bubbling. Text controls get a direct
// change listener that re-dispatches a bubbling cellchange surrogate;
// forms get a direct submit listener that defers native submission until
// a bubbling datasetcomplete surrogate has gone uncancelled. With native
// capabilities this is a no-op.
//
// Instrumenting the same node twice installs nothing new, so the hook may
// be called freely whenever a range is (re)bound.
func (b *Binder) PrepareForEvents(start, end *dom.Node) {
	if b.caps.ChangeBubbles && b.caps.SubmitBubbles {
		return
	}
	for _, node := range dom.NewRange(start, end).Nodes() {
		node.EachElement(func(el *dom.Element) bool {
			b.instrument(el)
			return true
		})
	}
}

func (b *Binder) instrument(el *dom.Element) {
	node := el.AsNode()
	switch el.LocalName() {
	case "input", "select", "textarea":
		if !b.caps.ChangeBubbles {
			b.installShim(node, "change", b.changeShim(node))
		}
	case "form":
		if !b.caps.SubmitBubbles {
			b.installShim(node, "submit", b.submitShim(node))
		}
	}
}

// installShim registers a direct listener once per (node, type). The
// registry entry keeps repeated PrepareForEvents calls from stacking
// shims and lets ResetEvents account for them like any other listener.
func (b *Binder) installShim(node *dom.Node, typ string, handler dom.EventHandler) {
	key := registryKey{node: node, typ: typ}
	if len(b.registry[key]) > 0 {
		return
	}
	id := node.AddEventListenerWithOptions(typ, handler, dom.ListenerOptions{Namespace: b.namespace})
	b.registry[key] = append(b.registry[key], id)
}

// changeShim re-dispatches a non-bubbling change as a bubbling cellchange
// surrogate carrying the original event in Detail.
func (b *Binder) changeShim(control *dom.Node) dom.EventHandler {
	return func(ev *dom.Event) {
		surrogate := dom.NewEvent("cellchange", dom.EventInit{Bubbles: true, Detail: ev})
		control.DispatchEvent(surrogate)
	}
}

// submitShim blocks the native submission, lets a bubbling cancelable
// datasetcomplete surrogate run the delegation path, then performs the
// deferred submission exactly once if nothing cancelled the surrogate.
// Submits arriving while a surrogate is already being dispatched are
// swallowed; the binder-wide flag is the only re-entrancy guard.
func (b *Binder) submitShim(form *dom.Node) dom.EventHandler {
	return func(ev *dom.Event) {
		ev.PreventDefault()
		if b.submitBlocked {
			return
		}
		b.submitBlocked = true
		surrogate := dom.NewEvent("datasetcomplete", dom.EventInit{Bubbles: true, Cancelable: true, Detail: ev})
		proceed := form.DispatchEvent(surrogate)
		b.submitBlocked = false
		if proceed {
			(*dom.Element)(form).SubmitNative()
		}
	}
}
