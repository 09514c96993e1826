package delegate

import (
	"github.com/chrisuehlinger/ripple/dom"
)

// resolve decides whether a firing on a bound node reaches the user
// handler. The scope context is the bound node's parent, captured per
// firing so a range reparented between events resolves against its
// current position. While the handler runs, the event carries its
// declared type and the matched node as current target; the delivery
// type is restored afterwards so later listeners in the same dispatch
// see the wire type.
func (b *Binder) resolve(bound *dom.Node, binding *Binding, data any, ev *dom.Event) {
	matched := b.matchTarget(bound, binding, ev.Target())
	if matched == nil {
		return
	}
	delivered := ev.Type()
	ev.SetType(binding.EventType)
	ev.SetCurrentTarget(matched)
	binding.Handler(data, ev)
	ev.SetType(delivered)
}

// matchTarget returns the node the binding considers matched for a firing
// whose origin bubbled to bound, or nil when the handler should not run.
// With no selector the bound node itself stands in as the match. With a
// selector, the walk starts at the origin and climbs parent links,
// stopping strictly before the context; the first member of the match set
// encountered wins, so the innermost eligible match is the one reported.
// Non-bubbling bindings check the origin only.
func (b *Binder) matchTarget(bound *dom.Node, binding *Binding, origin *dom.Node) *dom.Node {
	if binding.Selector == "" {
		return bound
	}
	context := bound.ParentNode()
	if context == nil || origin == nil {
		return nil
	}
	matches := b.matcher.Select(context, binding.Selector)
	if len(matches) == 0 {
		return nil
	}
	set := make(map[*dom.Node]struct{}, len(matches))
	for _, m := range matches {
		set[m] = struct{}{}
	}
	for node := origin; node != nil && node != context; node = node.ParentNode() {
		if _, ok := set[node]; ok {
			return node
		}
		if !binding.Bubbles {
			break
		}
	}
	return nil
}
