// Package delegate implements event delegation over dom node ranges.
//
// Rather than attaching a listener to every interactive node in a
// dynamically-changing tree, a Binder installs a small fixed set of
// namespaced listeners on the root nodes of a rendered sibling range and
// decides, per received event, which declared handlers fire by walking
// the origin's ancestry against selector matches scoped to each root's
// parent. Teardown removes exactly the listeners the binder installed,
// leaving everything else on the node alone.
//
// A Binder is event-loop driven and not safe for concurrent use.
package delegate

import (
	"github.com/chrisuehlinger/ripple/dom"
)

// Matcher resolves a selector string against the descendants of a context
// node. Matches are strict descendants of the context; the context itself
// is never part of the result. The css package's Engine satisfies this.
type Matcher interface {
	Select(context *dom.Node, selector string) []*dom.Node
}

// Handler is a delegated event callback. The data argument is the value
// the range was attached with, and ev arrives with its declared type
// restored, so handlers never observe internal type rewriting.
type Handler func(data any, ev *dom.Event)

// EventMap maps event spec strings to handlers, e.g.
//
//	delegate.EventMap{"click .save, submit": onSave}
type EventMap map[string]Handler

// DefaultNamespace tags every listener a Binder installs unless
// WithNamespace overrides it.
const DefaultNamespace = "delegate"

type registryKey struct {
	node *dom.Node
	typ  string
}

// Binder attaches and removes delegated event handling for node ranges
// produced by a rendering layer.
type Binder struct {
	matcher   Matcher
	caps      Capabilities
	rewrites  map[string]rewrite
	namespace string

	// registry records the listener ids installed per node and registered
	// type, covering both delegated listeners and compatibility shims.
	registry map[registryKey][]int

	// submitBlocked gates deferred form submission while a surrogate
	// submit event is being dispatched. One flag serves the whole binder.
	submitBlocked bool
}

// Option configures a Binder.
type Option func(*Binder)

// WithCapabilities sets the native-bubbling capabilities the binder
// assumes. The default is NativeCapabilities.
func WithCapabilities(caps Capabilities) Option {
	return func(b *Binder) { b.caps = caps }
}

// WithNamespace overrides the tag under which listeners are installed.
// Binders sharing a namespace on the same nodes will tear down each
// other's listeners.
func WithNamespace(namespace string) Option {
	return func(b *Binder) { b.namespace = namespace }
}

// New returns a Binder that resolves selectors through matcher.
func New(matcher Matcher, opts ...Option) *Binder {
	b := &Binder{
		matcher:   matcher,
		caps:      NativeCapabilities(),
		namespace: DefaultNamespace,
		registry:  make(map[registryKey][]int),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.rewrites = buildRewrites(b.caps)
	return b
}

// AttachEvents installs one listener per normalized binding on every node
// in the inclusive sibling range [start, end]. events may be nil. The
// data value is handed back to every handler invocation for this range.
//
// Listeners are not deduplicated: attaching the same events twice doubles
// the firings. Callers own avoiding redundant binding.
func (b *Binder) AttachEvents(start, end *dom.Node, events EventMap, data any) {
	bindings := b.ParseEventSpec(events)
	if len(bindings) == 0 {
		return
	}
	for _, node := range dom.NewRange(start, end).Nodes() {
		for i := range bindings {
			b.attachBinding(node, &bindings[i], data)
		}
	}
}

func (b *Binder) attachBinding(node *dom.Node, binding *Binding, data any) {
	id := node.AddEventListenerWithOptions(binding.RewrittenType, func(ev *dom.Event) {
		b.resolve(node, binding, data, ev)
	}, dom.ListenerOptions{Namespace: b.namespace})
	key := registryKey{node: node, typ: binding.RewrittenType}
	b.registry[key] = append(b.registry[key], id)
}

// ResetEvents removes every listener the binder installed on node,
// delegated and shim alike. Listeners owned by others and listeners on
// descendants are untouched; callers reset each directly-bound node.
func (b *Binder) ResetEvents(node *dom.Node) {
	if node == nil {
		return
	}
	node.RemoveNamespaceListeners(b.namespace)
	for key := range b.registry {
		if key.node == node {
			delete(b.registry, key)
		}
	}
}
