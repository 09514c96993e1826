package dom

import (
	"sync"
)

// EventPhase represents the phase of event dispatch.
type EventPhase int

const (
	EventPhaseNone      EventPhase = 0
	EventPhaseCapturing EventPhase = 1
	EventPhaseAtTarget  EventPhase = 2
	EventPhaseBubbling  EventPhase = 3
)

// Event represents an event traveling through the tree.
type Event struct {
	typ           string
	target        *Node
	currentTarget *Node
	phase         EventPhase
	bubbles       bool
	cancelable    bool

	defaultPrevented bool
	stopped          bool
	stopImmediate    bool

	// Detail carries a free-form payload alongside the event.
	Detail any
}

// EventInit configures a new Event.
type EventInit struct {
	Bubbles    bool
	Cancelable bool
	Detail     any
}

// NewEvent creates a new event of the given type.
func NewEvent(typ string, init EventInit) *Event {
	return &Event{
		typ:        typ,
		bubbles:    init.Bubbles,
		cancelable: init.Cancelable,
		Detail:     init.Detail,
	}
}

// Type returns the event's current type.
func (ev *Event) Type() string {
	return ev.typ
}

// SetType relabels the event. Dispatch selects listeners by the type the
// event had when dispatch started, so relabeling inside a handler changes
// only what later readers of Type observe.
func (ev *Event) SetType(typ string) {
	ev.typ = typ
}

// Target returns the node the event was dispatched on.
func (ev *Event) Target() *Node {
	return ev.target
}

// CurrentTarget returns the node whose listener is currently being invoked.
func (ev *Event) CurrentTarget() *Node {
	return ev.currentTarget
}

// SetCurrentTarget re-targets the event for delegated delivery. Dispatch
// resets the current target before each listener invocation, so the change
// is visible only for the remainder of the invocation that made it.
func (ev *Event) SetCurrentTarget(n *Node) {
	ev.currentTarget = n
}

// Phase returns the current dispatch phase.
func (ev *Event) Phase() EventPhase {
	return ev.phase
}

// Bubbles returns true if the event bubbles up through ancestors.
func (ev *Event) Bubbles() bool {
	return ev.bubbles
}

// Cancelable returns true if the event's default action can be prevented.
func (ev *Event) Cancelable() bool {
	return ev.cancelable
}

// DefaultPrevented returns true if PreventDefault has been called.
func (ev *Event) DefaultPrevented() bool {
	return ev.defaultPrevented
}

// PreventDefault cancels the event's default action if the event is cancelable.
func (ev *Event) PreventDefault() {
	if ev.cancelable {
		ev.defaultPrevented = true
	}
}

// StopPropagation prevents the event from reaching any further nodes.
func (ev *Event) StopPropagation() {
	ev.stopped = true
}

// StopImmediatePropagation prevents the event from reaching any further
// listeners, including remaining listeners on the current node.
func (ev *Event) StopImmediatePropagation() {
	ev.stopped = true
	ev.stopImmediate = true
}

// EventHandler is a function invoked when an event is delivered to a listener.
type EventHandler func(*Event)

// ListenerOptions configures a listener registration.
type ListenerOptions struct {
	// Capture delivers the event during the capture phase instead of the
	// target and bubble phases.
	Capture bool
	// Once removes the listener after its first invocation.
	Once bool
	// Namespace tags the listener so a whole group can be removed with
	// RemoveNamespaceListeners.
	Namespace string
}

// eventListener is a registered event listener.
type eventListener struct {
	id      int
	handler EventHandler
	opts    ListenerOptions
}

// EventTarget manages the event listeners of a single node.
type EventTarget struct {
	listeners map[string][]eventListener
	nextID    int
	mu        sync.RWMutex
}

// NewEventTarget creates a new EventTarget.
func NewEventTarget() *EventTarget {
	return &EventTarget{
		listeners: make(map[string][]eventListener),
	}
}

func (n *Node) eventTarget() *EventTarget {
	if n.events == nil {
		n.events = NewEventTarget()
	}
	return n.events
}

// AddEventListener registers a listener for the given event type and returns
// its id. Listeners are not deduplicated; each registration receives a
// distinct id and is invoked separately.
func (n *Node) AddEventListener(typ string, handler EventHandler) int {
	return n.AddEventListenerWithOptions(typ, handler, ListenerOptions{})
}

// AddEventListenerWithOptions registers a listener with explicit options and
// returns its id.
func (n *Node) AddEventListenerWithOptions(typ string, handler EventHandler, opts ListenerOptions) int {
	et := n.eventTarget()
	et.mu.Lock()
	defer et.mu.Unlock()

	et.nextID++
	et.listeners[typ] = append(et.listeners[typ], eventListener{
		id:      et.nextID,
		handler: handler,
		opts:    opts,
	})
	return et.nextID
}

// RemoveEventListener unregisters the listener with the given id for the
// given event type. Unknown ids are ignored.
func (n *Node) RemoveEventListener(typ string, id int) {
	if n.events == nil {
		return
	}
	n.events.mu.Lock()
	defer n.events.mu.Unlock()
	n.events.removeLocked(typ, id)
}

func (et *EventTarget) removeLocked(typ string, id int) {
	listeners := et.listeners[typ]
	for i, l := range listeners {
		if l.id == id {
			et.listeners[typ] = append(listeners[:i], listeners[i+1:]...)
			return
		}
	}
}

// RemoveNamespaceListeners removes every listener on this node registered
// under the given namespace, across all event types, and returns how many
// were removed. Listeners of other namespaces are untouched. Descendant
// nodes are not visited.
func (n *Node) RemoveNamespaceListeners(namespace string) int {
	if n.events == nil || namespace == "" {
		return 0
	}
	n.events.mu.Lock()
	defer n.events.mu.Unlock()

	removed := 0
	for typ, listeners := range n.events.listeners {
		kept := listeners[:0]
		for _, l := range listeners {
			if l.opts.Namespace == namespace {
				removed++
			} else {
				kept = append(kept, l)
			}
		}
		if len(kept) == 0 {
			delete(n.events.listeners, typ)
		} else {
			n.events.listeners[typ] = kept
		}
	}
	return removed
}

// HasEventListeners returns true if the node has any listeners for the
// given event type.
func (n *Node) HasEventListeners(typ string) bool {
	if n.events == nil {
		return false
	}
	n.events.mu.RLock()
	defer n.events.mu.RUnlock()
	return len(n.events.listeners[typ]) > 0
}

func (ev *Event) reset() {
	ev.phase = EventPhaseNone
	ev.currentTarget = nil
}

// DispatchEvent dispatches an event on this node, running the capture,
// target, and bubble phases over the node's ancestor chain. Returns true if
// the event's default action should proceed, false if a listener prevented
// it.
func (n *Node) DispatchEvent(ev *Event) bool {
	ev.target = n
	lookupType := ev.typ

	// Ancestors, nearest first
	var path []*Node
	for p := n.parentNode; p != nil; p = p.parentNode {
		path = append(path, p)
	}

	// Capture phase, root towards target
	for i := len(path) - 1; i >= 0 && !ev.stopped; i-- {
		path[i].invokeListeners(ev, lookupType, EventPhaseCapturing)
	}

	// Target phase
	if !ev.stopped {
		n.invokeListeners(ev, lookupType, EventPhaseAtTarget)
	}

	// Bubble phase, target towards root
	if ev.bubbles {
		for i := 0; i < len(path) && !ev.stopped; i++ {
			path[i].invokeListeners(ev, lookupType, EventPhaseBubbling)
		}
	}

	ev.reset()
	return !ev.defaultPrevented
}

// invokeListeners delivers the event to this node's listeners for one phase.
// The listener slice is copied before invocation so handlers may add or
// remove listeners without disturbing the current delivery.
func (n *Node) invokeListeners(ev *Event, lookupType string, phase EventPhase) {
	if n.events == nil {
		return
	}

	n.events.mu.RLock()
	listeners := make([]eventListener, len(n.events.listeners[lookupType]))
	copy(listeners, n.events.listeners[lookupType])
	n.events.mu.RUnlock()

	if len(listeners) == 0 {
		return
	}

	var toRemove []int
	for _, l := range listeners {
		if phase == EventPhaseCapturing && !l.opts.Capture {
			continue
		}
		if phase == EventPhaseBubbling && l.opts.Capture {
			continue
		}

		ev.currentTarget = n
		ev.phase = phase
		l.handler(ev)

		if l.opts.Once {
			toRemove = append(toRemove, l.id)
		}
		if ev.stopImmediate {
			break
		}
	}

	if len(toRemove) > 0 {
		n.events.mu.Lock()
		for _, id := range toRemove {
			n.events.removeLocked(lookupType, id)
		}
		n.events.mu.Unlock()
	}
}
