package css

import (
	"sync"

	"github.com/chrisuehlinger/ripple/dom"
)

// Engine matches selector strings against document trees, caching parsed
// selectors by source text. Selectors that fail to parse are cached too, and
// match nothing.
type Engine struct {
	mu    sync.RWMutex
	cache map[string]cachedSelector
}

type cachedSelector struct {
	selector *Selector
	err      error
}

// NewEngine creates a new selector engine with an empty cache.
func NewEngine() *Engine {
	return &Engine{
		cache: make(map[string]cachedSelector),
	}
}

// parse returns the cached parse of the selector source, parsing on first use.
func (e *Engine) parse(source string) (*Selector, error) {
	e.mu.RLock()
	entry, ok := e.cache[source]
	e.mu.RUnlock()
	if ok {
		return entry.selector, entry.err
	}

	selector, err := ParseSelector(source)
	e.mu.Lock()
	e.cache[source] = cachedSelector{selector: selector, err: err}
	e.mu.Unlock()
	return selector, err
}

// Select returns the strict descendants of context matching the selector, in
// document order. The context node itself is never included. Selectors that
// do not parse yield an empty result.
func (e *Engine) Select(context *dom.Node, selector string) []*dom.Node {
	if context == nil {
		return nil
	}
	sel, err := e.parse(selector)
	if err != nil {
		return nil
	}
	return queryAll(context, sel, false)
}

// SelectFirst returns the first strict descendant of context matching the
// selector, or nil.
func (e *Engine) SelectFirst(context *dom.Node, selector string) *dom.Element {
	if context == nil {
		return nil
	}
	sel, err := e.parse(selector)
	if err != nil {
		return nil
	}
	results := queryAll(context, sel, true)
	if len(results) == 0 {
		return nil
	}
	return (*dom.Element)(results[0])
}

// MatchesSelector reports whether the element matches the selector.
// Selectors that do not parse match nothing.
func (e *Engine) MatchesSelector(el *dom.Element, selector string) bool {
	if el == nil {
		return false
	}
	sel, err := e.parse(selector)
	if err != nil {
		return false
	}
	return sel.Matches(el)
}
