package delegate

import (
	"regexp"
	"sort"
	"strings"
)

// Capabilities describes which event types bubble natively in the host
// environment. A Binder consults it once, at construction, to build its
// type rewrite table and to decide whether PrepareForEvents must
// instrument anything.
type Capabilities struct {
	ChangeBubbles bool
	SubmitBubbles bool
}

// NativeCapabilities reports full native bubbling. No rewrites beyond the
// focus pair, and PrepareForEvents is a no-op.
func NativeCapabilities() Capabilities {
	return Capabilities{ChangeBubbles: true, SubmitBubbles: true}
}

// LegacyCapabilities reports an environment where change and submit fire
// only on their source node and must be re-dispatched through bubbling
// surrogate types.
func LegacyCapabilities() Capabilities {
	return Capabilities{}
}

// Binding is one normalized clause of an event spec: the declared type,
// the type listeners are actually registered for, whether ancestors of
// the origin participate in selector matching, the selector (empty means
// none) and the handler to invoke.
type Binding struct {
	EventType     string
	RewrittenType string
	Bubbles       bool
	Selector      string
	Handler       Handler
}

type rewrite struct {
	typ     string
	bubbles bool
}

// buildRewrites returns the type rewrite table for caps. Focus and blur
// never bubble at the source and always delegate through their bubbling
// counterparts. Change and submit are rewritten to surrogate types only
// when the environment cannot bubble them natively; the surrogates are
// what the compatibility shims re-dispatch.
func buildRewrites(caps Capabilities) map[string]rewrite {
	table := map[string]rewrite{
		"focus": {typ: "focusin", bubbles: false},
		"blur":  {typ: "focusout", bubbles: false},
	}
	if !caps.ChangeBubbles {
		table["change"] = rewrite{typ: "cellchange", bubbles: true}
	}
	if !caps.SubmitBubbles {
		table["submit"] = rewrite{typ: "datasetcomplete", bubbles: true}
	}
	return table
}

// Clauses are separated by a comma followed by whitespace, so selectors
// may carry embedded commas when written without a trailing space.
var clausePattern = regexp.MustCompile(`,\s+`)

// ParseEventSpec normalizes an event map into bindings. Each spec key is
// a comma-separated list of clauses; the first whitespace-delimited token
// of a clause is the event type and the remaining tokens, rejoined with
// single spaces, form the selector. Keys are visited in sorted order so
// the same map always yields the same binding list. Clauses with no
// tokens are skipped.
func (b *Binder) ParseEventSpec(events EventMap) []Binding {
	if len(events) == 0 {
		return nil
	}
	specs := make([]string, 0, len(events))
	for spec := range events {
		specs = append(specs, spec)
	}
	sort.Strings(specs)

	var bindings []Binding
	for _, spec := range specs {
		handler := events[spec]
		for _, clause := range clausePattern.Split(spec, -1) {
			tokens := strings.Fields(clause)
			if len(tokens) == 0 {
				continue
			}
			binding := Binding{
				EventType:     tokens[0],
				RewrittenType: tokens[0],
				Bubbles:       true,
				Selector:      strings.Join(tokens[1:], " "),
				Handler:       handler,
			}
			if rw, ok := b.rewrites[binding.EventType]; ok {
				binding.RewrittenType = rw.typ
				binding.Bubbles = rw.bubbles
			}
			bindings = append(bindings, binding)
		}
	}
	return bindings
}
