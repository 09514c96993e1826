package delegate

import (
	"testing"

	"github.com/chrisuehlinger/ripple/dom"
	"github.com/chrisuehlinger/ripple/html"
)

// buildLegacyForm mounts <div id="host"><form id="f"><input id="field"></form></div>
// under the body of a document whose engine fires change and submit
// without bubbling.
func buildLegacyForm(t *testing.T) (*dom.Document, dom.Range) {
	t.Helper()
	doc, err := html.Parse(`<body></body>`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	doc.SetLegacyEvents(true)
	r, err := html.Mount(doc.Body().AsNode(), `<div id="host"><form id="f"><input id="field"></form></div>`)
	if err != nil {
		t.Fatalf("Mount failed: %v", err)
	}
	return doc, r
}

func TestPrepareForEvents_NativeNoOp(t *testing.T) {
	doc, err := html.Parse(`<body></body>`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	r, err := html.Mount(doc.Body().AsNode(), `<div id="host"><form id="f"><input id="field"></form></div>`)
	if err != nil {
		t.Fatalf("Mount failed: %v", err)
	}

	binder := newTestBinder()
	binder.PrepareForEvents(r.Start, r.End)

	if mustElem(t, doc, "field").AsNode().HasEventListeners("change") {
		t.Error("Native capabilities should install no change shim")
	}
	if mustElem(t, doc, "f").AsNode().HasEventListeners("submit") {
		t.Error("Native capabilities should install no submit shim")
	}
}

func TestNativeChangeNeedsNoShim(t *testing.T) {
	doc, err := html.Parse(`<body></body>`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	r, err := html.Mount(doc.Body().AsNode(), `<div id="host"><input id="field"></div>`)
	if err != nil {
		t.Fatalf("Mount failed: %v", err)
	}

	binder := newTestBinder()
	var calls int
	binder.AttachEvents(r.Start, r.End, EventMap{
		"change input": func(data any, ev *dom.Event) { calls++ },
	}, nil)

	mustElem(t, doc, "field").DispatchChange()
	if calls != 1 {
		t.Errorf("Native change fired %d times, want 1", calls)
	}
}

func TestLegacyChangeWithoutPrepare(t *testing.T) {
	doc, r := buildLegacyForm(t)
	binder := newTestBinder(WithCapabilities(LegacyCapabilities()))

	var calls int
	binder.AttachEvents(r.Start, r.End, EventMap{
		"change input": func(data any, ev *dom.Event) { calls++ },
	}, nil)

	// Without instrumentation the non-bubbling change never reaches the
	// range node.
	mustElem(t, doc, "field").DispatchChange()
	if calls != 0 {
		t.Errorf("Uninstrumented legacy change fired %d times, want 0", calls)
	}
}

func TestPrepareForEvents_ChangeShim(t *testing.T) {
	doc, r := buildLegacyForm(t)
	binder := newTestBinder(WithCapabilities(LegacyCapabilities()))

	var calls int
	var seenType string
	var matched *dom.Node
	var original any
	binder.AttachEvents(r.Start, r.End, EventMap{
		"change input": func(data any, ev *dom.Event) {
			calls++
			seenType = ev.Type()
			matched = ev.CurrentTarget()
			original = ev.Detail
		},
	}, nil)
	binder.PrepareForEvents(r.Start, r.End)

	field := mustElem(t, doc, "field")
	field.DispatchChange()

	if calls != 1 {
		t.Fatalf("Shimmed change fired %d times, want 1", calls)
	}
	if seenType != "change" {
		t.Errorf("Handler saw type %q, want %q", seenType, "change")
	}
	if matched != field.AsNode() {
		t.Error("Matched node should be the control that changed")
	}
	orig, ok := original.(*dom.Event)
	if !ok || orig.Type() != "change" {
		t.Errorf("Surrogate detail = %v, want the original change event", original)
	}
}

func TestPrepareForEvents_Idempotent(t *testing.T) {
	doc, r := buildLegacyForm(t)
	binder := newTestBinder(WithCapabilities(LegacyCapabilities()))

	var calls int
	binder.AttachEvents(r.Start, r.End, EventMap{
		"change input": func(data any, ev *dom.Event) { calls++ },
	}, nil)
	binder.PrepareForEvents(r.Start, r.End)
	binder.PrepareForEvents(r.Start, r.End)

	mustElem(t, doc, "field").DispatchChange()
	if calls != 1 {
		t.Errorf("Re-instrumented change fired %d times, want 1", calls)
	}
}

func TestPrepareForEvents_SubmitDeferredOnce(t *testing.T) {
	doc, r := buildLegacyForm(t)
	var submissions int
	doc.SetSubmitHandler(func(form *dom.Element) { submissions++ })

	binder := newTestBinder(WithCapabilities(LegacyCapabilities()))
	var calls int
	var seenType string
	binder.AttachEvents(r.Start, r.End, EventMap{
		"submit": func(data any, ev *dom.Event) {
			calls++
			seenType = ev.Type()
		},
	}, nil)
	binder.PrepareForEvents(r.Start, r.End)

	mustElem(t, doc, "f").RequestSubmit()

	if calls != 1 {
		t.Fatalf("Delegated submit handler fired %d times, want 1", calls)
	}
	if seenType != "submit" {
		t.Errorf("Handler saw type %q, want %q", seenType, "submit")
	}
	if submissions != 1 {
		t.Errorf("Native submission ran %d times, want exactly 1", submissions)
	}
}

func TestPrepareForEvents_SubmitCancelled(t *testing.T) {
	doc, r := buildLegacyForm(t)
	var submissions int
	doc.SetSubmitHandler(func(form *dom.Element) { submissions++ })

	binder := newTestBinder(WithCapabilities(LegacyCapabilities()))
	var calls int
	cancel := true
	binder.AttachEvents(r.Start, r.End, EventMap{
		"submit": func(data any, ev *dom.Event) {
			calls++
			if cancel {
				ev.PreventDefault()
			}
		},
	}, nil)
	binder.PrepareForEvents(r.Start, r.End)

	form := mustElem(t, doc, "f")
	form.RequestSubmit()

	if calls != 1 {
		t.Fatalf("Delegated submit handler fired %d times, want 1", calls)
	}
	if submissions != 0 {
		t.Errorf("Cancelled submission still ran %d times", submissions)
	}

	// Cancellation clears the blocking flag, so a later submit defers and
	// proceeds normally.
	cancel = false
	form.RequestSubmit()

	if calls != 2 {
		t.Errorf("Handler fired %d times after resubmit, want 2", calls)
	}
	if submissions != 1 {
		t.Errorf("Resubmitted form ran native submission %d times, want 1", submissions)
	}
}

func TestPrepareForEvents_ReentrantSubmitSwallowed(t *testing.T) {
	doc, r := buildLegacyForm(t)
	var submissions int
	doc.SetSubmitHandler(func(form *dom.Element) { submissions++ })

	binder := newTestBinder(WithCapabilities(LegacyCapabilities()))
	form := mustElem(t, doc, "f")

	var calls int
	binder.AttachEvents(r.Start, r.End, EventMap{
		"submit": func(data any, ev *dom.Event) {
			calls++
			if calls == 1 {
				form.RequestSubmit()
			}
		},
	}, nil)
	binder.PrepareForEvents(r.Start, r.End)

	form.RequestSubmit()

	// The re-entrant submit hits the blocking flag: no second surrogate,
	// no second submission.
	if calls != 1 {
		t.Errorf("Handler fired %d times, want 1", calls)
	}
	if submissions != 1 {
		t.Errorf("Native submission ran %d times, want exactly 1", submissions)
	}
}

func TestPrepareForEvents_SubmitWithoutBindings(t *testing.T) {
	doc, r := buildLegacyForm(t)
	var submissions int
	doc.SetSubmitHandler(func(form *dom.Element) { submissions++ })

	binder := newTestBinder(WithCapabilities(LegacyCapabilities()))
	binder.PrepareForEvents(r.Start, r.End)

	mustElem(t, doc, "f").RequestSubmit()
	if submissions != 1 {
		t.Errorf("Instrumented form submitted %d times, want 1", submissions)
	}
}

func TestResetEvents_RemovesShims(t *testing.T) {
	doc, r := buildLegacyForm(t)
	var submissions int
	doc.SetSubmitHandler(func(form *dom.Element) { submissions++ })

	binder := newTestBinder(WithCapabilities(LegacyCapabilities()))
	var calls int
	binder.AttachEvents(r.Start, r.End, EventMap{
		"submit": func(data any, ev *dom.Event) { calls++ },
	}, nil)
	binder.PrepareForEvents(r.Start, r.End)

	form := mustElem(t, doc, "f")
	binder.ResetEvents(form.AsNode())

	if form.AsNode().HasEventListeners("submit") {
		t.Error("Reset should remove the submit shim")
	}

	// With the shim gone, submission follows the uninstrumented native
	// path and never reaches the delegated handler.
	form.RequestSubmit()
	if calls != 0 {
		t.Errorf("Delegated handler fired %d times after shim removal", calls)
	}
	if submissions != 1 {
		t.Errorf("Native submission ran %d times, want 1", submissions)
	}
}
