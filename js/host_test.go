package js

import (
	"strings"
	"testing"

	"github.com/chrisuehlinger/ripple/css"
	"github.com/chrisuehlinger/ripple/delegate"
	"github.com/chrisuehlinger/ripple/dom"
	"github.com/chrisuehlinger/ripple/html"
)

func newTestHost(t *testing.T, markup string, caps delegate.Capabilities, legacy bool) (*Runtime, *Host, *dom.Document) {
	t.Helper()
	doc, err := html.Parse(markup)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	doc.SetLegacyEvents(legacy)
	engine := css.NewEngine()
	binder := delegate.New(engine, delegate.WithCapabilities(caps))
	r := NewRuntime()
	host := NewHost(r, doc, engine, binder)
	return r, host, doc
}

func nativeHost(t *testing.T, markup string) (*Runtime, *Host, *dom.Document) {
	t.Helper()
	return newTestHost(t, markup, delegate.NativeCapabilities(), false)
}

func TestHostDocumentAccess(t *testing.T) {
	r, _, _ := nativeHost(t, `<html><body><div id="app" class="shell"><button id="save" class="save">Save</button></div></body></html>`)

	result, err := r.Execute(`document.getElementById('save').tagName`)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.String() != "BUTTON" {
		t.Errorf("tagName = %v, want BUTTON", result.String())
	}

	result, err = r.Execute(`document.getElementById('app').className`)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.String() != "shell" {
		t.Errorf("className = %v, want shell", result.String())
	}

	result, err = r.Execute(`document.getElementById('missing')`)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.String() != "null" {
		t.Errorf("Expected null for missing id, got %v", result.String())
	}

	result, err = r.Execute(`document.body.tagName`)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.String() != "BODY" {
		t.Errorf("body.tagName = %v, want BODY", result.String())
	}
}

func TestHostSameObjectForSameNode(t *testing.T) {
	r, _, _ := nativeHost(t, `<html><body><div id="app"></div></body></html>`)

	result, err := r.Execute(`document.getElementById('app') === document.getElementById('app')`)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !result.ToBoolean() {
		t.Error("Expected the same JS object for the same DOM node")
	}

	result, err = r.Execute(`document.getElementById('app').parentElement === document.body`)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !result.ToBoolean() {
		t.Error("Expected parentElement to resolve to the cached body object")
	}
}

func TestHostPropertyWritesReachGo(t *testing.T) {
	r, _, doc := nativeHost(t, `<html><body><input id="field"></body></html>`)

	_, err := r.Execute(`
		var field = document.getElementById('field');
		field.value = 'typed';
		field.className = 'dirty';
	`)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	field := doc.GetElementById("field")
	if field.Value() != "typed" {
		t.Errorf("Value() = %q, want %q", field.Value(), "typed")
	}
	if field.ClassName() != "dirty" {
		t.Errorf("ClassName() = %q, want %q", field.ClassName(), "dirty")
	}
}

func TestHostTreeManipulation(t *testing.T) {
	r, _, doc := nativeHost(t, `<html><body><ul id="list"></ul></body></html>`)

	result, err := r.Execute(`
		var list = document.getElementById('list');
		var item = document.createElement('li');
		item.id = 'first';
		item.appendChild(document.createTextNode('One'));
		list.appendChild(item);
		list.children.length
	`)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.ToInteger() != 1 {
		t.Errorf("children.length = %v, want 1", result.ToInteger())
	}

	item := doc.GetElementById("first")
	if item == nil {
		t.Fatal("Expected #first to be connected to the document")
	}
	if got := item.AsNode().TextContent(); got != "One" {
		t.Errorf("TextContent = %q, want %q", got, "One")
	}
}

func TestHostHierarchyErrorThrows(t *testing.T) {
	r, _, _ := nativeHost(t, `<html><body><div id="outer"><div id="inner"></div></div></body></html>`)

	result, err := r.Execute(`
		var outcome = '';
		try {
			var outer = document.getElementById('outer');
			document.getElementById('inner').appendChild(outer);
		} catch (e) {
			outcome = e.name;
		}
		outcome
	`)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.String() != "HierarchyRequestError" {
		t.Errorf("Expected HierarchyRequestError, got %v", result.String())
	}
}

func TestHostQuerySelector(t *testing.T) {
	r, _, _ := nativeHost(t, `<html><body><div id="app"><button class="save">A</button><button class="save">B</button><button class="cancel">C</button></div></body></html>`)

	result, err := r.Execute(`document.querySelectorAll('.save').length`)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.ToInteger() != 2 {
		t.Errorf("querySelectorAll('.save').length = %v, want 2", result.ToInteger())
	}

	result, err = r.Execute(`document.querySelector('#app .cancel').textContent`)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.String() != "C" {
		t.Errorf("querySelector textContent = %v, want C", result.String())
	}

	result, err = r.Execute(`document.querySelector('.save').matches('#app .save')`)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !result.ToBoolean() {
		t.Error("Expected matches('#app .save') to be true")
	}
}

func TestHostAddEventListener(t *testing.T) {
	r, _, doc := nativeHost(t, `<html><body><button id="btn">Go</button></body></html>`)

	_, err := r.Execute(`
		var clicks = 0;
		var btn = document.getElementById('btn');
		function onClick(ev) { clicks++; }
		btn.addEventListener('click', onClick);
		btn.addEventListener('click', onClick);
		btn.click();
	`)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	result, _ := r.Execute("clicks")
	if result.ToInteger() != 1 {
		t.Errorf("Expected duplicate registration to be ignored, clicks = %v", result.ToInteger())
	}

	// Events dispatched from the Go side reach script listeners too.
	doc.GetElementById("btn").Click()
	result, _ = r.Execute("clicks")
	if result.ToInteger() != 2 {
		t.Errorf("Expected Go-side click to fire the listener, clicks = %v", result.ToInteger())
	}

	_, err = r.Execute(`
		btn.removeEventListener('click', onClick);
		btn.click();
	`)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	result, _ = r.Execute("clicks")
	if result.ToInteger() != 2 {
		t.Errorf("Expected no calls after removeEventListener, clicks = %v", result.ToInteger())
	}
}

func TestHostRippleAttach(t *testing.T) {
	r, _, _ := nativeHost(t, `<html><body><div id="app"><ul class="menu"><li id="item">One</li></ul></div></body></html>`)

	result, err := r.Execute(`
		var seen = [];
		var app = document.getElementById('app');
		ripple.attach(app, app, {
			'click .menu li': function(ev) {
				seen.push(ev.type + ':' + ev.currentTarget.id + ':' + this.label);
			}
		}, {label: 'ctx'});
		document.getElementById('item').click();
		seen.join(',')
	`)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.String() != "click:item:ctx" {
		t.Errorf("seen = %v, want click:item:ctx", result.String())
	}
}

func TestHostRippleAttachGoSideDispatch(t *testing.T) {
	r, _, doc := nativeHost(t, `<html><body><div id="app"><button class="save">Save</button></div></body></html>`)

	_, err := r.Execute(`
		var hits = 0;
		var app = document.getElementById('app');
		ripple.attach(app, app, {
			'click .save': function(ev) { hits++; }
		});
	`)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	doc.GetElementById("app").FirstElementChild().Click()

	result, _ := r.Execute("hits")
	if result.ToInteger() != 1 {
		t.Errorf("hits = %v, want 1", result.ToInteger())
	}
}

func TestHostRippleReset(t *testing.T) {
	r, _, _ := nativeHost(t, `<html><body><div id="app"><button class="save">Save</button></div></body></html>`)

	result, err := r.Execute(`
		var hits = 0;
		var app = document.getElementById('app');
		ripple.attach(app, app, {
			'click .save': function(ev) { hits++; }
		});
		ripple.reset(app);
		document.querySelector('.save').click();
		hits
	`)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.ToInteger() != 0 {
		t.Errorf("hits after reset = %v, want 0", result.ToInteger())
	}
}

func TestHostRippleMount(t *testing.T) {
	r, _, _ := nativeHost(t, `<html><body></body></html>`)

	result, err := r.Execute(`
		var rendered = ripple.mount(document.body, '<section id="a">A</section><section id="b">B</section>');
		rendered.start.id + ':' + rendered.end.id
	`)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.String() != "a:b" {
		t.Errorf("mount range = %v, want a:b", result.String())
	}

	result, err = r.Execute(`
		var hits = 0;
		ripple.attach(rendered.start, rendered.end, {
			'click': function(ev) { hits++; }
		});
		document.getElementById('b').click();
		document.getElementById('a').click();
		hits
	`)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.ToInteger() != 2 {
		t.Errorf("hits = %v, want 2", result.ToInteger())
	}
}

func TestHostRipplePrepareLegacyChange(t *testing.T) {
	r, _, _ := newTestHost(t, `<html><body><div id="host"><form id="f"><input id="field"></form></div></body></html>`,
		delegate.LegacyCapabilities(), true)

	result, err := r.Execute(`
		var events = [];
		var host = document.getElementById('host');
		ripple.attach(host, host, {
			'change input': function(ev) { events.push(ev.type); }
		});
		ripple.prepare(host, host);
		document.getElementById('field').dispatchChange();
		events.join(',')
	`)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.String() != "change" {
		t.Errorf("events = %v, want change", result.String())
	}
}

func TestHostRippleSubmitCancelledFromScript(t *testing.T) {
	r, _, doc := newTestHost(t, `<html><body><div id="host"><form id="f"><input id="field"></form></div></body></html>`,
		delegate.LegacyCapabilities(), true)

	submissions := 0
	doc.SetSubmitHandler(func(form *dom.Element) {
		submissions++
	})

	_, err := r.Execute(`
		var host = document.getElementById('host');
		ripple.attach(host, host, {
			'submit form': function(ev) {
				lastDetailType = ev.detail.type;
				ev.preventDefault();
			}
		});
		ripple.prepare(host, host);
		document.getElementById('f').requestSubmit();
	`)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if submissions != 0 {
		t.Errorf("Expected cancelled submit to skip submission, got %d", submissions)
	}

	result, _ := r.Execute("lastDetailType")
	if result.String() != "submit" {
		t.Errorf("detail.type = %v, want submit", result.String())
	}
}

func TestHostRippleSubmitProceeds(t *testing.T) {
	r, _, doc := newTestHost(t, `<html><body><div id="host"><form id="f"><input id="field"></form></div></body></html>`,
		delegate.LegacyCapabilities(), true)

	submissions := 0
	doc.SetSubmitHandler(func(form *dom.Element) {
		submissions++
	})

	_, err := r.Execute(`
		var host = document.getElementById('host');
		ripple.attach(host, host, {
			'submit form': function(ev) {}
		});
		ripple.prepare(host, host);
		document.getElementById('f').requestSubmit();
	`)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if submissions != 1 {
		t.Errorf("Expected exactly one submission, got %d", submissions)
	}
}

func TestHostHandlerErrorReported(t *testing.T) {
	r, _, doc := nativeHost(t, `<html><body><div id="app"><button class="save">Save</button></div></body></html>`)

	_, err := r.Execute(`
		var app = document.getElementById('app');
		ripple.attach(app, app, {
			'click .save': function(ev) { throw new Error('handler boom'); }
		});
	`)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	doc.GetElementById("app").FirstElementChild().Click()

	errs := r.Errors()
	if len(errs) != 1 {
		t.Fatalf("Expected 1 recorded error, got %d", len(errs))
	}
	if !strings.Contains(errs[0].Error(), "handler boom") {
		t.Errorf("Expected recorded error to mention the thrown message, got %v", errs[0])
	}
}

func TestHostActiveElementFollowsFocus(t *testing.T) {
	r, _, _ := nativeHost(t, `<html><body><input id="field"></body></html>`)

	result, err := r.Execute(`
		document.getElementById('field').focus();
		document.activeElement.id
	`)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.String() != "field" {
		t.Errorf("activeElement.id = %v, want field", result.String())
	}
}
