// Command ripple demonstrates the delegation engine end to end: markup
// is parsed and mounted, delegated handlers are attached over the
// rendered range from both Go and JavaScript, and simulated
// interactions print what fires. Pass --legacy to run with the
// non-bubbling change/submit compatibility shims engaged.
package main

import (
	"fmt"
	"os"

	"github.com/chrisuehlinger/ripple/css"
	"github.com/chrisuehlinger/ripple/delegate"
	"github.com/chrisuehlinger/ripple/dom"
	"github.com/chrisuehlinger/ripple/html"
	"github.com/chrisuehlinger/ripple/js"
)

const page = `<html><body><div id="app"></div></body></html>`

const panelMarkup = `<div class="panel">
	<div class="toolbar">
		<button class="save primary">Save</button>
		<button class="cancel">Cancel</button>
	</div>
	<ul class="menu"><li id="item-one">One</li><li id="item-two">Two</li></ul>
	<form id="settings"><input id="name-field" name="name"><select id="mode"></select></form>
</div>`

func main() {
	legacy := len(os.Args) > 1 && os.Args[1] == "--legacy"

	doc, err := html.Parse(page)
	if err != nil {
		fmt.Println("parse failed:", err)
		os.Exit(1)
	}

	caps := delegate.NativeCapabilities()
	if legacy {
		caps = delegate.LegacyCapabilities()
		doc.SetLegacyEvents(true)
		fmt.Println("ripple demo (legacy event model)")
	} else {
		fmt.Println("ripple demo (native event model)")
	}

	doc.SetSubmitHandler(func(form *dom.Element) {
		fmt.Printf("document: form #%s submitted\n", form.Id())
	})

	engine := css.NewEngine()
	binder := delegate.New(engine, delegate.WithCapabilities(caps))

	app := doc.GetElementById("app")
	rendered, err := html.Mount(app.AsNode(), panelMarkup)
	if err != nil {
		fmt.Println("mount failed:", err)
		os.Exit(1)
	}

	session := map[string]string{"user": "demo"}

	binder.AttachEvents(rendered.Start, rendered.End, delegate.EventMap{
		"click .toolbar .save": func(data any, ev *dom.Event) {
			user := data.(map[string]string)["user"]
			fmt.Printf("handler: save clicked by %s\n", user)
		},
		"click .menu li": func(data any, ev *dom.Event) {
			item := (*dom.Element)(ev.CurrentTarget())
			fmt.Printf("handler: menu item #%s chosen\n", item.Id())
		},
		"focus input": func(data any, ev *dom.Event) {
			fmt.Printf("handler: focus entered #%s\n", doc.ActiveElement().Id())
		},
		"change select, change input": func(data any, ev *dom.Event) {
			control := (*dom.Element)(ev.CurrentTarget())
			fmt.Printf("handler: %s observed on #%s\n", ev.Type(), control.Id())
		},
		"submit form": func(data any, ev *dom.Event) {
			form := (*dom.Element)(ev.CurrentTarget())
			name := engine.SelectFirst(form.AsNode(), "input")
			if name != nil && name.Value() == "" {
				fmt.Println("handler: name missing, submission blocked")
				ev.PreventDefault()
				return
			}
			fmt.Printf("handler: submitting form #%s\n", form.Id())
		},
	}, session)

	binder.PrepareForEvents(rendered.Start, rendered.End)

	fmt.Println("-- simulated interactions --")
	saveButton := engine.SelectFirst(app.AsNode(), ".toolbar .save")
	nameField := doc.GetElementById("name-field")
	form := doc.GetElementById("settings")

	saveButton.Click()
	doc.GetElementById("item-two").Click()
	nameField.Focus()
	doc.GetElementById("mode").DispatchChange()
	form.RequestSubmit()
	nameField.SetValue("ripple")
	form.RequestSubmit()

	fmt.Println("-- scripted interactions --")
	runtime := js.NewRuntime()
	js.NewHost(runtime, doc, engine, binder)

	_, err = runtime.Execute(`
		var extra = ripple.mount(document.getElementById('app'),
			'<ul class="menu"><li id="alpha">Alpha</li><li id="beta">Beta</li></ul>');
		ripple.attach(extra.start, extra.end, {
			'click .menu li': function(ev) {
				console.log('script handler:', ev.currentTarget.id, 'chosen via', this.source);
			}
		}, {source: 'script'});
		document.getElementById('beta').click();
	`)
	if err != nil {
		fmt.Println("script failed:", err)
		os.Exit(1)
	}

	// The scripted range is live for Go-side dispatch too.
	doc.GetElementById("alpha").Click()

	fmt.Println("-- teardown --")
	binder.ResetEvents(rendered.Start)
	saveButton.Click()
	fmt.Println("save handler detached, no output expected above")
}
