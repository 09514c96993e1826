package html

import (
	"testing"

	"github.com/chrisuehlinger/ripple/dom"
)

func TestParse_BasicDocument(t *testing.T) {
	input := `<!DOCTYPE html>
<html>
<head><title>Test</title></head>
<body><p>Hello, World!</p></body>
</html>`

	doc, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	root := doc.DocumentElement()
	if root == nil {
		t.Fatal("Could not find html element")
	}
	if root.LocalName() != "html" {
		t.Errorf("DocumentElement local name = %q, want %q", root.LocalName(), "html")
	}

	body := doc.Body()
	if body == nil {
		t.Fatal("Missing body element")
	}
	if got := body.AsNode().TextContent(); got != "Hello, World!" {
		t.Errorf("Body text = %q, want %q", got, "Hello, World!")
	}
}

func TestParse_SynthesizedStructure(t *testing.T) {
	doc, err := Parse(`<p>bare fragment</p>`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if doc.DocumentElement() == nil {
		t.Fatal("Expected synthesized html element")
	}
	if doc.Body() == nil {
		t.Fatal("Expected synthesized body element")
	}
	p := doc.Body().FirstElementChild()
	if p == nil || p.LocalName() != "p" {
		t.Errorf("Expected p element under body, got %v", p)
	}
}

func TestParse_MalformedHTML(t *testing.T) {
	doc, err := Parse(`<p>unclosed paragraph<div>nested div</p></div>`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if doc == nil {
		t.Fatal("Expected non-nil document")
	}
}

func TestParse_Attributes(t *testing.T) {
	doc, err := Parse(`<div id="main" class="container" data-value="123">content</div>`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	div := doc.GetElementById("main")
	if div == nil {
		t.Fatal("Could not find #main")
	}
	if got := div.GetAttribute("class"); got != "container" {
		t.Errorf("class = %q, want %q", got, "container")
	}
	if got := div.GetAttribute("data-value"); got != "123" {
		t.Errorf("data-value = %q, want %q", got, "123")
	}
}

func TestParseFragment_BodyContext(t *testing.T) {
	nodes, err := ParseFragment(`<li>one</li><li>two</li>`, nil)
	if err != nil {
		t.Fatalf("ParseFragment failed: %v", err)
	}
	if len(nodes) != 2 {
		t.Fatalf("Expected 2 nodes, got %d", len(nodes))
	}
	for i, n := range nodes {
		if n.ParentNode() != nil {
			t.Errorf("nodes[%d] should be detached", i)
		}
		if n.NodeType() != dom.ElementNode {
			t.Errorf("nodes[%d] type = %v, want element", i, n.NodeType())
		}
	}
	if nodes[0].TextContent() != "one" || nodes[1].TextContent() != "two" {
		t.Error("Fragment content mismatch")
	}
}

func TestParseFragment_ElementContext(t *testing.T) {
	doc := dom.NewDocument()
	table := doc.CreateElement("table")

	// Row markup only survives parsing inside a table context.
	nodes, err := ParseFragment(`<tr><td>cell</td></tr>`, table)
	if err != nil {
		t.Fatalf("ParseFragment failed: %v", err)
	}
	if len(nodes) == 0 {
		t.Fatal("Expected fragment output")
	}
	var row *dom.Node
	for _, n := range nodes {
		if n.NodeType() != dom.ElementNode {
			continue
		}
		switch (*dom.Element)(n).LocalName() {
		case "tbody":
			row = n.FirstChild()
		case "tr":
			row = n
		}
	}
	if row == nil {
		t.Fatal("Expected a tr in fragment output")
	}
	if nodes[0].OwnerDocument() != doc {
		t.Error("Fragment nodes should share the context's owner document")
	}
}

func TestMount(t *testing.T) {
	doc := dom.NewDocument()
	host := doc.CreateElement("div")

	r, err := Mount(host.AsNode(), `<button class="save">Save</button><button class="cancel">Cancel</button>`)
	if err != nil {
		t.Fatalf("Mount failed: %v", err)
	}

	nodes := r.Nodes()
	if len(nodes) != 2 {
		t.Fatalf("Range covers %d nodes, want 2", len(nodes))
	}
	if r.Start.ParentNode() != host.AsNode() {
		t.Error("Mounted nodes should be children of the mount target")
	}
	if r.ParentNode() != host.AsNode() {
		t.Errorf("Range.ParentNode() = %v, want mount target", r.ParentNode())
	}
	if (*dom.Element)(r.Start).ClassName() != "save" {
		t.Error("Range start should be the first mounted node")
	}
	if (*dom.Element)(r.End).ClassName() != "cancel" {
		t.Error("Range end should be the last mounted node")
	}
}

func TestMount_KeepsExistingChildren(t *testing.T) {
	doc := dom.NewDocument()
	host := doc.CreateElement("ul")
	first := doc.CreateElement("li")
	host.AsNode().AppendChild(first.AsNode())

	r, err := Mount(host.AsNode(), `<li>a</li><li>b</li>`)
	if err != nil {
		t.Fatalf("Mount failed: %v", err)
	}
	if host.AsNode().FirstChild() != first.AsNode() {
		t.Error("Mount should append after existing children")
	}
	if len(r.Nodes()) != 2 {
		t.Errorf("Range covers %d nodes, want 2", len(r.Nodes()))
	}
	if r.Start != first.AsNode().NextSibling() {
		t.Error("Range should start at the first appended node")
	}
}

func TestMount_EmptyMarkup(t *testing.T) {
	doc := dom.NewDocument()
	host := doc.CreateElement("div")

	r, err := Mount(host.AsNode(), "")
	if err != nil {
		t.Fatalf("Mount failed: %v", err)
	}
	if r.Start != nil || r.End != nil {
		t.Error("Empty markup should produce a zero range")
	}
	if len(r.Nodes()) != 0 {
		t.Error("Zero range should cover no nodes")
	}
}

func TestMount_NilParent(t *testing.T) {
	if _, err := Mount(nil, `<p>x</p>`); err == nil {
		t.Error("Expected error for nil mount target")
	}
}

func TestMount_TextTarget(t *testing.T) {
	doc := dom.NewDocument()
	text := doc.CreateTextNode("plain")
	if _, err := Mount(text, `<p>x</p>`); err == nil {
		t.Error("Expected error for text mount target")
	}
}

func TestMount_DocumentTarget(t *testing.T) {
	doc := dom.NewDocument()

	r, err := Mount(doc.AsNode(), `<main>app</main>`)
	if err != nil {
		t.Fatalf("Mount failed: %v", err)
	}
	if doc.DocumentElement() == nil {
		t.Fatal("Mounted element should become the document element")
	}
	if r.Start != doc.DocumentElement().AsNode() {
		t.Error("Range should start at the mounted element")
	}

	// The document element slot is taken now, so the append inside Mount
	// fails and the error has to surface to the caller.
	_, err = Mount(doc.AsNode(), `<div>second</div>`)
	if err == nil {
		t.Fatal("Expected error mounting a second element onto the document")
	}
	domErr, ok := err.(*dom.DOMError)
	if !ok {
		t.Fatalf("Expected DOMError, got %T", err)
	}
	if domErr.Name != "HierarchyRequestError" {
		t.Errorf("Expected HierarchyRequestError, got %s", domErr.Name)
	}
}
