package extractor

import (
	"strings"

	"dom-snapshot/internal/domain/dom"
)

// fakeNode is an in-memory dom.Node for engine tests.
type fakeNode struct {
	tag      string
	attrs    map[string]string
	text     string
	value    string
	typ      string
	focused  bool
	box      dom.Box
	style    dom.Style
	parent   *fakeNode
	children []*fakeNode
}

func el(tag string, children ...*fakeNode) *fakeNode {
	n := &fakeNode{
		tag:   tag,
		attrs: map[string]string{},
		box:   dom.Box{Width: 100, Height: 20},
		style: dom.Style{Display: "block", Visibility: "visible", Opacity: 1},
	}
	for _, c := range children {
		c.parent = n
		n.children = append(n.children, c)
	}
	return n
}

func (n *fakeNode) withText(s string) *fakeNode     { n.text = s; return n }
func (n *fakeNode) withAttr(k, v string) *fakeNode  { n.attrs[k] = v; return n }
func (n *fakeNode) withValue(v string) *fakeNode    { n.value = v; return n }
func (n *fakeNode) withType(t string) *fakeNode     { n.typ = t; return n }
func (n *fakeNode) withStyle(s dom.Style) *fakeNode { n.style = s; return n }
func (n *fakeNode) withBox(w, h float64) *fakeNode  { n.box = dom.Box{Width: w, Height: h}; return n }
func (n *fakeNode) withFocus() *fakeNode            { n.focused = true; return n }

func (n *fakeNode) Tag() string { return n.tag }

func (n *fakeNode) Attribute(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

func (n *fakeNode) SetAttribute(name, value string) { n.attrs[name] = value }

func (n *fakeNode) TextContent() string {
	var sb strings.Builder
	sb.WriteString(n.text)
	for _, c := range n.children {
		sb.WriteString(c.TextContent())
	}
	return sb.String()
}

func (n *fakeNode) Value() string     { return n.value }
func (n *fakeNode) InputType() string { return n.typ }
func (n *fakeNode) Focused() bool     { return n.focused }
func (n *fakeNode) Box() dom.Box      { return n.box }
func (n *fakeNode) Style() dom.Style  { return n.style }

func (n *fakeNode) Parent() dom.Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *fakeNode) Children() []dom.Node {
	out := make([]dom.Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

type fakeDoc struct {
	title string
	body  *fakeNode
}

func (d *fakeDoc) Title() string { return d.title }

func (d *fakeDoc) Body() dom.Node {
	if d.body == nil {
		return nil
	}
	return d.body
}

func page(children ...*fakeNode) *fakeDoc {
	return &fakeDoc{title: "Test Page", body: el("body", children...)}
}

var hiddenStyle = dom.Style{Display: "none", Visibility: "visible", Opacity: 1}
