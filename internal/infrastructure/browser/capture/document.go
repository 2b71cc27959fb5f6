package capture

import (
	"strconv"
	"strings"

	"dom-snapshot/internal/domain/dom"
)

var (
	_ dom.Document = (*Document)(nil)
	_ dom.Node     = (*Node)(nil)
)

// Document is a captured page. Labels set on its nodes are buffered until
// Apply.
type Document struct {
	title  string
	body   *Node
	labels map[string]map[int]string
}

func (d *Document) Title() string {
	return d.title
}

func (d *Document) Body() dom.Node {
	if d.body == nil {
		return nil
	}
	return d.body
}

// pending returns the buffered labels for attr keyed by capture index.
func (d *Document) pending(attr string) map[int]string {
	return d.labels[attr]
}

func (d *Document) build(raw *rawNode, parent *Node) *Node {
	n := &Node{doc: d, raw: raw, parent: parent}
	if raw.Attrs == nil {
		raw.Attrs = make(map[string]string)
	}
	for _, c := range raw.Children {
		if c == nil || c.Text != nil {
			continue
		}
		n.children = append(n.children, d.build(c, n))
	}
	return n
}

// Node is one captured element.
type Node struct {
	doc      *Document
	raw      *rawNode
	parent   *Node
	children []*Node
	text     *string
}

func (n *Node) Index() int {
	return n.raw.Index
}

func (n *Node) Tag() string {
	return n.raw.Tag
}

func (n *Node) Attribute(name string) (string, bool) {
	v, ok := n.raw.Attrs[name]
	return v, ok
}

func (n *Node) SetAttribute(name, value string) {
	n.raw.Attrs[name] = value
	labels, ok := n.doc.labels[name]
	if !ok {
		labels = make(map[int]string)
		n.doc.labels[name] = labels
	}
	labels[n.raw.Index] = value
}

func (n *Node) TextContent() string {
	if n.text == nil {
		var sb strings.Builder
		writeText(&sb, n.raw)
		s := sb.String()
		n.text = &s
	}
	return *n.text
}

func writeText(sb *strings.Builder, raw *rawNode) {
	if raw.Text != nil {
		sb.WriteString(*raw.Text)
		return
	}
	for _, c := range raw.Children {
		if c != nil {
			writeText(sb, c)
		}
	}
}

func (n *Node) Value() string {
	return n.raw.Value
}

func (n *Node) InputType() string {
	return n.raw.Type
}

func (n *Node) Focused() bool {
	return n.raw.Focused
}

func (n *Node) Box() dom.Box {
	return dom.Box{Width: n.raw.Width, Height: n.raw.Height}
}

func (n *Node) Style() dom.Style {
	opacity := 1.0
	if f, err := strconv.ParseFloat(strings.TrimSpace(n.raw.Opacity), 64); err == nil {
		opacity = f
	}
	return dom.Style{
		Display:    n.raw.Display,
		Visibility: n.raw.Visibility,
		Opacity:    opacity,
	}
}

func (n *Node) Parent() dom.Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *Node) Children() []dom.Node {
	out := make([]dom.Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}
