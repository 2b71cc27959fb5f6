package htmldoc

import (
	"strings"

	"dom-snapshot/internal/domain/dom"

	"golang.org/x/net/html"
)

var _ dom.Node = (*Node)(nil)

// Node wraps one element of a parsed document.
type Node struct {
	doc  *Document
	n    *html.Node
	text *string
}

func (n *Node) HTML() *html.Node {
	return n.n
}

func (n *Node) Tag() string {
	if n.n.Type != html.ElementNode {
		return ""
	}
	return strings.ToLower(n.n.Data)
}

func (n *Node) Attribute(name string) (string, bool) {
	return getAttr(n.n, name)
}

func (n *Node) SetAttribute(name, value string) {
	setAttr(n.n, name, value)
}

func (n *Node) TextContent() string {
	if n.text == nil {
		s := textContent(n.n)
		n.text = &s
	}
	return *n.text
}

func (n *Node) Value() string {
	switch n.Tag() {
	case "input":
		v, _ := getAttr(n.n, "value")
		return v
	case "textarea":
		return n.TextContent()
	case "select":
		return selectedOption(n.n)
	}
	return ""
}

func (n *Node) InputType() string {
	switch n.Tag() {
	case "input":
		return inputType(n.n)
	case "textarea":
		return "textarea"
	case "select":
		if hasAttr(n.n, "multiple") {
			return "select-multiple"
		}
		return "select-one"
	}
	return ""
}

func (n *Node) Focused() bool {
	return n.doc.focused == n.n
}

func (n *Node) Box() dom.Box {
	return boxOf(n.n)
}

func (n *Node) Style() dom.Style {
	return styleOf(n.n)
}

func (n *Node) Parent() dom.Node {
	p := n.n.Parent
	if p == nil || p.Type != html.ElementNode {
		return nil
	}
	return n.doc.wrap(p)
}

func (n *Node) Children() []dom.Node {
	var out []dom.Node
	for c := n.n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, n.doc.wrap(c))
		}
	}
	return out
}

var knownInputTypes = map[string]bool{
	"button": true, "checkbox": true, "color": true, "date": true, "datetime-local": true,
	"email": true, "file": true, "hidden": true, "image": true, "month": true, "number": true,
	"password": true, "radio": true, "range": true, "reset": true, "search": true, "submit": true,
	"tel": true, "text": true, "time": true, "url": true, "week": true,
}

// inputType mirrors HTMLInputElement.type: unknown or missing types are text.
func inputType(n *html.Node) string {
	t, _ := getAttr(n, "type")
	t = strings.ToLower(strings.TrimSpace(t))
	if !knownInputTypes[t] {
		return "text"
	}
	return t
}

func selectedOption(sel *html.Node) string {
	var first *html.Node
	chosen := findFirst(sel, func(c *html.Node) bool {
		if c.Type != html.ElementNode || c.Data != "option" {
			return false
		}
		if first == nil {
			first = c
		}
		return hasAttr(c, "selected")
	})
	if chosen == nil {
		chosen = first
	}
	if chosen == nil {
		return ""
	}
	if v, ok := getAttr(chosen, "value"); ok {
		return v
	}
	return strings.Join(strings.Fields(textContent(chosen)), " ")
}
