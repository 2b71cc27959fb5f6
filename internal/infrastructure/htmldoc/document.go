// Package htmldoc adapts documents parsed with golang.org/x/net/html to the
// extraction engine. There is no layout engine behind it: style comes from
// inline declarations and the hidden attribute, boxes from explicit sizes.
package htmldoc

import (
	"fmt"
	"io"
	"strings"

	"dom-snapshot/internal/domain/dom"

	"golang.org/x/net/html"
)

var _ dom.Document = (*Document)(nil)

type Document struct {
	root    *html.Node
	body    *html.Node
	focused *html.Node
	title   string
	nodes   map[*html.Node]*Node
}

func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	d := &Document{
		root:  root,
		body:  findElement(root, "body"),
		nodes: make(map[*html.Node]*Node),
	}
	if t := findElement(root, "title"); t != nil {
		d.title = strings.Join(strings.Fields(textContent(t)), " ")
	}
	d.focused = findFirst(d.body, func(n *html.Node) bool {
		return n.Type == html.ElementNode && hasAttr(n, "autofocus")
	})
	return d, nil
}

func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

func (d *Document) Title() string {
	return d.title
}

func (d *Document) Body() dom.Node {
	if d.body == nil {
		return nil
	}
	return d.wrap(d.body)
}

// Render writes the whole document including the identifiers written so far.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

func (d *Document) wrap(n *html.Node) *Node {
	if w, ok := d.nodes[n]; ok {
		return w
	}
	w := &Node{doc: d, n: n}
	d.nodes[n] = w
	return w
}

// findElement ищет первый элемент с тегом tag
func findElement(n *html.Node, tag string) *html.Node {
	return findFirst(n, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == tag
	})
}

func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n == nil {
		return nil
	}
	if match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func getAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func hasAttr(n *html.Node, key string) bool {
	_, ok := getAttr(n, key)
	return ok
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}
