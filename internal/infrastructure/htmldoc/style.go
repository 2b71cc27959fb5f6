package htmldoc

import (
	"strconv"
	"strings"

	"dom-snapshot/internal/domain/dom"

	"golang.org/x/net/html"
)

// hiddenByDefault are elements a user agent stylesheet renders as display:none.
var hiddenByDefault = map[string]bool{
	"template": true, "head": true, "script": true, "style": true, "datalist": true,
}

func styleOf(n *html.Node) dom.Style {
	s := dom.Style{Display: "block", Visibility: "visible", Opacity: 1}
	if n.Type != html.ElementNode {
		return s
	}

	if hiddenByDefault[n.Data] || hasAttr(n, "hidden") {
		s.Display = "none"
	}
	if n.Data == "input" && inputType(n) == "hidden" {
		s.Display = "none"
	}

	decl := inlineStyle(n)
	if v, ok := decl["display"]; ok {
		s.Display = v
	}
	if v, ok := decl["visibility"]; ok {
		s.Visibility = v
	}
	if v, ok := decl["opacity"]; ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			s.Opacity = f
		}
	}
	return s
}

// boxOf returns the declared size, 1x1 when nothing is declared.
func boxOf(n *html.Node) dom.Box {
	b := dom.Box{Width: 1, Height: 1}
	decl := inlineStyle(n)

	if v, ok := decl["width"]; ok {
		b.Width = parseLength(v, b.Width)
	} else if v, ok := getAttr(n, "width"); ok {
		b.Width = parseLength(v, b.Width)
	}
	if v, ok := decl["height"]; ok {
		b.Height = parseLength(v, b.Height)
	} else if v, ok := getAttr(n, "height"); ok {
		b.Height = parseLength(v, b.Height)
	}
	return b
}

// inlineStyle parses the style attribute into lower-cased declarations.
func inlineStyle(n *html.Node) map[string]string {
	raw, ok := getAttr(n, "style")
	if !ok {
		return nil
	}
	decl := make(map[string]string)
	for _, part := range strings.Split(raw, ";") {
		k, v, found := strings.Cut(part, ":")
		if !found {
			continue
		}
		v = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(v), "!important"))
		decl[strings.ToLower(strings.TrimSpace(k))] = strings.ToLower(v)
	}
	return decl
}

func parseLength(v string, fallback float64) float64 {
	v = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(v), "px"))
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
