package htmldoc

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

type CleanConfig struct {
	TagsToRemove  []string
	AttrsToRemove []string
	// KeepAttrs survive the data-/aria-/on* prefix filter, e.g. the identifier attribute.
	KeepAttrs     []string
	MaxOutputSize int
}

// DefaultCleanConfig дефолтная конфигурация очистки
var DefaultCleanConfig = CleanConfig{
	TagsToRemove: []string{
		"script", "style", "noscript", "svg", "iframe",
		"link", "meta", "head", "title",
	},
	AttrsToRemove: []string{
		"style", "srcset", "sizes", "loading", "decoding", "fetchpriority", "tabindex",
	},
	MaxOutputSize: 130_000,
}

// AnnotatedBody renders a cleaned copy of <body> that keeps the identifiers
// written by the last extraction. The document itself is not modified.
func (d *Document) AnnotatedBody(cfg *CleanConfig) string {
	if cfg == nil {
		cfg = &DefaultCleanConfig
	}

	var sb strings.Builder
	if err := d.Render(&sb); err != nil {
		return ""
	}
	copyRoot, err := html.Parse(strings.NewReader(sb.String()))
	if err != nil {
		return ""
	}

	body := findElement(copyRoot, "body")
	if body == nil {
		return ""
	}

	cleanNode(body, cfg)

	return truncateHTML(renderNode(body), cfg.MaxOutputSize)
}

// cleanNode рекурсивно удаляет комментарии, мусорные теги и фильтрует атрибуты
func cleanNode(n *html.Node, cfg *CleanConfig) {
	if n.Type == html.CommentNode {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
		return
	}
	if n.Type != html.ElementNode {
		return
	}

	if isOneOf(n.Data, cfg.TagsToRemove...) {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
		return
	}

	n.Attr = filterAttributes(n.Attr, cfg)

	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		cleanNode(c, cfg)
		c = next
	}
}

func filterAttributes(attrs []html.Attribute, cfg *CleanConfig) []html.Attribute {
	var kept []html.Attribute
	for _, attr := range attrs {
		if shouldRemoveAttr(attr, cfg) {
			continue
		}
		kept = append(kept, attr)
	}
	return kept
}

func shouldRemoveAttr(attr html.Attribute, cfg *CleanConfig) bool {
	key := attr.Key
	if isOneOf(key, cfg.KeepAttrs...) {
		return false
	}
	if isOneOf(key, cfg.AttrsToRemove...) {
		return true
	}
	if key == "aria-label" {
		return false
	}
	return strings.HasPrefix(key, "data-") || strings.HasPrefix(key, "aria-") || strings.HasPrefix(key, "on")
}

func renderNode(n *html.Node) string {
	var sb strings.Builder
	_ = html.Render(&sb, n)
	return sb.String()
}

func truncateHTML(htmlStr string, maxSize int) string {
	if maxSize <= 0 || len(htmlStr) <= maxSize {
		return htmlStr
	}
	cut := maxSize
	for cut > 0 && !utf8.RuneStart(htmlStr[cut]) {
		cut--
	}
	return htmlStr[:cut] + "\n<!-- HTML truncated to fit token limit -->"
}

func isOneOf(s string, candidates ...string) bool {
	for _, c := range candidates {
		if s == c {
			return true
		}
	}
	return false
}
