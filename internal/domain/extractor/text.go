package extractor

import (
	"strings"

	"dom-snapshot/internal/domain/dom"
)

// ExtractText returns the short label of n truncated to maxLen runes.
func ExtractText(n dom.Node, maxLen int) string {
	return Truncate(rawText(n), maxLen)
}

func rawText(n dom.Node) string {
	switch n.Tag() {
	case "input", "textarea":
		if v := attr(n, "placeholder"); v != "" {
			return v
		}
		if v := attr(n, "aria-label"); v != "" {
			return v
		}
		if n.InputType() == "password" {
			return ""
		}
		return strings.TrimSpace(n.Value())
	case "img":
		return attr(n, "alt")
	default:
		return collapseSpace(n.TextContent())
	}
}

// Truncate cuts s to maxLen runes and appends an ellipsis when it was longer.
func Truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + ellipsis
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func attr(n dom.Node, name string) string {
	v, _ := n.Attribute(name)
	return strings.TrimSpace(v)
}
