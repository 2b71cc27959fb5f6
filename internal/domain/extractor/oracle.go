package extractor

import (
	"strconv"
	"strings"

	"dom-snapshot/internal/domain/dom"
)

// IsVisible reports whether n is rendered. Only the direct parent's style is
// consulted; an element hidden by a further ancestor can still pass.
func IsVisible(n dom.Node) bool {
	if n == nil {
		return false
	}
	if n.Box().Empty() {
		return false
	}
	style := n.Style()
	if style.Hidden() || style.Opacity == 0 {
		return false
	}
	if parent := n.Parent(); parent != nil && parent.Style().Hidden() {
		return false
	}
	return true
}

// IsInteractive reports whether n is actionable by tag, ARIA role or tabindex.
func IsInteractive(n dom.Node) bool {
	if n == nil {
		return false
	}
	if actionableTags[n.Tag()] {
		return true
	}
	if role, ok := n.Attribute("role"); ok && actionableRoles[strings.ToLower(strings.TrimSpace(role))] {
		return true
	}
	if raw, ok := n.Attribute("tabindex"); ok {
		if idx, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && idx >= 0 {
			return true
		}
	}
	return false
}

// hasActionableDescendant looks for an actionable tag below n.
func hasActionableDescendant(n dom.Node) bool {
	for _, c := range n.Children() {
		if actionableTags[c.Tag()] || hasActionableDescendant(c) {
			return true
		}
	}
	return false
}
