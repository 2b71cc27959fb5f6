package extractor

import (
	"strings"

	"dom-snapshot/internal/domain/dom"
)

// include decides whether n at the given depth below body earns a record.
// interactive is the precomputed IsInteractive(n).
func (e *Extractor) include(n dom.Node, depth int, interactive bool) bool {
	tag := n.Tag()
	if tag == "" {
		return false
	}
	if !interactive && !IsVisible(n) {
		return false
	}
	if excludedTags[tag] {
		return false
	}
	if !interactive && strings.TrimSpace(n.TextContent()) == "" && !hasActionableDescendant(n) {
		return false
	}
	if !interactive && depth >= e.cfg.MaxDepth {
		return false
	}
	return true
}
