package extractor

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"dom-snapshot/internal/domain/dom"
	"dom-snapshot/internal/domain/entity"
)

// counter hands out identifiers for one extraction.
type counter struct {
	next int
	used map[string]bool
}

func newCounter(start int) *counter {
	if start < 1 {
		start = 1
	}
	return &counter{next: start, used: make(map[string]bool)}
}

// assign returns a fresh identifier, skipping values already claimed by
// reused labels in this extraction.
func (c *counter) assign() string {
	for {
		id := strconv.Itoa(c.next)
		c.next++
		if !c.used[id] {
			c.used[id] = true
			return id
		}
	}
}

// claim marks an existing label as taken. It fails for labels already seen,
// which happens when page scripts clone labelled nodes.
func (c *counter) claim(id string) bool {
	if id == "" || c.used[id] {
		return false
	}
	v, err := strconv.Atoi(id)
	if err != nil || v < 1 {
		return false
	}
	c.used[id] = true
	if v >= c.next {
		c.next = v + 1
	}
	return true
}

func (e *Extractor) build(n dom.Node, interactive bool, ids *counter) entity.ElementRecord {
	id := ""
	if e.cfg.ReuseIdentifiers {
		if existing, ok := n.Attribute(e.cfg.IdentifierAttribute); ok && ids.claim(strings.TrimSpace(existing)) {
			id = strings.TrimSpace(existing)
		}
	}
	if id == "" {
		id = ids.assign()
	}
	n.SetAttribute(e.cfg.IdentifierAttribute, id)

	tag := n.Tag()
	rec := entity.ElementRecord{
		ID:          id,
		Tag:         tag,
		Interactive: interactive,
		Name:        ExtractText(n, e.cfg.MaxTextLength),
		ElementID:   e.criticalAttr(n, "id"),
		AriaLabel:   e.criticalAttr(n, "aria-label"),
		Placeholder: e.criticalAttr(n, "placeholder"),
		Href:        e.criticalAttr(n, "href"),
		Focused:     n.Focused(),
	}

	if formControlTags[tag] {
		rec.InputType = n.InputType()
		if rec.InputType != entity.InputTypePassword {
			rec.Value = n.Value()
		}
	}
	return rec
}

func (e *Extractor) criticalAttr(n dom.Node, name string) string {
	v, ok := n.Attribute(name)
	if !ok || v == "" || utf8.RuneCountInString(v) > e.cfg.MaxAttributeLength {
		return ""
	}
	return v
}
