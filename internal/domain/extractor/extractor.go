// Package extractor reduces a document to a flat, ordered list of element
// records and labels every described node with its identifier.
package extractor

import (
	"dom-snapshot/internal/domain/dom"
	"dom-snapshot/internal/domain/entity"
)

type Extractor struct {
	cfg Config
}

func New(cfg Config) *Extractor {
	return &Extractor{cfg: cfg.normalize()}
}

func (e *Extractor) Config() Config {
	return e.cfg
}

// Extract walks doc from its body in pre-order and returns the records of all
// included nodes. Identifiers start at startCounter (values below 1 mean 1) and
// the returned Counter is the next unused value. The call has no error path: a
// missing body yields an empty result.
func (e *Extractor) Extract(doc dom.Document, startCounter int) *entity.ExtractionResult {
	ids := newCounter(startCounter)
	result := &entity.ExtractionResult{
		Role:     entity.RoleWebArea,
		Children: []entity.ElementRecord{},
	}
	if doc == nil {
		result.Counter = ids.next
		return result
	}
	result.Name = doc.Title()

	if body := doc.Body(); body != nil {
		w := walker{e: e, ids: ids, out: result.Children}
		for _, c := range body.Children() {
			w.visit(c, 1)
		}
		result.Children = w.out
	}
	result.Counter = ids.next
	return result
}

type walker struct {
	e   *Extractor
	ids *counter
	out []entity.ElementRecord
}

func (w *walker) visit(n dom.Node, depth int) {
	if n == nil {
		return
	}
	interactive := IsInteractive(n)
	if w.e.include(n, depth, interactive) {
		w.out = append(w.out, w.e.build(n, interactive, w.ids))
	}
	if opaqueTags[n.Tag()] {
		return
	}
	for _, c := range n.Children() {
		w.visit(c, depth+1)
	}
}
