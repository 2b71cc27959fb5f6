// Package capture reads a live page into an engine document with a single
// script evaluation and writes the assigned identifiers back onto the very
// element references that were captured.
package capture

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
)

//go:embed capture.js
var captureScript string

//go:embed label.js
var labelScript string

// registryName is the window property holding captured element references
// between Capture and Apply.
const registryName = "__domSnapshotNodes"

// Evaluator runs a JavaScript function in the page with one JSON argument and
// returns its string result. Each browser driver provides one.
type Evaluator interface {
	EvalString(ctx context.Context, fn string, arg any) (string, error)
}

type rawSnapshot struct {
	Title string   `json:"title"`
	Body  *rawNode `json:"body"`
}

type rawNode struct {
	Index      int               `json:"i"`
	Tag        string            `json:"tag"`
	Attrs      map[string]string `json:"attrs"`
	Width      float64           `json:"w"`
	Height     float64           `json:"h"`
	Display    string            `json:"display"`
	Visibility string            `json:"visibility"`
	Opacity    string            `json:"opacity"`
	Focused    bool              `json:"focused"`
	Type       string            `json:"type"`
	Value      string            `json:"value"`
	Text       *string           `json:"text"`
	Children   []*rawNode        `json:"children"`
}

// Capture evaluates the capture script and decodes the result.
func Capture(ctx context.Context, ev Evaluator) (*Document, error) {
	out, err := ev.EvalString(ctx, captureScript, registryName)
	if err != nil {
		return nil, fmt.Errorf("capture dom: %w", err)
	}
	return Decode([]byte(out))
}

// Decode builds a document from the capture script's JSON output.
func Decode(data []byte) (*Document, error) {
	var snap rawSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode dom snapshot: %w", err)
	}

	doc := &Document{
		title:  snap.Title,
		labels: make(map[string]map[int]string),
	}
	if snap.Body != nil && snap.Body.Text == nil {
		doc.body = doc.build(snap.Body, nil)
	}
	return doc, nil
}

// Apply writes the labels collected during extraction onto the captured
// elements and returns how many were written. Elements detached since the
// capture are skipped.
func (d *Document) Apply(ctx context.Context, ev Evaluator) (int, error) {
	attrs := make([]string, 0, len(d.labels))
	for attr := range d.labels {
		attrs = append(attrs, attr)
	}
	sort.Strings(attrs)

	total := 0
	for _, attr := range attrs {
		labels := d.pending(attr)
		if len(labels) == 0 {
			continue
		}
		out, err := ev.EvalString(ctx, labelScript, labelArgs{
			Registry:  registryName,
			Attribute: attr,
			Labels:    labels,
		})
		if err != nil {
			return total, fmt.Errorf("apply %s labels: %w", attr, err)
		}
		var written int
		if err := json.Unmarshal([]byte(out), &written); err != nil {
			return total, fmt.Errorf("decode label result: %w", err)
		}
		total += written
	}
	return total, nil
}

type labelArgs struct {
	Registry  string         `json:"registry"`
	Attribute string         `json:"attribute"`
	Labels    map[int]string `json:"labels"`
}

// LiveDocument is a captured document bound to the page it came from.
type LiveDocument struct {
	*Document
	ev Evaluator
}

// CaptureLive captures the page behind ev and keeps ev for Commit.
func CaptureLive(ctx context.Context, ev Evaluator) (*LiveDocument, error) {
	doc, err := Capture(ctx, ev)
	if err != nil {
		return nil, err
	}
	return &LiveDocument{Document: doc, ev: ev}, nil
}

// Commit writes the buffered labels onto the page.
func (l *LiveDocument) Commit(ctx context.Context) (int, error) {
	return l.Apply(ctx, l.ev)
}
