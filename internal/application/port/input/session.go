package input

import (
	"context"
	"time"

	"dom-snapshot/internal/domain/entity"
)

// PageSession is the per-page surface offered to agents: snapshot the page,
// then act on identifiers from the latest snapshot.
type PageSession interface {
	GetDOM(ctx context.Context) (*entity.ExtractionResult, error)
	Click(ctx context.Context, id string, waitBefore time.Duration) error
	Type(ctx context.Context, id, text string) error
	EnterTextAndClick(ctx context.Context, textID, text, clickID string, waitBefore time.Duration) error
	PressEnter(ctx context.Context) error
	Navigate(ctx context.Context, url string) error
	CurrentURL(ctx context.Context) (string, error)
}

// HTMLExtractor extracts documents that are not loaded in a browser.
type HTMLExtractor interface {
	ExtractHTML(ctx context.Context, html string, startCounter int) (*entity.ExtractionResult, string, error)
}
