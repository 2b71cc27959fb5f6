package output

import (
	"context"

	"dom-snapshot/internal/domain/dom"
)

// PageDocument is one captured page. Labels set on its nodes reach the live
// page on Commit.
type PageDocument interface {
	dom.Document
	Commit(ctx context.Context) (int, error)
}

type BrowserPort interface {
	Navigate(ctx context.Context, url string) error
	Document(ctx context.Context) (PageDocument, error)

	Click(ctx context.Context, selector string) error
	Fill(ctx context.Context, selector, text string) error
	PressEnter(ctx context.Context) error

	CurrentURL(ctx context.Context) (string, error)
	// HTML returns the serialized page, including labels written by Commit.
	HTML(ctx context.Context) (string, error)
	Close()
}
