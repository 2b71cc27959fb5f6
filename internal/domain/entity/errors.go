package entity

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	ErrInvalidURL        = errors.New("invalid url")
	ErrInvalidIdentifier = errors.New("invalid element identifier")
	ErrInvalidArguments  = errors.New("invalid tool arguments")
	ErrNoDocument        = errors.New("no document")
	ErrUnknownTool       = errors.New("unknown tool")
	ErrClosed            = errors.New("session closed")
)

// ValidateURL accepts absolute http and https URLs only.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: missing host", ErrInvalidURL)
	}
	return nil
}
