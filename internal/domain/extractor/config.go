package extractor

const (
	defaultMaxDepth            = 8
	defaultMaxTextLength       = 50
	defaultMaxAttributeLength  = 50
	defaultIdentifierAttribute = "mmid"

	// ellipsis is appended to truncated names.
	ellipsis = "..."
)

// Config holds the precision/size trade-offs of the engine.
type Config struct {
	// MaxDepth rejects non-interactive nodes at this depth below body or deeper.
	// Children of body are at depth 1.
	MaxDepth int
	// MaxTextLength caps names; longer names are cut and get an ellipsis.
	MaxTextLength int
	// MaxAttributeLength drops critical attributes longer than this.
	MaxAttributeLength int
	// IdentifierAttribute is the attribute the identifier is written to.
	IdentifierAttribute string
	// ReuseIdentifiers keeps an identifier already attached to a node instead
	// of assigning a fresh one, so unchanged nodes keep their ids across calls.
	ReuseIdentifiers bool
}

func DefaultConfig() Config {
	return Config{
		MaxDepth:            defaultMaxDepth,
		MaxTextLength:       defaultMaxTextLength,
		MaxAttributeLength:  defaultMaxAttributeLength,
		IdentifierAttribute: defaultIdentifierAttribute,
	}
}

// normalize fills zero values with defaults.
func (c Config) normalize() Config {
	if c.MaxDepth <= 0 {
		c.MaxDepth = defaultMaxDepth
	}
	if c.MaxTextLength <= 0 {
		c.MaxTextLength = defaultMaxTextLength
	}
	if c.MaxAttributeLength <= 0 {
		c.MaxAttributeLength = defaultMaxAttributeLength
	}
	if c.IdentifierAttribute == "" {
		c.IdentifierAttribute = defaultIdentifierAttribute
	}
	return c
}

var (
	actionableTags = map[string]bool{
		"a": true, "button": true, "input": true, "textarea": true, "select": true,
	}

	actionableRoles = map[string]bool{
		"button": true, "link": true, "checkbox": true, "radio": true, "textbox": true, "searchbox": true,
	}

	excludedTags = map[string]bool{
		"script": true, "style": true, "noscript": true, "meta": true, "link": true, "footer": true,
		"path": true, "g": true, "defs": true, "use": true, "symbol": true, "clippath": true,
	}

	// opaqueTags are never descended into.
	opaqueTags = map[string]bool{
		"svg": true, "iframe": true, "canvas": true,
	}

	formControlTags = map[string]bool{
		"input": true, "textarea": true, "select": true,
	}
)
