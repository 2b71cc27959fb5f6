package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

type Printer struct {
	Out    io.Writer
	Format Format
	Pretty bool
}

// Print serializes v in the configured format.
func (p *Printer) Print(v interface{}) error {
	switch p.Format {
	case FormatJSON, "":
		enc := json.NewEncoder(p.Out)
		if p.Pretty {
			enc.SetIndent("", "  ")
		}
		enc.SetEscapeHTML(false)
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(p.Out)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("yaml encode: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format: %s", p.Format)
	}
}
