package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

type annotatedOutput struct {
	Result    interface{} `json:"result" yaml:"result"`
	Annotated string      `json:"annotated_html" yaml:"annotated_html"`
}

func newFileCommand(root *rootOptions) *cobra.Command {
	var (
		start     int
		annotated bool
	)

	cmd := &cobra.Command{
		Use:   "file <path|->",
		Short: "Extract elements from a static HTML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			html, err := readSource(cmd, args[0])
			if err != nil {
				return err
			}

			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			c, err := root.container(cmd.Context(), cfg, "file", false)
			if err != nil {
				return err
			}
			defer c.Close()

			res, body, err := c.Session.ExtractHTML(cmd.Context(), html, start)
			if err != nil {
				return err
			}
			if annotated {
				return root.printer(cmd).Print(annotatedOutput{Result: res, Annotated: body})
			}
			return root.printer(cmd).Print(res)
		},
	}

	cmd.Flags().IntVar(&start, "start", 1, "First id to assign")
	cmd.Flags().BoolVar(&annotated, "annotated", false, "Also print the body annotated with the assigned ids")
	return cmd
}

func readSource(cmd *cobra.Command, path string) (string, error) {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return "", fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}
