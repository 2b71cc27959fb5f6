package cli

import (
	"github.com/spf13/cobra"
)

func newURLCommand(root *rootOptions) *cobra.Command {
	var (
		driver    string
		headless  bool
		annotated bool
	)

	cmd := &cobra.Command{
		Use:   "url <url>",
		Short: "Open a page in a browser and extract its elements",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			if driver != "" {
				cfg.Driver = driver
			}
			if cmd.Flags().Changed("headless") {
				cfg.Browser.Headless = headless
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			c, err := root.container(cmd.Context(), cfg, "url", true)
			if err != nil {
				return err
			}
			defer c.Close()

			if err := c.Session.Navigate(cmd.Context(), args[0]); err != nil {
				return err
			}
			res, err := c.Session.GetDOM(cmd.Context())
			if err != nil {
				return err
			}
			if annotated {
				body, err := c.Session.AnnotatedHTML(cmd.Context())
				if err != nil {
					return err
				}
				return root.printer(cmd).Print(annotatedOutput{Result: res, Annotated: body})
			}
			return root.printer(cmd).Print(res)
		},
	}

	cmd.Flags().StringVar(&driver, "driver", "", "Browser driver: rod, chromedp or playwright")
	cmd.Flags().BoolVar(&headless, "headless", true, "Run the browser without a window")
	cmd.Flags().BoolVar(&annotated, "annotated", false, "Also print the page body annotated with the assigned ids")
	return cmd
}
