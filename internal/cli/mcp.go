package cli

import (
	"dom-snapshot/internal/adapter/mcpapi"

	"github.com/spf13/cobra"
)

func newMCPCommand(root *rootOptions) *cobra.Command {
	var (
		transport string
		port      int
		noBrowser bool
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Run as an MCP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			if transport != "" {
				cfg.MCP.Transport = transport
			}
			if port != 0 {
				cfg.MCP.Port = port
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			c, err := root.container(cmd.Context(), cfg, "mcp", !noBrowser)
			if err != nil {
				return err
			}
			defer c.Close()

			srv, err := mcpapi.NewServer(mcpapi.Config{
				Version:   cmd.Root().Version,
				Transport: cfg.MCP.Transport,
				Port:      cfg.MCP.Port,
			}, c.Tools, c.Dispatcher, c.Logger)
			if err != nil {
				return err
			}
			return srv.Serve(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&transport, "transport", "", "stdio or http, overrides MCP_TRANSPORT")
	cmd.Flags().IntVar(&port, "port", 0, "Port for the http transport, overrides MCP_PORT")
	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "Skip the browser; only extract_html will succeed")
	return cmd
}
