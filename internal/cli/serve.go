package cli

import (
	"dom-snapshot/internal/adapter/httpapi"

	"github.com/spf13/cobra"
)

func newServeCommand(root *rootOptions) *cobra.Command {
	var (
		addr    string
		browser bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve extraction and the tools over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.HTTP.Addr = addr
			}

			c, err := root.container(cmd.Context(), cfg, "serve", browser)
			if err != nil {
				return err
			}
			defer c.Close()

			srv := httpapi.NewServer(httpapi.Config{
				Addr:      cfg.HTTP.Addr,
				AccessLog: true,
				JSONLogs:  cfg.Log.Env != "dev",
			}, c.Session, c.Tools, c.Dispatcher, c.Logger)
			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address, overrides HTTP_ADDR")
	cmd.Flags().BoolVar(&browser, "browser", false, "Launch a browser so the page tools work")
	return cmd
}
