package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"dom-snapshot/internal/config"
	"dom-snapshot/internal/di"
	"dom-snapshot/internal/infrastructure/env"

	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags.
var Version = "dev"

type rootOptions struct {
	configPath string
	format     string
	pretty     bool
	logLevel   string
}

// NewRootCommand builds the snapshot command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "snapshot",
		Version:       Version,
		Short:         "Describe web pages as element lists that agents can act on",
		Long:          "snapshot extracts the visible elements of a page, labels each with an id attribute and lets agents click and type by id.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch Format(opts.format) {
			case FormatJSON, FormatYAML:
				return nil
			default:
				return fmt.Errorf("unsupported format: %s (use json or yaml)", opts.format)
			}
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML config file")
	root.PersistentFlags().StringVar(&opts.format, "format", string(FormatJSON), "Output format: json or yaml")
	root.PersistentFlags().BoolVar(&opts.pretty, "pretty", false, "Indent JSON output")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Override LOG_LEVEL")

	root.AddCommand(
		newFileCommand(opts),
		newURLCommand(opts),
		newServeCommand(opts),
		newMCPCommand(opts),
	)
	return root
}

// Execute runs the command tree and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.configPath, env.NewEnvService())
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	return cfg, nil
}

func (o *rootOptions) container(ctx context.Context, cfg *config.Config, name string, withBrowser bool) (*di.Container, error) {
	return di.NewContainer(ctx, cfg, di.Options{WithBrowser: withBrowser, LogName: name})
}

func (o *rootOptions) printer(cmd *cobra.Command) *Printer {
	return &Printer{Out: cmd.OutOrStdout(), Format: Format(o.format), Pretty: o.pretty}
}
