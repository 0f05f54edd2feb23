package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/deusflow/airadar/internal/app"
	"github.com/deusflow/airadar/internal/config"
	"github.com/deusflow/airadar/internal/logger"
	"github.com/spf13/cobra"
)

type options struct {
	port      int
	feedsPath string
	debug     bool
	cfg       *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "airadar",
		Short: "AI news radar aggregating RSS and Atom feeds",
		Long: `airadar fetches a fixed set of AI, graphic design and web design feeds,
classifies every entry and serves the result as five topic buckets.

Example usage:
  airadar serve                 # Start the HTTP API on $PORT (default 8080)
  airadar serve --port 9000     # Override the port
  airadar fetch --pretty        # Aggregate once and print the radar as JSON`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	root.PersistentFlags().StringVar(&opts.feedsPath, "feeds", "", "feeds YAML file (overrides FEEDS_CONFIG_PATH)")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging (overrides DEBUG)")

	root.AddCommand(newServeCmd(opts), newFetchCmd(opts))
	return root
}

// load reads the environment, applies flag overrides and sets up logging.
func (o *options) load(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.Port = o.port
	}
	if flags.Changed("feeds") {
		cfg.FeedsConfigPath = o.feedsPath
	}
	if flags.Changed("debug") {
		cfg.Debug = o.debug
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger.Init(logger.Options{Debug: cfg.Debug, Format: cfg.LogFormat, Output: os.Stderr})
	o.cfg = cfg
	return nil
}

func newServeCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the radar API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := app.New(ctx, opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			return a.Serve(ctx)
		},
	}
	cmd.Flags().IntVar(&opts.port, "port", 8080, "listen port (overrides PORT)")
	return cmd
}

func newFetchCmd(opts *options) *cobra.Command {
	var pretty, brief bool

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Aggregate all feeds once and print the radar as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := app.New(ctx, opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			r := a.Aggregator.Aggregate(ctx)

			enc := json.NewEncoder(cmd.OutOrStdout())
			if pretty {
				enc.SetIndent("", "  ")
			}
			if !brief {
				return enc.Encode(r)
			}

			b, err := a.Briefer.Brief(ctx, r)
			if err != nil {
				return err
			}
			return enc.Encode(b)
		},
	}
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent the JSON output")
	cmd.Flags().BoolVar(&brief, "brief", false, "print the generated brief instead of the radar")
	return cmd
}
