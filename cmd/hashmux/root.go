package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/miladsoleymani/hashmux/internal/config"
)

// cli holds state shared by the subcommands.
type cli struct {
	cfgFile string
	verbose bool
	cfg     *config.Config
	logger  *log.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "hashmux",
		Short: "A fragment router for hash-based navigation",
		Long: `hashmux matches "#/path?query" fragments against route patterns.

Examples:
  hashmux match '#/user/42?tab=posts'   Show which routes a fragment reaches
  hashmux listen                        Route navigations published on the broker
  hashmux push 'http://app/#/orders'    Publish a navigation`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.init(cmd.ErrOrStderr())
		},
	}

	root.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (yaml, json or toml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newMatchCmd(c))
	root.AddCommand(newListenCmd(c))
	root.AddCommand(newPushCmd(c))
	return root
}

func (c *cli) init(w io.Writer) error {
	cfg, err := config.Load(c.cfgFile)
	if err != nil {
		return err
	}
	c.cfg = cfg

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if c.verbose {
		level = log.DebugLevel
	}
	c.logger = log.NewWithOptions(w, log.Options{
		Prefix:          "hashmux",
		Level:           level,
		ReportTimestamp: true,
	})
	return nil
}
