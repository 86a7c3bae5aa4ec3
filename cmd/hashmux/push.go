package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/miladsoleymani/hashmux/location"
)

func newPushCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "push <url>",
		Short: "Publish a navigation on the configured broker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, err := location.Open(c.cfg.Location.Transport, c.cfg.LocationConfig(),
				location.WithProviderLogger(c.logger.WithPrefix("hashmux/location")))
			if err != nil {
				return err
			}
			defer provider.Close()

			if err := provider.PushURL(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pushed %s\n", provider.CurrentFragment())
			return nil
		},
	}
}
