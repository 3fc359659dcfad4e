package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"taskpulse/internal/app"
)

func newSweepCmd() *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run one reminder pass and exit (for cron-style deployments)",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch kind {
			case "explicit", "due", "all":
			default:
				return fmt.Errorf("invalid --kind %q: must be explicit, due or all", kind)
			}
			return app.RunSweep(kind)
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "all", "which pass to run: explicit, due or all")

	return cmd
}
