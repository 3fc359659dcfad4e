package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "taskpulse",
		Short: "Taskpulse is the task notification and reminder dispatch service",
	}
	cmd.Version = version

	cmd.AddCommand(
		newServeCmd(),
		newSweepCmd(),
	)

	return cmd
}
