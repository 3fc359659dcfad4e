package main

import (
	"github.com/spf13/cobra"

	"taskpulse/internal/app"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the API server with the background reminder scheduler",
		Run: func(cmd *cobra.Command, args []string) {
			app.Run()
		},
	}
}
