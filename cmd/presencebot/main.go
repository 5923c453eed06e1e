// Package main is the entry point for the presencebot daemon.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"presencebot/internal/app"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var cfgPath string

	root := &cobra.Command{
		Use:           "presencebot",
		Short:         "Team presence API and task-board bot",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cfgPath)
		},
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config/config.yaml", "path to config file")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the bot and the presence API (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cfgPath)
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "register-commands",
		Short: "Upload the /task slash command to Discord",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.RegisterCommands(cfgPath)
		},
	})
	return root
}
