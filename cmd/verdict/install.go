package main

import (
	"github.com/sandevgo/verdictbot/internal/config"
	"github.com/sandevgo/verdictbot/internal/service/installer"
	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Interactive setup wizard",
	Long:  `Walks through provider, model and transport configuration and writes the runtime .env file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return installer.Run(config.GetRuntimePath())
	},
}

func init() {
	rootCmd.AddCommand(installCmd)
}
