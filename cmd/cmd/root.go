package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ostafen/lmprobe/internal/env"
)

func Execute() error {
	rootCmd := &cobra.Command{
		Use:   env.AppName,
		Short: env.AppName + " - n-gram language model probe-map tool",
	}

	rootCmd.AddCommand(DefineBuildCommand())
	rootCmd.AddCommand(DefineLookupCommand())
	rootCmd.AddCommand(DefineInfoCommand())
	rootCmd.AddCommand(DefineVersionCommand())

	return rootCmd.Execute()
}
