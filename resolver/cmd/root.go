package cmd

import "github.com/spf13/cobra"

// Apply adds the resolver commands to the provided root command
func Apply(rootCmd *cobra.Command) {
	rootCmd.AddCommand(resolveCmd)
}
