package main

import (
	"fmt"

	"github.com/aretw0/funchain/internal/cli"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of funchain",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "funchain version %s\n", cli.VersionString())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
