package main

import (
	"fmt"

	"github.com/aretw0/funchain/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [chain]",
	Short: "Check the chain for consistency",
	Long: `Checks every equation and follows the successor links from the entry node,
reporting malformed equations, missing successors, cycles and unreachable nodes.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := runOptions(cmd, args)
		eng, err := cli.NewEngine(opts, cli.CreateLogger(opts.Debug))
		if err != nil {
			return err
		}

		report := eng.Check()
		out := cmd.OutOrStdout()
		for _, issue := range report.Issues {
			fmt.Fprintln(out, issue)
		}
		if err := report.Err(); err != nil {
			return fmt.Errorf("validation failed: %d errors", len(report.Errors()))
		}
		fmt.Fprintln(out, "Chain is valid! ✅")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
