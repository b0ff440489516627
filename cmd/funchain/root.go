package main

import (
	"fmt"
	"os"

	"github.com/aretw0/funchain/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "funchain",
	Short: "funchain evaluates chains of single-variable functions",
	Long: `funchain feeds a number through a chain of functions of x, each linked to its
successor, and reports every intermediate value. Without --chain the built-in
five-node demo chain is used.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("chain", "c", "", "Chain file (.yaml, .yml, .json) or directory of node files")
	rootCmd.PersistentFlags().String("entry", "", "Override the entry node")
	rootCmd.PersistentFlags().Float64("initial", 0, "Override the initial value of x")
	rootCmd.PersistentFlags().Bool("debug", false, "Log engine activity to stderr")
}

// runOptions reads the persistent flags shared by every command.
func runOptions(cmd *cobra.Command, args []string) cli.RunOptions {
	flags := cmd.Flags()
	opts := cli.RunOptions{Out: cmd.OutOrStdout()}
	opts.ChainPath, _ = flags.GetString("chain")
	if !flags.Changed("chain") && len(args) > 0 {
		opts.ChainPath = args[0]
	}
	opts.Entry, _ = flags.GetString("entry")
	opts.Debug, _ = flags.GetBool("debug")
	if flags.Changed("initial") {
		initial, _ := flags.GetFloat64("initial")
		opts.Initial = &initial
	}
	return opts
}
