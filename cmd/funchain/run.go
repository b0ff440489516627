package main

import (
	"github.com/aretw0/funchain/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [chain]",
	Short: "Evaluate the chain and print the trace",
	Long:  `Feeds the initial value through the chain from its entry node and prints every step.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := runOptions(cmd, args)
		opts.JSON, _ = cmd.Flags().GetBool("json")
		opts.Watch, _ = cmd.Flags().GetBool("watch")
		opts.Interactive, _ = cmd.Flags().GetBool("interactive")
		opts.In = cmd.InOrStdin()

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		return cli.Execute(sigCtx, opts)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("json", false, "Print the run as JSON")
	runCmd.Flags().BoolP("watch", "w", false, "Re-evaluate whenever the chain source changes")
	runCmd.Flags().BoolP("interactive", "i", false, "Edit equations and re-evaluate from a prompt")

	// 'run' is the default when no command is provided.
	rootCmd.Args = runCmd.Args
	rootCmd.RunE = runCmd.RunE
	rootCmd.Flags().AddFlagSet(runCmd.Flags())
}
