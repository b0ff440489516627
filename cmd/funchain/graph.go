package main

import (
	"fmt"

	"github.com/aretw0/funchain/internal/cli"
	"github.com/aretw0/funchain/internal/presentation/graph"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [chain]",
	Short: "Export the chain as a Mermaid diagram",
	Long: `Outputs a Mermaid flowchart (graph TD) of the chain. With --trace the chain is
evaluated first and visited nodes are annotated with their outputs.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := runOptions(cmd, args)
		eng, err := cli.NewEngine(opts, cli.CreateLogger(opts.Debug))
		if err != nil {
			return err
		}

		var overlay *graph.GraphOverlay
		if trace, _ := cmd.Flags().GetBool("trace"); trace {
			overlay = graph.OverlayFromResult(eng.Evaluate(cmd.Context(), eng.InitialValue()))
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(eng.Inspect(), eng.EntryNode(), overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().Bool("trace", false, "Evaluate the chain and annotate the diagram with the run")
}
