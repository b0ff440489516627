package main

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aretw0/funchain/internal/cli"
	"github.com/aretw0/funchain/internal/logging"
	"github.com/aretw0/funchain/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp [chain]",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts funchain as an MCP Server so agents can evaluate the chain, inspect it
and edit equations as tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := runOptions(cmd, args)
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		// Logs go to stderr so they never corrupt JSON-RPC on stdout.
		level := slog.LevelInfo
		if opts.Debug {
			level = slog.LevelDebug
		}
		logger := logging.New(level)

		eng, err := cli.NewEngine(opts, logger)
		if err != nil {
			return err
		}

		srv := mcp.NewServer(eng, mcp.WithLogger(logger), mcp.WithValidator(eng.Check))

		switch transport {
		case "stdio":
			logger.Info("Starting funchain MCP Server (Stdio)...")
			return srv.ServeStdio()
		case "sse":
			sigCtx := cli.NewSignalContext(cmd.Context())
			defer sigCtx.Cancel()

			if err := srv.ServeSSE(sigCtx, port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			logger.Info("MCP Server stopped gracefully")
			return nil
		default:
			return errors.New("unknown transport " + transport + ", supported: stdio, sse")
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
}
