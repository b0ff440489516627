package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/funchain"
	"github.com/aretw0/funchain/internal/cli"
	"github.com/aretw0/funchain/internal/logging"
	httpAdapter "github.com/aretw0/funchain/pkg/adapters/http"
	"github.com/aretw0/funchain/pkg/adapters/memory"
	"github.com/aretw0/funchain/pkg/adapters/redis"
	"github.com/aretw0/funchain/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve [chain]",
	Short: "Start the HTTP server",
	Long: `Serves the chain over a JSON API: inspect nodes, edit equations, evaluate,
browse recent runs, stream runs over SSE and scrape Prometheus metrics.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := runOptions(cmd, args)
		port, _ := cmd.Flags().GetString("port")
		watch, _ := cmd.Flags().GetBool("watch")
		capacity, _ := cmd.Flags().GetInt("history")
		redisURL, _ := cmd.Flags().GetString("redis")

		// The server always logs; --debug only lowers the level.
		level := slog.LevelInfo
		if opts.Debug {
			level = slog.LevelDebug
		}
		logger := logging.New(level)

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics := observability.NewMetrics(reg)

		eng, err := cli.NewEngine(opts, logger,
			funchain.WithLifecycleHooks(metrics.Hooks()),
			funchain.WithLifecycleHooks(observability.LoggingHooks(logger)),
		)
		if err != nil {
			return err
		}

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		handlerOpts := []httpAdapter.Option{
			httpAdapter.WithResultStore(memory.NewStore(capacity)),
			httpAdapter.WithMetrics(reg),
			httpAdapter.WithLogger(logger),
		}
		if redisURL != "" {
			relay, err := redis.New(redisURL)
			if err != nil {
				return err
			}
			defer relay.Close()
			if err := relay.Ping(sigCtx); err != nil {
				return err
			}
			handlerOpts = append(handlerOpts, httpAdapter.WithEventBus(relay))
			logger.Info("Relaying run events through Redis")
		}

		handler := httpAdapter.NewHandler(eng, handlerOpts...)

		srv := &http.Server{
			Addr:              ":" + port,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		if watch {
			changes, err := eng.Watch(sigCtx)
			if err != nil {
				return fmt.Errorf("watch mode: %w", err)
			}
			go func() {
				for event := range changes {
					if err := eng.Reload(sigCtx); err != nil {
						logger.Error("Reload failed", "event", event, "err", err)
						continue
					}
					logger.Info("Chain reloaded", "event", event)
				}
			}()
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			fmt.Fprintf(cmd.OutOrStdout(), "Starting funchain server on %s\n", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case <-sigCtx.Done():
			fmt.Fprintf(cmd.OutOrStdout(), "\nStart shutdown... Signal: %v\n", sigCtx.Signal())

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				fmt.Fprintf(cmd.OutOrStdout(), "Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				return srv.Close()
			}
			fmt.Fprintln(cmd.OutOrStdout(), "funchain server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().BoolP("watch", "w", false, "Reload the chain whenever its source changes")
	serveCmd.Flags().Int("history", memory.DefaultCapacity, "Number of recent runs kept for /runs")
	serveCmd.Flags().String("redis", "", "Relay run events between replicas through Redis Pub/Sub at this redis:// URL")
}
