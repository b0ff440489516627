package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/funchain"
)

// settleDelay lets bursts of file system events collapse into one reload.
const settleDelay = 100 * time.Millisecond

// RunWatch evaluates the chain, then reloads and re-evaluates it whenever its source
// changes, until ctx is cancelled. A reload that fails keeps the previous chain.
func RunWatch(ctx context.Context, engine *funchain.Engine, opts RunOptions, logger *slog.Logger) error {
	changes, err := engine.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watch mode: %w", err)
	}
	logger.Info("Starting Watcher", "path", opts.ChainPath)
	return watchLoop(ctx, engine, changes, opts, logger)
}

func watchLoop(ctx context.Context, engine *funchain.Engine, changes <-chan string, opts RunOptions, logger *slog.Logger) error {
	evaluate := func() error {
		res := engine.Evaluate(ctx, engine.InitialValue())
		if err := WriteResult(opts.Out, res, opts.JSON); err != nil {
			return err
		}
		if !opts.JSON {
			printSystemMessage(opts.Out, "Waiting for changes...")
		}
		return nil
	}

	if err := evaluate(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			logger.Info("Stopping watcher")
			return nil
		case event, ok := <-changes:
			if !ok {
				return nil
			}
			open := settle(changes, settleDelay)

			logger.Info("Change detected, triggering reload", "event", event)
			if !opts.JSON {
				printSystemMessage(opts.Out, "Change detected in '%s'.", event)
			}

			if err := engine.Reload(ctx); err != nil {
				logger.Error("Reload failed", "err", err)
				if !opts.JSON {
					printSystemMessage(opts.Out, "Reload failed, keeping previous chain: %v", err)
				}
			} else if err := evaluate(); err != nil {
				return err
			}

			if !open {
				return nil
			}
		}
	}
}

// settle drains events arriving within d. It reports false once changes is closed.
func settle(changes <-chan string, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	for {
		select {
		case _, ok := <-changes:
			if !ok {
				return false
			}
		case <-timer.C:
			return true
		}
	}
}
