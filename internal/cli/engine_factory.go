package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/funchain"
	"github.com/aretw0/funchain/pkg/adapters/file"
	"github.com/aretw0/funchain/pkg/adapters/loam"
	"github.com/aretw0/funchain/pkg/adapters/memory"
	"github.com/aretw0/funchain/pkg/ports"
)

// NewEngine initializes a funchain engine with standard CLI conventions.
// Extra options are applied after the ones derived from opts.
func NewEngine(opts RunOptions, logger *slog.Logger, extra ...funchain.Option) (*funchain.Engine, error) {
	loader, err := loaderFor(opts.ChainPath)
	if err != nil {
		return nil, err
	}

	engineOpts := []funchain.Option{
		funchain.WithLoader(loader),
		funchain.WithLogger(logger),
	}
	if opts.Debug {
		engineOpts = append(engineOpts, funchain.WithLifecycleHooks(createDebugHooks(logger)))
	}
	if opts.Entry != "" {
		engineOpts = append(engineOpts, funchain.WithEntryNode(opts.Entry))
	}
	if opts.Initial != nil {
		engineOpts = append(engineOpts, funchain.WithInitialValue(*opts.Initial))
	}
	engineOpts = append(engineOpts, extra...)

	engine, err := funchain.New(opts.ChainPath, engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, nil
}

// loaderFor picks the chain source for a path.
// An empty path selects the built-in seed chain, a .yaml/.yml/.json file a single
// document, and a directory a Loam repository with one file per node.
func loaderFor(path string) (ports.ChainLoader, error) {
	if path == "" {
		return memory.Seed(), nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("chain source %s: %w", path, err)
	}
	if info.IsDir() {
		return loam.Open(path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return file.New(path), nil
	}
	return nil, fmt.Errorf("chain source %s: unsupported file type %q", path, filepath.Ext(path))
}
