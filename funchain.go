package funchain

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/aretw0/funchain/internal/runtime"
	"github.com/aretw0/funchain/internal/validator"
	"github.com/aretw0/funchain/pkg/adapters/loam"
	"github.com/aretw0/funchain/pkg/chain"
	"github.com/aretw0/funchain/pkg/domain"
	"github.com/aretw0/funchain/pkg/ports"
)

// Engine is the high-level entry point for the funchain library.
// It owns the loaded chain and wraps the internal runtime.
type Engine struct {
	runtime *runtime.Engine
	loader  ports.ChainLoader
	hooks   domain.LifecycleHooks
	logger  *slog.Logger

	entryOverride   string
	initialOverride *float64

	mu      sync.RWMutex
	chain   *chain.Chain
	initial float64

	Name string
}

var _ ports.ChainEngine = (*Engine)(nil)

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithLoader injects a custom ChainLoader, bypassing the default Loam initialization.
func WithLoader(l ports.ChainLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithEntryNode overrides the entry node of the loaded chain.
func WithEntryNode(nodeID string) Option {
	return func(e *Engine) {
		e.entryOverride = nodeID
	}
}

// WithInitialValue overrides the default initial value of the loaded chain.
func WithInitialValue(v float64) Option {
	return func(e *Engine) {
		e.initialOverride = &v
	}
}

// New initializes a new Engine and loads its chain.
// By default, it uses a Loam repository at the given path.
// If WithLoader option is provided, chainPath can be empty and Loam is skipped.
func New(chainPath string, opts ...Option) (*Engine, error) {
	eng := &Engine{}

	for _, opt := range opts {
		opt(eng)
	}

	if eng.loader == nil {
		if chainPath == "" {
			return nil, fmt.Errorf("chainPath is required when no custom loader is provided")
		}
		l, err := loam.Open(chainPath)
		if err != nil {
			return nil, err
		}
		eng.loader = l
		eng.Name = l.Name
	} else if chainPath != "" {
		eng.Name = filepath.Base(chainPath)
	}

	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	if err := eng.Reload(context.Background()); err != nil {
		return nil, err
	}

	if eng.Name != "" {
		eng.logger = eng.logger.With("chain", eng.Name)
	}

	eng.runtime = runtime.NewEngine(
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
	)

	return eng, nil
}

// Reload reads the chain from the loader again and replaces the current one.
// Equation edits made through SetEquation are discarded. On error the current chain is kept.
func (e *Engine) Reload(ctx context.Context) error {
	def, err := e.loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load chain: %w", err)
	}

	var opts []chain.Option
	entry := def.Entry
	if e.entryOverride != "" {
		entry = e.entryOverride
	}
	if entry != "" {
		opts = append(opts, chain.WithEntry(entry))
	}

	c, err := chain.New(def.Nodes, opts...)
	if err != nil {
		return fmt.Errorf("invalid chain: %w", err)
	}

	initial := def.InitialValue()
	if e.initialOverride != nil {
		initial = *e.initialOverride
	}

	e.mu.Lock()
	e.chain = c
	e.initial = initial
	if e.Name == "" {
		e.Name = def.Name
	}
	e.mu.Unlock()

	e.logger.Debug("chain loaded", "nodes", len(def.Nodes), "entry", c.Entry())
	return nil
}

func (e *Engine) current() *chain.Chain {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.chain
}

// Evaluate feeds initial through the chain from its entry node.
// It always returns a result; per-node failures are in the trace and a cycle is reported in
// Result.Err.
func (e *Engine) Evaluate(ctx context.Context, initial float64) *domain.Result {
	c := e.current()
	return e.runtime.Run(ctx, c.Snapshot(), c.Entry(), initial)
}

// SetEquation replaces a node's equation. Text with characters outside digits, x,
// + - * / ^ and whitespace is rejected with an error wrapping expr.ErrInvalidCharacter;
// an unknown node yields domain.ErrNodeNotFound. On error the chain is unchanged.
func (e *Engine) SetEquation(nodeID, equation string) error {
	if err := e.current().SetEquation(nodeID, equation); err != nil {
		return err
	}
	e.logger.Info("equation updated", "node_id", nodeID, "equation", equation)
	return nil
}

// Inspect returns the current nodes in authoring order.
func (e *Engine) Inspect() []domain.FunctionNode {
	return e.current().Nodes()
}

// Snapshot returns an immutable view of the current chain.
func (e *Engine) Snapshot() *chain.Snapshot {
	return e.current().Snapshot()
}

// EntryNode returns the node evaluation starts from.
func (e *Engine) EntryNode() string {
	return e.current().Entry()
}

// InitialValue returns the default initial value of the loaded chain.
func (e *Engine) InitialValue() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.initial
}

// ChainName returns the name of the loaded chain, taken from the loader or the chain path.
func (e *Engine) ChainName() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.Name
}

// Check runs the static validator and returns every finding.
func (e *Engine) Check() *validator.Report {
	c := e.current()
	return validator.Check(c.Snapshot(), c.Entry())
}

// Validate returns an error describing every error-severity finding of Check, or nil.
func (e *Engine) Validate() error {
	return e.Check().Err()
}

// Watch returns a channel that signals when the underlying chain source changes.
// Returns error if the loader does not support watching.
func (e *Engine) Watch(ctx context.Context) (<-chan string, error) {
	if w, ok := e.loader.(ports.Watchable); ok {
		return w.Watch(ctx)
	}
	return nil, fmt.Errorf("current loader does not support watching")
}

// Loader returns the underlying ChainLoader used by the engine.
func (e *Engine) Loader() ports.ChainLoader {
	return e.loader
}
