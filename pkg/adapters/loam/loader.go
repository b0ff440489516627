// Package loam loads a chain from a directory of documents managed by Loam.
//
// Each Markdown (or JSON/YAML) document is one function node; the node id is the
// frontmatter "id" or, failing that, the file name without its extension.
package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/funchain/pkg/domain"
	"github.com/aretw0/funchain/pkg/ports"
	"github.com/aretw0/loam"
)

// Loader adapts the Loam library to the ports.ChainLoader interface.
type Loader struct {
	Repo *loam.TypedRepository[NodeMetadata]
	Name string
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[NodeMetadata]) *Loader {
	return &Loader{
		Repo: repo,
	}
}

// Open initializes a strict, read-only Loam repository at dir and wraps it.
func Open(dir string) (*Loader, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	// Strict mode keeps numeric frontmatter values consistent across Markdown and JSON.
	// Read-only stops Loam from creating its sandbox; the engine never writes chains back.
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}

	l := New(loam.NewTypedRepository[NodeMetadata](repo))
	l.Name = filepath.Base(absPath)
	return l, nil
}

// Load lists every document and builds the chain, ordered by node id.
func (l *Loader) Load(ctx context.Context) (ports.Definition, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return ports.Definition{}, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string, len(docs))
	nodes := make([]domain.FunctionNode, 0, len(docs))
	var entries []string

	for _, doc := range docs {
		// Use the ID from metadata if available, otherwise filename ID
		rawID := doc.Data.ID
		if rawID == "" {
			rawID = doc.ID
		}
		id := trimExtension(rawID)

		if existingPath, ok := seen[id]; ok {
			return ports.Definition{}, fmt.Errorf("collision detected: ID '%s' is defined in both '%s' and '%s'", id, existingPath, doc.ID)
		}
		seen[id] = doc.ID

		nodes = append(nodes, domain.FunctionNode{
			ID:       id,
			Equation: strings.TrimSpace(doc.Data.Equation),
			Next:     trimExtension(doc.Data.Next),
		})
		if doc.Data.Entry {
			entries = append(entries, id)
		}
	}

	if len(entries) > 1 {
		sort.Strings(entries)
		return ports.Definition{}, fmt.Errorf("multiple entry nodes: %s", strings.Join(entries, ", "))
	}

	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })

	def := ports.Definition{Name: l.Name, Nodes: nodes}
	if len(entries) == 1 {
		def.Entry = entries[0]
	}
	return def, nil
}

func trimExtension(id string) string {
	if id == "" {
		return ""
	}
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}

// Watch implements ports.Watchable.
func (l *Loader) Watch(ctx context.Context) (<-chan string, error) {
	events, err := l.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan string, 1)

	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				select {
				case ch <- evt.ID:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}
