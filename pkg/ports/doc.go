/*
Package ports defines the driven ports (interfaces) for the funchain engine.

These interfaces decouple the evaluator from where chains come from and from the transports
that expose it, so the same engine runs behind the CLI, HTTP and MCP.

# Key Interfaces

  - ChainLoader: Produces a chain Definition (e.g., from Memory, a YAML/JSON file or Loam).
  - ChainEngine: The operations transports call (evaluate, edit, inspect).
*/
package ports
