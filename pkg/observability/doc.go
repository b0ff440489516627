/*
Package observability provides lifecycle hooks for monitoring the funchain engine.

Metrics exports Prometheus counters and histograms for node evaluations and runs, and
LoggingHooks writes the same events to a structured logger. Both return
domain.LifecycleHooks and can be combined with LifecycleHooks.Merge.
*/
package observability
