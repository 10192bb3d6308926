// Package orchestrator wires the layout → canvas → transformer → renderer
// pipeline, providing dependency injection friendly helpers for consumers
// that prefer a single entry point.
package orchestrator
