// Package driven defines the interfaces the core depends on: source
// adapters, configuration, and persistence collaborators. Adapters under
// internal/adapters/driven implement these interfaces.
package driven
