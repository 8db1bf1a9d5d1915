// Package driving defines the interfaces through which presentation
// collaborators (CLI, MCP server) drive the core services.
package driving
