// Package domain contains the core business entities for unified search:
// the canonical search result, search requests and responses, service
// connections, and the remote tool catalog. It has no dependencies on
// adapters or external services.
package domain
