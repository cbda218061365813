// Package driven defines the secondary ports: interfaces the core uses to
// reach infrastructure (the remote note server, local storage, config,
// the markdown renderer). Adapters implement these interfaces.
package driven
