// Package driving defines the primary ports: the service interfaces the
// CLI and TUI adapters call into the core through.
package driving
