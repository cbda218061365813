// Package services implements the core application services: the editor
// session controller, the autosave state machine, scroll synchronisation
// and note/auth management. Services depend only on domain types and
// ports; adapters are injected through constructors.
package services
