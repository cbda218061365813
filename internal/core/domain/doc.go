// Package domain contains the core business entities and rules for mown.
// It has no dependencies on other layers and holds the note record,
// the permission model, and the editor session value types.
package domain
