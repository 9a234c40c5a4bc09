// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"
)

// Account is the central entity of the identity service. One record per
// registered person; records are soft-deleted, never physically removed.
type Account struct {
	ID           uint      // Unique identifier assigned by the store on creation, immutable afterwards.
	Name         string    // Display name, non-empty, at most 100 characters.
	Email        string    // Login identifier, normalized to lowercase, unique among active accounts.
	PasswordHash string    // Opaque bcrypt digest. Never the plaintext password.
	IsActive     bool      // True on creation, flipped to false by soft deletion.
	CreatedAt    time.Time // Set once at creation.
	UpdatedAt    time.Time // Refreshed on every mutation; always >= CreatedAt.
}
