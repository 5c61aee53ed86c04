// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import "time"

// User represents a registered account. Accounts start out unconfirmed and are
// flipped to confirmed once the owner redeems a confirmation token sent to
// their email address. Users are never hard-deleted.
type User struct {
	ID           int64     // Auto-incremented identifier.
	Name         string    // Display name.
	Email        string    // Login identifier, unique across all users.
	PasswordHash string    // One-way bcrypt hash of the password. Never serialized.
	Confirmed    bool      // Whether the email address has been proven.
	CreatedAt    time.Time // Timestamp of account creation.
	UpdatedAt    time.Time // Timestamp of the last modification.
}
