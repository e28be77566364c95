package users

import (
	"context"
)

// Repository persists user accounts.
//
// Create must fail with common.ErrorAlreadyExists when the username is
// taken, enforced atomically by the backend (uniqueness constraint or
// conditional write), never by a check-then-insert sequence.
type Repository interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)

	// ExistsByUsername reports whether an account with this username is
	// already registered. Advisory only: Create stays the atomic guard
	// against duplicate registration.
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// EnsureOwner creates the user row for id if it does not exist yet
	// (first item write for a legacy owner) and advances updated_at
	// either way.
	EnsureOwner(ctx context.Context, id string) error
}
