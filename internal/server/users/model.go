package users

import "time"

// User is a registered account. ID equals Username in the current design:
// the value returned to clients as user.id is the username. The two are
// stored separately so they can be decoupled later without an API change.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
