package items

import "time"

// Priority values, highest first.
const (
	PriorityHigh   = 1
	PriorityMedium = 2
	PriorityLow    = 3
)

// Item is a single prioritized list entry. IDs are caller-generated and
// globally unique; OwnerID scopes the item to its user's partition.
// CreatedAt is immutable once assigned: a replace that reuses an id keeps
// the original CreatedAt and only advances UpdatedAt.
type Item struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Priority  int       `json:"priority"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
