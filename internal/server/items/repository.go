package items

import "context"

// Repository persists per-owner item collections.
//
// ReplaceAll removes the rows identified by deleteIDs and writes items,
// already stamped with final timestamps by the caller. The relational
// implementation applies both inside one transaction; the partitioned
// implementation issues capacity-bounded batches (deletes first, then
// puts) and is therefore only best-effort atomic — callers must treat the
// operation as idempotent-on-retry.
type Repository interface {
	ListByOwner(ctx context.Context, ownerID string) ([]Item, error)
	ReplaceAll(ctx context.Context, ownerID string, deleteIDs []string, items []Item) error
}

// OwnerStore is the slice of the user store the item service needs for
// owner bookkeeping: auto-provisioning on first write and touching
// updated_at on every replace.
type OwnerStore interface {
	EnsureOwner(ctx context.Context, id string) error
}
