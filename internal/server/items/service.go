// Package items implements the prioritized item store: ordered per-owner
// reads and the replace-all synchronization operation over either storage
// backend.
package items

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/server/config"
)

type Service struct {
	repo    Repository
	owners  OwnerStore
	timeout time.Duration
	now     func() time.Time
}

func NewService(repo Repository, owners OwnerStore, cfg *config.Config) *Service {
	return &Service{
		repo:    repo,
		owners:  owners,
		timeout: cfg.StoreTimeout,
		now:     time.Now,
	}
}

func (s *Service) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

// List returns the owner's items sorted by priority ascending, ties broken
// by creation time ascending (oldest-highest-priority first). An unknown
// owner yields an empty list, not an error; a backend failure is surfaced,
// never masked as an empty result.
func (s *Service) List(ctx context.Context, ownerID string) ([]Item, error) {

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	list, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	sortItems(list)
	return list, nil
}

// Replace reconciles the stored collection to exactly match submitted:
// after it returns, the store holds the submitted ids and nothing else for
// this owner. Ids that existed before keep their original CreatedAt; every
// written row gets UpdatedAt stamped now. The returned list is reloaded
// from the store so the caller always sees store-side truth.
//
// Concurrent Replace calls for the same owner are last-writer-wins at the
// batch level; per-owner mutual exclusion is deliberately not provided.
func (s *Service) Replace(ctx context.Context, ownerID string, submitted []Item) ([]Item, error) {

	if err := validateSubmitted(ownerID, submitted); err != nil {
		return nil, err
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	if err := s.owners.EnsureOwner(ctx, ownerID); err != nil {
		return nil, err
	}

	// The current set recovers CreatedAt for surviving ids and defines
	// what must be deleted.
	current, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	createdAt := make(map[string]time.Time, len(current))
	deleteIDs := make([]string, 0, len(current))
	for _, it := range current {
		createdAt[it.ID] = it.CreatedAt
		deleteIDs = append(deleteIDs, it.ID)
	}

	now := s.now().UTC()
	upserts := make([]Item, 0, len(submitted))
	for _, it := range submitted {
		if it.ID == "" {
			it.ID = uuid.NewString()
		}
		it.OwnerID = ownerID
		if orig, ok := createdAt[it.ID]; ok {
			it.CreatedAt = orig
		} else {
			it.CreatedAt = now
		}
		it.UpdatedAt = now
		upserts = append(upserts, it)
	}

	if err := s.repo.ReplaceAll(ctx, ownerID, deleteIDs, upserts); err != nil {
		return nil, err
	}

	result, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	sortItems(result)
	return result, nil
}

func validateSubmitted(ownerID string, submitted []Item) error {

	seen := make(map[string]struct{}, len(submitted))
	for _, it := range submitted {
		// The owner comes from the verified identity; a disagreeing id in
		// the payload is a cross-user write attempt.
		if it.OwnerID != "" && it.OwnerID != ownerID {
			return fmt.Errorf("%w: item %q does not belong to the authenticated user", common.ErrorValidation, it.ID)
		}
		if it.Priority < PriorityHigh || it.Priority > PriorityLow {
			return fmt.Errorf("%w: item %q has priority %d, want %d..%d",
				common.ErrorValidation, it.ID, it.Priority, PriorityHigh, PriorityLow)
		}
		if it.ID != "" {
			if _, dup := seen[it.ID]; dup {
				return fmt.Errorf("%w: duplicate item id %q", common.ErrorValidation, it.ID)
			}
			seen[it.ID] = struct{}{}
		}
	}

	return nil
}

func sortItems(list []Item) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Priority != list[j].Priority {
			return list[i].Priority < list[j].Priority
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
}
