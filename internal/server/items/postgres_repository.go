package items

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/dbx"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]Item, error) {

	query :=
		`SELECT id, owner_id, priority, text, created_at, updated_at FROM items
		 WHERE owner_id = $1
		 `

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("select items: %w: %v", common.ErrorUnavailable, err)
	}
	defer rows.Close()

	result := []Item{}
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.OwnerID, &it.Priority, &it.Text, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan item: %w: %v", common.ErrorUnavailable, err)
		}
		result = append(result, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read items: %w: %v", common.ErrorUnavailable, err)
	}

	return result, nil
}

// ReplaceAll deletes the owner's rows and inserts the new set inside a
// single transaction, so concurrent readers see either the old or the new
// collection, never a mix. deleteIDs is unused here: the blanket per-owner
// delete covers it and keeps the statement count flat.
func (r *PostgresRepository) ReplaceAll(ctx context.Context, ownerID string, deleteIDs []string, items []Item) error {

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {

		if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE owner_id = $1`, ownerID); err != nil {
			return fmt.Errorf("delete items: %w", err)
		}

		query :=
			`INSERT INTO items (id, owner_id, priority, text, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 `

		for _, it := range items {
			if _, err := tx.ExecContext(ctx, query,
				it.ID, it.OwnerID, it.Priority, it.Text, it.CreatedAt, it.UpdatedAt); err != nil {
				return fmt.Errorf("insert item %s: %w", it.ID, err)
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("replace items: %w: %v", common.ErrorUnavailable, err)
	}

	return nil
}
