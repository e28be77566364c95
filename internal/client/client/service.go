// Package client implements the HTTP transport the CLI uses to talk to the
// todokeeper server.
package client

import (
	"context"

	"github.com/dmitrijs2005/todokeeper/internal/client/models"
)

type Client interface {
	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) error
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*models.User, error)
	List(ctx context.Context) ([]models.Item, error)
	Save(ctx context.Context, items []models.Item) ([]models.Item, error)
	Export(ctx context.Context) (string, error)
}
