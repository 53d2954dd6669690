// Package store defines the persistence ports shared by the file and
// database backends. The cart contract is deliberately coarse: carts are
// loaded and saved whole, and serialization of concurrent writers is the
// cart engine's job, not the store's.
package store

import (
	"context"
	"errors"

	"github.com/minimarket/storefront/internal/models"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrUsernameTaken = errors.New("username already exists")
)

// Filter is conjunctive: every set field must match. Zero values mean
// "no constraint", which is why the price bounds are pointers.
type Filter struct {
	Category string
	Query    string
	MinPrice *float64
	MaxPrice *float64
}

// ItemPatch carries a partial item update; nil fields are left alone.
type ItemPatch struct {
	Name        *string  `json:"name"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	Description *string  `json:"description"`
	Image       *string  `json:"image"`
}

type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

type ItemStore interface {
	ListItems(ctx context.Context, f Filter) ([]models.Item, error)
	GetItem(ctx context.Context, id string) (*models.Item, error)
	CreateItem(ctx context.Context, it *models.Item) error
	UpdateItem(ctx context.Context, id string, patch ItemPatch) (*models.Item, error)
	DeleteItem(ctx context.Context, id string) (*models.Item, error)
}

type CartStore interface {
	// LoadCart returns an empty cart for an unknown user, never an error.
	LoadCart(ctx context.Context, userID string) ([]models.CartEntry, error)
	// SaveCart overwrites the user's whole cart.
	SaveCart(ctx context.Context, userID string, entries []models.CartEntry) error
}
