// Package store defines the persistence interface shared by the Postgres
// implementation and the in-memory test double.
package store

import (
	"context"
	"errors"

	"github.com/juanpablosotoc/zartex/internal/types"
)

var (
	// ErrNotFound is returned when no row matches the lookup.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEmail is returned when client registration hits the
	// unique email constraint.
	ErrDuplicateEmail = errors.New("email already registered")
)

// Store is the full persistence surface. It is constructed once at startup
// and injected into handlers; there is no package-level instance.
type Store interface {
	// Images. InsertImage commits a complete record: all three URLs must
	// be non-empty, partial records are never written.
	InsertImage(ctx context.Context, smallURL, mediumURL, largeURL string) (*types.ImageRecord, error)
	GetImage(ctx context.Context, id int64) (*types.ImageRecord, error)
	DeleteImage(ctx context.Context, id int64) error

	// Clients
	CreateClient(ctx context.Context, client *types.Client) (*types.Client, error)
	GetClient(ctx context.Context, id int64) (*types.Client, error)
	GetClientByEmail(ctx context.Context, email string) (*types.Client, error)
	UpdateClient(ctx context.Context, id int64, patch types.ClientPatch) (*types.Client, error)
	DeleteClient(ctx context.Context, id int64) error

	// Addresses, scoped to their owning client
	CreateAddress(ctx context.Context, address *types.Address) (*types.Address, error)
	ListAddresses(ctx context.Context, clientID int64) ([]*types.Address, error)
	GetAddress(ctx context.Context, clientID, id int64) (*types.Address, error)
	DeleteAddress(ctx context.Context, clientID, id int64) error

	// Products
	CreateProduct(ctx context.Context, product *types.Product) (*types.Product, error)
	ListProducts(ctx context.Context, filter types.ProductFilter, skip, limit int) ([]*types.Product, error)
	GetProduct(ctx context.Context, id int64) (*types.Product, error)
	UpdateProduct(ctx context.Context, id int64, patch types.ProductPatch) (*types.Product, error)
	DeleteProduct(ctx context.Context, id int64) error

	Close() error
}
