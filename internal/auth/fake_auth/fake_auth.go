// Package fake_auth is an auth.Authorizer for handler tests: it accepts
// two fixed tokens and rejects everything else.
package fake_auth

import (
	"context"

	"github.com/juanpablosotoc/zartex/internal/types"
)

const (
	AdminToken  = "test-admin-token"
	ClientToken = "test-client-token"
)

// FakeAuth resolves AdminToken to Admin and ClientToken to Client.
type FakeAuth struct {
	Admin  *types.Client
	Client *types.Client
}

func New() *FakeAuth {
	return &FakeAuth{
		Admin:  &types.Client{ID: 1, IsAdmin: true, Email: "admin@example.com", FirstName: "Admin", LastName: "User"},
		Client: &types.Client{ID: 2, Email: "shopper@example.com", FirstName: "Test", LastName: "Shopper"},
	}
}

func (f *FakeAuth) Authenticate(ctx context.Context, token string) (*types.Client, error) {
	switch token {
	case AdminToken:
		return f.Admin, nil
	case ClientToken:
		return f.Client, nil
	default:
		return nil, types.UnauthorizedError("Invalid token")
	}
}
