package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/juanpablosotoc/zartex/internal/store"
	"github.com/juanpablosotoc/zartex/internal/types"
)

type fakeClients struct {
	clients map[int64]*types.Client
}

func (f *fakeClients) GetClient(ctx context.Context, id int64) (*types.Client, error) {
	client, ok := f.clients[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return client, nil
}

func TestTokenRoundTrip(t *testing.T) {
	shopper := &types.Client{ID: 7, Email: "shopper@example.com"}
	jwt := NewJWT([]byte("test-secret"), time.Hour, &fakeClients{
		clients: map[int64]*types.Client{7: shopper},
	})

	token, err := jwt.IssueToken(7)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	client, err := jwt.Authenticate(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, shopper.ID, client.ID)
	require.Equal(t, shopper.Email, client.Email)
}

func TestAuthenticateRejections(t *testing.T) {
	jwt := NewJWT([]byte("test-secret"), time.Hour, &fakeClients{
		clients: map[int64]*types.Client{7: {ID: 7}},
	})

	// token for a client that no longer exists
	orphaned, err := jwt.IssueToken(99)
	require.NoError(t, err)

	// token signed with a different key
	other := NewJWT([]byte("other-secret"), time.Hour, &fakeClients{})
	forged, err := other.IssueToken(7)
	require.NoError(t, err)

	// token that expired in the past
	expired, err := NewJWT([]byte("test-secret"), -time.Minute, &fakeClients{}).IssueToken(7)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"empty", ""},
		{"unknown client", orphaned},
		{"wrong key", forged},
		{"expired", expired},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := jwt.Authenticate(context.Background(), tc.token)
			require.Error(t, err)
			require.True(t, types.IsKind(err, types.KindUnauthorized))

			var appErr *types.Error
			require.ErrorAs(t, err, &appErr)
			require.Equal(t, "Invalid token", appErr.Detail)
		})
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("swordfish-42")
	require.NoError(t, err)
	require.NotEqual(t, "swordfish-42", hash)

	require.True(t, CheckPassword("swordfish-42", hash))
	require.False(t, CheckPassword("wrong", hash))
	require.False(t, CheckPassword("swordfish-42", "not-a-hash"))
}
