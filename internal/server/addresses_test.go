package server

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/juanpablosotoc/zartex/internal/auth/fake_auth"
	"github.com/juanpablosotoc/zartex/internal/types"
)

func createAddress(t *testing.T, env *testEnv, token, street string) *types.Address {
	t.Helper()
	w := env.doJSON(t, http.MethodPost, "/api/v1/users/addresses", token, map[string]any{
		"street_address": street,
		"city":           "Monterrey",
		"state":          "NL",
		"postal_code":    "64000",
		"country":        "MX",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var address types.Address
	decodeBody(t, w, &address)
	return &address
}

func TestAddressLifecycle(t *testing.T) {
	env := newTestEnv(t)

	address := createAddress(t, env, fake_auth.ClientToken, "123 Main St")
	require.NotZero(t, address.ID)
	require.Equal(t, env.fake.Client.ID, address.ClientID)

	path := fmt.Sprintf("/api/v1/users/addresses/%d", address.ID)
	w := env.do(t, http.MethodGet, path, fake_auth.ClientToken, nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodDelete, path, fake_auth.ClientToken, nil, "")
	require.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodGet, path, fake_auth.ClientToken, nil, "")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "Address not found", errorDetail(t, w))
}

func TestAddressListIsOwnerScoped(t *testing.T) {
	env := newTestEnv(t)

	createAddress(t, env, fake_auth.ClientToken, "123 Main St")
	createAddress(t, env, fake_auth.ClientToken, "456 Side St")
	other := createAddress(t, env, fake_auth.AdminToken, "1 Admin Way")

	w := env.do(t, http.MethodGet, "/api/v1/users/addresses", fake_auth.ClientToken, nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var addresses []*types.Address
	decodeBody(t, w, &addresses)
	require.Len(t, addresses, 2)
	for _, a := range addresses {
		require.Equal(t, env.fake.Client.ID, a.ClientID)
	}

	// one client cannot read or delete another client's address
	path := fmt.Sprintf("/api/v1/users/addresses/%d", other.ID)
	w = env.do(t, http.MethodGet, path, fake_auth.ClientToken, nil, "")
	require.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodDelete, path, fake_auth.ClientToken, nil, "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddressListEmpty(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/users/addresses", fake_auth.ClientToken, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, "[]", w.Body.String())
}

func TestAddressRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/users/addresses", "", nil, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.doJSON(t, http.MethodPost, "/api/v1/users/addresses", fake_auth.ClientToken, map[string]any{
		"street_address": "123 Main St",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}
