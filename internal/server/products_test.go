package server

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/juanpablosotoc/zartex/internal/auth/fake_auth"
	"github.com/juanpablosotoc/zartex/internal/types"
)

func createProduct(t *testing.T, env *testEnv, payload map[string]any) *types.Product {
	t.Helper()
	w := env.doJSON(t, http.MethodPost, "/api/v1/products", fake_auth.AdminToken, payload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var product types.Product
	decodeBody(t, w, &product)
	return &product
}

func testProduct(name string, price float64, forBaby bool) map[string]any {
	return map[string]any{
		"name":             name,
		"price":            price,
		"product_type":     "shirt",
		"current_quantity": 10,
		"for_baby":         forBaby,
	}
}

func TestProductCreateAuthorization(t *testing.T) {
	env := newTestEnv(t)
	payload := testProduct("Basic Tee", 19.99, false)

	w := env.doJSON(t, http.MethodPost, "/api/v1/products", "", payload)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.doJSON(t, http.MethodPost, "/api/v1/products", fake_auth.ClientToken, payload)
	require.Equal(t, http.StatusForbidden, w.Code)

	product := createProduct(t, env, payload)
	require.Equal(t, "Basic Tee", product.Name)
	require.Equal(t, 19.99, product.Price)
}

func TestProductCreateValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name    string
		payload map[string]any
	}{
		{"missing name", map[string]any{"price": 10.0, "product_type": "shirt", "for_baby": false}},
		{"zero price", map[string]any{"name": "X", "price": 0, "product_type": "shirt", "for_baby": false}},
		{"missing for_baby", map[string]any{"name": "X", "price": 10.0, "product_type": "shirt"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := env.doJSON(t, http.MethodPost, "/api/v1/products", fake_auth.AdminToken, tc.payload)
			require.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestProductListFilters(t *testing.T) {
	env := newTestEnv(t)

	createProduct(t, env, testProduct("Cheap Tee", 9.99, false))
	createProduct(t, env, testProduct("Fancy Tee", 49.99, false))
	createProduct(t, env, testProduct("Baby Onesie", 24.99, true))

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"no filter", "", []string{"Cheap Tee", "Fancy Tee", "Baby Onesie"}},
		{"for baby", "?for_baby=true", []string{"Baby Onesie"}},
		{"min price", "?min_price=20", []string{"Fancy Tee", "Baby Onesie"}},
		{"price range", "?min_price=20&max_price=30", []string{"Baby Onesie"}},
		{"pagination", "?skip=1&limit=1", []string{"Fancy Tee"}},
		{"skip past end", "?skip=10", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := env.do(t, http.MethodGet, "/api/v1/products"+tc.query, "", nil, "")
			require.Equal(t, http.StatusOK, w.Code)

			var products []*types.Product
			decodeBody(t, w, &products)
			names := make([]string, 0, len(products))
			for _, p := range products {
				names = append(names, p.Name)
			}
			if tc.want == nil {
				require.Empty(t, names)
			} else {
				require.Equal(t, tc.want, names)
			}
		})
	}
}

func TestProductListBadFilter(t *testing.T) {
	env := newTestEnv(t)

	for _, query := range []string{"?for_baby=maybe", "?min_price=cheap", "?max_price=x"} {
		w := env.do(t, http.MethodGet, "/api/v1/products"+query, "", nil, "")
		require.Equal(t, http.StatusBadRequest, w.Code)
	}
}

func TestProductGet(t *testing.T) {
	env := newTestEnv(t)
	product := createProduct(t, env, testProduct("Basic Tee", 19.99, false))

	w := env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/products/%d", product.ID), "", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var fetched types.Product
	decodeBody(t, w, &fetched)
	require.Equal(t, product.ID, fetched.ID)

	w = env.do(t, http.MethodGet, "/api/v1/products/999", "", nil, "")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "Product not found", errorDetail(t, w))
}

func TestProductUpdate(t *testing.T) {
	env := newTestEnv(t)
	product := createProduct(t, env, testProduct("Basic Tee", 19.99, false))

	w := env.doJSON(t, http.MethodPut, fmt.Sprintf("/api/v1/products/%d", product.ID), fake_auth.AdminToken, map[string]any{
		"price": 24.99,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated types.Product
	decodeBody(t, w, &updated)
	require.Equal(t, 24.99, updated.Price)
	// untouched fields survive the partial update
	require.Equal(t, product.Name, updated.Name)
	require.Equal(t, product.CurrentQuantity, updated.CurrentQuantity)

	w = env.doJSON(t, http.MethodPut, "/api/v1/products/999", fake_auth.AdminToken, map[string]any{"price": 1.0})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductDelete(t *testing.T) {
	env := newTestEnv(t)
	product := createProduct(t, env, testProduct("Basic Tee", 19.99, false))
	path := fmt.Sprintf("/api/v1/products/%d", product.ID)

	w := env.do(t, http.MethodDelete, path, fake_auth.ClientToken, nil, "")
	require.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodDelete, path, fake_auth.AdminToken, nil, "")
	require.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodGet, path, "", nil, "")
	require.Equal(t, http.StatusNotFound, w.Code)
}
