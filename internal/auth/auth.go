// Package auth issues and verifies the access tokens used by the API and
// owns password hashing for client accounts.
package auth

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/juanpablosotoc/zartex/internal/store"
	"github.com/juanpablosotoc/zartex/internal/types"
)

// Authorizer resolves a bearer token to the client it belongs to.
type Authorizer interface {
	Authenticate(ctx context.Context, token string) (*types.Client, error)
}

// ClientGetter is the slice of the store the authorizer needs.
type ClientGetter interface {
	GetClient(ctx context.Context, id int64) (*types.Client, error)
}

type claims struct {
	jwt.RegisteredClaims
}

// JWT verifies HS256 tokens whose subject is the client id, then loads the
// client so handlers get current admin status rather than a stale claim.
type JWT struct {
	secretKey []byte
	ttl       time.Duration
	clients   ClientGetter
}

func NewJWT(secretKey []byte, ttl time.Duration, clients ClientGetter) *JWT {
	return &JWT{secretKey: secretKey, ttl: ttl, clients: clients}
}

// IssueToken signs a token for clientID valid for the configured TTL.
func (a *JWT) IssueToken(clientID int64) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(clientID, 10),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(a.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})
	return token.SignedString(a.secretKey)
}

func (a *JWT) Authenticate(ctx context.Context, tokenString string) (*types.Client, error) {
	parsed := &claims{}
	token, err := jwt.ParseWithClaims(tokenString, parsed, func(t *jwt.Token) (interface{}, error) {
		return a.secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, types.UnauthorizedError("Invalid token")
	}

	clientID, err := strconv.ParseInt(parsed.Subject, 10, 64)
	if err != nil {
		return nil, types.UnauthorizedError("Invalid token")
	}

	client, err := a.clients.GetClient(ctx, clientID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, types.UnauthorizedError("Invalid token")
		}
		return nil, types.PersistenceError("Failed to load client", err)
	}
	return client, nil
}

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored bcrypt hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
