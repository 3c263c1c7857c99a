package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/juanpablosotoc/zartex/internal/auth"
	"github.com/juanpablosotoc/zartex/internal/store"
	"github.com/juanpablosotoc/zartex/internal/types"
)

const clientContextKey = "auth-client"

// bearerToken pulls the access token from the Authorization header, falling
// back to the bare "token" header older clients still send.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if after, ok := strings.CutPrefix(header, "Bearer "); ok {
		return after
	}
	return r.Header.Get("token")
}

func (h *handlers) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.Request)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Invalid token"})
			return
		}

		client, err := h.auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			h.abortError(c, err)
			return
		}

		c.Set(clientContextKey, client)
		c.Next()
	}
}

func (h *handlers) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		client, ok := currentClient(c)
		if !ok || !client.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden,
				gin.H{"detail": "You are not authorized to access this resource"})
			return
		}
		c.Next()
	}
}

func currentClient(c *gin.Context) (*types.Client, bool) {
	v, ok := c.Get(clientContextKey)
	if !ok {
		return nil, false
	}
	client, ok := v.(*types.Client)
	return client, ok
}

type tokenRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// tokenPost exchanges email+password for a signed access token.
func (h *handlers) tokenPost() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req tokenRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request body"})
			return
		}

		client, err := h.db.GetClientByEmail(c.Request.Context(), req.Email)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid credentials"})
				return
			}
			h.abortError(c, types.PersistenceError("Failed to load client", err))
			return
		}

		if !auth.CheckPassword(req.Password, client.PasswordHash) {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid credentials"})
			return
		}

		token, err := h.tokens.IssueToken(client.ID)
		if err != nil {
			h.abortError(c, types.PersistenceError("Failed to issue token", err))
			return
		}

		c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer"})
	}
}
