package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/juanpablosotoc/zartex/internal/auth"
	"github.com/juanpablosotoc/zartex/internal/store"
	"github.com/juanpablosotoc/zartex/internal/types"
)

type clientCreateRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
}

func (h *handlers) clientCreate() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req clientCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request body"})
			return
		}

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			h.abortError(c, types.PersistenceError("Failed to create client", err))
			return
		}

		client, err := h.db.CreateClient(c.Request.Context(), &types.Client{
			Email:        req.Email,
			PasswordHash: hash,
			FirstName:    req.FirstName,
			LastName:     req.LastName,
		})
		if err != nil {
			if errors.Is(err, store.ErrDuplicateEmail) {
				c.JSON(http.StatusConflict, gin.H{"detail": "Email already registered"})
				return
			}
			h.abortError(c, types.PersistenceError("Failed to create client", err))
			return
		}

		c.JSON(http.StatusCreated, client)
	}
}

func (h *handlers) clientMe() gin.HandlerFunc {
	return func(c *gin.Context) {
		client, _ := currentClient(c)
		c.JSON(http.StatusOK, client)
	}
}

func (h *handlers) clientUpdateMe() gin.HandlerFunc {
	return func(c *gin.Context) {
		client, _ := currentClient(c)

		var patch types.ClientPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request body"})
			return
		}

		updated, err := h.db.UpdateClient(c.Request.Context(), client.ID, patch)
		if err != nil {
			if errors.Is(err, store.ErrDuplicateEmail) {
				c.JSON(http.StatusConflict, gin.H{"detail": "Email already registered"})
				return
			}
			h.abortError(c, types.PersistenceError("Failed to update client", err))
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

func (h *handlers) clientDeleteMe() gin.HandlerFunc {
	return func(c *gin.Context) {
		client, _ := currentClient(c)
		if err := h.db.DeleteClient(c.Request.Context(), client.ID); err != nil {
			h.abortError(c, types.PersistenceError("Failed to delete client", err))
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func (h *handlers) clientGet() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Client not found"})
			return
		}

		client, err := h.db.GetClient(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"detail": "Client not found"})
				return
			}
			h.abortError(c, types.PersistenceError("Failed to load client", err))
			return
		}
		c.JSON(http.StatusOK, client)
	}
}
