package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/juanpablosotoc/zartex/internal/store"
	"github.com/juanpablosotoc/zartex/internal/types"
)

type addressCreateRequest struct {
	StreetAddress string `json:"street_address" binding:"required"`
	City          string `json:"city" binding:"required"`
	State         string `json:"state" binding:"required"`
	PostalCode    string `json:"postal_code" binding:"required"`
	Country       string `json:"country" binding:"required"`
	IsDefault     bool   `json:"is_default"`
}

func (h *handlers) addressCreate() gin.HandlerFunc {
	return func(c *gin.Context) {
		client, _ := currentClient(c)

		var req addressCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request body"})
			return
		}

		address, err := h.db.CreateAddress(c.Request.Context(), &types.Address{
			ClientID:      client.ID,
			StreetAddress: req.StreetAddress,
			City:          req.City,
			State:         req.State,
			PostalCode:    req.PostalCode,
			Country:       req.Country,
			IsDefault:     req.IsDefault,
		})
		if err != nil {
			h.abortError(c, types.PersistenceError("Failed to create address", err))
			return
		}
		c.JSON(http.StatusCreated, address)
	}
}

func (h *handlers) addressList() gin.HandlerFunc {
	return func(c *gin.Context) {
		client, _ := currentClient(c)
		addresses, err := h.db.ListAddresses(c.Request.Context(), client.ID)
		if err != nil {
			h.abortError(c, types.PersistenceError("Failed to list addresses", err))
			return
		}
		if addresses == nil {
			addresses = []*types.Address{}
		}
		c.JSON(http.StatusOK, addresses)
	}
}

func (h *handlers) addressGet() gin.HandlerFunc {
	return func(c *gin.Context) {
		client, _ := currentClient(c)
		id, err := parseID(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Address not found"})
			return
		}

		address, err := h.db.GetAddress(c.Request.Context(), client.ID, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"detail": "Address not found"})
				return
			}
			h.abortError(c, types.PersistenceError("Failed to load address", err))
			return
		}
		c.JSON(http.StatusOK, address)
	}
}

func (h *handlers) addressDelete() gin.HandlerFunc {
	return func(c *gin.Context) {
		client, _ := currentClient(c)
		id, err := parseID(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Address not found"})
			return
		}

		if err := h.db.DeleteAddress(c.Request.Context(), client.ID, id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"detail": "Address not found"})
				return
			}
			h.abortError(c, types.PersistenceError("Failed to delete address", err))
			return
		}
		c.Status(http.StatusNoContent)
	}
}
