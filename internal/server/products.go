package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/juanpablosotoc/zartex/internal/store"
	"github.com/juanpablosotoc/zartex/internal/types"
)

const (
	defaultProductLimit = 20
	maxProductLimit     = 100
)

type productCreateRequest struct {
	Name            string  `json:"name" binding:"required"`
	Price           float64 `json:"price" binding:"required,gt=0"`
	ProductType     string  `json:"product_type" binding:"required"`
	CurrentQuantity int     `json:"current_quantity" binding:"gte=0"`
	ForBaby         *bool   `json:"for_baby" binding:"required"`
	Size            string  `json:"size"`
	Color           string  `json:"color"`
	Line            string  `json:"line"`
}

func (h *handlers) productCreate() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req productCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request body"})
			return
		}

		product, err := h.db.CreateProduct(c.Request.Context(), &types.Product{
			Name:            req.Name,
			Price:           req.Price,
			ProductType:     req.ProductType,
			CurrentQuantity: req.CurrentQuantity,
			ForBaby:         *req.ForBaby,
			Size:            req.Size,
			Color:           req.Color,
			Line:            req.Line,
		})
		if err != nil {
			h.abortError(c, types.PersistenceError("Failed to create product", err))
			return
		}

		h.auditRecord(c, "product.create", product.ID)
		c.JSON(http.StatusCreated, product)
	}
}

// productList applies the optional query filters and skip/limit pagination.
func (h *handlers) productList() gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := types.ProductFilter{}
		if v, ok := c.GetQuery("product_type"); ok {
			filter.ProductType = &v
		}
		if v, ok := c.GetQuery("for_baby"); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid for_baby filter"})
				return
			}
			filter.ForBaby = &b
		}
		if v, ok := c.GetQuery("min_price"); ok {
			p, err := strconv.ParseFloat(v, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid min_price filter"})
				return
			}
			filter.MinPrice = &p
		}
		if v, ok := c.GetQuery("max_price"); ok {
			p, err := strconv.ParseFloat(v, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid max_price filter"})
				return
			}
			filter.MaxPrice = &p
		}
		if v, ok := c.GetQuery("size"); ok {
			filter.Size = &v
		}
		if v, ok := c.GetQuery("color"); ok {
			filter.Color = &v
		}
		if v, ok := c.GetQuery("line"); ok {
			filter.Line = &v
		}

		skip := intQuery(c, "skip", 0)
		limit := intQuery(c, "limit", defaultProductLimit)
		if limit > maxProductLimit {
			limit = maxProductLimit
		}

		products, err := h.db.ListProducts(c.Request.Context(), filter, skip, limit)
		if err != nil {
			h.abortError(c, types.PersistenceError("Failed to list products", err))
			return
		}
		if products == nil {
			products = []*types.Product{}
		}
		c.JSON(http.StatusOK, products)
	}
}

func (h *handlers) productGet() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Product not found"})
			return
		}

		product, err := h.db.GetProduct(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"detail": "Product not found"})
				return
			}
			h.abortError(c, types.PersistenceError("Failed to load product", err))
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func (h *handlers) productUpdate() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Product not found"})
			return
		}

		var patch types.ProductPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request body"})
			return
		}

		product, err := h.db.UpdateProduct(c.Request.Context(), id, patch)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"detail": "Product not found"})
				return
			}
			h.abortError(c, types.PersistenceError("Failed to update product", err))
			return
		}

		h.auditRecord(c, "product.update", product.ID)
		c.JSON(http.StatusOK, product)
	}
}

func (h *handlers) productDelete() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Product not found"})
			return
		}

		if err := h.db.DeleteProduct(c.Request.Context(), id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"detail": "Product not found"})
				return
			}
			h.abortError(c, types.PersistenceError("Failed to delete product", err))
			return
		}

		h.auditRecord(c, "product.delete", id)
		c.Status(http.StatusNoContent)
	}
}

func intQuery(c *gin.Context, name string, fallback int) int {
	v, ok := c.GetQuery(name)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
