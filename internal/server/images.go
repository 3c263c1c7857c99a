package server

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// imagePost accepts a multipart upload under the "file" field and runs it
// through the ingestion pipeline.
func (h *handlers) imagePost() gin.HandlerFunc {
	return func(c *gin.Context) {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Missing file field"})
			return
		}

		f, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid upload"})
			return
		}
		defer f.Close()

		buf, err := io.ReadAll(f)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid upload"})
			return
		}

		contentType := fileHeader.Header.Get("Content-Type")
		record, err := h.pipeline.Ingest(c.Request.Context(), buf, contentType, fileHeader.Filename)
		if err != nil {
			h.abortError(c, err)
			return
		}

		if h.stat != nil {
			h.stat.RecordIngest()
		}
		h.auditRecord(c, "image.create", record.ID)
		c.JSON(http.StatusCreated, record)
	}
}

func (h *handlers) imageGet() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Image not found"})
			return
		}

		record, err := h.pipeline.Get(c.Request.Context(), id)
		if err != nil {
			h.abortError(c, err)
			return
		}
		c.JSON(http.StatusOK, record)
	}
}

func (h *handlers) imageDelete() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Image not found"})
			return
		}

		if err := h.pipeline.Delete(c.Request.Context(), id); err != nil {
			h.abortError(c, err)
			return
		}

		if h.stat != nil {
			h.stat.RecordDelete()
		}
		h.auditRecord(c, "image.delete", id)
		c.Status(http.StatusNoContent)
	}
}

func parseID(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}
