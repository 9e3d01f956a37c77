package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"budget-tracker/models"
	"budget-tracker/services"
)

// RenderError maps the service error taxonomy onto the wire contract.
// Ownership violations are 400s, not 403s, so the error shape never
// distinguishes "exists but isn't yours" from plain bad input; rows outside
// the actor's scope are 404s indistinguishable from missing rows.
func RenderError(c *gin.Context, err error) {
	var permErr *services.PermissionError
	if errors.As(err, &permErr) {
		c.JSON(http.StatusBadRequest, gin.H{"non_field_errors": []string{permErr.Message}})
		return
	}

	var conflictErr *services.ConflictError
	if errors.As(err, &conflictErr) {
		c.JSON(http.StatusBadRequest, gin.H{conflictErr.Field: []string{conflictErr.Message}})
		return
	}

	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		field := validationErr.Field
		if field == "" {
			field = "non_field_errors"
		}
		c.JSON(http.StatusBadRequest, gin.H{field: []string{validationErr.Message}})
		return
	}

	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return
	}

	log.Printf("❌ %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

const defaultPageSize = 50

// renderPage writes the list envelope, or 404 when ?page= points past the
// last page.
func renderPage[T any](c *gin.Context, results []T) {
	page, ok := paginate(c, results)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Invalid page."})
		return
	}
	c.JSON(http.StatusOK, page)
}

// paginate wraps a full result slice in the list envelope, slicing by
// ?page and ?page_size. A page beyond the end reports false.
func paginate[T any](c *gin.Context, results []T) (models.Page, bool) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))
	if size < 1 {
		size = defaultPageSize
	}

	count := len(results)
	start := (page - 1) * size
	if page > 1 && start >= count {
		return models.Page{}, false
	}
	if start > count {
		start = count
	}
	end := start + size
	if end > count {
		end = count
	}

	var next, previous *string
	if end < count {
		url := pageURL(c, page+1)
		next = &url
	}
	if page > 1 {
		url := pageURL(c, page-1)
		previous = &url
	}

	return models.Page{
		Count:    count,
		Next:     next,
		Previous: previous,
		Results:  results[start:end],
	}, true
}

func pageURL(c *gin.Context, page int) string {
	u := *c.Request.URL
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String()
}
