package utils

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// GetIDParam reads a uuid path parameter
func GetIDParam(c *gin.Context, name string) (string, error) {
	raw := strings.TrimSpace(c.Param(name))
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid %s %q: %w", name, raw, err)
	}
	return id.String(), nil
}

// GetPageParams reads page and limit query parameters, falling back to defaults
func GetPageParams(c *gin.Context) (int, int) {
	page := defaultPage
	limit := defaultLimit

	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}
	if l := c.Query("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	return page, limit
}

// SortAscending reports whether the order query parameter asks for ascending order
func SortAscending(c *gin.Context) bool {
	return strings.EqualFold(c.Query("order"), "asc")
}
