package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrRecordNotFound is returned when a lookup matches no row
var ErrRecordNotFound = errors.New("record not found")

// ListOptions carries the pagination, search and sort settings shared by list queries.
// A Limit of zero disables pagination.
type ListOptions struct {
	Page      int
	Limit     int
	Search    string
	SortBy    string
	Ascending bool
}

func (o ListOptions) offset() int {
	if o.Page < 1 {
		return 0
	}
	return (o.Page - 1) * o.Limit
}

// paginate applies offset and limit when a limit is set
func (o ListOptions) paginate(db *gorm.DB) *gorm.DB {
	if o.Limit <= 0 {
		return db
	}
	return db.Offset(o.offset()).Limit(o.Limit)
}

// orderBy resolves SortBy against the allowed columns, falling back to fallback.
// Only whitelisted column names ever reach the query.
func (o ListOptions) orderBy(columns map[string]string, fallback string) string {
	column, ok := columns[o.SortBy]
	if !ok {
		column = fallback
	}
	if o.Ascending {
		return column + " ASC"
	}
	return column + " DESC"
}

func likePattern(search string) string {
	return "%" + strings.TrimSpace(search) + "%"
}

func translateError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRecordNotFound
	}
	return err
}
