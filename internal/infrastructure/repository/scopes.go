package repository

import (
	"errors"
	"strings"

	domainRepo "github.com/andesind/catalog-api/internal/domain/repository"
	"github.com/andesind/catalog-api/pkg/pagination"
	"gorm.io/gorm"
)

// ActiveScope keeps rows whose is_active flag is set. Soft-deactivated
// clients, quotations and contacts stay in the table but drop out of lists.
func ActiveScope(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}

// SearchScope matches term case-insensitively against any of columns.
// LOWER/LIKE is used instead of ILIKE so the same query runs on SQLite.
func SearchScope(term string, columns ...string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" || len(columns) == 0 {
			return db
		}
		pattern := likePattern(term)
		clauses := make([]string, len(columns))
		args := make([]interface{}, len(columns))
		for i, col := range columns {
			clauses[i] = "LOWER(" + col + ") LIKE ?"
			args[i] = pattern
		}
		return db.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
}

// PageScope applies offset and limit from validated pagination params.
func PageScope(params *pagination.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if params == nil {
			params = pagination.DefaultPagination()
		}
		params.Validate()
		return db.Offset(params.Offset()).Limit(params.PerPage)
	}
}

// OrderScope sorts by sortBy when it is one of allowed, else by fallback.
func OrderScope(sortBy, sortOrder, fallback string, allowed ...string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		column := fallback
		for _, a := range allowed {
			if a == sortBy {
				column = sortBy
				break
			}
		}
		direction := "DESC"
		if strings.EqualFold(sortOrder, "asc") {
			direction = "ASC"
		}
		return db.Order(column + " " + direction)
	}
}

func likePattern(term string) string {
	return "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
}

// translate maps driver errors onto the domain's sentinel errors. It needs
// gorm.Config.TranslateError enabled.
func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domainRepo.ErrDuplicateKey
	}
	return err
}
