package handler

import (
	"strconv"

	"github.com/andesind/catalog-api/internal/presentation/http/dto/response"
	"github.com/andesind/catalog-api/internal/presentation/http/middleware"
	"github.com/andesind/catalog-api/internal/presentation/http/validation"
	"github.com/andesind/catalog-api/pkg/pagination"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetUserID extracts the user ID from the context
func GetUserID(c *gin.Context) *uuid.UUID {
	userID, exists := c.Get(middleware.ContextUserID)
	if !exists {
		return nil
	}
	id, ok := userID.(uuid.UUID)
	if !ok {
		return nil
	}
	return &id
}

// GetUserRole extracts the user role from the context
func GetUserRole(c *gin.Context) string {
	return c.GetString(middleware.ContextUserRole)
}

// bindJSON binds the body into req and writes the error response when it
// cannot. Handlers return early when it reports false.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, validation.BindError(err))
		return false
	}
	return true
}

func bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		response.Error(c, validation.BindError(err))
		return false
	}
	return true
}

// pathID parses the :id parameter
func pathID(c *gin.Context, resource string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid "+resource+" ID")
		return uuid.Nil, false
	}
	return id, true
}

// pageParams reads page and limit, accepting per_page as an alias of limit
func pageParams(c *gin.Context, page, limit int) *pagination.PaginationParams {
	if limit == 0 {
		if pp, err := parsePositiveInt(c.Query("per_page")); err == nil {
			limit = pp
		}
	}
	return pagination.New(page, limit)
}

func parsePositiveInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, strconv.ErrRange
	}
	return n, nil
}
