package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pahanabooks/console-api/internal/application/service"
	"github.com/pahanabooks/console-api/internal/presentation/http/dto/request"
	"github.com/pahanabooks/console-api/internal/presentation/http/dto/response"
	"github.com/pahanabooks/console-api/internal/presentation/http/middleware"
	"github.com/pahanabooks/console-api/pkg/pagination"
)

// principal returns the authenticated caller or writes a 401
func principal(c *gin.Context) (*service.Principal, bool) {
	p := middleware.GetPrincipal(c)
	if p == nil {
		response.Unauthorized(c, "User not authenticated")
		return nil, false
	}
	return p, true
}

// bindJSON binds the request body, writing a validation response on failure
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, request.BindingError(err))
		return false
	}
	return true
}

// bindQuery binds query parameters
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return false
	}
	return true
}

// pageParams reads page and per_page from the query string
func pageParams(c *gin.Context) *pagination.PaginationParams {
	params := pagination.DefaultPagination()
	if v, err := strconv.Atoi(c.Query("page")); err == nil {
		params.Page = v
	}
	if v, err := strconv.Atoi(c.Query("per_page")); err == nil {
		params.PerPage = v
	}
	return params
}
