package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/kasir-api/internal/application/service"
	"github.com/sangkips/kasir-api/internal/presentation/http/dto/response"
	"github.com/sangkips/kasir-api/internal/presentation/http/middleware"
	"github.com/sangkips/kasir-api/internal/presentation/http/validation"
	"github.com/sangkips/kasir-api/pkg/apperror"
	"github.com/sangkips/kasir-api/pkg/pagination"
)

// bindJSON binds the request body and writes the error response on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if fields, ok := validation.FieldErrors(err); ok {
			response.ValidationError(c, fields)
			return false
		}
		response.BadRequest(c, "Invalid request body")
		return false
	}
	return true
}

// bindOptionalJSON is bindJSON for endpoints whose body may be empty.
func bindOptionalJSON(c *gin.Context, dst any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	return bindJSON(c, dst)
}

func currentSession(c *gin.Context) (*service.Session, bool) {
	s := middleware.Session(c)
	if s == nil {
		response.Error(c, apperror.ErrSessionRequired)
		return nil, false
	}
	return s, true
}

func pageParams(c *gin.Context) (*pagination.PaginationParams, bool) {
	params := pagination.DefaultPagination()
	if err := c.ShouldBindQuery(params); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return nil, false
	}
	params.Validate()
	return params, true
}
