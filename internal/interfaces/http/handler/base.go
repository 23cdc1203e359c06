package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	letterapp "github.com/pulosarok/desa/internal/application/letter"
	"github.com/pulosarok/desa/internal/domain/shared"
	"github.com/pulosarok/desa/internal/infrastructure/logger"
	"github.com/pulosarok/desa/internal/interfaces/http/dto"
	"github.com/pulosarok/desa/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

var (
	errNoTenant = errors.New("tenant not found in context")
	errNoUser   = errors.New("user ID not found in context")
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	if id := c.GetString(logger.GinRequestIDKey); id != "" {
		return id
	}
	return c.GetHeader(middleware.RequestIDHeader)
}

// getUserID extracts the staff ID from the access token
func getUserID(c *gin.Context) (uuid.UUID, error) {
	userIDStr := middleware.GetJWTUserID(c)
	if userIDStr == "" {
		return uuid.Nil, errNoUser
	}
	return uuid.Parse(userIDStr)
}

// getTenantID returns the village resolved by the JWT or tenant middleware
func getTenantID(c *gin.Context) (uuid.UUID, error) {
	tenantIDStr := middleware.GetTenantID(c)
	if tenantIDStr == "" {
		return uuid.Nil, errNoTenant
	}
	return uuid.Parse(tenantIDStr)
}

// getActor describes the authenticated staff member for audit trails
func getActor(c *gin.Context) letterapp.Actor {
	actor := letterapp.Actor{
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
	if claims := middleware.GetJWTClaims(c); claims != nil {
		actor.ID, _ = claims.GetUserUUID()
		actor.Name = claims.Username
		actor.Role = claims.Role
	}
	return actor
}

// requireTenant writes a 400 and returns false when no village is resolved
func (h *BaseHandler) requireTenant(c *gin.Context) (uuid.UUID, bool) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return uuid.Nil, false
	}
	return tenantID, true
}

// requireUser writes a 401 and returns false when the caller is anonymous
func (h *BaseHandler) requireUser(c *gin.Context) (uuid.UUID, bool) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return uuid.Nil, false
	}
	return userID, true
}

// paramUUID parses a path parameter, writing a 400 on failure
func (h *BaseHandler) paramUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.BadRequest(c, "Invalid "+name+" format")
		return uuid.Nil, false
	}
	return id, true
}

// bindJSON binds the body and answers validation failures with field details
func (h *BaseHandler) bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// listFilter reads the common list parameters plus the given equality
// filters from the query string. "true" and "false" become booleans.
func listFilter(c *gin.Context, keys ...string) shared.Filter {
	page, _ := strconv.Atoi(c.Query("page"))
	pageSize, _ := strconv.Atoi(c.Query("page_size"))
	f := shared.NewFilter(page, pageSize, c.Query("search"), c.Query("order_by"), c.Query("order_dir"))
	for _, key := range keys {
		raw := c.Query(key)
		switch raw {
		case "":
		case "true":
			f = f.With(key, true)
		case "false":
			f = f.With(key, false)
		default:
			f = f.With(key, raw)
		}
	}
	return f
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Page sends one page of a list using the filter it was read with
func (h *BaseHandler) Page(c *gin.Context, data any, total int64, f shared.Filter) {
	h.SuccessWithMeta(c, data, total, f.Page, f.PageSize)
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, message)
}

// Forbidden sends a 403 forbidden response
func (h *BaseHandler) Forbidden(c *gin.Context, message string) {
	h.Error(c, http.StatusForbidden, dto.ErrCodeForbidden, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// HandleError converts domain errors to HTTP responses. Anything else is
// logged and reported as an internal error without leaking its text.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponseWithRequestID(code, domainErr.Message, getRequestID(c)))
		return
	}

	logger.FromGin(c).Error("Unhandled error",
		zap.Error(err),
		zap.String("path", c.FullPath()),
	)
	h.InternalError(c, "An unexpected error occurred")
}
