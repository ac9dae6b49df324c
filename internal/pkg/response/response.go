package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sharebay/service-sharing/internal/pkg/domain"
)

// ErrorBody is the JSON error envelope returned to callers.
type ErrorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// Success writes a 200 response with the given payload.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created writes a 201 response with the given payload.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// NoContent writes an empty 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Paginated writes a 200 response with a paginated list envelope.
func Paginated(c *gin.Context, items interface{}, total int64, page, limit int) {
	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// BadRequest writes a 400 response with the given message.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorBody{Error: message})
}

// Error maps an application error to its HTTP status. Unclassified errors
// become opaque 500s so store internals never leak to callers.
func Error(c *gin.Context, err error) {
	kind := domain.KindOf(err)
	status := statusForKind(kind)
	if status == http.StatusInternalServerError {
		c.JSON(status, ErrorBody{Error: "internal server error"})
		return
	}
	c.JSON(status, ErrorBody{Error: err.Error(), Kind: string(kind)})
}

func statusForKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindAccessDenied:
		return http.StatusForbidden
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindItemUnavailable,
		domain.KindInvalidDateRange,
		domain.KindUpdateNotAllowed,
		domain.KindInvalidFilter,
		domain.KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
