package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sharebay/service-sharing/internal/pkg/domain"
)

// HeaderSharerUserID carries the caller's identity. Every route except user
// management requires it.
const HeaderSharerUserID = "X-Sharer-User-Id"

// sharerID extracts and parses the caller's identity header.
func sharerID(c *gin.Context) (uuid.UUID, error) {
	raw := c.GetHeader(HeaderSharerUserID)
	if raw == "" {
		return uuid.Nil, domain.NewValidationError("header " + HeaderSharerUserID + " is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domain.NewValidationError("header " + HeaderSharerUserID + " must be a valid UUID")
	}
	return id, nil
}

// parsePaging extracts the from/size query parameters with defaults. from is
// a non-negative offset, size a positive page length.
func parsePaging(c *gin.Context) (int, int, error) {
	from, err := strconv.Atoi(c.DefaultQuery("from", "0"))
	if err != nil || from < 0 {
		return 0, 0, domain.NewValidationError("from must be a non-negative integer")
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", "10"))
	if err != nil || size <= 0 {
		return 0, 0, domain.NewValidationError("size must be a positive integer")
	}
	return from, size, nil
}
