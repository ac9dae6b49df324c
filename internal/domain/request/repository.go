package request

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence operations for item requests.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ItemRequest, error)

	// FindByRequestor returns the user's own requests, oldest first.
	FindByRequestor(ctx context.Context, requestorID uuid.UUID) ([]*ItemRequest, error)

	// FindByOtherRequestors returns requests made by everyone except the
	// given user, oldest first. page is 1-based.
	FindByOtherRequestors(ctx context.Context, requestorID uuid.UUID, page, limit int) ([]*ItemRequest, error)

	Save(ctx context.Context, r *ItemRequest) error
}
