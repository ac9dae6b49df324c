package request

import (
	"time"

	"github.com/google/uuid"

	"github.com/sharebay/service-sharing/internal/pkg/domain"
)

// ItemRequest is a user's ask for an item nobody has listed yet. Owners
// answer it by listing an item that references the request.
type ItemRequest struct {
	id          uuid.UUID
	description string
	requestorID uuid.UUID
	createdAt   time.Time
}

// NewItemRequest creates a request by the given user.
func NewItemRequest(requestorID uuid.UUID, description string) (*ItemRequest, error) {
	if requestorID == uuid.Nil {
		return nil, domain.NewValidationError("requestor ID is required")
	}
	if description == "" {
		return nil, domain.NewValidationError("request description is required")
	}
	return &ItemRequest{
		id:          uuid.New(),
		description: description,
		requestorID: requestorID,
		createdAt:   time.Now().UTC(),
	}, nil
}

// Reconstruct rebuilds an ItemRequest from persistence data.
func Reconstruct(id uuid.UUID, description string, requestorID uuid.UUID, createdAt time.Time) *ItemRequest {
	return &ItemRequest{
		id:          id,
		description: description,
		requestorID: requestorID,
		createdAt:   createdAt,
	}
}

func (r *ItemRequest) ID() uuid.UUID          { return r.id }
func (r *ItemRequest) Description() string    { return r.description }
func (r *ItemRequest) RequestorID() uuid.UUID { return r.requestorID }
func (r *ItemRequest) CreatedAt() time.Time   { return r.createdAt }

// IsRequestedBy reports whether the request was made by the given user.
func (r *ItemRequest) IsRequestedBy(userID uuid.UUID) bool {
	return r.requestorID == userID
}
