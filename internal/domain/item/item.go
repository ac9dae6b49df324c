package item

import (
	"time"

	"github.com/google/uuid"

	"github.com/sharebay/service-sharing/internal/pkg/domain"
)

// Item is the aggregate root for a listed item. Ownership is an explicit
// identifier; owner data lives in the user directory. requestID is set when
// the item was listed in answer to an item request.
type Item struct {
	id          uuid.UUID
	name        string
	description string
	available   bool
	ownerID     uuid.UUID
	requestID   *uuid.UUID
	createdAt   time.Time
	updatedAt   time.Time
}

// NewItem creates a listed item for the given owner. A non-nil requestID
// marks the item as an answer to that request.
func NewItem(ownerID uuid.UUID, name, description string, available bool, requestID *uuid.UUID) (*Item, error) {
	if ownerID == uuid.Nil {
		return nil, domain.NewValidationError("owner ID is required")
	}
	if name == "" {
		return nil, domain.NewValidationError("item name is required")
	}
	if description == "" {
		return nil, domain.NewValidationError("item description is required")
	}

	now := time.Now().UTC()
	return &Item{
		id:          uuid.New(),
		name:        name,
		description: description,
		available:   available,
		ownerID:     ownerID,
		requestID:   requestID,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// Reconstruct rebuilds an Item from persistence data (no validation).
func Reconstruct(id uuid.UUID, name, description string, available bool, ownerID uuid.UUID, requestID *uuid.UUID, createdAt, updatedAt time.Time) *Item {
	return &Item{
		id:          id,
		name:        name,
		description: description,
		available:   available,
		ownerID:     ownerID,
		requestID:   requestID,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (i *Item) ID() uuid.UUID         { return i.id }
func (i *Item) Name() string          { return i.name }
func (i *Item) Description() string   { return i.description }
func (i *Item) Available() bool       { return i.available }
func (i *Item) OwnerID() uuid.UUID    { return i.ownerID }
func (i *Item) RequestID() *uuid.UUID { return i.requestID }
func (i *Item) CreatedAt() time.Time  { return i.createdAt }
func (i *Item) UpdatedAt() time.Time  { return i.updatedAt }

// IsOwnedBy reports whether the item belongs to the given user.
func (i *Item) IsOwnedBy(userID uuid.UUID) bool {
	return i.ownerID == userID
}

// Update applies a partial update; nil fields keep their current value.
func (i *Item) Update(name, description *string, available *bool) {
	if name != nil && *name != "" {
		i.name = *name
	}
	if description != nil && *description != "" {
		i.description = *description
	}
	if available != nil {
		i.available = *available
	}
	i.updatedAt = time.Now().UTC()
}
