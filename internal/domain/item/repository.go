package item

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence operations for items.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)

	// FindByOwner returns the owner's items ordered by creation time,
	// oldest first. page is 1-based.
	FindByOwner(ctx context.Context, ownerID uuid.UUID, page, limit int) ([]*Item, error)

	// Search returns available items whose name or description contains
	// the text, case-insensitively.
	Search(ctx context.Context, text string, page, limit int) ([]*Item, error)

	// FindByRequestIDs returns all items listed in answer to any of the
	// given requests.
	FindByRequestIDs(ctx context.Context, requestIDs []uuid.UUID) ([]*Item, error)

	Save(ctx context.Context, i *Item) error
	Update(ctx context.Context, i *Item) error
}

// CommentRepository defines persistence operations for item comments.
type CommentRepository interface {
	// FindByItem returns the item's comments oldest first, with author
	// names resolved.
	FindByItem(ctx context.Context, itemID uuid.UUID) ([]*Comment, error)

	Save(ctx context.Context, c *Comment) error
}
