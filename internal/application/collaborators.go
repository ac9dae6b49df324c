package application

import (
	"context"

	"github.com/google/uuid"

	"github.com/sharebay/service-sharing/internal/domain/booking"
	"github.com/sharebay/service-sharing/internal/domain/item"
	"github.com/sharebay/service-sharing/internal/domain/user"
)

// userDirectory adapts the user store to the narrow view the booking engine
// consumes.
type userDirectory struct {
	repo user.Repository
}

// NewUserDirectory creates the booking engine's user collaborator.
func NewUserDirectory(repo user.Repository) booking.UserDirectory {
	return &userDirectory{repo: repo}
}

func (d *userDirectory) GetUser(ctx context.Context, id uuid.UUID) (*booking.DirectoryUser, error) {
	u, err := d.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &booking.DirectoryUser{ID: u.ID(), Name: u.Name()}, nil
}

// itemCatalog adapts the item store to the narrow view the booking engine
// consumes.
type itemCatalog struct {
	repo item.Repository
}

// NewItemCatalog creates the booking engine's item collaborator.
func NewItemCatalog(repo item.Repository) booking.ItemCatalog {
	return &itemCatalog{repo: repo}
}

func (c *itemCatalog) GetItem(ctx context.Context, id uuid.UUID) (*booking.CatalogItem, error) {
	i, err := c.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &booking.CatalogItem{
		ID:        i.ID(),
		Name:      i.Name(),
		OwnerID:   i.OwnerID(),
		Available: i.Available(),
	}, nil
}
