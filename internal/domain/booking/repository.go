package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for bookings. Temporal queries
// use strict inequalities against the supplied instant: a booking whose start
// equals the instant is neither past nor future.
type Repository interface {
	// FindByID retrieves a booking by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// Save persists a new booking as a single atomic insert.
	Save(ctx context.Context, b *Booking) error

	// UpdateStatus persists a status change as a single atomic row update.
	UpdateStatus(ctx context.Context, b *Booking) error

	// Queries by booker, ordered by start descending (CURRENT by end
	// descending). page is 1-based; limit caps the page size.
	FindByBooker(ctx context.Context, bookerID uuid.UUID, page, limit int) ([]*Booking, error)
	FindByBookerInFuture(ctx context.Context, bookerID uuid.UUID, now time.Time, page, limit int) ([]*Booking, error)
	FindByBookerInPast(ctx context.Context, bookerID uuid.UUID, now time.Time, page, limit int) ([]*Booking, error)
	FindByBookerCurrent(ctx context.Context, bookerID uuid.UUID, now time.Time, page, limit int) ([]*Booking, error)
	FindByBookerWithStatus(ctx context.Context, bookerID uuid.UUID, status Status, page, limit int) ([]*Booking, error)

	// The same queries scoped to bookings of items owned by the given user.
	FindByItemOwner(ctx context.Context, ownerID uuid.UUID, page, limit int) ([]*Booking, error)
	FindByItemOwnerInFuture(ctx context.Context, ownerID uuid.UUID, now time.Time, page, limit int) ([]*Booking, error)
	FindByItemOwnerInPast(ctx context.Context, ownerID uuid.UUID, now time.Time, page, limit int) ([]*Booking, error)
	FindByItemOwnerCurrent(ctx context.Context, ownerID uuid.UUID, now time.Time, page, limit int) ([]*Booking, error)
	FindByItemOwnerWithStatus(ctx context.Context, ownerID uuid.UUID, status Status, page, limit int) ([]*Booking, error)

	// LastBookingForItems returns, per item, the booking with the greatest
	// start strictly before now, excluding REJECTED and CANCELED bookings.
	LastBookingForItems(ctx context.Context, itemIDs []uuid.UUID, now time.Time) (map[uuid.UUID]*Booking, error)

	// NextBookingForItems returns, per item, the booking with the smallest
	// start strictly after now, excluding REJECTED and CANCELED bookings.
	NextBookingForItems(ctx context.Context, itemIDs []uuid.UUID, now time.Time) (map[uuid.UUID]*Booking, error)

	// ExistsFinishedBooking reports whether the user has a booking of the
	// item that ended before now and is neither REJECTED nor CANCELED.
	ExistsFinishedBooking(ctx context.Context, itemID, bookerID uuid.UUID, now time.Time) (bool, error)
}

// CatalogItem is the narrow item view the booking engine needs.
type CatalogItem struct {
	ID        uuid.UUID
	Name      string
	OwnerID   uuid.UUID
	Available bool
}

// DirectoryUser is the narrow user view the booking engine needs.
type DirectoryUser struct {
	ID   uuid.UUID
	Name string
}

// ItemCatalog is the collaborator holding items. Missing items surface as
// not-found errors.
type ItemCatalog interface {
	GetItem(ctx context.Context, id uuid.UUID) (*CatalogItem, error)
}

// UserDirectory is the collaborator holding users. Missing users surface as
// not-found errors.
type UserDirectory interface {
	GetUser(ctx context.Context, id uuid.UUID) (*DirectoryUser, error)
}

// Ref is the minimal projection of a booking exposed on item views: just
// enough to identify the booking and who made it.
type Ref struct {
	BookingID uuid.UUID `json:"id"`
	BookerID  uuid.UUID `json:"bookerId"`
}

// NewRef builds the projection for a booking.
func NewRef(b *Booking) *Ref {
	if b == nil {
		return nil
	}
	return &Ref{BookingID: b.ID(), BookerID: b.BookerID()}
}
