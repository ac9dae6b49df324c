package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/sharebay/service-sharing/internal/pkg/domain"
)

// Booking is the aggregate root for a reservation of an item over a time
// interval. Item and booker are held as identifiers only; the owning services
// are reached through the collaborator interfaces, never through lazy
// references.
type Booking struct {
	id        uuid.UUID
	itemID    uuid.UUID
	bookerID  uuid.UUID
	start     time.Time
	end       time.Time
	status    Status
	createdAt time.Time
	updatedAt time.Time
}

// NewBooking creates a new Booking in WAITING state. The interval must be
// well-formed: both endpoints set and the end strictly after the start. Equal
// endpoints are rejected.
func NewBooking(itemID, bookerID uuid.UUID, start, end time.Time) (*Booking, error) {
	if itemID == uuid.Nil {
		return nil, domain.NewValidationError("item ID is required")
	}
	if bookerID == uuid.Nil {
		return nil, domain.NewValidationError("booker ID is required")
	}
	if start.IsZero() || end.IsZero() {
		return nil, domain.NewInvalidDateRangeError("booking start and end are required")
	}
	if !end.After(start) {
		return nil, domain.NewInvalidDateRangeError("booking end must be strictly after its start")
	}

	now := time.Now().UTC()
	return &Booking{
		id:        uuid.New(),
		itemID:    itemID,
		bookerID:  bookerID,
		start:     start,
		end:       end,
		status:    StatusWaiting,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstruct rebuilds a Booking from persistence data (no validation).
func Reconstruct(id, itemID, bookerID uuid.UUID, start, end time.Time, status Status, createdAt, updatedAt time.Time) *Booking {
	return &Booking{
		id:        id,
		itemID:    itemID,
		bookerID:  bookerID,
		start:     start,
		end:       end,
		status:    status,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// --- Getters ---

func (b *Booking) ID() uuid.UUID        { return b.id }
func (b *Booking) ItemID() uuid.UUID    { return b.itemID }
func (b *Booking) BookerID() uuid.UUID  { return b.bookerID }
func (b *Booking) Start() time.Time     { return b.start }
func (b *Booking) End() time.Time       { return b.end }
func (b *Booking) Status() Status       { return b.status }
func (b *Booking) CreatedAt() time.Time { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// --- Behavior ---

// IsBookedBy reports whether the booking was requested by the given user.
func (b *Booking) IsBookedBy(userID uuid.UUID) bool {
	return b.bookerID == userID
}

// Decide applies the owner's approve/reject decision. A booking that is
// already APPROVED cannot be re-decided; a REJECTED one still can.
func (b *Booking) Decide(approve bool) error {
	if !b.status.CanDecide() {
		return domain.NewUpdateNotAllowedError("booking with id " + b.id.String() + " is already approved")
	}
	if approve {
		b.status = StatusApproved
	} else {
		b.status = StatusRejected
	}
	b.updatedAt = time.Now().UTC()
	return nil
}
