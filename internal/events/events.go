package events

import (
	"time"

	"github.com/google/uuid"
)

// TopicBookingEvents carries the booking lifecycle events.
const TopicBookingEvents = "booking.events"

// Event types published on TopicBookingEvents.
const (
	BookingRequested = "booking.requested"
	BookingApproved  = "booking.approved"
	BookingRejected  = "booking.rejected"
)

// BookingRequestedEvent is published when a booking is created in WAITING.
type BookingRequestedEvent struct {
	BookingID  uuid.UUID `json:"booking_id"`
	ItemID     uuid.UUID `json:"item_id"`
	BookerID   uuid.UUID `json:"booker_id"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	OccurredAt time.Time `json:"occurred_at"`
}

// BookingDecidedEvent is published when the item owner approves or rejects a
// booking.
type BookingDecidedEvent struct {
	BookingID  uuid.UUID `json:"booking_id"`
	ItemID     uuid.UUID `json:"item_id"`
	BookerID   uuid.UUID `json:"booker_id"`
	OwnerID    uuid.UUID `json:"owner_id"`
	Approved   bool      `json:"approved"`
	OccurredAt time.Time `json:"occurred_at"`
}
