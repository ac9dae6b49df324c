package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sharebay/service-sharing/internal/domain/booking"
	"github.com/sharebay/service-sharing/internal/events"
	"github.com/sharebay/service-sharing/internal/pkg/domain"
	"github.com/sharebay/service-sharing/internal/pkg/kafka"
)

// CreateBookingRequest holds the data needed to create a new booking.
type CreateBookingRequest struct {
	ItemID uuid.UUID `json:"itemId" binding:"required"`
	Start  time.Time `json:"start" binding:"required"`
	End    time.Time `json:"end" binding:"required"`
}

// BookingDTO is the response representation of a booking. Item and booker are
// identifiers; callers resolve details through the owning services.
type BookingDTO struct {
	ID       uuid.UUID `json:"id"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Status   string    `json:"status"`
	ItemID   uuid.UUID `json:"itemId"`
	BookerID uuid.UUID `json:"bookerId"`
}

// BookingPolicy holds the engine's configurable creation rules.
type BookingPolicy struct {
	// RequireFutureDates rejects creation when start or end lies in the
	// past at evaluation time.
	RequireFutureDates bool
}

// EventPublisher publishes lifecycle events. Satisfied by kafka.Producer.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event kafka.CloudEvent) error
}

// BookingAnnotator is the slice of the booking engine the item views consume:
// last/next projections and the finished-booking existence check.
type BookingAnnotator interface {
	LastBookings(ctx context.Context, itemIDs []uuid.UUID, now time.Time) (map[uuid.UUID]*booking.Ref, error)
	NextBookings(ctx context.Context, itemIDs []uuid.UUID, now time.Time) (map[uuid.UUID]*booking.Ref, error)
	HasFinishedBooking(ctx context.Context, itemID, userID uuid.UUID, now time.Time) (bool, error)
}

// BookingService is the booking engine: creation invariants, the approval
// state machine, filtered listing and temporal annotation.
type BookingService struct {
	repo     booking.Repository
	users    booking.UserDirectory
	items    booking.ItemCatalog
	policy   BookingPolicy
	producer EventPublisher
	logger   *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	repo booking.Repository,
	users booking.UserDirectory,
	items booking.ItemCatalog,
	policy BookingPolicy,
	producer EventPublisher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		repo:     repo,
		users:    users,
		items:    items,
		policy:   policy,
		producer: producer,
		logger:   logger,
	}
}

// AddBooking creates a booking of an item for the requesting user. Checks run
// in a fixed order and the first violation wins; nothing is written unless
// all of them pass.
func (s *BookingService) AddBooking(ctx context.Context, requesterID uuid.UUID, req CreateBookingRequest) (*BookingDTO, error) {
	item, err := s.items.GetItem(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}

	if item.OwnerID == requesterID {
		return nil, domain.NewAccessDeniedError("you cannot book your own item")
	}

	if !item.Available {
		return nil, domain.NewItemUnavailableError("item with id " + req.ItemID.String() + " is unavailable for booking")
	}

	if _, err := s.users.GetUser(ctx, requesterID); err != nil {
		return nil, err
	}

	if s.policy.RequireFutureDates && violatesFuturePolicy(req.Start, req.End, time.Now().UTC()) {
		return nil, domain.NewInvalidDateRangeError("booking start and end cannot be in the past")
	}

	bk, err := booking.NewBooking(req.ItemID, requesterID, req.Start, req.End)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, bk); err != nil {
		return nil, err
	}

	s.publishRequested(ctx, bk)

	result := toBookingDTO(bk)
	return &result, nil
}

// ApproveBooking applies the item owner's decision. Only the owner may
// decide, and an APPROVED booking cannot be re-decided; a REJECTED one still
// can.
func (s *BookingService) ApproveBooking(ctx context.Context, actorID, bookingID uuid.UUID, approve bool) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	item, err := s.items.GetItem(ctx, bk.ItemID())
	if err != nil {
		return nil, err
	}
	if item.OwnerID != actorID {
		return nil, domain.NewAccessDeniedError("access to the booking is denied")
	}

	// Read-then-write: concurrent decisions on the same booking can race
	// past the already-approved check. See the engine tests.
	if err := bk.Decide(approve); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, bk); err != nil {
		return nil, err
	}

	s.publishDecided(ctx, bk, item.OwnerID, approve)

	result := toBookingDTO(bk)
	return &result, nil
}

// GetBooking retrieves a booking for its booker or the item's owner. Any
// other requester gets the same not-found answer as a missing record; the
// two cases are indistinguishable on purpose.
func (s *BookingService) GetBooking(ctx context.Context, requesterID, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	item, err := s.items.GetItem(ctx, bk.ItemID())
	if err != nil {
		return nil, err
	}

	if !bk.IsBookedBy(requesterID) && item.OwnerID != requesterID {
		return nil, domain.NewNotFoundError("booking", bookingID.String())
	}

	result := toBookingDTO(bk)
	return &result, nil
}

// ListByBooker returns the user's own bookings sliced by the given filter.
func (s *BookingService) ListByBooker(ctx context.Context, userID uuid.UUID, state string, from, size int) ([]BookingDTO, error) {
	if _, err := s.users.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	filter, err := booking.ParseFilterState(state)
	if err != nil {
		return nil, err
	}

	page := pageFor(from, size)
	now := time.Now().UTC()

	var list []*booking.Booking
	switch filter {
	case booking.FilterAll:
		list, err = s.repo.FindByBooker(ctx, userID, page, size)
	case booking.FilterFuture:
		list, err = s.repo.FindByBookerInFuture(ctx, userID, now, page, size)
	case booking.FilterPast:
		list, err = s.repo.FindByBookerInPast(ctx, userID, now, page, size)
	case booking.FilterCurrent:
		list, err = s.repo.FindByBookerCurrent(ctx, userID, now, page, size)
	case booking.FilterWaiting:
		list, err = s.repo.FindByBookerWithStatus(ctx, userID, booking.StatusWaiting, page, size)
	case booking.FilterRejected:
		list, err = s.repo.FindByBookerWithStatus(ctx, userID, booking.StatusRejected, page, size)
	}
	if err != nil {
		return nil, err
	}

	return toBookingDTOs(list), nil
}

// ListByOwner returns the bookings of all items the user owns, sliced by the
// given filter.
func (s *BookingService) ListByOwner(ctx context.Context, userID uuid.UUID, state string, from, size int) ([]BookingDTO, error) {
	if _, err := s.users.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	filter, err := booking.ParseFilterState(state)
	if err != nil {
		return nil, err
	}

	page := pageFor(from, size)
	now := time.Now().UTC()

	var list []*booking.Booking
	switch filter {
	case booking.FilterAll:
		list, err = s.repo.FindByItemOwner(ctx, userID, page, size)
	case booking.FilterFuture:
		list, err = s.repo.FindByItemOwnerInFuture(ctx, userID, now, page, size)
	case booking.FilterPast:
		list, err = s.repo.FindByItemOwnerInPast(ctx, userID, now, page, size)
	case booking.FilterCurrent:
		list, err = s.repo.FindByItemOwnerCurrent(ctx, userID, now, page, size)
	case booking.FilterWaiting:
		list, err = s.repo.FindByItemOwnerWithStatus(ctx, userID, booking.StatusWaiting, page, size)
	case booking.FilterRejected:
		list, err = s.repo.FindByItemOwnerWithStatus(ctx, userID, booking.StatusRejected, page, size)
	}
	if err != nil {
		return nil, err
	}

	return toBookingDTOs(list), nil
}

// LastBooking returns the item's most recent booking started strictly before
// now, excluding rejected and canceled ones. A nil Ref means none exists.
func (s *BookingService) LastBooking(ctx context.Context, itemID uuid.UUID, now time.Time) (*booking.Ref, error) {
	refs, err := s.LastBookings(ctx, []uuid.UUID{itemID}, now)
	if err != nil {
		return nil, err
	}
	return refs[itemID], nil
}

// NextBooking returns the item's soonest booking starting strictly after
// now, excluding rejected and canceled ones. A nil Ref means none exists.
func (s *BookingService) NextBooking(ctx context.Context, itemID uuid.UUID, now time.Time) (*booking.Ref, error) {
	refs, err := s.NextBookings(ctx, []uuid.UUID{itemID}, now)
	if err != nil {
		return nil, err
	}
	return refs[itemID], nil
}

// LastBookings is the batch form of LastBooking, one query for many items.
func (s *BookingService) LastBookings(ctx context.Context, itemIDs []uuid.UUID, now time.Time) (map[uuid.UUID]*booking.Ref, error) {
	found, err := s.repo.LastBookingForItems(ctx, itemIDs, now)
	if err != nil {
		return nil, err
	}
	return toRefs(found), nil
}

// NextBookings is the batch form of NextBooking.
func (s *BookingService) NextBookings(ctx context.Context, itemIDs []uuid.UUID, now time.Time) (map[uuid.UUID]*booking.Ref, error) {
	found, err := s.repo.NextBookingForItems(ctx, itemIDs, now)
	if err != nil {
		return nil, err
	}
	return toRefs(found), nil
}

// HasFinishedBooking reports whether the user completed a non-rejected
// booking of the item before now. Gates comment creation.
func (s *BookingService) HasFinishedBooking(ctx context.Context, itemID, userID uuid.UUID, now time.Time) (bool, error) {
	return s.repo.ExistsFinishedBooking(ctx, itemID, userID, now)
}

// --- Helpers ---

// violatesFuturePolicy reports whether either endpoint fails the
// strictly-in-the-future rule: an endpoint equal to now is not in the future.
func violatesFuturePolicy(start, end, now time.Time) bool {
	return !start.After(now) || !end.After(now)
}

// pageFor converts the from/size query pair into a 1-based page index. from
// is a page-aligned offset, not an arbitrary skip count: from=5,size=10 lands
// on page 1, same as from=0. A non-positive size falls back to the first
// page; the transport layer rejects it before it gets here.
func pageFor(from, size int) int {
	if from > 0 && size > 0 {
		return from/size + 1
	}
	return 1
}

func toBookingDTO(b *booking.Booking) BookingDTO {
	return BookingDTO{
		ID:       b.ID(),
		Start:    b.Start(),
		End:      b.End(),
		Status:   b.Status().String(),
		ItemID:   b.ItemID(),
		BookerID: b.BookerID(),
	}
}

func toBookingDTOs(list []*booking.Booking) []BookingDTO {
	dtos := make([]BookingDTO, len(list))
	for i, b := range list {
		dtos[i] = toBookingDTO(b)
	}
	return dtos
}

func toRefs(found map[uuid.UUID]*booking.Booking) map[uuid.UUID]*booking.Ref {
	refs := make(map[uuid.UUID]*booking.Ref, len(found))
	for itemID, b := range found {
		refs[itemID] = booking.NewRef(b)
	}
	return refs
}

func (s *BookingService) publishRequested(ctx context.Context, bk *booking.Booking) {
	evt := events.BookingRequestedEvent{
		BookingID:  bk.ID(),
		ItemID:     bk.ItemID(),
		BookerID:   bk.BookerID(),
		Start:      bk.Start(),
		End:        bk.End(),
		OccurredAt: time.Now().UTC(),
	}
	s.publishEvent(ctx, events.BookingRequested, bk.ID().String(), evt)
}

func (s *BookingService) publishDecided(ctx context.Context, bk *booking.Booking, ownerID uuid.UUID, approved bool) {
	eventType := events.BookingApproved
	if !approved {
		eventType = events.BookingRejected
	}
	evt := events.BookingDecidedEvent{
		BookingID:  bk.ID(),
		ItemID:     bk.ItemID(),
		BookerID:   bk.BookerID(),
		OwnerID:    ownerID,
		Approved:   approved,
		OccurredAt: time.Now().UTC(),
	}
	s.publishEvent(ctx, eventType, bk.ID().String(), evt)
}

func (s *BookingService) publishEvent(ctx context.Context, eventType, key string, data interface{}) {
	cloudEvent, err := kafka.NewCloudEvent("service-sharing", eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := s.producer.PublishEvent(ctx, events.TopicBookingEvents, key, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", events.TopicBookingEvents),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
