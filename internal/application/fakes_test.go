package application

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sharebay/service-sharing/internal/domain/booking"
	"github.com/sharebay/service-sharing/internal/domain/item"
	"github.com/sharebay/service-sharing/internal/domain/request"
	"github.com/sharebay/service-sharing/internal/domain/user"
	"github.com/sharebay/service-sharing/internal/pkg/domain"
	"github.com/sharebay/service-sharing/internal/pkg/kafka"
)

// fakeBookingRepo is an in-memory booking.Repository. The filtered finders
// implement the same strict-inequality temporal rules as the SQL layer so the
// engine can be exercised without a database.
type fakeBookingRepo struct {
	bookings  map[uuid.UUID]*booking.Booking
	itemOwner map[uuid.UUID]uuid.UUID
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{
		bookings:  make(map[uuid.UUID]*booking.Booking),
		itemOwner: make(map[uuid.UUID]uuid.UUID),
	}
}

func (f *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, domain.NewNotFoundError("booking", id.String())
	}
	return b, nil
}

func (f *fakeBookingRepo) Save(_ context.Context, b *booking.Booking) error {
	f.bookings[b.ID()] = b
	return nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, b *booking.Booking) error {
	if _, ok := f.bookings[b.ID()]; !ok {
		return domain.NewNotFoundError("booking", b.ID().String())
	}
	f.bookings[b.ID()] = b
	return nil
}

func (f *fakeBookingRepo) all(pred func(*booking.Booking) bool, byEnd bool, page, limit int) []*booking.Booking {
	var list []*booking.Booking
	for _, b := range f.bookings {
		if pred(b) {
			list = append(list, b)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if byEnd {
			return list[i].End().After(list[j].End())
		}
		return list[i].Start().After(list[j].Start())
	})
	offset := (page - 1) * limit
	if offset >= len(list) {
		return nil
	}
	end := offset + limit
	if end > len(list) {
		end = len(list)
	}
	return list[offset:end]
}

func (f *fakeBookingRepo) FindByBooker(_ context.Context, bookerID uuid.UUID, page, limit int) ([]*booking.Booking, error) {
	return f.all(func(b *booking.Booking) bool { return b.BookerID() == bookerID }, false, page, limit), nil
}

func (f *fakeBookingRepo) FindByBookerInFuture(_ context.Context, bookerID uuid.UUID, now time.Time, page, limit int) ([]*booking.Booking, error) {
	return f.all(func(b *booking.Booking) bool {
		return b.BookerID() == bookerID && b.Start().After(now)
	}, false, page, limit), nil
}

func (f *fakeBookingRepo) FindByBookerInPast(_ context.Context, bookerID uuid.UUID, now time.Time, page, limit int) ([]*booking.Booking, error) {
	return f.all(func(b *booking.Booking) bool {
		return b.BookerID() == bookerID && b.End().Before(now)
	}, false, page, limit), nil
}

func (f *fakeBookingRepo) FindByBookerCurrent(_ context.Context, bookerID uuid.UUID, now time.Time, page, limit int) ([]*booking.Booking, error) {
	return f.all(func(b *booking.Booking) bool {
		return b.BookerID() == bookerID && b.Start().Before(now) && b.End().After(now)
	}, true, page, limit), nil
}

func (f *fakeBookingRepo) FindByBookerWithStatus(_ context.Context, bookerID uuid.UUID, status booking.Status, page, limit int) ([]*booking.Booking, error) {
	return f.all(func(b *booking.Booking) bool {
		return b.BookerID() == bookerID && b.Status() == status
	}, false, page, limit), nil
}

func (f *fakeBookingRepo) ownerOf(b *booking.Booking) uuid.UUID {
	return f.itemOwner[b.ItemID()]
}

func (f *fakeBookingRepo) FindByItemOwner(_ context.Context, ownerID uuid.UUID, page, limit int) ([]*booking.Booking, error) {
	return f.all(func(b *booking.Booking) bool { return f.ownerOf(b) == ownerID }, false, page, limit), nil
}

func (f *fakeBookingRepo) FindByItemOwnerInFuture(_ context.Context, ownerID uuid.UUID, now time.Time, page, limit int) ([]*booking.Booking, error) {
	return f.all(func(b *booking.Booking) bool {
		return f.ownerOf(b) == ownerID && b.Start().After(now)
	}, false, page, limit), nil
}

func (f *fakeBookingRepo) FindByItemOwnerInPast(_ context.Context, ownerID uuid.UUID, now time.Time, page, limit int) ([]*booking.Booking, error) {
	return f.all(func(b *booking.Booking) bool {
		return f.ownerOf(b) == ownerID && b.End().Before(now)
	}, false, page, limit), nil
}

func (f *fakeBookingRepo) FindByItemOwnerCurrent(_ context.Context, ownerID uuid.UUID, now time.Time, page, limit int) ([]*booking.Booking, error) {
	return f.all(func(b *booking.Booking) bool {
		return f.ownerOf(b) == ownerID && b.Start().Before(now) && b.End().After(now)
	}, true, page, limit), nil
}

func (f *fakeBookingRepo) FindByItemOwnerWithStatus(_ context.Context, ownerID uuid.UUID, status booking.Status, page, limit int) ([]*booking.Booking, error) {
	return f.all(func(b *booking.Booking) bool {
		return f.ownerOf(b) == ownerID && b.Status() == status
	}, false, page, limit), nil
}

func excluded(s booking.Status) bool {
	for _, e := range booking.AnnotationExcludedStatuses {
		if s == e {
			return true
		}
	}
	return false
}

func (f *fakeBookingRepo) LastBookingForItems(_ context.Context, itemIDs []uuid.UUID, now time.Time) (map[uuid.UUID]*booking.Booking, error) {
	result := make(map[uuid.UUID]*booking.Booking)
	for _, itemID := range itemIDs {
		for _, b := range f.bookings {
			if b.ItemID() != itemID || excluded(b.Status()) || !b.Start().Before(now) {
				continue
			}
			if cur, ok := result[itemID]; !ok || b.Start().After(cur.Start()) {
				result[itemID] = b
			}
		}
	}
	return result, nil
}

func (f *fakeBookingRepo) NextBookingForItems(_ context.Context, itemIDs []uuid.UUID, now time.Time) (map[uuid.UUID]*booking.Booking, error) {
	result := make(map[uuid.UUID]*booking.Booking)
	for _, itemID := range itemIDs {
		for _, b := range f.bookings {
			if b.ItemID() != itemID || excluded(b.Status()) || !b.Start().After(now) {
				continue
			}
			if cur, ok := result[itemID]; !ok || b.Start().Before(cur.Start()) {
				result[itemID] = b
			}
		}
	}
	return result, nil
}

func (f *fakeBookingRepo) ExistsFinishedBooking(_ context.Context, itemID, bookerID uuid.UUID, now time.Time) (bool, error) {
	for _, b := range f.bookings {
		if b.ItemID() == itemID && b.BookerID() == bookerID && !excluded(b.Status()) && b.End().Before(now) {
			return true, nil
		}
	}
	return false, nil
}

// fakeCatalog implements booking.ItemCatalog over a fixed item set.
type fakeCatalog struct {
	items map[uuid.UUID]*booking.CatalogItem
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{items: make(map[uuid.UUID]*booking.CatalogItem)}
}

func (f *fakeCatalog) add(it booking.CatalogItem) {
	f.items[it.ID] = &it
}

func (f *fakeCatalog) GetItem(_ context.Context, id uuid.UUID) (*booking.CatalogItem, error) {
	it, ok := f.items[id]
	if !ok {
		return nil, domain.NewNotFoundError("item", id.String())
	}
	return it, nil
}

// fakeDirectory implements booking.UserDirectory over a fixed user set.
type fakeDirectory struct {
	users map[uuid.UUID]*booking.DirectoryUser
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{users: make(map[uuid.UUID]*booking.DirectoryUser)}
}

func (f *fakeDirectory) add(u booking.DirectoryUser) {
	f.users[u.ID] = &u
}

func (f *fakeDirectory) GetUser(_ context.Context, id uuid.UUID) (*booking.DirectoryUser, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, domain.NewNotFoundError("user", id.String())
	}
	return u, nil
}

// capturingPublisher records every published event in order.
type capturingPublisher struct {
	published []kafka.CloudEvent
}

func (p *capturingPublisher) PublishEvent(_ context.Context, _, _ string, event kafka.CloudEvent) error {
	p.published = append(p.published, event)
	return nil
}

// fakeUserRepo is an in-memory user.Repository.
type fakeUserRepo struct {
	users map[uuid.UUID]*user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*user.User)}
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, domain.NewNotFoundError("user", id.String())
	}
	return u, nil
}

func (f *fakeUserRepo) FindAll(_ context.Context) ([]*user.User, error) {
	var list []*user.User
	for _, u := range f.users {
		list = append(list, u)
	}
	return list, nil
}

func (f *fakeUserRepo) emailTaken(email string, except uuid.UUID) bool {
	for _, u := range f.users {
		if u.Email() == email && u.ID() != except {
			return true
		}
	}
	return false
}

func (f *fakeUserRepo) Save(_ context.Context, u *user.User) error {
	if f.emailTaken(u.Email(), u.ID()) {
		return domain.NewConflictError("email " + u.Email() + " is already taken")
	}
	f.users[u.ID()] = u
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, u *user.User) error {
	if _, ok := f.users[u.ID()]; !ok {
		return domain.NewNotFoundError("user", u.ID().String())
	}
	if f.emailTaken(u.Email(), u.ID()) {
		return domain.NewConflictError("email " + u.Email() + " is already taken")
	}
	f.users[u.ID()] = u
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.users[id]; !ok {
		return domain.NewNotFoundError("user", id.String())
	}
	delete(f.users, id)
	return nil
}

// fakeItemRepo is an in-memory item.Repository.
type fakeItemRepo struct {
	items map[uuid.UUID]*item.Item
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: make(map[uuid.UUID]*item.Item)}
}

func (f *fakeItemRepo) FindByID(_ context.Context, id uuid.UUID) (*item.Item, error) {
	it, ok := f.items[id]
	if !ok {
		return nil, domain.NewNotFoundError("item", id.String())
	}
	return it, nil
}

func (f *fakeItemRepo) FindByOwner(_ context.Context, ownerID uuid.UUID, _, _ int) ([]*item.Item, error) {
	var list []*item.Item
	for _, it := range f.items {
		if it.OwnerID() == ownerID {
			list = append(list, it)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt().Before(list[j].CreatedAt()) })
	return list, nil
}

func (f *fakeItemRepo) Search(_ context.Context, text string, _, _ int) ([]*item.Item, error) {
	var list []*item.Item
	for _, it := range f.items {
		if it.Available() && (containsFold(it.Name(), text) || containsFold(it.Description(), text)) {
			list = append(list, it)
		}
	}
	return list, nil
}

func (f *fakeItemRepo) FindByRequestIDs(_ context.Context, requestIDs []uuid.UUID) ([]*item.Item, error) {
	var list []*item.Item
	for _, it := range f.items {
		if it.RequestID() == nil {
			continue
		}
		for _, id := range requestIDs {
			if *it.RequestID() == id {
				list = append(list, it)
				break
			}
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt().Before(list[j].CreatedAt()) })
	return list, nil
}

func (f *fakeItemRepo) Save(_ context.Context, it *item.Item) error {
	f.items[it.ID()] = it
	return nil
}

func (f *fakeItemRepo) Update(_ context.Context, it *item.Item) error {
	if _, ok := f.items[it.ID()]; !ok {
		return domain.NewNotFoundError("item", it.ID().String())
	}
	f.items[it.ID()] = it
	return nil
}

// fakeRequestRepo is an in-memory request.Repository.
type fakeRequestRepo struct {
	requests map[uuid.UUID]*request.ItemRequest
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: make(map[uuid.UUID]*request.ItemRequest)}
}

func (f *fakeRequestRepo) FindByID(_ context.Context, id uuid.UUID) (*request.ItemRequest, error) {
	r, ok := f.requests[id]
	if !ok {
		return nil, domain.NewNotFoundError("request", id.String())
	}
	return r, nil
}

func (f *fakeRequestRepo) sorted(pred func(*request.ItemRequest) bool) []*request.ItemRequest {
	var list []*request.ItemRequest
	for _, r := range f.requests {
		if pred(r) {
			list = append(list, r)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt().Before(list[j].CreatedAt()) })
	return list
}

func (f *fakeRequestRepo) FindByRequestor(_ context.Context, requestorID uuid.UUID) ([]*request.ItemRequest, error) {
	return f.sorted(func(r *request.ItemRequest) bool { return r.IsRequestedBy(requestorID) }), nil
}

func (f *fakeRequestRepo) FindByOtherRequestors(_ context.Context, requestorID uuid.UUID, page, limit int) ([]*request.ItemRequest, error) {
	list := f.sorted(func(r *request.ItemRequest) bool { return !r.IsRequestedBy(requestorID) })
	offset := (page - 1) * limit
	if offset >= len(list) {
		return nil, nil
	}
	end := offset + limit
	if end > len(list) {
		end = len(list)
	}
	return list[offset:end], nil
}

func (f *fakeRequestRepo) Save(_ context.Context, r *request.ItemRequest) error {
	f.requests[r.ID()] = r
	return nil
}

// fakeCommentRepo is an in-memory item.CommentRepository.
type fakeCommentRepo struct {
	comments []*item.Comment
}

func (f *fakeCommentRepo) FindByItem(_ context.Context, itemID uuid.UUID) ([]*item.Comment, error) {
	var list []*item.Comment
	for _, c := range f.comments {
		if c.ItemID() == itemID {
			list = append(list, c)
		}
	}
	return list, nil
}

func (f *fakeCommentRepo) Save(_ context.Context, c *item.Comment) error {
	f.comments = append(f.comments, c)
	return nil
}

// fakeAnnotator is a canned BookingAnnotator for the item view tests.
type fakeAnnotator struct {
	last     map[uuid.UUID]*booking.Ref
	next     map[uuid.UUID]*booking.Ref
	finished bool
}

func (f *fakeAnnotator) LastBookings(_ context.Context, _ []uuid.UUID, _ time.Time) (map[uuid.UUID]*booking.Ref, error) {
	return f.last, nil
}

func (f *fakeAnnotator) NextBookings(_ context.Context, _ []uuid.UUID, _ time.Time) (map[uuid.UUID]*booking.Ref, error) {
	return f.next, nil
}

func (f *fakeAnnotator) HasFinishedBooking(_ context.Context, _, _ uuid.UUID, _ time.Time) (bool, error) {
	return f.finished, nil
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
