package application

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sharebay/service-sharing/internal/domain/booking"
	"github.com/sharebay/service-sharing/internal/domain/item"
	"github.com/sharebay/service-sharing/internal/domain/user"
	"github.com/sharebay/service-sharing/internal/pkg/domain"
)

// CreateItemRequest is the request DTO for listing an item. RequestID marks
// the item as an answer to an existing item request.
type CreateItemRequest struct {
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description" binding:"required"`
	Available   *bool      `json:"available" binding:"required"`
	RequestID   *uuid.UUID `json:"requestId"`
}

// UpdateItemRequest is the request DTO for a partial item update.
type UpdateItemRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

// CreateCommentRequest is the request DTO for commenting on an item.
type CreateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// CommentDTO is the response representation of a comment.
type CommentDTO struct {
	ID         uuid.UUID `json:"id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"authorName"`
	Created    time.Time `json:"created"`
}

// ItemDTO is the response representation of an item. LastBooking and
// NextBooking are populated only when the viewer owns the item; for anyone
// else they are silently absent.
type ItemDTO struct {
	ID          uuid.UUID    `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Available   bool         `json:"available"`
	OwnerID     uuid.UUID    `json:"ownerId"`
	RequestID   *uuid.UUID   `json:"requestId,omitempty"`
	LastBooking *booking.Ref `json:"lastBooking,omitempty"`
	NextBooking *booking.Ref `json:"nextBooking,omitempty"`
	Comments    []CommentDTO `json:"comments,omitempty"`
}

// ItemService implements use cases for the item catalog: listing, search,
// comments and the owner-only booking annotations on item views.
type ItemService struct {
	items    item.Repository
	comments item.CommentRepository
	users    user.Repository
	bookings BookingAnnotator
	logger   *zap.Logger
}

// NewItemService creates a new ItemService.
func NewItemService(
	items item.Repository,
	comments item.CommentRepository,
	users user.Repository,
	bookings BookingAnnotator,
	logger *zap.Logger,
) *ItemService {
	return &ItemService{
		items:    items,
		comments: comments,
		users:    users,
		bookings: bookings,
		logger:   logger,
	}
}

// AddItem lists a new item owned by the given user.
func (s *ItemService) AddItem(ctx context.Context, ownerID uuid.UUID, req CreateItemRequest) (*ItemDTO, error) {
	if _, err := s.users.FindByID(ctx, ownerID); err != nil {
		return nil, err
	}

	available := true
	if req.Available != nil {
		available = *req.Available
	}

	it, err := item.NewItem(ownerID, req.Name, req.Description, available, req.RequestID)
	if err != nil {
		return nil, err
	}

	if err := s.items.Save(ctx, it); err != nil {
		return nil, err
	}

	result := toItemDTO(it)
	return &result, nil
}

// UpdateItem applies a partial update. Only the owner may update an item.
func (s *ItemService) UpdateItem(ctx context.Context, userID, itemID uuid.UUID, req UpdateItemRequest) (*ItemDTO, error) {
	it, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if !it.IsOwnedBy(userID) {
		return nil, domain.NewAccessDeniedError("item does not belong to user " + userID.String())
	}

	it.Update(req.Name, req.Description, req.Available)

	if err := s.items.Update(ctx, it); err != nil {
		return nil, err
	}

	result := toItemDTO(it)
	return &result, nil
}

// GetItem returns the item detail view with its comments. The last/next
// booking annotations are computed only for the item's owner.
func (s *ItemService) GetItem(ctx context.Context, viewerID, itemID uuid.UUID) (*ItemDTO, error) {
	it, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	result := toItemDTO(it)

	if it.IsOwnedBy(viewerID) {
		now := time.Now().UTC()

		last, err := s.bookings.LastBookings(ctx, []uuid.UUID{itemID}, now)
		if err != nil {
			return nil, err
		}
		next, err := s.bookings.NextBookings(ctx, []uuid.UUID{itemID}, now)
		if err != nil {
			return nil, err
		}
		result.LastBooking = last[itemID]
		result.NextBooking = next[itemID]
	}

	comments, err := s.comments.FindByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	result.Comments = toCommentDTOs(comments)

	return &result, nil
}

// GetOwnerItems returns the user's items with last/next annotations, resolved
// in two batch queries instead of one pair per item.
func (s *ItemService) GetOwnerItems(ctx context.Context, ownerID uuid.UUID, from, size int) ([]ItemDTO, error) {
	if _, err := s.users.FindByID(ctx, ownerID); err != nil {
		return nil, err
	}

	list, err := s.items.FindByOwner(ctx, ownerID, pageFor(from, size), size)
	if err != nil {
		return nil, err
	}

	itemIDs := make([]uuid.UUID, len(list))
	for i, it := range list {
		itemIDs[i] = it.ID()
	}

	now := time.Now().UTC()
	last, err := s.bookings.LastBookings(ctx, itemIDs, now)
	if err != nil {
		return nil, err
	}
	next, err := s.bookings.NextBookings(ctx, itemIDs, now)
	if err != nil {
		return nil, err
	}

	dtos := make([]ItemDTO, len(list))
	for i, it := range list {
		dto := toItemDTO(it)
		dto.LastBooking = last[it.ID()]
		dto.NextBooking = next[it.ID()]
		dtos[i] = dto
	}
	return dtos, nil
}

// SearchItems returns available items matching the text in name or
// description. Blank text yields an empty result, not an error.
func (s *ItemService) SearchItems(ctx context.Context, text string, from, size int) ([]ItemDTO, error) {
	if strings.TrimSpace(text) == "" {
		return []ItemDTO{}, nil
	}

	list, err := s.items.Search(ctx, text, pageFor(from, size), size)
	if err != nil {
		return nil, err
	}

	dtos := make([]ItemDTO, len(list))
	for i, it := range list {
		dtos[i] = toItemDTO(it)
	}
	return dtos, nil
}

// AddComment lets a renter comment on an item, but only after a finished
// non-rejected booking of that item.
func (s *ItemService) AddComment(ctx context.Context, userID, itemID uuid.UUID, req CreateCommentRequest) (*CommentDTO, error) {
	ok, err := s.bookings.HasFinishedBooking(ctx, itemID, userID, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.NewValidationError("you cannot comment on item " + itemID.String() + " without a finished booking")
	}

	if _, err := s.items.FindByID(ctx, itemID); err != nil {
		return nil, err
	}

	author, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	comment, err := item.NewComment(itemID, userID, author.Name(), req.Text)
	if err != nil {
		return nil, err
	}

	if err := s.comments.Save(ctx, comment); err != nil {
		return nil, err
	}

	result := toCommentDTO(comment)
	return &result, nil
}

// --- Helpers ---

func toItemDTO(it *item.Item) ItemDTO {
	return ItemDTO{
		ID:          it.ID(),
		Name:        it.Name(),
		Description: it.Description(),
		Available:   it.Available(),
		OwnerID:     it.OwnerID(),
		RequestID:   it.RequestID(),
	}
}

func toCommentDTO(c *item.Comment) CommentDTO {
	return CommentDTO{
		ID:         c.ID(),
		Text:       c.Text(),
		AuthorName: c.AuthorName(),
		Created:    c.CreatedAt(),
	}
}

func toCommentDTOs(comments []*item.Comment) []CommentDTO {
	dtos := make([]CommentDTO, len(comments))
	for i, c := range comments {
		dtos[i] = toCommentDTO(c)
	}
	return dtos
}
