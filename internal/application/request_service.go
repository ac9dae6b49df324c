package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sharebay/service-sharing/internal/domain/item"
	"github.com/sharebay/service-sharing/internal/domain/request"
	"github.com/sharebay/service-sharing/internal/domain/user"
)

// CreateRequestRequest is the request DTO for asking for an item.
type CreateRequestRequest struct {
	Description string `json:"description" binding:"required"`
}

// RequestDTO is the response representation of an item request, carrying the
// items listed in answer to it.
type RequestDTO struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description"`
	Created     time.Time `json:"created"`
	Items       []ItemDTO `json:"items"`
}

// RequestService implements use cases for item requests: asking for an item
// and browsing requests with their answers.
type RequestService struct {
	requests request.Repository
	items    item.Repository
	users    user.Repository
	logger   *zap.Logger
}

// NewRequestService creates a new RequestService.
func NewRequestService(
	requests request.Repository,
	items item.Repository,
	users user.Repository,
	logger *zap.Logger,
) *RequestService {
	return &RequestService{
		requests: requests,
		items:    items,
		users:    users,
		logger:   logger,
	}
}

// AddRequest records a new item request for the given user.
func (s *RequestService) AddRequest(ctx context.Context, userID uuid.UUID, req CreateRequestRequest) (*RequestDTO, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	r, err := request.NewItemRequest(userID, req.Description)
	if err != nil {
		return nil, err
	}

	if err := s.requests.Save(ctx, r); err != nil {
		return nil, err
	}

	result := toRequestDTO(r, nil)
	return &result, nil
}

// GetOwnRequests returns the user's requests, oldest first, each with the
// items listed in answer to it.
func (s *RequestService) GetOwnRequests(ctx context.Context, userID uuid.UUID) ([]RequestDTO, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	list, err := s.requests.FindByRequestor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.withAnswers(ctx, list)
}

// GetAllRequests returns other users' requests, oldest first, so a browsing
// user never sees their own asks in the feed.
func (s *RequestService) GetAllRequests(ctx context.Context, userID uuid.UUID, from, size int) ([]RequestDTO, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	list, err := s.requests.FindByOtherRequestors(ctx, userID, pageFor(from, size), size)
	if err != nil {
		return nil, err
	}
	return s.withAnswers(ctx, list)
}

// GetRequest returns a single request with its answers. Any registered user
// may view any request.
func (s *RequestService) GetRequest(ctx context.Context, userID, requestID uuid.UUID) (*RequestDTO, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	r, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	answers, err := s.items.FindByRequestIDs(ctx, []uuid.UUID{r.ID()})
	if err != nil {
		return nil, err
	}

	result := toRequestDTO(r, answers)
	return &result, nil
}

// withAnswers resolves the answering items for a batch of requests in one
// query and groups them per request.
func (s *RequestService) withAnswers(ctx context.Context, list []*request.ItemRequest) ([]RequestDTO, error) {
	requestIDs := make([]uuid.UUID, len(list))
	for i, r := range list {
		requestIDs[i] = r.ID()
	}

	answers, err := s.items.FindByRequestIDs(ctx, requestIDs)
	if err != nil {
		return nil, err
	}

	byRequest := make(map[uuid.UUID][]*item.Item)
	for _, it := range answers {
		if it.RequestID() != nil {
			byRequest[*it.RequestID()] = append(byRequest[*it.RequestID()], it)
		}
	}

	dtos := make([]RequestDTO, len(list))
	for i, r := range list {
		dtos[i] = toRequestDTO(r, byRequest[r.ID()])
	}
	return dtos, nil
}

func toRequestDTO(r *request.ItemRequest, answers []*item.Item) RequestDTO {
	items := make([]ItemDTO, len(answers))
	for i, it := range answers {
		items[i] = toItemDTO(it)
	}
	return RequestDTO{
		ID:          r.ID(),
		Description: r.Description(),
		Created:     r.CreatedAt(),
		Items:       items,
	}
}
