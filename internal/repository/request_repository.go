package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	requestDomain "github.com/sharebay/service-sharing/internal/domain/request"
	"github.com/sharebay/service-sharing/internal/pkg/domain"
)

// RequestModel is the GORM model for the item_requests table.
type RequestModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Description string    `gorm:"not null;size:2000"`
	RequestorID uuid.UUID `gorm:"type:uuid;index;not null"`
	CreatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (RequestModel) TableName() string {
	return "item_requests"
}

// GormRequestRepository is the GORM-based implementation of the item-request
// repository.
type GormRequestRepository struct {
	db *gorm.DB
}

// NewGormRequestRepository creates a new GormRequestRepository.
func NewGormRequestRepository(db *gorm.DB) *GormRequestRepository {
	return &GormRequestRepository{db: db}
}

// FindByID retrieves a request by its unique identifier.
func (r *GormRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*requestDomain.ItemRequest, error) {
	var model RequestModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("request", id.String())
		}
		return nil, fmt.Errorf("failed to find request by ID: %w", err)
	}
	return toDomainRequest(&model), nil
}

// FindByRequestor returns the user's own requests, oldest first.
func (r *GormRequestRepository) FindByRequestor(ctx context.Context, requestorID uuid.UUID) ([]*requestDomain.ItemRequest, error) {
	var models []RequestModel
	err := r.db.WithContext(ctx).
		Where("requestor_id = ?", requestorID).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find requests by requestor: %w", err)
	}
	return toDomainRequests(models), nil
}

// FindByOtherRequestors returns everyone else's requests, oldest first.
func (r *GormRequestRepository) FindByOtherRequestors(ctx context.Context, requestorID uuid.UUID, page, limit int) ([]*requestDomain.ItemRequest, error) {
	var models []RequestModel
	offset := (page - 1) * limit
	err := r.db.WithContext(ctx).
		Where("requestor_id <> ?", requestorID).
		Order("created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find other requestors' requests: %w", err)
	}
	return toDomainRequests(models), nil
}

// Save persists a new request.
func (r *GormRequestRepository) Save(ctx context.Context, req *requestDomain.ItemRequest) error {
	model := &RequestModel{
		ID:          req.ID(),
		Description: req.Description(),
		RequestorID: req.RequestorID(),
		CreatedAt:   req.CreatedAt(),
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save request: %w", err)
	}
	return nil
}

func toDomainRequest(m *RequestModel) *requestDomain.ItemRequest {
	return requestDomain.Reconstruct(m.ID, m.Description, m.RequestorID, m.CreatedAt)
}

func toDomainRequests(models []RequestModel) []*requestDomain.ItemRequest {
	requests := make([]*requestDomain.ItemRequest, len(models))
	for i := range models {
		requests[i] = toDomainRequest(&models[i])
	}
	return requests
}
