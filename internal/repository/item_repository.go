package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	itemDomain "github.com/sharebay/service-sharing/internal/domain/item"
	"github.com/sharebay/service-sharing/internal/pkg/domain"
)

// ItemModel is the GORM model for the items table.
type ItemModel struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name        string     `gorm:"not null;size:255"`
	Description string     `gorm:"not null;size:2000"`
	Available   bool       `gorm:"not null"`
	OwnerID     uuid.UUID  `gorm:"type:uuid;index;not null"`
	RequestID   *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt   time.Time  `gorm:"not null"`
	UpdatedAt   time.Time  `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (ItemModel) TableName() string {
	return "items"
}

// GormItemRepository is the GORM-based implementation of the item repository.
type GormItemRepository struct {
	db *gorm.DB
}

// NewGormItemRepository creates a new GormItemRepository.
func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

// FindByID retrieves an item by its unique identifier.
func (r *GormItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*itemDomain.Item, error) {
	var model ItemModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("item", id.String())
		}
		return nil, fmt.Errorf("failed to find item by ID: %w", err)
	}
	return toDomainItem(&model), nil
}

// FindByOwner retrieves the owner's items, oldest first.
func (r *GormItemRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID, page, limit int) ([]*itemDomain.Item, error) {
	var models []ItemModel
	offset := (page - 1) * limit
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find owner items: %w", err)
	}
	return toDomainItems(models), nil
}

// Search returns available items whose name or description contains the
// text, case-insensitively.
func (r *GormItemRepository) Search(ctx context.Context, text string, page, limit int) ([]*itemDomain.Item, error) {
	var models []ItemModel
	offset := (page - 1) * limit
	pattern := "%" + text + "%"
	err := r.db.WithContext(ctx).
		Where("available = true").
		Where("name ILIKE ? OR description ILIKE ?", pattern, pattern).
		Order("created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search items: %w", err)
	}
	return toDomainItems(models), nil
}

// FindByRequestIDs returns all items answering any of the given requests.
func (r *GormItemRepository) FindByRequestIDs(ctx context.Context, requestIDs []uuid.UUID) ([]*itemDomain.Item, error) {
	if len(requestIDs) == 0 {
		return []*itemDomain.Item{}, nil
	}

	var models []ItemModel
	err := r.db.WithContext(ctx).
		Where("request_id IN ?", requestIDs).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find items by request IDs: %w", err)
	}
	return toDomainItems(models), nil
}

// Save persists a new item.
func (r *GormItemRepository) Save(ctx context.Context, i *itemDomain.Item) error {
	if err := r.db.WithContext(ctx).Create(toItemModel(i)).Error; err != nil {
		return fmt.Errorf("failed to save item: %w", err)
	}
	return nil
}

// Update persists changes to an existing item.
func (r *GormItemRepository) Update(ctx context.Context, i *itemDomain.Item) error {
	result := r.db.WithContext(ctx).
		Model(&ItemModel{}).
		Where("id = ?", i.ID()).
		Updates(map[string]interface{}{
			"name":        i.Name(),
			"description": i.Description(),
			"available":   i.Available(),
			"updated_at":  i.UpdatedAt(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("item", i.ID().String())
	}
	return nil
}

func toItemModel(i *itemDomain.Item) *ItemModel {
	return &ItemModel{
		ID:          i.ID(),
		Name:        i.Name(),
		Description: i.Description(),
		Available:   i.Available(),
		OwnerID:     i.OwnerID(),
		RequestID:   i.RequestID(),
		CreatedAt:   i.CreatedAt(),
		UpdatedAt:   i.UpdatedAt(),
	}
}

func toDomainItem(m *ItemModel) *itemDomain.Item {
	return itemDomain.Reconstruct(m.ID, m.Name, m.Description, m.Available, m.OwnerID, m.RequestID, m.CreatedAt, m.UpdatedAt)
}

func toDomainItems(models []ItemModel) []*itemDomain.Item {
	items := make([]*itemDomain.Item, len(models))
	for i := range models {
		items[i] = toDomainItem(&models[i])
	}
	return items
}
