package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	itemDomain "github.com/sharebay/service-sharing/internal/domain/item"
)

// CommentModel is the GORM model for the comments table.
type CommentModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ItemID    uuid.UUID `gorm:"type:uuid;index;not null"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null"`
	Text      string    `gorm:"not null;size:2000"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (CommentModel) TableName() string {
	return "comments"
}

// commentRow carries a comment joined with its author's current name.
type commentRow struct {
	ID         uuid.UUID
	ItemID     uuid.UUID
	AuthorID   uuid.UUID
	AuthorName string
	Text       string
	CreatedAt  time.Time
}

// GormCommentRepository is the GORM-based implementation of the comment
// repository.
type GormCommentRepository struct {
	db *gorm.DB
}

// NewGormCommentRepository creates a new GormCommentRepository.
func NewGormCommentRepository(db *gorm.DB) *GormCommentRepository {
	return &GormCommentRepository{db: db}
}

// FindByItem returns the item's comments oldest first. Author names are
// resolved against the users table at read time.
func (r *GormCommentRepository) FindByItem(ctx context.Context, itemID uuid.UUID) ([]*itemDomain.Comment, error) {
	var rows []commentRow
	err := r.db.WithContext(ctx).
		Model(&CommentModel{}).
		Select("comments.id, comments.item_id, comments.author_id, users.name AS author_name, comments.text, comments.created_at").
		Joins("JOIN users ON users.id = comments.author_id").
		Where("comments.item_id = ?", itemID).
		Order("comments.created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find item comments: %w", err)
	}

	comments := make([]*itemDomain.Comment, len(rows))
	for i, row := range rows {
		comments[i] = itemDomain.ReconstructComment(row.ID, row.ItemID, row.AuthorID, row.AuthorName, row.Text, row.CreatedAt)
	}
	return comments, nil
}

// Save persists a new comment.
func (r *GormCommentRepository) Save(ctx context.Context, c *itemDomain.Comment) error {
	model := &CommentModel{
		ID:        c.ID(),
		ItemID:    c.ItemID(),
		AuthorID:  c.AuthorID(),
		Text:      c.Text(),
		CreatedAt: c.CreatedAt(),
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save comment: %w", err)
	}
	return nil
}
