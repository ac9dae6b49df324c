package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	bookingDomain "github.com/sharebay/service-sharing/internal/domain/booking"
	"github.com/sharebay/service-sharing/internal/pkg/domain"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ItemID    uuid.UUID `gorm:"type:uuid;index;not null"`
	BookerID  uuid.UUID `gorm:"type:uuid;index;not null"`
	StartDate time.Time `gorm:"not null;index"`
	EndDate   time.Time `gorm:"not null"`
	Status    string    `gorm:"not null;size:20;index"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of the booking
// repository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("booking", id.String())
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// Save persists a new booking as a single insert.
func (r *GormBookingRepository) Save(ctx context.Context, b *bookingDomain.Booking) error {
	if err := r.db.WithContext(ctx).Create(toBookingModel(b)).Error; err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}
	return nil
}

// UpdateStatus persists a status change as a single atomic row update.
func (r *GormBookingRepository) UpdateStatus(ctx context.Context, b *bookingDomain.Booking) error {
	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ?", b.ID()).
		Updates(map[string]interface{}{
			"status":     b.Status().String(),
			"updated_at": b.UpdatedAt(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update booking status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("booking", b.ID().String())
	}
	return nil
}

// --- Queries by booker ---

func (r *GormBookingRepository) FindByBooker(ctx context.Context, bookerID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, error) {
	return r.find(ctx, r.byBooker(ctx, bookerID), "start_date DESC", page, limit)
}

func (r *GormBookingRepository) FindByBookerInFuture(ctx context.Context, bookerID uuid.UUID, now time.Time, page, limit int) ([]*bookingDomain.Booking, error) {
	return r.find(ctx, r.byBooker(ctx, bookerID).Where("start_date > ?", now), "start_date DESC", page, limit)
}

func (r *GormBookingRepository) FindByBookerInPast(ctx context.Context, bookerID uuid.UUID, now time.Time, page, limit int) ([]*bookingDomain.Booking, error) {
	return r.find(ctx, r.byBooker(ctx, bookerID).Where("end_date < ?", now), "start_date DESC", page, limit)
}

func (r *GormBookingRepository) FindByBookerCurrent(ctx context.Context, bookerID uuid.UUID, now time.Time, page, limit int) ([]*bookingDomain.Booking, error) {
	return r.find(ctx, r.byBooker(ctx, bookerID).Where("start_date < ? AND end_date > ?", now, now), "end_date DESC", page, limit)
}

func (r *GormBookingRepository) FindByBookerWithStatus(ctx context.Context, bookerID uuid.UUID, status bookingDomain.Status, page, limit int) ([]*bookingDomain.Booking, error) {
	return r.find(ctx, r.byBooker(ctx, bookerID).Where("status = ?", status.String()), "start_date DESC", page, limit)
}

// --- Queries by item owner ---

func (r *GormBookingRepository) FindByItemOwner(ctx context.Context, ownerID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, error) {
	return r.find(ctx, r.byItemOwner(ctx, ownerID), "start_date DESC", page, limit)
}

func (r *GormBookingRepository) FindByItemOwnerInFuture(ctx context.Context, ownerID uuid.UUID, now time.Time, page, limit int) ([]*bookingDomain.Booking, error) {
	return r.find(ctx, r.byItemOwner(ctx, ownerID).Where("bookings.start_date > ?", now), "start_date DESC", page, limit)
}

func (r *GormBookingRepository) FindByItemOwnerInPast(ctx context.Context, ownerID uuid.UUID, now time.Time, page, limit int) ([]*bookingDomain.Booking, error) {
	return r.find(ctx, r.byItemOwner(ctx, ownerID).Where("bookings.end_date < ?", now), "start_date DESC", page, limit)
}

func (r *GormBookingRepository) FindByItemOwnerCurrent(ctx context.Context, ownerID uuid.UUID, now time.Time, page, limit int) ([]*bookingDomain.Booking, error) {
	return r.find(ctx, r.byItemOwner(ctx, ownerID).Where("bookings.start_date < ? AND bookings.end_date > ?", now, now), "end_date DESC", page, limit)
}

func (r *GormBookingRepository) FindByItemOwnerWithStatus(ctx context.Context, ownerID uuid.UUID, status bookingDomain.Status, page, limit int) ([]*bookingDomain.Booking, error) {
	return r.find(ctx, r.byItemOwner(ctx, ownerID).Where("bookings.status = ?", status.String()), "start_date DESC", page, limit)
}

// --- Temporal annotation queries ---

// lastBookingQuery picks, per item, the newest booking started strictly
// before the given instant. Row numbering partitioned by item replaces the
// per-item query loop.
const lastBookingQuery = `
WITH ranked AS (
    SELECT b.*, ROW_NUMBER() OVER (PARTITION BY b.item_id ORDER BY b.start_date DESC) AS rn
    FROM bookings b
    WHERE b.item_id IN ? AND b.status NOT IN ? AND b.start_date < ?
)
SELECT id, item_id, booker_id, start_date, end_date, status, created_at, updated_at
FROM ranked WHERE rn = 1`

const nextBookingQuery = `
WITH ranked AS (
    SELECT b.*, ROW_NUMBER() OVER (PARTITION BY b.item_id ORDER BY b.start_date ASC) AS rn
    FROM bookings b
    WHERE b.item_id IN ? AND b.status NOT IN ? AND b.start_date > ?
)
SELECT id, item_id, booker_id, start_date, end_date, status, created_at, updated_at
FROM ranked WHERE rn = 1`

// LastBookingForItems returns the most recent past booking per item,
// excluding rejected and canceled bookings. Strict inequality: a booking
// starting exactly at now belongs to neither side.
func (r *GormBookingRepository) LastBookingForItems(ctx context.Context, itemIDs []uuid.UUID, now time.Time) (map[uuid.UUID]*bookingDomain.Booking, error) {
	return r.annotationQuery(ctx, lastBookingQuery, itemIDs, now)
}

// NextBookingForItems returns the soonest future booking per item, excluding
// rejected and canceled bookings.
func (r *GormBookingRepository) NextBookingForItems(ctx context.Context, itemIDs []uuid.UUID, now time.Time) (map[uuid.UUID]*bookingDomain.Booking, error) {
	return r.annotationQuery(ctx, nextBookingQuery, itemIDs, now)
}

// ExistsFinishedBooking reports whether the user has a finished, non-rejected
// booking of the item.
func (r *GormBookingRepository) ExistsFinishedBooking(ctx context.Context, itemID, bookerID uuid.UUID, now time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("item_id = ? AND booker_id = ?", itemID, bookerID).
		Where("status NOT IN ?", excludedStatuses()).
		Where("end_date < ?", now).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check finished bookings: %w", err)
	}
	return count > 0, nil
}

// --- Helpers ---

func (r *GormBookingRepository) byBooker(ctx context.Context, bookerID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&BookingModel{}).Where("booker_id = ?", bookerID)
}

func (r *GormBookingRepository) byItemOwner(ctx context.Context, ownerID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Joins("JOIN items ON items.id = bookings.item_id").
		Where("items.owner_id = ?", ownerID)
}

func (r *GormBookingRepository) find(ctx context.Context, query *gorm.DB, order string, page, limit int) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	offset := (page - 1) * limit
	if err := query.Order(order).Offset(offset).Limit(limit).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	return toDomainBookings(models)
}

func (r *GormBookingRepository) annotationQuery(ctx context.Context, query string, itemIDs []uuid.UUID, now time.Time) (map[uuid.UUID]*bookingDomain.Booking, error) {
	result := make(map[uuid.UUID]*bookingDomain.Booking, len(itemIDs))
	if len(itemIDs) == 0 {
		return result, nil
	}

	var models []BookingModel
	if err := r.db.WithContext(ctx).Raw(query, itemIDs, excludedStatuses(), now).Scan(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to query booking annotations: %w", err)
	}

	for i := range models {
		b, err := toDomainBooking(&models[i])
		if err != nil {
			return nil, err
		}
		result[b.ItemID()] = b
	}
	return result, nil
}

func excludedStatuses() []string {
	statuses := make([]string, len(bookingDomain.AnnotationExcludedStatuses))
	for i, s := range bookingDomain.AnnotationExcludedStatuses {
		statuses[i] = s.String()
	}
	return statuses
}

func toBookingModel(b *bookingDomain.Booking) *BookingModel {
	return &BookingModel{
		ID:        b.ID(),
		ItemID:    b.ItemID(),
		BookerID:  b.BookerID(),
		StartDate: b.Start(),
		EndDate:   b.End(),
		Status:    b.Status().String(),
		CreatedAt: b.CreatedAt(),
		UpdatedAt: b.UpdatedAt(),
	}
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	status, err := bookingDomain.ParseStatus(m.Status)
	if err != nil {
		return nil, err
	}
	return bookingDomain.Reconstruct(
		m.ID, m.ItemID, m.BookerID,
		m.StartDate, m.EndDate,
		status,
		m.CreatedAt, m.UpdatedAt,
	), nil
}

func toDomainBookings(models []BookingModel) ([]*bookingDomain.Booking, error) {
	bookings := make([]*bookingDomain.Booking, len(models))
	for i := range models {
		b, err := toDomainBooking(&models[i])
		if err != nil {
			return nil, err
		}
		bookings[i] = b
	}
	return bookings, nil
}
