package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	bookingDomain "github.com/shareloop/service-sharing/internal/domain/booking"
	"github.com/shareloop/service-sharing/internal/domain/sharederr"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	StartDate time.Time `gorm:"not null;index"`
	EndDate   time.Time `gorm:"not null;index"`
	ItemID    int64     `gorm:"not null;index"`
	BookerID  int64     `gorm:"not null;index"`
	Status    string    `gorm:"not null;size:10;index"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of booking.Repository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// Save persists a new booking and assigns its identifier.
func (r *GormBookingRepository) Save(ctx context.Context, b *bookingDomain.Booking) error {
	model := toBookingModel(b)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(model).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}
	b.SetID(model.ID)
	return nil
}

// UpdateStatus persists a status transition. The predicate repeats the
// approved-is-terminal guard inside the statement so a concurrent approval
// between the service's read and this write cannot be overwritten; losing
// that race surfaces as a conflict.
func (r *GormBookingRepository) UpdateStatus(ctx context.Context, id int64, status bookingDomain.Status) error {
	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND status <> ?", id, string(bookingDomain.StatusApproved)).
		Update("status", string(status))
	if result.Error != nil {
		return fmt.Errorf("failed to update booking status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return sharederr.NewConflictError(fmt.Sprintf("booking id=%d was resolved by a concurrent transition", id))
	}
	return nil
}

// FindByID retrieves a booking by its identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id int64) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, sharederr.NewNotFoundError("booking", id)
		}
		return nil, fmt.Errorf("failed to find booking by id: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByBooker retrieves the booker's bookings matching the filter, sorted by
// end instant descending, capped at limit rows (zero means no limit).
func (r *GormBookingRepository) FindByBooker(ctx context.Context, bookerID int64, f bookingDomain.Filter, now time.Time, limit int) ([]*bookingDomain.Booking, error) {
	q := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("booker_id = ?", bookerID).
		Order("end_date DESC, id DESC")
	q = applyFilter(q, "", f, now)
	if limit > 0 {
		q = q.Limit(limit)
	}

	var models []BookingModel
	if err := q.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find bookings by booker: %w", err)
	}
	return toDomainBookings(models)
}

// FindByOwner retrieves bookings on the owner's items matching the filter,
// sorted by end instant descending, with true offset pagination. A negative
// offset with zero limit means unpaginated.
func (r *GormBookingRepository) FindByOwner(ctx context.Context, ownerID int64, f bookingDomain.Filter, now time.Time, offset, limit int) ([]*bookingDomain.Booking, error) {
	q := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Joins("JOIN items ON items.id = bookings.item_id").
		Where("items.owner_id = ?", ownerID).
		Order("bookings.end_date DESC, bookings.id DESC")
	q = applyFilter(q, "bookings.", f, now)
	if limit > 0 {
		q = q.Offset(offset).Limit(limit)
	}

	var models []BookingModel
	if err := q.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find bookings by owner: %w", err)
	}
	return toDomainBookings(models)
}

// FindLastForItem returns the approved booking with the latest start before
// now, ties broken by highest id, or nil if there is none.
func (r *GormBookingRepository) FindLastForItem(ctx context.Context, itemID int64, now time.Time) (*bookingDomain.Booking, error) {
	var models []BookingModel
	err := r.db.WithContext(ctx).
		Where("item_id = ? AND status = ? AND start_date < ?", itemID, string(bookingDomain.StatusApproved), now).
		Order("start_date DESC, id DESC").
		Limit(1).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find last booking for item: %w", err)
	}
	if len(models) == 0 {
		return nil, nil
	}
	return toDomainBooking(&models[0])
}

// FindNextForItem returns the approved booking with the earliest start after
// now, or nil if there is none.
func (r *GormBookingRepository) FindNextForItem(ctx context.Context, itemID int64, now time.Time) (*bookingDomain.Booking, error) {
	var models []BookingModel
	err := r.db.WithContext(ctx).
		Where("item_id = ? AND status = ? AND start_date > ?", itemID, string(bookingDomain.StatusApproved), now).
		Order("start_date ASC, id ASC").
		Limit(1).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find next booking for item: %w", err)
	}
	if len(models) == 0 {
		return nil, nil
	}
	return toDomainBooking(&models[0])
}

// FindApprovedForItems batch-fetches every approved booking for the given items.
func (r *GormBookingRepository) FindApprovedForItems(ctx context.Context, itemIDs []int64) ([]*bookingDomain.Booking, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	var models []BookingModel
	err := r.db.WithContext(ctx).
		Where("item_id IN ? AND status = ?", itemIDs, string(bookingDomain.StatusApproved)).
		Order("start_date ASC, id ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find approved bookings for items: %w", err)
	}
	return toDomainBookings(models)
}

// FindApprovedForItem retrieves the approved bookings of one item.
func (r *GormBookingRepository) FindApprovedForItem(ctx context.Context, itemID int64) ([]*bookingDomain.Booking, error) {
	return r.FindApprovedForItems(ctx, []int64{itemID})
}

// applyFilter translates a booking filter into the corresponding predicate.
// The switch is exhaustive over all seven filter variants; prefix qualifies
// column names when the base query joins another table.
func applyFilter(q *gorm.DB, prefix string, f bookingDomain.Filter, now time.Time) *gorm.DB {
	switch f {
	case bookingDomain.FilterAll:
		return q
	case bookingDomain.FilterPast:
		return q.Where(prefix+"end_date < ?", now)
	case bookingDomain.FilterCurrent:
		return q.Where(prefix+"start_date < ? AND "+prefix+"end_date > ?", now, now)
	case bookingDomain.FilterFuture:
		return q.Where(prefix+"start_date > ?", now)
	case bookingDomain.FilterWaiting:
		return q.Where(prefix+"status = ?", string(bookingDomain.StatusWaiting))
	case bookingDomain.FilterRejected:
		return q.Where(prefix+"status = ?", string(bookingDomain.StatusRejected))
	case bookingDomain.FilterApproved:
		return q.Where(prefix+"status = ?", string(bookingDomain.StatusApproved))
	}
	// Unreachable for parsed filters.
	return q.Where("1 = 0")
}

// --- Conversion Helpers ---

func toBookingModel(b *bookingDomain.Booking) *BookingModel {
	return &BookingModel{
		ID:        b.ID(),
		StartDate: b.Start(),
		EndDate:   b.End(),
		ItemID:    b.ItemID(),
		BookerID:  b.BookerID(),
		Status:    string(b.Status()),
	}
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	status, err := bookingDomain.ParseStatus(m.Status)
	if err != nil {
		return nil, err
	}
	return bookingDomain.Reconstruct(m.ID, m.StartDate, m.EndDate, m.ItemID, m.BookerID, status), nil
}

func toDomainBookings(models []BookingModel) ([]*bookingDomain.Booking, error) {
	bookings := make([]*bookingDomain.Booking, len(models))
	for i, m := range models {
		b, err := toDomainBooking(&m)
		if err != nil {
			return nil, err
		}
		bookings[i] = b
	}
	return bookings, nil
}
