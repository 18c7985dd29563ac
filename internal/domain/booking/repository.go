package booking

import (
	"context"
	"time"
)

// Repository defines the persistence contract for booking aggregates.
//
// List queries return bookings sorted by end instant descending. A limit of
// zero means no limit. Single-row projector lookups return (nil, nil) when no
// candidate exists, since absence is a valid outcome there, not an error.
type Repository interface {
	// Save persists a new booking and assigns its identifier.
	Save(ctx context.Context, b *Booking) error

	// UpdateStatus persists a status transition inside one transaction,
	// guarded so that an already-approved booking is never overwritten by a
	// concurrent transition.
	UpdateStatus(ctx context.Context, id int64, status Status) error

	// FindByID retrieves a booking by its identifier.
	FindByID(ctx context.Context, id int64) (*Booking, error)

	// FindByBooker retrieves the booker's bookings matching the filter,
	// classified against now, capped at limit rows.
	FindByBooker(ctx context.Context, bookerID int64, f Filter, now time.Time, limit int) ([]*Booking, error)

	// FindByOwner retrieves bookings on the owner's items matching the
	// filter, classified against now, with true offset pagination. A
	// negative offset with zero limit means unpaginated.
	FindByOwner(ctx context.Context, ownerID int64, f Filter, now time.Time, offset, limit int) ([]*Booking, error)

	// FindLastForItem returns the approved booking for the item with the
	// latest start before now, ties broken by highest id.
	FindLastForItem(ctx context.Context, itemID int64, now time.Time) (*Booking, error)

	// FindNextForItem returns the approved booking for the item with the
	// earliest start after now.
	FindNextForItem(ctx context.Context, itemID int64, now time.Time) (*Booking, error)

	// FindApprovedForItems batch-fetches every approved booking for the
	// given items, for projecting last/next over a page of items without a
	// query per item.
	FindApprovedForItems(ctx context.Context, itemIDs []int64) ([]*Booking, error)

	// FindApprovedForItem retrieves the approved bookings of one item, used
	// by the comment eligibility check.
	FindApprovedForItem(ctx context.Context, itemID int64) ([]*Booking, error)
}

// ItemBooking is the read-only projection of a booking used to annotate an
// item view with its last and next approved booking. Never persisted.
type ItemBooking struct {
	ID       int64     `json:"id"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	BookerID int64     `json:"bookerId"`
	Status   Status    `json:"status"`
}

// ToItemBooking projects a booking into its item-view form.
func ToItemBooking(b *Booking) *ItemBooking {
	if b == nil {
		return nil
	}
	return &ItemBooking{
		ID:       b.ID(),
		Start:    b.Start(),
		End:      b.End(),
		BookerID: b.BookerID(),
		Status:   b.Status(),
	}
}
