package booking

import (
	"time"

	"github.com/shareloop/service-sharing/internal/domain/sharederr"
)

// Booking is the aggregate root for a time-bounded borrow request on an item.
type Booking struct {
	id       int64
	start    time.Time
	end      time.Time
	itemID   int64
	bookerID int64
	status   Status
}

// NewBooking creates a new booking in the waiting state. Date sanity
// (start < end, start in the future) is validated by the caller before the
// request reaches the domain.
func NewBooking(itemID, bookerID int64, start, end time.Time) *Booking {
	return &Booking{
		start:    start.UTC(),
		end:      end.UTC(),
		itemID:   itemID,
		bookerID: bookerID,
		status:   StatusWaiting,
	}
}

// Reconstruct rebuilds a Booking from persistence data (no validation).
func Reconstruct(id int64, start, end time.Time, itemID, bookerID int64, status Status) *Booking {
	return &Booking{
		id:       id,
		start:    start,
		end:      end,
		itemID:   itemID,
		bookerID: bookerID,
		status:   status,
	}
}

// ID returns the booking's identifier, zero until persisted.
func (b *Booking) ID() int64 { return b.id }

// Start returns the start instant of the booked period.
func (b *Booking) Start() time.Time { return b.start }

// End returns the end instant of the booked period.
func (b *Booking) End() time.Time { return b.end }

// ItemID returns the booked item's identifier.
func (b *Booking) ItemID() int64 { return b.itemID }

// BookerID returns the requesting user's identifier.
func (b *Booking) BookerID() int64 { return b.bookerID }

// Status returns the current booking status.
func (b *Booking) Status() Status { return b.status }

// SetID assigns the identifier allocated by the store.
func (b *Booking) SetID(id int64) { b.id = id }

// Resolve moves the booking to approved or rejected. A booking that is
// already approved is terminal; any further resolution fails. Re-resolving a
// rejected booking is intentionally not guarded, matching current product
// behavior.
func (b *Booking) Resolve(approve bool) error {
	if b.status == StatusApproved {
		return sharederr.NewInvalidStateError("booking already approved")
	}
	if approve {
		b.status = StatusApproved
	} else {
		b.status = StatusRejected
	}
	return nil
}
