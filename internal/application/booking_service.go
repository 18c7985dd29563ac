package application

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	bookingDomain "github.com/shareloop/service-sharing/internal/domain/booking"
	itemDomain "github.com/shareloop/service-sharing/internal/domain/item"
	"github.com/shareloop/service-sharing/internal/domain/sharederr"
	userDomain "github.com/shareloop/service-sharing/internal/domain/user"
	"github.com/shareloop/service-sharing/internal/events"
)

// BookingEventPublisher publishes booking lifecycle events downstream,
// best-effort.
type BookingEventPublisher interface {
	PublishBooking(ctx context.Context, eventType string, evt events.BookingEvent)
}

// BookingService owns the booking lifecycle and the filtered booking queries.
type BookingService struct {
	bookings  bookingDomain.Repository
	items     itemDomain.Repository
	users     userDomain.Repository
	publisher BookingEventPublisher
	logger    *zap.Logger
	clock     func() time.Time
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	bookings bookingDomain.Repository,
	items itemDomain.Repository,
	users userDomain.Repository,
	publisher BookingEventPublisher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		bookings:  bookings,
		items:     items,
		users:     users,
		publisher: publisher,
		logger:    logger,
		clock:     time.Now,
	}
}

// Create places a new booking request on an item. The caller has already
// validated that start precedes end and lies in the future; the service does
// not re-derive a reference instant for that.
//
// An owner booking their own item is reported as not-found rather than
// forbidden, so the response does not reveal anything an unauthorized actor
// could not learn otherwise.
func (s *BookingService) Create(ctx context.Context, actorID, itemID int64, start, end time.Time) (*bookingDomain.Booking, error) {
	if _, err := s.users.FindByID(ctx, actorID); err != nil {
		return nil, err
	}
	it, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !it.Available() {
		return nil, sharederr.NewInvalidStateError(fmt.Sprintf("item is not available id=%d", itemID))
	}
	if it.OwnerID() == actorID {
		return nil, sharederr.NewAccessDeniedError(fmt.Sprintf("item is not available id=%d", itemID))
	}

	b := bookingDomain.NewBooking(itemID, actorID, start, end)
	if err := s.bookings.Save(ctx, b); err != nil {
		return nil, err
	}

	s.logger.Info("booking created",
		zap.Int64("booking_id", b.ID()),
		zap.Int64("item_id", itemID),
		zap.Int64("booker_id", actorID),
	)
	s.publisher.PublishBooking(ctx, events.BookingCreated, toBookingEvent(b))
	return b, nil
}

// Get retrieves a booking for a viewer. Only the booker and the item's owner
// may see it; any other viewer gets not-found.
func (s *BookingService) Get(ctx context.Context, viewerID, bookingID int64) (*bookingDomain.Booking, error) {
	if _, err := s.users.FindByID(ctx, viewerID); err != nil {
		return nil, err
	}
	b, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	it, err := s.items.FindByID(ctx, b.ItemID())
	if err != nil {
		return nil, err
	}
	if viewerID != b.BookerID() && viewerID != it.OwnerID() {
		return nil, sharederr.NewAccessDeniedError(fmt.Sprintf("booking not found id=%d", bookingID))
	}
	return b, nil
}

// ApproveOrReject resolves a waiting booking. Only the item's owner may
// resolve it; a booking that is already approved is terminal.
func (s *BookingService) ApproveOrReject(ctx context.Context, actorID, bookingID int64, approve bool) (*bookingDomain.Booking, error) {
	if _, err := s.users.FindByID(ctx, actorID); err != nil {
		return nil, err
	}
	b, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	it, err := s.items.FindByID(ctx, b.ItemID())
	if err != nil {
		return nil, err
	}
	if it.OwnerID() != actorID {
		return nil, sharederr.NewAccessDeniedError(fmt.Sprintf("booking not found id=%d", bookingID))
	}
	if err := b.Resolve(approve); err != nil {
		return nil, err
	}
	if err := s.bookings.UpdateStatus(ctx, b.ID(), b.Status()); err != nil {
		return nil, err
	}

	eventType := events.BookingRejected
	if approve {
		eventType = events.BookingApproved
	}
	s.logger.Info("booking resolved",
		zap.Int64("booking_id", b.ID()),
		zap.String("status", b.Status().String()),
	)
	s.publisher.PublishBooking(ctx, eventType, toBookingEvent(b))
	return b, nil
}

// ListForBooker returns the viewer's own bookings under the filter, sorted by
// end instant descending.
//
// The paginated branch over-fetches from+size rows and slices off the first
// from, instead of issuing an offset query. This is intentionally kept: the
// two list operations paginate differently, and switching one alone would
// change observable ordering under end-instant ties.
func (s *BookingService) ListForBooker(ctx context.Context, viewerID int64, f bookingDomain.Filter, from, size *int) ([]*bookingDomain.Booking, error) {
	if _, err := s.users.FindByID(ctx, viewerID); err != nil {
		return nil, err
	}
	now := s.clock()

	paged, err := validatePage(from, size)
	if err != nil {
		return nil, err
	}
	if !paged {
		return s.bookings.FindByBooker(ctx, viewerID, f, now, 0)
	}

	rows, err := s.bookings.FindByBooker(ctx, viewerID, f, now, *from+*size)
	if err != nil {
		return nil, err
	}
	if *from >= len(rows) {
		return []*bookingDomain.Booking{}, nil
	}
	return rows[*from:], nil
}

// ListForOwner returns the bookings placed on the viewer's items under the
// filter, sorted by end instant descending. The paginated branch uses true
// offset pagination with from as the page index.
func (s *BookingService) ListForOwner(ctx context.Context, viewerID int64, f bookingDomain.Filter, from, size *int) ([]*bookingDomain.Booking, error) {
	if _, err := s.users.FindByID(ctx, viewerID); err != nil {
		return nil, err
	}
	now := s.clock()

	paged, err := validatePage(from, size)
	if err != nil {
		return nil, err
	}
	if !paged {
		return s.bookings.FindByOwner(ctx, viewerID, f, now, -1, 0)
	}
	return s.bookings.FindByOwner(ctx, viewerID, f, now, *from**size, *size)
}

// validatePage accepts either no pagination at all or a complete, sane pair.
func validatePage(from, size *int) (bool, error) {
	switch {
	case from == nil && size == nil:
		return false, nil
	case from == nil || size == nil:
		return false, sharederr.NewInvalidParametersError("from and size must be supplied together")
	case *from < 0:
		return false, sharederr.NewInvalidParametersError(fmt.Sprintf("from must not be negative: %d", *from))
	case *size <= 0:
		return false, sharederr.NewInvalidParametersError(fmt.Sprintf("size must be positive: %d", *size))
	}
	return true, nil
}

func toBookingEvent(b *bookingDomain.Booking) events.BookingEvent {
	return events.BookingEvent{
		BookingID:  b.ID(),
		ItemID:     b.ItemID(),
		BookerID:   b.BookerID(),
		Status:     b.Status().String(),
		Start:      b.Start(),
		End:        b.End(),
		OccurredAt: time.Now().UTC(),
	}
}
