package application

import (
	"context"
	"sort"
	"strings"
	"time"

	bookingDomain "github.com/shareloop/service-sharing/internal/domain/booking"
	commentDomain "github.com/shareloop/service-sharing/internal/domain/comment"
	itemDomain "github.com/shareloop/service-sharing/internal/domain/item"
	requestDomain "github.com/shareloop/service-sharing/internal/domain/request"
	"github.com/shareloop/service-sharing/internal/domain/sharederr"
	userDomain "github.com/shareloop/service-sharing/internal/domain/user"
	"github.com/shareloop/service-sharing/internal/events"
)

// In-memory repository fakes implementing the domain contracts, including
// ordering and the approved-status update guard, so service tests exercise
// the same observable behavior as the gorm implementations.

type fakeUserRepo struct {
	users  map[int64]*userDomain.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*userDomain.User), nextID: 1}
}

func (r *fakeUserRepo) Save(_ context.Context, u *userDomain.User) error {
	for _, existing := range r.users {
		if existing.Email() == u.Email() {
			return sharederr.NewConflictError("email already in use: " + u.Email())
		}
	}
	u.SetID(r.nextID)
	r.nextID++
	r.users[u.ID()] = u
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *userDomain.User) error {
	for id, existing := range r.users {
		if id != u.ID() && existing.Email() == u.Email() {
			return sharederr.NewConflictError("email already in use: " + u.Email())
		}
	}
	r.users[u.ID()] = u
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id int64) (*userDomain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, sharederr.NewNotFoundError("user", id)
	}
	return u, nil
}

func (r *fakeUserRepo) ExistsByID(_ context.Context, id int64) (bool, error) {
	_, ok := r.users[id]
	return ok, nil
}

func (r *fakeUserRepo) FindAll(_ context.Context) ([]*userDomain.User, error) {
	out := make([]*userDomain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

func (r *fakeUserRepo) FindByIDs(_ context.Context, ids []int64) ([]*userDomain.User, error) {
	var out []*userDomain.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id int64) error {
	delete(r.users, id)
	return nil
}

type fakeItemRepo struct {
	items  map[int64]*itemDomain.Item
	nextID int64
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: make(map[int64]*itemDomain.Item), nextID: 1}
}

func (r *fakeItemRepo) Save(_ context.Context, it *itemDomain.Item) error {
	it.SetID(r.nextID)
	r.nextID++
	r.items[it.ID()] = it
	return nil
}

func (r *fakeItemRepo) Update(_ context.Context, it *itemDomain.Item) error {
	r.items[it.ID()] = it
	return nil
}

func (r *fakeItemRepo) FindByID(_ context.Context, id int64) (*itemDomain.Item, error) {
	it, ok := r.items[id]
	if !ok {
		return nil, sharederr.NewNotFoundError("item", id)
	}
	return it, nil
}

func (r *fakeItemRepo) FindByOwner(_ context.Context, ownerID int64, offset, limit int) ([]*itemDomain.Item, error) {
	var out []*itemDomain.Item
	for _, it := range r.items {
		if it.OwnerID() == ownerID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return page(out, offset, limit), nil
}

func (r *fakeItemRepo) SearchAvailable(_ context.Context, word string, offset, limit int) ([]*itemDomain.Item, error) {
	var out []*itemDomain.Item
	for _, it := range r.items {
		if it.Available() && (containsFold(it.Name(), word) || containsFold(it.Description(), word)) {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return page(out, offset, limit), nil
}

func (r *fakeItemRepo) FindByRequest(_ context.Context, requestID int64) ([]*itemDomain.Item, error) {
	return r.FindByRequests(context.Background(), []int64{requestID})
}

func (r *fakeItemRepo) FindByRequests(_ context.Context, requestIDs []int64) ([]*itemDomain.Item, error) {
	wanted := make(map[int64]struct{}, len(requestIDs))
	for _, id := range requestIDs {
		wanted[id] = struct{}{}
	}
	var out []*itemDomain.Item
	for _, it := range r.items {
		if it.RequestID() == nil {
			continue
		}
		if _, ok := wanted[*it.RequestID()]; ok {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

type fakeBookingRepo struct {
	bookings map[int64]*bookingDomain.Booking
	items    *fakeItemRepo
	nextID   int64
}

func newFakeBookingRepo(items *fakeItemRepo) *fakeBookingRepo {
	return &fakeBookingRepo{
		bookings: make(map[int64]*bookingDomain.Booking),
		items:    items,
		nextID:   1,
	}
}

func (r *fakeBookingRepo) Save(_ context.Context, b *bookingDomain.Booking) error {
	b.SetID(r.nextID)
	r.nextID++
	r.bookings[b.ID()] = b
	return nil
}

func (r *fakeBookingRepo) UpdateStatus(_ context.Context, id int64, status bookingDomain.Status) error {
	stored, ok := r.bookings[id]
	if !ok || stored.Status() == bookingDomain.StatusApproved {
		return sharederr.NewConflictError("booking status changed concurrently")
	}
	r.bookings[id] = bookingDomain.Reconstruct(
		stored.ID(), stored.Start(), stored.End(), stored.ItemID(), stored.BookerID(), status)
	return nil
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id int64) (*bookingDomain.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, sharederr.NewNotFoundError("booking", id)
	}
	return b, nil
}

func (r *fakeBookingRepo) FindByBooker(_ context.Context, bookerID int64, f bookingDomain.Filter, now time.Time, limit int) ([]*bookingDomain.Booking, error) {
	var out []*bookingDomain.Booking
	for _, b := range r.bookings {
		if b.BookerID() == bookerID && f.Matches(b, now) {
			out = append(out, b)
		}
	}
	sortByEndDesc(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeBookingRepo) FindByOwner(_ context.Context, ownerID int64, f bookingDomain.Filter, now time.Time, offset, limit int) ([]*bookingDomain.Booking, error) {
	var out []*bookingDomain.Booking
	for _, b := range r.bookings {
		it, ok := r.items.items[b.ItemID()]
		if !ok || it.OwnerID() != ownerID {
			continue
		}
		if f.Matches(b, now) {
			out = append(out, b)
		}
	}
	sortByEndDesc(out)
	return page(out, offset, limit), nil
}

func (r *fakeBookingRepo) FindLastForItem(_ context.Context, itemID int64, now time.Time) (*bookingDomain.Booking, error) {
	var last *bookingDomain.Booking
	for _, b := range r.bookings {
		if b.ItemID() != itemID || b.Status() != bookingDomain.StatusApproved || !b.Start().Before(now) {
			continue
		}
		if last == nil || b.Start().After(last.Start()) ||
			(b.Start().Equal(last.Start()) && b.ID() > last.ID()) {
			last = b
		}
	}
	return last, nil
}

func (r *fakeBookingRepo) FindNextForItem(_ context.Context, itemID int64, now time.Time) (*bookingDomain.Booking, error) {
	var next *bookingDomain.Booking
	for _, b := range r.bookings {
		if b.ItemID() != itemID || b.Status() != bookingDomain.StatusApproved || !b.Start().After(now) {
			continue
		}
		if next == nil || b.Start().Before(next.Start()) ||
			(b.Start().Equal(next.Start()) && b.ID() < next.ID()) {
			next = b
		}
	}
	return next, nil
}

func (r *fakeBookingRepo) FindApprovedForItems(_ context.Context, itemIDs []int64) ([]*bookingDomain.Booking, error) {
	wanted := make(map[int64]struct{}, len(itemIDs))
	for _, id := range itemIDs {
		wanted[id] = struct{}{}
	}
	var out []*bookingDomain.Booking
	for _, b := range r.bookings {
		if _, ok := wanted[b.ItemID()]; ok && b.Status() == bookingDomain.StatusApproved {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

func (r *fakeBookingRepo) FindApprovedForItem(_ context.Context, itemID int64) ([]*bookingDomain.Booking, error) {
	return r.FindApprovedForItems(context.Background(), []int64{itemID})
}

type fakeCommentRepo struct {
	comments map[int64]*commentDomain.Comment
	nextID   int64
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[int64]*commentDomain.Comment), nextID: 1}
}

func (r *fakeCommentRepo) Save(_ context.Context, c *commentDomain.Comment) error {
	c.SetID(r.nextID)
	r.nextID++
	r.comments[c.ID()] = c
	return nil
}

func (r *fakeCommentRepo) FindByItem(_ context.Context, itemID int64) ([]*commentDomain.Comment, error) {
	return r.FindByItems(context.Background(), []int64{itemID})
}

func (r *fakeCommentRepo) FindByItems(_ context.Context, itemIDs []int64) ([]*commentDomain.Comment, error) {
	wanted := make(map[int64]struct{}, len(itemIDs))
	for _, id := range itemIDs {
		wanted[id] = struct{}{}
	}
	var out []*commentDomain.Comment
	for _, c := range r.comments {
		if _, ok := wanted[c.ItemID()]; ok {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Created().Equal(out[j].Created()) {
			return out[i].Created().After(out[j].Created())
		}
		return out[i].ID() > out[j].ID()
	})
	return out, nil
}

type fakeRequestRepo struct {
	requests map[int64]*requestDomain.Request
	nextID   int64
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: make(map[int64]*requestDomain.Request), nextID: 1}
}

func (r *fakeRequestRepo) Save(_ context.Context, req *requestDomain.Request) error {
	req.SetID(r.nextID)
	r.nextID++
	r.requests[req.ID()] = req
	return nil
}

func (r *fakeRequestRepo) FindByID(_ context.Context, id int64) (*requestDomain.Request, error) {
	req, ok := r.requests[id]
	if !ok {
		return nil, sharederr.NewNotFoundError("request", id)
	}
	return req, nil
}

func (r *fakeRequestRepo) FindByRequester(_ context.Context, requesterID int64) ([]*requestDomain.Request, error) {
	var out []*requestDomain.Request
	for _, req := range r.requests {
		if req.RequesterID() == requesterID {
			out = append(out, req)
		}
	}
	sortRequestsNewestFirst(out)
	return out, nil
}

func (r *fakeRequestRepo) FindAll(_ context.Context, offset, limit int) ([]*requestDomain.Request, error) {
	out := make([]*requestDomain.Request, 0, len(r.requests))
	for _, req := range r.requests {
		out = append(out, req)
	}
	sortRequestsNewestFirst(out)
	return page(out, offset, limit), nil
}

// capturingPublisher records published booking events for assertions.
type capturingPublisher struct {
	types  []string
	events []events.BookingEvent
}

func (p *capturingPublisher) PublishBooking(_ context.Context, eventType string, evt events.BookingEvent) {
	p.types = append(p.types, eventType)
	p.events = append(p.events, evt)
}

func sortByEndDesc(bookings []*bookingDomain.Booking) {
	sort.Slice(bookings, func(i, j int) bool {
		if !bookings[i].End().Equal(bookings[j].End()) {
			return bookings[i].End().After(bookings[j].End())
		}
		return bookings[i].ID() > bookings[j].ID()
	})
}

func sortRequestsNewestFirst(requests []*requestDomain.Request) {
	sort.Slice(requests, func(i, j int) bool {
		if !requests[i].Created().Equal(requests[j].Created()) {
			return requests[i].Created().After(requests[j].Created())
		}
		return requests[i].ID() > requests[j].ID()
	})
}

func page[T any](rows []T, offset, limit int) []T {
	if offset < 0 && limit == 0 {
		return rows
	}
	if offset >= len(rows) {
		return nil
	}
	rows = rows[offset:]
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}

// containsFold matches the repository's lowered LIKE semantics: the word is
// already lowercase when it reaches the repository.
func containsFold(s, word string) bool {
	return strings.Contains(strings.ToLower(s), word)
}
