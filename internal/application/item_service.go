package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	bookingDomain "github.com/shareloop/service-sharing/internal/domain/booking"
	commentDomain "github.com/shareloop/service-sharing/internal/domain/comment"
	itemDomain "github.com/shareloop/service-sharing/internal/domain/item"
	requestDomain "github.com/shareloop/service-sharing/internal/domain/request"
	"github.com/shareloop/service-sharing/internal/domain/sharederr"
	userDomain "github.com/shareloop/service-sharing/internal/domain/user"
)

// CreateItemInput holds the data needed to list a new item.
type CreateItemInput struct {
	Name        string
	Description string
	Available   bool
	RequestID   *int64
}

// UpdateItemInput holds a partial item update; nil fields are left unchanged.
type UpdateItemInput struct {
	Name        *string
	Description *string
	Available   *bool
}

// CommentView is the response representation of a comment.
type CommentView struct {
	ID         int64     `json:"id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"authorName"`
	Created    time.Time `json:"created"`
}

// ItemView is the response representation of an item annotated with its
// comments and, for the owner, the last and next approved booking.
type ItemView struct {
	ID          int64                      `json:"id"`
	Name        string                     `json:"name"`
	Description string                     `json:"description"`
	Available   bool                       `json:"available"`
	RequestID   *int64                     `json:"requestId,omitempty"`
	LastBooking *bookingDomain.ItemBooking `json:"lastBooking,omitempty"`
	NextBooking *bookingDomain.ItemBooking `json:"nextBooking,omitempty"`
	Comments    []CommentView              `json:"comments"`
}

// ItemService owns item listing, search, comments, and the last/next booking
// projection on item views.
type ItemService struct {
	items    itemDomain.Repository
	bookings bookingDomain.Repository
	users    userDomain.Repository
	comments commentDomain.Repository
	requests requestDomain.Repository
	logger   *zap.Logger
	clock    func() time.Time
}

// NewItemService creates a new ItemService.
func NewItemService(
	items itemDomain.Repository,
	bookings bookingDomain.Repository,
	users userDomain.Repository,
	comments commentDomain.Repository,
	requests requestDomain.Repository,
	logger *zap.Logger,
) *ItemService {
	return &ItemService{
		items:    items,
		bookings: bookings,
		users:    users,
		comments: comments,
		requests: requests,
		logger:   logger,
		clock:    time.Now,
	}
}

// Create lists a new item for the owner. When the item answers an item
// request, the request must exist.
func (s *ItemService) Create(ctx context.Context, ownerID int64, in CreateItemInput) (*itemDomain.Item, error) {
	if _, err := s.users.FindByID(ctx, ownerID); err != nil {
		return nil, err
	}
	if in.RequestID != nil {
		if _, err := s.requests.FindByID(ctx, *in.RequestID); err != nil {
			return nil, err
		}
	}
	it, err := itemDomain.NewItem(in.Name, in.Description, in.Available, ownerID, in.RequestID)
	if err != nil {
		return nil, err
	}
	if err := s.items.Save(ctx, it); err != nil {
		return nil, err
	}
	s.logger.Info("item created", zap.Int64("item_id", it.ID()), zap.Int64("owner_id", ownerID))
	return it, nil
}

// Get returns the item view for a viewer. The last/next booking annotation is
// private to the owner: other viewers see the item and its comments only.
func (s *ItemService) Get(ctx context.Context, viewerID, itemID int64) (*ItemView, error) {
	now := s.clock()
	if err := s.checkUser(ctx, viewerID); err != nil {
		return nil, err
	}
	it, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.FindByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	commentViews, err := s.toCommentViews(ctx, comments)
	if err != nil {
		return nil, err
	}

	view := toItemView(it, commentViews)
	if viewerID == it.OwnerID() {
		last, err := s.bookings.FindLastForItem(ctx, itemID, now)
		if err != nil {
			return nil, err
		}
		next, err := s.bookings.FindNextForItem(ctx, itemID, now)
		if err != nil {
			return nil, err
		}
		view.LastBooking = bookingDomain.ToItemBooking(last)
		view.NextBooking = bookingDomain.ToItemBooking(next)
	}
	return view, nil
}

// ListForOwner returns the viewer's items with comments and last/next
// booking annotations. Comments and bookings for the whole page are fetched
// in one batch query each and grouped in memory, so the cost stays flat in
// the number of items.
func (s *ItemService) ListForOwner(ctx context.Context, viewerID int64, from, size *int) ([]*ItemView, error) {
	if err := s.checkUser(ctx, viewerID); err != nil {
		return nil, err
	}
	now := s.clock()

	paged, err := validatePage(from, size)
	if err != nil {
		return nil, err
	}
	var items []*itemDomain.Item
	if paged {
		items, err = s.items.FindByOwner(ctx, viewerID, *from**size, *size)
	} else {
		items, err = s.items.FindByOwner(ctx, viewerID, -1, 0)
	}
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []*ItemView{}, nil
	}

	itemIDs := make([]int64, len(items))
	for i, it := range items {
		itemIDs[i] = it.ID()
	}
	comments, err := s.comments.FindByItems(ctx, itemIDs)
	if err != nil {
		return nil, err
	}
	bookings, err := s.bookings.FindApprovedForItems(ctx, itemIDs)
	if err != nil {
		return nil, err
	}
	commentViews, err := s.toCommentViews(ctx, comments)
	if err != nil {
		return nil, err
	}

	commentsByItem := make(map[int64][]CommentView)
	for i, c := range comments {
		commentsByItem[c.ItemID()] = append(commentsByItem[c.ItemID()], commentViews[i])
	}
	bookingsByItem := make(map[int64][]*bookingDomain.Booking)
	for _, b := range bookings {
		bookingsByItem[b.ItemID()] = append(bookingsByItem[b.ItemID()], b)
	}

	views := make([]*ItemView, len(items))
	for i, it := range items {
		view := toItemView(it, commentsByItem[it.ID()])
		last, next := projectLastNext(bookingsByItem[it.ID()], now)
		view.LastBooking = bookingDomain.ToItemBooking(last)
		view.NextBooking = bookingDomain.ToItemBooking(next)
		views[i] = view
	}
	return views, nil
}

// Search finds available items matching the word in name or description,
// case-insensitive. A blank word yields no results.
func (s *ItemService) Search(ctx context.Context, viewerID int64, word string, from, size *int) ([]*itemDomain.Item, error) {
	if err := s.checkUser(ctx, viewerID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(word) == "" {
		return []*itemDomain.Item{}, nil
	}
	word = strings.ToLower(word)

	paged, err := validatePage(from, size)
	if err != nil {
		return nil, err
	}
	if paged {
		return s.items.SearchAvailable(ctx, word, *from**size, *size)
	}
	return s.items.SearchAvailable(ctx, word, -1, 0)
}

// Update applies a partial update to an item. Only the owner may update it;
// anyone else gets not-found.
func (s *ItemService) Update(ctx context.Context, actorID, itemID int64, in UpdateItemInput) (*itemDomain.Item, error) {
	if _, err := s.users.FindByID(ctx, actorID); err != nil {
		return nil, err
	}
	it, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if it.OwnerID() != actorID {
		return nil, sharederr.NewAccessDeniedError(fmt.Sprintf("item not found id=%d", itemID))
	}
	it.Apply(in.Name, in.Description, in.Available)
	if err := s.items.Update(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

// AddComment leaves a comment on an item. The author must have at least one
// approved booking of the item that ended before now.
func (s *ItemService) AddComment(ctx context.Context, authorID, itemID int64, text string) (*commentDomain.Comment, *userDomain.User, error) {
	now := s.clock()
	author, err := s.users.FindByID(ctx, authorID)
	if err != nil {
		return nil, nil, err
	}
	if _, err := s.items.FindByID(ctx, itemID); err != nil {
		return nil, nil, err
	}
	bookings, err := s.bookings.FindApprovedForItem(ctx, itemID)
	if err != nil {
		return nil, nil, err
	}
	eligible := false
	for _, b := range bookings {
		if b.BookerID() == authorID && b.End().Before(now) {
			eligible = true
			break
		}
	}
	if !eligible {
		return nil, nil, sharederr.NewInvalidStateError(
			fmt.Sprintf("user id=%d has no completed booking of item id=%d", authorID, itemID))
	}

	c, err := commentDomain.NewComment(text, itemID, authorID, now)
	if err != nil {
		return nil, nil, err
	}
	if err := s.comments.Save(ctx, c); err != nil {
		return nil, nil, err
	}
	return c, author, nil
}

// projectLastNext partitions an item's approved bookings around now with one
// linear scan: last is the latest start strictly before now (ties to the
// highest id), next the earliest start strictly after now.
func projectLastNext(bookings []*bookingDomain.Booking, now time.Time) (last, next *bookingDomain.Booking) {
	for _, b := range bookings {
		switch {
		case b.Start().Before(now):
			if last == nil || b.Start().After(last.Start()) ||
				(b.Start().Equal(last.Start()) && b.ID() > last.ID()) {
				last = b
			}
		case b.Start().After(now):
			if next == nil || b.Start().Before(next.Start()) ||
				(b.Start().Equal(next.Start()) && b.ID() < next.ID()) {
				next = b
			}
		}
	}
	return last, next
}

func (s *ItemService) checkUser(ctx context.Context, userID int64) error {
	exists, err := s.users.ExistsByID(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return sharederr.NewNotFoundError("user", userID)
	}
	return nil
}

// toCommentViews resolves author names for a batch of comments with a single
// user lookup.
func (s *ItemService) toCommentViews(ctx context.Context, comments []*commentDomain.Comment) ([]CommentView, error) {
	if len(comments) == 0 {
		return nil, nil
	}
	idSet := make(map[int64]struct{}, len(comments))
	ids := make([]int64, 0, len(comments))
	for _, c := range comments {
		if _, ok := idSet[c.AuthorID()]; !ok {
			idSet[c.AuthorID()] = struct{}{}
			ids = append(ids, c.AuthorID())
		}
	}
	authors, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(authors))
	for _, u := range authors {
		names[u.ID()] = u.Name()
	}

	views := make([]CommentView, len(comments))
	for i, c := range comments {
		views[i] = CommentView{
			ID:         c.ID(),
			Text:       c.Text(),
			AuthorName: names[c.AuthorID()],
			Created:    c.Created(),
		}
	}
	return views, nil
}

func toItemView(it *itemDomain.Item, comments []CommentView) *ItemView {
	if comments == nil {
		comments = []CommentView{}
	}
	return &ItemView{
		ID:          it.ID(),
		Name:        it.Name(),
		Description: it.Description(),
		Available:   it.Available(),
		RequestID:   it.RequestID(),
		Comments:    comments,
	}
}
