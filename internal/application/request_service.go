package application

import (
	"context"
	"time"

	"go.uber.org/zap"

	itemDomain "github.com/shareloop/service-sharing/internal/domain/item"
	requestDomain "github.com/shareloop/service-sharing/internal/domain/request"
	"github.com/shareloop/service-sharing/internal/domain/sharederr"
	userDomain "github.com/shareloop/service-sharing/internal/domain/user"
)

// RequestItemView is an item shown under the request it answers.
type RequestItemView struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Available bool   `json:"available"`
	OwnerID   int64  `json:"ownerId"`
	RequestID int64  `json:"requestId"`
}

// RequestView is the response representation of an item request with the
// items offered against it.
type RequestView struct {
	ID          int64             `json:"id"`
	Description string            `json:"description"`
	Created     time.Time         `json:"created"`
	Items       []RequestItemView `json:"items"`
}

// RequestService owns the item-request workflow: posting a need and browsing
// requests together with the items offered to fulfill them.
type RequestService struct {
	requests requestDomain.Repository
	items    itemDomain.Repository
	users    userDomain.Repository
	logger   *zap.Logger
	clock    func() time.Time
}

// NewRequestService creates a new RequestService.
func NewRequestService(
	requests requestDomain.Repository,
	items itemDomain.Repository,
	users userDomain.Repository,
	logger *zap.Logger,
) *RequestService {
	return &RequestService{
		requests: requests,
		items:    items,
		users:    users,
		logger:   logger,
		clock:    time.Now,
	}
}

// Create posts a need for an item not currently listed.
func (s *RequestService) Create(ctx context.Context, requesterID int64, description string) (*requestDomain.Request, error) {
	if _, err := s.users.FindByID(ctx, requesterID); err != nil {
		return nil, err
	}
	req, err := requestDomain.NewRequest(description, requesterID, s.clock())
	if err != nil {
		return nil, err
	}
	if err := s.requests.Save(ctx, req); err != nil {
		return nil, err
	}
	s.logger.Info("item request created",
		zap.Int64("request_id", req.ID()),
		zap.Int64("requester_id", requesterID),
	)
	return req, nil
}

// Get retrieves one request with its offered items.
func (s *RequestService) Get(ctx context.Context, viewerID, requestID int64) (*RequestView, error) {
	if err := s.checkUser(ctx, viewerID); err != nil {
		return nil, err
	}
	req, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	views, err := s.attachItems(ctx, []*requestDomain.Request{req})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// ListOwn returns the viewer's requests newest first, with offered items.
func (s *RequestService) ListOwn(ctx context.Context, viewerID int64) ([]*RequestView, error) {
	if err := s.checkUser(ctx, viewerID); err != nil {
		return nil, err
	}
	requests, err := s.requests.FindByRequester(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, requests)
}

// ListOthers returns other users' requests newest first, excluding the
// viewer's own, with offered items.
func (s *RequestService) ListOthers(ctx context.Context, viewerID int64, from, size *int) ([]*RequestView, error) {
	if err := s.checkUser(ctx, viewerID); err != nil {
		return nil, err
	}
	paged, err := validatePage(from, size)
	if err != nil {
		return nil, err
	}
	var requests []*requestDomain.Request
	if paged {
		requests, err = s.requests.FindAll(ctx, *from**size, *size)
	} else {
		requests, err = s.requests.FindAll(ctx, -1, 0)
	}
	if err != nil {
		return nil, err
	}

	others := requests[:0:0]
	for _, req := range requests {
		if req.RequesterID() != viewerID {
			others = append(others, req)
		}
	}
	return s.attachItems(ctx, others)
}

// attachItems resolves the offered items for a batch of requests with a
// single item query, grouped by request id.
func (s *RequestService) attachItems(ctx context.Context, requests []*requestDomain.Request) ([]*RequestView, error) {
	views := make([]*RequestView, len(requests))
	if len(requests) == 0 {
		return views, nil
	}
	ids := make([]int64, len(requests))
	for i, req := range requests {
		ids[i] = req.ID()
	}
	items, err := s.items.FindByRequests(ctx, ids)
	if err != nil {
		return nil, err
	}
	byRequest := make(map[int64][]RequestItemView)
	for _, it := range items {
		if it.RequestID() == nil {
			continue
		}
		byRequest[*it.RequestID()] = append(byRequest[*it.RequestID()], RequestItemView{
			ID:        it.ID(),
			Name:      it.Name(),
			Available: it.Available(),
			OwnerID:   it.OwnerID(),
			RequestID: *it.RequestID(),
		})
	}
	for i, req := range requests {
		itemViews := byRequest[req.ID()]
		if itemViews == nil {
			itemViews = []RequestItemView{}
		}
		views[i] = &RequestView{
			ID:          req.ID(),
			Description: req.Description(),
			Created:     req.Created(),
			Items:       itemViews,
		}
	}
	return views, nil
}

func (s *RequestService) checkUser(ctx context.Context, userID int64) error {
	exists, err := s.users.ExistsByID(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return sharederr.NewNotFoundError("user", userID)
	}
	return nil
}
