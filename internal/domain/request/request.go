package request

import (
	"context"
	"time"

	"github.com/shareloop/service-sharing/internal/domain/sharederr"
)

// Request is a posted need for an item not currently listed. Owners can
// fulfill it by creating an item that references the request.
type Request struct {
	id          int64
	description string
	requesterID int64
	created     time.Time
}

// NewRequest creates an item request with validated fields.
func NewRequest(description string, requesterID int64, created time.Time) (*Request, error) {
	if description == "" {
		return nil, sharederr.NewInvalidParametersError("request description is required")
	}
	return &Request{description: description, requesterID: requesterID, created: created.UTC()}, nil
}

// Reconstruct rebuilds a Request from persistence data (no validation).
func Reconstruct(id int64, description string, requesterID int64, created time.Time) *Request {
	return &Request{id: id, description: description, requesterID: requesterID, created: created}
}

// ID returns the request's identifier, zero until persisted.
func (r *Request) ID() int64 { return r.id }

// Description returns what the requester is looking for.
func (r *Request) Description() string { return r.description }

// RequesterID returns the posting user's identifier.
func (r *Request) RequesterID() int64 { return r.requesterID }

// Created returns the creation instant.
func (r *Request) Created() time.Time { return r.created }

// SetID assigns the identifier allocated by the store.
func (r *Request) SetID(id int64) { r.id = id }

// Repository defines the persistence contract for item requests.
type Repository interface {
	// Save persists a new request and assigns its identifier.
	Save(ctx context.Context, r *Request) error

	// FindByID retrieves a request by its identifier.
	FindByID(ctx context.Context, id int64) (*Request, error)

	// FindByRequester retrieves a user's own requests newest first.
	FindByRequester(ctx context.Context, requesterID int64) ([]*Request, error)

	// FindAll retrieves requests newest first. A negative offset with zero
	// limit means unpaginated.
	FindAll(ctx context.Context, offset, limit int) ([]*Request, error)
}
