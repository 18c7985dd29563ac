package item

import (
	"context"

	"github.com/shareloop/service-sharing/internal/domain/sharederr"
)

// Item is a thing its owner has listed for borrowing. The availability flag
// gates new bookings; requestID links the item to the request it fulfills,
// if any.
type Item struct {
	id          int64
	name        string
	description string
	available   bool
	ownerID     int64
	requestID   *int64
}

// NewItem creates an item with validated fields.
func NewItem(name, description string, available bool, ownerID int64, requestID *int64) (*Item, error) {
	if name == "" {
		return nil, sharederr.NewInvalidParametersError("item name is required")
	}
	if description == "" {
		return nil, sharederr.NewInvalidParametersError("item description is required")
	}
	return &Item{
		name:        name,
		description: description,
		available:   available,
		ownerID:     ownerID,
		requestID:   requestID,
	}, nil
}

// Reconstruct rebuilds an Item from persistence data (no validation).
func Reconstruct(id int64, name, description string, available bool, ownerID int64, requestID *int64) *Item {
	return &Item{
		id:          id,
		name:        name,
		description: description,
		available:   available,
		ownerID:     ownerID,
		requestID:   requestID,
	}
}

// ID returns the item's identifier, zero until persisted.
func (i *Item) ID() int64 { return i.id }

// Name returns the item's name.
func (i *Item) Name() string { return i.name }

// Description returns the item's description.
func (i *Item) Description() string { return i.description }

// Available reports whether the item currently accepts bookings.
func (i *Item) Available() bool { return i.available }

// OwnerID returns the owning user's identifier.
func (i *Item) OwnerID() int64 { return i.ownerID }

// RequestID returns the originating item request id, or nil.
func (i *Item) RequestID() *int64 { return i.requestID }

// SetID assigns the identifier allocated by the store.
func (i *Item) SetID(id int64) { i.id = id }

// Apply merges a partial update. Nil fields keep their current value.
func (i *Item) Apply(name, description *string, available *bool) {
	if name != nil && *name != "" {
		i.name = *name
	}
	if description != nil && *description != "" {
		i.description = *description
	}
	if available != nil {
		i.available = *available
	}
}

// Repository defines the persistence contract for items.
type Repository interface {
	// Save persists a new item and assigns its identifier.
	Save(ctx context.Context, it *Item) error

	// Update persists changes to an existing item.
	Update(ctx context.Context, it *Item) error

	// FindByID retrieves an item by its identifier.
	FindByID(ctx context.Context, id int64) (*Item, error)

	// FindByOwner retrieves the owner's items ordered by id. A negative
	// offset with zero limit means unpaginated.
	FindByOwner(ctx context.Context, ownerID int64, offset, limit int) ([]*Item, error)

	// SearchAvailable finds available items whose name or description
	// contains the word, case-insensitive. A negative offset with zero
	// limit means unpaginated.
	SearchAvailable(ctx context.Context, word string, offset, limit int) ([]*Item, error)

	// FindByRequest retrieves the items created in response to a request.
	FindByRequest(ctx context.Context, requestID int64) ([]*Item, error)

	// FindByRequests batch-fetches items for a set of requests.
	FindByRequests(ctx context.Context, requestIDs []int64) ([]*Item, error)
}
