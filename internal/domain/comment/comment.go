package comment

import (
	"context"
	"time"

	"github.com/shareloop/service-sharing/internal/domain/sharederr"
)

// Comment is feedback left on an item by a user who completed an approved
// booking of it.
type Comment struct {
	id       int64
	text     string
	itemID   int64
	authorID int64
	created  time.Time
}

// NewComment creates a comment with validated fields.
func NewComment(text string, itemID, authorID int64, created time.Time) (*Comment, error) {
	if text == "" {
		return nil, sharederr.NewInvalidParametersError("comment text is required")
	}
	return &Comment{text: text, itemID: itemID, authorID: authorID, created: created.UTC()}, nil
}

// Reconstruct rebuilds a Comment from persistence data (no validation).
func Reconstruct(id int64, text string, itemID, authorID int64, created time.Time) *Comment {
	return &Comment{id: id, text: text, itemID: itemID, authorID: authorID, created: created}
}

// ID returns the comment's identifier, zero until persisted.
func (c *Comment) ID() int64 { return c.id }

// Text returns the comment text.
func (c *Comment) Text() string { return c.text }

// ItemID returns the commented item's identifier.
func (c *Comment) ItemID() int64 { return c.itemID }

// AuthorID returns the commenting user's identifier.
func (c *Comment) AuthorID() int64 { return c.authorID }

// Created returns the creation instant.
func (c *Comment) Created() time.Time { return c.created }

// SetID assigns the identifier allocated by the store.
func (c *Comment) SetID(id int64) { c.id = id }

// Repository defines the persistence contract for comments.
type Repository interface {
	// Save persists a new comment and assigns its identifier.
	Save(ctx context.Context, c *Comment) error

	// FindByItem retrieves an item's comments newest first.
	FindByItem(ctx context.Context, itemID int64) ([]*Comment, error)

	// FindByItems batch-fetches comments for a set of items, newest first.
	FindByItems(ctx context.Context, itemIDs []int64) ([]*Comment, error)
}
