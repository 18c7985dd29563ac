package user

import (
	"context"
	"strings"

	"github.com/shareloop/service-sharing/internal/domain/sharederr"
)

// User is a registered account. Email is unique across all users; the
// uniqueness is enforced at creation and update time.
type User struct {
	id    int64
	name  string
	email string
}

// NewUser creates a user with validated fields.
func NewUser(name, email string) (*User, error) {
	if name == "" {
		return nil, sharederr.NewInvalidParametersError("user name is required")
	}
	if !strings.Contains(email, "@") {
		return nil, sharederr.NewInvalidParametersError("user email is malformed: " + email)
	}
	return &User{name: name, email: email}, nil
}

// Reconstruct rebuilds a User from persistence data (no validation).
func Reconstruct(id int64, name, email string) *User {
	return &User{id: id, name: name, email: email}
}

// ID returns the user's identifier, zero until persisted.
func (u *User) ID() int64 { return u.id }

// Name returns the user's display name.
func (u *User) Name() string { return u.name }

// Email returns the user's email address.
func (u *User) Email() string { return u.email }

// SetID assigns the identifier allocated by the store.
func (u *User) SetID(id int64) { u.id = id }

// Apply merges a partial update. Empty fields keep their current value.
func (u *User) Apply(name, email string) error {
	if name != "" {
		u.name = name
	}
	if email != "" {
		if !strings.Contains(email, "@") {
			return sharederr.NewInvalidParametersError("user email is malformed: " + email)
		}
		u.email = email
	}
	return nil
}

// Repository defines the persistence contract for users.
type Repository interface {
	// Save persists a new user, failing with a conflict error if the email
	// is already taken.
	Save(ctx context.Context, u *User) error

	// Update persists changes to an existing user with the same email
	// uniqueness guarantee.
	Update(ctx context.Context, u *User) error

	// FindByID retrieves a user by its identifier.
	FindByID(ctx context.Context, id int64) (*User, error)

	// ExistsByID reports whether a user with the identifier exists.
	ExistsByID(ctx context.Context, id int64) (bool, error)

	// FindAll retrieves every user ordered by id.
	FindAll(ctx context.Context) ([]*User, error)

	// FindByIDs batch-fetches users by their identifiers.
	FindByIDs(ctx context.Context, ids []int64) ([]*User, error)

	// Delete removes a user by id.
	Delete(ctx context.Context, id int64) error
}
