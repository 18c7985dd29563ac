package application

import (
	"context"

	"go.uber.org/zap"

	userDomain "github.com/shareloop/service-sharing/internal/domain/user"
)

// UserService owns user registration and account management.
type UserService struct {
	users  userDomain.Repository
	logger *zap.Logger
}

// NewUserService creates a new UserService.
func NewUserService(users userDomain.Repository, logger *zap.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

// Create registers a new user. A taken email surfaces as a conflict.
func (s *UserService) Create(ctx context.Context, name, email string) (*userDomain.User, error) {
	u, err := userDomain.NewUser(name, email)
	if err != nil {
		return nil, err
	}
	if err := s.users.Save(ctx, u); err != nil {
		return nil, err
	}
	s.logger.Info("user created", zap.Int64("user_id", u.ID()))
	return u, nil
}

// Get retrieves a user by id.
func (s *UserService) Get(ctx context.Context, id int64) (*userDomain.User, error) {
	return s.users.FindByID(ctx, id)
}

// List retrieves every user.
func (s *UserService) List(ctx context.Context) ([]*userDomain.User, error) {
	return s.users.FindAll(ctx)
}

// Update applies a partial update to a user; empty fields keep their value.
func (s *UserService) Update(ctx context.Context, id int64, name, email string) (*userDomain.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := u.Apply(name, email); err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Delete removes a user by id.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if _, err := s.users.FindByID(ctx, id); err != nil {
		return err
	}
	return s.users.Delete(ctx, id)
}
