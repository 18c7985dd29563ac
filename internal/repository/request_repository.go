package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	requestDomain "github.com/shareloop/service-sharing/internal/domain/request"
	"github.com/shareloop/service-sharing/internal/domain/sharederr"
)

// RequestModel is the GORM model for the item_requests table.
type RequestModel struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	Description string    `gorm:"not null;size:2000"`
	RequesterID int64     `gorm:"not null;index"`
	Created     time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (RequestModel) TableName() string {
	return "item_requests"
}

// GormRequestRepository is the GORM-based implementation of request.Repository.
type GormRequestRepository struct {
	db *gorm.DB
}

// NewGormRequestRepository creates a new GormRequestRepository.
func NewGormRequestRepository(db *gorm.DB) *GormRequestRepository {
	return &GormRequestRepository{db: db}
}

// Save persists a new request and assigns its identifier.
func (r *GormRequestRepository) Save(ctx context.Context, req *requestDomain.Request) error {
	model := toRequestModel(req)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save item request: %w", err)
	}
	req.SetID(model.ID)
	return nil
}

// FindByID retrieves a request by its identifier.
func (r *GormRequestRepository) FindByID(ctx context.Context, id int64) (*requestDomain.Request, error) {
	var model RequestModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, sharederr.NewNotFoundError("item request", id)
		}
		return nil, fmt.Errorf("failed to find item request by id: %w", err)
	}
	return toDomainRequest(&model), nil
}

// FindByRequester retrieves a user's own requests newest first.
func (r *GormRequestRepository) FindByRequester(ctx context.Context, requesterID int64) ([]*requestDomain.Request, error) {
	var models []RequestModel
	err := r.db.WithContext(ctx).
		Where("requester_id = ?", requesterID).
		Order("created DESC, id DESC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find item requests by requester: %w", err)
	}
	return toDomainRequests(models), nil
}

// FindAll retrieves requests newest first.
func (r *GormRequestRepository) FindAll(ctx context.Context, offset, limit int) ([]*requestDomain.Request, error) {
	q := r.db.WithContext(ctx).Order("created DESC, id DESC")
	if limit > 0 {
		q = q.Offset(offset).Limit(limit)
	}
	var models []RequestModel
	if err := q.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list item requests: %w", err)
	}
	return toDomainRequests(models), nil
}

func toRequestModel(req *requestDomain.Request) *RequestModel {
	return &RequestModel{
		ID:          req.ID(),
		Description: req.Description(),
		RequesterID: req.RequesterID(),
		Created:     req.Created(),
	}
}

func toDomainRequest(m *RequestModel) *requestDomain.Request {
	return requestDomain.Reconstruct(m.ID, m.Description, m.RequesterID, m.Created)
}

func toDomainRequests(models []RequestModel) []*requestDomain.Request {
	requests := make([]*requestDomain.Request, len(models))
	for i, m := range models {
		requests[i] = toDomainRequest(&m)
	}
	return requests
}
