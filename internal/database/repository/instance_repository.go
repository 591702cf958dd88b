package repository

import (
	"context"

	"github.com/onegreenvn/outreach-dispatch-backend/internal/models"

	"gorm.io/gorm"
)

type InstanceRepository struct {
	db *gorm.DB
}

func NewInstanceRepository(db *gorm.DB) *InstanceRepository {
	return &InstanceRepository{db: db}
}

// ListActive retrieves the organization's instances that can take new messages, in a stable order
func (r *InstanceRepository) ListActive(ctx context.Context, organizationID string) ([]*models.Instance, error) {
	var instances []*models.Instance
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND status = ?", organizationID, models.InstanceStatusActive).
		Order("created_at ASC, id ASC").
		Find(&instances).Error
	return instances, err
}

// ListByOrganization retrieves every instance of the organization
func (r *InstanceRepository) ListByOrganization(ctx context.Context, organizationID string) ([]*models.Instance, error) {
	var instances []*models.Instance
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("created_at ASC, id ASC").
		Find(&instances).Error
	return instances, err
}

// ListAll retrieves all instances (for the status watcher)
func (r *InstanceRepository) ListAll(ctx context.Context) ([]*models.Instance, error) {
	var instances []*models.Instance
	err := r.db.WithContext(ctx).Order("organization_id, id").Find(&instances).Error
	return instances, err
}

var _ InstanceStore = (*InstanceRepository)(nil)
