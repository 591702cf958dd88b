package repository

import (
	"context"

	"github.com/onegreenvn/outreach-dispatch-backend/internal/models"

	"gorm.io/gorm"
)

type ContactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// ListByOrganization retrieves the organization's whole contact universe.
// Filtering happens in the audience resolver.
func (r *ContactRepository) ListByOrganization(ctx context.Context, organizationID string) ([]*models.Contact, error) {
	var contacts []*models.Contact
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("created_at ASC, id ASC").
		Find(&contacts).Error
	return contacts, err
}

var _ ContactStore = (*ContactRepository)(nil)
