package repository

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/onegreenvn/outreach-dispatch-backend/internal/models"

	"gorm.io/gorm"
)

type CampaignRepository struct {
	db *gorm.DB
}

func NewCampaignRepository(db *gorm.DB) *CampaignRepository {
	return &CampaignRepository{db: db}
}

// Create creates a new campaign
func (r *CampaignRepository) Create(ctx context.Context, campaign *models.Campaign) error {
	return r.db.WithContext(ctx).Create(campaign).Error
}

// GetByOrganizationAndID retrieves a campaign owned by the organization
func (r *CampaignRepository) GetByOrganizationAndID(ctx context.Context, organizationID, campaignID string) (*models.Campaign, error) {
	var campaign models.Campaign
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", organizationID, campaignID).
		First(&campaign).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &campaign, nil
}

// ListByOrganization retrieves a page of the organization's campaigns, newest first
func (r *CampaignRepository) ListByOrganization(ctx context.Context, organizationID string, limit, offset int) ([]*models.Campaign, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Campaign{}).
		Where("organization_id = ?", organizationID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var campaigns []*models.Campaign
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&campaigns).Error
	return campaigns, total, err
}

// UpdateDelays updates the send-delay bounds
func (r *CampaignRepository) UpdateDelays(ctx context.Context, campaignID string, minDelay, maxDelay int) error {
	result := r.db.WithContext(ctx).Model(&models.Campaign{}).
		Where("id = ?", campaignID).
		Updates(map[string]interface{}{
			"min_delay_seconds": minDelay,
			"max_delay_seconds": maxDelay,
			"updated_at":        time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkActivated sets the campaign active, keeps the first started_at and stores the audience snapshot
func (r *CampaignRepository) MarkActivated(ctx context.Context, campaignID string, snapshot []string, startedAt time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.Campaign{}).
		Where("id = ?", campaignID).
		Updates(map[string]interface{}{
			"status":            models.CampaignStatusActive,
			"started_at":        gorm.Expr("COALESCE(started_at, ?)", startedAt),
			"audience_snapshot": pq.StringArray(snapshot),
			"updated_at":        time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateTotalMensagens stores the message counter
func (r *CampaignRepository) UpdateTotalMensagens(ctx context.Context, campaignID string, total int) error {
	return r.db.WithContext(ctx).Model(&models.Campaign{}).
		Where("id = ?", campaignID).
		Update("total_mensagens", total).Error
}

// MarkCompleted sets completed_at once; later calls leave the first timestamp
func (r *CampaignRepository) MarkCompleted(ctx context.Context, campaignID string, completedAt time.Time) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Campaign{}).
		Where("id = ? AND completed_at IS NULL", campaignID).
		Updates(map[string]interface{}{
			"completed_at": completedAt,
			"updated_at":   time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

var _ CampaignStore = (*CampaignRepository)(nil)
