package repository

import (
	"context"
	"errors"
	"time"

	"github.com/onegreenvn/outreach-dispatch-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QueuedMessageRepository struct {
	db *gorm.DB
}

func NewQueuedMessageRepository(db *gorm.DB) *QueuedMessageRepository {
	return &QueuedMessageRepository{db: db}
}

type statusCountRow struct {
	CampaignID string
	Status     string
	Count      int
}

// ListPhonesByCampaign returns every phone already queued for the campaign, whatever its status
func (r *QueuedMessageRepository) ListPhonesByCampaign(ctx context.Context, campaignID string) ([]string, error) {
	var phones []string
	err := r.db.WithContext(ctx).Model(&models.QueuedMessage{}).
		Where("campaign_id = ?", campaignID).
		Pluck("phone", &phones).Error
	return phones, err
}

// ListByCampaign retrieves the campaign's queue, oldest first
func (r *QueuedMessageRepository) ListByCampaign(ctx context.Context, campaignID string) ([]*models.QueuedMessage, error) {
	var messages []*models.QueuedMessage
	err := r.db.WithContext(ctx).
		Where("campaign_id = ?", campaignID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	return messages, err
}

// InsertBatch inserts messages, ignoring rows that collide on (campaign_id, phone)
func (r *QueuedMessageRepository) InsertBatch(ctx context.Context, messages []*models.QueuedMessage) (int, error) {
	if len(messages) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "campaign_id"}, {Name: "phone"}},
			DoNothing: true,
		}).
		Create(&messages)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return 0, nil
		}
		return 0, result.Error
	}
	return int(result.RowsAffected), nil
}

// CountByCampaign counts all messages queued for the campaign
func (r *QueuedMessageRepository) CountByCampaign(ctx context.Context, campaignID string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.QueuedMessage{}).
		Where("campaign_id = ?", campaignID).
		Count(&count).Error
	return int(count), err
}

// CountsByCampaign aggregates the campaign's queue by status
func (r *QueuedMessageRepository) CountsByCampaign(ctx context.Context, campaignID string) (models.MessageCounts, error) {
	var rows []statusCountRow
	err := r.db.WithContext(ctx).Model(&models.QueuedMessage{}).
		Select("campaign_id, status, COUNT(*) AS count").
		Where("campaign_id = ?", campaignID).
		Group("campaign_id, status").
		Scan(&rows).Error
	if err != nil {
		return models.MessageCounts{}, err
	}

	var counts models.MessageCounts
	for _, row := range rows {
		counts.Add(row.Status, row.Count)
	}
	return counts, nil
}

// CountsByCampaigns aggregates several campaigns at once, for list views
func (r *QueuedMessageRepository) CountsByCampaigns(ctx context.Context, campaignIDs []string) (map[string]models.MessageCounts, error) {
	result := make(map[string]models.MessageCounts, len(campaignIDs))
	if len(campaignIDs) == 0 {
		return result, nil
	}

	var rows []statusCountRow
	err := r.db.WithContext(ctx).Model(&models.QueuedMessage{}).
		Select("campaign_id, status, COUNT(*) AS count").
		Where("campaign_id IN ?", campaignIDs).
		Group("campaign_id, status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts := result[row.CampaignID]
		counts.Add(row.Status, row.Count)
		result[row.CampaignID] = counts
	}
	return result, nil
}

// RerollPendingDelays gives every still-pending message of the campaign a fresh delay
func (r *QueuedMessageRepository) RerollPendingDelays(ctx context.Context, campaignID string, roll func() int) (int, error) {
	updated := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []string
		if err := tx.Model(&models.QueuedMessage{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("campaign_id = ? AND status = ?", campaignID, models.MessageStatusPending).
			Pluck("id", &ids).Error; err != nil {
			return err
		}

		now := time.Now()
		for _, id := range ids {
			if err := tx.Model(&models.QueuedMessage{}).
				Where("id = ? AND status = ?", id, models.MessageStatusPending).
				Updates(map[string]interface{}{
					"delay_seconds": roll(),
					"updated_at":    now,
				}).Error; err != nil {
				return err
			}
		}
		updated = len(ids)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return updated, nil
}

// GetByID retrieves a message by ID
func (r *QueuedMessageRepository) GetByID(ctx context.Context, messageID string) (*models.QueuedMessage, error) {
	var message models.QueuedMessage
	err := r.db.WithContext(ctx).First(&message, "id = ?", messageID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &message, nil
}

// TransitionStatus applies a transport report when the message is in one of the expected statuses
func (r *QueuedMessageRepository) TransitionStatus(ctx context.Context, report models.StatusReport, from []string) (bool, error) {
	updates := map[string]interface{}{
		"status":     report.Status,
		"updated_at": time.Now(),
	}
	if report.ErrorMessage != "" {
		updates["error_message"] = report.ErrorMessage
	}
	if report.RespondedAt != nil {
		updates["responded_at"] = *report.RespondedAt
	}

	result := r.db.WithContext(ctx).Model(&models.QueuedMessage{}).
		Where("id = ? AND status IN ?", report.MessageID, from).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ParticipationByCampaigns maps phone to the campaigns that reached it without failing
func (r *QueuedMessageRepository) ParticipationByCampaigns(ctx context.Context, organizationID string, campaignIDs []string) (map[string][]string, error) {
	participation := make(map[string][]string)
	if len(campaignIDs) == 0 {
		return participation, nil
	}

	var rows []struct {
		Phone      string
		CampaignID string
	}
	err := r.db.WithContext(ctx).Model(&models.QueuedMessage{}).
		Select("DISTINCT phone, campaign_id").
		Where("organization_id = ? AND campaign_id IN ? AND status <> ?", organizationID, campaignIDs, models.MessageStatusError).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		participation[row.Phone] = append(participation[row.Phone], row.CampaignID)
	}
	return participation, nil
}

var _ QueuedMessageStore = (*QueuedMessageRepository)(nil)
