package repository

import (
	"context"
	"errors"
	"time"

	"github.com/onegreenvn/outreach-dispatch-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const idChunkSize = 1000

type AuditBatchRepository struct {
	db *gorm.DB
}

func NewAuditBatchRepository(db *gorm.DB) *AuditBatchRepository {
	return &AuditBatchRepository{db: db}
}

// HoldPending moves every pending or processing message of the campaign to held, writes the
// pause batch listing exactly those ids and marks the campaign paused. All or nothing.
func (r *AuditBatchRepository) HoldPending(ctx context.Context, batch *models.AuditBatch) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []string
		if err := tx.Model(&models.QueuedMessage{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("campaign_id = ? AND status IN ?", batch.CampaignID,
				[]string{models.MessageStatusPending, models.MessageStatusProcessing}).
			Order("created_at ASC").
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return ErrNothingToHold
		}

		now := time.Now()
		for _, chunk := range chunkStrings(ids, idChunkSize) {
			if err := tx.Model(&models.QueuedMessage{}).
				Where("id IN ?", chunk).
				Updates(map[string]interface{}{
					"status":     models.MessageStatusHeld,
					"updated_at": now,
				}).Error; err != nil {
				return err
			}
		}

		batch.MessageIDs = ids
		if err := tx.Create(batch).Error; err != nil {
			return err
		}

		return tx.Model(&models.Campaign{}).
			Where("id = ?", batch.CampaignID).
			Updates(map[string]interface{}{
				"status":     models.CampaignStatusPaused,
				"updated_at": now,
			}).Error
	})
	if err != nil {
		batch.MessageIDs = nil
		return err
	}
	return nil
}

// ReleaseBatch returns the pause batch's still-held messages to pending, appends the resume
// row listing them and marks the campaign active. All or nothing.
func (r *AuditBatchRepository) ReleaseBatch(ctx context.Context, pause *models.AuditBatch, resume *models.AuditBatch) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		restored := make([]string, 0, len(pause.MessageIDs))
		for _, chunk := range chunkStrings(pause.MessageIDs, idChunkSize) {
			var ids []string
			if err := tx.Model(&models.QueuedMessage{}).
				Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("id IN ? AND campaign_id = ? AND status = ?", chunk, pause.CampaignID, models.MessageStatusHeld).
				Pluck("id", &ids).Error; err != nil {
				return err
			}
			restored = append(restored, ids...)
		}

		now := time.Now()
		for _, chunk := range chunkStrings(restored, idChunkSize) {
			if err := tx.Model(&models.QueuedMessage{}).
				Where("id IN ?", chunk).
				Updates(map[string]interface{}{
					"status":     models.MessageStatusPending,
					"updated_at": now,
				}).Error; err != nil {
				return err
			}
		}

		pauseID := pause.ID
		resume.ResumedBatchID = &pauseID
		resume.MessageIDs = restored
		if err := tx.Create(resume).Error; err != nil {
			return err
		}

		return tx.Model(&models.Campaign{}).
			Where("id = ?", pause.CampaignID).
			Updates(map[string]interface{}{
				"status":     models.CampaignStatusActive,
				"updated_at": now,
			}).Error
	})
	if err != nil {
		resume.MessageIDs = nil
		return err
	}
	return nil
}

// GetByCampaignAndID retrieves a ledger row of the campaign
func (r *AuditBatchRepository) GetByCampaignAndID(ctx context.Context, campaignID, batchID string) (*models.AuditBatch, error) {
	var batch models.AuditBatch
	err := r.db.WithContext(ctx).
		Where("campaign_id = ? AND id = ?", campaignID, batchID).
		First(&batch).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// LatestUnresumedPause retrieves the newest pause batch of the campaign that no resume row points at
func (r *AuditBatchRepository) LatestUnresumedPause(ctx context.Context, campaignID string) (*models.AuditBatch, error) {
	var batch models.AuditBatch
	err := r.db.WithContext(ctx).
		Where("campaign_id = ? AND operation = ?", campaignID, models.AuditOperationPause).
		Where("NOT EXISTS (SELECT 1 FROM audit_batches r WHERE r.operation = ? AND r.resumed_batch_id = audit_batches.id)",
			models.AuditOperationResume).
		Order("performed_at DESC").
		First(&batch).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// FindResume retrieves the resume row pointing at the pause batch
func (r *AuditBatchRepository) FindResume(ctx context.Context, campaignID, pauseBatchID string) (*models.AuditBatch, error) {
	var batch models.AuditBatch
	err := r.db.WithContext(ctx).
		Where("campaign_id = ? AND operation = ? AND resumed_batch_id = ?", campaignID, models.AuditOperationResume, pauseBatchID).
		First(&batch).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// ListByCampaign retrieves the campaign's ledger, newest first
func (r *AuditBatchRepository) ListByCampaign(ctx context.Context, campaignID string) ([]*models.AuditBatch, error) {
	var batches []*models.AuditBatch
	err := r.db.WithContext(ctx).
		Where("campaign_id = ?", campaignID).
		Order("performed_at DESC").
		Find(&batches).Error
	return batches, err
}

var _ AuditBatchStore = (*AuditBatchRepository)(nil)
