package memstore

import (
	"context"
	"slices"
	"sort"
	"time"

	"github.com/onegreenvn/outreach-dispatch-backend/internal/database/repository"
	"github.com/onegreenvn/outreach-dispatch-backend/internal/models"
)

type auditStore struct{ s *Store }

func (a *auditStore) HoldPending(_ context.Context, batch *models.AuditBatch) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	var ids []string
	for _, id := range a.s.messageOrder {
		msg := a.s.messages[id]
		if msg.CampaignID != batch.CampaignID {
			continue
		}
		if msg.Status == models.MessageStatusPending || msg.Status == models.MessageStatusProcessing {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return repository.ErrNothingToHold
	}
	// Nothing has been touched yet, which is what a rolled back transaction looks like.
	if a.s.auditFailure != nil {
		return a.s.auditFailure
	}

	now := time.Now()
	for _, id := range ids {
		msg := a.s.messages[id]
		msg.Status = models.MessageStatusHeld
		msg.UpdatedAt = now
	}

	batch.MessageIDs = ids
	a.s.audits = append(a.s.audits, cloneBatch(batch))

	if campaign, ok := a.s.campaigns[batch.CampaignID]; ok {
		campaign.Status = models.CampaignStatusPaused
		campaign.UpdatedAt = now
	}
	return nil
}

func (a *auditStore) ReleaseBatch(_ context.Context, pause *models.AuditBatch, resume *models.AuditBatch) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	if a.s.auditFailure != nil {
		return a.s.auditFailure
	}

	restored := make([]string, 0, len(pause.MessageIDs))
	now := time.Now()
	for _, id := range pause.MessageIDs {
		msg, ok := a.s.messages[id]
		if !ok || msg.CampaignID != pause.CampaignID || msg.Status != models.MessageStatusHeld {
			continue
		}
		msg.Status = models.MessageStatusPending
		msg.UpdatedAt = now
		restored = append(restored, id)
	}

	pauseID := pause.ID
	resume.ResumedBatchID = &pauseID
	resume.MessageIDs = restored
	a.s.audits = append(a.s.audits, cloneBatch(resume))

	if campaign, ok := a.s.campaigns[pause.CampaignID]; ok {
		campaign.Status = models.CampaignStatusActive
		campaign.UpdatedAt = now
	}
	return nil
}

func (a *auditStore) GetByCampaignAndID(_ context.Context, campaignID, batchID string) (*models.AuditBatch, error) {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()

	for _, b := range a.s.audits {
		if b.ID == batchID && b.CampaignID == campaignID {
			return cloneBatch(b), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (a *auditStore) LatestUnresumedPause(_ context.Context, campaignID string) (*models.AuditBatch, error) {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()

	resumed := make(map[string]bool)
	for _, b := range a.s.audits {
		if b.Operation == models.AuditOperationResume && b.ResumedBatchID != nil {
			resumed[*b.ResumedBatchID] = true
		}
	}

	var latest *models.AuditBatch
	for _, b := range a.s.audits {
		if b.CampaignID != campaignID || b.Operation != models.AuditOperationPause || resumed[b.ID] {
			continue
		}
		if latest == nil || !b.PerformedAt.Before(latest.PerformedAt) {
			latest = b
		}
	}
	if latest == nil {
		return nil, repository.ErrNotFound
	}
	return cloneBatch(latest), nil
}

func (a *auditStore) FindResume(_ context.Context, campaignID, pauseBatchID string) (*models.AuditBatch, error) {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()

	for _, b := range a.s.audits {
		if b.CampaignID == campaignID && b.Operation == models.AuditOperationResume &&
			b.ResumedBatchID != nil && *b.ResumedBatchID == pauseBatchID {
			return cloneBatch(b), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (a *auditStore) ListByCampaign(_ context.Context, campaignID string) ([]*models.AuditBatch, error) {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()

	var out []*models.AuditBatch
	for _, b := range a.s.audits {
		if b.CampaignID == campaignID {
			out = append(out, cloneBatch(b))
		}
	}
	// newest first; write order breaks ties
	slices.Reverse(out)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PerformedAt.After(out[j].PerformedAt)
	})
	return out, nil
}

var _ repository.AuditBatchStore = (*auditStore)(nil)
