package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/onegreenvn/outreach-dispatch-backend/internal/database/repository"
	"github.com/onegreenvn/outreach-dispatch-backend/internal/models"
	"github.com/onegreenvn/outreach-dispatch-backend/internal/utils"
	"github.com/sirupsen/logrus"
)

// ResumeResult describes a restored pause batch
type ResumeResult struct {
	PauseBatchID string
	Resume       *models.AuditBatch
	Restored     []string
	Status       string
}

// PauseResumeService holds and releases a campaign's queue in audited batches
type PauseResumeService struct {
	stores   repository.Stores
	locker   CampaignLocker
	notifier Notifier
}

func NewPauseResumeService(stores repository.Stores, locker CampaignLocker, notifier Notifier) *PauseResumeService {
	return &PauseResumeService{
		stores:   stores,
		locker:   locker,
		notifier: notifierOrNoop(notifier),
	}
}

// Pause holds every pending or processing message of the campaign and records them as one batch
func (s *PauseResumeService) Pause(ctx context.Context, organizationID, campaignID, actorID string) (*models.AuditBatch, error) {
	unlock, err := s.locker.Lock(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock campaign: %w", err)
	}
	defer unlock()

	if _, err := s.loadCampaign(ctx, organizationID, campaignID); err != nil {
		return nil, err
	}

	batch := &models.AuditBatch{
		ID:             uuid.NewString(),
		CampaignID:     campaignID,
		OrganizationID: organizationID,
		Operation:      models.AuditOperationPause,
		PerformedBy:    actorID,
		PerformedAt:    time.Now(),
	}
	if err := s.stores.Audits.HoldPending(ctx, batch); err != nil {
		if errors.Is(err, repository.ErrNothingToHold) {
			return nil, ErrNothingToPause
		}
		return nil, s.auditFailure(err, organizationID, campaignID, "pause")
	}

	logrus.WithFields(logrus.Fields{
		"campaign_id": campaignID,
		"batch_id":    batch.ID,
		"held":        len(batch.MessageIDs),
		"actor":       actorID,
	}).Info("Campaign paused")

	s.notifier.Notify(ctx, models.DispatchEvent{
		Type:           models.EventCampaignPaused,
		OrganizationID: organizationID,
		CampaignID:     campaignID,
		BatchID:        batch.ID,
		Status:         s.derivedStatus(ctx, campaignID, models.CampaignStatusPaused),
		Count:          len(batch.MessageIDs),
	})

	return batch, nil
}

// Resume restores one pause batch. An empty batchID picks the campaign's latest batch not yet resumed.
// Only the batch's messages still held go back to pending.
func (s *PauseResumeService) Resume(ctx context.Context, organizationID, campaignID, batchID, actorID string) (*ResumeResult, error) {
	unlock, err := s.locker.Lock(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock campaign: %w", err)
	}
	defer unlock()

	if _, err := s.loadCampaign(ctx, organizationID, campaignID); err != nil {
		return nil, err
	}

	pause, err := s.findPauseBatch(ctx, campaignID, batchID)
	if err != nil {
		return nil, err
	}

	resume := &models.AuditBatch{
		ID:             uuid.NewString(),
		CampaignID:     campaignID,
		OrganizationID: organizationID,
		Operation:      models.AuditOperationResume,
		PerformedBy:    actorID,
		PerformedAt:    time.Now(),
	}
	if err := s.stores.Audits.ReleaseBatch(ctx, pause, resume); err != nil {
		return nil, s.auditFailure(err, organizationID, campaignID, "resume")
	}

	status := s.derivedStatus(ctx, campaignID, models.CampaignStatusActive)

	logrus.WithFields(logrus.Fields{
		"campaign_id":    campaignID,
		"pause_batch_id": pause.ID,
		"restored":       len(resume.MessageIDs),
		"actor":          actorID,
	}).Info("Campaign resumed")

	s.notifier.Notify(ctx, models.DispatchEvent{
		Type:           models.EventCampaignResumed,
		OrganizationID: organizationID,
		CampaignID:     campaignID,
		BatchID:        pause.ID,
		Status:         status,
		Count:          len(resume.MessageIDs),
	})

	return &ResumeResult{
		PauseBatchID: pause.ID,
		Resume:       resume,
		Restored:     resume.MessageIDs,
		Status:       status,
	}, nil
}

func (s *PauseResumeService) findPauseBatch(ctx context.Context, campaignID, batchID string) (*models.AuditBatch, error) {
	if batchID == "" {
		pause, err := s.stores.Audits.LatestUnresumedPause(ctx, campaignID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrNoPauseBatchFound
			}
			return nil, fmt.Errorf("failed to load pause batch: %w", err)
		}
		return pause, nil
	}

	if _, err := uuid.Parse(batchID); err != nil {
		return nil, ErrNoPauseBatchFound
	}
	pause, err := s.stores.Audits.GetByCampaignAndID(ctx, campaignID, batchID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoPauseBatchFound
		}
		return nil, fmt.Errorf("failed to load pause batch: %w", err)
	}
	if pause.Operation != models.AuditOperationPause {
		return nil, ErrNoPauseBatchFound
	}

	// A later pause may hold the same messages again; restoring them under this batch would undo it.
	if _, err := s.stores.Audits.FindResume(ctx, campaignID, pause.ID); err == nil {
		return nil, ErrBatchAlreadyResumed
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check resume history: %w", err)
	}
	return pause, nil
}

func (s *PauseResumeService) loadCampaign(ctx context.Context, organizationID, campaignID string) (*models.Campaign, error) {
	campaign, err := s.stores.Campaigns.GetByOrganizationAndID(ctx, organizationID, campaignID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCampaignNotFound
		}
		return nil, fmt.Errorf("failed to load campaign: %w", err)
	}
	return campaign, nil
}

func (s *PauseResumeService) auditFailure(err error, organizationID, campaignID, operation string) error {
	failure := &AuditWriteFailure{Err: err}
	logrus.WithFields(logrus.Fields{
		"campaign_id": campaignID,
		"operation":   operation,
	}).Errorf("Audit write failed: %v", err)
	utils.CaptureError(failure, map[string]string{
		"campaign_id":     campaignID,
		"organization_id": organizationID,
		"operation":       operation,
	})
	return failure
}

func (s *PauseResumeService) derivedStatus(ctx context.Context, campaignID, stored string) string {
	counts, err := s.stores.Messages.CountsByCampaign(ctx, campaignID)
	if err != nil {
		logrus.WithField("campaign_id", campaignID).Warnf("Failed to count messages: %v", err)
		return stored
	}
	return DeriveStatus(counts, stored)
}
