package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/onegreenvn/outreach-dispatch-backend/internal/database/repository"
	"github.com/onegreenvn/outreach-dispatch-backend/internal/models"
	"github.com/onegreenvn/outreach-dispatch-backend/internal/utils"
	"github.com/sirupsen/logrus"
)

const defaultActivationBatchSize = 100

var sendWindowPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// ActivationResult describes what an activation changed
type ActivationResult struct {
	CampaignID     string
	Inserted       int
	TotalMensagens int
	Status         string
}

// ActivationService turns a campaign and its audience into queued messages.
// Re-running it only enqueues contacts whose phone is not queued yet.
type ActivationService struct {
	stores    repository.Stores
	filter    *ContactFilter
	assigner  *InstanceAssigner
	locker    CampaignLocker
	notifier  Notifier
	batchSize int
}

func NewActivationService(
	stores repository.Stores,
	filter *ContactFilter,
	assigner *InstanceAssigner,
	locker CampaignLocker,
	notifier Notifier,
	batchSize int,
) *ActivationService {
	if batchSize <= 0 {
		batchSize = defaultActivationBatchSize
	}
	return &ActivationService{
		stores:    stores,
		filter:    filter,
		assigner:  assigner,
		locker:    locker,
		notifier:  notifierOrNoop(notifier),
		batchSize: batchSize,
	}
}

// Activate resolves the audience, enqueues every contact not queued yet and marks the campaign active
func (s *ActivationService) Activate(ctx context.Context, organizationID, campaignID string) (*ActivationResult, error) {
	unlock, err := s.locker.Lock(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock campaign: %w", err)
	}
	defer unlock()

	log := logrus.WithFields(logrus.Fields{
		"organization_id": organizationID,
		"campaign_id":     campaignID,
	})

	campaign, err := s.stores.Campaigns.GetByOrganizationAndID(ctx, organizationID, campaignID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCampaignNotFound
		}
		return nil, fmt.Errorf("failed to load campaign: %w", err)
	}
	if err := validateForActivation(campaign); err != nil {
		return nil, err
	}

	audience, err := resolveAudience(ctx, s.stores, s.filter, organizationID, campaign.AudienceSpec)
	if err != nil {
		return nil, err
	}
	if len(audience) == 0 {
		return nil, &ValidationError{Field: "audience_spec", Message: "audience resolves to no contacts"}
	}

	instances, err := s.stores.Instances.ListActive(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load instances: %w", err)
	}
	if len(instances) == 0 {
		return nil, ErrNoActiveInstances
	}

	queuedPhones, err := s.stores.Messages.ListPhonesByCampaign(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to load queued phones: %w", err)
	}
	seen := make(map[string]bool, len(queuedPhones)+len(audience))
	for _, phone := range queuedPhones {
		seen[phone] = true
	}

	snapshot := make([]string, 0, len(audience))
	toInsert := make([]*models.QueuedMessage, 0, len(audience))
	for i := range audience {
		contact := &audience[i].Contact
		snapshot = append(snapshot, contact.ID)

		phone := utils.NormalizePhone(contact.Phone)
		if seen[phone] {
			continue
		}
		seen[phone] = true

		assignment, err := s.assigner.Assign(contact, instances, campaign)
		if err != nil {
			return nil, err
		}
		toInsert = append(toInsert, &models.QueuedMessage{
			ID:             uuid.NewString(),
			CampaignID:     campaign.ID,
			OrganizationID: campaign.OrganizationID,
			ContactID:      contact.ID,
			Phone:          phone,
			ContactName:    contact.Name,
			InstanceID:     assignment.InstanceID,
			Status:         models.MessageStatusPending,
			DelaySeconds:   assignment.DelaySeconds,
			ContentText:    campaign.ContentText,
			MediaURL:       campaign.MediaURL,
			MediaType:      campaign.MediaType,
		})
	}

	inserted := 0
	for start := 0; start < len(toInsert); start += s.batchSize {
		end := min(start+s.batchSize, len(toInsert))
		n, err := s.stores.Messages.InsertBatch(ctx, toInsert[start:end])
		if err != nil {
			s.refreshTotal(ctx, campaignID)
			failure := &PartialActivationFailure{Inserted: inserted, Err: err}
			log.WithField("inserted", inserted).Errorf("Activation aborted: %v", err)
			utils.CaptureError(failure, map[string]string{
				"campaign_id":     campaignID,
				"organization_id": organizationID,
				"operation":       "activate",
			})
			return nil, failure
		}
		inserted += n
	}

	if err := s.stores.Campaigns.MarkActivated(ctx, campaignID, snapshot, time.Now()); err != nil {
		return nil, fmt.Errorf("failed to mark campaign active: %w", err)
	}
	total := s.refreshTotal(ctx, campaignID)

	counts, err := s.stores.Messages.CountsByCampaign(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to count messages: %w", err)
	}
	status := DeriveStatus(counts, models.CampaignStatusActive)

	log.WithFields(logrus.Fields{
		"inserted": inserted,
		"audience": len(audience),
		"total":    total,
	}).Info("Campaign activated")

	s.notifier.Notify(ctx, models.DispatchEvent{
		Type:           models.EventCampaignActivated,
		OrganizationID: organizationID,
		CampaignID:     campaignID,
		Status:         status,
		Count:          inserted,
	})

	return &ActivationResult{
		CampaignID:     campaignID,
		Inserted:       inserted,
		TotalMensagens: total,
		Status:         status,
	}, nil
}

// refreshTotal recomputes total_mensagens from a live count. Failures are logged only.
func (s *ActivationService) refreshTotal(ctx context.Context, campaignID string) int {
	total, err := s.stores.Messages.CountByCampaign(ctx, campaignID)
	if err != nil {
		logrus.WithField("campaign_id", campaignID).Warnf("Failed to count messages: %v", err)
		return 0
	}
	if err := s.stores.Campaigns.UpdateTotalMensagens(ctx, campaignID, total); err != nil {
		logrus.WithField("campaign_id", campaignID).Warnf("Failed to update total_mensagens: %v", err)
	}
	return total
}

func validateForActivation(campaign *models.Campaign) error {
	switch campaign.Status {
	case models.CampaignStatusCancelled, models.CampaignStatusCompleted:
		return &ValidationError{Field: "status", Message: fmt.Sprintf("cannot activate a %s campaign", campaign.Status)}
	}
	if strings.TrimSpace(campaign.Name) == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	if strings.TrimSpace(campaign.ContentText) == "" && strings.TrimSpace(campaign.MediaURL) == "" {
		return &ValidationError{Field: "content_text", Message: "content text or media is required"}
	}
	if err := validateDelays(campaign.MinDelaySeconds, campaign.MaxDelaySeconds); err != nil {
		return err
	}
	return validateSendWindow(campaign.SendWindowStart, campaign.SendWindowEnd)
}

func validateDelays(minDelay, maxDelay int) error {
	if minDelay < 0 {
		return &ValidationError{Field: "min_delay_seconds", Message: "must not be negative"}
	}
	if maxDelay < minDelay {
		return &ValidationError{Field: "max_delay_seconds", Message: "must be greater than or equal to min_delay_seconds"}
	}
	return nil
}

func validateSendWindow(start, end string) error {
	if start == "" && end == "" {
		return nil
	}
	if start == "" || end == "" {
		return &ValidationError{Field: "send_window", Message: "start and end must be set together"}
	}
	if !sendWindowPattern.MatchString(start) {
		return &ValidationError{Field: "send_window_start", Message: "must be HH:MM"}
	}
	if !sendWindowPattern.MatchString(end) {
		return &ValidationError{Field: "send_window_end", Message: "must be HH:MM"}
	}
	return nil
}
