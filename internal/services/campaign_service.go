package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/onegreenvn/outreach-dispatch-backend/internal/database/repository"
	"github.com/onegreenvn/outreach-dispatch-backend/internal/models"
	"github.com/sirupsen/logrus"
)

type CampaignService struct {
	stores   repository.Stores
	filter   *ContactFilter
	assigner *InstanceAssigner
	locker   CampaignLocker
	notifier Notifier
}

func NewCampaignService(
	stores repository.Stores,
	filter *ContactFilter,
	assigner *InstanceAssigner,
	locker CampaignLocker,
	notifier Notifier,
) *CampaignService {
	return &CampaignService{
		stores:   stores,
		filter:   filter,
		assigner: assigner,
		locker:   locker,
		notifier: notifierOrNoop(notifier),
	}
}

// CreateCampaign creates a draft (or scheduled) campaign for an organization
func (s *CampaignService) CreateCampaign(ctx context.Context, organizationID string, req *models.CreateCampaignRequest) (*models.CampaignResponse, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, &ValidationError{Field: "name", Message: "name is required"}
	}
	if err := validateDelays(req.MinDelaySeconds, req.MaxDelaySeconds); err != nil {
		return nil, err
	}
	if err := validateSendWindow(req.SendWindowStart, req.SendWindowEnd); err != nil {
		return nil, err
	}

	status := models.CampaignStatusDraft
	if req.Scheduled {
		status = models.CampaignStatusScheduled
	}

	campaign := &models.Campaign{
		OrganizationID:  organizationID,
		Name:            strings.TrimSpace(req.Name),
		Status:          status,
		ContentText:     req.ContentText,
		MediaURL:        req.MediaURL,
		MediaType:       req.MediaType,
		MinDelaySeconds: req.MinDelaySeconds,
		MaxDelaySeconds: req.MaxDelaySeconds,
		SendWindowStart: req.SendWindowStart,
		SendWindowEnd:   req.SendWindowEnd,
		AudienceSpec:    req.AudienceSpec,
	}
	if err := s.stores.Campaigns.Create(ctx, campaign); err != nil {
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}

	return s.toResponse(campaign, models.MessageCounts{}), nil
}

// GetCampaigns retrieves a page of the organization's campaigns with their derived status
func (s *CampaignService) GetCampaigns(ctx context.Context, organizationID string, page, pageSize int) ([]*models.CampaignResponse, int, error) {
	campaigns, total, err := s.stores.Campaigns.ListByOrganization(ctx, organizationID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get campaigns: %w", err)
	}

	ids := make([]string, len(campaigns))
	for i, campaign := range campaigns {
		ids[i] = campaign.ID
	}
	counts, err := s.stores.Messages.CountsByCampaigns(ctx, ids)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count messages: %w", err)
	}

	responses := make([]*models.CampaignResponse, len(campaigns))
	for i, campaign := range campaigns {
		responses[i] = s.toResponse(campaign, counts[campaign.ID])
	}
	return responses, int(total), nil
}

// GetCampaignByID retrieves a campaign with its derived status and counts
func (s *CampaignService) GetCampaignByID(ctx context.Context, organizationID, campaignID string) (*models.CampaignResponse, error) {
	campaign, err := s.getCampaign(ctx, organizationID, campaignID)
	if err != nil {
		return nil, err
	}
	counts, err := s.stores.Messages.CountsByCampaign(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to count messages: %w", err)
	}
	return s.toResponse(campaign, counts), nil
}

// GetStatus returns the stored and derived status with the queue counts
func (s *CampaignService) GetStatus(ctx context.Context, organizationID, campaignID string) (*models.CampaignStatusResponse, error) {
	campaign, err := s.getCampaign(ctx, organizationID, campaignID)
	if err != nil {
		return nil, err
	}
	counts, err := s.stores.Messages.CountsByCampaign(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to count messages: %w", err)
	}
	return &models.CampaignStatusResponse{
		CampaignID:   campaign.ID,
		StoredStatus: campaign.Status,
		Status:       DeriveStatus(counts, campaign.Status),
		Counts:       counts,
	}, nil
}

// UpdateDelays changes the delay bounds and re-rolls the delay of every message still pending
func (s *CampaignService) UpdateDelays(ctx context.Context, organizationID, campaignID string, minDelay, maxDelay int) (*models.UpdateDelaysResponse, error) {
	if err := validateDelays(minDelay, maxDelay); err != nil {
		return nil, err
	}

	unlock, err := s.locker.Lock(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock campaign: %w", err)
	}
	defer unlock()

	campaign, err := s.getCampaign(ctx, organizationID, campaignID)
	if err != nil {
		return nil, err
	}

	if err := s.stores.Campaigns.UpdateDelays(ctx, campaignID, minDelay, maxDelay); err != nil {
		return nil, fmt.Errorf("failed to update delays: %w", err)
	}

	rerolled, err := s.stores.Messages.RerollPendingDelays(ctx, campaign.ID, func() int {
		return s.assigner.RollDelay(minDelay, maxDelay)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to re-roll pending delays: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"campaign_id": campaignID,
		"min":         minDelay,
		"max":         maxDelay,
		"rerolled":    rerolled,
	}).Info("Campaign delays updated")

	s.notifier.Notify(ctx, models.DispatchEvent{
		Type:           models.EventDelaysUpdated,
		OrganizationID: organizationID,
		CampaignID:     campaignID,
		Count:          rerolled,
	})

	return &models.UpdateDelaysResponse{
		CampaignID:      campaignID,
		MinDelaySeconds: minDelay,
		MaxDelaySeconds: maxDelay,
		Rerolled:        rerolled,
	}, nil
}

// PreviewAudience resolves an audience without enqueuing anything. A nil spec uses the campaign's stored audience.
func (s *CampaignService) PreviewAudience(ctx context.Context, organizationID, campaignID string, spec *models.AudienceSpec) (*models.AudiencePreviewResponse, error) {
	campaign, err := s.getCampaign(ctx, organizationID, campaignID)
	if err != nil {
		return nil, err
	}
	target := campaign.AudienceSpec
	if spec != nil {
		target = *spec
	}

	contacts, err := resolveAudience(ctx, s.stores, s.filter, organizationID, target)
	if err != nil {
		return nil, err
	}
	return &models.AudiencePreviewResponse{Total: len(contacts), Contacts: contacts}, nil
}

// GetAuditBatches lists the campaign's pause/resume ledger, newest first
func (s *CampaignService) GetAuditBatches(ctx context.Context, organizationID, campaignID string) ([]*models.AuditBatch, error) {
	if _, err := s.getCampaign(ctx, organizationID, campaignID); err != nil {
		return nil, err
	}
	batches, err := s.stores.Audits.ListByCampaign(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to get audit batches: %w", err)
	}
	return batches, nil
}

func (s *CampaignService) getCampaign(ctx context.Context, organizationID, campaignID string) (*models.Campaign, error) {
	campaign, err := s.stores.Campaigns.GetByOrganizationAndID(ctx, organizationID, campaignID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCampaignNotFound
		}
		return nil, fmt.Errorf("failed to load campaign: %w", err)
	}
	return campaign, nil
}

// toResponse converts a campaign model to response format
func (s *CampaignService) toResponse(campaign *models.Campaign, counts models.MessageCounts) *models.CampaignResponse {
	return &models.CampaignResponse{
		ID:              campaign.ID,
		OrganizationID:  campaign.OrganizationID,
		Name:            campaign.Name,
		StoredStatus:    campaign.Status,
		Status:          DeriveStatus(counts, campaign.Status),
		ContentText:     campaign.ContentText,
		MediaURL:        campaign.MediaURL,
		MediaType:       campaign.MediaType,
		MinDelaySeconds: campaign.MinDelaySeconds,
		MaxDelaySeconds: campaign.MaxDelaySeconds,
		SendWindowStart: campaign.SendWindowStart,
		SendWindowEnd:   campaign.SendWindowEnd,
		AudienceSpec:    campaign.AudienceSpec,
		TotalMensagens:  campaign.TotalMensagens,
		Counts:          counts,
		CreatedAt:       campaign.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       campaign.UpdatedAt.Format(time.RFC3339),
		StartedAt:       campaign.StartedAt,
		CompletedAt:     campaign.CompletedAt,
	}
}
