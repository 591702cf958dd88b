package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/onegreenvn/outreach-dispatch-backend/internal/database/repository"
	"github.com/onegreenvn/outreach-dispatch-backend/internal/models"
)

type campaignStore struct{ s *Store }

func (c *campaignStore) Create(_ context.Context, campaign *models.Campaign) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	if campaign.ID == "" {
		campaign.ID = uuid.NewString()
	}
	if campaign.Status == "" {
		campaign.Status = models.CampaignStatusDraft
	}
	now := time.Now()
	campaign.CreatedAt = now
	campaign.UpdatedAt = now
	c.s.campaigns[campaign.ID] = cloneCampaign(campaign)
	return nil
}

func (c *campaignStore) GetByOrganizationAndID(_ context.Context, organizationID, campaignID string) (*models.Campaign, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()

	campaign, ok := c.s.campaigns[campaignID]
	if !ok || campaign.OrganizationID != organizationID {
		return nil, repository.ErrNotFound
	}
	return cloneCampaign(campaign), nil
}

func (c *campaignStore) ListByOrganization(_ context.Context, organizationID string, limit, offset int) ([]*models.Campaign, int64, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()

	items := make([]*models.Campaign, 0)
	for _, campaign := range c.s.campaigns {
		if campaign.OrganizationID == organizationID {
			items = append(items, cloneCampaign(campaign))
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})

	total := int64(len(items))
	if offset >= len(items) {
		return []*models.Campaign{}, total, nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items, total, nil
}

func (c *campaignStore) UpdateDelays(_ context.Context, campaignID string, minDelay, maxDelay int) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	campaign, ok := c.s.campaigns[campaignID]
	if !ok {
		return repository.ErrNotFound
	}
	campaign.MinDelaySeconds = minDelay
	campaign.MaxDelaySeconds = maxDelay
	campaign.UpdatedAt = time.Now()
	return nil
}

func (c *campaignStore) MarkActivated(_ context.Context, campaignID string, snapshot []string, startedAt time.Time) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	campaign, ok := c.s.campaigns[campaignID]
	if !ok {
		return repository.ErrNotFound
	}
	campaign.Status = models.CampaignStatusActive
	if campaign.StartedAt == nil {
		started := startedAt
		campaign.StartedAt = &started
	}
	campaign.AudienceSnapshot = append([]string(nil), snapshot...)
	campaign.UpdatedAt = time.Now()
	return nil
}

func (c *campaignStore) UpdateTotalMensagens(_ context.Context, campaignID string, total int) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	if campaign, ok := c.s.campaigns[campaignID]; ok {
		campaign.TotalMensagens = total
	}
	return nil
}

func (c *campaignStore) MarkCompleted(_ context.Context, campaignID string, completedAt time.Time) (bool, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	campaign, ok := c.s.campaigns[campaignID]
	if !ok {
		return false, repository.ErrNotFound
	}
	if campaign.CompletedAt != nil {
		return false, nil
	}
	completed := completedAt
	campaign.CompletedAt = &completed
	campaign.UpdatedAt = time.Now()
	return true, nil
}

var _ repository.CampaignStore = (*campaignStore)(nil)
