package services

import (
	"github.com/onegreenvn/outreach-dispatch-backend/internal/models"
)

// DeriveStatus computes the status a campaign shows from its queue counts and its stored
// status. Draft and cancelled are sticky; otherwise the queue wins.
func DeriveStatus(counts models.MessageCounts, storedStatus string) string {
	switch storedStatus {
	case models.CampaignStatusDraft, models.CampaignStatusCancelled:
		return storedStatus
	}
	if counts.Total == 0 {
		return storedStatus
	}

	// Failed messages count as not sent: a campaign with errors never derives completed.
	if counts.Held > 0 && counts.Held == counts.Total-counts.Sent {
		return models.CampaignStatusPaused
	}
	if counts.Sent == counts.Total {
		return models.CampaignStatusCompleted
	}
	if storedStatus == models.CampaignStatusScheduled &&
		counts.Pending == counts.Total {
		return models.CampaignStatusScheduled
	}
	return models.CampaignStatusActive
}
