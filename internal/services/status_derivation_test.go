package services

import (
	"testing"

	"github.com/onegreenvn/outreach-dispatch-backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func counts(pending, processing, held, sent, failed int) models.MessageCounts {
	return models.MessageCounts{
		Total:      pending + processing + held + sent + failed,
		Pending:    pending,
		Processing: processing,
		Held:       held,
		Sent:       sent,
		Failed:     failed,
	}
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name   string
		counts models.MessageCounts
		stored string
		want   string
	}{
		{"draft is sticky", counts(3, 0, 0, 0, 0), models.CampaignStatusDraft, models.CampaignStatusDraft},
		{"cancelled is sticky", counts(0, 0, 2, 1, 0), models.CampaignStatusCancelled, models.CampaignStatusCancelled},
		{"empty queue keeps stored", counts(0, 0, 0, 0, 0), models.CampaignStatusActive, models.CampaignStatusActive},
		{"all held is paused", counts(0, 0, 3, 0, 0), models.CampaignStatusActive, models.CampaignStatusPaused},
		{"held plus sent is paused", counts(0, 0, 2, 4, 0), models.CampaignStatusActive, models.CampaignStatusPaused},
		{"held plus failed is active", counts(0, 0, 8, 0, 2), models.CampaignStatusActive, models.CampaignStatusActive},
		{"held with pending is active", counts(1, 0, 2, 0, 0), models.CampaignStatusPaused, models.CampaignStatusActive},
		{"all sent is completed", counts(0, 0, 0, 4, 0), models.CampaignStatusActive, models.CampaignStatusCompleted},
		{"sent and failed is active", counts(0, 0, 0, 4, 2), models.CampaignStatusActive, models.CampaignStatusActive},
		{"all failed is active", counts(0, 0, 0, 0, 3), models.CampaignStatusActive, models.CampaignStatusActive},
		{"empty scheduled passes through", models.MessageCounts{Total: 0}, models.CampaignStatusScheduled, models.CampaignStatusScheduled},
		{"ten held is paused", models.MessageCounts{Total: 10, Held: 10}, models.CampaignStatusActive, models.CampaignStatusPaused},
		{"ten sent is completed", models.MessageCounts{Total: 10, Sent: 10}, models.CampaignStatusActive, models.CampaignStatusCompleted},
		{"three held two sent is active", models.MessageCounts{Total: 10, Held: 3, Sent: 2, Pending: 5}, models.CampaignStatusActive, models.CampaignStatusActive},
		{"scheduled untouched stays scheduled", counts(5, 0, 0, 0, 0), models.CampaignStatusScheduled, models.CampaignStatusScheduled},
		{"scheduled with progress is active", counts(4, 1, 0, 0, 0), models.CampaignStatusScheduled, models.CampaignStatusActive},
		{"scheduled with sent is active", counts(4, 0, 0, 1, 0), models.CampaignStatusScheduled, models.CampaignStatusActive},
		{"pending is active", counts(2, 1, 0, 3, 0), models.CampaignStatusActive, models.CampaignStatusActive},
		{"stored paused but queue pending is active", counts(2, 0, 0, 0, 0), models.CampaignStatusPaused, models.CampaignStatusActive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(tt.counts, tt.stored))
		})
	}
}
