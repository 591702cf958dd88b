package models

import (
	"time"
)

// Dispatch event types published to the transport worker and streamed to dashboards
const (
	EventCampaignActivated = "campaign_activated"
	EventCampaignPaused    = "campaign_paused"
	EventCampaignResumed   = "campaign_resumed"
	EventDelaysUpdated     = "campaign_delays_updated"
	EventMessageStatus     = "message_status"
	EventInstanceStatus    = "instance_status"
)

// DispatchEvent describes a state change of a campaign queue or an instance.
// It is not persisted; the audit ledger is the durable record.
type DispatchEvent struct {
	Type           string `json:"type" example:"campaign_paused"`
	OrganizationID string `json:"organization_id"`
	CampaignID     string `json:"campaign_id,omitempty"`
	InstanceID     string `json:"instance_id,omitempty"`
	BatchID        string `json:"batch_id,omitempty"`

	// Status is the campaign's derived status, or the instance status for instance events
	Status string `json:"status,omitempty" example:"paused"`
	Count  int    `json:"count,omitempty" example:"5"`

	CreatedAt time.Time `json:"created_at"`
}

// Payload flattens the event for queue publishing
func (e DispatchEvent) Payload() map[string]interface{} {
	payload := map[string]interface{}{
		"type":            e.Type,
		"organization_id": e.OrganizationID,
		"created_at":      e.CreatedAt.Format(time.RFC3339),
	}
	if e.CampaignID != "" {
		payload["campaign_id"] = e.CampaignID
	}
	if e.InstanceID != "" {
		payload["instance_id"] = e.InstanceID
	}
	if e.BatchID != "" {
		payload["batch_id"] = e.BatchID
	}
	if e.Status != "" {
		payload["status"] = e.Status
	}
	payload["count"] = e.Count
	return payload
}
