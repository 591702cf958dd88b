package models

import (
	"time"

	"github.com/lib/pq"
)

// Audit operations
const (
	AuditOperationPause  = "pause"
	AuditOperationResume = "resume"
)

// AuditBatch is an immutable ledger row describing one bulk status change on a campaign queue.
// A pause row lists exactly the messages it held; a resume row points at the pause it undid.
type AuditBatch struct {
	ID             string         `json:"id" gorm:"primaryKey;type:uuid"`
	CampaignID     string         `json:"campaign_id" gorm:"not null;type:uuid;index:idx_audit_batches_campaign_performed,priority:1"`
	OrganizationID string         `json:"organization_id" gorm:"not null;type:uuid;index"`
	Operation      string         `json:"operation" gorm:"type:varchar(20);not null"`
	MessageIDs     pq.StringArray `json:"message_ids" gorm:"type:text[];not null"`
	ResumedBatchID *string        `json:"resumed_batch_id,omitempty" gorm:"type:uuid;index"`
	PerformedBy    string         `json:"performed_by" gorm:"type:varchar(255);not null"`
	PerformedAt    time.Time      `json:"performed_at" gorm:"not null;index:idx_audit_batches_campaign_performed,priority:2"`
}

// TableName specifies the table name for the AuditBatch model
func (AuditBatch) TableName() string {
	return "audit_batches"
}

// PauseResponse is returned by the pause endpoint so the caller can offer an undo
type PauseResponse struct {
	BatchID     string    `json:"batch_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	CampaignID  string    `json:"campaign_id"`
	HeldCount   int       `json:"held_count" example:"5"`
	MessageIDs  []string  `json:"message_ids"`
	PerformedAt time.Time `json:"performed_at"`
	Status      string    `json:"status" example:"paused"`
	Changed     bool      `json:"changed" example:"true"`
}

// ResumeRequest optionally targets a specific pause batch
type ResumeRequest struct {
	BatchID string `json:"batch_id" example:"550e8400-e29b-41d4-a716-446655440000"`
}

// ResumeResponse lists the messages returned to the pending queue
type ResumeResponse struct {
	BatchID       string   `json:"batch_id"`
	CampaignID    string   `json:"campaign_id"`
	RestoredCount int      `json:"restored_count" example:"5"`
	MessageIDs    []string `json:"message_ids"`
	Status        string   `json:"status" example:"active"`
	Changed       bool     `json:"changed" example:"true"`
}

// ActivationResponse is returned by the activate endpoint
type ActivationResponse struct {
	CampaignID     string `json:"campaign_id"`
	InsertedCount  int    `json:"inserted_count" example:"3"`
	TotalMensagens int    `json:"total_mensagens" example:"3"`
	Status         string `json:"status" example:"active"`
	Changed        bool   `json:"changed" example:"true"`
}
