package models

import (
	"time"
)

// Dispatch statuses of a queued message. The values are shared with the transport worker.
const (
	MessageStatusPending    = "pendente"
	MessageStatusProcessing = "processando"
	MessageStatusHeld       = "fila"
	MessageStatusSent       = "enviado"
	MessageStatusError      = "erro"
)

// QueuedMessage is one recipient-specific row of a campaign's dispatch queue
type QueuedMessage struct {
	ID             string `json:"id" gorm:"primaryKey;type:uuid"`
	CampaignID     string `json:"campaign_id" gorm:"not null;type:uuid;uniqueIndex:uk_queued_messages_campaign_phone,priority:1;index:idx_queued_messages_campaign_status,priority:1"`
	OrganizationID string `json:"organization_id" gorm:"not null;type:uuid;index"`
	ContactID      string `json:"contact_id" gorm:"type:uuid;index"`
	Phone          string `json:"phone" gorm:"type:varchar(32);not null;uniqueIndex:uk_queued_messages_campaign_phone,priority:2"`
	ContactName    string `json:"contact_name" gorm:"type:varchar(255)"`
	InstanceID     string `json:"instance_id" gorm:"type:uuid;index"`
	Status         string `json:"status" gorm:"type:varchar(20);not null;index:idx_queued_messages_campaign_status,priority:2"`
	DelaySeconds   int    `json:"delay_seconds" gorm:"not null;default:0"`

	// Content snapshot
	ContentText string `json:"content_text" gorm:"type:text"`
	MediaURL    string `json:"media_url" gorm:"type:text"`
	MediaType   string `json:"media_type" gorm:"type:varchar(50)"`

	ErrorMessage string     `json:"error_message,omitempty" gorm:"type:text"`
	RespondedAt  *time.Time `json:"responded_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the QueuedMessage model
func (QueuedMessage) TableName() string {
	return "queued_messages"
}

// MessageCounts aggregates a campaign's queue by dispatch status
type MessageCounts struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Held       int `json:"held"`
	Sent       int `json:"sent"`
	Failed     int `json:"failed"`
}

// Add counts n messages in the given dispatch status
func (c *MessageCounts) Add(status string, n int) {
	switch status {
	case MessageStatusPending:
		c.Pending += n
	case MessageStatusProcessing:
		c.Processing += n
	case MessageStatusHeld:
		c.Held += n
	case MessageStatusSent:
		c.Sent += n
	case MessageStatusError:
		c.Failed += n
	}
	c.Total += n
}

// StatusReport is published by the transport worker after acting on a message
type StatusReport struct {
	MessageID    string     `json:"message_id"`
	Status       string     `json:"status"`
	ErrorMessage string     `json:"error_message,omitempty"`
	RespondedAt  *time.Time `json:"responded_at,omitempty"`
}
