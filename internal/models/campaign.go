package models

import (
	"time"

	"github.com/lib/pq"
)

// Campaign lifecycle statuses as stored on the campaign row
const (
	CampaignStatusDraft     = "draft"
	CampaignStatusScheduled = "scheduled"
	CampaignStatusActive    = "active"
	CampaignStatusPaused    = "paused"
	CampaignStatusCompleted = "completed"
	CampaignStatusCancelled = "cancelled"
)

// Campaign represents an outbound WhatsApp message run owned by an organization
type Campaign struct {
	ID             string `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	OrganizationID string `json:"organization_id" gorm:"not null;index;type:uuid"`
	Name           string `json:"name" gorm:"type:varchar(255);not null"`
	Status         string `json:"status" gorm:"type:varchar(20);not null;index;default:'draft'"`

	// Content copied into every queued message at enqueue time
	ContentText string `json:"content_text" gorm:"type:text"`
	MediaURL    string `json:"media_url" gorm:"type:text"`
	MediaType   string `json:"media_type" gorm:"type:varchar(50)"`

	// Throttling, consumed by the transport worker
	MinDelaySeconds int    `json:"min_delay_seconds" gorm:"not null;default:30"`
	MaxDelaySeconds int    `json:"max_delay_seconds" gorm:"not null;default:60"`
	SendWindowStart string `json:"send_window_start" gorm:"type:varchar(5)"` // HH:MM
	SendWindowEnd   string `json:"send_window_end" gorm:"type:varchar(5)"`   // HH:MM

	// Audience
	AudienceSpec     AudienceSpec   `json:"audience_spec" gorm:"serializer:json;type:jsonb"`
	AudienceSnapshot pq.StringArray `json:"audience_snapshot" gorm:"type:text[]"`

	TotalMensagens int `json:"total_mensagens" gorm:"column:total_mensagens;default:0"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	StartedAt   *time.Time `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

// TableName specifies the table name for the Campaign model
func (Campaign) TableName() string {
	return "campaigns"
}

// CreateCampaignRequest represents the request to create a new campaign
type CreateCampaignRequest struct {
	Name            string       `json:"name" binding:"required" example:"Black Friday follow-up"`
	ContentText     string       `json:"content_text" example:"Olá! Temos novidades para você."`
	MediaURL        string       `json:"media_url" example:"https://cdn.example.com/promo.jpg"`
	MediaType       string       `json:"media_type" example:"image"`
	MinDelaySeconds int          `json:"min_delay_seconds" binding:"min=0" example:"30"`
	MaxDelaySeconds int          `json:"max_delay_seconds" binding:"min=0" example:"60"`
	SendWindowStart string       `json:"send_window_start" example:"08:00"`
	SendWindowEnd   string       `json:"send_window_end" example:"20:00"`
	Scheduled       bool         `json:"scheduled" example:"false"`
	AudienceSpec    AudienceSpec `json:"audience_spec"`
}

// UpdateDelaysRequest represents the request to change a campaign's send-delay bounds
type UpdateDelaysRequest struct {
	MinDelaySeconds int `json:"min_delay_seconds" binding:"min=0" example:"45"`
	MaxDelaySeconds int `json:"max_delay_seconds" binding:"min=0" example:"90"`
}

// UpdateDelaysResponse reports how many pending messages got a new delay
type UpdateDelaysResponse struct {
	CampaignID      string `json:"campaign_id"`
	MinDelaySeconds int    `json:"min_delay_seconds"`
	MaxDelaySeconds int    `json:"max_delay_seconds"`
	Rerolled        int    `json:"rerolled"`
}

// CampaignResponse represents a campaign together with its queue-derived status
type CampaignResponse struct {
	ID              string        `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	OrganizationID  string        `json:"organization_id" example:"550e8400-e29b-41d4-a716-446655440001"`
	Name            string        `json:"name" example:"Black Friday follow-up"`
	StoredStatus    string        `json:"stored_status" example:"active"`
	Status          string        `json:"status" example:"paused"`
	ContentText     string        `json:"content_text"`
	MediaURL        string        `json:"media_url,omitempty"`
	MediaType       string        `json:"media_type,omitempty"`
	MinDelaySeconds int           `json:"min_delay_seconds" example:"30"`
	MaxDelaySeconds int           `json:"max_delay_seconds" example:"60"`
	SendWindowStart string        `json:"send_window_start,omitempty" example:"08:00"`
	SendWindowEnd   string        `json:"send_window_end,omitempty" example:"20:00"`
	AudienceSpec    AudienceSpec  `json:"audience_spec"`
	TotalMensagens  int           `json:"total_mensagens" example:"120"`
	Counts          MessageCounts `json:"counts"`
	CreatedAt       string        `json:"created_at" example:"2025-01-09T10:30:00Z"`
	UpdatedAt       string        `json:"updated_at" example:"2025-01-09T10:30:00Z"`
	StartedAt       *time.Time    `json:"started_at,omitempty"`
	CompletedAt     *time.Time    `json:"completed_at,omitempty"`
}

// CampaignStatusResponse is the lightweight status view polled by dashboards
type CampaignStatusResponse struct {
	CampaignID   string        `json:"campaign_id"`
	StoredStatus string        `json:"stored_status" example:"active"`
	Status       string        `json:"status" example:"paused"`
	Counts       MessageCounts `json:"counts"`
}
