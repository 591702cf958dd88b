package models

import (
	"time"

	"github.com/lib/pq"
)

// Contact is a recipient known to an organization
type Contact struct {
	ID             string         `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	OrganizationID string         `json:"organization_id" gorm:"not null;index;type:uuid"`
	Name           string         `json:"name" gorm:"type:varchar(255)"`
	Phone          string         `json:"phone" gorm:"type:varchar(32);not null;index"`
	Sentiment      string         `json:"sentiment" gorm:"type:varchar(50);index"`
	City           string         `json:"city" gorm:"type:varchar(120);index"`
	Neighborhood   string         `json:"neighborhood" gorm:"type:varchar(120)"`
	Event          string         `json:"event" gorm:"type:text"` // free text, may list several events
	Tags           pq.StringArray `json:"tags" gorm:"type:text[]"`
	LastInstanceID string         `json:"last_instance_id" gorm:"type:varchar(64)"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// TableName specifies the table name for the Contact model
func (Contact) TableName() string {
	return "contacts"
}

// ContactWithDetails is a contact that passed audience resolution, with the data used to match it
type ContactWithDetails struct {
	Contact
	// Campaigns the contact's phone already took part in (non-failed messages)
	Campaigns []string `json:"campaigns"`
}

// AudiencePreviewResponse is returned when an audience is resolved without enqueuing
type AudiencePreviewResponse struct {
	Total    int                  `json:"total" example:"3"`
	Contacts []ContactWithDetails `json:"contacts"`
}
