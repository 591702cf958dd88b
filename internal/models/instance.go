package models

import (
	"time"
)

// Instance lifecycle statuses
const (
	InstanceStatusActive   = "active"
	InstanceStatusInactive = "inactive"
	InstanceStatusBlocked  = "blocked"
	InstanceStatusError    = "error"
)

// Instance is an outbound WhatsApp channel (a connected session) owned by an organization
type Instance struct {
	ID             string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	OrganizationID string    `json:"organization_id" gorm:"not null;index;type:uuid"`
	Name           string    `json:"name" gorm:"type:varchar(255);not null"`
	PhoneNumber    string    `json:"phone_number" gorm:"type:varchar(32)"`
	Status         string    `json:"status" gorm:"type:varchar(20);not null;index;default:'inactive'"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Instance model
func (Instance) TableName() string {
	return "instances"
}

// IsActive reports whether the instance can receive new assignments
func (i Instance) IsActive() bool {
	return i.Status == InstanceStatusActive
}

// InstanceResponse represents the response for instance listings
type InstanceResponse struct {
	ID          string `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Name        string `json:"name" example:"Atendimento 01"`
	PhoneNumber string `json:"phone_number" example:"+5511999990000"`
	Status      string `json:"status" example:"active"`
	UpdatedAt   string `json:"updated_at" example:"2025-01-09T10:30:00Z"`
}
