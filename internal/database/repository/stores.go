package repository

import (
	"gorm.io/gorm"
)

// NewStores builds the gorm-backed stores over one connection pool
func NewStores(db *gorm.DB) Stores {
	return Stores{
		Campaigns: NewCampaignRepository(db),
		Messages:  NewQueuedMessageRepository(db),
		Audits:    NewAuditBatchRepository(db),
		Instances: NewInstanceRepository(db),
		Contacts:  NewContactRepository(db),
	}
}
