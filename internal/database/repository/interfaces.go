package repository

import (
	"context"
	"time"

	"github.com/onegreenvn/outreach-dispatch-backend/internal/models"
)

// CampaignStore is the campaign persistence used by the services
type CampaignStore interface {
	Create(ctx context.Context, campaign *models.Campaign) error
	GetByOrganizationAndID(ctx context.Context, organizationID, campaignID string) (*models.Campaign, error)
	ListByOrganization(ctx context.Context, organizationID string, limit, offset int) ([]*models.Campaign, int64, error)
	UpdateDelays(ctx context.Context, campaignID string, minDelay, maxDelay int) error
	MarkActivated(ctx context.Context, campaignID string, snapshot []string, startedAt time.Time) error
	UpdateTotalMensagens(ctx context.Context, campaignID string, total int) error
	// MarkCompleted records the first time every message of the campaign was sent.
	MarkCompleted(ctx context.Context, campaignID string, completedAt time.Time) (bool, error)
}

// QueuedMessageStore is the dispatch queue persistence
type QueuedMessageStore interface {
	ListPhonesByCampaign(ctx context.Context, campaignID string) ([]string, error)
	// ListByCampaign returns the campaign's queue in insertion order.
	ListByCampaign(ctx context.Context, campaignID string) ([]*models.QueuedMessage, error)
	// InsertBatch inserts the rows, skipping phones already queued for the campaign,
	// and returns how many rows were written.
	InsertBatch(ctx context.Context, messages []*models.QueuedMessage) (int, error)
	CountByCampaign(ctx context.Context, campaignID string) (int, error)
	CountsByCampaign(ctx context.Context, campaignID string) (models.MessageCounts, error)
	CountsByCampaigns(ctx context.Context, campaignIDs []string) (map[string]models.MessageCounts, error)
	// RerollPendingDelays assigns roll() to every message of the campaign still pending.
	RerollPendingDelays(ctx context.Context, campaignID string, roll func() int) (int, error)
	GetByID(ctx context.Context, messageID string) (*models.QueuedMessage, error)
	// TransitionStatus applies the report only when the message is currently in one of from.
	TransitionStatus(ctx context.Context, report models.StatusReport, from []string) (bool, error)
	// ParticipationByCampaigns maps phone -> campaign ids for non-failed messages.
	ParticipationByCampaigns(ctx context.Context, organizationID string, campaignIDs []string) (map[string][]string, error)
}

// AuditBatchStore is the append-only pause/resume ledger. Hold and Release change message
// statuses, write the ledger row and update the campaign status in one transaction.
type AuditBatchStore interface {
	HoldPending(ctx context.Context, batch *models.AuditBatch) error
	ReleaseBatch(ctx context.Context, pause *models.AuditBatch, resume *models.AuditBatch) error
	GetByCampaignAndID(ctx context.Context, campaignID, batchID string) (*models.AuditBatch, error)
	LatestUnresumedPause(ctx context.Context, campaignID string) (*models.AuditBatch, error)
	// FindResume returns the resume row that undid the pause batch, or ErrNotFound.
	FindResume(ctx context.Context, campaignID, pauseBatchID string) (*models.AuditBatch, error)
	ListByCampaign(ctx context.Context, campaignID string) ([]*models.AuditBatch, error)
}

// InstanceStore is the read side of the instance registry
type InstanceStore interface {
	ListActive(ctx context.Context, organizationID string) ([]*models.Instance, error)
	ListByOrganization(ctx context.Context, organizationID string) ([]*models.Instance, error)
	ListAll(ctx context.Context) ([]*models.Instance, error)
}

// ContactStore is the read side of the contact universe
type ContactStore interface {
	ListByOrganization(ctx context.Context, organizationID string) ([]*models.Contact, error)
}

// Stores groups the persistence the dispatch services depend on
type Stores struct {
	Campaigns CampaignStore
	Messages  QueuedMessageStore
	Audits    AuditBatchStore
	Instances InstanceStore
	Contacts  ContactStore
}
