// Package memstore is an in-memory implementation of the dispatch stores. It honours the
// same contracts as the gorm repositories (dedup on campaign and phone, atomic hold and
// release) and lets tests inject write failures.
package memstore

import (
	"sort"
	"sync"
	"time"

	"github.com/onegreenvn/outreach-dispatch-backend/internal/database/repository"
	"github.com/onegreenvn/outreach-dispatch-backend/internal/models"
)

type Store struct {
	mu sync.RWMutex

	campaigns map[string]*models.Campaign
	messages  map[string]*models.QueuedMessage
	// message ids in insertion order
	messageOrder []string
	// campaignID|phone -> message id
	phoneIndex map[string]string
	audits     []*models.AuditBatch
	instances  map[string]*models.Instance
	contacts   []*models.Contact

	insertCalls   int
	insertFailure map[int]error
	auditFailure  error
}

func New() *Store {
	return &Store{
		campaigns:     make(map[string]*models.Campaign),
		messages:      make(map[string]*models.QueuedMessage),
		phoneIndex:    make(map[string]string),
		instances:     make(map[string]*models.Instance),
		insertFailure: make(map[int]error),
	}
}

// Stores exposes the store through the repository interfaces
func (s *Store) Stores() repository.Stores {
	return repository.Stores{
		Campaigns: &campaignStore{s},
		Messages:  &messageStore{s},
		Audits:    &auditStore{s},
		Instances: &instanceStore{s},
		Contacts:  &contactStore{s},
	}
}

// FailInsertBatchOn makes the call-th InsertBatch call (1-based) fail with err
func (s *Store) FailInsertBatchOn(call int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertFailure[call] = err
}

// FailAuditWrites makes HoldPending and ReleaseBatch fail with err until cleared with nil
func (s *Store) FailAuditWrites(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auditFailure = err
}

// AddCampaign seeds a campaign
func (s *Store) AddCampaign(campaign models.Campaign) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if campaign.Status == "" {
		campaign.Status = models.CampaignStatusDraft
	}
	if campaign.CreatedAt.IsZero() {
		campaign.CreatedAt = time.Now()
		campaign.UpdatedAt = campaign.CreatedAt
	}
	s.campaigns[campaign.ID] = cloneCampaign(&campaign)
}

// AddInstance seeds or replaces an instance
func (s *Store) AddInstance(instance models.Instance) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if instance.CreatedAt.IsZero() {
		instance.CreatedAt = time.Now()
	}
	s.instances[instance.ID] = &instance
}

// SetInstanceStatus changes an instance's status
func (s *Store) SetInstanceStatus(instanceID, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if instance, ok := s.instances[instanceID]; ok {
		instance.Status = status
		instance.UpdatedAt = time.Now()
	}
}

// AddContact seeds a contact
func (s *Store) AddContact(contact models.Contact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contacts = append(s.contacts, &contact)
}

// Campaign returns a copy of the stored campaign
func (s *Store) Campaign(campaignID string) (models.Campaign, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	campaign, ok := s.campaigns[campaignID]
	if !ok {
		return models.Campaign{}, false
	}
	return *cloneCampaign(campaign), true
}

// Messages returns copies of the campaign's messages in insertion order
func (s *Store) Messages(campaignID string) []models.QueuedMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.QueuedMessage
	for _, id := range s.messageOrder {
		if m := s.messages[id]; m.CampaignID == campaignID {
			out = append(out, *m)
		}
	}
	return out
}

// SetMessageStatus forces a message status, as the transport worker would
func (s *Store) SetMessageStatus(messageID, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.messages[messageID]; ok {
		m.Status = status
		m.UpdatedAt = time.Now()
	}
}

// AuditBatches returns copies of the campaign's ledger rows in write order
func (s *Store) AuditBatches(campaignID string) []models.AuditBatch {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.AuditBatch
	for _, b := range s.audits {
		if b.CampaignID == campaignID {
			out = append(out, *cloneBatch(b))
		}
	}
	return out
}

func cloneCampaign(c *models.Campaign) *models.Campaign {
	out := *c
	out.AudienceSnapshot = append([]string(nil), c.AudienceSnapshot...)
	return &out
}

func cloneBatch(b *models.AuditBatch) *models.AuditBatch {
	out := *b
	out.MessageIDs = append([]string(nil), b.MessageIDs...)
	if b.ResumedBatchID != nil {
		id := *b.ResumedBatchID
		out.ResumedBatchID = &id
	}
	return &out
}

func phoneKey(campaignID, phone string) string {
	return campaignID + "|" + phone
}

func sortInstances(instances []*models.Instance) {
	sort.SliceStable(instances, func(i, j int) bool {
		if !instances[i].CreatedAt.Equal(instances[j].CreatedAt) {
			return instances[i].CreatedAt.Before(instances[j].CreatedAt)
		}
		return instances[i].ID < instances[j].ID
	})
}
