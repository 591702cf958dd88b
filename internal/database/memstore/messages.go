package memstore

import (
	"context"
	"slices"
	"time"

	"github.com/onegreenvn/outreach-dispatch-backend/internal/database/repository"
	"github.com/onegreenvn/outreach-dispatch-backend/internal/models"
)

type messageStore struct{ s *Store }

func (m *messageStore) ListPhonesByCampaign(_ context.Context, campaignID string) ([]string, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	var phones []string
	for _, id := range m.s.messageOrder {
		if msg := m.s.messages[id]; msg.CampaignID == campaignID {
			phones = append(phones, msg.Phone)
		}
	}
	return phones, nil
}

func (m *messageStore) ListByCampaign(_ context.Context, campaignID string) ([]*models.QueuedMessage, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	var out []*models.QueuedMessage
	for _, id := range m.s.messageOrder {
		if msg := m.s.messages[id]; msg.CampaignID == campaignID {
			row := *msg
			out = append(out, &row)
		}
	}
	return out, nil
}

func (m *messageStore) InsertBatch(_ context.Context, messages []*models.QueuedMessage) (int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	m.s.insertCalls++
	if err, ok := m.s.insertFailure[m.s.insertCalls]; ok {
		return 0, err
	}

	inserted := 0
	now := time.Now()
	for _, msg := range messages {
		key := phoneKey(msg.CampaignID, msg.Phone)
		if _, exists := m.s.phoneIndex[key]; exists {
			continue
		}
		row := *msg
		row.CreatedAt = now
		row.UpdatedAt = now
		m.s.messages[row.ID] = &row
		m.s.messageOrder = append(m.s.messageOrder, row.ID)
		m.s.phoneIndex[key] = row.ID
		inserted++
	}
	return inserted, nil
}

func (m *messageStore) CountByCampaign(_ context.Context, campaignID string) (int, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	count := 0
	for _, msg := range m.s.messages {
		if msg.CampaignID == campaignID {
			count++
		}
	}
	return count, nil
}

func (m *messageStore) CountsByCampaign(_ context.Context, campaignID string) (models.MessageCounts, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	var counts models.MessageCounts
	for _, msg := range m.s.messages {
		if msg.CampaignID == campaignID {
			counts.Add(msg.Status, 1)
		}
	}
	return counts, nil
}

func (m *messageStore) CountsByCampaigns(_ context.Context, campaignIDs []string) (map[string]models.MessageCounts, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	result := make(map[string]models.MessageCounts, len(campaignIDs))
	for _, msg := range m.s.messages {
		if !slices.Contains(campaignIDs, msg.CampaignID) {
			continue
		}
		counts := result[msg.CampaignID]
		counts.Add(msg.Status, 1)
		result[msg.CampaignID] = counts
	}
	return result, nil
}

func (m *messageStore) RerollPendingDelays(_ context.Context, campaignID string, roll func() int) (int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	updated := 0
	now := time.Now()
	for _, id := range m.s.messageOrder {
		msg := m.s.messages[id]
		if msg.CampaignID != campaignID || msg.Status != models.MessageStatusPending {
			continue
		}
		msg.DelaySeconds = roll()
		msg.UpdatedAt = now
		updated++
	}
	return updated, nil
}

func (m *messageStore) GetByID(_ context.Context, messageID string) (*models.QueuedMessage, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	msg, ok := m.s.messages[messageID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *msg
	return &out, nil
}

func (m *messageStore) TransitionStatus(_ context.Context, report models.StatusReport, from []string) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	msg, ok := m.s.messages[report.MessageID]
	if !ok || !slices.Contains(from, msg.Status) {
		return false, nil
	}
	msg.Status = report.Status
	if report.ErrorMessage != "" {
		msg.ErrorMessage = report.ErrorMessage
	}
	if report.RespondedAt != nil {
		responded := *report.RespondedAt
		msg.RespondedAt = &responded
	}
	msg.UpdatedAt = time.Now()
	return true, nil
}

func (m *messageStore) ParticipationByCampaigns(_ context.Context, organizationID string, campaignIDs []string) (map[string][]string, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	participation := make(map[string][]string)
	for _, id := range m.s.messageOrder {
		msg := m.s.messages[id]
		if msg.OrganizationID != organizationID || msg.Status == models.MessageStatusError {
			continue
		}
		if !slices.Contains(campaignIDs, msg.CampaignID) {
			continue
		}
		if !slices.Contains(participation[msg.Phone], msg.CampaignID) {
			participation[msg.Phone] = append(participation[msg.Phone], msg.CampaignID)
		}
	}
	return participation, nil
}

var _ repository.QueuedMessageStore = (*messageStore)(nil)
