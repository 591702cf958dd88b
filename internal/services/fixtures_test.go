package services

import (
	"context"
	"sync"
	"testing"

	"github.com/onegreenvn/outreach-dispatch-backend/internal/database/memstore"
	"github.com/onegreenvn/outreach-dispatch-backend/internal/models"
)

const (
	testOrg      = "org-1"
	otherOrg     = "org-2"
	testCampaign = "campaign-1"
	testActor    = "user-1"
)

// seqRand returns the queued values in order, then repeats the last one. Values are taken mod n.
type seqRand struct {
	mu     sync.Mutex
	values []int
	calls  int
}

func (r *seqRand) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if len(r.values) == 0 {
		return 0
	}
	v := r.values[0]
	if len(r.values) > 1 {
		r.values = r.values[1:]
	}
	return v % n
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []models.DispatchEvent
}

func (n *recordingNotifier) Notify(_ context.Context, event models.DispatchEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) Types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	types := make([]string, len(n.events))
	for i, e := range n.events {
		types[i] = e.Type
	}
	return types
}

func (n *recordingNotifier) Last() models.DispatchEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.events) == 0 {
		return models.DispatchEvent{}
	}
	return n.events[len(n.events)-1]
}

type fixture struct {
	store       *memstore.Store
	notifier    *recordingNotifier
	rng         *seqRand
	locker      *LocalCampaignLocker
	activation  *ActivationService
	pauseResume *PauseResumeService
	campaigns   *CampaignService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memstore.New()
	stores := store.Stores()
	notifier := &recordingNotifier{}
	rng := &seqRand{}
	locker := NewLocalCampaignLocker()
	filter := NewContactFilter()
	assigner := NewInstanceAssigner(rng)

	return &fixture{
		store:       store,
		notifier:    notifier,
		rng:         rng,
		locker:      locker,
		activation:  NewActivationService(stores, filter, assigner, locker, notifier, 2),
		pauseResume: NewPauseResumeService(stores, locker, notifier),
		campaigns:   NewCampaignService(stores, filter, assigner, locker, notifier),
	}
}

func (f *fixture) addCampaign(mutate func(*models.Campaign)) {
	campaign := models.Campaign{
		ID:              testCampaign,
		OrganizationID:  testOrg,
		Name:            "Black Friday",
		Status:          models.CampaignStatusDraft,
		ContentText:     "Olá!",
		MinDelaySeconds: 30,
		MaxDelaySeconds: 60,
	}
	if mutate != nil {
		mutate(&campaign)
	}
	f.store.AddCampaign(campaign)
}

func (f *fixture) addInstances(ids ...string) {
	for _, id := range ids {
		f.store.AddInstance(models.Instance{
			ID:             id,
			OrganizationID: testOrg,
			Name:           id,
			Status:         models.InstanceStatusActive,
		})
	}
}

func (f *fixture) addContact(id, phone string, mutate func(*models.Contact)) {
	contact := models.Contact{
		ID:             id,
		OrganizationID: testOrg,
		Name:           id,
		Phone:          phone,
	}
	if mutate != nil {
		mutate(&contact)
	}
	f.store.AddContact(contact)
}

func (f *fixture) statuses(campaignID string) map[string]int {
	out := make(map[string]int)
	for _, m := range f.store.Messages(campaignID) {
		out[m.Status]++
	}
	return out
}
