package services

import (
	"math/rand"
	"sync"

	"github.com/onegreenvn/outreach-dispatch-backend/internal/models"
)

// RandSource is the randomness the assigner draws from
type RandSource interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.Intn(n) }

// Assignment is the instance and delay picked for one contact
type Assignment struct {
	InstanceID   string
	DelaySeconds int
	Sticky       bool
}

// InstanceAssigner spreads contacts over active instances. A contact whose last instance
// is still active always goes back to it.
type InstanceAssigner struct {
	mu  sync.Mutex
	rng RandSource
}

func NewInstanceAssigner(rng RandSource) *InstanceAssigner {
	if rng == nil {
		rng = globalRand{}
	}
	return &InstanceAssigner{rng: rng}
}

// Assign picks the instance and the send delay for contact
func (a *InstanceAssigner) Assign(contact *models.Contact, active []*models.Instance, campaign *models.Campaign) (Assignment, error) {
	if len(active) == 0 {
		return Assignment{}, ErrNoActiveInstances
	}

	delay := a.RollDelay(campaign.MinDelaySeconds, campaign.MaxDelaySeconds)

	if contact.LastInstanceID != "" {
		for _, instance := range active {
			if instance.ID == contact.LastInstanceID {
				return Assignment{InstanceID: instance.ID, DelaySeconds: delay, Sticky: true}, nil
			}
		}
	}

	a.mu.Lock()
	picked := active[a.rng.IntN(len(active))]
	a.mu.Unlock()

	return Assignment{InstanceID: picked.ID, DelaySeconds: delay}, nil
}

// RollDelay draws a delay uniformly from [minDelay, maxDelay]
func (a *InstanceAssigner) RollDelay(minDelay, maxDelay int) int {
	if maxDelay <= minDelay {
		return minDelay
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return minDelay + a.rng.IntN(maxDelay-minDelay+1)
}
