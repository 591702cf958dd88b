package services

import (
	"testing"

	"github.com/onegreenvn/outreach-dispatch-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func instances(ids ...string) []*models.Instance {
	out := make([]*models.Instance, len(ids))
	for i, id := range ids {
		out[i] = &models.Instance{ID: id, Status: models.InstanceStatusActive}
	}
	return out
}

func TestAssignKeepsLastActiveInstance(t *testing.T) {
	assigner := NewInstanceAssigner(&seqRand{values: []int{0, 1, 0, 1}})
	campaign := &models.Campaign{MinDelaySeconds: 10, MaxDelaySeconds: 20}
	contact := &models.Contact{ID: "c1", LastInstanceID: "inst-b"}

	for i := 0; i < 50; i++ {
		assignment, err := assigner.Assign(contact, instances("inst-a", "inst-b", "inst-c"), campaign)
		require.NoError(t, err)
		assert.Equal(t, "inst-b", assignment.InstanceID)
		assert.True(t, assignment.Sticky)
	}
}

func TestAssignFallsBackWhenLastInstanceInactive(t *testing.T) {
	assigner := NewInstanceAssigner(&seqRand{values: []int{1}})
	campaign := &models.Campaign{MinDelaySeconds: 5, MaxDelaySeconds: 5}
	contact := &models.Contact{ID: "c1", LastInstanceID: "gone"}

	assignment, err := assigner.Assign(contact, instances("inst-a", "inst-b"), campaign)
	require.NoError(t, err)
	assert.Equal(t, "inst-b", assignment.InstanceID)
	assert.False(t, assignment.Sticky)
	assert.Equal(t, 5, assignment.DelaySeconds)
}

func TestAssignWithoutInstances(t *testing.T) {
	assigner := NewInstanceAssigner(nil)
	_, err := assigner.Assign(&models.Contact{}, nil, &models.Campaign{})
	assert.ErrorIs(t, err, ErrNoActiveInstances)
}

func TestRollDelayStaysWithinBounds(t *testing.T) {
	assigner := NewInstanceAssigner(nil)
	seen := make(map[int]bool)
	for i := 0; i < 2000; i++ {
		delay := assigner.RollDelay(30, 35)
		assert.GreaterOrEqual(t, delay, 30)
		assert.LessOrEqual(t, delay, 35)
		seen[delay] = true
	}
	// both ends are reachable
	assert.True(t, seen[30])
	assert.True(t, seen[35])
}

func TestRollDelayDegenerateRange(t *testing.T) {
	rng := &seqRand{values: []int{7}}
	assigner := NewInstanceAssigner(rng)

	assert.Equal(t, 40, assigner.RollDelay(40, 40))
	assert.Equal(t, 40, assigner.RollDelay(40, 10))
	assert.Zero(t, rng.calls)

	assert.Equal(t, 47, assigner.RollDelay(40, 50))
}
