package services

import (
	"context"
	"testing"

	"github.com/onegreenvn/outreach-dispatch-backend/internal/database/memstore"
	"github.com/onegreenvn/outreach-dispatch-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstancePollReportsChangesAfterBaseline(t *testing.T) {
	store := memstore.New()
	store.AddInstance(models.Instance{ID: "inst-a", OrganizationID: testOrg, Status: models.InstanceStatusActive})
	store.AddInstance(models.Instance{ID: "inst-b", OrganizationID: otherOrg, Status: models.InstanceStatusActive})
	notifier := &recordingNotifier{}
	service := NewInstanceService(store.Stores().Instances, notifier, 0)
	ctx := context.Background()

	changed, err := service.Poll(ctx)
	require.NoError(t, err)
	assert.Empty(t, changed)
	assert.Empty(t, notifier.Types())

	changed, err = service.Poll(ctx)
	require.NoError(t, err)
	assert.Empty(t, changed)

	store.SetInstanceStatus("inst-a", models.InstanceStatusBlocked)
	store.AddInstance(models.Instance{ID: "inst-c", OrganizationID: testOrg, Status: models.InstanceStatusInactive})

	changed, err = service.Poll(ctx)
	require.NoError(t, err)
	require.Len(t, changed, 2)

	events := notifier.events
	require.Len(t, events, 2)
	byInstance := map[string]models.DispatchEvent{}
	for _, e := range events {
		assert.Equal(t, models.EventInstanceStatus, e.Type)
		byInstance[e.InstanceID] = e
	}
	assert.Equal(t, models.InstanceStatusBlocked, byInstance["inst-a"].Status)
	assert.Equal(t, testOrg, byInstance["inst-a"].OrganizationID)
	assert.Equal(t, models.InstanceStatusInactive, byInstance["inst-c"].Status)
}

func TestGetInstancesScopedToOrganization(t *testing.T) {
	store := memstore.New()
	store.AddInstance(models.Instance{ID: "inst-a", OrganizationID: testOrg, Name: "Atendimento", Status: models.InstanceStatusActive})
	store.AddInstance(models.Instance{ID: "inst-b", OrganizationID: otherOrg, Status: models.InstanceStatusActive})
	service := NewInstanceService(store.Stores().Instances, nil, 0)

	instances, err := service.GetInstances(context.Background(), testOrg)
	require.NoError(t, err)
	require.Len(t, instances, 1)
	assert.Equal(t, "Atendimento", instances[0].Name)
}

func TestInstanceWatcherStartStop(t *testing.T) {
	store := memstore.New()
	service := NewInstanceService(store.Stores().Instances, nil, 0)
	service.Start()
	service.Stop()
}
