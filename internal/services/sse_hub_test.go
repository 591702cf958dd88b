package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/onegreenvn/outreach-dispatch-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSSEHubRoutesEventsByScope(t *testing.T) {
	hub := NewSSEHub()
	campaignClient := hub.RegisterClient(StreamCampaign, testCampaign)
	orgClient := hub.RegisterClient(StreamOrganization, testOrg)
	otherClient := hub.RegisterClient(StreamCampaign, "other-campaign")
	assert.Equal(t, 1, hub.GetClientCount(StreamCampaign, testCampaign))

	hub.BroadcastEvent(models.DispatchEvent{
		Type:           models.EventCampaignPaused,
		OrganizationID: testOrg,
		CampaignID:     testCampaign,
		Count:          3,
	})

	for _, client := range []chan []byte{campaignClient, orgClient} {
		select {
		case msg := <-client:
			text := string(msg)
			assert.True(t, strings.HasPrefix(text, "event: campaign_paused\ndata: {"))
			assert.Contains(t, text, `"count":3`)
			assert.True(t, strings.HasSuffix(text, "\n\n"))
		default:
			t.Fatal("expected an event")
		}
	}
	assert.Empty(t, otherClient)

	hub.SendHeartbeat(StreamCampaign, testCampaign)
	assert.True(t, strings.HasPrefix(string(<-campaignClient), ": heartbeat"))

	hub.UnregisterClient(StreamCampaign, testCampaign, campaignClient)
	_, open := <-campaignClient
	assert.False(t, open)
	assert.Zero(t, hub.GetClientCount(StreamCampaign, testCampaign))
}

func TestSSEHubDropsEventsForSlowClients(t *testing.T) {
	hub := NewSSEHub()
	client := hub.RegisterClient(StreamOrganization, testOrg)

	for i := 0; i < 50; i++ {
		hub.BroadcastEvent(models.DispatchEvent{Type: models.EventMessageStatus, OrganizationID: testOrg})
	}
	assert.Len(t, client, cap(client))
}

type recordingPublisher struct {
	events []models.DispatchEvent
	err    error
}

func (p *recordingPublisher) PublishEvent(_ context.Context, event models.DispatchEvent) error {
	p.events = append(p.events, event)
	return p.err
}

func TestDispatchNotifierFansOut(t *testing.T) {
	hub := NewSSEHub()
	client := hub.RegisterClient(StreamCampaign, testCampaign)
	publisher := &recordingPublisher{err: errors.New("channel closed")}
	notifier := NewDispatchNotifier(hub, publisher)

	notifier.Notify(context.Background(), models.DispatchEvent{
		Type:           models.EventCampaignResumed,
		OrganizationID: testOrg,
		CampaignID:     testCampaign,
	})

	require.Len(t, publisher.events, 1)
	assert.False(t, publisher.events[0].CreatedAt.IsZero())
	assert.Len(t, client, 1)
}

func TestDispatchNotifierWithoutSinks(t *testing.T) {
	notifier := NewDispatchNotifier(nil, nil)
	assert.NotPanics(t, func() {
		notifier.Notify(context.Background(), models.DispatchEvent{Type: models.EventCampaignPaused})
	})
	assert.NotPanics(t, func() {
		notifierOrNoop(nil).Notify(context.Background(), models.DispatchEvent{})
	})
}
