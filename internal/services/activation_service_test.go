package services

import (
	"context"
	"errors"
	"testing"

	"github.com/onegreenvn/outreach-dispatch-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivateEnqueuesAudienceOncePerPhone(t *testing.T) {
	f := newFixture(t)
	f.addCampaign(nil)
	f.addInstances("inst-a", "inst-b")
	f.addContact("ana", "+55 11 90000-0001", nil)
	f.addContact("bia", "5511900000002", nil)
	f.addContact("caio", "5511 900000003", nil)
	f.addContact("ana-dup", "55-11-90000-0001", nil)
	ctx := context.Background()

	result, err := f.activation.Activate(ctx, testOrg, testCampaign)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Inserted)
	assert.Equal(t, 3, result.TotalMensagens)
	assert.Equal(t, models.CampaignStatusActive, result.Status)

	messages := f.store.Messages(testCampaign)
	require.Len(t, messages, 3)
	for _, m := range messages {
		assert.Equal(t, models.MessageStatusPending, m.Status)
		assert.Equal(t, "Olá!", m.ContentText)
		assert.Equal(t, testOrg, m.OrganizationID)
		assert.GreaterOrEqual(t, m.DelaySeconds, 30)
		assert.LessOrEqual(t, m.DelaySeconds, 60)
		assert.Contains(t, []string{"inst-a", "inst-b"}, m.InstanceID)
	}
	assert.Equal(t, "5511900000001", messages[0].Phone)

	campaign, ok := f.store.Campaign(testCampaign)
	require.True(t, ok)
	assert.Equal(t, models.CampaignStatusActive, campaign.Status)
	assert.Equal(t, 3, campaign.TotalMensagens)
	require.NotNil(t, campaign.StartedAt)
	assert.ElementsMatch(t, []string{"ana", "bia", "caio", "ana-dup"}, []string(campaign.AudienceSnapshot))

	last := f.notifier.Last()
	assert.Equal(t, models.EventCampaignActivated, last.Type)
	assert.Equal(t, 3, last.Count)

	// re-activation only adds what is missing
	startedAt := *campaign.StartedAt
	result, err = f.activation.Activate(ctx, testOrg, testCampaign)
	require.NoError(t, err)
	assert.Zero(t, result.Inserted)
	assert.Equal(t, 3, result.TotalMensagens)

	f.addContact("duda", "5511900000004", nil)
	result, err = f.activation.Activate(ctx, testOrg, testCampaign)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Inserted)
	assert.Equal(t, 4, result.TotalMensagens)

	campaign, _ = f.store.Campaign(testCampaign)
	assert.Equal(t, startedAt, *campaign.StartedAt)
}

func TestActivateKeepsContactOnLastInstance(t *testing.T) {
	f := newFixture(t)
	f.addCampaign(nil)
	f.addInstances("inst-a", "inst-b")
	f.addContact("ana", "5511900000001", func(c *models.Contact) { c.LastInstanceID = "inst-b" })
	f.addContact("bia", "5511900000002", func(c *models.Contact) { c.LastInstanceID = "inst-offline" })

	_, err := f.activation.Activate(context.Background(), testOrg, testCampaign)
	require.NoError(t, err)

	messages := f.store.Messages(testCampaign)
	require.Len(t, messages, 2)
	assert.Equal(t, "inst-b", messages[0].InstanceID)
	// seqRand always picks the first active instance
	assert.Equal(t, "inst-a", messages[1].InstanceID)
}

func TestActivateWithoutActiveInstances(t *testing.T) {
	f := newFixture(t)
	f.addCampaign(nil)
	f.addContact("ana", "5511900000001", nil)
	f.store.AddInstance(models.Instance{ID: "inst-a", OrganizationID: testOrg, Status: models.InstanceStatusBlocked})
	f.store.AddInstance(models.Instance{ID: "inst-x", OrganizationID: otherOrg, Status: models.InstanceStatusActive})

	_, err := f.activation.Activate(context.Background(), testOrg, testCampaign)
	assert.ErrorIs(t, err, ErrNoActiveInstances)
	assert.Empty(t, f.store.Messages(testCampaign))

	campaign, _ := f.store.Campaign(testCampaign)
	assert.Equal(t, models.CampaignStatusDraft, campaign.Status)
	assert.Empty(t, f.notifier.Types())
}

func TestActivateWithEmptyAudience(t *testing.T) {
	f := newFixture(t)
	f.addCampaign(func(c *models.Campaign) {
		c.AudienceSpec = models.AudienceSpec{Cities: []string{"Recife"}}
	})
	f.addInstances("inst-a")
	f.addContact("ana", "5511900000001", func(c *models.Contact) { c.City = "São Paulo" })

	_, err := f.activation.Activate(context.Background(), testOrg, testCampaign)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "audience_spec", validationErr.Field)
	assert.Empty(t, f.store.Messages(testCampaign))
}

func TestActivateUnknownCampaign(t *testing.T) {
	f := newFixture(t)
	f.addCampaign(nil)

	_, err := f.activation.Activate(context.Background(), otherOrg, testCampaign)
	assert.ErrorIs(t, err, ErrCampaignNotFound)

	_, err = f.activation.Activate(context.Background(), testOrg, "missing")
	assert.ErrorIs(t, err, ErrCampaignNotFound)
}

func TestActivateRejectsInvalidCampaigns(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.Campaign)
		field  string
	}{
		{"cancelled", func(c *models.Campaign) { c.Status = models.CampaignStatusCancelled }, "status"},
		{"completed", func(c *models.Campaign) { c.Status = models.CampaignStatusCompleted }, "status"},
		{"no content", func(c *models.Campaign) { c.ContentText = " " }, "content_text"},
		{"negative min delay", func(c *models.Campaign) { c.MinDelaySeconds = -1 }, "min_delay_seconds"},
		{"max below min", func(c *models.Campaign) { c.MinDelaySeconds, c.MaxDelaySeconds = 60, 30 }, "max_delay_seconds"},
		{"half window", func(c *models.Campaign) { c.SendWindowStart = "08:00" }, "send_window"},
		{"bad window start", func(c *models.Campaign) { c.SendWindowStart, c.SendWindowEnd = "24:00", "20:00" }, "send_window_start"},
		{"bad window end", func(c *models.Campaign) { c.SendWindowStart, c.SendWindowEnd = "08:00", "8pm" }, "send_window_end"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.addCampaign(tt.mutate)
			f.addInstances("inst-a")
			f.addContact("ana", "5511900000001", nil)

			_, err := f.activation.Activate(context.Background(), testOrg, testCampaign)
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.field, validationErr.Field)
			assert.Empty(t, f.store.Messages(testCampaign))
		})
	}
}

func TestActivateMediaOnlyCampaign(t *testing.T) {
	f := newFixture(t)
	f.addCampaign(func(c *models.Campaign) {
		c.ContentText = ""
		c.MediaURL = "https://cdn.example.com/promo.jpg"
		c.MediaType = "image"
		c.SendWindowStart, c.SendWindowEnd = "08:00", "20:30"
	})
	f.addInstances("inst-a")
	f.addContact("ana", "5511900000001", nil)

	result, err := f.activation.Activate(context.Background(), testOrg, testCampaign)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Inserted)
	assert.Equal(t, "image", f.store.Messages(testCampaign)[0].MediaType)
}

func TestActivatePartialFailureIsResumable(t *testing.T) {
	f := newFixture(t)
	f.addCampaign(nil)
	f.addInstances("inst-a")
	for i, phone := range []string{"5511900000001", "5511900000002", "5511900000003", "5511900000004", "5511900000005"} {
		f.addContact(string(rune('a'+i)), phone, nil)
	}
	boom := errors.New("connection reset by peer")
	f.store.FailInsertBatchOn(2, boom)
	ctx := context.Background()

	_, err := f.activation.Activate(ctx, testOrg, testCampaign)
	var partial *PartialActivationFailure
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, 2, partial.Inserted)
	assert.ErrorIs(t, err, boom)

	assert.Len(t, f.store.Messages(testCampaign), 2)
	campaign, _ := f.store.Campaign(testCampaign)
	assert.Equal(t, models.CampaignStatusDraft, campaign.Status)
	assert.Equal(t, 2, campaign.TotalMensagens)
	assert.Empty(t, f.notifier.Types())

	result, err := f.activation.Activate(ctx, testOrg, testCampaign)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Inserted)
	assert.Equal(t, 5, result.TotalMensagens)

	campaign, _ = f.store.Campaign(testCampaign)
	assert.Equal(t, models.CampaignStatusActive, campaign.Status)
}

func TestActivateScheduledCampaign(t *testing.T) {
	f := newFixture(t)
	f.addCampaign(func(c *models.Campaign) { c.Status = models.CampaignStatusScheduled })
	f.addInstances("inst-a")
	f.addContact("ana", "5511900000001", nil)

	result, err := f.activation.Activate(context.Background(), testOrg, testCampaign)
	require.NoError(t, err)
	assert.Equal(t, models.CampaignStatusActive, result.Status)
}
