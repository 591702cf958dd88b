package services

import (
	"context"
	"time"

	"github.com/onegreenvn/outreach-dispatch-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// Notifier fans dispatch events out after a state change has been committed.
// Delivery is best effort and never affects the operation's result.
type Notifier interface {
	Notify(ctx context.Context, event models.DispatchEvent)
}

// EventPublisher forwards events to the transport worker
type EventPublisher interface {
	PublishEvent(ctx context.Context, event models.DispatchEvent) error
}

// DispatchNotifier streams events to SSE clients and publishes them to the broker
type DispatchNotifier struct {
	hub       *SSEHub
	publisher EventPublisher
}

// NewDispatchNotifier builds a notifier; either side may be nil
func NewDispatchNotifier(hub *SSEHub, publisher EventPublisher) *DispatchNotifier {
	return &DispatchNotifier{hub: hub, publisher: publisher}
}

func (n *DispatchNotifier) Notify(ctx context.Context, event models.DispatchEvent) {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	if n.hub != nil {
		n.hub.BroadcastEvent(event)
	}
	if n.publisher != nil {
		if err := n.publisher.PublishEvent(ctx, event); err != nil {
			logrus.WithFields(logrus.Fields{
				"type":        event.Type,
				"campaign_id": event.CampaignID,
			}).Warnf("Failed to publish dispatch event: %v", err)
		}
	}
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, models.DispatchEvent) {}

func notifierOrNoop(n Notifier) Notifier {
	if n == nil {
		return noopNotifier{}
	}
	return n
}
