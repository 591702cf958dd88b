package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/onegreenvn/outreach-dispatch-backend/internal/database/repository"
	"github.com/onegreenvn/outreach-dispatch-backend/internal/models"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

const reportApplyTimeout = 10 * time.Second

// ReportSource delivers status reports from the transport worker
type ReportSource interface {
	ConsumeReports(consumerTag string) (<-chan amqp.Delivery, error)
}

// TransportReportService applies the transport worker's status reports to the queue.
// Reports only move a message forward; held messages are never advanced.
type TransportReportService struct {
	stores   repository.Stores
	notifier Notifier
	source   ReportSource
	stopChan chan bool
}

func NewTransportReportService(stores repository.Stores, notifier Notifier, source ReportSource) *TransportReportService {
	return &TransportReportService{
		stores:   stores,
		notifier: notifierOrNoop(notifier),
		source:   source,
		stopChan: make(chan bool),
	}
}

// allowedSources lists the statuses a report may move a message out of
func allowedSources(report models.StatusReport) ([]string, error) {
	switch report.Status {
	case models.MessageStatusProcessing:
		return []string{models.MessageStatusPending}, nil
	case models.MessageStatusSent:
		if report.RespondedAt != nil {
			// a reply can arrive after the message was already reported sent
			return []string{models.MessageStatusPending, models.MessageStatusProcessing, models.MessageStatusSent}, nil
		}
		return []string{models.MessageStatusPending, models.MessageStatusProcessing}, nil
	case models.MessageStatusError:
		return []string{models.MessageStatusPending, models.MessageStatusProcessing}, nil
	}
	return nil, &ValidationError{Field: "status", Message: fmt.Sprintf("unsupported report status %q", report.Status)}
}

// ApplyReport applies one report and returns whether the message changed
func (s *TransportReportService) ApplyReport(ctx context.Context, report models.StatusReport) (bool, error) {
	if report.MessageID == "" {
		return false, &ValidationError{Field: "message_id", Message: "message_id is required"}
	}
	from, err := allowedSources(report)
	if err != nil {
		return false, err
	}
	if report.Status != models.MessageStatusSent {
		report.RespondedAt = nil
	}

	message, err := s.stores.Messages.GetByID(ctx, report.MessageID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, ErrMessageNotFound
		}
		return false, fmt.Errorf("failed to load message: %w", err)
	}

	changed, err := s.stores.Messages.TransitionStatus(ctx, report, from)
	if err != nil {
		return false, fmt.Errorf("failed to apply status report: %w", err)
	}
	if !changed {
		entry := logrus.WithFields(logrus.Fields{
			"message_id":  report.MessageID,
			"campaign_id": message.CampaignID,
			"current":     message.Status,
			"reported":    report.Status,
		})
		// The worker finished a message that a pause already took back; resume will queue it again.
		if message.Status == models.MessageStatusHeld && report.Status != models.MessageStatusProcessing {
			entry.Warn("Dropping terminal report for held message, it may be sent again after resume")
		} else {
			entry.Debug("Ignoring status report")
		}
		return false, nil
	}

	status := ""
	if campaign, err := s.stores.Campaigns.GetByOrganizationAndID(ctx, message.OrganizationID, message.CampaignID); err == nil {
		if counts, err := s.stores.Messages.CountsByCampaign(ctx, message.CampaignID); err == nil {
			status = DeriveStatus(counts, campaign.Status)
		}
	}
	if status == models.CampaignStatusCompleted {
		if marked, err := s.stores.Campaigns.MarkCompleted(ctx, message.CampaignID, time.Now()); err != nil {
			logrus.Warnf("Failed to record completion of campaign %s: %v", message.CampaignID, err)
		} else if marked {
			logrus.Infof("Campaign %s completed", message.CampaignID)
		}
	}

	s.notifier.Notify(ctx, models.DispatchEvent{
		Type:           models.EventMessageStatus,
		OrganizationID: message.OrganizationID,
		CampaignID:     message.CampaignID,
		InstanceID:     message.InstanceID,
		Status:         status,
		Count:          1,
	})
	return true, nil
}

// StartConsumer starts consumers goroutines reading status reports from RabbitMQ
func (s *TransportReportService) StartConsumer(consumers int) error {
	if consumers <= 0 {
		consumers = 1
	}

	for i := 0; i < consumers; i++ {
		msgs, err := s.source.ConsumeReports(fmt.Sprintf("dispatch-report-consumer-%d", i))
		if err != nil {
			return err
		}

		go func(worker int) {
			for {
				select {
				case <-s.stopChan:
					logrus.Infof("Status report consumer %d stopped", worker)
					return
				case msg, ok := <-msgs:
					if !ok {
						logrus.Warnf("RabbitMQ channel closed for report consumer %d", worker)
						return
					}
					s.handleDelivery(msg)
				}
			}
		}(i)
	}

	logrus.Infof("RabbitMQ consumers started for status reports (%d)", consumers)
	return nil
}

// StopConsumer stops the consumer
func (s *TransportReportService) StopConsumer() {
	close(s.stopChan)
}

func (s *TransportReportService) handleDelivery(msg amqp.Delivery) {
	requeue, err := s.processReport(msg.Body)
	if err == nil {
		if ackErr := msg.Ack(false); ackErr != nil {
			logrus.Errorf("Failed to ack status report: %v", ackErr)
		}
		return
	}

	logrus.Errorf("Failed to process status report: %v", err)
	if nackErr := msg.Nack(false, requeue); nackErr != nil {
		logrus.Errorf("Failed to nack status report: %v", nackErr)
	}
}

// processReport decodes and applies a report body. requeue is true only for store errors.
func (s *TransportReportService) processReport(body []byte) (requeue bool, err error) {
	var report models.StatusReport
	if err := json.Unmarshal(body, &report); err != nil {
		return false, fmt.Errorf("failed to unmarshal status report: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), reportApplyTimeout)
	defer cancel()

	if _, err := s.ApplyReport(ctx, report); err != nil {
		var validationErr *ValidationError
		if errors.As(err, &validationErr) || errors.Is(err, ErrMessageNotFound) {
			return false, err
		}
		return true, err
	}
	return false, nil
}
