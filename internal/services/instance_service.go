package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/onegreenvn/outreach-dispatch-backend/internal/database/repository"
	"github.com/onegreenvn/outreach-dispatch-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// InstanceService lists instances and polls the registry for status changes,
// broadcasting each change as an instance_status event.
type InstanceService struct {
	instances repository.InstanceStore
	notifier  Notifier
	interval  time.Duration
	stopChan  chan bool

	mu   sync.Mutex
	last map[string]string
}

func NewInstanceService(instances repository.InstanceStore, notifier Notifier, interval time.Duration) *InstanceService {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &InstanceService{
		instances: instances,
		notifier:  notifierOrNoop(notifier),
		interval:  interval,
		stopChan:  make(chan bool),
	}
}

// GetInstances lists the organization's instances
func (s *InstanceService) GetInstances(ctx context.Context, organizationID string) ([]*models.InstanceResponse, error) {
	instances, err := s.instances.ListByOrganization(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get instances: %w", err)
	}

	responses := make([]*models.InstanceResponse, len(instances))
	for i, instance := range instances {
		responses[i] = &models.InstanceResponse{
			ID:          instance.ID,
			Name:        instance.Name,
			PhoneNumber: instance.PhoneNumber,
			Status:      instance.Status,
			UpdatedAt:   instance.UpdatedAt.Format(time.RFC3339),
		}
	}
	return responses, nil
}

// Start starts the instance watcher
func (s *InstanceService) Start() {
	go s.run()
	logrus.Info("Instance status watcher started")
}

// Stop stops the instance watcher
func (s *InstanceService) Stop() {
	s.stopChan <- true
	logrus.Info("Instance status watcher stopped")
}

func (s *InstanceService) run() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.poll()

	for {
		select {
		case <-ticker.C:
			s.poll()
		case <-s.stopChan:
			return
		}
	}
}

func (s *InstanceService) poll() {
	ctx, cancel := context.WithTimeout(context.Background(), s.interval)
	defer cancel()

	if _, err := s.Poll(ctx); err != nil {
		logrus.Errorf("Failed to poll instances: %v", err)
	}
}

// Poll reads the registry once and returns the instances whose status changed since the
// previous poll. The first poll only records the baseline.
func (s *InstanceService) Poll(ctx context.Context) ([]*models.Instance, error) {
	instances, err := s.instances.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	first := s.last == nil
	current := make(map[string]string, len(instances))
	var changed []*models.Instance
	for _, instance := range instances {
		current[instance.ID] = instance.Status
		if first {
			continue
		}
		if previous, seen := s.last[instance.ID]; !seen || previous != instance.Status {
			changed = append(changed, instance)
		}
	}
	s.last = current
	s.mu.Unlock()

	for _, instance := range changed {
		logrus.WithFields(logrus.Fields{
			"instance_id": instance.ID,
			"status":      instance.Status,
		}).Info("Instance status changed")

		s.notifier.Notify(ctx, models.DispatchEvent{
			Type:           models.EventInstanceStatus,
			OrganizationID: instance.OrganizationID,
			InstanceID:     instance.ID,
			Status:         instance.Status,
		})
	}
	return changed, nil
}
