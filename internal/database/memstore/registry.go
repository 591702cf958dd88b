package memstore

import (
	"context"

	"github.com/onegreenvn/outreach-dispatch-backend/internal/database/repository"
	"github.com/onegreenvn/outreach-dispatch-backend/internal/models"
)

type instanceStore struct{ s *Store }

func (i *instanceStore) ListActive(_ context.Context, organizationID string) ([]*models.Instance, error) {
	return i.list(func(instance *models.Instance) bool {
		return instance.OrganizationID == organizationID && instance.IsActive()
	}), nil
}

func (i *instanceStore) ListByOrganization(_ context.Context, organizationID string) ([]*models.Instance, error) {
	return i.list(func(instance *models.Instance) bool {
		return instance.OrganizationID == organizationID
	}), nil
}

func (i *instanceStore) ListAll(_ context.Context) ([]*models.Instance, error) {
	return i.list(func(*models.Instance) bool { return true }), nil
}

func (i *instanceStore) list(keep func(*models.Instance) bool) []*models.Instance {
	i.s.mu.RLock()
	defer i.s.mu.RUnlock()

	var out []*models.Instance
	for _, instance := range i.s.instances {
		if keep(instance) {
			copied := *instance
			out = append(out, &copied)
		}
	}
	sortInstances(out)
	return out
}

type contactStore struct{ s *Store }

func (c *contactStore) ListByOrganization(_ context.Context, organizationID string) ([]*models.Contact, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()

	var out []*models.Contact
	for _, contact := range c.s.contacts {
		if contact.OrganizationID == organizationID {
			copied := *contact
			out = append(out, &copied)
		}
	}
	return out, nil
}

var (
	_ repository.InstanceStore = (*instanceStore)(nil)
	_ repository.ContactStore  = (*contactStore)(nil)
)
