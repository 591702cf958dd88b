package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/onegreenvn/outreach-dispatch-backend/internal/database/repository"
	"github.com/onegreenvn/outreach-dispatch-backend/internal/models"
	"github.com/onegreenvn/outreach-dispatch-backend/internal/utils"
)

// ContactFilter resolves an AudienceSpec against a contact universe. It only reads.
type ContactFilter struct{}

func NewContactFilter() *ContactFilter {
	return &ContactFilter{}
}

// Resolve returns the contacts matching every dimension of spec, in input order.
// participation maps a normalized phone to the campaigns it took part in without failing.
// Contacts without a usable phone number are skipped.
func (f *ContactFilter) Resolve(spec models.AudienceSpec, contacts []*models.Contact, participation map[string][]string) []models.ContactWithDetails {
	sentiments := lowerSet(spec.Sentiments)
	cities := lowerSet(spec.Cities)
	neighborhoods := lowerSet(spec.Neighborhoods)
	includeEvents := lowerList(spec.IncludeEvents)
	excludeEvents := lowerList(spec.ExcludeEvents)
	includeCampaigns := exactSet(spec.IncludeCampaigns)
	excludeCampaigns := exactSet(spec.ExcludeCampaigns)
	includeTags := lowerSet(spec.IncludeTags)
	excludeTags := lowerSet(spec.ExcludeTags)

	matched := make([]models.ContactWithDetails, 0)
	for _, contact := range contacts {
		phone := utils.NormalizePhone(contact.Phone)
		if phone == "" {
			continue
		}

		if !matchesValue(sentiments, contact.Sentiment) ||
			!matchesValue(cities, contact.City) ||
			!matchesValue(neighborhoods, contact.Neighborhood) {
			continue
		}
		if !matchesEvent(includeEvents, excludeEvents, contact.Event) {
			continue
		}

		campaigns := participation[phone]
		if !matchesAny(includeCampaigns, excludeCampaigns, campaigns, false) {
			continue
		}
		if !matchesAny(includeTags, excludeTags, contact.Tags, true) {
			continue
		}

		matched = append(matched, models.ContactWithDetails{
			Contact:   *contact,
			Campaigns: append([]string(nil), campaigns...),
		})
	}
	return matched
}

// resolveAudience loads what the filter needs for the organization and runs it
func resolveAudience(ctx context.Context, stores repository.Stores, filter *ContactFilter, organizationID string, spec models.AudienceSpec) ([]models.ContactWithDetails, error) {
	contacts, err := stores.Contacts.ListByOrganization(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load contacts: %w", err)
	}

	participation := map[string][]string{}
	if referenced := utils.NormalizeList(spec.ReferencedCampaigns()); len(referenced) > 0 {
		participation, err = stores.Messages.ParticipationByCampaigns(ctx, organizationID, referenced)
		if err != nil {
			return nil, fmt.Errorf("failed to load campaign participation: %w", err)
		}
	}

	return filter.Resolve(spec, contacts, participation), nil
}

func matchesValue(allowed map[string]bool, value string) bool {
	if len(allowed) == 0 {
		return true
	}
	return allowed[strings.ToLower(strings.TrimSpace(value))]
}

// matchesEvent does substring matching on the free-text event field. Excludes are checked first.
func matchesEvent(include, exclude []string, event string) bool {
	event = strings.ToLower(event)
	for _, term := range exclude {
		if strings.Contains(event, term) {
			return false
		}
	}
	if len(include) == 0 {
		return true
	}
	for _, term := range include {
		if strings.Contains(event, term) {
			return true
		}
	}
	return false
}

// matchesAny passes when values hit at least one include (if any) and no exclude
func matchesAny(include, exclude map[string]bool, values []string, fold bool) bool {
	hit := false
	for _, v := range values {
		key := strings.TrimSpace(v)
		if fold {
			key = strings.ToLower(key)
		}
		if exclude[key] {
			return false
		}
		if include[key] {
			hit = true
		}
	}
	return len(include) == 0 || hit
}

func lowerList(values []string) []string {
	out := utils.NormalizeList(values)
	for i := range out {
		out[i] = strings.ToLower(out[i])
	}
	return out
}

func lowerSet(values []string) map[string]bool {
	return exactSet(lowerList(values))
}

func exactSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range utils.NormalizeList(values) {
		set[v] = true
	}
	return set
}
