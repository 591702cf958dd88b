package models

// AudienceSpec is the declarative multi-criteria filter a campaign targets.
// Include lists are OR'd internally, dimensions are AND'd, exclude lists win over includes.
type AudienceSpec struct {
	Sentiments    []string `json:"sentiments,omitempty"`
	Cities        []string `json:"cities,omitempty"`
	Neighborhoods []string `json:"neighborhoods,omitempty"`

	IncludeEvents []string `json:"include_events,omitempty"`
	ExcludeEvents []string `json:"exclude_events,omitempty"`

	IncludeCampaigns []string `json:"include_campaigns,omitempty"`
	ExcludeCampaigns []string `json:"exclude_campaigns,omitempty"`

	IncludeTags []string `json:"include_tags,omitempty"`
	ExcludeTags []string `json:"exclude_tags,omitempty"`
}

// ReferencedCampaigns returns every campaign id the spec filters on
func (s AudienceSpec) ReferencedCampaigns() []string {
	ids := make([]string, 0, len(s.IncludeCampaigns)+len(s.ExcludeCampaigns))
	ids = append(ids, s.IncludeCampaigns...)
	return append(ids, s.ExcludeCampaigns...)
}
