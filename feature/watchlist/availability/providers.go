package availability

// Provider is one entry of the relevant-provider allow-list: a streaming
// service worth surfacing, with its display name and JustWatch short code.
type Provider struct {
	DisplayName string `json:"clear_name" mapstructure:"clear_name"`
	ShortName   string `json:"short_name" mapstructure:"short_name"`
}

// DefaultProviders returns the built-in allow-list of relevant streaming
// services.
func DefaultProviders() []Provider {
	return []Provider{
		{DisplayName: "Netflix", ShortName: "nfx"},
		{DisplayName: "Amazon Prime Video", ShortName: "amp"},
		{DisplayName: "Disney Plus", ShortName: "dnp"},
		{DisplayName: "Apple TV Plus", ShortName: "atp"},
		{DisplayName: "Apple iTunes", ShortName: "itu"},
		{DisplayName: "Hulu", ShortName: "hlu"},
		{DisplayName: "HBO Max", ShortName: "hbm"},
		{DisplayName: "HBO Max Free", ShortName: "hmf"},
		{DisplayName: "Peacock", ShortName: "pct"},
		{DisplayName: "Peacock Premium", ShortName: "pcp"},
		{DisplayName: "Amazon Video", ShortName: "amz"},
		{DisplayName: "Google Play Movies", ShortName: "ply"},
		{DisplayName: "YouTube", ShortName: "yot"},
		{DisplayName: "Paramount Plus", ShortName: "pmp"},
		{DisplayName: "The Roku Channel", ShortName: "rkc"},
		{DisplayName: "YouTube Free", ShortName: "yfr"},
		{DisplayName: "Hoopla", ShortName: "hop"},
		{DisplayName: "Vudu", ShortName: "vdu"},
		{DisplayName: "VUDU Free", ShortName: "vuf"},
		{DisplayName: "PBS", ShortName: "pbs"},
		{DisplayName: "Shudder", ShortName: "shd"},
		{DisplayName: "Pluto TV", ShortName: "ptv"},
		{DisplayName: "Plex", ShortName: "plx"},
		{DisplayName: "Tubi TV", ShortName: "tbv"},
		{DisplayName: "Kanopy", ShortName: "knp"},
	}
}

// ProvidersFromNames builds provider entries from bare display names, for
// configuration-supplied allow-lists that carry no short codes.
func ProvidersFromNames(names []string) []Provider {
	providers := make([]Provider, 0, len(names))
	for _, name := range names {
		providers = append(providers, Provider{DisplayName: name})
	}
	return providers
}

// AllowList answers membership questions about the relevant providers.
// It is immutable for the duration of a run.
type AllowList struct {
	names map[string]struct{}
}

// NewAllowList builds an allow-list from provider entries.
func NewAllowList(providers []Provider) AllowList {
	names := make(map[string]struct{}, len(providers))
	for _, p := range providers {
		names[p.DisplayName] = struct{}{}
	}
	return AllowList{names: names}
}

// Contains reports whether the provider display name is on the list.
func (a AllowList) Contains(name string) bool {
	_, ok := a.names[name]
	return ok
}
