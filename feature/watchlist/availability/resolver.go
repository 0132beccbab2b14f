package availability

import "watchsync/core/utils"

// Resolver reduces a raw availability payload to a single best offer using
// the relevant-provider allow-list.
type Resolver struct {
	allow AllowList
}

// NewResolver creates a resolver for the given provider allow-list.
func NewResolver(providers []Provider) *Resolver {
	return &Resolver{allow: NewAllowList(providers)}
}

// Rank picks the best offer of one kind from an offer group.
//
// The group is first sorted ascending by (numeric price, type rank). For the
// stream kind the best offer is the first whose provider is on the
// allow-list; for rent and buy it is simply the cheapest. An empty group, or
// a stream group with no allow-listed provider, yields no offer.
func (r *Resolver) Rank(offers []Offer, kind Kind) (Offer, bool) {
	sorted := make([]Offer, len(offers))
	copy(sorted, offers)
	sortOffers(sorted)

	if kind == KindStream {
		for _, o := range sorted {
			if r.allow.Contains(o.Name) {
				return o, true
			}
		}
		return Offer{}, false
	}

	if len(sorted) == 0 {
		return Offer{}, false
	}
	return sorted[0], true
}

// Resolve picks the single best offer across the whole payload.
//
// The advisory "best" bucket is discarded. For each kind the 4k, hd and sd
// buckets are merged in that fixed order and ranked; the final result is the
// first present candidate in stream, rent, buy fallback order.
func (r *Resolver) Resolve(payload Payload) (Offer, bool) {
	for _, kind := range Kinds() {
		if offer, ok := r.Rank(payload.mergedGroup(kind), kind); ok {
			return offer, true
		}
	}
	return Offer{}, false
}

// ResolveLocation resolves the payload and formats the chosen offer as the
// record's location text.
func (r *Resolver) ResolveLocation(payload Payload) string {
	offer, ok := r.Resolve(payload)
	return LocationText(offer, ok)
}

// LocationText formats a chosen offer for display: the provider name for
// streaming offers, "<Kind> $<price>" for rentals and purchases, empty when
// nothing was chosen.
func LocationText(offer Offer, ok bool) string {
	if !ok {
		return ""
	}
	if offer.IsStreaming() {
		return offer.Name
	}
	return utils.Capitalize(offer.Type) + " $" + offer.Price
}
