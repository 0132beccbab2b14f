// Package availability maps the raw per-film availability payload served by
// the list site (a JustWatch passthrough, nested by quality tier and offer
// kind) to a single best watch option per film.
package availability

import (
	"sort"
	"strconv"

	json "github.com/goccy/go-json"
)

// Kind is an offer kind: how a film can be consumed.
type Kind string

const (
	KindStream Kind = "stream"
	KindRent   Kind = "rent"
	KindBuy    Kind = "buy"
)

// Kinds returns the offer kinds in fallback order: a streamable film wins
// over a rentable one, which wins over a purchasable one.
func Kinds() []Kind {
	return []Kind{KindStream, KindRent, KindBuy}
}

// Offer is a single watch option for one film on one provider.
type Offer struct {
	// Name is the provider display name, e.g. "Netflix".
	Name string `json:"name"`
	// Format is the presentation quality reported for this offer (e.g. "hd").
	Format string `json:"format"`
	// Type is the monetization type: flatrate, free, ads, rent or buy.
	Type string `json:"type"`
	// Price is a numeric string like "3.99". A missing price means free and
	// normalizes to "0" during decoding.
	Price string `json:"price"`
}

// UnmarshalJSON applies the price default: absent or null prices become "0".
func (o *Offer) UnmarshalJSON(data []byte) error {
	type alias Offer
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	if a.Price == "" {
		a.Price = "0"
	}
	*o = Offer(a)
	return nil
}

// IsStreaming reports whether the offer is a subscription/free/ad-supported
// stream rather than a one-off rental or purchase.
func (o Offer) IsStreaming() bool {
	return o.Type == "flatrate" || o.Type == "ads" || o.Type == "free"
}

// typeRank orders monetization types within equal prices: fully free and
// subscription tiers before ad-supported ones, everything else last.
var typeRank = map[string]int{
	"flatrate": 1,
	"free":     1,
	"ads":      2,
}

func (o Offer) typeRank() int {
	if r, ok := typeRank[o.Type]; ok {
		return r
	}
	return 3
}

// priceValue interprets the price numerically; unparseable prices sort as 0.
func (o Offer) priceValue() float64 {
	v, err := strconv.ParseFloat(o.Price, 64)
	if err != nil {
		return 0
	}
	return v
}

// sortOffers orders offers ascending by (numeric price, type rank).
// The sort is stable so ties keep their original relative order, which after
// the fixed-quality merge means higher quality first.
func sortOffers(offers []Offer) {
	sort.SliceStable(offers, func(i, j int) bool {
		if offers[i].priceValue() != offers[j].priceValue() {
			return offers[i].priceValue() < offers[j].priceValue()
		}
		return offers[i].typeRank() < offers[j].typeRank()
	})
}

// Group holds the offers of one quality bucket partitioned by kind.
type Group struct {
	Stream []Offer `json:"stream"`
	Rent   []Offer `json:"rent"`
	Buy    []Offer `json:"buy"`
}

func (g Group) byKind(kind Kind) []Offer {
	switch kind {
	case KindStream:
		return g.Stream
	case KindRent:
		return g.Rent
	case KindBuy:
		return g.Buy
	default:
		return nil
	}
}

// Payload is the raw availability response for one film: four quality
// buckets, each partitioned by offer kind. The "best" bucket is advisory and
// ignored during resolution; 4k, hd and sd are merged in that priority order.
type Payload struct {
	Best  Group `json:"best"`
	FourK Group `json:"4k"`
	HD    Group `json:"hd"`
	SD    Group `json:"sd"`
}

// mergedGroup concatenates one kind's offers across quality buckets in the
// fixed 4k, hd, sd order, so the higher-quality instance of a tied offer
// surfaces first after the uniform sort.
func (p Payload) mergedGroup(kind Kind) []Offer {
	var merged []Offer
	for _, g := range []Group{p.FourK, p.HD, p.SD} {
		merged = append(merged, g.byKind(kind)...)
	}
	return merged
}
