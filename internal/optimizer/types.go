// Package optimizer computes multi-store shopping plans: given a shopping
// list and a shopper postal code it loads a per-request catalog snapshot and
// returns three alternative plans (price, distance, convenience).
package optimizer

// ItemOffer is one store's price for one requested item. Name carries the
// catalog's original casing; snapshot lookup keys are lower-cased.
type ItemOffer struct {
	Name  string
	Price float64
}

// StoreSummary is the aggregated per-store view of all matched offers plus
// the store's distance from the shopper.
type StoreSummary struct {
	StoreID int64
	Name    string
	Zip     string
	// Offers maps lower-cased item name to the offer. One shared
	// normalization step builds this so all three strategies see identical
	// casing and tie-break behavior.
	Offers map[string]ItemOffer
	// Distance from the shopper in miles. +Inf when the store's postal code
	// could not be geocoded: the store stays eligible for price and coverage
	// assignment but sorts last by distance and poisons distance totals.
	Distance float64
}

// ItemAssignment records where a requested item should be bought.
type ItemAssignment struct {
	Store string  `json:"store"`
	Price float64 `json:"price"`
}

// TripPlan is one strategy's recommended trip. Items is keyed by the
// catalog's original-cased item name. Requested items with no offer anywhere
// are omitted rather than reported as errors.
type TripPlan struct {
	Stores        []int64                   `json:"stores"`
	TotalCost     float64                   `json:"total_cost"`
	TotalDistance float64                   `json:"total_distance"`
	Items         map[string]ItemAssignment `json:"item_breakdown"`
}

// PlanSet bundles the three alternative plans computed for one request.
type PlanSet struct {
	PriceOptimized       TripPlan
	DistanceOptimized    TripPlan
	ConvenienceOptimized TripPlan
}

func emptyPlan() TripPlan {
	return TripPlan{
		Stores: []int64{},
		Items:  map[string]ItemAssignment{},
	}
}
