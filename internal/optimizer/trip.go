package optimizer

import (
	"sort"

	"github.com/cartwise/grocery-service/internal/geo"
)

// Optimize computes the three alternative trip plans for the requested items
// over the given store summaries. It is a pure function: it trusts the
// snapshot loader to have rejected empty item lists, bad locations and empty
// match sets, and when handed empty summaries anyway it returns three empty
// but well-formed plans.
func Optimize(items []string, stores []StoreSummary) PlanSet {
	requested := NormalizeItems(items)
	return PlanSet{
		PriceOptimized:       priceOptimized(requested, stores),
		DistanceOptimized:    distanceOptimized(requested, stores),
		ConvenienceOptimized: convenienceOptimized(requested, stores),
	}
}

// priceOptimized assigns each requested item independently to the store
// offering its lowest price. Stores are walked in ascending StoreID order, so
// on a price tie the lowest store ID wins (a don't-care tie-break, chosen for
// determinism). Total distance is the sum of shopper-to-store distances for
// every distinct supplying store, not a routed trip; +Inf from an
// ungeocodable store propagates into the total.
func priceOptimized(requested []string, stores []StoreSummary) TripPlan {
	plan := emptyPlan()
	if len(stores) == 0 {
		return plan
	}

	ordered := make([]StoreSummary, len(stores))
	copy(ordered, stores)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].StoreID < ordered[j].StoreID })

	visited := make(map[int64]bool)
	var cost float64
	for _, item := range requested {
		bestIdx := -1
		for i, store := range ordered {
			offer, ok := store.Offers[item]
			if !ok {
				continue
			}
			if bestIdx == -1 || offer.Price < ordered[bestIdx].Offers[item].Price {
				bestIdx = i
			}
		}
		if bestIdx == -1 {
			// Unobtainable item: silently omitted from the plan.
			continue
		}
		best := ordered[bestIdx]
		offer := best.Offers[item]
		plan.Items[offer.Name] = ItemAssignment{Store: best.Name, Price: offer.Price}
		cost += offer.Price
		visited[best.StoreID] = true
	}

	var distance float64
	for _, store := range ordered {
		if visited[store.StoreID] {
			plan.Stores = append(plan.Stores, store.StoreID)
			distance += store.Distance
		}
	}
	plan.TotalCost = geo.Round2(cost)
	plan.TotalDistance = geo.Round2(distance)
	return plan
}

// distanceOptimized walks stores from nearest to farthest, assigning every
// still-unassigned item the store carries. Ungeocodable stores sort last but
// remain eligible, so an item sold only by an ungeocodable store is still
// assigned.
func distanceOptimized(requested []string, stores []StoreSummary) TripPlan {
	ordered := make([]StoreSummary, len(stores))
	copy(ordered, stores)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Distance != ordered[j].Distance {
			return ordered[i].Distance < ordered[j].Distance
		}
		return ordered[i].StoreID < ordered[j].StoreID
	})
	return walkStores(requested, ordered)
}

// convenienceOptimized ranks stores by how many distinct requested items they
// cover, preferring fewer stops. Coverage ties break by distance, then store
// ID. Zero-coverage stores are discarded before the walk.
func convenienceOptimized(requested []string, stores []StoreSummary) TripPlan {
	type ranked struct {
		store    StoreSummary
		coverage int
	}
	candidates := make([]ranked, 0, len(stores))
	for _, store := range stores {
		coverage := 0
		for _, item := range requested {
			if _, ok := store.Offers[item]; ok {
				coverage++
			}
		}
		if coverage == 0 {
			continue
		}
		candidates = append(candidates, ranked{store: store, coverage: coverage})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].coverage != candidates[j].coverage {
			return candidates[i].coverage > candidates[j].coverage
		}
		if candidates[i].store.Distance != candidates[j].store.Distance {
			return candidates[i].store.Distance < candidates[j].store.Distance
		}
		return candidates[i].store.StoreID < candidates[j].store.StoreID
	})

	ordered := make([]StoreSummary, len(candidates))
	for i, c := range candidates {
		ordered[i] = c.store
	}
	return walkStores(requested, ordered)
}

// walkStores is the shared greedy assignment loop: visit stores in the given
// order, at each store assign every still-unassigned requested item it
// carries, and stop once nothing remains. A store joins the plan only if it
// supplied at least one item at the time it was visited.
func walkStores(requested []string, ordered []StoreSummary) TripPlan {
	plan := emptyPlan()

	remaining := make(map[string]bool, len(requested))
	for _, item := range requested {
		remaining[item] = true
	}

	var cost, distance float64
	for _, store := range ordered {
		if len(remaining) == 0 {
			break
		}
		supplied := false
		for _, item := range requested {
			if !remaining[item] {
				continue
			}
			offer, ok := store.Offers[item]
			if !ok {
				continue
			}
			plan.Items[offer.Name] = ItemAssignment{Store: store.Name, Price: offer.Price}
			cost += offer.Price
			delete(remaining, item)
			supplied = true
		}
		if supplied {
			plan.Stores = append(plan.Stores, store.StoreID)
			distance += store.Distance
		}
	}

	plan.TotalCost = geo.Round2(cost)
	plan.TotalDistance = geo.Round2(distance)
	return plan
}
