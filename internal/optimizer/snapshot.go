package optimizer

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/cartwise/grocery-service/internal/catalog"
	"github.com/cartwise/grocery-service/internal/geo"
	"github.com/cartwise/grocery-service/internal/geocode"
)

// defaultGeocodeConcurrency bounds in-flight geocoding calls so a burst of
// distinct store postal codes does not hammer the external service.
const defaultGeocodeConcurrency = 4

// SnapshotLoader builds per-request store summaries from the catalog and the
// geocoding collaborator. It owns the whole failure taxonomy of §7: a bad
// shopper location or an empty match set is terminal, an ungeocodable store
// degrades to an infinite distance.
type SnapshotLoader struct {
	catalog     catalog.Source
	geocoder    geocode.Geocoder
	concurrency int
	metrics     *MetricsRecorder
	logger      zerolog.Logger
}

// NewSnapshotLoader creates a loader over the given collaborators. Both are
// injected; their lifecycle belongs to the composition root.
func NewSnapshotLoader(src catalog.Source, g geocode.Geocoder, metrics *MetricsRecorder) *SnapshotLoader {
	if metrics == nil {
		metrics = NewMetricsRecorder()
	}
	return &SnapshotLoader{
		catalog:     src,
		geocoder:    g,
		concurrency: defaultGeocodeConcurrency,
		metrics:     metrics,
		logger:      log.With().Str("component", "snapshot_loader").Logger(),
	}
}

// NormalizeItems lower-cases and trims the requested item names, dropping
// empties and duplicates while preserving first-seen order.
func NormalizeItems(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		name := strings.ToLower(strings.TrimSpace(item))
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// Load builds store summaries for the requested items as seen from the
// shopper's postal code. The shopper location is validated before any catalog
// query is issued.
func (l *SnapshotLoader) Load(ctx context.Context, items []string, shopperZip string) ([]StoreSummary, error) {
	normalized := NormalizeItems(items)
	if len(normalized) == 0 {
		return nil, NewError(KindNoItemsProvided, "no items provided")
	}

	shopper, err := l.geocoder.Geocode(ctx, strings.TrimSpace(shopperZip))
	if err != nil {
		if errors.Is(err, geocode.ErrNotFound) {
			return nil, WrapError(KindInvalidLocation, "could not locate postal code "+shopperZip, err)
		}
		return nil, WrapError(KindUpstreamUnavailable, "geocoding service unavailable", err)
	}

	offers, err := l.catalog.FindOffers(ctx, normalized)
	if err != nil {
		return nil, WrapError(KindUpstreamUnavailable, "catalog unavailable", err)
	}
	if len(offers) == 0 {
		return nil, NewError(KindNoMatchesFound, "no matching items found at any store")
	}

	summaries := groupOffers(offers)
	l.metrics.RecordSnapshot(len(summaries), len(offers))

	distances := l.geocodeStores(ctx, shopper, summaries)
	for i := range summaries {
		summaries[i].Distance = distances[summaries[i].Zip]
	}

	l.logger.Debug().
		Int("items", len(normalized)).
		Int("stores", len(summaries)).
		Int("offers", len(offers)).
		Msg("Loaded catalog snapshot")
	return summaries, nil
}

// groupOffers folds the flat offer rows into per-store summaries, keyed by
// lower-cased item name but preserving original casing for display. The first
// offer wins when a store carries the same item name twice.
func groupOffers(offers []catalog.Offer) []StoreSummary {
	byStore := make(map[int64]*StoreSummary)
	order := make([]int64, 0)
	for _, o := range offers {
		summary, ok := byStore[o.StoreID]
		if !ok {
			summary = &StoreSummary{
				StoreID:  o.StoreID,
				Name:     o.StoreName,
				Zip:      o.StoreZip,
				Offers:   make(map[string]ItemOffer),
				Distance: math.Inf(1),
			}
			byStore[o.StoreID] = summary
			order = append(order, o.StoreID)
		}
		key := strings.ToLower(o.ItemName)
		if _, exists := summary.Offers[key]; !exists {
			summary.Offers[key] = ItemOffer{Name: o.ItemName, Price: o.Price}
		}
	}

	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })
	out := make([]StoreSummary, 0, len(order))
	for _, id := range order {
		out = append(out, *byStore[id])
	}
	return out
}

// geocodeStores resolves each distinct store postal code with a bounded
// number of in-flight calls, returning the computed miles per postal code.
// Any failure (not found, timeout, transport) maps to +Inf so the store is
// never dropped from the price comparison.
func (l *SnapshotLoader) geocodeStores(ctx context.Context, shopper geocode.Point, summaries []StoreSummary) map[string]float64 {
	distinct := make([]string, 0, len(summaries))
	seen := make(map[string]struct{}, len(summaries))
	for _, s := range summaries {
		if _, ok := seen[s.Zip]; ok {
			continue
		}
		seen[s.Zip] = struct{}{}
		distinct = append(distinct, s.Zip)
	}

	type result struct {
		zip   string
		miles float64
	}
	results := make([]result, len(distinct))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for i, zip := range distinct {
		g.Go(func() error {
			point, err := l.geocoder.Geocode(gctx, zip)
			if err != nil {
				l.metrics.RecordStoreGeocodeFailure()
				l.logger.Debug().Str("zip", zip).Err(err).Msg("Store geocode failed, distance unknown")
				results[i] = result{zip: zip, miles: math.Inf(1)}
				return nil
			}
			results[i] = result{
				zip:   zip,
				miles: geo.Miles(shopper.Lat, shopper.Lng, point.Lat, point.Lng),
			}
			return nil
		})
	}
	// Workers never return errors; failures degrade per store.
	_ = g.Wait()

	distances := make(map[string]float64, len(results))
	for _, r := range results {
		distances[r.zip] = r.miles
	}
	return distances
}
