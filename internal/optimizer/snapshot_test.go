package optimizer

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartwise/grocery-service/internal/catalog"
	"github.com/cartwise/grocery-service/internal/geo"
	"github.com/cartwise/grocery-service/internal/geocode"
)

// mockCatalog is a Source over a fixed offer set.
type mockCatalog struct {
	offers  []catalog.Offer
	err     error
	queried bool
}

func (m *mockCatalog) FindOffers(ctx context.Context, namesLower []string) ([]catalog.Offer, error) {
	m.queried = true
	if m.err != nil {
		return nil, m.err
	}
	requested := make(map[string]bool, len(namesLower))
	for _, n := range namesLower {
		requested[n] = true
	}
	var out []catalog.Offer
	for _, o := range m.offers {
		if requested[normKey(o.ItemName)] {
			out = append(out, o)
		}
	}
	return out, nil
}

// mockGeocoder resolves from a fixed map and counts calls per postal code.
// Geocode is called concurrently by the loader, so the counter is locked.
type mockGeocoder struct {
	points map[string]geocode.Point
	err    error
	mu     sync.Mutex
	calls  map[string]int
}

func newMockGeocoder(points map[string]geocode.Point) *mockGeocoder {
	return &mockGeocoder{points: points, calls: make(map[string]int)}
}

func (m *mockGeocoder) Geocode(ctx context.Context, zip string) (geocode.Point, error) {
	m.mu.Lock()
	m.calls[zip]++
	m.mu.Unlock()
	if m.err != nil {
		return geocode.Point{}, m.err
	}
	p, ok := m.points[zip]
	if !ok {
		return geocode.Point{}, geocode.ErrNotFound
	}
	return p, nil
}

var testPoints = map[string]geocode.Point{
	"10001": {Lat: 40.7484, Lng: -73.9967}, // shopper
	"10002": {Lat: 40.7170, Lng: -73.9870},
	"10003": {Lat: 40.7316, Lng: -73.9890},
}

func testOffers() []catalog.Offer {
	return []catalog.Offer{
		{StoreID: 1, StoreName: "Store X", StoreZip: "10002", ItemName: "Milk", Price: 3.50},
		{StoreID: 1, StoreName: "Store X", StoreZip: "10002", ItemName: "Eggs", Price: 2.40},
		{StoreID: 2, StoreName: "Store Y", StoreZip: "10003", ItemName: "Eggs", Price: 2.00},
	}
}

func TestLoadGroupsOffersByStore(t *testing.T) {
	src := &mockCatalog{offers: testOffers()}
	geocoder := newMockGeocoder(testPoints)
	loader := NewSnapshotLoader(src, geocoder, nil)

	summaries, err := loader.Load(context.Background(), []string{"MILK", "eggs"}, "10001")
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	x := summaries[0]
	assert.Equal(t, int64(1), x.StoreID)
	assert.Equal(t, "Store X", x.Name)
	require.Contains(t, x.Offers, "milk")
	assert.Equal(t, "Milk", x.Offers["milk"].Name, "original catalog casing preserved")
	assert.Equal(t, 3.50, x.Offers["milk"].Price)

	shopper := testPoints["10001"]
	storeX := testPoints["10002"]
	assert.Equal(t, geo.Miles(shopper.Lat, shopper.Lng, storeX.Lat, storeX.Lng), x.Distance)
}

func TestLoadEmptyItems(t *testing.T) {
	src := &mockCatalog{offers: testOffers()}
	loader := NewSnapshotLoader(src, newMockGeocoder(testPoints), nil)

	for _, items := range [][]string{nil, {}, {"  ", ""}} {
		_, err := loader.Load(context.Background(), items, "10001")
		kind, ok := KindOf(err)
		require.True(t, ok)
		assert.Equal(t, KindNoItemsProvided, kind)
	}
	assert.False(t, src.queried, "catalog must not be queried without items")
}

func TestLoadInvalidShopperZipShortCircuits(t *testing.T) {
	src := &mockCatalog{offers: testOffers()}
	loader := NewSnapshotLoader(src, newMockGeocoder(testPoints), nil)

	_, err := loader.Load(context.Background(), []string{"milk"}, "00000")
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindInvalidLocation, kind)
	assert.False(t, src.queried, "shopper location is validated before any catalog query")
}

func TestLoadShopperGeocoderUnavailable(t *testing.T) {
	src := &mockCatalog{offers: testOffers()}
	geocoder := newMockGeocoder(testPoints)
	geocoder.err = errors.New("connection refused")
	loader := NewSnapshotLoader(src, geocoder, nil)

	_, err := loader.Load(context.Background(), []string{"milk"}, "10001")
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindUpstreamUnavailable, kind)
}

func TestLoadCatalogUnavailable(t *testing.T) {
	src := &mockCatalog{err: errors.New("connection reset")}
	loader := NewSnapshotLoader(src, newMockGeocoder(testPoints), nil)

	_, err := loader.Load(context.Background(), []string{"milk"}, "10001")
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindUpstreamUnavailable, kind)
}

func TestLoadNoMatches(t *testing.T) {
	src := &mockCatalog{offers: testOffers()}
	loader := NewSnapshotLoader(src, newMockGeocoder(testPoints), nil)

	_, err := loader.Load(context.Background(), []string{"bread"}, "10001")
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindNoMatchesFound, kind)
}

func TestLoadUngeocodableStoreDegradesToInfinity(t *testing.T) {
	offers := append(testOffers(), catalog.Offer{
		StoreID: 3, StoreName: "Store Z", StoreZip: "99999", ItemName: "Milk", Price: 3.00,
	})
	src := &mockCatalog{offers: offers}
	loader := NewSnapshotLoader(src, newMockGeocoder(testPoints), nil)

	summaries, err := loader.Load(context.Background(), []string{"milk", "eggs"}, "10001")
	require.NoError(t, err)
	require.Len(t, summaries, 3)

	var z StoreSummary
	for _, s := range summaries {
		if s.StoreID == 3 {
			z = s
		}
	}
	assert.True(t, math.IsInf(z.Distance, 1), "ungeocodable store sorts last but is not dropped")
	require.Contains(t, z.Offers, "milk")
	assert.Equal(t, 3.00, z.Offers["milk"].Price)
}

func TestLoadGeocodesEachDistinctZipOnce(t *testing.T) {
	offers := append(testOffers(), catalog.Offer{
		StoreID: 3, StoreName: "Store Z", StoreZip: "10002", ItemName: "Milk", Price: 3.10,
	})
	src := &mockCatalog{offers: offers}
	geocoder := newMockGeocoder(testPoints)
	loader := NewSnapshotLoader(src, geocoder, nil)

	_, err := loader.Load(context.Background(), []string{"milk", "eggs"}, "10001")
	require.NoError(t, err)

	assert.Equal(t, 1, geocoder.calls["10001"], "shopper zip")
	assert.Equal(t, 1, geocoder.calls["10002"], "shared store zip geocoded once")
	assert.Equal(t, 1, geocoder.calls["10003"])
}
