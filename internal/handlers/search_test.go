package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartwise/grocery-service/internal/catalog"
)

// fakeCatalog is an in-memory Catalog for handler tests.
type fakeCatalog struct {
	offers   []catalog.Offer
	stores   []catalog.Store
	products map[int64][]catalog.Product
	flyers   map[int64][]catalog.Flyer

	queried []string
}

func (f *fakeCatalog) FindOffers(ctx context.Context, namesLower []string) ([]catalog.Offer, error) {
	f.queried = namesLower
	var out []catalog.Offer
	for _, o := range f.offers {
		for _, name := range namesLower {
			if name == strings.ToLower(o.ItemName) {
				out = append(out, o)
			}
		}
	}
	return out, nil
}

func (f *fakeCatalog) ListStores(ctx context.Context) ([]catalog.Store, error) {
	return f.stores, nil
}

func (f *fakeCatalog) GetStore(ctx context.Context, storeID int64) (catalog.Store, error) {
	for _, s := range f.stores {
		if s.ID == storeID {
			return s, nil
		}
	}
	return catalog.Store{}, catalog.ErrStoreNotFound
}

func (f *fakeCatalog) StoreProducts(ctx context.Context, storeID int64) ([]catalog.Product, error) {
	return f.products[storeID], nil
}

func (f *fakeCatalog) InsertProduct(ctx context.Context, name string, storeID int64, price float64) (int64, error) {
	if _, err := f.GetStore(ctx, storeID); err != nil {
		return 0, err
	}
	p := catalog.Product{ID: int64(len(f.products[storeID]) + 1), Name: name, Price: price, StoreID: storeID}
	if f.products == nil {
		f.products = map[int64][]catalog.Product{}
	}
	f.products[storeID] = append(f.products[storeID], p)
	return p.ID, nil
}

func (f *fakeCatalog) InsertFlyer(ctx context.Context, storeID int64, imageURL string) (int64, error) {
	if f.flyers == nil {
		f.flyers = map[int64][]catalog.Flyer{}
	}
	fl := catalog.Flyer{ID: int64(len(f.flyers[storeID]) + 1), StoreID: storeID, ImageURL: imageURL}
	f.flyers[storeID] = append(f.flyers[storeID], fl)
	return fl.ID, nil
}

func (f *fakeCatalog) StoreFlyers(ctx context.Context, storeID int64) ([]catalog.Flyer, error) {
	return f.flyers[storeID], nil
}

func catalogRouter(fake *fakeCatalog) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := New(fake, nil, nil, nil)
	router := gin.New()
	router.GET("/search", h.SearchProducts)
	router.GET("/stores", h.ListStores)
	router.GET("/stores/:storeId", h.GetStore)
	return router
}

func get(t *testing.T, router *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, path, nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSearchComparesPricesAcrossStores(t *testing.T) {
	fake := &fakeCatalog{
		offers: []catalog.Offer{
			{StoreID: 1, StoreName: "Value Mart", StoreZip: "90210", ItemName: "Whole Milk", Price: 2.49},
			{StoreID: 2, StoreName: "Fresh Foods", StoreZip: "90211", ItemName: "Whole Milk", Price: 3.19},
		},
	}
	router := catalogRouter(fake)

	w := get(t, router, "/search?query=Whole+Milk,+eggs")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"whole milk", "eggs"}, fake.queried)

	var results []SearchResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &results))
	require.Len(t, results, 2)

	assert.Equal(t, "whole milk", results[0].Name)
	require.Len(t, results[0].Stores, 2)
	assert.Equal(t, "Value Mart", results[0].Stores[0].Store)
	assert.Equal(t, 2.49, results[0].Stores[0].Price)
	assert.Equal(t, "90211", results[0].Stores[1].Zip)

	// Unmatched items get an empty store list, not an error.
	assert.Equal(t, "eggs", results[1].Name)
	assert.Empty(t, results[1].Stores)
}

func TestSearchRequiresQuery(t *testing.T) {
	router := catalogRouter(&fakeCatalog{})

	w := get(t, router, "/search")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = get(t, router, "/search?query=++")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetStoreWithProducts(t *testing.T) {
	fake := &fakeCatalog{
		stores: []catalog.Store{{ID: 7, Name: "Corner Shop", ZipCode: "10001"}},
		products: map[int64][]catalog.Product{
			7: {{ID: 1, Name: "Bread", Price: 3.50, StoreID: 7}},
		},
	}
	router := catalogRouter(fake)

	w := get(t, router, "/stores/7")
	require.Equal(t, http.StatusOK, w.Code)

	var resp StoreDetailResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Corner Shop", resp.StoreName)
	require.Len(t, resp.Products, 1)
	assert.Equal(t, "Bread", resp.Products[0].Name)
}

func TestGetStoreNotFound(t *testing.T) {
	router := catalogRouter(&fakeCatalog{})

	w := get(t, router, "/stores/42")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = get(t, router, "/stores/not-a-number")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
