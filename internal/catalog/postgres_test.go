package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupCatalogTestDB(t *testing.T) *pgxpool.Pool {
	if testing.Short() {
		t.Skip("skipping catalog test in short mode (requires Docker)")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err, "Failed to start postgres container")

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "Failed to get connection string")

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err, "Failed to create connection pool")

	schema := `
	CREATE TABLE stores (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		zip_code TEXT NOT NULL
	);

	CREATE TABLE products (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		price NUMERIC(10, 2) NOT NULL CHECK (price >= 0),
		store_id BIGINT NOT NULL REFERENCES stores(id) ON DELETE CASCADE,
		UNIQUE (store_id, name)
	);

	CREATE TABLE flyers (
		id BIGSERIAL PRIMARY KEY,
		store_id BIGINT NOT NULL REFERENCES stores(id) ON DELETE CASCADE,
		image_url TEXT NOT NULL
	);
	`
	_, err = pool.Exec(ctx, schema)
	require.NoError(t, err, "Failed to create schema")

	t.Cleanup(func() {
		pool.Close()
		testcontainers.TerminateContainer(container)
	})

	return pool
}

func TestRepositoryFindOffers(t *testing.T) {
	ctx := context.Background()
	pool := setupCatalogTestDB(t)
	repo := NewRepository(pool)

	valueMart, err := repo.InsertStore(ctx, "Value Mart", "90210")
	require.NoError(t, err)
	freshFoods, err := repo.InsertStore(ctx, "Fresh Foods", "90211")
	require.NoError(t, err)

	_, err = repo.InsertProduct(ctx, "Whole Milk", valueMart, 2.49)
	require.NoError(t, err)
	_, err = repo.InsertProduct(ctx, "whole milk", freshFoods, 3.19)
	require.NoError(t, err)
	_, err = repo.InsertProduct(ctx, "Eggs", freshFoods, 4.99)
	require.NoError(t, err)
	_, err = repo.InsertProduct(ctx, "Butter", valueMart, 5.49)
	require.NoError(t, err)

	offers, err := repo.FindOffers(ctx, []string{"whole milk", "eggs"})
	require.NoError(t, err)
	require.Len(t, offers, 3)

	// Ordered by store id; catalog casing preserved.
	assert.Equal(t, valueMart, offers[0].StoreID)
	assert.Equal(t, "Whole Milk", offers[0].ItemName)
	assert.Equal(t, 2.49, offers[0].Price)
	assert.Equal(t, "Value Mart", offers[0].StoreName)
	assert.Equal(t, "90210", offers[0].StoreZip)
	assert.Equal(t, freshFoods, offers[1].StoreID)
	assert.Equal(t, freshFoods, offers[2].StoreID)

	offers, err = repo.FindOffers(ctx, []string{"caviar"})
	require.NoError(t, err)
	assert.Empty(t, offers)

	offers, err = repo.FindOffers(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, offers)
}

func TestRepositoryStores(t *testing.T) {
	ctx := context.Background()
	pool := setupCatalogTestDB(t)
	repo := NewRepository(pool)

	id, err := repo.InsertStore(ctx, "Corner Shop", "10001")
	require.NoError(t, err)

	stores, err := repo.ListStores(ctx)
	require.NoError(t, err)
	require.Len(t, stores, 1)
	assert.Equal(t, "Corner Shop", stores[0].Name)

	store, err := repo.GetStore(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "10001", store.ZipCode)

	_, err = repo.GetStore(ctx, id+999)
	assert.ErrorIs(t, err, ErrStoreNotFound)
}

func TestRepositoryInsertProductRequiresStore(t *testing.T) {
	ctx := context.Background()
	pool := setupCatalogTestDB(t)
	repo := NewRepository(pool)

	_, err := repo.InsertProduct(ctx, "Milk", 12345, 2.49)
	assert.ErrorIs(t, err, ErrStoreNotFound)
}

func TestRepositoryUpsertProductUpdatesPrice(t *testing.T) {
	ctx := context.Background()
	pool := setupCatalogTestDB(t)
	repo := NewRepository(pool)

	storeID, err := repo.InsertStore(ctx, "Value Mart", "90210")
	require.NoError(t, err)

	require.NoError(t, repo.UpsertProduct(ctx, "Milk", storeID, 2.49))
	require.NoError(t, repo.UpsertProduct(ctx, "Milk", storeID, 1.99))

	products, err := repo.StoreProducts(ctx, storeID)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, 1.99, products[0].Price)
}

func TestRepositoryFlyers(t *testing.T) {
	ctx := context.Background()
	pool := setupCatalogTestDB(t)
	repo := NewRepository(pool)

	storeID, err := repo.InsertStore(ctx, "Fresh Foods", "90211")
	require.NoError(t, err)

	_, err = repo.InsertFlyer(ctx, storeID, "https://cdn.example.com/flyer1.png")
	require.NoError(t, err)
	_, err = repo.InsertFlyer(ctx, storeID, "https://cdn.example.com/flyer2.png")
	require.NoError(t, err)

	flyers, err := repo.StoreFlyers(ctx, storeID)
	require.NoError(t, err)
	require.Len(t, flyers, 2)
	assert.Equal(t, "https://cdn.example.com/flyer1.png", flyers[0].ImageURL)
}
