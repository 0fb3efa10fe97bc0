package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrStoreNotFound is returned when a referenced store does not exist.
var ErrStoreNotFound = errors.New("store not found")

// Repository is the Postgres-backed catalog. It implements Source and the
// wider CRUD surface used by the HTTP handlers.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a catalog repository on top of the given pool. The
// pool's lifecycle is owned by the caller.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// FindOffers returns every offer whose item name case-insensitively equals any
// of the given (already lower-cased) names.
func (r *Repository) FindOffers(ctx context.Context, namesLower []string) ([]Offer, error) {
	if len(namesLower) == 0 {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT s.id, s.name, s.zip_code, p.name, p.price
		FROM products p
		JOIN stores s ON p.store_id = s.id
		WHERE LOWER(p.name) = ANY($1)
		ORDER BY s.id, p.name
	`, namesLower)
	if err != nil {
		return nil, fmt.Errorf("query offers: %w", err)
	}
	defer rows.Close()

	var offers []Offer
	for rows.Next() {
		var o Offer
		if err := rows.Scan(&o.StoreID, &o.StoreName, &o.StoreZip, &o.ItemName, &o.Price); err != nil {
			return nil, fmt.Errorf("scan offer: %w", err)
		}
		offers = append(offers, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate offers: %w", err)
	}
	return offers, nil
}

// ListStores returns all stores.
func (r *Repository) ListStores(ctx context.Context) ([]Store, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, zip_code FROM stores ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query stores: %w", err)
	}
	defer rows.Close()

	var stores []Store
	for rows.Next() {
		var s Store
		if err := rows.Scan(&s.ID, &s.Name, &s.ZipCode); err != nil {
			return nil, fmt.Errorf("scan store: %w", err)
		}
		stores = append(stores, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stores: %w", err)
	}
	return stores, nil
}

// GetStore returns a single store by ID.
func (r *Repository) GetStore(ctx context.Context, storeID int64) (Store, error) {
	var s Store
	err := r.pool.QueryRow(ctx, `SELECT id, name, zip_code FROM stores WHERE id = $1`, storeID).
		Scan(&s.ID, &s.Name, &s.ZipCode)
	if errors.Is(err, pgx.ErrNoRows) {
		return Store{}, ErrStoreNotFound
	}
	if err != nil {
		return Store{}, fmt.Errorf("query store %d: %w", storeID, err)
	}
	return s, nil
}

// StoreProducts returns all products carried by a store.
func (r *Repository) StoreProducts(ctx context.Context, storeID int64) ([]Product, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, price, store_id FROM products WHERE store_id = $1 ORDER BY name
	`, storeID)
	if err != nil {
		return nil, fmt.Errorf("query products for store %d: %w", storeID, err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.StoreID); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

// InsertProduct records a crowdsourced product price. The store must exist.
func (r *Repository) InsertProduct(ctx context.Context, name string, storeID int64, price float64) (int64, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM stores WHERE id = $1)`, storeID).Scan(&exists); err != nil {
		return 0, fmt.Errorf("check store %d: %w", storeID, err)
	}
	if !exists {
		return 0, ErrStoreNotFound
	}

	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO products (name, store_id, price) VALUES ($1, $2, $3) RETURNING id
	`, name, storeID, price).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert product: %w", err)
	}
	return id, nil
}

// UpsertProduct inserts a product price or updates it if the store already
// carries an item with the same name. Used by bulk imports.
func (r *Repository) UpsertProduct(ctx context.Context, name string, storeID int64, price float64) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO products (name, store_id, price) VALUES ($1, $2, $3)
		ON CONFLICT (store_id, name) DO UPDATE SET price = EXCLUDED.price
	`, name, storeID, price)
	if err != nil {
		return fmt.Errorf("upsert product %q: %w", name, err)
	}
	return nil
}

// InsertFlyer records a flyer image URL for a store.
func (r *Repository) InsertFlyer(ctx context.Context, storeID int64, imageURL string) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO flyers (store_id, image_url) VALUES ($1, $2) RETURNING id
	`, storeID, imageURL).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert flyer: %w", err)
	}
	return id, nil
}

// StoreFlyers returns all flyers recorded for a store.
func (r *Repository) StoreFlyers(ctx context.Context, storeID int64) ([]Flyer, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, store_id, image_url FROM flyers WHERE store_id = $1 ORDER BY id
	`, storeID)
	if err != nil {
		return nil, fmt.Errorf("query flyers for store %d: %w", storeID, err)
	}
	defer rows.Close()

	var flyers []Flyer
	for rows.Next() {
		var f Flyer
		if err := rows.Scan(&f.ID, &f.StoreID, &f.ImageURL); err != nil {
			return nil, fmt.Errorf("scan flyer: %w", err)
		}
		flyers = append(flyers, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate flyers: %w", err)
	}
	return flyers, nil
}

// InsertStore creates a store and returns its ID. Used by imports and tests.
func (r *Repository) InsertStore(ctx context.Context, name, zipCode string) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO stores (name, zip_code) VALUES ($1, $2) RETURNING id
	`, name, zipCode).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert store: %w", err)
	}
	return id, nil
}
