// Package catalog provides read/write access to the relational store of
// stores, products and flyers, and exposes the read-only price catalog the
// trip optimizer consumes.
package catalog

// Store is a grocery store known to the catalog.
type Store struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	ZipCode string `json:"zip_code"`
}

// Product is a priced item carried by a single store.
type Product struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Price   float64 `json:"price"`
	StoreID int64   `json:"store_id"`
}

// Flyer is a promotional flyer image recorded for a store.
type Flyer struct {
	ID       int64  `json:"id"`
	StoreID  int64  `json:"store_id"`
	ImageURL string `json:"image_url"`
}

// Offer is a single store's price for a single item. ItemName carries the
// catalog's original casing even when the match was case-insensitive.
type Offer struct {
	StoreID   int64
	StoreName string
	StoreZip  string
	ItemName  string
	Price     float64
}
