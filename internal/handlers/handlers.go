// Package handlers contains the gin HTTP handlers for the grocery price
// comparison API.
package handlers

import (
	"context"

	"github.com/cartwise/grocery-service/internal/auth"
	"github.com/cartwise/grocery-service/internal/catalog"
	"github.com/cartwise/grocery-service/internal/optimizer"
	"github.com/cartwise/grocery-service/internal/storage"
)

// Optimizer is the trip optimization operation consumed by the HTTP layer.
type Optimizer interface {
	Optimize(ctx context.Context, items []string, shopperZip string) (optimizer.PlanSet, error)
}

// Catalog is the catalog surface consumed by the HTTP layer. Satisfied by
// catalog.Repository.
type Catalog interface {
	catalog.Source
	ListStores(ctx context.Context) ([]catalog.Store, error)
	GetStore(ctx context.Context, storeID int64) (catalog.Store, error)
	StoreProducts(ctx context.Context, storeID int64) ([]catalog.Product, error)
	InsertProduct(ctx context.Context, name string, storeID int64, price float64) (int64, error)
	InsertFlyer(ctx context.Context, storeID int64, imageURL string) (int64, error)
	StoreFlyers(ctx context.Context, storeID int64) ([]catalog.Flyer, error)
}

// Handlers bundles the collaborators behind the HTTP surface. All are
// injected by the composition root.
type Handlers struct {
	catalog   Catalog
	optimizer Optimizer
	auth      *auth.Service
	storage   storage.Storage
}

// New creates the handler set.
func New(repo Catalog, opt Optimizer, authSvc *auth.Service, store storage.Storage) *Handlers {
	return &Handlers{
		catalog:   repo,
		optimizer: opt,
		auth:      authSvc,
		storage:   store,
	}
}
