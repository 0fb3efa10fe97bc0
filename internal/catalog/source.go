package catalog

import "context"

// Source is the read-only price catalog consumed by the trip optimizer.
// Matching on item name is case-insensitive; names passed to FindOffers must
// already be lower-cased and trimmed.
type Source interface {
	// FindOffers returns every (store, item, price) triple whose item name
	// case-insensitively equals any of the given names. An empty result is not
	// an error at this level.
	FindOffers(ctx context.Context, namesLower []string) ([]Offer, error)
}
