// Package geocode resolves postal codes to geographic coordinates through an
// external lookup service. The service is treated as fallible and possibly
// slow; callers decide how a failed lookup degrades.
package geocode

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned when the postal code does not resolve to any
// location. Callers distinguish it from transport failures.
var ErrNotFound = errors.New("postal code not found")

// Point is a geocoded location in decimal degrees.
type Point struct {
	Lat float64
	Lng float64
}

// Geocoder converts a postal code into coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, postalCode string) (Point, error)
}

// Cached wraps a Geocoder with an in-process memo cache. Postal code to
// coordinate mappings are effectively static, so successful results are kept
// for the lifetime of the process. Failures are not cached.
func Cached(inner Geocoder) Geocoder {
	return &cachedGeocoder{inner: inner, points: make(map[string]Point)}
}

type cachedGeocoder struct {
	inner  Geocoder
	mu     sync.RWMutex
	points map[string]Point
}

func (c *cachedGeocoder) Geocode(ctx context.Context, postalCode string) (Point, error) {
	c.mu.RLock()
	p, ok := c.points[postalCode]
	c.mu.RUnlock()
	if ok {
		return p, nil
	}

	p, err := c.inner.Geocode(ctx, postalCode)
	if err != nil {
		return Point{}, err
	}

	c.mu.Lock()
	c.points[postalCode] = p
	c.mu.Unlock()
	return p, nil
}
