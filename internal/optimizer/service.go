package optimizer

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/cartwise/grocery-service/internal/catalog"
	"github.com/cartwise/grocery-service/internal/geocode"
)

// Service wires the snapshot loader and the pure plan computation into the
// single operation consumed by the HTTP layer and the CLI.
type Service struct {
	loader  *SnapshotLoader
	metrics *MetricsRecorder
	logger  zerolog.Logger
}

// NewService creates the optimize service over the injected collaborators.
func NewService(src catalog.Source, g geocode.Geocoder) *Service {
	metrics := NewMetricsRecorder()
	return &Service{
		loader:  NewSnapshotLoader(src, g, metrics),
		metrics: metrics,
		logger:  log.With().Str("component", "optimizer").Logger(),
	}
}

// Optimize loads the catalog snapshot for the request and computes the three
// alternative trip plans.
func (s *Service) Optimize(ctx context.Context, items []string, shopperZip string) (PlanSet, error) {
	start := time.Now()
	summaries, err := s.loader.Load(ctx, items, shopperZip)
	s.metrics.RecordStageDuration("snapshot", time.Since(start))
	if err != nil {
		if kind, ok := KindOf(err); ok {
			s.metrics.RecordOutcome(string(kind))
		} else {
			s.metrics.RecordOutcome("error")
		}
		return PlanSet{}, err
	}

	planStart := time.Now()
	plans := Optimize(items, summaries)
	s.metrics.RecordStageDuration("plans", time.Since(planStart))
	s.metrics.RecordOutcome("ok")

	s.logger.Info().
		Int("items", len(items)).
		Int("stores", len(summaries)).
		Dur("elapsed", time.Since(start)).
		Msg("Computed trip plans")
	return plans, nil
}
