// Package service runs scenario calculations against the stored catalog and
// exposes the catalog administration operations used by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog"

	"github.com/rshade/fleetcost/internal/catalog"
	"github.com/rshade/fleetcost/internal/engine"
	"github.com/rshade/fleetcost/internal/metrics"
	"github.com/rshade/fleetcost/internal/seed"
	"github.com/rshade/fleetcost/internal/store"
)

// ErrInvalid is returned for requests that are well formed but carry values
// the catalog cannot accept.
var ErrInvalid = errors.New("invalid request")

const snapshotKey = "catalog"

// snapshot is a consistent read of the catalog used for one or more
// calculations. It is never mutated after load.
type snapshot struct {
	energies []catalog.EnergyDefinition
	params   catalog.ParameterSet
}

// Options tunes a CalculationService.
type Options struct {
	// CacheTTL of zero disables snapshot caching.
	CacheTTL time.Duration
	// SeedPath is the document used by the import operations.
	SeedPath string
}

// CalculationService is the boundary between transports and the engine.
type CalculationService struct {
	repo     store.Repository
	importer *seed.Importer
	cache    *expirable.LRU[string, snapshot] // nil when caching is disabled
	seedPath string
	logger   zerolog.Logger

	// mu guards generation. A snapshot is cached only if no Invalidate ran
	// while it was being loaded.
	mu         sync.Mutex
	generation uint64
}

// New creates a CalculationService over repo.
func New(repo store.Repository, logger zerolog.Logger, opts Options) *CalculationService {
	s := &CalculationService{
		repo:     repo,
		importer: seed.NewImporter(repo, logger),
		seedPath: opts.SeedPath,
		logger:   logger.With().Str("component", "service").Logger(),
	}
	if opts.CacheTTL > 0 {
		s.cache = expirable.NewLRU[string, snapshot](1, nil, opts.CacheTTL)
	}
	return s
}

// Calculate resolves the scenario against the current catalog. Cancellation
// is checked before the catalog is read, after it is read and before the
// summary is returned.
func (s *CalculationService) Calculate(ctx context.Context, scenario engine.Scenario) (engine.Summary, error) {
	start := time.Now()
	logger := s.loggerFrom(ctx)

	summary, err := s.calculate(ctx, scenario)
	duration := time.Since(start)
	metrics.RecordCalculation(duration, len(summary.Results), err)
	if err != nil {
		logger.Warn().Err(err).Msg("calculation failed")
		return engine.Summary{}, err
	}

	logger.Info().
		Str("scenario_distance_per_day", scenario.DistancePerDay.String()).
		Str("days_per_month", scenario.DaysPerMonth.String()).
		Str("vehicle", string(summary.Resolved.Vehicle)).
		Int("results", len(summary.Results)).
		Int64("duration_ms", duration.Milliseconds()).
		Msg("calculation completed")
	return summary, nil
}

func (s *CalculationService) calculate(ctx context.Context, scenario engine.Scenario) (engine.Summary, error) {
	if err := ctx.Err(); err != nil {
		return engine.Summary{}, err
	}
	snap, err := s.snapshot(ctx)
	if err != nil {
		return engine.Summary{}, err
	}
	if err := ctx.Err(); err != nil {
		return engine.Summary{}, err
	}

	summary, err := engine.Calculate(scenario, snap.energies, snap.params)
	if err != nil {
		return engine.Summary{}, err
	}
	if err := ctx.Err(); err != nil {
		return engine.Summary{}, err
	}
	return summary, nil
}

// snapshot returns the cached catalog or loads it from the repository.
func (s *CalculationService) snapshot(ctx context.Context) (snapshot, error) {
	if s.cache != nil {
		if snap, ok := s.cache.Get(snapshotKey); ok {
			metrics.RecordCacheHit()
			return snap, nil
		}
		metrics.RecordCacheMiss()
	}

	gen := s.currentGeneration()
	energies, err := s.repo.ListEnergies(ctx)
	if err != nil {
		return snapshot{}, fmt.Errorf("load energies: %w", err)
	}
	params, err := s.repo.ListParameters(ctx)
	if err != nil {
		return snapshot{}, fmt.Errorf("load parameters: %w", err)
	}
	set, err := catalog.NewParameterSet(params)
	if err != nil {
		return snapshot{}, err
	}

	logger := s.loggerFrom(ctx)
	for _, issue := range engine.UnorderedCombinedDependencies(energies) {
		logger.Warn().
			Str("energy", issue.EnergyCode).
			Str("reference_id", issue.ReferenceID.String()).
			Str("issue", string(issue.Kind)).
			Msg("energy reference cannot be honored")
	}
	logger.Debug().
		Int("energies", len(energies)).
		Int("parameters", len(params)).
		Msg("catalog snapshot loaded")

	snap := snapshot{energies: energies, params: set}
	if s.cache != nil {
		s.mu.Lock()
		if s.generation == gen {
			s.cache.Add(snapshotKey, snap)
		}
		s.mu.Unlock()
	}
	return snap, nil
}

func (s *CalculationService) currentGeneration() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Invalidate drops the cached catalog snapshot. Loads already in flight
// still answer their own calculation but are not cached.
func (s *CalculationService) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	if s.cache != nil {
		s.cache.Purge()
	}
}

// Ready reports whether the repository answers.
func (s *CalculationService) Ready(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// loggerFrom prefers the request-scoped logger carried by ctx.
func (s *CalculationService) loggerFrom(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		scoped := l.With().Str("component", "service").Logger()
		return &scoped
	}
	return &s.logger
}
