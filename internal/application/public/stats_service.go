package public

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/reference"
	"github.com/pulosarok/desa/internal/domain/shared"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Population reports resident figures
type Population interface {
	Stats(ctx context.Context, tenantID uuid.UUID) (*reference.PopulationStats, error)
}

// Counter counts rows of a tenant
type Counter interface {
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}

// ActiveCounter counts active enrolments
type ActiveCounter interface {
	CountActive(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// PublishedCounter counts publicly visible rows
type PublishedCounter interface {
	CountPublished(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// IssuedCounter counts letters numbered since a time
type IssuedCounter interface {
	CountIssuedSince(ctx context.Context, tenantID uuid.UUID, since time.Time) (int64, error)
}

// BusinessCounter reports registry totals keyed by registry name
type BusinessCounter interface {
	Totals(ctx context.Context, tenantID uuid.UUID) (map[string]int64, error)
}

// StatsCache stores computed stats between requests
type StatsCache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// StatsSources are the modules the public stats read from
type StatsSources struct {
	Population    Population
	Dusun         Counter
	Beneficiaries ActiveCounter
	Business      BusinessCounter
	Tourism       PublishedCounter
	Letters       IssuedCounter
}

// StatsService computes the public dashboard figures
type StatsService struct {
	src    StatsSources
	cache  StatsCache
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// NewStatsService creates a StatsService. cache may be nil; ttl <= 0 disables caching.
func NewStatsService(src StatsSources, cache StatsCache, ttl time.Duration, logger *zap.Logger) *StatsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		cache = nil
	}
	return &StatsService{src: src, cache: cache, ttl: ttl, logger: logger, now: time.Now}
}

func statsKey(tenantID uuid.UUID) string {
	return "public:stats:" + tenantID.String()
}

// Stats returns the public figures of a village. The counts run concurrently
// and the result is cached for the configured TTL.
func (s *StatsService) Stats(ctx context.Context, tenantID uuid.UUID) (*StatsResponse, error) {
	key := statsKey(tenantID)
	if s.cache != nil {
		var cached StatsResponse
		hit, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.logger.Warn("stats cache read failed", zap.Error(err))
		} else if hit {
			return &cached, nil
		}
	}

	now := s.now()
	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	resp := &StatsResponse{GeneratedAt: now}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		pop, err := s.src.Population.Stats(gctx, tenantID)
		if err != nil {
			return fmt.Errorf("population: %w", err)
		}
		resp.Population = pop.Total
		resp.PopulationByGender = pop.ByGender
		return nil
	})
	g.Go(func() error {
		n, err := s.src.Dusun.CountForTenant(gctx, tenantID, shared.Filter{Filters: map[string]interface{}{"is_active": true}})
		if err != nil {
			return fmt.Errorf("dusun: %w", err)
		}
		resp.DusunCount = n
		return nil
	})
	g.Go(func() error {
		n, err := s.src.Beneficiaries.CountActive(gctx, tenantID)
		if err != nil {
			return fmt.Errorf("beneficiaries: %w", err)
		}
		resp.ActiveBeneficiaries = n
		return nil
	})
	g.Go(func() error {
		totals, err := s.src.Business.Totals(gctx, tenantID)
		if err != nil {
			return fmt.Errorf("business: %w", err)
		}
		resp.Businesses = totals
		return nil
	})
	g.Go(func() error {
		n, err := s.src.Tourism.CountPublished(gctx, tenantID)
		if err != nil {
			return fmt.Errorf("tourism: %w", err)
		}
		resp.PublishedTourism = n
		return nil
	})
	g.Go(func() error {
		n, err := s.src.Letters.CountIssuedSince(gctx, tenantID, yearStart)
		if err != nil {
			return fmt.Errorf("letters: %w", err)
		}
		resp.LettersIssuedYear = n
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to compute public stats: %w", err)
	}
	if resp.PopulationByGender == nil {
		resp.PopulationByGender = map[string]int64{}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, resp, s.ttl); err != nil {
			s.logger.Warn("stats cache write failed", zap.Error(err))
		}
	}
	return resp, nil
}
