// Package lookup resolves SIREN numbers to company names through the registry,
// caching successful answers.
package lookup

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/UTurtleDev/gcl/internal/models"
	"github.com/UTurtleDev/gcl/internal/sirene"
)

// DefaultTTL is how long a successful lookup stays cached.
const DefaultTTL = 24 * time.Hour

var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "siren_cache_hits_total",
		Help: "SIREN lookups served from cache",
	})
	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "siren_cache_misses_total",
		Help: "SIREN lookups not found in cache",
	})
)

// Registry is the outbound lookup, satisfied by *sirene.Client.
type Registry interface {
	Lookup(ctx context.Context, siren string) sirene.Result
}

// Result is what callers see. Error holds user-facing text when Success is false.
type Result struct {
	Success  bool
	SIREN    string
	Name     string
	Error    string
	Category Category
	Cached   bool
}

// CacheKey is the cache key of a raw SIREN input.
func CacheKey(siren string) string {
	return "insee_siren_" + siren
}

// Service combines the registry and the cache.
type Service struct {
	registry Registry
	cache    Cache
	ttl      time.Duration
	logger   *zap.Logger
	group    singleflight.Group
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService builds the lookup service. A nil cache disables caching and a
// non-positive ttl falls back to DefaultTTL.
func NewService(registry Registry, cache Cache, ttl time.Duration, opts ...Option) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &Service{
		registry: registry,
		cache:    cache,
		ttl:      ttl,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Resolve looks siren up. The cache is consulted with the raw input before it is
// validated; only successful registry answers are written back.
func (s *Service) Resolve(ctx context.Context, siren string) Result {
	key := CacheKey(siren)
	if e, ok := s.fromCache(ctx, key); ok {
		cacheHits.Inc()
		return Result{Success: true, SIREN: e.SIREN, Name: e.Name, Cached: true}
	}
	cacheMisses.Inc()

	if !models.IsValidSIREN(siren) {
		return Result{Error: MsgInvalidFormat, Category: CategoryValidation}
	}

	// Concurrent misses share one registry call. The call must not depend on
	// the first caller staying connected; the client bounds it with its own timeout.
	v, _, _ := s.group.Do(key, func() (any, error) {
		return s.registry.Lookup(context.WithoutCancel(ctx), siren), nil
	})
	res := v.(sirene.Result)

	if !res.Found() {
		cat, errKey := classify(res.Outcome)
		return Result{SIREN: siren, Error: FriendlyMessage(errKey), Category: cat}
	}

	entry := Entry{Found: true, Name: res.Name, SIREN: siren}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, entry, s.ttl); err != nil {
			s.logger.Warn("siren cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return Result{Success: true, SIREN: siren, Name: res.Name}
}

func (s *Service) fromCache(ctx context.Context, key string) (Entry, bool) {
	if s.cache == nil {
		return Entry{}, false
	}
	e, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			s.logger.Warn("siren cache read failed", zap.String("key", key), zap.Error(err))
		}
		return Entry{}, false
	}
	if !e.Found {
		return Entry{}, false
	}
	s.logger.Debug("siren cache hit", zap.String("key", key))
	return e, true
}
