//go:build integration

package lookup_test

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/UTurtleDev/gcl/internal/lookup"
)

type RedisCacheSuite struct {
	suite.Suite
	container *tcredis.RedisContainer
	client    *redis.Client
	cache     *lookup.RedisCache
}

func TestRedisCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisCacheSuite))
}

func (s *RedisCacheSuite) SetupSuite() {
	ctx := context.Background()
	container, err := tcredis.Run(ctx, "redis:7-alpine")
	s.Require().NoError(err)
	s.container = container

	addr, err := container.ConnectionString(ctx)
	s.Require().NoError(err)
	opts, err := redis.ParseURL(addr)
	s.Require().NoError(err)
	s.client = redis.NewClient(opts)
	s.Require().NoError(s.client.Ping(ctx).Err())
	s.cache = lookup.NewRedisCache(s.client)
}

func (s *RedisCacheSuite) TearDownSuite() {
	if s.client != nil {
		_ = s.client.Close()
	}
	if s.container != nil {
		_ = testcontainers.TerminateContainer(s.container)
	}
}

func (s *RedisCacheSuite) SetupTest() {
	s.Require().NoError(s.client.FlushAll(context.Background()).Err())
}

func (s *RedisCacheSuite) TestRoundTripWithExpiry() {
	ctx := context.Background()
	key := lookup.CacheKey("500309851")
	entry := lookup.Entry{Found: true, Name: "ACME SARL", SIREN: "500309851"}

	s.Require().NoError(s.cache.Set(ctx, key, entry, lookup.DefaultTTL))

	got, err := s.cache.Get(ctx, key)
	s.Require().NoError(err)
	s.Equal(entry, got)

	ttl, err := s.client.TTL(ctx, key).Result()
	s.Require().NoError(err)
	s.InDelta(float64(24*time.Hour), float64(ttl), float64(time.Minute))
}

func (s *RedisCacheSuite) TestMissingKey() {
	_, err := s.cache.Get(context.Background(), lookup.CacheKey("000000000"))
	s.ErrorIs(err, lookup.ErrCacheMiss)
}

func (s *RedisCacheSuite) TestExpiredKey() {
	ctx := context.Background()
	key := lookup.CacheKey("111111111")
	s.Require().NoError(s.cache.Set(ctx, key, lookup.Entry{Found: true, SIREN: "111111111"}, time.Second))

	s.Eventually(func() bool {
		_, err := s.cache.Get(ctx, key)
		return err != nil
	}, 5*time.Second, 100*time.Millisecond)
}
