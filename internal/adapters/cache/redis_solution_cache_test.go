package cache

import (
	"context"
	"intersect-service/internal/domain"
	"reflect"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T, ttl time.Duration) (*RedisSolutionCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisSolutionCache(client, ttl), mr
}

func TestRedisSolutionCacheRoundTrip(t *testing.T) {
	c, _ := newTestCache(t, time.Hour)
	ctx := context.Background()

	sol := domain.Solution{
		Point:      domain.Point{X: 3, Y: 4},
		Method:     domain.MethodLeastSquares,
		Converged:  true,
		Iterations: 3,
		Residuals: []domain.Residual{
			{ObservationID: "d1", Kind: domain.KindDistance, Measured: 5, Computed: 5, Weight: 1600},
		},
		ReferenceVariance: 0.5,
		Report:            "report",
	}

	if _, ok, err := c.Get(ctx, "k"); err != nil || ok {
		t.Fatalf("miss: ok=%t err=%v, want false/nil", ok, err)
	}

	if err := c.Put(ctx, "k", sol); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected a cache hit")
	}
	if !reflect.DeepEqual(got, sol) {
		t.Fatalf("got %+v, want %+v", got, sol)
	}
}

func TestRedisSolutionCacheExpires(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	if err := c.Put(ctx, "k", domain.Solution{Report: "r"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ttl := mr.TTL("k"); ttl != time.Minute {
		t.Fatalf("ttl = %v, want %v", ttl, time.Minute)
	}

	mr.FastForward(2 * time.Minute)

	if _, ok, err := c.Get(ctx, "k"); err != nil || ok {
		t.Fatalf("after expiry: ok=%t err=%v, want false/nil", ok, err)
	}
}

func TestOpenRedisSolutionCache(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := OpenRedisSolutionCache(context.Background(), "redis://"+mr.Addr()+"/0", time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	if _, err := OpenRedisSolutionCache(context.Background(), "", time.Minute); err == nil {
		t.Fatalf("expected error for empty url")
	}
}
