package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestClient(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

type cachedDoc struct {
	UID   string `json:"uid"`
	Score int    `json:"score"`
}

func TestCacheHelper_SetGetDelete(t *testing.T) {
	client := newTestClient(t)
	helper := NewCacheHelper(client, "user:")
	ctx := context.Background()

	doc := cachedDoc{UID: "s1", Score: 88}
	if err := helper.Set(ctx, "uid:s1", doc, time.Minute); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	var got cachedDoc
	if err := helper.Get(ctx, "uid:s1", &got); err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got != doc {
		t.Errorf("Get() = %+v, want %+v", got, doc)
	}

	exists, err := helper.Exists(ctx, "uid:s1")
	if err != nil || !exists {
		t.Errorf("Exists() = %v, %v", exists, err)
	}

	if err := helper.Delete(ctx, "uid:s1"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if err := helper.Get(ctx, "uid:s1", &got); !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("Get() after delete = %v, want ErrCacheNotFound", err)
	}
}

func TestCacheHelper_MissAndPrefix(t *testing.T) {
	client := newTestClient(t)
	helper := NewCacheHelper(client, "user:")

	var got cachedDoc
	if err := helper.Get(context.Background(), "uid:nope", &got); !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("Get() on miss = %v, want ErrCacheNotFound", err)
	}

	if key := helper.GetCacheKey("uid:s1"); key != "user:uid:s1" {
		t.Errorf("GetCacheKey() = %q", key)
	}
}

func TestCacheHelper_NilClient(t *testing.T) {
	helper := NewCacheHelper(nil, "user:")
	ctx := context.Background()

	if err := helper.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Errorf("Set() with nil client must no-op, got %v", err)
	}
	if err := helper.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete() with nil client must no-op, got %v", err)
	}

	var got string
	if err := helper.Get(ctx, "k", &got); !errors.Is(err, ErrCacheNotAvailable) {
		t.Errorf("Get() with nil client = %v, want ErrCacheNotAvailable", err)
	}
}

func TestCacheHelper_InvalidatePattern(t *testing.T) {
	client := newTestClient(t)
	helper := NewCacheHelper(client, "roster:")
	ctx := context.Background()

	for _, key := range []string{"role:student", "role:admin"} {
		if err := helper.Set(ctx, key, "cached", time.Minute); err != nil {
			t.Fatalf("Set() error: %v", err)
		}
	}

	if err := helper.InvalidatePattern(ctx, "role:*"); err != nil {
		t.Fatalf("InvalidatePattern() error: %v", err)
	}

	var got string
	if err := helper.Get(ctx, "role:student", &got); !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("pattern invalidation left role:student behind: %v", err)
	}
}

func TestInvalidateUserCache(t *testing.T) {
	client := newTestClient(t)
	cm := NewCacheManager(client)
	ctx := context.Background()

	if err := cm.User.Set(ctx, "uid:s1", "record", time.Minute); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if err := cm.Roster.Set(ctx, "role:student", "listing", time.Minute); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if err := cm.Stats.Set(ctx, "roster:summary", "stats", time.Minute); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	InvalidateUserCache(ctx, cm, "s1")

	var got string
	if err := cm.User.Get(ctx, "uid:s1", &got); !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("user record still cached after invalidation: %v", err)
	}
	if err := cm.Roster.Get(ctx, "role:student", &got); !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("roster listing still cached after invalidation: %v", err)
	}
	if err := cm.Stats.Get(ctx, "roster:summary", &got); !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("roster stats still cached after invalidation: %v", err)
	}
}

func TestCacheManager_HealthCheck(t *testing.T) {
	if err := NewCacheManager(nil).HealthCheck(context.Background()); !errors.Is(err, ErrCacheNotAvailable) {
		t.Errorf("HealthCheck() with nil client = %v, want ErrCacheNotAvailable", err)
	}

	client := newTestClient(t)
	if err := NewCacheManager(client).HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error: %v", err)
	}
}
