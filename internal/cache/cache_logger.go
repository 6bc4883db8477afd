package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// SafeInvalidatePattern invalidates a cache pattern, logging instead of
// propagating failures. A stale-but-present cache entry is tolerable;
// a failed write is not worth failing the request over.
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete deletes cache keys, logging instead of propagating
// failures.
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// InvalidateUserCache drops every cached view touched by a user record
// write: the record itself, the roster listing, and the roster stats.
// The subsequent reload-after-write re-read must observe the write.
func InvalidateUserCache(ctx context.Context, cm *CacheManager, uid string) {
	SafeDelete(ctx, cm.User, fmt.Sprintf("uid:%s", uid))
	SafeInvalidatePattern(ctx, cm.Roster, "role:*")
	SafeInvalidatePattern(ctx, cm.Stats, "roster:*")
}
