package cache

import (
	"context"
	"errors"
	"log/slog"
)

// Invalidate drops keys after a committed write. A failure only leaves a
// stale entry until its TTL runs out, so it is logged and not returned.
func Invalidate(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.WarnContext(ctx, "Cache invalidation failed",
			"error", err,
			"prefix", helper.prefix,
			"keys", keys)
	}
}

// clearHelpers removes every key under each helper's prefix.
func clearHelpers(ctx context.Context, helpers ...*CacheHelper) error {
	var errs []error
	for _, helper := range helpers {
		if err := helper.InvalidatePattern(ctx, "*"); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
