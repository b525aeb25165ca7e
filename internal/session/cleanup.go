package session

import (
	"context"
	"log/slog"
	"time"
)

// RunCleanup is the periodic coroutine spec.md §5 describes: it scans for
// sessions idle beyond idleCutoff every interval, marking/removing them,
// and "must not hold a connection between scans" — each tick makes its own
// short-lived call through Store rather than holding anything open across
// the sleep.
//
// Callers run this in its own goroutine and cancel ctx to stop it:
//
//	go session.RunCleanup(ctx, store, cfg.IdleTTL, cfg.CleanupInterval, logger)
func RunCleanup(ctx context.Context, store *Store, idleCutoff, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.CleanupExpired(ctx, idleCutoff)
			if err != nil {
				logger.Warn("session cleanup scan failed", "error", err)
				continue
			}
			if n > 0 {
				logger.Info("session cleanup removed idle sessions", "count", n)
			}
		}
	}
}
