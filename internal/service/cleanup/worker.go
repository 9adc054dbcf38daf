package cleanup

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/gomokuarena/backend/internal/obslog"
	"github.com/gomokuarena/backend/internal/service/game"
)

// Worker periodically evicts stale live sessions from memory. Finished games
// linger for a short window so polling clients still get cheap snapshots,
// abandoned games are dropped after a day.
type Worker struct {
	sessions     *game.SessionManager
	interval     time.Duration
	finishedTTL  time.Duration
	abandonedTTL time.Duration
}

func NewWorker(sessions *game.SessionManager, finishedTTL time.Duration) *Worker {
	return &Worker{
		sessions:     sessions,
		interval:     15 * time.Minute,
		finishedTTL:  finishedTTL,
		abandonedTTL: 24 * time.Hour,
	}
}

// Start runs the cleanup loop until the context is canceled.
func (w *Worker) Start(ctx context.Context) {
	obslog.L().Info("session cleanup worker started",
		zap.Duration("interval", w.interval),
		zap.Duration("finished_ttl", w.finishedTTL))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			obslog.L().Info("session cleanup worker stopped")
			return
		case <-ticker.C:
			w.sessions.CleanupStale(w.finishedTTL, w.abandonedTTL)
		}
	}
}
