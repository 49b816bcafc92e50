package workers

import (
	"context"
	"time"

	"tokenpulse/internal/services/tokens"
	"tokenpulse/pkg/errors"
)

// Top25Refresher keeps the market snapshot warm so user requests rarely pay
// the cold-fetch cost. The snapshot cache TTL outlives the refresh interval,
// so a failed refresh leaves the previous snapshot in place.
type Top25Refresher struct {
	*BaseWorker
	tokens *tokens.Service
}

// NewTop25Refresher creates the snapshot refresh worker.
func NewTop25Refresher(svc *tokens.Service, interval time.Duration, enabled bool) *Top25Refresher {
	return &Top25Refresher{
		BaseWorker: NewBaseWorker("top25_refresher", interval, enabled),
		tokens:     svc,
	}
}

// Run refreshes the token snapshot once.
func (w *Top25Refresher) Run(ctx context.Context) error {
	snapshot, err := w.tokens.Refresh(ctx)
	if err != nil {
		w.RecordError(err)
		return errors.Wrap(err, "refresh token snapshot")
	}

	w.RecordRun()
	w.Log().Infow("token snapshot refreshed", "tokens", len(snapshot))
	return nil
}
