package worker

import (
	"context"
	"fmt"

	"github.com/mergington/activities/internal/domain/model"
	"github.com/mergington/activities/pkg/logger"
	"github.com/mergington/activities/pkg/metrics"
)

// RosterSource looks up the current state of an activity.
type RosterSource interface {
	Get(ctx context.Context, name string) (model.Activity, error)
}

// MetricsRecorder publishes each change to the roster gauges and the log.
type MetricsRecorder struct {
	source RosterSource
	logger logger.Logger
}

// NewMetricsRecorder returns a recorder logging through l. When source is
// set the roster gauge is read from it; changes from several workers can
// arrive out of order, so the size carried by a change may already be stale.
func NewMetricsRecorder(l logger.Logger, source RosterSource) *MetricsRecorder {
	if l == nil {
		l = logger.Get()
	}
	return &MetricsRecorder{source: source, logger: l.Named("roster")}
}

// Record updates the roster size gauge for the changed activity.
func (r *MetricsRecorder) Record(ctx context.Context, c Change) error {
	size := c.Participants
	if r.source != nil {
		a, err := r.source.Get(ctx, c.Activity)
		if err != nil {
			return fmt.Errorf("lookup %q: %w", c.Activity, err)
		}
		size = len(a.Participants)
	}

	metrics.UpdateRosterSize(c.Activity, size)
	r.logger.Debug(ctx, "roster changed",
		logger.String("change_id", c.ID),
		logger.String("activity", c.Activity),
		logger.String("email", c.Email),
		logger.String("action", string(c.Action)),
		logger.Int("participants", size),
	)
	return nil
}
