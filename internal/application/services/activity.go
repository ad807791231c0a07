package services

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"drive-me-local/internal/application/ports"
	"drive-me-local/internal/domain/activity"
	"drive-me-local/internal/infrastructure/metrics"
)

const (
	activityBufferSize   = 128
	activityDrainTimeout = 5 * time.Second
)

// ActivityService records audit events off the request path. Append only
// enqueues; Run stores each entry and forwards it to the publisher, if any.
type ActivityService struct {
	logger     *zap.Logger
	repository activity.Repository
	publisher  ports.ActivityPublisher
	mCounter   *prometheus.CounterVec
	inputCh    chan activity.Entry
	now        func() time.Time
}

// NewActivityService accepts a nil publisher when no broker is configured.
func NewActivityService(
	logger *zap.Logger,
	repository activity.Repository,
	publisher ports.ActivityPublisher,
	mCounter *prometheus.CounterVec,
) *ActivityService {
	return &ActivityService{
		logger:     logger,
		repository: repository,
		publisher:  publisher,
		mCounter:   mCounter,
		inputCh:    make(chan activity.Entry, activityBufferSize),
		now:        time.Now,
	}
}

func (as *ActivityService) Append(event string) {
	e := activity.Entry{Event: event, CreatedAt: as.now()}

	select {
	case as.inputCh <- e:
	default:
		as.mCounter.WithLabelValues(metrics.ActivityDropped).Inc()
		as.logger.Warn("activity buffer full, event dropped", zap.String("event", event))
	}
}

// Run blocks until ctx is done, then drains whatever is still buffered.
func (as *ActivityService) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			as.drain(ctx)
			return nil
		case e := <-as.inputCh:
			as.store(ctx, e)
		}
	}
}

func (as *ActivityService) drain(ctx context.Context) {
	dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), activityDrainTimeout)
	defer cancel()

	for {
		select {
		case e := <-as.inputCh:
			as.store(dctx, e)
		default:
			return
		}
	}
}

func (as *ActivityService) store(ctx context.Context, e activity.Entry) {
	if err := as.repository.AppendEntry(ctx, e); err != nil {
		as.logger.Error("AppendEntry() error", zap.Error(err), zap.String("event", e.Event))
	}

	if as.publisher == nil {
		return
	}
	if err := as.publisher.Publish(ctx, e); err != nil {
		as.logger.Warn("activity publish failed", zap.Error(err), zap.String("event", e.Event))
	}
}

func (as *ActivityService) Recent(ctx context.Context, limit int) (activity.Entries, error) {
	es, err := as.repository.FetchRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	return es, nil
}

func (as *ActivityService) Count(ctx context.Context) (int64, error) {
	n, err := as.repository.CountEntries(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	return n, nil
}
