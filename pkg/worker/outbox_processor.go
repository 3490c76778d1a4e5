package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jwalitptl/intake-api/internal/model"
	"github.com/jwalitptl/intake-api/internal/repository"
	"github.com/jwalitptl/intake-api/pkg/logger"
	"github.com/jwalitptl/intake-api/pkg/messaging"
	"github.com/jwalitptl/intake-api/pkg/metrics"
)

type OutboxProcessorConfig struct {
	BatchSize     int
	PollInterval  time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
}

func (c OutboxProcessorConfig) Validate() error {
	if c.BatchSize <= 0 {
		return errors.New("BatchSize must be greater than 0")
	}
	if c.PollInterval <= 0 {
		return errors.New("PollInterval must be greater than 0")
	}
	if c.RetryAttempts <= 0 {
		return errors.New("RetryAttempts must be greater than 0")
	}
	if c.RetryDelay <= 0 {
		return errors.New("RetryDelay must be greater than 0")
	}
	return nil
}

// OutboxProcessor relays pending outbox events to the broker.
type OutboxProcessor struct {
	repo    repository.OutboxRepository
	broker  messaging.Broker
	config  OutboxProcessorConfig
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewOutboxProcessor(
	repo repository.OutboxRepository,
	broker messaging.Broker,
	config OutboxProcessorConfig,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) (*OutboxProcessor, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid outbox processor config: %w", err)
	}

	return &OutboxProcessor{
		repo:    repo,
		broker:  broker,
		config:  config,
		logger:  logger,
		metrics: metrics,
	}, nil
}

func (p *OutboxProcessor) Start(ctx context.Context) {
	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	p.logger.Info("Starting outbox processor")

	for {
		if _, err := p.ProcessBatch(ctx); err != nil && ctx.Err() == nil {
			p.logger.Error(err, "Failed to process events")
		}

		select {
		case <-ctx.Done():
			p.logger.Info("Shutting down outbox processor")
			return
		case <-ticker.C:
		}
	}
}

// ProcessBatch relays one batch and returns how many events were published.
// While the broker is unavailable the rest of the batch stays pending.
func (p *OutboxProcessor) ProcessBatch(ctx context.Context) (int, error) {
	timer := prometheus.NewTimer(p.metrics.OutboxProcessingLatency)
	defer timer.ObserveDuration()

	batch, err := p.repo.GetPendingEventsWithLock(ctx, p.config.BatchSize)
	if err != nil {
		p.metrics.DatabaseOperations.WithLabelValues("get_pending_events", "error").Inc()
		return 0, fmt.Errorf("failed to get pending events: %w", err)
	}
	p.metrics.DatabaseOperations.WithLabelValues("get_pending_events", "success").Inc()
	defer batch.Rollback()

	published := 0
	for _, event := range batch.Events() {
		err := p.processEvent(ctx, batch, event)
		if errors.Is(err, messaging.ErrBrokerUnavailable) {
			p.logger.Warn("Broker unavailable, deferring remaining events", "event_id", event.ID.String())
			break
		}
		if ctx.Err() != nil {
			break
		}
		if err != nil {
			p.logger.Error(err, "Failed to process event",
				"event_id", event.ID.String(),
				"event_type", event.EventType)
			continue
		}
		published++
	}

	if err := batch.Commit(); err != nil {
		p.metrics.DatabaseOperations.WithLabelValues("commit_batch", "error").Inc()
		return 0, fmt.Errorf("failed to commit event statuses: %w", err)
	}
	return published, nil
}

func (p *OutboxProcessor) processEvent(ctx context.Context, batch repository.OutboxBatch, event *model.OutboxEvent) error {
	message, err := json.Marshal(messaging.Message{
		ID:         event.ID,
		Type:       event.EventType,
		Payload:    event.Payload,
		OccurredAt: event.CreatedAt,
	})
	if err != nil {
		return p.fail(ctx, batch, event, fmt.Errorf("failed to encode event: %w", err))
	}

	channel := messaging.ChannelFor(event.EventType)
	attempt := 0
	err = retry(ctx, p.config.RetryAttempts, p.config.RetryDelay, func() error {
		if attempt > 0 {
			p.metrics.OutboxRetries.WithLabelValues(event.EventType).Inc()
		}
		attempt++
		return p.broker.Publish(ctx, channel, message)
	})

	if err != nil && (errors.Is(err, messaging.ErrBrokerUnavailable) || ctx.Err() != nil) {
		// Not the event's fault; leave it pending for the next poll.
		return err
	}
	if err != nil {
		return p.fail(ctx, batch, event, err)
	}

	if err := batch.UpdateStatus(ctx, event.ID, model.OutboxStatusProcessed, nil); err != nil {
		return fmt.Errorf("failed to mark event processed: %w", err)
	}
	p.metrics.OutboxEventsProcessed.Inc()
	return nil
}

func (p *OutboxProcessor) fail(ctx context.Context, batch repository.OutboxBatch, event *model.OutboxEvent, cause error) error {
	p.metrics.OutboxEventsFailed.Inc()
	msg := cause.Error()
	if err := batch.UpdateStatus(ctx, event.ID, model.OutboxStatusFailed, &msg); err != nil {
		p.logger.Error(err, "Failed to update event status", "event_id", event.ID.String())
	}
	return cause
}

// retry runs fn up to attempts times with a fixed delay, stopping early when
// ctx is done or the broker reports itself unavailable.
func retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(delay), uint64(attempts-1)),
		ctx,
	)
	return backoff.Retry(func() error {
		err := fn()
		if errors.Is(err, messaging.ErrBrokerUnavailable) {
			return backoff.Permanent(err)
		}
		return err
	}, policy)
}
