package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/intake-api/internal/model"
	"github.com/jwalitptl/intake-api/internal/repository"
)

const outboxColumns = `id, event_type, payload, status, error_message, retry_count, created_at, updated_at, processed_at`

type outboxRepository struct {
	BaseRepository
}

func NewOutboxRepository(base BaseRepository) repository.OutboxRepository {
	return &outboxRepository{base}
}

func (r *outboxRepository) Create(ctx context.Context, event *model.OutboxEvent) error {
	if event == nil {
		return fmt.Errorf("event cannot be nil")
	}
	if event.Payload == nil {
		return fmt.Errorf("event payload cannot be nil")
	}
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		return insertOutboxEvents(ctx, tx, []*model.OutboxEvent{event})
	})
}

func (r *outboxRepository) GetPendingEventsWithLock(ctx context.Context, limit int) (repository.OutboxBatch, error) {
	query := `
		SELECT ` + outboxColumns + `
		FROM outbox_events
		WHERE status = $1
		ORDER BY created_at ASC
		LIMIT $2
		FOR UPDATE SKIP LOCKED
	`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	var events []*model.OutboxEvent
	if err := tx.SelectContext(ctx, &events, query, model.OutboxStatusPending, limit); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to get pending events: %w", err)
	}

	return &outboxBatch{tx: tx, events: events}, nil
}

func (r *outboxRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errMsg *string) error {
	return updateOutboxStatus(ctx, r.db, id, status, errMsg)
}

func (r *outboxRepository) DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error) {
	query := `DELETE FROM outbox_events WHERE status = $1 AND processed_at < $2`

	result, err := r.db.ExecContext(ctx, query, model.OutboxStatusProcessed, before.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete processed events: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return rows, nil
}

type outboxBatch struct {
	tx     *sqlx.Tx
	events []*model.OutboxEvent
}

func (b *outboxBatch) Events() []*model.OutboxEvent {
	return b.events
}

func (b *outboxBatch) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errMsg *string) error {
	return updateOutboxStatus(ctx, b.tx, id, status, errMsg)
}

func (b *outboxBatch) Commit() error {
	return b.tx.Commit()
}

func (b *outboxBatch) Rollback() error {
	return b.tx.Rollback()
}

func updateOutboxStatus(ctx context.Context, exec sqlx.ExecerContext, id uuid.UUID, status model.OutboxStatus, errMsg *string) error {
	query := `
		UPDATE outbox_events
		SET status = $2,
			error_message = $3,
			retry_count = retry_count + CASE WHEN $2 = 'FAILED' THEN 1 ELSE 0 END,
			processed_at = CASE WHEN $2 = 'PROCESSED' THEN NOW() ELSE processed_at END,
			updated_at = NOW()
		WHERE id = $1
	`

	result, err := exec.ExecContext(ctx, query, id, status, errMsg)
	if err != nil {
		return fmt.Errorf("failed to update event status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}
