package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/intake-api/internal/model"
	"github.com/jwalitptl/intake-api/internal/repository"
	"github.com/jwalitptl/intake-api/pkg/logger"
	"github.com/jwalitptl/intake-api/pkg/messaging"
	"github.com/jwalitptl/intake-api/pkg/metrics"
)

type statusUpdate struct {
	id     uuid.UUID
	status model.OutboxStatus
	errMsg *string
}

type mockBatch struct {
	events     []*model.OutboxEvent
	updates    []statusUpdate
	committed  bool
	rolledBack bool
}

func (b *mockBatch) Events() []*model.OutboxEvent { return b.events }

func (b *mockBatch) UpdateStatus(_ context.Context, id uuid.UUID, status model.OutboxStatus, errMsg *string) error {
	b.updates = append(b.updates, statusUpdate{id, status, errMsg})
	return nil
}

func (b *mockBatch) Commit() error {
	b.committed = true
	return nil
}

func (b *mockBatch) Rollback() error {
	if !b.committed {
		b.rolledBack = true
	}
	return nil
}

type mockOutboxRepository struct {
	batch       *mockBatch
	GetErr      error
	DeleteFunc  func(ctx context.Context, before time.Time) (int64, error)
	lockedLimit int
}

func (m *mockOutboxRepository) Create(context.Context, *model.OutboxEvent) error { return nil }

func (m *mockOutboxRepository) GetPendingEventsWithLock(_ context.Context, limit int) (repository.OutboxBatch, error) {
	m.lockedLimit = limit
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	return m.batch, nil
}

func (m *mockOutboxRepository) UpdateStatus(context.Context, uuid.UUID, model.OutboxStatus, *string) error {
	return nil
}

func (m *mockOutboxRepository) DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error) {
	return m.DeleteFunc(ctx, before)
}

type publishCall struct {
	channel string
	message []byte
}

type mockBroker struct {
	mu          sync.Mutex
	PublishFunc func(channel string, message []byte) error
	calls       []publishCall
}

func (b *mockBroker) Publish(_ context.Context, channel string, message []byte) error {
	b.mu.Lock()
	b.calls = append(b.calls, publishCall{channel, message})
	b.mu.Unlock()
	if b.PublishFunc != nil {
		return b.PublishFunc(channel, message)
	}
	return nil
}

func (b *mockBroker) Subscribe(context.Context, string) (<-chan []byte, error) { return nil, nil }

func (b *mockBroker) Close() error { return nil }

func testConfig() OutboxProcessorConfig {
	return OutboxProcessorConfig{
		BatchSize:     10,
		PollInterval:  10 * time.Millisecond,
		RetryAttempts: 3,
		RetryDelay:    time.Millisecond,
	}
}

func newEvent(t *testing.T, eventType string) *model.OutboxEvent {
	evt, err := model.NewOutboxEvent(eventType, model.UserRegisteredPayload{UserID: uuid.New(), Email: "jane@example.com"})
	require.NoError(t, err)
	evt.CreatedAt = time.Now()
	return evt
}

func newProcessor(t *testing.T, repo repository.OutboxRepository, broker messaging.Broker) *OutboxProcessor {
	p, err := NewOutboxProcessor(repo, broker, testConfig(), logger.Nop(), metrics.New("test"))
	require.NoError(t, err)
	return p
}

func TestProcessBatchPublishesAndMarksProcessed(t *testing.T) {
	evt := newEvent(t, model.EventUserRegistered)
	batch := &mockBatch{events: []*model.OutboxEvent{evt}}
	repo := &mockOutboxRepository{batch: batch}
	broker := &mockBroker{}

	n, err := newProcessor(t, repo, broker).ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 10, repo.lockedLimit)

	require.Len(t, broker.calls, 1)
	assert.Equal(t, "intake.user_registered", broker.calls[0].channel)

	var msg messaging.Message
	require.NoError(t, json.Unmarshal(broker.calls[0].message, &msg))
	assert.Equal(t, evt.ID, msg.ID)
	assert.Equal(t, model.EventUserRegistered, msg.Type)
	assert.JSONEq(t, string(evt.Payload), string(msg.Payload))

	require.Len(t, batch.updates, 1)
	assert.Equal(t, model.OutboxStatusProcessed, batch.updates[0].status)
	assert.True(t, batch.committed)
}

func TestProcessBatchRetriesThenFails(t *testing.T) {
	evt := newEvent(t, model.EventPatientRegistered)
	batch := &mockBatch{events: []*model.OutboxEvent{evt}}
	broker := &mockBroker{PublishFunc: func(string, []byte) error { return errors.New("connection reset") }}

	n, err := newProcessor(t, &mockOutboxRepository{batch: batch}, broker).ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Len(t, broker.calls, 3)

	require.Len(t, batch.updates, 1)
	assert.Equal(t, model.OutboxStatusFailed, batch.updates[0].status)
	require.NotNil(t, batch.updates[0].errMsg)
	assert.Contains(t, *batch.updates[0].errMsg, "connection reset")
	assert.True(t, batch.committed)
}

func TestProcessBatchRecoversOnRetry(t *testing.T) {
	evt := newEvent(t, model.EventUserVerified)
	batch := &mockBatch{events: []*model.OutboxEvent{evt}}
	calls := 0
	broker := &mockBroker{PublishFunc: func(string, []byte) error {
		calls++
		if calls == 1 {
			return errors.New("timeout")
		}
		return nil
	}}

	n, err := newProcessor(t, &mockOutboxRepository{batch: batch}, broker).ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, model.OutboxStatusProcessed, batch.updates[0].status)
}

func TestProcessBatchLeavesEventsPendingWhileBrokerUnavailable(t *testing.T) {
	first, second := newEvent(t, model.EventUserRegistered), newEvent(t, model.EventUserRegistered)
	batch := &mockBatch{events: []*model.OutboxEvent{first, second}}
	broker := &mockBroker{PublishFunc: func(string, []byte) error {
		return fmt.Errorf("%w: circuit breaker is open", messaging.ErrBrokerUnavailable)
	}}

	n, err := newProcessor(t, &mockOutboxRepository{batch: batch}, broker).ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Len(t, broker.calls, 1, "no retries and no further events while the breaker is open")
	assert.Empty(t, batch.updates)
}

func TestProcessBatchLockFailure(t *testing.T) {
	repo := &mockOutboxRepository{GetErr: errors.New("db down")}

	_, err := newProcessor(t, repo, &mockBroker{}).ProcessBatch(context.Background())
	assert.ErrorContains(t, err, "db down")
}

func TestNewOutboxProcessorRejectsBadConfig(t *testing.T) {
	cfg := testConfig()
	cfg.BatchSize = 0

	_, err := NewOutboxProcessor(&mockOutboxRepository{}, &mockBroker{}, cfg, logger.Nop(), metrics.New("test"))
	assert.ErrorContains(t, err, "BatchSize")
}

func TestStartStopsOnCancel(t *testing.T) {
	batch := &mockBatch{}
	p := newProcessor(t, &mockOutboxRepository{batch: batch}, &mockBroker{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Start(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("processor did not stop")
	}
}
