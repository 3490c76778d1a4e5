package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/intake-api/internal/model"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// All repository interfaces in one file
type (
	// UserRepository persists accounts. Create and MarkEmailVerified store
	// the given outbox events in the same transaction as the user row.
	UserRepository interface {
		Create(ctx context.Context, user *model.User, events ...*model.OutboxEvent) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		MarkEmailVerified(ctx context.Context, id uuid.UUID, at time.Time, events ...*model.OutboxEvent) error
	}

	// PatientRepository persists patient registrations. Create inserts the
	// optional document, the patient and its events atomically.
	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient, doc *model.IdentificationDocument, events ...*model.OutboxEvent) error
		Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
		GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Patient, error)
	}

	DocumentRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.IdentificationDocument, error)
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		// GetPendingEventsWithLock locks up to limit pending events. The locks
		// are held until the batch is committed or rolled back.
		GetPendingEventsWithLock(ctx context.Context, limit int) (OutboxBatch, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errMsg *string) error
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}

	// OutboxBatch is a set of locked outbox events.
	OutboxBatch interface {
		Events() []*model.OutboxEvent
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errMsg *string) error
		Commit() error
		Rollback() error
	}
)
