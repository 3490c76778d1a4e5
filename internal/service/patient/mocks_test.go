package patient

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/jwalitptl/intake-api/internal/model"
	"github.com/jwalitptl/intake-api/internal/repository"
)

type mockPatientRepository struct {
	CreateFunc      func(ctx context.Context, patient *model.Patient, doc *model.IdentificationDocument, events ...*model.OutboxEvent) error
	GetFunc         func(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	GetByUserIDFunc func(ctx context.Context, userID uuid.UUID) (*model.Patient, error)

	created []*model.Patient
	docs    []*model.IdentificationDocument
	events  []*model.OutboxEvent
}

func (m *mockPatientRepository) Create(ctx context.Context, patient *model.Patient, doc *model.IdentificationDocument, events ...*model.OutboxEvent) error {
	if m.CreateFunc != nil {
		if err := m.CreateFunc(ctx, patient, doc, events...); err != nil {
			return err
		}
	}
	m.created = append(m.created, patient)
	if doc != nil {
		m.docs = append(m.docs, doc)
	}
	m.events = append(m.events, events...)
	return nil
}

func (m *mockPatientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}

func (m *mockPatientRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Patient, error) {
	if m.GetByUserIDFunc != nil {
		return m.GetByUserIDFunc(ctx, userID)
	}
	return nil, repository.ErrNotFound
}

type mockDocumentRepository struct {
	GetFunc func(ctx context.Context, id uuid.UUID) (*model.IdentificationDocument, error)
}

func (m *mockDocumentRepository) Get(ctx context.Context, id uuid.UUID) (*model.IdentificationDocument, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}

type mockUserLookup struct {
	users map[uuid.UUID]*model.User
}

func (m *mockUserLookup) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

// xorSealer is a reversible stand-in for AES so tests can see the bytes change.
type xorSealer struct{}

func (xorSealer) Encrypt(data []byte) ([]byte, error) { return xor(data), nil }

func (xorSealer) Decrypt(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, errors.New("empty ciphertext")
	}
	return xor(data), nil
}

func xor(data []byte) []byte {
	out := make([]byte, len(data))
	for i, b := range data {
		out[i] = b ^ 0x5a
	}
	return out
}
