package user

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/intake-api/internal/model"
	"github.com/jwalitptl/intake-api/internal/repository"
)

type mockUserRepository struct {
	CreateFunc            func(ctx context.Context, user *model.User, events ...*model.OutboxEvent) error
	GetFunc               func(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmailFunc        func(ctx context.Context, email string) (*model.User, error)
	MarkEmailVerifiedFunc func(ctx context.Context, id uuid.UUID, at time.Time, events ...*model.OutboxEvent) error

	created []*model.User
	events  []*model.OutboxEvent
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User, events ...*model.OutboxEvent) error {
	if m.CreateFunc != nil {
		if err := m.CreateFunc(ctx, user, events...); err != nil {
			return err
		}
	}
	m.created = append(m.created, user)
	m.events = append(m.events, events...)
	return nil
}

func (m *mockUserRepository) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepository) MarkEmailVerified(ctx context.Context, id uuid.UUID, at time.Time, events ...*model.OutboxEvent) error {
	m.events = append(m.events, events...)
	if m.MarkEmailVerifiedFunc != nil {
		return m.MarkEmailVerifiedFunc(ctx, id, at, events...)
	}
	return nil
}

type mockHasher struct{}

func (mockHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (mockHasher) Compare(hashed, password string) error { return nil }

type mockTokens struct {
	IssueFunc  func(subject uuid.UUID, purpose string, ttl time.Duration) (string, error)
	VerifyFunc func(token, purpose string) (uuid.UUID, error)
}

func (m *mockTokens) Issue(subject uuid.UUID, purpose string, ttl time.Duration) (string, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(subject, purpose, ttl)
	}
	return "token-" + subject.String(), nil
}

func (m *mockTokens) Verify(token, purpose string) (uuid.UUID, error) {
	return m.VerifyFunc(token, purpose)
}

type mockSender struct {
	SendFunc func(ctx context.Context, to, link string) error
	links    []string
}

func (m *mockSender) SendEmailConfirmation(ctx context.Context, to, link string) error {
	m.links = append(m.links, link)
	if m.SendFunc != nil {
		return m.SendFunc(ctx, to, link)
	}
	return nil
}
