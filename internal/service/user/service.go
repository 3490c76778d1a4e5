package user

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/intake-api/internal/email"
	"github.com/jwalitptl/intake-api/internal/model"
	"github.com/jwalitptl/intake-api/internal/repository"
	"github.com/jwalitptl/intake-api/pkg/security"
	"github.com/jwalitptl/intake-api/pkg/validator"
)

// ConfirmationRedirect is where the client goes after signing up.
const ConfirmationRedirect = "/users/email-confirmation"

const defaultVerifyExpiry = 48 * time.Hour

var (
	ErrEmailTaken   = errors.New("email already registered")
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidToken = errors.New("invalid or expired verification token")
)

type UserServicer interface {
	Register(ctx context.Context, req *model.RegisterUserRequest) (*model.RegistrationResult, error)
	VerifyEmail(ctx context.Context, token string) (*model.User, error)
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// TokenIssuer signs and checks email verification tokens.
type TokenIssuer interface {
	Issue(subject uuid.UUID, purpose string, ttl time.Duration) (string, error)
	Verify(token, purpose string) (uuid.UUID, error)
}

type Config struct {
	// VerifyURL is the absolute URL of the verification endpoint; the
	// token is appended as the token query parameter.
	VerifyURL    string
	VerifyExpiry time.Duration
}

type Service struct {
	repo      repository.UserRepository
	hasher    security.PasswordHasher
	tokens    TokenIssuer
	sender    email.Sender
	validator *validator.Validator
	config    Config
	logger    zerolog.Logger
	now       func() time.Time
}

func NewService(
	repo repository.UserRepository,
	hasher security.PasswordHasher,
	tokens TokenIssuer,
	sender email.Sender,
	v *validator.Validator,
	config Config,
	logger zerolog.Logger,
) *Service {
	if config.VerifyExpiry <= 0 {
		config.VerifyExpiry = defaultVerifyExpiry
	}
	return &Service{
		repo:      repo,
		hasher:    hasher,
		tokens:    tokens,
		sender:    sender,
		validator: v,
		config:    config,
		logger:    logger,
		now:       time.Now,
	}
}

// Register creates a pending account and mails the confirmation link. A mail
// failure does not fail the registration.
func (s *Service) Register(ctx context.Context, req *model.RegisterUserRequest) (*model.RegistrationResult, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if errors.Is(err, security.ErrPasswordTooLong) {
		return nil, &validator.Errors{Fields: []validator.FieldError{{
			Field:   "password",
			Message: "Password must be at most 72 bytes",
		}}}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Base:         model.Base{ID: uuid.New()},
		Email:        req.Email,
		PasswordHash: hash,
		Status:       model.UserStatusPending,
	}

	event, err := model.NewOutboxEvent(model.EventUserRegistered, model.UserRegisteredPayload{
		UserID: user.ID,
		Email:  user.Email,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build outbox event: %w", err)
	}

	if err := s.repo.Create(ctx, user, event); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.sendConfirmation(ctx, user)

	return &model.RegistrationResult{
		Data:     user,
		Redirect: ConfirmationRedirect,
	}, nil
}

func (s *Service) sendConfirmation(ctx context.Context, user *model.User) {
	token, err := s.tokens.Issue(user.ID, security.PurposeEmailVerification, s.config.VerifyExpiry)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to issue verification token")
		return
	}

	if err := s.sender.SendEmailConfirmation(ctx, user.Email, s.verifyLink(token)); err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to send confirmation email")
	}
}

func (s *Service) verifyLink(token string) string {
	return s.config.VerifyURL + "?token=" + url.QueryEscape(token)
}

// VerifyEmail activates the account named by token. Verifying twice is not an error.
func (s *Service) VerifyEmail(ctx context.Context, token string) (*model.User, error) {
	id, err := s.tokens.Verify(token, security.PurposeEmailVerification)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.EmailVerified {
		return user, nil
	}

	event, err := model.NewOutboxEvent(model.EventUserVerified, model.UserRegisteredPayload{
		UserID: user.ID,
		Email:  user.Email,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build outbox event: %w", err)
	}

	now := s.now().UTC()
	if err := s.repo.MarkEmailVerified(ctx, user.ID, now, event); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to verify email: %w", err)
	}

	user.EmailVerified = true
	user.VerifiedAt = &now
	user.Status = model.UserStatusActive
	user.UpdatedAt = now
	return user, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}
