package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/taskhive/taskhive/internal/config"
	"github.com/taskhive/taskhive/internal/domain"
	"github.com/taskhive/taskhive/internal/password"
	"github.com/taskhive/taskhive/internal/repository"
	"github.com/taskhive/taskhive/internal/token"
)

// TokenPair carries one freshly issued access/refresh pair.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// RegisterInput is the validated registration payload. The handler enforces
// field presence and the minimum password length before this is built.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Password  string
}

// AuthService encapsulates registration, login, refresh rotation, and
// session resolution.
type AuthService struct {
	users   repository.UserRepository
	hasher  *password.Hasher
	access  *token.Codec
	refresh *token.Codec
	node    *snowflake.Node
	logger  *zap.Logger
	tracer  trace.Tracer
}

// NewAuthService wires dependencies.
func NewAuthService(users repository.UserRepository, hasher *password.Hasher, cfg config.Config, node *snowflake.Node, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:   users,
		hasher:  hasher,
		access:  token.NewCodec([]byte(cfg.AccessTokenKey), cfg.AccessTokenTTL),
		refresh: token.NewCodec([]byte(cfg.RefreshTokenKey), cfg.RefreshTokenTTL),
		node:    node,
		logger:  logger,
		tracer:  otel.Tracer("github.com/taskhive/taskhive/internal/service"),
	}
}

// AccessTTL returns the access token lifetime, used for cookie expiry.
func (s *AuthService) AccessTTL() time.Duration {
	return s.access.TTL()
}

// RefreshTTL returns the refresh token lifetime.
func (s *AuthService) RefreshTTL() time.Duration {
	return s.refresh.TTL()
}

// Register creates a new account. Email and phone collisions surface as
// Conflict; the unique constraints in the database are the authority, so two
// concurrent registrations cannot both succeed.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) error {
	ctx, span := s.startSpan(ctx, "AuthService.Register")
	defer span.End()

	hashed, err := s.hasher.Hash(input.Password)
	if err != nil {
		span.RecordError(err)
		return domain.ErrInternal("Could not process registration")
	}

	user := domain.User{
		ID:           s.node.Generate().Int64(),
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:        strings.TrimSpace(input.Phone),
		PasswordHash: hashed,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		span.RecordError(err)
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			return domain.ErrConflict("Email already used")
		case errors.Is(err, repository.ErrDuplicatePhone):
			return domain.ErrConflict("Phone already used")
		default:
			return domain.ErrTransient("Database unavailable")
		}
	}

	s.audit("register.success", "user_id", created.ID)
	return nil
}

// Login verifies the credentials and issues a fresh token pair.
func (s *AuthService) Login(ctx context.Context, email, plaintext string) (*TokenPair, error) {
	ctx, span := s.startSpan(ctx, "AuthService.Login")
	defer span.End()

	normalized := strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.GetByEmail(ctx, normalized)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrNotFound("User not found")
		}
		return nil, domain.ErrTransient("Database unavailable")
	}

	ok, err := s.hasher.Verify(user.PasswordHash, plaintext)
	if err != nil {
		span.RecordError(err)
		return nil, domain.ErrInternal("Stored credential unreadable")
	}
	if !ok {
		return nil, domain.ErrUnauthenticated("Wrong password")
	}

	pair, err := s.issuePair(user.ID)
	if err != nil {
		span.RecordError(err)
		return nil, domain.ErrInternal("Could not issue tokens")
	}

	s.audit("login.success", "user_id", user.ID)
	return pair, nil
}

// RefreshTokens validates the refresh token, confirms the subject still
// exists, and rotates the pair. The previous refresh token is not tracked
// server side; rotation gives sliding expiry, not revocation.
func (s *AuthService) RefreshTokens(ctx context.Context, refreshToken string) (*TokenPair, error) {
	ctx, span := s.startSpan(ctx, "AuthService.RefreshTokens")
	defer span.End()

	if refreshToken == "" {
		return nil, domain.ErrUnauthenticated("No refresh token provided")
	}

	subject, err := s.refresh.Verify(refreshToken)
	if err != nil {
		span.RecordError(err)
		return nil, domain.ErrUnauthenticated("Refresh token invalid")
	}

	user, err := s.users.GetByID(ctx, subject)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrUnauthenticated("User not found")
		}
		return nil, domain.ErrTransient("Database unavailable")
	}

	pair, err := s.issuePair(user.ID)
	if err != nil {
		span.RecordError(err)
		return nil, domain.ErrInternal("Could not issue tokens")
	}

	s.audit("refresh.success", "user_id", user.ID)
	return pair, nil
}

// ResolveSession validates an access token and confirms the subject is a
// live user. A forged token and a deleted user are indistinguishable to the
// caller; both come back Unauthenticated.
func (s *AuthService) ResolveSession(ctx context.Context, accessToken string) (int64, error) {
	ctx, span := s.startSpan(ctx, "AuthService.ResolveSession")
	defer span.End()

	if accessToken == "" {
		return 0, domain.ErrUnauthenticated("No access token provided")
	}

	subject, err := s.access.Verify(accessToken)
	if err != nil {
		span.RecordError(err)
		return 0, domain.ErrUnauthenticated("Access token invalid")
	}

	user, err := s.users.GetByID(ctx, subject)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, repository.ErrNotFound) {
			return 0, domain.ErrUnauthenticated("User not found")
		}
		return 0, domain.ErrTransient("Database unavailable")
	}

	return user.ID, nil
}

func (s *AuthService) issuePair(userID int64) (*TokenPair, error) {
	access, err := s.access.Issue(userID)
	if err != nil {
		return nil, err
	}
	refresh, err := s.refresh.Issue(userID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if s == nil || s.tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return s.tracer.Start(ctx, name)
}

func (s *AuthService) audit(event string, attrs ...any) {
	logger := s.log()
	if logger == nil {
		return
	}
	fields := make([]zap.Field, 0, len(attrs)/2+2)
	fields = append(fields, zap.String("event", event), zap.Time("timestamp", time.Now().UTC()))
	for i := 0; i+1 < len(attrs); i += 2 {
		key, ok := attrs[i].(string)
		if !ok {
			continue
		}
		fields = append(fields, zap.Any(key, attrs[i+1]))
	}
	logger.Info("audit", fields...)
}

func (s *AuthService) log() *zap.Logger {
	if s != nil && s.logger != nil {
		return s.logger
	}
	return zap.L()
}
