package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/token-service/internal/auth"
	"github.com/spec-kit/token-service/internal/config"
	"github.com/spec-kit/token-service/internal/domain"
	"github.com/spec-kit/token-service/internal/events"
	"github.com/spec-kit/token-service/internal/observability"
	"github.com/spec-kit/token-service/internal/repository"
)

// CredentialStore resolves login identifiers to credential records.
type CredentialStore interface {
	FindByIdentifier(ctx context.Context, identifier string) (*domain.CredentialRecord, error)
}

// SecretComparer checks a plaintext secret against a stored hash.
type SecretComparer interface {
	CompareSecret(plain, hash string) bool
}

// AuthService coordinates login, refresh, logout and introspection.
type AuthService struct {
	credentials CredentialStore
	comparer    SecretComparer
	revocations auth.RevocationStore
	issuer      *auth.Issuer
	verifier    *auth.Verifier
	refresher   *auth.RefreshCoordinator
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	metrics     *observability.Metrics
	now         func() time.Time
	dummyHash   string
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	Credentials CredentialStore
	// Revocations is optional; without it refresh tokens are stateless.
	Revocations  auth.RevocationStore
	Comparer     SecretComparer
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
	Metrics      *observability.Metrics
	TokenOptions []auth.Option
	Clock        func() time.Time
}

// NewAuthService builds the token core from configuration. Missing signing secrets
// surface here as a *auth.ConfigurationError.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) (*AuthService, error) {
	if deps.Credentials == nil {
		return nil, errors.New("auth service requires a credential store")
	}

	keys, err := auth.NewKeySet(cfg.AccessTokenSecret, cfg.RefreshTokenSecret)
	if err != nil {
		return nil, err
	}
	tokenCfg := auth.TokenConfigFrom(cfg)
	issuer, err := auth.NewIssuer(keys, tokenCfg, deps.TokenOptions...)
	if err != nil {
		return nil, err
	}
	verifier, err := auth.NewVerifier(keys, tokenCfg, deps.TokenOptions...)
	if err != nil {
		return nil, err
	}

	refreshOpts := []auth.RefreshOption{auth.WithRotation(cfg.RefreshRotation)}
	if deps.Revocations != nil {
		refreshOpts = append(refreshOpts, auth.WithRevocationStore(deps.Revocations))
	}
	refresher, err := auth.NewRefreshCoordinator(issuer, verifier, refreshOpts...)
	if err != nil {
		return nil, err
	}

	cost := cfg.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	dummyHash, err := auth.HashPassword(uuid.NewString(), cost)
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}

	svc := &AuthService{
		credentials: deps.Credentials,
		comparer:    deps.Comparer,
		revocations: deps.Revocations,
		issuer:      issuer,
		verifier:    verifier,
		refresher:   refresher,
		dispatcher:  deps.Dispatcher,
		logger:      deps.Logger,
		metrics:     deps.Metrics,
		now:         deps.Clock,
		dummyHash:   dummyHash,
	}
	if svc.comparer == nil {
		svc.comparer = auth.BcryptComparer{}
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	return svc, nil
}

// Login authenticates a username or email and issues a token pair.
// Every credential failure is reported as auth.ErrAuthenticationFailed.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (domain.TokenPair, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return domain.TokenPair{}, s.loginFailed(ctx, identifier, "missing credentials")
	}

	rec, err := s.credentials.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// keep timing close to the known-identifier path
			s.comparer.CompareSecret(password, s.dummyHash)
			return domain.TokenPair{}, s.loginFailed(ctx, identifier, "unknown identifier")
		}
		return domain.TokenPair{}, fmt.Errorf("lookup credential: %w", err)
	}

	matched := s.comparer.CompareSecret(password, rec.PasswordHash)
	if !rec.Active() {
		return domain.TokenPair{}, s.loginFailed(ctx, identifier, "credential disabled")
	}
	if !matched {
		return domain.TokenPair{}, s.loginFailed(ctx, identifier, "secret mismatch")
	}

	pair, err := s.issuer.IssueTokenPair(rec.Identity())
	if err != nil {
		return domain.TokenPair{}, err
	}

	s.metrics.RecordTokenIssued("login")
	s.logger.Info("login succeeded", zap.String("subject_id", rec.ID), zap.String("role", string(rec.Role)))
	s.publish(ctx, events.EventLoginSucceeded, rec.ID, events.LoginPayload{Identifier: identifier, Role: rec.Role})
	return pair, nil
}

// Refresh exchanges a refresh token for a new pair. Any failure means the caller must log in again.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error) {
	pair, err := s.refresher.Refresh(ctx, refreshToken)
	s.metrics.RecordVerification(string(domain.TokenTypeRefresh), auth.Reason(err))
	if err != nil {
		s.refreshDenied(ctx, err)
		return domain.TokenPair{}, err
	}

	s.metrics.RecordTokenIssued("refresh")
	s.publish(ctx, events.EventTokenRefreshed, pair.Identity.ID, events.RefreshPayload{Rotated: s.refresher.Rotates()})
	return pair, nil
}

// Logout revokes the refresh token when a revocation store is configured.
// Stateless deployments only validate the token.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	info, err := s.refresher.Revoke(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrWrongTokenType) {
			s.misuse(ctx, domain.TokenTypeRefresh, err)
		}
		return err
	}

	s.publish(ctx, events.EventLogout, info.Identity.ID, events.RefreshPayload{TokenID: info.ID, Revoked: s.revocations != nil})
	return nil
}

// Introspection describes a presented token. Inactive tokens carry the rejection reason.
type Introspection struct {
	Active    bool
	TokenType domain.TokenType
	Identity  *domain.Identity
	IssuedAt  time.Time
	ExpiresAt time.Time
	Reason    string
}

// Introspect reports whether a token is currently usable as tokenType. Invalid tokens
// are not errors; only revocation store failures are.
func (s *AuthService) Introspect(ctx context.Context, rawToken string, tokenType domain.TokenType) (Introspection, error) {
	result := Introspection{TokenType: tokenType}

	info, err := s.verifier.Inspect(rawToken, tokenType)
	if err != nil {
		result.Reason = auth.Reason(err)
		return result, nil
	}

	if tokenType == domain.TokenTypeRefresh && s.revocations != nil {
		revoked, err := s.revocations.IsRevoked(ctx, info.ID)
		if err != nil {
			return result, fmt.Errorf("check revocation: %w", err)
		}
		if revoked {
			result.Reason = auth.Reason(auth.ErrRevoked)
			return result, nil
		}
	}

	identity := info.Identity
	result.Active = true
	result.Identity = &identity
	result.IssuedAt = info.IssuedAt
	result.ExpiresAt = info.ExpiresAt
	return result, nil
}

// Verifier exposes the token verifier for middleware usage.
func (s *AuthService) Verifier() *auth.Verifier {
	return s.verifier
}

func (s *AuthService) loginFailed(ctx context.Context, identifier, reason string) error {
	s.logger.Warn("login failed", zap.String("identifier", identifier), zap.String("reason", reason))
	s.publish(ctx, events.EventLoginFailed, "", events.LoginPayload{Identifier: identifier, Reason: reason})
	return auth.ErrAuthenticationFailed
}

func (s *AuthService) refreshDenied(ctx context.Context, err error) {
	switch {
	case errors.Is(err, auth.ErrWrongTokenType):
		s.misuse(ctx, domain.TokenTypeRefresh, err)
	case errors.Is(err, auth.ErrRevoked) && s.refresher.Rotates():
		s.logger.Warn("refresh token reuse", zap.Error(err))
	case errors.Is(err, auth.ErrExpired), errors.Is(err, auth.ErrInvalidSignature), errors.Is(err, auth.ErrRevoked):
		s.logger.Info("refresh denied", zap.String("reason", auth.Reason(err)))
	default:
		s.logger.Error("refresh failed", zap.Error(err))
	}
	s.publish(ctx, events.EventRefreshDenied, "", events.RefreshPayload{Reason: auth.Reason(err), Rotated: s.refresher.Rotates()})
}

func (s *AuthService) misuse(ctx context.Context, expected domain.TokenType, err error) {
	s.logger.Warn("token type misuse", zap.String("expected", string(expected)), zap.Error(err))
	s.publish(ctx, events.EventTokenMisuse, "", events.MisusePayload{Expected: expected, Detail: err.Error()})
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, subjectID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SubjectID: subjectID,
		Timestamp: s.now().UTC(),
		Payload:   payload,
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish event", zap.String("type", string(eventType)), zap.Error(err))
	}
}
