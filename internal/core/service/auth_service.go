package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/bl00dPhant0m/LiquiBase/internal/core/domain"
	"github.com/bl00dPhant0m/LiquiBase/internal/core/ports"
	"github.com/bl00dPhant0m/LiquiBase/internal/pkg/metrics"
)

// AuthService verifies credentials against stored users and issues bearer
// tokens.
type AuthService struct {
	users     ports.UserService
	hasher    ports.PasswordHasher
	limiter   ports.LoginLimiter
	jwtSecret string
	tokenTTL  time.Duration
	logger    zerolog.Logger
}

// NewAuthService builds the authentication provider. limiter may be nil to
// disable throttling. An empty jwtSecret is replaced by a random per-process
// key, so tokens never verify against an empty HMAC key.
func NewAuthService(
	users ports.UserService,
	hasher ports.PasswordHasher,
	limiter ports.LoginLimiter,
	jwtSecret string,
	tokenTTL time.Duration,
	logger zerolog.Logger,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	if jwtSecret == "" {
		jwtSecret = rand.Text()
		logger.Warn().Msg("JWT_SECRET not set: using a random key, tokens will not survive a restart")
	}
	return &AuthService{
		users:     users,
		hasher:    hasher,
		limiter:   limiter,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*domain.Principal, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if s.limiter != nil {
		blocked, retryAfter, err := s.limiter.Blocked(ctx, username)
		if err != nil {
			s.logger.Warn().Err(err).Str("username", username).Msg("login limiter unavailable, skipping check")
		} else if blocked {
			metrics.AuthAttemptsTotal.WithLabelValues("throttled").Inc()
			return nil, fmt.Errorf("%w: retry in %s", domain.ErrTooManyAttempts, retryAfter.Round(time.Second))
		}
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.recordFailure(ctx, username)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := s.hasher.Compare(user.Password, password); err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			s.recordFailure(ctx, username)
		}
		return nil, err
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, username); err != nil {
			s.logger.Warn().Err(err).Str("username", username).Msg("failed to reset login attempts")
		}
	}

	metrics.AuthAttemptsTotal.WithLabelValues("success").Inc()
	return domain.PrincipalFor(user), nil
}

func (s *AuthService) recordFailure(ctx context.Context, username string) {
	metrics.AuthAttemptsTotal.WithLabelValues("failure").Inc()
	if s.limiter == nil {
		return
	}
	if err := s.limiter.RecordFailure(ctx, username); err != nil {
		s.logger.Warn().Err(err).Str("username", username).Msg("failed to record login failure")
	}
}

func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.Principal, error) {
	principal, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return "", nil, err
	}

	token, err := s.generateToken(principal)
	if err != nil {
		return "", nil, err
	}
	return token, principal, nil
}

func (s *AuthService) generateToken(p *domain.Principal) (string, error) {
	claims := jwt.MapClaims{
		"sub":   p.Username,
		"uid":   p.UserID,
		"roles": p.Roles,
		"exp":   time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

// ParseToken validates a bearer token issued by Login and resolves it against
// the stored user. Deleted users are rejected; roles come from the store.
func (s *AuthService) ParseToken(ctx context.Context, token string) (*domain.Principal, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.jwtSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !tkn.Valid {
		return nil, domain.ErrInvalidCredentials
	}

	username, _ := claims["sub"].(string)
	uid, _ := claims["uid"].(float64)
	if username == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	// same name, different account: the original holder was deleted
	if user.ID != int64(uid) {
		return nil, domain.ErrInvalidCredentials
	}

	return domain.PrincipalFor(user), nil
}
