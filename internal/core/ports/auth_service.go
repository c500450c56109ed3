package ports

import (
	"context"
	"time"

	"github.com/bl00dPhant0m/LiquiBase/internal/core/domain"
)

type AuthService interface {
	// Authenticate verifies a username/password pair against the stored hash.
	Authenticate(ctx context.Context, username, password string) (*domain.Principal, error)
	// Login authenticates and issues a bearer token for the principal.
	Login(ctx context.Context, username, password string) (string, *domain.Principal, error)
	// ParseToken validates a bearer token issued by Login and returns the
	// principal of the user it still refers to.
	ParseToken(ctx context.Context, token string) (*domain.Principal, error)
}

// LoginLimiter throttles repeated credential failures per key.
type LoginLimiter interface {
	// Blocked reports whether key has exhausted its attempts and, if so,
	// how long until the window resets.
	Blocked(ctx context.Context, key string) (bool, time.Duration, error)
	RecordFailure(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}
