package ports

import (
	"context"

	"github.com/bl00dPhant0m/LiquiBase/internal/core/domain"
)

type UserService interface {
	Save(ctx context.Context, user domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
	Update(ctx context.Context, id int64, user domain.User) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// PasswordHasher is the one-way hashing primitive used for credentials.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Compare returns domain.ErrInvalidCredentials on mismatch.
	Compare(hash, plaintext string) error
}
