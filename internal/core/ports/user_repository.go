package ports

import (
	"context"

	"github.com/bl00dPhant0m/LiquiBase/internal/core/domain"
)

// UserRepository defines persistence operations for users and their roles.
type UserRepository interface {
	// Create inserts u together with its roles and sets the generated ID.
	// A taken username yields domain.ErrUserExists.
	Create(ctx context.Context, u *domain.User) error
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// Update writes username and password. Roles are not touched.
	Update(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, id int64) error
}
