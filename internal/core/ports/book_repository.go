package ports

import (
	"context"

	"github.com/bl00dPhant0m/LiquiBase/internal/core/domain"
)

// BookRepository defines persistence operations for books.
type BookRepository interface {
	// Create inserts b and sets its generated ID.
	Create(ctx context.Context, b *domain.Book) error
	// FindByID returns a domain.NotFoundError when id is unknown.
	FindByID(ctx context.Context, id int64) (*domain.Book, error)
	// FindAll returns every book in ascending id order.
	FindAll(ctx context.Context) ([]domain.Book, error)
	// Update writes title and price of b, nil values included.
	Update(ctx context.Context, b *domain.Book) error
	Delete(ctx context.Context, id int64) error
}
