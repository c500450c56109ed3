package ports

import (
	"context"

	"github.com/bl00dPhant0m/LiquiBase/internal/core/domain"
)

// BookService defines the use cases of the book catalogue.
type BookService interface {
	Save(ctx context.Context, book domain.Book, idempotencyKey string) (*domain.Book, error)
	GetByID(ctx context.Context, id int64) (*domain.Book, error)
	Delete(ctx context.Context, id int64) error
	Update(ctx context.Context, id int64, book domain.Book) (*domain.Book, error)
	Patch(ctx context.Context, id int64, book domain.Book) (*domain.Book, error)
	ListAll(ctx context.Context) ([]domain.Book, error)
	ListByPriceAscending(ctx context.Context) ([]domain.Book, error)
	ListByPriceDescending(ctx context.Context) ([]domain.Book, error)
}

// IdempotencyStore ties an Idempotency-Key to the book its create request
// produced.
type IdempotencyStore interface {
	// Claim reserves key for a new create. When the key is already taken it
	// returns claimed=false with the recorded book id, or 0 while the first
	// request is still in flight.
	Claim(ctx context.Context, key string) (claimed bool, bookID int64, err error)
	// Complete records the book created under a claimed key.
	Complete(ctx context.Context, key string, bookID int64) error
	// Release drops a claim whose create failed.
	Release(ctx context.Context, key string) error
}
