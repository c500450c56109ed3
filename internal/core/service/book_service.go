package service

import (
	"cmp"
	"context"
	"errors"
	"slices"

	"github.com/rs/zerolog"

	"github.com/bl00dPhant0m/LiquiBase/internal/core/domain"
	"github.com/bl00dPhant0m/LiquiBase/internal/core/ports"
	"github.com/bl00dPhant0m/LiquiBase/internal/pkg/metrics"
)

type BookService struct {
	repo        ports.BookRepository
	idempotency ports.IdempotencyStore
	logger      zerolog.Logger
}

// NewBookService wires the book use cases. idempotency may be nil, in which
// case Idempotency-Key headers are ignored.
func NewBookService(repo ports.BookRepository, idempotency ports.IdempotencyStore, logger zerolog.Logger) *BookService {
	return &BookService{repo: repo, idempotency: idempotency, logger: logger}
}

// Save persists a new book. With an idempotency key the key is claimed
// before the insert, so concurrent retries create at most one book: later
// requests get the first book back, or ErrRequestInProgress while it is
// still being written.
func (s *BookService) Save(ctx context.Context, book domain.Book, idempotencyKey string) (*domain.Book, error) {
	if s.idempotency == nil || idempotencyKey == "" {
		return s.create(ctx, book)
	}
	log := s.logger.With().Str("idempotency_key", idempotencyKey).Logger()

	claimed, id, err := s.idempotency.Claim(ctx, idempotencyKey)
	if err != nil {
		log.Warn().Err(err).Msg("idempotency claim failed, creating anyway")
		return s.create(ctx, book)
	}

	if !claimed {
		if id == 0 {
			return nil, domain.ErrRequestInProgress
		}
		existing, err := s.repo.FindByID(ctx, id)
		if err == nil {
			log.Info().Int64("book_id", id).Msg("idempotent replay")
			return existing, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		// the first book was deleted since; the key moves to the new one
		log.Info().Int64("book_id", id).Msg("replayed book is gone, creating again")
	}

	created, err := s.create(ctx, book)
	if err != nil {
		if claimed {
			if rerr := s.idempotency.Release(ctx, idempotencyKey); rerr != nil {
				log.Warn().Err(rerr).Msg("failed to release idempotency key")
			}
		}
		return nil, err
	}
	if err := s.idempotency.Complete(ctx, idempotencyKey, created.ID); err != nil {
		log.Warn().Err(err).Msg("failed to store idempotency key")
	}
	return created, nil
}

func (s *BookService) create(ctx context.Context, book domain.Book) (*domain.Book, error) {
	book.ID = 0
	if err := s.repo.Create(ctx, &book); err != nil {
		s.logger.Error().Err(err).Msg("failed to create book")
		return nil, err
	}

	metrics.BookMutationsTotal.WithLabelValues("create").Inc()
	s.logger.Info().Int64("book_id", book.ID).Msg("book created")
	return &book, nil
}

func (s *BookService) GetByID(ctx context.Context, id int64) (*domain.Book, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *BookService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	metrics.BookMutationsTotal.WithLabelValues("delete").Inc()
	s.logger.Info().Int64("book_id", id).Msg("book deleted")
	return nil
}

// Update replaces title and price, even when the incoming values are absent.
func (s *BookService) Update(ctx context.Context, id int64, book domain.Book) (*domain.Book, error) {
	return s.modify(ctx, id, "update", func(b *domain.Book) { b.Overwrite(book) })
}

// Patch replaces only the fields present in book.
func (s *BookService) Patch(ctx context.Context, id int64, book domain.Book) (*domain.Book, error) {
	return s.modify(ctx, id, "patch", func(b *domain.Book) { b.Merge(book) })
}

func (s *BookService) modify(ctx context.Context, id int64, op string, apply func(*domain.Book)) (*domain.Book, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	apply(current)

	if err := s.repo.Update(ctx, current); err != nil {
		if !errors.Is(err, domain.ErrConstraintViolation) {
			s.logger.Error().Err(err).Int64("book_id", id).Str("op", op).Msg("failed to write book")
		}
		return nil, err
	}

	metrics.BookMutationsTotal.WithLabelValues(op).Inc()
	s.logger.Info().Int64("book_id", id).Str("op", op).Msg("book modified")
	return current, nil
}

func (s *BookService) ListAll(ctx context.Context) ([]domain.Book, error) {
	books, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(books) == 0 {
		return nil, domain.ErrNoBooks
	}
	return books, nil
}

// ListByPriceAscending returns all books, cheapest first. Books with equal
// prices keep their store order.
func (s *BookService) ListByPriceAscending(ctx context.Context) ([]domain.Book, error) {
	return s.listSorted(ctx, func(a, b domain.Book) int {
		return cmp.Compare(a.PriceValue(), b.PriceValue())
	})
}

// ListByPriceDescending returns all books, most expensive first. Books with
// equal prices keep their store order.
func (s *BookService) ListByPriceDescending(ctx context.Context) ([]domain.Book, error) {
	return s.listSorted(ctx, func(a, b domain.Book) int {
		return cmp.Compare(b.PriceValue(), a.PriceValue())
	})
}

func (s *BookService) listSorted(ctx context.Context, cmpFn func(a, b domain.Book) int) ([]domain.Book, error) {
	books, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(books, cmpFn)
	return books, nil
}
