package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bl00dPhant0m/LiquiBase/internal/core/domain"
)

var errNullPrice = errors.New("NOT NULL constraint failed: books.price")

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func newBookSvc(repo *stubBookRepo, idem *stubIdempotency) *BookService {
	if idem == nil {
		return NewBookService(repo, nil, zerolog.Nop())
	}
	return NewBookService(repo, idem, zerolog.Nop())
}

func prices(books []domain.Book) []int {
	out := make([]int, len(books))
	for i, b := range books {
		out[i] = b.PriceValue()
	}
	return out
}

func TestBookService_Save_AssignsID(t *testing.T) {
	svc := newBookSvc(newStubBookRepo(), nil)
	ctx := context.Background()

	saved, err := svc.Save(ctx, domain.Book{ID: 99, Title: strPtr("Book Title"), Price: intPtr(200)}, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), saved.ID)

	got, err := svc.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Book Title", *got.Title)
	assert.Equal(t, 200, *got.Price)
}

func TestBookService_Save_MissingPrice(t *testing.T) {
	svc := newBookSvc(newStubBookRepo(), nil)

	_, err := svc.Save(context.Background(), domain.Book{Title: strPtr("x")}, "")

	assert.ErrorIs(t, err, domain.ErrConstraintViolation)
}

func TestBookService_Save_IdempotentReplay(t *testing.T) {
	repo := newStubBookRepo()
	svc := newBookSvc(repo, newStubIdempotency())
	ctx := context.Background()

	first, err := svc.Save(ctx, domain.Book{Title: strPtr("A"), Price: intPtr(1)}, "key-1")
	require.NoError(t, err)
	second, err := svc.Save(ctx, domain.Book{Title: strPtr("A"), Price: intPtr(1)}, "key-1")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestBookService_Save_DistinctKeysCreateTwice(t *testing.T) {
	repo := newStubBookRepo()
	svc := newBookSvc(repo, newStubIdempotency())
	ctx := context.Background()

	_, err := svc.Save(ctx, domain.Book{Price: intPtr(1)}, "a")
	require.NoError(t, err)
	_, err = svc.Save(ctx, domain.Book{Price: intPtr(1)}, "b")
	require.NoError(t, err)

	all, _ := repo.FindAll(ctx)
	assert.Len(t, all, 2)
}

func TestBookService_Save_ClaimFailureCreatesAnyway(t *testing.T) {
	idem := newStubIdempotency()
	idem.claimErr = errors.New("redis down")
	svc := newBookSvc(newStubBookRepo(), idem)

	saved, err := svc.Save(context.Background(), domain.Book{Price: intPtr(5)}, "k")

	require.NoError(t, err)
	assert.NotZero(t, saved.ID)
}

func TestBookService_Save_KeyInFlightConflicts(t *testing.T) {
	repo := newStubBookRepo()
	idem := newStubIdempotency()
	idem.keys["k"] = 0
	svc := newBookSvc(repo, idem)

	_, err := svc.Save(context.Background(), domain.Book{Price: intPtr(5)}, "k")

	assert.ErrorIs(t, err, domain.ErrRequestInProgress)
	all, _ := repo.FindAll(context.Background())
	assert.Empty(t, all)
}

func TestBookService_Save_FailedCreateReleasesKey(t *testing.T) {
	repo := newStubBookRepo()
	idem := newStubIdempotency()
	svc := newBookSvc(repo, idem)
	ctx := context.Background()

	_, err := svc.Save(ctx, domain.Book{Title: strPtr("no price")}, "k")
	require.ErrorIs(t, err, domain.ErrConstraintViolation)
	assert.NotContains(t, idem.keys, "k")

	saved, err := svc.Save(ctx, domain.Book{Price: intPtr(3)}, "k")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, idem.keys["k"])
}

func TestBookService_Save_ReplayOfDeletedBookCreatesAgain(t *testing.T) {
	repo := newStubBookRepo()
	idem := newStubIdempotency()
	svc := newBookSvc(repo, idem)
	ctx := context.Background()

	first, err := svc.Save(ctx, domain.Book{Price: intPtr(1)}, "k")
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, first.ID))

	second, err := svc.Save(ctx, domain.Book{Price: intPtr(1)}, "k")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, second.ID, idem.keys["k"])
}

func TestBookService_Save_ConcurrentRetriesCreateOneBook(t *testing.T) {
	repo := newStubBookRepo()
	svc := newBookSvc(repo, newStubIdempotency())
	ctx := context.Background()

	const callers = 16
	var (
		wg      sync.WaitGroup
		results = make([]*domain.Book, callers)
		errs    = make([]error, callers)
	)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = svc.Save(ctx, domain.Book{Title: strPtr("A"), Price: intPtr(1)}, "same-key")
		}()
	}
	wg.Wait()

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	for i := range callers {
		if errs[i] != nil {
			assert.ErrorIs(t, errs[i], domain.ErrRequestInProgress)
			continue
		}
		assert.Equal(t, all[0].ID, results[i].ID)
	}
}

func TestBookService_GetByID_NotFound(t *testing.T) {
	svc := newBookSvc(newStubBookRepo(), nil)

	_, err := svc.GetByID(context.Background(), 42)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.EqualError(t, err, "book with id 42 not found")
}

func TestBookService_Patch_ChangesOnlyPresentFields(t *testing.T) {
	repo := newStubBookRepo(domain.Book{ID: 1, Title: strPtr("Old"), Price: intPtr(500)})
	svc := newBookSvc(repo, nil)

	patched, err := svc.Patch(context.Background(), 1, domain.Book{Title: strPtr("Patched Title")})

	require.NoError(t, err)
	assert.Equal(t, domain.Book{ID: 1, Title: strPtr("Patched Title"), Price: intPtr(500)}, *patched)
}

func TestBookService_Patch_PriceOnly(t *testing.T) {
	repo := newStubBookRepo(domain.Book{ID: 1, Title: strPtr("Old"), Price: intPtr(500)})
	svc := newBookSvc(repo, nil)

	patched, err := svc.Patch(context.Background(), 1, domain.Book{Price: intPtr(10)})

	require.NoError(t, err)
	assert.Equal(t, "Old", *patched.Title)
	assert.Equal(t, 10, *patched.Price)
}

func TestBookService_Patch_EmptyBodyKeepsRecord(t *testing.T) {
	repo := newStubBookRepo(domain.Book{ID: 1, Title: strPtr("Old"), Price: intPtr(500)})
	svc := newBookSvc(repo, nil)

	patched, err := svc.Patch(context.Background(), 1, domain.Book{})

	require.NoError(t, err)
	assert.Equal(t, "Old", *patched.Title)
	assert.Equal(t, 500, *patched.Price)
}

func TestBookService_Patch_NotFound(t *testing.T) {
	svc := newBookSvc(newStubBookRepo(), nil)

	_, err := svc.Patch(context.Background(), 3, domain.Book{Title: strPtr("x")})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBookService_Update_ReplacesBothFields(t *testing.T) {
	repo := newStubBookRepo(domain.Book{ID: 1, Title: strPtr("Old"), Price: intPtr(500)})
	svc := newBookSvc(repo, nil)

	updated, err := svc.Update(context.Background(), 1, domain.Book{Price: intPtr(50)})

	require.NoError(t, err)
	assert.Nil(t, updated.Title)
	assert.Equal(t, 50, *updated.Price)
}

func TestBookService_Update_NullPriceRejected(t *testing.T) {
	repo := newStubBookRepo(domain.Book{ID: 1, Title: strPtr("Old"), Price: intPtr(500)})
	svc := newBookSvc(repo, nil)

	_, err := svc.Update(context.Background(), 1, domain.Book{Title: strPtr("New")})

	assert.ErrorIs(t, err, domain.ErrConstraintViolation)
	stored, _ := repo.FindByID(context.Background(), 1)
	assert.Equal(t, "Old", *stored.Title)
}

func TestBookService_Update_RepoError(t *testing.T) {
	repo := newStubBookRepo(domain.Book{ID: 1, Price: intPtr(1)})
	repo.updateErr = errors.New("disk full")
	svc := newBookSvc(repo, nil)

	_, err := svc.Update(context.Background(), 1, domain.Book{Price: intPtr(2)})

	assert.EqualError(t, err, "disk full")
}

func TestBookService_Delete(t *testing.T) {
	repo := newStubBookRepo(domain.Book{ID: 1, Price: intPtr(1)})
	svc := newBookSvc(repo, nil)
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, 1))

	_, err := svc.GetByID(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, 1), domain.ErrNotFound)
}

func TestBookService_Listings_EmptyStore(t *testing.T) {
	svc := newBookSvc(newStubBookRepo(), nil)
	ctx := context.Background()

	for name, list := range map[string]func(context.Context) ([]domain.Book, error){
		"all":  svc.ListAll,
		"asc":  svc.ListByPriceAscending,
		"desc": svc.ListByPriceDescending,
	} {
		_, err := list(ctx)
		assert.ErrorIs(t, err, domain.ErrNotFound, name)
		assert.EqualError(t, err, "no books in the database", name)
	}
}

func TestBookService_ListByPriceAscending(t *testing.T) {
	repo := newStubBookRepo(
		domain.Book{ID: 1, Price: intPtr(300)},
		domain.Book{ID: 2, Price: intPtr(100)},
	)
	svc := newBookSvc(repo, nil)

	books, err := svc.ListByPriceAscending(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []int{100, 300}, prices(books))
}

func TestBookService_SortedListingsKeepMultiset(t *testing.T) {
	repo := newStubBookRepo(
		domain.Book{ID: 1, Title: strPtr("a"), Price: intPtr(200)},
		domain.Book{ID: 2, Title: strPtr("b"), Price: intPtr(50)},
		domain.Book{ID: 3, Title: strPtr("c"), Price: intPtr(200)},
		domain.Book{ID: 4, Title: strPtr("d"), Price: intPtr(900)},
	)
	svc := newBookSvc(repo, nil)
	ctx := context.Background()

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	asc, err := svc.ListByPriceAscending(ctx)
	require.NoError(t, err)
	desc, err := svc.ListByPriceDescending(ctx)
	require.NoError(t, err)

	assert.ElementsMatch(t, all, asc)
	assert.ElementsMatch(t, all, desc)
	assert.IsNonDecreasing(t, prices(asc))
	assert.IsNonIncreasing(t, prices(desc))

	// equal prices keep store order in both directions
	assert.Equal(t, []int64{2, 1, 3, 4}, ids(asc))
	assert.Equal(t, []int64{4, 1, 3, 2}, ids(desc))
}

func ids(books []domain.Book) []int64 {
	out := make([]int64, len(books))
	for i, b := range books {
		out[i] = b.ID
	}
	return out
}
