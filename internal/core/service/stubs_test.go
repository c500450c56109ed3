package service

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/bl00dPhant0m/LiquiBase/internal/core/domain"
)

// ── Books ─────────────────────────────────────────────────────────────────────

type stubBookRepo struct {
	mu     sync.Mutex
	books  map[int64]domain.Book
	nextID int64
	// updateErr, when set, is returned by Update instead of writing.
	updateErr error
}

func newStubBookRepo(seed ...domain.Book) *stubBookRepo {
	r := &stubBookRepo{books: make(map[int64]domain.Book)}
	for _, b := range seed {
		r.books[b.ID] = b
		r.nextID = max(r.nextID, b.ID)
	}
	return r
}

func (r *stubBookRepo) Create(_ context.Context, b *domain.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b.Price == nil {
		return &domain.ConstraintError{Err: errNullPrice}
	}
	r.nextID++
	b.ID = r.nextID
	r.books[b.ID] = *b
	return nil
}

func (r *stubBookRepo) FindByID(_ context.Context, id int64) (*domain.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.books[id]
	if !ok {
		return nil, domain.BookNotFound(id)
	}
	return &b, nil
}

func (r *stubBookRepo) FindAll(_ context.Context) ([]domain.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Book, 0, len(r.books))
	for _, b := range r.books {
		out = append(out, b)
	}
	slices.SortFunc(out, func(a, b domain.Book) int { return int(a.ID - b.ID) })
	return out, nil
}

func (r *stubBookRepo) Update(_ context.Context, b *domain.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.books[b.ID]; !ok {
		return domain.BookNotFound(b.ID)
	}
	if b.Price == nil {
		return &domain.ConstraintError{Err: errNullPrice}
	}
	r.books[b.ID] = *b
	return nil
}

func (r *stubBookRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.books[id]; !ok {
		return domain.BookNotFound(id)
	}
	delete(r.books, id)
	return nil
}

// stubIdempotency maps keys to book ids; 0 marks a claim still in flight.
type stubIdempotency struct {
	mu       sync.Mutex
	keys     map[string]int64
	claimErr error
}

func newStubIdempotency() *stubIdempotency {
	return &stubIdempotency{keys: make(map[string]int64)}
}

func (s *stubIdempotency) Claim(_ context.Context, key string) (bool, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.claimErr != nil {
		return false, 0, s.claimErr
	}
	if id, ok := s.keys[key]; ok {
		return false, id, nil
	}
	s.keys[key] = 0
	return true, 0, nil
}

func (s *stubIdempotency) Complete(_ context.Context, key string, bookID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[key] = bookID
	return nil
}

func (s *stubIdempotency) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, key)
	return nil
}

// ── Users ─────────────────────────────────────────────────────────────────────

type stubUserRepo struct {
	mu     sync.Mutex
	users  map[int64]domain.User
	nextID int64
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[int64]domain.User)}
}

func cloneUser(u domain.User) *domain.User {
	u.Roles = slices.Clone(u.Roles)
	return &u
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == u.Username {
			return domain.ErrUserExists
		}
	}
	r.nextID++
	u.ID = r.nextID
	r.users[u.ID] = *cloneUser(*u)
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.UserNotFound(id)
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.NotFound("user", "username", username)
}

func (r *stubUserRepo) Update(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[u.ID]
	if !ok {
		return domain.UserNotFound(u.ID)
	}
	for id, existing := range r.users {
		if id != u.ID && existing.Username == u.Username {
			return domain.ErrUserExists
		}
	}
	stored.Username = u.Username
	stored.Password = u.Password
	r.users[u.ID] = stored
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return domain.UserNotFound(id)
	}
	delete(r.users, id)
	return nil
}

// ── Auth ──────────────────────────────────────────────────────────────────────

type stubLimiter struct {
	failures map[string]int
	max      int
	resets   int
}

func newStubLimiter(max int) *stubLimiter {
	return &stubLimiter{failures: make(map[string]int), max: max}
}

func (l *stubLimiter) Blocked(_ context.Context, key string) (bool, time.Duration, error) {
	if l.failures[key] >= l.max {
		return true, time.Minute, nil
	}
	return false, 0, nil
}

func (l *stubLimiter) RecordFailure(_ context.Context, key string) error {
	l.failures[key]++
	return nil
}

func (l *stubLimiter) Reset(_ context.Context, key string) error {
	l.resets++
	delete(l.failures, key)
	return nil
}
