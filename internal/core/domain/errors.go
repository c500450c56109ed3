package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrUserExists          = errors.New("user already exists")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUnauthenticated     = errors.New("authentication required")
	ErrForbidden           = errors.New("access forbidden")
	ErrTooManyAttempts     = errors.New("too many failed login attempts")
	ErrRequestInProgress   = errors.New("a request with this idempotency key is still in progress")
)

// NotFoundError carries a human readable message naming the missing entity
// and the key it was looked up by. It matches ErrNotFound.
type NotFoundError struct {
	Entity string
	msg    string
}

func (e *NotFoundError) Error() string { return e.msg }

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// NotFound reports a failed lookup of entity by key.
func NotFound(entity, key string, value any) error {
	return &NotFoundError{
		Entity: entity,
		msg:    fmt.Sprintf("%s with %s %v not found", entity, key, value),
	}
}

// BookNotFound is the lookup failure for a book id.
func BookNotFound(id int64) error { return NotFound("book", "id", id) }

// UserNotFound is the lookup failure for a user id.
func UserNotFound(id int64) error { return NotFound("user", "id", id) }

// ErrNoBooks is returned by the listing operations when the store is empty.
var ErrNoBooks error = &NotFoundError{Entity: "book", msg: "no books in the database"}

// ConstraintError is a rejected write. Stack holds the call stack captured
// where the store reported the violation.
type ConstraintError struct {
	Err   error
	Stack []byte
}

func (e *ConstraintError) Error() string { return e.Err.Error() }

func (e *ConstraintError) Unwrap() error { return e.Err }

func (e *ConstraintError) Is(target error) bool { return target == ErrConstraintViolation }
