package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/bl00dPhant0m/LiquiBase/internal/core/domain"
)

type stubAuthService struct {
	authenticateFn func(ctx context.Context, username, password string) (*domain.Principal, error)
	parseTokenFn   func(token string) (*domain.Principal, error)
}

func (s *stubAuthService) Authenticate(ctx context.Context, username, password string) (*domain.Principal, error) {
	return s.authenticateFn(ctx, username, password)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (string, *domain.Principal, error) {
	return "", nil, errors.New("not used")
}

func (s *stubAuthService) ParseToken(_ context.Context, token string) (*domain.Principal, error) {
	return s.parseTokenFn(token)
}

func TestAuthenticate_Basic(t *testing.T) {
	e := echo.New()
	stub := &stubAuthService{
		authenticateFn: func(ctx context.Context, username, password string) (*domain.Principal, error) {
			if username != "alice" || password != "secret" {
				t.Fatalf("unexpected credentials: %s/%s", username, password)
			}
			return &domain.Principal{UserID: 1, Username: "alice", Roles: []string{domain.RoleAdmin}}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/books/1", nil)
	req.SetBasicAuth("alice", "secret")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Authenticate(stub)(func(c echo.Context) error {
		called = true
		p := PrincipalFrom(c)
		if p == nil || p.Username != "alice" {
			t.Fatalf("principal not set: %+v", p)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestAuthenticate_Bearer(t *testing.T) {
	e := echo.New()
	stub := &stubAuthService{
		parseTokenFn: func(token string) (*domain.Principal, error) {
			if token != "tok" {
				t.Fatalf("unexpected token %q", token)
			}
			return &domain.Principal{UserID: 2, Username: "bob"}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/books/1", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer tok")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Authenticate(stub)(func(c echo.Context) error {
		if p := PrincipalFrom(c); p == nil || p.Username != "bob" {
			t.Fatalf("principal not set: %+v", p)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestAuthenticate_AnonymousPassesThrough(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/users/1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Authenticate(&stubAuthService{})(func(c echo.Context) error {
		called = true
		if PrincipalFrom(c) != nil {
			t.Fatalf("expected no principal")
		}
		return nil
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestAuthenticate_BadCredentials(t *testing.T) {
	e := echo.New()
	stub := &stubAuthService{
		authenticateFn: func(ctx context.Context, username, password string) (*domain.Principal, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/books/1", nil)
	req.SetBasicAuth("alice", "wrong")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Authenticate(stub)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthenticate_UnknownScheme(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Token abc")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Authenticate(&stubAuthService{})(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthenticate_MalformedBasic(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Basic !!!not-base64")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Authenticate(&stubAuthService{})(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
