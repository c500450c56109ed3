package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/bl00dPhant0m/LiquiBase/internal/core/domain"
	"github.com/bl00dPhant0m/LiquiBase/internal/core/ports"
)

const principalKey = "principal"

// Authenticate resolves the request identity from the Authorization header.
// Both HTTP Basic credentials and bearer tokens issued by /auth/login are
// accepted. Requests without the header pass through anonymously; the
// Authorize middleware decides whether the route needs an identity.
func Authenticate(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return next(c)
			}

			scheme, credentials, _ := strings.Cut(authHeader, " ")
			var (
				principal *domain.Principal
				err       error
			)
			switch {
			case strings.EqualFold(scheme, "basic"):
				username, password, ok := c.Request().BasicAuth()
				if !ok {
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid basic credentials")
				}
				principal, err = auth.Authenticate(c.Request().Context(), username, password)
			case strings.EqualFold(scheme, "bearer"):
				principal, err = auth.ParseToken(c.Request().Context(), strings.TrimSpace(credentials))
			default:
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}
			if err != nil {
				return err
			}

			SetPrincipal(c, principal)
			return next(c)
		}
	}
}

// SetPrincipal attaches an authenticated identity to the request.
func SetPrincipal(c echo.Context, p *domain.Principal) {
	c.Set(principalKey, p)
}

// PrincipalFrom returns the identity set by Authenticate, or nil.
func PrincipalFrom(c echo.Context) *domain.Principal {
	p, _ := c.Get(principalKey).(*domain.Principal)
	return p
}
