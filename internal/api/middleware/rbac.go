package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/bl00dPhant0m/LiquiBase/internal/core/domain"
)

// Access is the requirement a rule places on the caller.
type Access int

const (
	PermitAll Access = iota
	Authenticated
	HasRole
)

// Rule applies Access to requests whose method and path match. An empty or
// "*" Method matches every method. A Pattern ending in "/**" matches the
// prefix itself and everything below it; any other pattern matches exactly.
type Rule struct {
	Method  string
	Pattern string
	Access  Access
	Role    string
}

func (r Rule) matches(method, path string) bool {
	if r.Method != "" && r.Method != "*" && !strings.EqualFold(r.Method, method) {
		return false
	}
	if prefix, ok := strings.CutSuffix(r.Pattern, "/**"); ok {
		return path == prefix || strings.HasPrefix(path, prefix+"/")
	}
	return path == r.Pattern
}

// Policy is an ordered, immutable rule table. The first matching rule wins;
// requests matching no rule are permitted.
type Policy struct {
	rules []Rule
}

// NewPolicy copies rules into a Policy.
func NewPolicy(rules ...Rule) Policy {
	return Policy{rules: append([]Rule(nil), rules...)}
}

// DefaultPolicy protects the book catalogue: reads need an identity,
// writes need the ADMIN role. Everything else is open.
func DefaultPolicy() Policy {
	return NewPolicy(
		Rule{Method: http.MethodGet, Pattern: "/books/**", Access: Authenticated},
		Rule{Method: http.MethodPost, Pattern: "/books/**", Access: HasRole, Role: domain.RoleAdmin},
		Rule{Method: http.MethodPut, Pattern: "/books/**", Access: HasRole, Role: domain.RoleAdmin},
		Rule{Method: http.MethodPatch, Pattern: "/books/**", Access: HasRole, Role: domain.RoleAdmin},
		Rule{Method: http.MethodDelete, Pattern: "/books/**", Access: HasRole, Role: domain.RoleAdmin},
	)
}

// Rules returns a copy of the table.
func (p Policy) Rules() []Rule {
	return append([]Rule(nil), p.rules...)
}

// Match returns the rule governing method and path.
func (p Policy) Match(method, path string) Rule {
	for _, r := range p.rules {
		if r.matches(method, path) {
			return r
		}
	}
	return Rule{Method: "*", Pattern: "/**", Access: PermitAll}
}

// Authorize enforces p against the principal set by Authenticate.
func Authorize(p Policy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rule := p.Match(c.Request().Method, c.Request().URL.Path)
			if rule.Access == PermitAll {
				return next(c)
			}

			principal := PrincipalFrom(c)
			if principal == nil {
				return domain.ErrUnauthenticated
			}
			if rule.Access == HasRole && !principal.HasRole(rule.Role) {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
