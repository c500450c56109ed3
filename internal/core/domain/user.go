package domain

import (
	"slices"
	"strings"
)

const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// rolePrefix is accepted on input for compatibility with clients that send
// authority names ("ROLE_ADMIN") instead of role labels.
const rolePrefix = "ROLE_"

// User models an account that can authenticate against the API.
// Password holds the bcrypt hash once the user has been saved.
type User struct {
	ID       int64    `json:"id"`
	Username string   `json:"username"`
	Password string   `json:"password"`
	Roles    []string `json:"roles"`
}

// NormalizeRoles upper-cases role labels, strips the ROLE_ prefix, drops
// blanks and duplicates. The result is sorted.
func NormalizeRoles(roles []string) []string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		r = strings.ToUpper(strings.TrimSpace(r))
		r = strings.TrimPrefix(r, rolePrefix)
		if r == "" || slices.Contains(out, r) {
			continue
		}
		out = append(out, r)
	}
	slices.Sort(out)
	return out
}

// Principal is the identity attached to an authenticated request.
type Principal struct {
	UserID   int64
	Username string
	Roles    []string
}

// HasRole reports whether the principal carries role.
func (p *Principal) HasRole(role string) bool {
	if p == nil {
		return false
	}
	return slices.Contains(p.Roles, role)
}

// PrincipalFor builds the request identity for a stored user.
func PrincipalFor(u *User) *Principal {
	return &Principal{
		UserID:   u.ID,
		Username: u.Username,
		Roles:    slices.Clone(u.Roles),
	}
}
