package handler

import "github.com/bl00dPhant0m/LiquiBase/internal/core/domain"

type createUserRequest struct {
	Username string   `json:"username" validate:"required,max=255"`
	Password string   `json:"password" validate:"required,max=72"`
	Roles    []string `json:"roles"`
}

func (r createUserRequest) toDomain() domain.User {
	return domain.User{Username: r.Username, Password: r.Password, Roles: r.Roles}
}

// updateUserRequest changes credentials only; roles are fixed at creation.
type updateUserRequest struct {
	Username string `json:"username" validate:"required,max=255"`
	Password string `json:"password" validate:"required,max=72"`
}

func (r updateUserRequest) toDomain() domain.User {
	return domain.User{Username: r.Username, Password: r.Password}
}

// userResponse never carries the password hash.
type userResponse struct {
	ID       int64    `json:"id"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

func toUserResponse(u *domain.User) userResponse {
	roles := u.Roles
	if roles == nil {
		roles = []string{}
	}
	return userResponse{ID: u.ID, Username: u.Username, Roles: roles}
}
