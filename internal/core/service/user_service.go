package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/bl00dPhant0m/LiquiBase/internal/core/domain"
	"github.com/bl00dPhant0m/LiquiBase/internal/core/ports"
	"github.com/bl00dPhant0m/LiquiBase/internal/pkg/metrics"
)

type UserService struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, hasher ports.PasswordHasher, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, hasher: hasher, logger: logger}
}

// Save hashes the plaintext password and stores the user. The returned
// record carries the hash, never the plaintext.
func (s *UserService) Save(ctx context.Context, user domain.User) (*domain.User, error) {
	hash, err := s.hasher.Hash(user.Password)
	if err != nil {
		return nil, err
	}

	user.ID = 0
	user.Password = hash
	user.Roles = domain.NormalizeRoles(user.Roles)

	if err := s.repo.Create(ctx, &user); err != nil {
		return nil, err
	}

	metrics.UsersCreatedTotal.Inc()
	s.logger.Info().Int64("user_id", user.ID).Str("username", user.Username).Strs("roles", user.Roles).Msg("user created")
	return &user, nil
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.repo.FindByUsername(ctx, username)
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("user_id", id).Msg("user deleted")
	return nil
}

// Update overwrites username and password. The password is hashed the same
// way Save does it; roles are kept.
func (s *UserService) Update(ctx context.Context, id int64, user domain.User) (*domain.User, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(user.Password)
	if err != nil {
		return nil, err
	}
	current.Username = user.Username
	current.Password = hash

	if err := s.repo.Update(ctx, current); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("user_id", id).Msg("user updated")
	return current, nil
}

// EnsureAdmin creates an ADMIN account for username unless one with that
// name already exists. Used to bootstrap a fresh database.
func (s *UserService) EnsureAdmin(ctx context.Context, username, password string) error {
	_, err := s.repo.FindByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	_, err = s.Save(ctx, domain.User{
		Username: username,
		Password: password,
		Roles:    []string{domain.RoleAdmin},
	})
	return err
}
