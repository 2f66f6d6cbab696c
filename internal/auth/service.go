package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/meridian-lms/meridian-lms/internal/shared"
)

// Service wraps authentication business rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Authenticate validates email/password credentials and resolves the
// account's role names. Roles are resolved once here and carried in the
// session payload for the rest of the session's life.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, []string, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, nil, shared.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, shared.ErrInvalidCredentials
	}
	roles, err := s.repo.ListRoleNames(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, roles, nil
}
