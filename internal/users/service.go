package users

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/minimart-pos/minimart-pos/internal/shared"
)

// RepositoryPort abstracts repository usage for service.
type RepositoryPort interface {
	Get(ctx context.Context, id int64) (User, error)
	List(ctx context.Context) ([]User, error)
	Insert(ctx context.Context, input CreateUserInput, passwordHash string) (int64, error)
}

// Service wraps account business rules.
type Service struct {
	repo RepositoryPort
}

// NewService constructs a new Service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Create hashes the password and persists the account. Defaults are applied
// here, once, so they are visible in the creation contract.
func (s *Service) Create(ctx context.Context, input CreateUserInput) (User, error) {
	if input.Username == "" || input.Password == "" {
		return User{}, fmt.Errorf("users: username and password required: %w", shared.ErrValidation)
	}
	if input.Role == "" {
		input.Role = RoleCashier
	}
	if input.Shift == "" {
		input.Shift = ShiftMorning
	}
	if !input.Shift.Valid() {
		return User{}, fmt.Errorf("users: unknown shift %q: %w", input.Shift, shared.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}
	id, err := s.repo.Insert(ctx, input, string(hash))
	if err != nil {
		return User{}, err
	}
	return s.repo.Get(ctx, id)
}

// Get resolves a user by id.
func (s *Service) Get(ctx context.Context, id int64) (User, error) {
	return s.repo.Get(ctx, id)
}

// List returns all accounts.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}
