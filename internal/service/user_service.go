package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"activity-tracker/internal/domain"
	"activity-tracker/internal/metrics"
	"activity-tracker/internal/repository"
)

// CreateUserInput carries the fields accepted when creating a user.
type CreateUserInput struct {
	Name  string
	Email string
	Role  string
}

// UserService describes user lifecycle operations.
type UserService interface {
	CreateUser(ctx context.Context, in CreateUserInput) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
}

type userService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) CreateUser(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)

	if name == "" {
		return nil, domain.NewValidationError("name", "name is required")
	}
	if email == "" {
		return nil, domain.NewValidationError("email", "email is required")
	}

	role := domain.RoleMember
	if r := strings.TrimSpace(in.Role); r != "" {
		role = domain.Role(r)
		if !role.Valid() {
			return nil, domain.NewValidationError("role", "role must be one of admin, member")
		}
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrEmailTaken
	}

	// the unique index still rejects a concurrent insert of the same email
	user := &domain.User{
		Name:      name,
		Email:     email,
		Role:      role,
		CreatedAt: domain.Now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	metrics.UsersCreated.WithLabelValues(string(user.Role)).Inc()
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}
