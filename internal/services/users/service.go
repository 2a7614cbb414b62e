package users

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/rafa3lsilva/Sistema-Inventario/internal/apperr"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/models"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/utils"
)

// ErrInvalidCredentials is returned by Login for an unknown user or a wrong
// password alike.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrAdminExists is returned when a second administrator is requested.
var ErrAdminExists = errors.New("an administrator already exists")

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Register creates an account. Only one administrator may exist; asking
// for a second one fails with ErrAdminExists wrapped as a conflict.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, apperr.Validation("username", "is required")
	}
	if in.Password == "" {
		return nil, apperr.Validation("password", "is required")
	}

	role := strings.ToLower(strings.TrimSpace(in.Role))
	switch role {
	case "":
		role = models.RoleUser
	case models.RoleUser, models.RoleAdmin:
	default:
		return nil, apperr.Validation("role", "must be %q or %q", models.RoleUser, models.RoleAdmin)
	}

	if role == models.RoleAdmin {
		admins, err := s.store.CountByRole(ctx, models.RoleAdmin)
		if err != nil {
			return nil, err
		}
		if admins > 0 {
			return nil, fmt.Errorf("%w: %w", apperr.ErrConflict, ErrAdminExists)
		}
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u := &models.User{Username: username, Password: hash, Role: role}
	if email := strings.TrimSpace(in.Email); email != "" {
		u.Email = &email
	}
	if err := s.store.Create(ctx, u); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return nil, fmt.Errorf("%w: username or email already in use", err)
		}
		log.Printf("❌ Failed to create user %s: %v", username, err)
		return nil, err
	}

	log.Printf("👤 User created: %s (%s)", username, role)
	return u, nil
}

// Login accepts a username or an email.
func (s *Service) Login(ctx context.Context, identifier, password string) (*models.User, error) {
	u, err := s.store.FindByLogin(ctx, strings.TrimSpace(identifier))
	if err != nil {
		return nil, err
	}
	if u == nil || !utils.CheckPasswordHash(password, u.Password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// HasAdmin drives first-run setup: the first account may claim the admin role.
func (s *Service) HasAdmin(ctx context.Context) (bool, error) {
	n, err := s.store.CountByRole(ctx, models.RoleAdmin)
	return n > 0, err
}

func (s *Service) Get(ctx context.Context, id string) (*models.User, error) {
	u, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.ErrNotFound
	}
	return u, nil
}

func (s *Service) List(ctx context.Context) ([]models.User, error) {
	return s.store.List(ctx)
}

// Usernames lists every username, sorted.
func (s *Service) Usernames(ctx context.Context) ([]string, error) {
	users, err := s.store.List(ctx)
	if err != nil {
		return []string{}, err
	}
	names := make([]string, len(users))
	for i, u := range users {
		names[i] = u.Username
	}
	return names, nil
}

// Delete removes the account. Its counts stay in the ledger.
func (s *Service) Delete(ctx context.Context, username string) error {
	n, err := s.store.DeleteByUsername(ctx, username)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	log.Printf("🗑️ User deleted: %s", username)
	return nil
}
