package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"codecanvas-backend/internal/models"
)

type userStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Count(ctx context.Context) (int64, error)
}

type AuthService struct {
	users userStore
}

func NewAuthService(users userStore) *AuthService {
	return &AuthService{users: users}
}

func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	// Validate all fields at once
	fieldErrors := make(map[string]string)

	if strings.TrimSpace(req.Username) == "" {
		fieldErrors["username"] = "Username is required"
	}
	if req.Password == "" {
		fieldErrors["password"] = "Password is required"
	}
	if strings.TrimSpace(req.Email) == "" {
		fieldErrors["email"] = "Email is required"
	}

	if len(fieldErrors) > 0 {
		return nil, &ValidationError{Fields: fieldErrors}
	}

	// Hash password (bcrypt cost 12); the plaintext is never stored or logged
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     strings.TrimSpace(req.Username),
		PasswordHash: string(hash),
		Email:        strings.TrimSpace(req.Email),
	}

	// Uniqueness is enforced by the store's constraint, not a pre-check,
	// so two racing registrations cannot both succeed.
	if err := s.users.Create(ctx, user); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, &DuplicateUsernameError{Username: user.Username}
		}
		return nil, err
	}

	return user, nil
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.User, error) {
	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &InvalidCredentialsError{}
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, &InvalidCredentialsError{}
	}

	return user, nil
}

// SeedUsers inserts the configured seed accounts, at most once: it is a
// no-op whenever the users table already has rows.
func (s *AuthService) SeedUsers(ctx context.Context, seeds []models.SeedUser) error {
	if len(seeds) == 0 {
		return nil
	}

	count, err := s.users.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, seed := range seeds {
		_, err := s.Register(ctx, models.RegisterRequest{
			Username: seed.Username,
			Password: seed.Password,
			Email:    seed.Email,
		})
		if err != nil {
			var dup *DuplicateUsernameError
			if errors.As(err, &dup) {
				// Another instance seeded concurrently
				continue
			}
			return fmt.Errorf("failed to seed user %q: %w", seed.Username, err)
		}
		log.Printf("Seeded user %q", seed.Username)
	}

	return nil
}
