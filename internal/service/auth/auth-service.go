package auth

import (
	"acadeemia/entity"
	"acadeemia/internal/lib/sl"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var ErrUserExists = errors.New("an account with this email already exists")

type Repository interface {
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	SaveUser(ctx context.Context, user *entity.User) error
	DeleteUser(ctx context.Context, id string) error
}

// Service is the identity store: it owns user records and password hashes.
type Service struct {
	repository Repository
	cost       int
	log        *slog.Logger
}

func NewAuthService(logger *slog.Logger) *Service {
	return &Service{
		cost: bcrypt.DefaultCost,
		log:  logger.With(sl.Module("auth-service")),
	}
}

func (s *Service) SetRepository(repository Repository) {
	s.repository = repository
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// GetUserByEmail returns nil when there is no account with the email.
func (s *Service) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	if s.repository == nil {
		return nil, fmt.Errorf("repository not set")
	}
	return s.repository.GetUserByEmail(ctx, normalizeEmail(email))
}

// CreateUser stores a new identity with a bcrypt hash of the password.
// Metadata may carry role and school_id.
func (s *Service) CreateUser(ctx context.Context, email, password string, metadata map[string]string) (*entity.User, error) {
	email = normalizeEmail(email)

	existing, err := s.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("checking existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := entity.NewUser(email, string(hash), metadata)
	if err = s.repository.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	s.log.With(
		slog.String("user_id", user.ID),
		slog.String("school_id", user.SchoolID),
	).Info("user created")
	return user, nil
}

func (s *Service) DeleteUser(ctx context.Context, id string) error {
	if s.repository == nil {
		return fmt.Errorf("repository not set")
	}
	return s.repository.DeleteUser(ctx, id)
}

// CheckPassword reports whether password matches the stored hash of user.
func (s *Service) CheckPassword(user *entity.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}
