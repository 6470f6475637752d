package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/praxislabs/praxis-backend/internal/model"
	"github.com/praxislabs/praxis-backend/internal/repository"
	"github.com/praxislabs/praxis-backend/internal/session"
	"github.com/praxislabs/praxis-backend/internal/storage"
)

// Common auth errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// AuthService handles registration, login and session lifecycle.
type AuthService struct {
	users      *repository.UserRepository
	sessions   *session.Store
	bcryptCost int
	log        zerolog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(users *repository.UserRepository, sessions *session.Store, bcryptCost int, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:      users,
		sessions:   sessions,
		bcryptCost: bcryptCost,
		log:        log.With().Str("component", "auth_service").Logger(),
	}
}

// Register creates a student account with a bcrypt-hashed password.
func (s *AuthService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	u, err := s.users.Create(ctx, req.Email, req.Name, string(hash), model.RoleStudent)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", u.ID.String()).Msg("User registered")
	return u, nil
}

// Login verifies credentials and opens a session. A missing user and a
// wrong password both report ErrInvalidCredentials so the response does
// not leak which addresses exist.
func (s *AuthService) Login(ctx context.Context, req *model.LoginRequest) (string, *model.User, error) {
	u, err := s.users.FindByEmail(ctx, req.Email)
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.sessions.Create(u, req.RememberMe)
	if err != nil {
		return "", nil, err
	}

	s.log.Debug().Str("user_id", u.ID.String()).Bool("remember_me", req.RememberMe).Msg("Session created")
	return token, u, nil
}

// Logout invalidates the session token.
func (s *AuthService) Logout(token string) {
	s.sessions.Delete(token)
}
