package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/praxislabs/praxis-backend/internal/model"
	"github.com/praxislabs/praxis-backend/internal/storage"
)

// ErrEmailTaken is returned when a registration reuses an existing email.
var ErrEmailTaken = errors.New("email already registered")

// UserRepository handles account persistence with a unique email index.
type UserRepository struct {
	backend storage.Backend
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(backend storage.Backend) *UserRepository {
	return &UserRepository{backend: backend}
}

// FindByID retrieves a user by id.
func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u := &model.User{}
	if err := getDoc(ctx, r.backend, Key.UserKey(id), u); err != nil {
		return nil, err
	}
	return u, nil
}

// FindByEmail retrieves a user through the email index.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var idx indexRef
	if err := getDoc(ctx, r.backend, Key.UserEmailIndexKey(normalizeEmail(email)), &idx); err != nil {
		return nil, err
	}
	id, err := uuid.Parse(idx.ID)
	if err != nil {
		return nil, storage.ErrNotFound
	}
	return r.FindByID(ctx, id)
}

// Create persists a new user and claims the email index entry.
// Returns ErrEmailTaken if the address is already registered.
func (r *UserRepository) Create(ctx context.Context, email, name, passwordHash string, role model.Role) (*model.User, error) {
	email = normalizeEmail(email)
	idxKey := Key.UserEmailIndexKey(email)

	taken, err := r.backend.Exists(ctx, idxKey)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	now := time.Now().UTC()
	u := &model.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		Role:         role,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := saveDoc(ctx, r.backend, Key.UserKey(u.ID), u); err != nil {
		return nil, err
	}
	if err := r.backend.Save(ctx, idxKey, marshalRef(u.ID), storage.SaveOptions{}); err != nil {
		return nil, err
	}
	return u, nil
}

// Delete removes a user and their email index entry.
func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	u, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	failed, err := r.backend.BulkDelete(ctx, []string{
		Key.UserKey(id),
		Key.UserEmailIndexKey(u.Email),
	})
	if err != nil {
		return err
	}
	if len(failed) > 0 {
		return failed[0].Err
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
