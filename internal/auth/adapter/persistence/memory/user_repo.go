package memory

import (
	"context"
	"strings"
	"sync"

	"auth-service/internal/auth/domain/model"
	"auth-service/internal/auth/domain/repository"

	"golang.org/x/crypto/bcrypt"
)

// demoUsers are the built-in demonstration accounts.
var demoUsers = []struct {
	id       int
	username string
	password string
	email    string
}{
	{1, "alice", "alice123", "alice@example.com"},
	{2, "bob", "bob456", "bob@example.com"},
	{3, "carol", "carol789", "carol@example.com"},
}

// UserRepository implements repository.UserRepository with a fixed in-memory
// user set. Passwords are bcrypt-hashed at construction; plaintext is never
// retained.
type UserRepository struct {
	mu         sync.RWMutex
	byID       map[int]*model.User
	byUsername map[string]*model.User
	nextID     int
}

// NewUserRepository creates a repository seeded with the demo users.
func NewUserRepository() (*UserRepository, error) {
	repo := &UserRepository{
		byID:       make(map[int]*model.User),
		byUsername: make(map[string]*model.User),
		nextID:     1,
	}

	for _, u := range demoUsers {
		if err := repo.seed(u.id, u.username, u.password, u.email); err != nil {
			return nil, err
		}
	}
	return repo, nil
}

// AddUser registers an additional user, hashing the password. Mainly useful
// for tests and local experimentation. The ID is claimed and the record
// inserted under one critical section so concurrent calls never collide.
func (r *UserRepository) AddUser(username, password, email string) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	id := r.nextID
	r.nextID++
	user := &model.User{
		ID:           id,
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	r.byID[id] = user
	r.byUsername[strings.ToLower(username)] = user
	r.mu.Unlock()

	return user.Public(), nil
}

func (r *UserRepository) seed(id int, username, password, email string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &model.User{
		ID:           id,
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[id] = user
	r.byUsername[strings.ToLower(username)] = user
	if id >= r.nextID {
		r.nextID = id + 1
	}
	return nil
}

// ValidateCredentials checks a username/password pair. Unknown username and
// wrong password both fail with model.ErrInvalidCredentials.
func (r *UserRepository) ValidateCredentials(ctx context.Context, username, password string) (*model.User, error) {
	r.mu.RLock()
	user, ok := r.byUsername[strings.ToLower(username)]
	r.mu.RUnlock()

	if !ok {
		return nil, model.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}
	return user.Public(), nil
}

// GetUserByID returns the user with the given ID.
func (r *UserRepository) GetUserByID(ctx context.Context, id int) (*model.User, error) {
	r.mu.RLock()
	user, ok := r.byID[id]
	r.mu.RUnlock()

	if !ok {
		return nil, model.ErrUserNotFound
	}
	return user.Public(), nil
}

// Ensure UserRepository implements the UserRepository interface
var _ repository.UserRepository = (*UserRepository)(nil)
