// Package mongodb provides a MongoDB-backed credential validator for
// deployments where the demo in-memory user set is not enough. Sessions are
// never persisted here; only user records are.
package mongodb

import (
	"context"
	"errors"
	"strings"

	"auth-service/internal/auth/domain/model"
	"auth-service/internal/auth/domain/repository"
	apperrors "auth-service/internal/shared/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

const component = "mongodb_user_repository"

// infraError wraps a driver failure so callers see an infrastructure error
// rather than a bare driver message. Domain outcomes keep their sentinels.
func infraError(message string, cause error) error {
	return apperrors.NewInfrastructureError(message).
		WithComponent(component).
		WithCause(cause)
}

// UserRepository implements repository.UserRepository using MongoDB
type UserRepository struct {
	users *mongo.Collection
}

// NewUserRepository creates a new MongoDB user repository and ensures the
// indexes it relies on.
func NewUserRepository(db *mongo.Database) (*UserRepository, error) {
	repo := &UserRepository{
		users: db.Collection("users"),
	}

	ctx := context.Background()

	usernameIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := repo.users.Indexes().CreateOne(ctx, usernameIndex); err != nil {
		return nil, infraError("failed to create username index", err)
	}

	idIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := repo.users.Indexes().CreateOne(ctx, idIndex); err != nil {
		return nil, infraError("failed to create id index", err)
	}

	return repo, nil
}

// CreateUser inserts a user record, hashing the given plaintext password.
func (r *UserRepository) CreateUser(ctx context.Context, user *model.User, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	doc := bson.M{
		"id":            user.ID,
		"username":      strings.ToLower(user.Username),
		"email":         user.Email,
		"password_hash": string(hash),
	}

	if _, err = r.users.InsertOne(ctx, doc); err != nil {
		return infraError("failed to insert user", err)
	}
	return nil
}

// ValidateCredentials checks a username/password pair against the users
// collection. Unknown username and wrong password both fail with
// model.ErrInvalidCredentials.
func (r *UserRepository) ValidateCredentials(ctx context.Context, username, password string) (*model.User, error) {
	var user model.User
	err := r.users.FindOne(ctx, bson.M{"username": strings.ToLower(username)}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrInvalidCredentials
		}
		return nil, infraError("failed to look up user by username", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}
	return user.Public(), nil
}

// GetUserByID returns the user with the given ID.
func (r *UserRepository) GetUserByID(ctx context.Context, id int) (*model.User, error) {
	var user model.User
	err := r.users.FindOne(ctx, bson.M{"id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrUserNotFound
		}
		return nil, infraError("failed to look up user by id", err)
	}
	return user.Public(), nil
}

// Ensure UserRepository implements the UserRepository interface
var _ repository.UserRepository = (*UserRepository)(nil)
