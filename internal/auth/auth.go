package auth

import (
	"errors"
	"fmt"

	authhttp "auth-service/internal/auth/adapter/http"
	"auth-service/internal/auth/adapter/persistence/memory"
	"auth-service/internal/auth/adapter/persistence/mongodb"
	"auth-service/internal/auth/adapter/security"
	"auth-service/internal/auth/config"
	"auth-service/internal/auth/domain/repository"
	"auth-service/internal/auth/usecase"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"
)

// Module represents the complete authentication module
type Module struct {
	users    repository.UserRepository
	store    repository.SessionStore
	tokenSvc repository.TokenService
	usecase  usecase.AuthUsecaseInterface
	handler  *authhttp.AuthHTTPHandler
	config   *config.Config
}

// NewModule wires the authentication module for the configured mode. db may
// be nil unless the config selects the mongo user store.
func NewModule(cfg *config.Config, db *mongo.Database) (*Module, error) {
	var users repository.UserRepository
	var err error

	switch cfg.UserStore {
	case config.UserStoreMongo:
		if db == nil {
			return nil, errors.New("mongo user store selected but no database provided")
		}
		users, err = mongodb.NewUserRepository(db)
		if err != nil {
			return nil, fmt.Errorf("failed to create mongo user repository: %w", err)
		}
	default:
		users, err = memory.NewUserRepository()
		if err != nil {
			return nil, fmt.Errorf("failed to create user repository: %w", err)
		}
	}

	store := memory.NewSessionStore(cfg.SessionTTL)

	tokenSvc, err := security.NewJWTokenService(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}

	authUsecase := usecase.NewAuthUsecase(cfg, users, store, tokenSvc)
	handler := authhttp.NewAuthHTTPHandler(authUsecase, cfg)

	return &Module{
		users:    users,
		store:    store,
		tokenSvc: tokenSvc,
		usecase:  authUsecase,
		handler:  handler,
		config:   cfg,
	}, nil
}

// RegisterRoutes registers authentication routes with the provided router
func (m *Module) RegisterRoutes(router fiber.Router) {
	m.handler.SetupAuthRoutes(router)
}

// GetUsecase returns the auth usecase for external access
func (m *Module) GetUsecase() usecase.AuthUsecaseInterface {
	return m.usecase
}

// SessionStore returns the session store backing session mode
func (m *Module) SessionStore() repository.SessionStore {
	return m.store
}
