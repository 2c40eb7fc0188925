package usecase

import (
	"context"
	"errors"

	"auth-service/internal/auth/config"
	"auth-service/internal/auth/domain/model"
	"auth-service/internal/auth/domain/repository"
	"auth-service/internal/shared/logger"
	"auth-service/internal/shared/metrics"
	"auth-service/internal/shared/utils"
)

var (
	ErrMissingCredentials        = errors.New("username and password are required")
	ErrInvalidCredentials        = errors.New("invalid credentials")
	ErrNoSessionPresented        = errors.New("no session found")
	ErrNoTokenPresented          = errors.New("no token provided")
	ErrInvalidOrExpiredSession   = errors.New("invalid or expired session")
	ErrInvalidToken              = errors.New("invalid token")
	ErrTokenExpiredRefreshFailed = errors.New("token expired and refresh failed")
	ErrSessionModeOnly           = errors.New("operation is only available in session mode")
)

// LoginRequest carries the credentials plus the request's network origin,
// which session mode records on the session.
type LoginRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginResult is the mode-dependent outcome of a successful login: session
// mode fills SessionID, token mode fills Token.
type LoginResult struct {
	User      *model.User
	SessionID string
	Token     string
}

// ProfileResult carries the resolved identity. In token mode, Refreshed marks
// that the presented token was expired and a replacement was minted; Token
// then holds the replacement.
type ProfileResult struct {
	User      *model.User
	Token     string
	Refreshed bool
}

// AuthUsecaseInterface is the authentication flow contract shared by both
// strategies. The credential argument is the session identifier in session
// mode and the bearer token in token mode.
type AuthUsecaseInterface interface {
	Mode() string
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	Logout(ctx context.Context, credential string) error
	GetProfile(ctx context.Context, credential string) (*ProfileResult, error)
	ListSessions(ctx context.Context, credential string) ([]model.Session, error)
	LogoutAll(ctx context.Context, credential string) (int, error)
	SessionStats(ctx context.Context) repository.SessionStats
}

// NewAuthUsecase selects the strategy for the configured mode. The choice is
// made once here; call sites never branch on the mode again.
func NewAuthUsecase(
	cfg *config.Config,
	users repository.UserRepository,
	store repository.SessionStore,
	tokenSvc repository.TokenService,
) AuthUsecaseInterface {
	if cfg.Mode == config.ModeToken {
		return &TokenAuthUsecase{
			users:    users,
			tokenSvc: tokenSvc,
			log:      logger.WithComponent("auth_usecase").WithFields(map[string]interface{}{"mode": config.ModeToken}),
		}
	}
	return &SessionAuthUsecase{
		users: users,
		store: store,
		log:   logger.WithComponent("auth_usecase").WithFields(map[string]interface{}{"mode": config.ModeSession}),
	}
}

// validateLogin runs the mode-independent part of login: the empty-field check
// happens before any lookup, and unknown username is indistinguishable from a
// wrong password.
func validateLogin(ctx context.Context, users repository.UserRepository, mode string, req LoginRequest) (*model.User, error) {
	if req.Username == "" || req.Password == "" {
		metrics.LoginAttempts.WithLabelValues(mode, "missing_credentials").Inc()
		return nil, ErrMissingCredentials
	}

	user, err := users.ValidateCredentials(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			metrics.LoginAttempts.WithLabelValues(mode, "invalid_credentials").Inc()
			return nil, ErrInvalidCredentials
		}
		metrics.LoginAttempts.WithLabelValues(mode, "error").Inc()
		return nil, err
	}

	metrics.LoginAttempts.WithLabelValues(mode, "success").Inc()
	return user, nil
}

// SessionAuthUsecase implements the stateful strategy: the server keeps the
// authoritative session record and the client holds only an opaque handle.
type SessionAuthUsecase struct {
	users repository.UserRepository
	store repository.SessionStore
	log   logger.Logger
}

func (uc *SessionAuthUsecase) Mode() string { return config.ModeSession }

// Login validates credentials and starts a session.
func (uc *SessionAuthUsecase) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	user, err := validateLogin(ctx, uc.users, config.ModeSession, req)
	if err != nil {
		return nil, err
	}

	sessionID, err := uc.store.Create(ctx, user.ID, req.IPAddress, req.UserAgent)
	if err != nil {
		return nil, err
	}

	ctx = utils.WithSessionID(utils.WithUserID(ctx, user.ID), sessionID)
	uc.log.WithContext(ctx).Info("Login successful")
	return &LoginResult{User: user, SessionID: sessionID}, nil
}

// Logout destroys the session if present. It always succeeds: logout is
// idempotent and leaks nothing about whether the session existed.
func (uc *SessionAuthUsecase) Logout(ctx context.Context, sessionID string) error {
	if sessionID != "" {
		uc.store.Destroy(ctx, sessionID)
	}
	return nil
}

// GetProfile resolves the session to its owning user.
func (uc *SessionAuthUsecase) GetProfile(ctx context.Context, sessionID string) (*ProfileResult, error) {
	if sessionID == "" {
		return nil, ErrNoSessionPresented
	}
	session, ok := uc.validate(ctx, sessionID)
	if !ok {
		return nil, ErrInvalidOrExpiredSession
	}

	user, err := uc.users.GetUserByID(ctx, session.UserID)
	if err != nil {
		// The owning user vanished since login; behave like an invalid
		// session rather than leaking the distinction.
		return nil, ErrInvalidOrExpiredSession
	}
	return &ProfileResult{User: user}, nil
}

// ListSessions returns all live sessions of the session's owner.
func (uc *SessionAuthUsecase) ListSessions(ctx context.Context, sessionID string) ([]model.Session, error) {
	if sessionID == "" {
		return nil, ErrNoSessionPresented
	}
	session, ok := uc.validate(ctx, sessionID)
	if !ok {
		return nil, ErrInvalidOrExpiredSession
	}
	return uc.store.ListByUser(ctx, session.UserID), nil
}

// LogoutAll destroys every session of the session's owner, the presented one
// included, and returns the count removed.
func (uc *SessionAuthUsecase) LogoutAll(ctx context.Context, sessionID string) (int, error) {
	if sessionID == "" {
		return 0, ErrNoSessionPresented
	}
	session, ok := uc.validate(ctx, sessionID)
	if !ok {
		return 0, ErrInvalidOrExpiredSession
	}

	count := uc.store.DestroyAllByUser(ctx, session.UserID)
	ctx = utils.WithUserID(ctx, session.UserID)
	uc.log.WithContext(ctx).WithFields(map[string]interface{}{"count": count}).Info("Logged out everywhere")
	return count, nil
}

// SessionStats exposes the store's snapshot.
func (uc *SessionAuthUsecase) SessionStats(ctx context.Context) repository.SessionStats {
	return uc.store.Stats(ctx)
}

func (uc *SessionAuthUsecase) validate(ctx context.Context, sessionID string) (*model.Session, bool) {
	if sessionID == "" {
		return nil, false
	}
	return uc.store.Validate(ctx, sessionID)
}

// TokenAuthUsecase implements the stateless strategy: the server retains no
// record of issued tokens, trading revocability for horizontal scalability.
type TokenAuthUsecase struct {
	users    repository.UserRepository
	tokenSvc repository.TokenService
	log      logger.Logger
}

func (uc *TokenAuthUsecase) Mode() string { return config.ModeToken }

// Login validates credentials and issues a signed token in the response body.
func (uc *TokenAuthUsecase) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	user, err := validateLogin(ctx, uc.users, config.ModeToken, req)
	if err != nil {
		return nil, err
	}

	token, err := uc.tokenSvc.GenerateToken(ctx, user)
	if err != nil {
		return nil, err
	}

	ctx = utils.WithUsername(utils.WithUserID(ctx, user.ID), user.Username)
	uc.log.WithContext(ctx).Info("Login successful")
	return &LoginResult{User: user, Token: token}, nil
}

// Logout is a no-op: there is nothing server-side to invalidate.
func (uc *TokenAuthUsecase) Logout(ctx context.Context, _ string) error {
	return nil
}

// GetProfile verifies the token and returns the embedded identity. An expired
// token triggers the refresh fallback: a replacement is minted from the
// still-identifiable payload and re-verified before the profile is returned
// with the Refreshed flag set. Each branch of this path is logged and counted.
func (uc *TokenAuthUsecase) GetProfile(ctx context.Context, token string) (*ProfileResult, error) {
	if token == "" {
		return nil, ErrNoTokenPresented
	}

	claims, err := uc.tokenSvc.ValidateToken(ctx, token)
	if err == nil {
		return &ProfileResult{User: claims.Identity()}, nil
	}

	if !errors.Is(err, repository.ErrTokenExpired) {
		uc.log.Warn("Rejected invalid token")
		return nil, ErrInvalidToken
	}

	newToken, refreshErr := uc.tokenSvc.RefreshToken(ctx, token)
	if refreshErr != nil {
		metrics.TokenRefreshes.WithLabelValues("failed").Inc()
		uc.log.Warn("Token expired and refresh failed")
		return nil, ErrTokenExpiredRefreshFailed
	}

	newClaims, verifyErr := uc.tokenSvc.ValidateToken(ctx, newToken)
	if verifyErr != nil {
		metrics.TokenRefreshes.WithLabelValues("failed").Inc()
		uc.log.Warn("Refreshed token failed re-verification")
		return nil, ErrTokenExpiredRefreshFailed
	}

	metrics.TokenRefreshes.WithLabelValues("success").Inc()
	ctx = utils.WithUserID(ctx, newClaims.UserID)
	uc.log.WithContext(ctx).Info("Expired token refreshed")
	return &ProfileResult{User: newClaims.Identity(), Token: newToken, Refreshed: true}, nil
}

// ListSessions is unavailable: no server-side session state exists.
func (uc *TokenAuthUsecase) ListSessions(ctx context.Context, _ string) ([]model.Session, error) {
	return nil, ErrSessionModeOnly
}

// LogoutAll is unavailable: issued tokens cannot be revoked.
func (uc *TokenAuthUsecase) LogoutAll(ctx context.Context, _ string) (int, error) {
	return 0, ErrSessionModeOnly
}

// SessionStats reports an empty snapshot; token mode keeps no sessions.
func (uc *TokenAuthUsecase) SessionStats(ctx context.Context) repository.SessionStats {
	return repository.SessionStats{}
}

// Ensure both strategies implement the flow interface
var (
	_ AuthUsecaseInterface = (*SessionAuthUsecase)(nil)
	_ AuthUsecaseInterface = (*TokenAuthUsecase)(nil)
)
