package security

import (
	"context"
	"errors"
	"time"

	"auth-service/internal/auth/config"
	"auth-service/internal/auth/domain/model"
	"auth-service/internal/auth/domain/repository"
	"auth-service/internal/shared/metrics"

	"github.com/golang-jwt/jwt/v5"
)

// JWTokenService implements JWT token generation and validation. Tokens are
// self-contained: no server-side state records their existence, and there is
// no revocation. Rotating the signing key invalidates all outstanding tokens.
type JWTokenService struct {
	secretKey []byte
	issuer    string
	ttl       time.Duration
}

// NewJWTokenService creates a new JWT token service
func NewJWTokenService(cfg *config.Config) (*JWTokenService, error) {
	if cfg.JWTSecretKey == "" {
		return nil, errors.New("jwt secret key cannot be empty")
	}
	if cfg.JWTIssuer == "" {
		return nil, errors.New("jwt issuer cannot be empty")
	}
	if cfg.AccessTokenTTL <= 0 {
		return nil, errors.New("jwt access token TTL must be positive")
	}

	return &JWTokenService{
		secretKey: []byte(cfg.JWTSecretKey),
		issuer:    cfg.JWTIssuer,
		ttl:       cfg.AccessTokenTTL,
	}, nil
}

// GenerateToken generates a new signed token carrying the user's identity
func (s *JWTokenService) GenerateToken(ctx context.Context, user *model.User) (string, error) {
	now := time.Now()
	claims := &repository.Claims{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

// ValidateToken validates a token and returns the claims. Expired tokens fail
// with repository.ErrTokenExpired; any other defect fails with ErrTokenInvalid
// so the caller can distinguish a refreshable token from a forged one.
func (s *JWTokenService) ValidateToken(ctx context.Context, tokenString string) (*repository.Claims, error) {
	if tokenString == "" {
		metrics.TokenVerifications.WithLabelValues("invalid").Inc()
		return nil, repository.ErrTokenInvalid
	}

	token, err := jwt.ParseWithClaims(tokenString, &repository.Claims{}, s.keyFunc)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			metrics.TokenVerifications.WithLabelValues("expired").Inc()
			return nil, repository.ErrTokenExpired
		}
		metrics.TokenVerifications.WithLabelValues("invalid").Inc()
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, repository.ErrTokenSignatureInvalid
		}
		return nil, repository.ErrTokenInvalid
	}

	claims, ok := token.Claims.(*repository.Claims)
	if !ok || !token.Valid {
		metrics.TokenVerifications.WithLabelValues("invalid").Inc()
		return nil, repository.ErrTokenInvalid
	}

	metrics.TokenVerifications.WithLabelValues("valid").Inc()
	return claims, nil
}

// RefreshToken mints a fresh token from an expired but authentically signed
// one. The signature must verify; only the expiry may have passed. A token
// with a bad signature or malformed payload fails with repository.ErrTokenInvalid.
func (s *JWTokenService) RefreshToken(ctx context.Context, tokenString string) (string, error) {
	if tokenString == "" {
		return "", repository.ErrTokenInvalid
	}

	// Skip claims validation so an expired exp does not reject the parse;
	// the signature check still runs.
	token, err := jwt.ParseWithClaims(tokenString, &repository.Claims{}, s.keyFunc, jwt.WithoutClaimsValidation())
	if err != nil || !token.Valid {
		return "", repository.ErrTokenInvalid
	}

	claims, ok := token.Claims.(*repository.Claims)
	if !ok {
		return "", repository.ErrTokenInvalid
	}

	return s.GenerateToken(ctx, claims.Identity())
}

func (s *JWTokenService) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, repository.ErrTokenSignatureInvalid
	}
	return s.secretKey, nil
}

// Ensure JWTokenService implements the TokenService interface
var _ repository.TokenService = (*JWTokenService)(nil)
