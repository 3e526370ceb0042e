package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/C-1995-O1-HALE-POPP/ris-system/domain/core/entities"
	"github.com/C-1995-O1-HALE-POPP/ris-system/domain/core/valueobjects"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrMissingToken     = errors.New("missing authentication token")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrRevokedToken     = errors.New("token has been revoked")
)

// Claims represents the JWT claims
type Claims struct {
	UserID   string `json:"sub"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Identity rebuilds the signed-in identity carried by the token.
func (c *Claims) Identity() entities.Identity {
	return entities.Identity{
		ID:       c.UserID,
		Username: c.Username,
		Name:     c.Name,
		Role:     valueobjects.Role(c.Role),
		Email:    c.Email,
	}
}

// TokenInfo identifies the token a request was authenticated with
type TokenInfo struct {
	ID        string
	ExpiresAt time.Time
}

// Token returns the id and expiry of the token
func (c *Claims) Token() TokenInfo {
	info := TokenInfo{ID: c.ID}
	if c.ExpiresAt != nil {
		info.ExpiresAt = c.ExpiresAt.Time
	}
	return info
}

// JWTConfig holds JWT configuration. Only HS256 is supported.
type JWTConfig struct {
	SecretKey  string
	Issuer     string
	Audience   []string
	ExpiryTime time.Duration
}

// JWTManager issues and validates session tokens.
type JWTManager struct {
	secretKey []byte
	issuer    string
	audience  []string
	expiry    time.Duration
	now       func() time.Time
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(config JWTConfig) (*JWTManager, error) {
	if config.SecretKey == "" {
		return nil, errors.New("secret key required for HS256")
	}
	if config.ExpiryTime <= 0 {
		config.ExpiryTime = 24 * time.Hour
	}
	return &JWTManager{
		secretKey: []byte(config.SecretKey),
		issuer:    config.Issuer,
		audience:  config.Audience,
		expiry:    config.ExpiryTime,
		now:       time.Now,
	}, nil
}

// GenerateToken signs a token for the identity.
func (m *JWTManager) GenerateToken(user entities.Identity) (string, error) {
	now := m.now()
	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		Name:     user.Name,
		Email:    user.Email,
		Role:     string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   user.ID,
			Audience:  m.audience,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secretKey)
}

// ValidateToken validates a JWT token and returns the claims
func (m *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	tokenString = strings.TrimSpace(strings.TrimPrefix(tokenString, "Bearer "))
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return m.secretKey, nil
	}, opts...)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrSignatureInvalid):
			return nil, ErrInvalidSignature
		case errors.Is(err, jwt.ErrTokenInvalidIssuer):
			return nil, fmt.Errorf("%w: invalid issuer", ErrInvalidClaims)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}

	if len(m.audience) > 0 && !audienceMatches(claims.Audience, m.audience) {
		return nil, fmt.Errorf("%w: invalid audience", ErrInvalidClaims)
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("%w: missing user ID", ErrInvalidClaims)
	}

	return claims, nil
}

func audienceMatches(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}

type contextKey string

const (
	UserContextKey  contextKey = "user"
	TokenContextKey contextKey = "token"
)

// GetUserFromContext extracts the authenticated identity from context
func GetUserFromContext(ctx context.Context) (entities.Identity, bool) {
	user, ok := ctx.Value(UserContextKey).(entities.Identity)
	return user, ok
}

// SetUserInContext adds the identity to context
func SetUserInContext(ctx context.Context, user entities.Identity) context.Context {
	return context.WithValue(ctx, UserContextKey, user)
}

// GetTokenFromContext returns the token the request was authenticated with
func GetTokenFromContext(ctx context.Context) (TokenInfo, bool) {
	info, ok := ctx.Value(TokenContextKey).(TokenInfo)
	return info, ok
}

// SetTokenInContext records the token the request was authenticated with
func SetTokenInContext(ctx context.Context, info TokenInfo) context.Context {
	return context.WithValue(ctx, TokenContextKey, info)
}
