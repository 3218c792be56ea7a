package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/cristianortiz/bidmarket/internal/shared/apperror"
	"github.com/cristianortiz/bidmarket/internal/shared/identity"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultProvider is the login provider of email/password accounts.
const DefaultProvider = "local"

// AccessClaims is the payload of an access token.
type AccessClaims struct {
	UserID     uuid.UUID     `json:"userId"`
	Email      string        `json:"email"`
	Role       identity.Role `json:"role"`
	Username   string        `json:"username"`
	Provider   string        `json:"provider"`
	IsVerified bool          `json:"isVerified"`
	IsBanned   bool          `json:"isBanned"`
	jwt.RegisteredClaims
}

// Actor converts the claims into the caller identity passed to services.
func (c *AccessClaims) Actor() identity.Actor {
	return identity.Actor{
		UserID:     c.UserID,
		Email:      c.Email,
		Username:   c.Username,
		Role:       c.Role,
		Provider:   c.Provider,
		IsVerified: c.IsVerified,
		IsBanned:   c.IsBanned,
	}
}

// RefreshClaims is the payload of a refresh token. The jti makes every issued
// token unique even when two are signed within the same second.
type RefreshClaims struct {
	UserID   uuid.UUID `json:"userId"`
	Provider string    `json:"provider"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// TokenIssuer issues and verifies the HS256 access/refresh token pair.
type TokenIssuer interface {
	GenerateTokens(actor identity.Actor) (TokenPair, error)
	VerifyAccessToken(token string) (*AccessClaims, error)
	VerifyRefreshToken(token string) (*RefreshClaims, error)
}

type JWTService struct {
	accessKey  []byte
	refreshKey []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewJWTService(accessKey, refreshKey string, accessTTL, refreshTTL time.Duration) *JWTService {
	return &JWTService{
		accessKey:  []byte(accessKey),
		refreshKey: []byte(refreshKey),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

func (s *JWTService) GenerateTokens(actor identity.Actor) (TokenPair, error) {
	now := s.now()
	provider := actor.Provider
	if provider == "" {
		provider = DefaultProvider
	}

	access := AccessClaims{
		UserID:     actor.UserID,
		Email:      actor.Email,
		Role:       actor.Role,
		Username:   actor.Username,
		Provider:   provider,
		IsVerified: actor.IsVerified,
		IsBanned:   actor.IsBanned,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, access).SignedString(s.accessKey)
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}

	refresh := RefreshClaims{
		UserID:   actor.UserID,
		Provider: provider,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   actor.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.refreshTTL)),
		},
	}
	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refresh).SignedString(s.refreshKey)
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}

	return TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *JWTService) VerifyAccessToken(token string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := s.parse(token, claims, s.accessKey); err != nil {
		return nil, classify(err, apperror.ErrAccessTokenExpired, apperror.ErrInvalidAccessToken, apperror.ErrUnknownAccessToken)
	}
	return claims, nil
}

func (s *JWTService) VerifyRefreshToken(token string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := s.parse(token, claims, s.refreshKey); err != nil {
		return nil, classify(err, apperror.ErrRefreshTokenExpired, apperror.ErrInvalidRefreshToken, apperror.ErrUnknownRefreshToken)
	}
	return claims, nil
}

func (s *JWTService) parse(token string, claims jwt.Claims, key []byte) error {
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	return err
}

func classify(err error, expired, invalid, unknown *apperror.Error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return expired
	case errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable),
		errors.Is(err, jwt.ErrTokenNotValidYet),
		errors.Is(err, jwt.ErrTokenInvalidClaims):
		return invalid
	default:
		return unknown
	}
}
