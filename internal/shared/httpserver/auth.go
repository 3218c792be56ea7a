package httpserver

import (
	"context"
	"errors"
	"strings"

	"github.com/cristianortiz/bidmarket/internal/shared/apperror"
	"github.com/cristianortiz/bidmarket/internal/shared/identity"
	"github.com/cristianortiz/bidmarket/internal/shared/security"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const actorKey = "actor"

type AccessTokenVerifier interface {
	VerifyAccessToken(token string) (*security.AccessClaims, error)
}

// ActorLoader reads the current account state of a token subject, so a ban or
// a verification takes effect before the token expires.
type ActorLoader interface {
	LoadActor(ctx context.Context, userID uuid.UUID) (identity.Actor, error)
}

// Authenticator builds the auth middlewares of the API.
type Authenticator struct {
	tokens   AccessTokenVerifier
	accounts ActorLoader
}

func NewAuthenticator(tokens AccessTokenVerifier, accounts ActorLoader) *Authenticator {
	return &Authenticator{tokens: tokens, accounts: accounts}
}

// Required rejects requests without a valid bearer token of a verified,
// non banned user.
func (a *Authenticator) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := a.authenticate(c)
		if err != nil {
			return err
		}
		c.Locals(actorKey, actor)
		return c.Next()
	}
}

// Optional attaches the caller when the token is valid and continues
// anonymously otherwise.
func (a *Authenticator) Optional() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get(fiber.HeaderAuthorization) == "" {
			return c.Next()
		}
		actor, err := a.authenticate(c)
		if err != nil {
			log.Debug("Optional auth ignored", zap.String("path", c.Path()), zap.Error(err))
			return c.Next()
		}
		c.Locals(actorKey, actor)
		return c.Next()
	}
}

func (a *Authenticator) authenticate(c *fiber.Ctx) (identity.Actor, error) {
	token, err := bearerToken(c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return identity.Actor{}, err
	}

	claims, err := a.tokens.VerifyAccessToken(token)
	if err != nil {
		return identity.Actor{}, err
	}

	actor, err := a.accounts.LoadActor(c.UserContext(), claims.UserID)
	if err != nil {
		var appErr *apperror.Error
		if errors.As(err, &appErr) {
			return identity.Actor{}, apperror.ErrInvalidAccessToken
		}
		return identity.Actor{}, err
	}
	actor.Provider = claims.Provider

	if !actor.IsVerified {
		return identity.Actor{}, apperror.ErrUserUnverified
	}
	if actor.IsBanned {
		return identity.Actor{}, apperror.ErrUserBanned
	}
	return actor, nil
}

func bearerToken(header string) (string, error) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", apperror.ErrMissingAuthHeader
	}
	return strings.TrimSpace(token), nil
}

// RequireRoles must run after Required.
func RequireRoles(roles ...identity.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := ActorFrom(c)
		for _, r := range roles {
			if actor.Role == r {
				return c.Next()
			}
		}
		return apperror.ErrUserForbidden
	}
}

// ActorFrom returns the caller attached by the auth middleware, or the
// anonymous actor.
func ActorFrom(c *fiber.Ctx) identity.Actor {
	actor, _ := c.Locals(actorKey).(identity.Actor)
	return actor
}
