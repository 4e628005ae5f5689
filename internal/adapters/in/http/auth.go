package http

import (
	"net/http"
	"strings"

	"grocery/internal/core/domain/model/kernel"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// actorContextKey is where the JWT middleware stores the authenticated actor.
const actorContextKey = "actor"

// AuthMiddleware validates the bearer token and resolves it into a
// kernel.Actor. Tokens are HS256 signed and carry the acting party's ID in
// "sub" and its role in "role". Handlers read the actor back through
// actorFromContext and pass it explicitly into commands; nothing downstream
// touches the token.
func AuthMiddleware(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			header := ctx.Request().Header.Get(echo.HeaderAuthorization)
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}

			actor, err := actorFromToken(token, secret)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			ctx.Set(actorContextKey, actor)
			return next(ctx)
		}
	}
}

// actorFromToken parses and verifies a signed token into an Actor.
func actorFromToken(token string, secret []byte) (kernel.Actor, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return kernel.Actor{}, err
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return kernel.Actor{}, jwt.ErrTokenInvalidClaims
	}

	subject, err := claims.GetSubject()
	if err != nil {
		return kernel.Actor{}, err
	}
	id, err := kernel.UUIDFromString(subject)
	if err != nil {
		return kernel.Actor{}, err
	}

	roleName, _ := claims["role"].(string)
	role, err := kernel.RoleFromString(roleName)
	if err != nil {
		return kernel.Actor{}, err
	}

	return kernel.NewActor(id, role)
}

// actorFromContext returns the actor the middleware authenticated.
func actorFromContext(ctx echo.Context) (kernel.Actor, error) {
	actor, ok := ctx.Get(actorContextKey).(kernel.Actor)
	if !ok {
		return kernel.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "no authenticated actor")
	}
	return actor, nil
}
