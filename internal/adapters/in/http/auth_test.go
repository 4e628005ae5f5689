package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"grocery/internal/core/domain/model/kernel"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, secret []byte, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return token
}

// invokeAuth runs the middleware against a request carrying the given
// Authorization header and reports the actor the wrapped handler saw.
func invokeAuth(t *testing.T, authorization string) (kernel.Actor, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set(echo.HeaderAuthorization, authorization)
	}
	ctx := e.NewContext(req, httptest.NewRecorder())

	var actor kernel.Actor
	handler := AuthMiddleware(testSecret)(func(c echo.Context) error {
		resolved, err := actorFromContext(c)
		require.NoError(t, err)
		actor = resolved
		return c.NoContent(http.StatusOK)
	})

	return actor, handler(ctx)
}

func requireUnauthorized(t *testing.T, err error) {
	t.Helper()
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestAuthMiddlewareResolvesActor(t *testing.T) {
	shopperID := kernel.NewUUID()
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":  shopperID.String(),
		"role": "shopper",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	actor, err := invokeAuth(t, "Bearer "+token)

	require.NoError(t, err)
	assert.True(t, actor.ID().IsEqual(shopperID))
	assert.True(t, actor.Is(kernel.RoleShopper))
}

func TestAuthMiddlewareMissingToken(t *testing.T) {
	_, err := invokeAuth(t, "")
	requireUnauthorized(t, err)
}

func TestAuthMiddlewareWrongSecret(t *testing.T) {
	token := signToken(t, []byte("other-secret"), jwt.MapClaims{
		"sub":  kernel.NewUUID().String(),
		"role": "customer",
	})

	_, err := invokeAuth(t, "Bearer "+token)
	requireUnauthorized(t, err)
}

func TestAuthMiddlewareExpiredToken(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":  kernel.NewUUID().String(),
		"role": "customer",
		"exp":  time.Now().Add(-time.Hour).Unix(),
	})

	_, err := invokeAuth(t, "Bearer "+token)
	requireUnauthorized(t, err)
}

func TestAuthMiddlewareUnknownRole(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":  kernel.NewUUID().String(),
		"role": "superuser",
	})

	_, err := invokeAuth(t, "Bearer "+token)
	requireUnauthorized(t, err)
}

func TestAuthMiddlewareRejectsUnsignedToken(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub":  kernel.NewUUID().String(),
		"role": "admin",
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = invokeAuth(t, "Bearer "+token)
	requireUnauthorized(t, err)
}
