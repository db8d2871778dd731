package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/media-review-api/internal/auth"
	"github.com/iliyamo/media-review-api/internal/model"
)

const testSecret = "test-jwt-secret"

func issueFor(t *testing.T, u model.User) string {
	t.Helper()
	tok, _, err := auth.IssueAccessToken(testSecret, u, time.Hour)
	require.NoError(t, err)
	return tok
}

// run sends a request through the given middleware in front of a handler
// that reports the resolved caller.
func run(mw echo.MiddlewareFunc, method, bearer string) (*httptest.ResponseRecorder, auth.Caller) {
	e := echo.New()
	var seen auth.Caller
	handler := func(c echo.Context) error {
		seen = CallerFrom(c)
		return c.NoContent(http.StatusOK)
	}
	req := httptest.NewRequest(method, "/", nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	_ = mw(handler)(c)
	return rec, seen
}

func TestJWTAuth_ValidToken(t *testing.T) {
	t.Parallel()

	tok := issueFor(t, model.User{ID: 11, Role: model.RoleModerator})
	rec, caller := run(JWTAuth(testSecret), http.MethodGet, tok)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, caller.Authenticated)
	assert.Equal(t, uint64(11), caller.ID)
	assert.Equal(t, model.RoleModerator, caller.Role)
}

func TestJWTAuth_MissingToken(t *testing.T) {
	t.Parallel()

	rec, _ := run(JWTAuth(testSecret), http.MethodGet, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuth_BadToken(t *testing.T) {
	t.Parallel()

	rec, _ := run(JWTAuth(testSecret), http.MethodGet, "garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	expired, _, err := auth.IssueAccessToken(testSecret, model.User{ID: 1}, -time.Minute)
	require.NoError(t, err)
	rec, _ = run(JWTAuth(testSecret), http.MethodGet, expired)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOptionalJWTAuth(t *testing.T) {
	t.Parallel()

	// No token: request proceeds anonymously.
	rec, caller := run(OptionalJWTAuth(testSecret), http.MethodGet, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, caller.Authenticated)

	// Garbage token: ignored, still anonymous.
	rec, caller = run(OptionalJWTAuth(testSecret), http.MethodGet, "garbage")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, caller.Authenticated)

	// Valid token: caller resolved.
	tok := issueFor(t, model.User{ID: 5, Role: model.RoleUser})
	rec, caller = run(OptionalJWTAuth(testSecret), http.MethodGet, tok)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, caller.Authenticated)
	assert.Equal(t, uint64(5), caller.ID)
}
