package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/media-review-api/internal/auth"
	"github.com/iliyamo/media-review-api/internal/model"
)

// gate runs a request with an optional preset caller through RequirePolicy.
func gate(t *testing.T, caller *auth.Caller, method string, policies ...auth.Policy) (int, bool) {
	t.Helper()
	e := echo.New()
	reached := false
	handler := func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	}
	req := httptest.NewRequest(method, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if caller != nil {
		c.Set(callerKey, *caller)
	}
	_ = RequirePolicy(policies...)(handler)(c)
	return rec.Code, reached
}

func TestRequirePolicy_AnonymousDeniedWith401(t *testing.T) {
	t.Parallel()

	code, reached := gate(t, nil, http.MethodPost, auth.Authenticated)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.False(t, reached, "handler must not run after a resource-level denial")
}

func TestRequirePolicy_AuthenticatedButInsufficientIs403(t *testing.T) {
	t.Parallel()

	caller := auth.Caller{ID: 3, Role: model.RoleUser, Authenticated: true}
	code, reached := gate(t, &caller, http.MethodPost, auth.Authenticated, auth.RoleAtLeast(model.RoleAdmin))
	assert.Equal(t, http.StatusForbidden, code)
	assert.False(t, reached)
}

func TestRequirePolicy_AllPoliciesMustAllow(t *testing.T) {
	t.Parallel()

	admin := auth.Caller{ID: 1, Role: model.RoleAdmin, Authenticated: true}
	code, reached := gate(t, &admin, http.MethodPost, auth.Authenticated, auth.RoleAtLeast(model.RoleAdmin))
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, reached)
}

func TestRequirePolicy_ReadOnlyPassesAnonymous(t *testing.T) {
	t.Parallel()

	code, reached := gate(t, nil, http.MethodGet, auth.AdminOrReadOnly)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, reached)

	code, reached = gate(t, nil, http.MethodDelete, auth.AdminOrReadOnly)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.False(t, reached)
}
