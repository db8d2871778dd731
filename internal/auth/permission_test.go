package auth

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/media-review-api/internal/model"
)

func anon(method string) Request {
	return Request{Method: method}
}

func as(role model.Role, method string) Request {
	return Request{Caller: Caller{ID: 10, Role: role, Authenticated: true}, Method: method}
}

func TestAuthenticatedPolicy(t *testing.T) {
	t.Parallel()

	assert.False(t, Authenticated(anon(http.MethodGet)))
	assert.True(t, Authenticated(as(model.RoleUser, http.MethodGet)))
}

func TestAuthenticatedOrReadOnly(t *testing.T) {
	t.Parallel()

	assert.True(t, AuthenticatedOrReadOnly(anon(http.MethodGet)))
	assert.False(t, AuthenticatedOrReadOnly(anon(http.MethodPost)))
	assert.True(t, AuthenticatedOrReadOnly(as(model.RoleUser, http.MethodPost)))
}

func TestRoleAtLeast(t *testing.T) {
	t.Parallel()

	atLeastMod := RoleAtLeast(model.RoleModerator)

	assert.False(t, atLeastMod(anon(http.MethodPost)))
	assert.False(t, atLeastMod(as(model.RoleUser, http.MethodPost)))
	assert.True(t, atLeastMod(as(model.RoleModerator, http.MethodPost)))
	assert.True(t, atLeastMod(as(model.RoleAdmin, http.MethodPost)))

	// Superuser passes any threshold regardless of role.
	su := as(model.RoleUser, http.MethodPost)
	su.Caller.Superuser = true
	assert.True(t, RoleAtLeast(model.RoleAdmin)(su))
}

func TestAdminOrReadOnly(t *testing.T) {
	t.Parallel()

	assert.True(t, AdminOrReadOnly(anon(http.MethodGet)))
	assert.False(t, AdminOrReadOnly(anon(http.MethodDelete)))
	assert.False(t, AdminOrReadOnly(as(model.RoleModerator, http.MethodPost)))
	assert.True(t, AdminOrReadOnly(as(model.RoleAdmin, http.MethodPost)))
}

func TestAllOfIsLogicalAnd(t *testing.T) {
	t.Parallel()

	both := AllOf(Authenticated, RoleAtLeast(model.RoleAdmin))

	assert.False(t, both(anon(http.MethodGet)))
	assert.False(t, both(as(model.RoleUser, http.MethodGet)))
	assert.True(t, both(as(model.RoleAdmin, http.MethodGet)))
	assert.True(t, AllOf()(anon(http.MethodDelete)))
}

func TestOwnerOrReadOnly(t *testing.T) {
	t.Parallel()

	const owner = uint64(10)

	assert.True(t, OwnerOrReadOnly(anon(http.MethodGet), owner))
	assert.False(t, OwnerOrReadOnly(anon(http.MethodPatch), owner))
	assert.True(t, OwnerOrReadOnly(as(model.RoleUser, http.MethodPatch), owner))
	assert.False(t, OwnerOrReadOnly(as(model.RoleAdmin, http.MethodPatch), 99))
}

func TestOwnerOrModeratorDelete(t *testing.T) {
	t.Parallel()

	const owner = uint64(10)
	const someoneElse = uint64(99)

	cases := []struct {
		name  string
		req   Request
		owner uint64
		want  bool
	}{
		{"anonymous read", anon(http.MethodGet), someoneElse, true},
		{"anonymous delete", anon(http.MethodDelete), someoneElse, false},
		{"owner edits own", as(model.RoleUser, http.MethodPatch), owner, true},
		{"owner deletes own", as(model.RoleUser, http.MethodDelete), owner, true},
		{"non-owner user edit", as(model.RoleUser, http.MethodPatch), someoneElse, false},
		{"non-owner user delete", as(model.RoleUser, http.MethodDelete), someoneElse, false},
		// The asymmetry: a moderator may remove foreign content but not
		// rewrite it.
		{"moderator deletes foreign", as(model.RoleModerator, http.MethodDelete), someoneElse, true},
		{"moderator edits foreign", as(model.RoleModerator, http.MethodPatch), someoneElse, false},
		{"admin deletes foreign", as(model.RoleAdmin, http.MethodDelete), someoneElse, true},
		{"admin edits foreign", as(model.RoleAdmin, http.MethodPatch), someoneElse, false},
		{"non-owner read", as(model.RoleUser, http.MethodGet), someoneElse, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, OwnerOrModeratorDelete(tc.req, tc.owner))
		})
	}

	su := as(model.RoleUser, http.MethodDelete)
	su.Caller.Superuser = true
	assert.True(t, OwnerOrModeratorDelete(su, someoneElse), "superuser may delete like a moderator")
}

func TestCallerFromClaims(t *testing.T) {
	t.Parallel()

	c := CallerFromClaims(&Claims{UserID: 3, Role: "moderator"})
	assert.True(t, c.Authenticated)
	assert.Equal(t, model.RoleModerator, c.Role)

	// An unknown role string degrades to plain user.
	c = CallerFromClaims(&Claims{UserID: 3, Role: "root"})
	assert.Equal(t, model.RoleUser, c.Role)
}
