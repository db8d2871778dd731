package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleOrdering(t *testing.T) {
	t.Parallel()

	assert.True(t, RoleAdmin.AtLeast(RoleModerator))
	assert.True(t, RoleAdmin.AtLeast(RoleUser))
	assert.True(t, RoleModerator.AtLeast(RoleUser))
	assert.False(t, RoleUser.AtLeast(RoleModerator))
	assert.False(t, RoleModerator.AtLeast(RoleAdmin))
	assert.True(t, RoleUser.AtLeast(RoleUser))
}

func TestParseRoleRoundTrip(t *testing.T) {
	t.Parallel()

	for _, r := range []Role{RoleUser, RoleModerator, RoleAdmin} {
		parsed, err := ParseRole(r.String())
		require.NoError(t, err)
		assert.Equal(t, r, parsed)
	}

	_, err := ParseRole("owner")
	assert.Error(t, err)
}

func TestRoleJSON(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(RoleModerator)
	require.NoError(t, err)
	assert.Equal(t, `"moderator"`, string(b))

	var r Role
	require.NoError(t, json.Unmarshal([]byte(`"admin"`), &r))
	assert.Equal(t, RoleAdmin, r)

	assert.Error(t, json.Unmarshal([]byte(`"root"`), &r))
}
