package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/media-review-api/internal/model"
)

func TestIssueAndParseAccessToken(t *testing.T) {
	t.Parallel()

	u := model.User{ID: 42, Email: "a@x.com", Role: model.RoleModerator}
	tok, exp, err := IssueAccessToken("jwt-secret", u, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, tok)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := ParseAccessToken("jwt-secret", tok)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, "moderator", claims.Role)
	assert.False(t, claims.Superuser)
}

func TestParseAccessToken_Expired(t *testing.T) {
	t.Parallel()

	u := model.User{ID: 1, Role: model.RoleUser}
	tok, _, err := IssueAccessToken("jwt-secret", u, -time.Minute)
	require.NoError(t, err)

	_, err = ParseAccessToken("jwt-secret", tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseAccessToken_WrongSecret(t *testing.T) {
	t.Parallel()

	u := model.User{ID: 1, Role: model.RoleUser}
	tok, _, err := IssueAccessToken("right-secret", u, time.Hour)
	require.NoError(t, err)

	_, err = ParseAccessToken("rotated-secret", tok)
	assert.ErrorIs(t, err, ErrTokenSignature)
}

func TestParseAccessToken_TamperedByte(t *testing.T) {
	t.Parallel()

	u := model.User{ID: 9, Role: model.RoleUser, Superuser: true}
	tok, _, err := IssueAccessToken("jwt-secret", u, time.Hour)
	require.NoError(t, err)

	// Flip one character of the payload segment; the signature no longer
	// covers the altered claims.
	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	payload := []byte(parts[1])
	mid := len(payload) / 2
	if payload[mid] == 'A' {
		payload[mid] = 'B'
	} else {
		payload[mid] = 'A'
	}
	parts[1] = string(payload)

	_, err = ParseAccessToken("jwt-secret", strings.Join(parts, "."))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrTokenExpired)
}

func TestParseAccessToken_Malformed(t *testing.T) {
	t.Parallel()

	_, err := ParseAccessToken("jwt-secret", "not.a.jwt")
	assert.ErrorIs(t, err, ErrTokenMalformed)

	_, err = ParseAccessToken("jwt-secret", "")
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestAccessTokenRoleIsSnapshot(t *testing.T) {
	t.Parallel()

	u := model.User{ID: 5, Role: model.RoleUser}
	tok, _, err := IssueAccessToken("jwt-secret", u, time.Hour)
	require.NoError(t, err)

	// Promote the user after issuance: the old token still says "user"
	// until a fresh one is issued.
	u.Role = model.RoleModerator

	claims, err := ParseAccessToken("jwt-secret", tok)
	require.NoError(t, err)
	assert.Equal(t, "user", claims.Role)
}
