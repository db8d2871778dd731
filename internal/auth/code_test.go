package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/media-review-api/internal/model"
)

func testUser() model.User {
	return model.User{
		ID:        7,
		Email:     "a@x.com",
		Username:  "a@x.com",
		Role:      model.RoleUser,
		IsActive:  true,
		FirstName: "Ann",
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestCodeRoundTrip(t *testing.T) {
	t.Parallel()

	svc := NewCodeService([]byte("code-secret"), 15*time.Minute, 1)
	u := testUser()

	code := svc.Issue(u)
	require.NotEmpty(t, code)
	require.NoError(t, svc.Verify(u, code))

	// Deterministic inside one bucket.
	assert.Equal(t, code, svc.Issue(u))
}

func TestCodeRejectsOtherUser(t *testing.T) {
	t.Parallel()

	svc := NewCodeService([]byte("code-secret"), 15*time.Minute, 1)
	u := testUser()
	other := testUser()
	other.Email = "b@x.com"

	code := svc.Issue(u)
	assert.ErrorIs(t, svc.Verify(other, code), ErrCodeInvalid)
}

func TestCodeInvalidatedByTrackedStateChange(t *testing.T) {
	t.Parallel()

	svc := NewCodeService([]byte("code-secret"), 15*time.Minute, 1)

	mutations := map[string]func(*model.User){
		"username":   func(u *model.User) { u.Username = "new-name" },
		"role":       func(u *model.User) { u.Role = model.RoleModerator },
		"bio":        func(u *model.User) { u.Bio = "about me" },
		"first name": func(u *model.User) { u.FirstName = "Bea" },
		"last name":  func(u *model.User) { u.LastName = "Smith" },
		"active":     func(u *model.User) { u.IsActive = false },
		"last login": func(u *model.User) {
			ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
			u.LastLoginAt = &ts
		},
	}

	for name, mutate := range mutations {
		u := testUser()
		code := svc.Issue(u)
		require.NoError(t, svc.Verify(u, code), name)

		mutate(&u)
		assert.ErrorIs(t, svc.Verify(u, code), ErrCodeInvalid, "change of %s must invalidate the code", name)
	}
}

func TestCodeUntrackedFieldDoesNotInvalidate(t *testing.T) {
	t.Parallel()

	svc := NewCodeService([]byte("code-secret"), 15*time.Minute, 1)
	u := testUser()
	code := svc.Issue(u)

	// ID and timestamps are not part of the tracked-state contract.
	u.ID = 999
	u.CreatedAt = time.Now()
	assert.NoError(t, svc.Verify(u, code))
}

func TestCodeExpiry(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	window := 15 * time.Minute
	u := testUser()

	issued := NewCodeService([]byte("s"), window, 1).WithClock(fixedClock(base)).Issue(u)

	cases := []struct {
		name    string
		advance time.Duration
		err     error
	}{
		{"same bucket", 0, nil},
		{"next bucket within skew", window, nil},
		{"two buckets late", 2 * window, ErrCodeExpired},
		{"an hour late", time.Hour, ErrCodeExpired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewCodeService([]byte("s"), window, 1).WithClock(fixedClock(base.Add(tc.advance)))
			err := svc.Verify(u, issued)
			if tc.err == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.err)
			}
		})
	}
}

func TestCodeAncientIsInvalidNotExpired(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	window := 15 * time.Minute
	u := testUser()

	issued := NewCodeService([]byte("s"), window, 1).WithClock(fixedClock(base)).Issue(u)

	// Far beyond the stale probe range the service cannot tell the code was
	// ever real, so it reports a plain mismatch.
	svc := NewCodeService([]byte("s"), window, 1).WithClock(fixedClock(base.Add(48 * time.Hour)))
	assert.ErrorIs(t, svc.Verify(u, issued), ErrCodeInvalid)
}

func TestCodeNearMissRejected(t *testing.T) {
	t.Parallel()

	svc := NewCodeService([]byte("code-secret"), 15*time.Minute, 1)
	u := testUser()
	code := svc.Issue(u)

	// Flip each position individually: a code is either an exact match or
	// nothing. The comparison runs through hmac.Equal, so no prefix length
	// leaks through timing either.
	for i := 0; i < len(code); i++ {
		altered := []byte(code)
		if altered[i] == '0' {
			altered[i] = '1'
		} else {
			altered[i] = '0'
		}
		assert.ErrorIs(t, svc.Verify(u, string(altered)), ErrCodeInvalid)
	}

	assert.ErrorIs(t, svc.Verify(u, code[:len(code)-1]), ErrCodeInvalid)
	assert.ErrorIs(t, svc.Verify(u, ""), ErrCodeInvalid)
}

func TestCodeDifferentSecretsDisagree(t *testing.T) {
	t.Parallel()

	u := testUser()
	a := NewCodeService([]byte("secret-a"), 15*time.Minute, 1)
	b := NewCodeService([]byte("secret-b"), 15*time.Minute, 1)

	assert.ErrorIs(t, b.Verify(u, a.Issue(u)), ErrCodeInvalid)
}
