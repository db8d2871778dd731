package handler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidEmail(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"a@x.com", "a@x.com", true},
		{"  A@X.COM  ", "a@x.com", true},
		{"first.last@sub.example.org", "first.last@sub.example.org", true},
		{"", "", false},
		{"   ", "", false},
		{"not-an-email", "", false},
		{"a@", "", false},
		{"Ann <a@x.com>", "", false},
		{"a@x.com, b@x.com", "", false},
	}
	for _, tc := range cases {
		got, ok := validEmail(tc.in)
		require.Equal(t, tc.ok, ok, "input %q", tc.in)
		if tc.ok {
			assert.Equal(t, tc.want, got)
		}
	}
}

func TestValidScore(t *testing.T) {
	t.Parallel()

	for s := 1; s <= 10; s++ {
		assert.True(t, validScore(s), "score %d", s)
	}
	assert.False(t, validScore(0))
	assert.False(t, validScore(11))
	assert.False(t, validScore(-3))
}

func TestValidYear(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC().Year()
	assert.True(t, validYear(minYear))
	assert.True(t, validYear(now))
	assert.False(t, validYear(minYear-1))
	assert.False(t, validYear(now+1))
}

func TestSlugWriteReqNormalize(t *testing.T) {
	t.Parallel()

	r := slugWriteReq{Name: "  Films  ", Slug: "  FILMS "}
	require.NoError(t, r.normalize())
	assert.Equal(t, "Films", r.Name)
	assert.Equal(t, "films", r.Slug)

	assert.Error(t, (&slugWriteReq{Name: "x"}).normalize())
	assert.Error(t, (&slugWriteReq{Slug: "x"}).normalize())
	assert.Error(t, (&slugWriteReq{}).normalize())
}
