// Package auth implements the passwordless login core: stateless
// confirmation codes, signed access tokens and the permission predicates
// that gate every resource operation.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"strconv"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/iliyamo/media-review-api/internal/model"
)

// Confirmation codes are never stored. A code is an HMAC over the user's
// email, a fingerprint of the user's tracked mutable state and a coarse
// time bucket. Re-deriving inside the same bucket yields the same code;
// any change to a tracked field (including the last-login bump performed
// on token issuance) makes every previously issued code unverifiable.

var (
	// ErrCodeInvalid means the submitted code never matched this user's
	// state in any accepted bucket.
	ErrCodeInvalid = errors.New("invalid confirmation code")
	// ErrCodeExpired means the code was valid once but its time bucket has
	// passed. Callers must surface it to clients exactly like
	// ErrCodeInvalid and only log the difference.
	ErrCodeExpired = errors.New("confirmation code expired")
)

// staleProbe is how many buckets past the accepted skew Verify probes to
// tell an expired code apart from a bogus one in logs.
const staleProbe = 4

// CodeService derives and checks confirmation codes. The zero value is not
// usable; construct with NewCodeService.
type CodeService struct {
	secret []byte
	window time.Duration
	skew   int
	now    func() time.Time
}

// NewCodeService builds a CodeService. window is the width of one time
// bucket (codes older than window*(skew+1) fail); skew is how many past
// buckets remain acceptable to tolerate clock drift and messages read at a
// bucket boundary. The secret must be server-private and fixed-width per
// deployment.
func NewCodeService(secret []byte, window time.Duration, skew int) *CodeService {
	if window <= 0 {
		window = 15 * time.Minute
	}
	if skew < 0 {
		skew = 0
	}
	return &CodeService{secret: secret, window: window, skew: skew, now: time.Now}
}

// WithClock overrides the time source. Tests use it to move between
// buckets without sleeping.
func (s *CodeService) WithClock(now func() time.Time) *CodeService {
	s.now = now
	return s
}

// Issue derives the confirmation code for u in the current time bucket.
func (s *CodeService) Issue(u model.User) string {
	return s.derive(u, s.bucket())
}

// Verify recomputes the expected code from the user's current state and
// compares it to the submitted one in constant time. The current bucket
// and `skew` previous buckets are accepted. A match in an older bucket is
// reported as ErrCodeExpired so logs can tell the two failures apart.
func (s *CodeService) Verify(u model.User, code string) error {
	for i := 0; i <= s.skew; i++ {
		if hmac.Equal([]byte(s.derive(u, s.bucket()-int64(i))), []byte(code)) {
			return nil
		}
	}
	for i := s.skew + 1; i <= s.skew+staleProbe; i++ {
		if hmac.Equal([]byte(s.derive(u, s.bucket()-int64(i))), []byte(code)) {
			return ErrCodeExpired
		}
	}
	return ErrCodeInvalid
}

// bucket returns the current coarse time bucket index.
func (s *CodeService) bucket() int64 {
	return s.now().UTC().Unix() / int64(s.window/time.Second)
}

// derive computes the code for a given bucket: HMAC-SHA256 keyed with the
// server secret over email, state fingerprint and bucket index, truncated
// to 10 bytes and hex encoded (20 characters, fine for an email body).
func (s *CodeService) derive(u model.User, bucket int64) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(u.Email))
	mac.Write([]byte{0})
	fp := stateFingerprint(u)
	mac.Write(fp[:])
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(bucket))
	mac.Write(b[:])
	return hex.EncodeToString(mac.Sum(nil)[:10])
}

// stateFingerprint hashes the tracked mutable fields of a user. This list
// is part of the security contract: a field NOT listed here will not
// invalidate outstanding codes when it changes. Tracked: username, role,
// bio, first name, last name, active flag, last-login timestamp.
func stateFingerprint(u model.User) [blake2b.Size256]byte {
	lastLogin := ""
	if u.LastLoginAt != nil {
		lastLogin = strconv.FormatInt(u.LastLoginAt.UTC().UnixNano(), 10)
	}
	parts := []string{
		u.Username,
		u.Role.String(),
		u.Bio,
		u.FirstName,
		u.LastName,
		strconv.FormatBool(u.IsActive),
		lastLogin,
	}
	var buf []byte
	for i, p := range parts {
		if i > 0 {
			buf = append(buf, 0)
		}
		buf = append(buf, p...)
	}
	return blake2b.Sum256(buf)
}
