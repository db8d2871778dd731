package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iliyamo/media-review-api/internal/model"
)

// Access tokens are self-contained HS256 JWTs: no session table, any number
// of workers can verify them with just the signing secret. The role inside
// a token is a snapshot taken at issuance; a role change only takes effect
// once the client obtains a fresh token.

var (
	ErrTokenExpired   = errors.New("access token expired")
	ErrTokenSignature = errors.New("access token signature invalid")
	ErrTokenMalformed = errors.New("access token malformed")
)

// Claims is the payload carried by an access token.
type Claims struct {
	jwt.RegisteredClaims
	UserID    uint64 `json:"uid"`
	Role      string `json:"role"`
	Superuser bool   `json:"su,omitempty"`
}

// IssueAccessToken signs a token for u valid for ttl. It returns the token
// string and its absolute expiry.
func IssueAccessToken(secret string, u model.User, ttl time.Duration) (string, time.Time, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		UserID:    u.ID,
		Role:      u.Role.String(),
		Superuser: u.Superuser,
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// ParseAccessToken verifies signature and expiry and returns the claims.
// Failures map onto three distinct kinds so callers can log precisely:
// ErrTokenExpired, ErrTokenSignature, ErrTokenMalformed.
func ParseAccessToken(secret, raw string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenSignature
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrTokenSignature
		default:
			return nil, ErrTokenMalformed
		}
	}
	if !tok.Valid {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}
