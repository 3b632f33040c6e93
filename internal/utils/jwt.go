package utils

import (
	"time" // expiration timestamps

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// AccessToken represents a signed JWT access token along with its
// expiry.  Staff clients send the Token value in the Authorization
// header when calling protected admin endpoints.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewStaffToken builds and signs an HS256 JWT for a staff account.  The
// claims carry the staff user ID as subject, a fixed STAFF role,
// expiration and issued-at timestamps.  ttlMin controls the token
// lifetime in minutes.
func NewStaffToken(secret string, staffID uint64, ttlMin int) (AccessToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":  staffID,
		"role": "STAFF",
		"exp":  exp.Unix(),
		"iat":  time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}
