package rtctoken

import (
	"errors"
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// Role is the participant's capability level inside a channel.
type Role string

const (
	RoleHost      Role = "host"
	RoleModerator Role = "moderator"
	RoleViewer    Role = "viewer"
	RoleGuest     Role = "guest"
)

func ValidRole(r Role) bool {
	switch r {
	case RoleHost, RoleModerator, RoleViewer, RoleGuest:
		return true
	}
	return false
}

var (
	ErrNotConfigured = errors.New("rtc token secret is not configured")
	ErrInvalidToken  = errors.New("invalid rtc token")
)

// Issuer signs join credentials for live channels. It is pure: issuing a
// credential has no effect on core state, and callers must treat a
// failure here as non-fatal to anything already committed.
type Issuer struct {
	secret     []byte
	defaultTTL time.Duration
}

type Claims struct {
	Channel string `json:"channel"`
	Subject int64  `json:"subject"`
	Role    Role   `json:"role"`
	jwtlib.RegisteredClaims
}

func New(secret string, defaultTTL time.Duration) *Issuer {
	return &Issuer{
		secret:     []byte(secret),
		defaultTTL: defaultTTL,
	}
}

// Issue returns a signed join credential for subjectID on channel.
// A zero ttl falls back to the issuer default.
func (i *Issuer) Issue(channel string, subjectID int64, role Role, ttl time.Duration) (string, error) {
	if len(i.secret) == 0 {
		return "", ErrNotConfigured
	}
	if !ValidRole(role) {
		return "", fmt.Errorf("unknown role %q", role)
	}
	if ttl == 0 {
		ttl = i.defaultTTL
	}

	claims := Claims{
		Channel: channel,
		Subject: subjectID,
		Role:    role,
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwtlib.NewNumericDate(time.Now()),
		},
	}

	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// Parse verifies a credential and returns its claims.
func (i *Issuer) Parse(tokenStr string) (*Claims, error) {
	token, err := jwtlib.ParseWithClaims(tokenStr, &Claims{}, func(t *jwtlib.Token) (any, error) {
		return i.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
