package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/inkwave/inkchat/pkg/errcode"
)

// Claims is the identity embedded in tokens issued by the blog platform.
// The messaging service only verifies; issuance lives with the session layer.
type Claims struct {
	UserId int64  `json:"user_id"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Generate signs a token for the given identity. Used by tests and local tooling;
// in production tokens come from the platform's session service.
func Generate(userId int64, role, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserId: userId,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "inkwave",
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// Verify parses and validates a bearer token and yields the embedded identity.
func Verify(tokenString, secret string) (*Claims, error) {
	if tokenString == "" {
		return nil, errcode.ErrTokenMissing
	}

	t, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errcode.ErrTokenExpired
		}
		return nil, errcode.ErrTokenInvalid.Wrap(err)
	}

	claims, ok := t.Claims.(*Claims)
	if !ok || !t.Valid {
		return nil, errcode.ErrTokenInvalid
	}
	if claims.UserId <= 0 {
		return nil, errcode.ErrTokenInvalid
	}

	return claims, nil
}
