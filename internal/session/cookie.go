package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const cookieIssuer = "barbershop-site"

// CookieCodec signs session ids into an HS256 token so a visitor cannot
// forge or guess another visitor's session id.
type CookieCodec struct {
	secret []byte
	now    func() time.Time
}

// NewCookieCodec signs cookies with secret, which must be at least 16 bytes.
func NewCookieCodec(secret string) (*CookieCodec, error) {
	if len(secret) < 16 {
		return nil, errors.New("session: secret must be at least 16 bytes")
	}
	return &CookieCodec{secret: []byte(secret), now: time.Now}, nil
}

// Encode returns the cookie value for id, valid for ttl.
func (c *CookieCodec) Encode(id string, ttl time.Duration) (string, error) {
	now := c.now()
	claims := jwt.RegisteredClaims{
		ID:        id,
		Issuer:    cookieIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("session: sign cookie: %w", err)
	}
	return signed, nil
}

// Decode verifies value and returns the session id it carries.
func (c *CookieCodec) Decode(value string) (string, error) {
	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(value, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return c.secret, nil
	}, jwt.WithIssuer(cookieIssuer), jwt.WithTimeFunc(c.now))
	if err != nil || !token.Valid {
		return "", fmt.Errorf("session: invalid cookie: %w", err)
	}
	if claims.ID == "" {
		return "", errors.New("session: cookie carries no id")
	}
	return claims.ID, nil
}
