package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the subset of token claims the gateway looks at. It is used for
// log correlation only; authorization decisions stay with the domain services.
type Claims struct {
	UserID string `json:"userId,omitempty"`
	ID     string `json:"id,omitempty"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// UserKey returns whichever user identifier the auth service put in the token.
func (c *Claims) UserKey() string {
	switch {
	case c == nil:
		return ""
	case c.UserID != "":
		return c.UserID
	case c.ID != "":
		return c.ID
	default:
		return c.RegisteredClaims.Subject
	}
}

type Verifier interface {
	Verify(token string) (*Claims, error)
}

var _ Verifier = (*HMACVerifier)(nil)

// HMACVerifier checks HS256/384/512 signatures with the secret shared with the auth service.
type HMACVerifier struct {
	secret []byte
	parser *jwt.Parser
}

// NewHMACVerifier returns nil when secret is empty, which disables local verification.
func NewHMACVerifier(secret string) Verifier {
	if secret == "" {
		return nil
	}
	return &HMACVerifier{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
			jwt.WithExpirationRequired(),
		),
	}
}

func (v *HMACVerifier) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := v.parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("verify token: %w", err)
	}
	if !parsed.Valid {
		return nil, errors.New("verify token: invalid token")
	}
	return claims, nil
}
