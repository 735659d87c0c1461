package ledger

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "korechain-gateway"

// tokenSigner issues short-lived HS256 service tokens naming the ledger user.
type tokenSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func newTokenSigner(secret string, ttl time.Duration) *tokenSigner {
	return &tokenSigner{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *tokenSigner) sign(id Identity) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   id.User,
		Audience:  jwt.ClaimStrings{id.Channel},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
