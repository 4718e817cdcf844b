package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/semenovda/todo-vault/internal/common/clock"
	"github.com/semenovda/todo-vault/internal/common/jwtverify"
	userdomain "github.com/semenovda/todo-vault/internal/user/domain"
)

// TokenIssuer signs self-contained access tokens. The secret is fixed at
// construction; there is no server-side session state, so a token cannot be
// invalidated before its expiry.
type TokenIssuer struct {
	jwtSecret []byte
	clock     clock.Clock
	tokenTTL  time.Duration
}

func NewTokenIssuer(jwtSecret string, tokenTTL time.Duration, clock clock.Clock) *TokenIssuer {
	return &TokenIssuer{
		jwtSecret: []byte(jwtSecret),
		clock:     clock,
		tokenTTL:  tokenTTL,
	}
}

func (ti *TokenIssuer) Issue(userID userdomain.ID) (string, error) {
	now := ti.clock.Now()
	claims := jwt.MapClaims{
		"sub": string(userID),
		"exp": now.Add(ti.tokenTTL).Unix(),
		"iat": now.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := t.SignedString(ti.jwtSecret)
	if err != nil {
		return "", err
	}

	incrementTokensIssued()
	return tokenString, nil
}

func (ti *TokenIssuer) Verify(tokenString string) (userdomain.ID, error) {
	claims, err := jwtverify.ParseToken(tokenString, ti.jwtSecret)
	if err != nil {
		return "", err
	}
	return userdomain.ID(claims.UserID), nil
}
