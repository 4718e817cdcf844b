package jwtverify

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	commonerrors "github.com/semenovda/todo-vault/internal/common/errors"
	commonhttp "github.com/semenovda/todo-vault/internal/common/http"
	"github.com/semenovda/todo-vault/internal/common/logger"
)

type Claims struct {
	UserID string
}

type contextKey string

const claimsKey contextKey = "jwt_claims"

// Middleware is the identity gate for protected routes. A missing credential
// is 401; a credential that fails verification is 403. On success the
// resolved user id lives in the request context for this request only.
func Middleware(secret string, log *logger.Logger) func(next http.Handler) http.Handler {
	secretBytes := []byte(secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get("Authorization")
			if raw == "" || !strings.HasPrefix(raw, "Bearer ") {
				log.Warnf("auth failed path=%s: missing or invalid authorization header", r.URL.Path)
				commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized,
					commonhttp.CodeMissingAuthorization, "missing or invalid authorization", "")
				return
			}

			tokenString := strings.TrimPrefix(raw, "Bearer ")
			claims, err := ParseToken(tokenString, secretBytes)
			if err != nil {
				log.Warnf("auth failed path=%s: %v", r.URL.Path, err)
				if errors.Is(err, commonerrors.ErrTokenExpired) {
					commonhttp.WriteErrorEnvelope(w, http.StatusForbidden,
						commonhttp.CodeTokenExpired, "token has expired", "")
					return
				}
				commonhttp.WriteErrorEnvelope(w, http.StatusForbidden,
					commonhttp.CodeInvalidToken, "invalid token", "")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func FromContext(ctx context.Context) (Claims, bool) {
	val := ctx.Value(claimsKey)
	claims, ok := val.(Claims)
	return claims, ok
}

// ParseToken verifies the signature and expiry of a token and extracts the
// subject. It never consults storage; subject existence is asserted by the
// signature alone.
func ParseToken(tokenString string, secret []byte) (Claims, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, commonerrors.ErrTokenExpired.WithCause(err)
		}
		return Claims{}, commonerrors.ErrInvalidToken.WithCause(err)
	}
	if !parsed.Valid {
		return Claims{}, commonerrors.ErrInvalidToken
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, commonerrors.ErrInvalidToken
	}

	sub, _ := mapClaims["sub"].(string)
	if sub == "" {
		return Claims{}, commonerrors.ErrInvalidToken
	}

	return Claims{UserID: sub}, nil
}
