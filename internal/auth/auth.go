// Package auth gates the HTTP API behind the shop's single shared passcode.
// A successful login is exchanged for a short-lived token so the client does
// not resend the passcode on every request.
package auth

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrBadPasscode  = errors.New("wrong passcode")
	ErrInvalidToken = errors.New("invalid token")
)

type Auth struct {
	passcode string
	secret   []byte
	ttl      time.Duration
}

func New(passcode string, secret []byte, ttl time.Duration) *Auth {
	return &Auth{passcode: passcode, secret: secret, ttl: ttl}
}

// Login checks the passcode and issues a signed token.
func (a *Auth) Login(passcode string) (string, error) {
	if subtle.ConstantTimeCompare([]byte(passcode), []byte(a.passcode)) != 1 {
		return "", ErrBadPasscode
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(a.ttl)),
	})

	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", err
	}

	return signed, nil
}

// Verify validates a token issued by Login.
func (a *Auth) Verify(tokenString string) error {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return ErrInvalidToken
	}

	if !token.Valid {
		return ErrInvalidToken
	}

	return nil
}

// Middleware rejects requests without a valid bearer token.
func (a *Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")

		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || a.Verify(token) != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}
