package handler

import (
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tony-montemuro/webserver/message"
)

const bearerPrefix = "Bearer "

var errUnauthenticated = errors.New("unauthenticated")

// Authenticator checks the HS256 bearer token on API requests. A nil
// Authenticator accepts everything.
type Authenticator struct {
	secret []byte
}

func NewAuthenticator(secret string) *Authenticator {
	if len(secret) == 0 {
		return nil
	}
	return &Authenticator{secret: []byte(secret)}
}

// Authenticate returns the token subject.
func (a *Authenticator) Authenticate(req *message.Request) (string, error) {
	if a == nil {
		return "", nil
	}

	auth, ok := req.Header("Authorization")
	auth = strings.TrimSpace(auth)
	if !ok || !strings.HasPrefix(auth, bearerPrefix) {
		return "", errUnauthenticated
	}

	tokenStr := strings.TrimSpace(strings.TrimPrefix(auth, bearerPrefix))
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}

	if !token.Valid || claims.Subject == "" {
		return "", errUnauthenticated
	}

	return claims.Subject, nil
}
