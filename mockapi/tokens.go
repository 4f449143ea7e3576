package mockapi

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt"
)

var errInvalidToken = errors.New("invalid token")

type tokenClaims struct {
	Email string `json:"email"`
	jwt.StandardClaims
}

// tokenManager issues and verifies the HS256 access tokens returned by register and login.
type tokenManager struct {
	secret []byte
	ttl    time.Duration
}

func newTokenManager(secret string, ttl time.Duration) (*tokenManager, error) {
	if secret == "" {
		raw := make([]byte, 32)
		if _, err := rand.Read(raw); err != nil {
			return nil, fmt.Errorf("generating token secret: %w", err)
		}
		secret = base64.StdEncoding.EncodeToString(raw)
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &tokenManager{secret: []byte(secret), ttl: ttl}, nil
}

func (m *tokenManager) generate(u user) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Email: u.Email,
		StandardClaims: jwt.StandardClaims{
			Subject:   strconv.Itoa(u.ID),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(m.ttl).Unix(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// validate returns the claims of a well-formed, unexpired token signed with our secret.
func (m *tokenManager) validate(tokenString string) (*tokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*tokenClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errInvalidToken
}
