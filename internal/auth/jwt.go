// Package auth issues the session tokens used by the HTTP API and guards
// admin actions with the shared passphrase.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/logboard/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims identifies a board session and the user it was opened for.
type Claims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid"`
	User      string `json:"usr"`
}

func GenerateToken(sessionID, user string, secretKey []byte, validity time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
		},
		SessionID: sessionID,
		User:      user,
	})

	s, err := token.SignedString(secretKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return s, nil
}

// ParseToken validates tokenString and returns its claims. Expired tokens
// yield common.ErrTokenExpired; any other failure common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}
	if !token.Valid || claims.SessionID == "" {
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}
