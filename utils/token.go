package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const (
	ClaimUserID  = "user_id"
	ClaimIsAdmin = "is_admin"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// TokenClaims - разобранные claims токена входа.
type TokenClaims struct {
	UserID  int
	IsAdmin bool
}

func IssueToken(secret []byte, userID int, isAdmin bool, ttl time.Duration, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		ClaimUserID:  userID,
		ClaimIsAdmin: isAdmin,
		"exp":        now.Add(ttl).Unix(),
		"iat":        now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func ParseToken(secret []byte, raw string) (*TokenClaims, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	idFloat, ok := claims[ClaimUserID].(float64)
	if !ok || idFloat <= 0 || idFloat != float64(int(idFloat)) {
		return nil, ErrInvalidToken
	}
	isAdmin, _ := claims[ClaimIsAdmin].(bool)
	return &TokenClaims{UserID: int(idFloat), IsAdmin: isAdmin}, nil
}
