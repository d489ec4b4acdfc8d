package auth

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carried by an access token. IsAdmin is the only RBAC bit.
type Claims struct {
	BrokerID uint `json:"brokerId"`
	IsAdmin  bool `json:"isAdmin"`
	jwt.RegisteredClaims
}

// AccessTTL is the lifetime of an access token.
const AccessTTL = 24 * time.Hour

func jwtSecret() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

// GenerateToken signs an HS256 JWT for the given broker.
func GenerateToken(brokerID uint, isAdmin bool) (string, error) {
	if len(jwtSecret()) == 0 {
		return "", errors.New("JWT_SECRET not set")
	}
	now := time.Now()
	claims := &Claims{
		BrokerID: brokerID,
		IsAdmin:  isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(brokerID),
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

// ParseAndValidate checks signature and expiry and returns the claims.
func ParseAndValidate(tokenStr string) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}))
	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return jwtSecret(), nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid or expired token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, errors.New("could not extract claims")
	}
	return claims, nil
}
