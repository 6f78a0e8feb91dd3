// Package auth issues and validates the session tokens minted after a
// successful credential verification.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/zalbum/albumdb/internal/common"
)

// Claims carries the registered claims plus the authenticated userid.
type Claims struct {
	jwt.RegisteredClaims
	UserID string
}

// GenerateToken mints an HS256 token for userID valid for validityDuration.
func GenerateToken(userID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		UserID: userID,
	})

	return token.SignedString(secretKey)
}

// GetUserIDFromToken validates tokenString and returns the userid embedded
// in it. Expired or otherwise invalid tokens fail with ErrorInvalidToken.
func GetUserIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return "", common.ErrorInvalidToken
	}
	if !token.Valid {
		return "", common.ErrorInvalidToken
	}

	return claims.UserID, nil
}
