// Package auth mints and parses the access tokens that carry the calling
// principal's identity.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/artledger/internal/common"
)

// Claims includes the registered claims plus the principal the token was
// issued to.
type Claims struct {
	jwt.RegisteredClaims
	PrincipalID string
}

// GenerateToken signs an HS256 token for the principal.
func GenerateToken(principalID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		PrincipalID: principalID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetPrincipalIDFromToken validates the token and extracts the principal it
// was issued to. Malformed, mis-signed and expired tokens all come back as
// common.ErrInvalidToken.
func GetPrincipalIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("%w: token expired", common.ErrInvalidToken)
		}
		return "", fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid {
		return "", common.ErrInvalidToken
	}

	return claims.PrincipalID, nil
}
