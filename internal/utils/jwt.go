// internal/utils/jwt.go
// JWT claim decoding. Token issuance belongs to the external auth layer
// (out of scope); this only decodes the actor identity the engine's Result
// State Machine needs for the coach-ownership check (spec §9 Open Question c).

package utils

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the shape the external auth layer is expected to issue.
// TeamID is only present for coach-role actors.
type Claims struct {
	UserID string  `json:"user_id"`
	Role   string  `json:"role"`
	TeamID *int64  `json:"team_id,omitempty"`
	jwt.RegisteredClaims
}

// ValidateJWT validates a JWT token and returns its claims.
func ValidateJWT(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
