// internal/services/auth_service.go
// Actor identity decoding. Credential issuance, registration and password
// management belong to the external auth layer and are out of scope; this
// service only turns a bearer token into the models.Actor the core's Result
// State Machine checks (spec §9 Open Question c).

package services

import (
	"log"
	"strconv"

	"tourney-engine/internal/apperr"
	"tourney-engine/internal/config"
	"tourney-engine/internal/models"
	"tourney-engine/internal/utils"
)

// AuthService decodes actor identity from bearer tokens.
type AuthService struct {
	config config.AuthConfig
	logger *log.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(config config.AuthConfig, logger *log.Logger) *AuthService {
	return &AuthService{config: config, logger: logger}
}

// ValidateToken decodes a bearer token into an Actor.
func (s *AuthService) ValidateToken(token string) (*models.Actor, error) {
	claims, err := utils.ValidateJWT(token, s.config.JWTSecret)
	if err != nil {
		return nil, apperr.Wrap(apperr.Unauthorized, "invalid or expired token", err)
	}

	userID, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil {
		return nil, apperr.New(apperr.Unauthorized, "malformed actor id in token")
	}

	return &models.Actor{
		ID:     userID,
		Role:   models.UserRole(claims.Role),
		TeamID: claims.TeamID,
	}, nil
}
