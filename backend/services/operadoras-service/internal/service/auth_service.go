package service

import (
	"crypto/subtle"
	"errors"
	"strings"

	"go.uber.org/zap"

	"painelans/backend/services/operadoras-service/internal/password"
)

// RoleAdmin is granted to the configured administrator.
const RoleAdmin = "admin"

// ErrInvalidCredentials represents a failed login.
var ErrInvalidCredentials = errors.New("auth: invalid credentials")

// AuthService authenticates the single configured administrator.
type AuthService struct {
	username     string
	passwordHash string
	hasher       password.Hasher
	tokens       *TokenService
	logger       *zap.Logger
}

// NewAuthService builds AuthService. passwordHash is a bcrypt hash.
func NewAuthService(username, passwordHash string, hasher password.Hasher, tokens *TokenService, logger *zap.Logger) *AuthService {
	return &AuthService{
		username:     strings.TrimSpace(username),
		passwordHash: strings.TrimSpace(passwordHash),
		hasher:       hasher,
		tokens:       tokens,
		logger:       logger,
	}
}

// Login checks the credentials and returns a signed token.
func (s *AuthService) Login(username, plain string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || plain == "" || s.passwordHash == "" {
		return "", ErrInvalidCredentials
	}
	if subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) != 1 {
		return "", ErrInvalidCredentials
	}
	if err := s.hasher.Compare(s.passwordHash, plain); err != nil {
		s.logger.Info("admin login rejected", zap.String("username", username))
		return "", ErrInvalidCredentials
	}
	return s.tokens.GenerateToken(username, RoleAdmin)
}
