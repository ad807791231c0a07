package ports

import (
	"time"

	"drive-me-local/internal/infrastructure/jwt"
)

type TokenSigner interface {
	GenerateJWT(sessionID string, userID int64, expiresIn time.Duration) (string, error)
	ValidateToken(tokenStr string) (*jwt.Claims, error)
}
