package security

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	JWTIssuer         = "Chatter"
	JWTExpirationTime = time.Hour * 24
)

// UserClaims Token 中的业务信息
type UserClaims struct {
	UserID uint64 `json:"user_id"`
	jwt.RegisteredClaims
}
