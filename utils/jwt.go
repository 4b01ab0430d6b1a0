package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/birlikweb/cms/config"
	"github.com/birlikweb/cms/models"
)

// Claims defines JWT claims used in the application. The role claim carries
// the staff member's permission level by name.
type Claims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Author   string `json:"author"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// RoleLevel decodes the embedded role claim. Unknown values degrade to viewer.
func (c *Claims) RoleLevel() models.Role {
	r, err := models.ParseRole(c.Role)
	if err != nil {
		return models.RoleViewer
	}
	return r
}

// GenerateToken issues a JWT for the specified staff account.
func GenerateToken(user *models.User, duration time.Duration) (string, error) {
	cfg := config.Get()

	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		Author:   user.AuthorName(),
		Role:     user.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(duration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// ParseToken validates a JWT signature and expiry and returns its claims.
func ParseToken(tokenStr string) (*Claims, error) {
	cfg := config.Get()
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}
