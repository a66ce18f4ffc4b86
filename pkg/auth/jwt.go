package auth

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func jwtSecret() []byte {
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte("dev-secret-change-me")
}

// Claims represents the JWT claims issued by the auth service.
// The scan backend trusts these claims completely and performs no
// credential checks of its own.
type Claims struct {
	UserID       string   `json:"user_id"`
	TenantID     string   `json:"tenant_id"`
	Role         string   `json:"role"`
	WarehouseIDs []string `json:"warehouse_ids,omitempty"`
	jwt.RegisteredClaims
}

// Principal is the authenticated caller context handed to the core.
type Principal struct {
	TenantID     string
	UserID       string
	Role         string
	WarehouseIDs []string
}

// AuthorizedFor reports whether the principal may scan into the warehouse.
// An empty warehouse list means the principal is not restricted.
func (p Principal) AuthorizedFor(warehouseID string) bool {
	if len(p.WarehouseIDs) == 0 {
		return true
	}
	for _, id := range p.WarehouseIDs {
		if id == warehouseID {
			return true
		}
	}
	return false
}

// GenerateToken creates a signed JWT for the given principal
func GenerateToken(p Principal, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID:       p.UserID,
		TenantID:     p.TenantID,
		Role:         p.Role,
		WarehouseIDs: p.WarehouseIDs,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

// ValidateToken validates and parses a JWT token string
func ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtSecret(), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}
	if claims.TenantID == "" {
		return nil, fmt.Errorf("token missing tenant_id claim")
	}

	return claims, nil
}
