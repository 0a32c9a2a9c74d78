package middleware

import (
	"fmt"
	"learnhub/models"
	"learnhub/services"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// GenerateJWT generates a JWT token for the user
func GenerateJWT(secret string, ttl time.Duration, user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"userId": user.ID,
		"name":   user.Name,
		"role":   user.Role,
		"email":  user.Email,
		"iat":    now.Unix(),          // issued at
		"exp":    now.Add(ttl).Unix(), // expiry
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// TokenSigner binds the secret and lifetime for the auth service.
func TokenSigner(secret string, ttl time.Duration) services.TokenFunc {
	return func(user *models.User) (string, error) {
		return GenerateJWT(secret, ttl, user)
	}
}

func parseToken(secret, authHeader string) (uint, string, error) {
	// The token should be prefixed with "Bearer "
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return 0, "", fmt.Errorf("invalid Authorization header format")
	}
	tokenString := strings.TrimSpace(authHeader[len("Bearer "):])

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return 0, "", fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", fmt.Errorf("invalid token payload")
	}
	// JWT numbers decode as float64
	userID, ok := claims["userId"].(float64)
	if !ok || userID <= 0 {
		return 0, "", fmt.Errorf("invalid token payload")
	}
	role, _ := claims["role"].(string)
	return uint(userID), role, nil
}

// JWTMiddleware rejects requests without a valid bearer token and stores the
// caller's userId and role in Locals.
func JWTMiddleware(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Missing or invalid Authorization header", nil)
		}
		userID, role, err := parseToken(secret, authHeader)
		if err != nil {
			return JsonResponse(c, fiber.StatusUnauthorized, false, capitalize(err.Error()), nil)
		}
		c.Locals("userId", userID)
		c.Locals("role", role)
		return c.Next()
	}
}

// OptionalJWT identifies the caller when a valid token is present and lets
// anonymous requests through.
func OptionalJWT(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if authHeader := c.Get("Authorization"); authHeader != "" {
			if userID, role, err := parseToken(secret, authHeader); err == nil {
				c.Locals("userId", userID)
				c.Locals("role", role)
			}
		}
		return c.Next()
	}
}

// CurrentActor returns the authenticated caller set by the JWT middleware.
func CurrentActor(c *fiber.Ctx) (services.Actor, bool) {
	userID, ok := c.Locals("userId").(uint)
	if !ok || userID == 0 {
		return services.Actor{}, false
	}
	role, _ := c.Locals("role").(string)
	return services.Actor{UserID: userID, Role: role}, true
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
