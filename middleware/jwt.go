package middleware

import (
	"anwaar/config"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// Student sessions last 24h, admin sessions 8h.
const (
	StudentSessionTTL = 24 * time.Hour
	AdminSessionTTL   = 8 * time.Hour
)

// GenerateSessionToken generates a JWT session token for a student access key
func GenerateSessionToken(keyID, studentName string) (string, error) {
	claims := jwt.MapClaims{
		"keyId":       keyID,
		"studentName": studentName,
		"role":        "student",
		"iat":         time.Now().Unix(),
		"exp":         time.Now().Add(StudentSessionTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	jwtSecret := []byte(config.AppConfig.JWTKey)

	return token.SignedString(jwtSecret)
}

// GenerateAdminToken generates a JWT session token for an admin account
func GenerateAdminToken(adminID uint, username string) (string, error) {
	claims := jwt.MapClaims{
		"adminId":  adminID,
		"username": username,
		"role":     "admin",
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(AdminSessionTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	jwtSecret := []byte(config.AppConfig.JWTKey)

	return token.SignedString(jwtSecret)
}

// parseToken extracts and validates the bearer token from the request
func parseToken(c *fiber.Ctx) (jwt.MapClaims, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return nil, fmt.Errorf("missing Authorization header")
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, fmt.Errorf("invalid Authorization header format")
	}
	tokenString := authHeader[len("Bearer "):]

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.AppConfig.JWTKey), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token payload")
	}
	return claims, nil
}

// JWTMiddleware is a middleware to check for a valid student session token
func JWTMiddleware(c *fiber.Ctx) error {
	claims, err := parseToken(c)
	if err != nil {
		return JsonResponse(c, fiber.StatusUnauthorized, false, err.Error(), nil)
	}

	keyID, ok := claims["keyId"].(string)
	if !ok || keyID == "" {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid token payload", nil)
	}

	c.Locals("keyId", keyID)
	if name, ok := claims["studentName"].(string); ok {
		c.Locals("studentName", name)
	}

	return c.Next()
}

// AdminJWTMiddleware is a middleware to check for a valid admin session token
func AdminJWTMiddleware(c *fiber.Ctx) error {
	claims, err := parseToken(c)
	if err != nil {
		return JsonResponse(c, fiber.StatusUnauthorized, false, err.Error(), nil)
	}

	if role, ok := claims["role"].(string); !ok || role != "admin" {
		return JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to access this resource!", nil)
	}

	adminID, ok := claims["adminId"].(float64) // JWT numbers decode as float64
	if !ok {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid token payload", nil)
	}

	c.Locals("adminId", uint(adminID))
	if username, ok := claims["username"].(string); ok {
		c.Locals("adminUsername", username)
	}

	return c.Next()
}

func JsonResponse(c *fiber.Ctx, statusCode int, status bool, message string, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

func ValidationErrorResponse(c *fiber.Ctx, errors map[string]string) error {
	return JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Validation failed!", errors)
}
