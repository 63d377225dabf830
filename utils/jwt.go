package utils

import (
	"errors"
	"time"

	"bookwala/config"

	"github.com/golang-jwt/jwt"
)

// Claims are the verified fields carried by an access token. VendorID is set
// only for vendor accounts and binds the token to one venue.
type Claims struct {
	UserID   string
	Email    string
	Role     string
	VendorID string
}

func secretKey() []byte {
	secret := config.AppConfig.JWTSecret
	if secret == "" {
		secret = "bookwala-dev"
	}
	return []byte(secret)
}

// GenerateToken creates a signed JWT with the given subject, email, role and
// vendor binding. The token expires after the specified duration.
func GenerateToken(subject, email, role, vendorID string, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":   subject,
		"email": email,
		"role":  role,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(duration).Unix(),
	}
	if vendorID != "" {
		claims["vendorId"] = vendorID
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey())
}

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey(), nil
	})
}

// ExtractClaims validates a token string and returns its subject, email and role.
func ExtractClaims(tokenString string) (*Claims, error) {
	token, err := ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, errors.New("token does not contain a valid 'sub' claim")
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	vendorID, _ := claims["vendorId"].(string)

	return &Claims{UserID: sub, Email: email, Role: role, VendorID: vendorID}, nil
}
