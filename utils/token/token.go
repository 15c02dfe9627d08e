package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Common auth errors
var (
	ErrAuthHeaderMissing = errors.New("Authentication required")
	ErrInvalidAuthFormat = errors.New("Authorization header format must be Bearer {token}")
	ErrInvalidToken      = errors.New("Invalid or expired token")
	ErrNotRefreshToken   = errors.New("Token is not a refresh token")
)

// Token types carried in the token_type claim.
const (
	AccessTokenType  = "access"
	RefreshTokenType = "refresh"
)

// JWTClaims holds the standard JWT claims plus our custom claims.
// Refresh tokens additionally carry a jti in RegisteredClaims.ID so they
// can be blacklisted individually.
type JWTClaims struct {
	UserID    uuid.UUID `json:"user_id"`
	Username  string    `json:"username"`
	TokenType string    `json:"token_type"`
	jwt.RegisteredClaims
}

// GenerateAccessToken creates a short-lived token used to authenticate
// API requests.
func GenerateAccessToken(userID uuid.UUID, username string, secret []byte, expiration time.Duration) (string, error) {
	return generate(userID, username, AccessTokenType, "", secret, expiration)
}

// GenerateRefreshToken creates a long-lived token exchanged for new access
// tokens. The returned jti identifies the token in the blacklist.
func GenerateRefreshToken(userID uuid.UUID, username string, secret []byte, expiration time.Duration) (string, uuid.UUID, error) {
	jti := uuid.New()
	signed, err := generate(userID, username, RefreshTokenType, jti.String(), secret, expiration)
	if err != nil {
		return "", uuid.Nil, err
	}
	return signed, jti, nil
}

func generate(userID uuid.UUID, username, tokenType, jti string, secret []byte, expiration time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := JWTClaims{
		UserID:    userID,
		Username:  username,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateToken validates a JWT token string and returns the claims.
func ValidateToken(tokenString string, secret []byte) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

// ValidateAccessToken validates a token and rejects anything that is not an
// access token, so a leaked refresh token cannot authenticate requests.
func ValidateAccessToken(tokenString string, secret []byte) (*JWTClaims, error) {
	claims, err := ValidateToken(tokenString, secret)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != AccessTokenType {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ValidateRefreshToken validates a token and ensures it is a refresh token
// with a parseable jti.
func ValidateRefreshToken(tokenString string, secret []byte) (*JWTClaims, uuid.UUID, error) {
	claims, err := ValidateToken(tokenString, secret)
	if err != nil {
		return nil, uuid.Nil, err
	}
	if claims.TokenType != RefreshTokenType {
		return nil, uuid.Nil, ErrNotRefreshToken
	}
	jti, err := uuid.Parse(claims.ID)
	if err != nil {
		return nil, uuid.Nil, ErrInvalidToken
	}
	return claims, jti, nil
}

// ExtractToken extracts a bearer token from the Authorization header.
func ExtractToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", ErrAuthHeaderMissing
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", ErrInvalidAuthFormat
	}
	return parts[1], nil
}
