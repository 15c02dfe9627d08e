package services

import (
	"errors"
	"time"

	"tasknest-app/tasknest/database"
	"tasknest-app/tasknest/models"
	"tasknest-app/tasknest/utils/token"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Use the JWTClaims from token package
type JWTClaims = token.JWTClaims

// TokenPair is issued at login: the access token authenticates requests,
// the refresh token is exchanged for new access tokens until revoked.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type AuthServiceInterface interface {
	Login(db *database.Database, username, password string) (models.User, TokenPair, error)
	Refresh(db *database.Database, refreshToken string) (string, error)
	Logout(db *database.Database, refreshToken string) error
	ValidateToken(tokenString string) (*JWTClaims, error)
	HashPassword(password string) (string, error)
	ComparePasswords(hashedPassword, password string) error
}

type AuthService struct {
	jwtSecret         []byte
	jwtExpiration     time.Duration
	refreshExpiration time.Duration
}

func NewAuthService(jwtSecret string, jwtExpirationMinutes, refreshExpirationHours int) *AuthService {
	return &AuthService{
		jwtSecret:         []byte(jwtSecret),
		jwtExpiration:     time.Duration(jwtExpirationMinutes) * time.Minute,
		refreshExpiration: time.Duration(refreshExpirationHours) * time.Hour,
	}
}

func (s *AuthService) Login(db *database.Database, username, password string) (models.User, TokenPair, error) {
	var user models.User
	if err := db.DB.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, TokenPair{}, ErrInvalidCredentials
		}
		return models.User{}, TokenPair{}, err
	}

	if err := s.ComparePasswords(user.PasswordHash, password); err != nil {
		return models.User{}, TokenPair{}, ErrInvalidCredentials
	}

	access, err := token.GenerateAccessToken(user.ID, user.Username, s.jwtSecret, s.jwtExpiration)
	if err != nil {
		return models.User{}, TokenPair{}, err
	}

	refresh, _, err := token.GenerateRefreshToken(user.ID, user.Username, s.jwtSecret, s.refreshExpiration)
	if err != nil {
		return models.User{}, TokenPair{}, err
	}

	return user, TokenPair{Access: access, Refresh: refresh}, nil
}

// Refresh exchanges a valid, non-revoked refresh token for a new access
// token.
func (s *AuthService) Refresh(db *database.Database, refreshToken string) (string, error) {
	claims, jti, err := token.ValidateRefreshToken(refreshToken, s.jwtSecret)
	if err != nil {
		return "", ErrInvalidToken
	}

	revoked, err := s.isRevoked(db, jti)
	if err != nil {
		return "", err
	}
	if revoked {
		return "", ErrInvalidToken
	}

	return token.GenerateAccessToken(claims.UserID, claims.Username, s.jwtSecret, s.jwtExpiration)
}

// Logout blacklists the refresh token. A malformed, expired, or already
// revoked token is reported as invalid.
func (s *AuthService) Logout(db *database.Database, refreshToken string) error {
	claims, jti, err := token.ValidateRefreshToken(refreshToken, s.jwtSecret)
	if err != nil {
		return ErrInvalidToken
	}

	revoked, err := s.isRevoked(db, jti)
	if err != nil {
		return err
	}
	if revoked {
		return ErrInvalidToken
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	entry := models.RevokedToken{
		JTI:       jti,
		UserID:    claims.UserID,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if err := tx.Create(&entry).Error; err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

func (s *AuthService) isRevoked(db *database.Database, jti uuid.UUID) (bool, error) {
	var count int64
	if err := db.DB.Model(&models.RevokedToken{}).Where("jti = ?", jti).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ValidateToken validates an access token for request authentication.
func (s *AuthService) ValidateToken(tokenString string) (*JWTClaims, error) {
	return token.ValidateAccessToken(tokenString, s.jwtSecret)
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) ComparePasswords(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

var AuthServiceInstance AuthServiceInterface
