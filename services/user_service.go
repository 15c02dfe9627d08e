package services

import (
	"errors"

	"tasknest-app/tasknest/database"
	"tasknest-app/tasknest/models"

	"gorm.io/gorm"
)

// RegisterInput is the registration payload. The username of the created
// user is the email address.
type RegisterInput struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type UserServiceInterface interface {
	Register(db *database.Database, input RegisterInput) (models.User, error)
	GetUserById(db *database.Database, id string) (models.User, error)
	EmailExists(db *database.Database, email string) (bool, error)
}

type UserService struct {
	authService AuthServiceInterface
}

func NewUserService(authService AuthServiceInterface) *UserService {
	return &UserService{authService: authService}
}

func (s *UserService) Register(db *database.Database, input RegisterInput) (models.User, error) {
	if input.Email == "" {
		return models.User{}, NewValidationError("email", "email is required.")
	}
	if input.Password == "" {
		return models.User{}, NewValidationError("password", "password is required.")
	}
	if input.ConfirmPassword == "" {
		return models.User{}, NewValidationError("confirm_password", "confirm_password is required.")
	}
	if len(input.Password) < 8 {
		return models.User{}, NewValidationError("password", "Password must be at least 8 characters long.")
	}
	if input.Password != input.ConfirmPassword {
		return models.User{}, NewValidationError("confirm_password", "Passwords do not match.")
	}

	exists, err := s.EmailExists(db, input.Email)
	if err != nil {
		return models.User{}, err
	}
	if exists {
		return models.User{}, NewValidationError("email", "A user with this email already exists.")
	}

	hash, err := s.authService.HashPassword(input.Password)
	if err != nil {
		return models.User{}, err
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.User{}, tx.Error
	}

	user := models.User{
		Username:     input.Email,
		Email:        input.Email,
		PasswordHash: hash,
	}
	if err := tx.Create(&user).Error; err != nil {
		tx.Rollback()
		return models.User{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.User{}, err
	}

	return user, nil
}

func (s *UserService) GetUserById(db *database.Database, id string) (models.User, error) {
	var user models.User
	if err := db.DB.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (s *UserService) EmailExists(db *database.Database, email string) (bool, error) {
	var count int64
	if err := db.DB.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

var UserServiceInstance UserServiceInterface
