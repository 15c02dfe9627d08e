package services

import (
	"errors"
	"unicode/utf8"

	"tasknest-app/tasknest/database"
	"tasknest-app/tasknest/models"

	"gorm.io/gorm"
)

type CategoryServiceInterface interface {
	CreateCategory(db *database.Database, name string) (models.Category, error)
	GetCategoryById(db *database.Database, id string) (models.Category, error)
	UpdateCategory(db *database.Database, id string, name string) (models.Category, error)
	DeleteCategory(db *database.Database, id string) error
	GetCategories(db *database.Database) ([]models.Category, error)
}

type CategoryService struct{}

func validateCategoryName(name string) error {
	if name == "" {
		return NewValidationError("name", "name is required.")
	}
	if utf8.RuneCountInString(name) > 50 {
		return NewValidationError("name", "Ensure this field has no more than 50 characters.")
	}
	return nil
}

func (s *CategoryService) CreateCategory(db *database.Database, name string) (models.Category, error) {
	if err := validateCategoryName(name); err != nil {
		return models.Category{}, err
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Category{}, tx.Error
	}

	category := models.Category{Name: name}
	if err := tx.Create(&category).Error; err != nil {
		tx.Rollback()
		return models.Category{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.Category{}, err
	}

	return category, nil
}

func (s *CategoryService) GetCategoryById(db *database.Database, id string) (models.Category, error) {
	var category models.Category
	if err := db.DB.First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Category{}, ErrCategoryNotFound
		}
		return models.Category{}, err
	}
	return category, nil
}

func (s *CategoryService) UpdateCategory(db *database.Database, id string, name string) (models.Category, error) {
	if err := validateCategoryName(name); err != nil {
		return models.Category{}, err
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Category{}, tx.Error
	}

	var category models.Category
	if err := tx.First(&category, "id = ?", id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Category{}, ErrCategoryNotFound
		}
		return models.Category{}, err
	}

	category.Name = name
	if err := tx.Save(&category).Error; err != nil {
		tx.Rollback()
		return models.Category{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.Category{}, err
	}

	return category, nil
}

// DeleteCategory removes a category and clears the category reference on
// any task pointing at it, in the same transaction. Tasks themselves are
// never deleted with their category.
func (s *CategoryService) DeleteCategory(db *database.Database, id string) error {
	tx := db.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	var category models.Category
	if err := tx.First(&category, "id = ?", id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}

	if err := tx.Model(&models.Task{}).Where("category_id = ?", category.ID).
		Update("category_id", nil).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Delete(&category).Error; err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

func (s *CategoryService) GetCategories(db *database.Database) ([]models.Category, error) {
	var categories []models.Category
	if err := db.DB.Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

var CategoryServiceInstance CategoryServiceInterface = &CategoryService{}
