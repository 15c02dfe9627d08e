package services

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"tasknest-app/tasknest/database"
	"tasknest-app/tasknest/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TaskServiceInterface interface {
	CreateTask(db *database.Database, input models.TaskInput, ownerID uuid.UUID) (models.Task, error)
	GetTaskById(db *database.Database, id string) (models.Task, error)
	UpdateTask(db *database.Database, id string, input models.TaskInput) (models.Task, error)
	DeleteTask(db *database.Database, id string) error
	GetTasks(db *database.Database, params map[string]interface{}) ([]models.Task, error)
	SetAttachment(db *database.Database, id string, key string) (models.Task, error)
}

type TaskService struct{}

// CreateTask creates a task owned solely by ownerID. Owner assignment is
// never accepted from the client on create; the authenticated caller is
// passed in explicitly.
func (s *TaskService) CreateTask(db *database.Database, input models.TaskInput, ownerID uuid.UUID) (models.Task, error) {
	verr := &ValidationError{}
	if input.Title == nil || *input.Title == "" {
		verr.Add("title", "title is required.")
	} else if utf8.RuneCountInString(*input.Title) > 255 {
		verr.Add("title", "Ensure this field has no more than 255 characters.")
	}
	if input.Description == nil || *input.Description == "" {
		verr.Add("description", "description is required.")
	}
	if input.DueDate == nil || input.DueDate.IsZero() {
		verr.Add("due_date", "due_date is required.")
	} else if !input.DueDate.After(time.Now()) {
		verr.Add("due_date", "Due date must be in the future.")
	}
	if len(verr.Fields) > 0 {
		return models.Task{}, verr
	}

	priority := models.PriorityMedium
	if input.Priority != nil {
		if !models.ValidPriority(*input.Priority) {
			return models.Task{}, NewValidationError("priority", fmt.Sprintf("%q is not a valid choice.", *input.Priority))
		}
		priority = models.TaskPriority(*input.Priority)
	}

	state := models.StateOpen
	if input.State != nil {
		if !models.ValidState(*input.State) {
			return models.Task{}, NewValidationError("state", fmt.Sprintf("%q is not a valid choice.", *input.State))
		}
		state = models.TaskState(*input.State)
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Task{}, tx.Error
	}

	var owner models.User
	if err := tx.First(&owner, "id = ?", ownerID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Task{}, ErrUserNotFound
		}
		return models.Task{}, err
	}

	var categoryID *uuid.UUID
	if input.CategoryID.Set && input.CategoryID.Valid {
		if err := categoryExists(tx, input.CategoryID.Value); err != nil {
			tx.Rollback()
			return models.Task{}, err
		}
		categoryID = &input.CategoryID.Value
	}

	task := models.Task{
		Title:       *input.Title,
		Description: *input.Description,
		DueDate:     *input.DueDate,
		Priority:    priority,
		State:       state,
		CategoryID:  categoryID,
		Attachment:  input.Attachment,
		Owners:      []models.User{owner},
	}

	if err := tx.Create(&task).Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	return s.GetTaskById(db, task.ID.String())
}

func (s *TaskService) GetTaskById(db *database.Database, id string) (models.Task, error) {
	var task models.Task
	err := db.DB.Preload("Owners").Preload("Category").First(&task, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Task{}, ErrTaskNotFound
		}
		return models.Task{}, err
	}
	return task, nil
}

// UpdateTask applies a partial update: only fields present in the input are
// touched, except that an explicit category_id null clears the category
// reference. Referenced category and owner ids must exist. The overdue flag
// is recomputed on save, so applying the same update twice is idempotent.
func (s *TaskService) UpdateTask(db *database.Database, id string, input models.TaskInput) (models.Task, error) {
	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Task{}, tx.Error
	}

	var task models.Task
	if err := tx.First(&task, "id = ?", id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Task{}, ErrTaskNotFound
		}
		return models.Task{}, err
	}

	if input.Title != nil {
		if *input.Title == "" {
			tx.Rollback()
			return models.Task{}, NewValidationError("title", "title may not be blank.")
		}
		if utf8.RuneCountInString(*input.Title) > 255 {
			tx.Rollback()
			return models.Task{}, NewValidationError("title", "Ensure this field has no more than 255 characters.")
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		if *input.Description == "" {
			tx.Rollback()
			return models.Task{}, NewValidationError("description", "description may not be blank.")
		}
		task.Description = *input.Description
	}
	if input.DueDate != nil {
		task.DueDate = *input.DueDate
	}
	if input.Priority != nil {
		if !models.ValidPriority(*input.Priority) {
			tx.Rollback()
			return models.Task{}, NewValidationError("priority", fmt.Sprintf("%q is not a valid choice.", *input.Priority))
		}
		task.Priority = models.TaskPriority(*input.Priority)
	}
	if input.State != nil {
		if !models.ValidState(*input.State) {
			tx.Rollback()
			return models.Task{}, NewValidationError("state", fmt.Sprintf("%q is not a valid choice.", *input.State))
		}
		task.State = models.TaskState(*input.State)
	}
	if input.CategoryID.Set {
		if input.CategoryID.Valid {
			if err := categoryExists(tx, input.CategoryID.Value); err != nil {
				tx.Rollback()
				return models.Task{}, err
			}
			task.CategoryID = &input.CategoryID.Value
		} else {
			// Explicit null clears the reference.
			task.CategoryID = nil
		}
	}
	if input.Attachment != nil {
		task.Attachment = input.Attachment
	}

	if input.OwnerIDs != nil {
		owners, err := resolveOwners(tx, *input.OwnerIDs)
		if err != nil {
			tx.Rollback()
			return models.Task{}, err
		}
		if err := tx.Model(&task).Association("Owners").Replace(owners); err != nil {
			tx.Rollback()
			return models.Task{}, err
		}
	}

	if err := tx.Omit(clause.Associations).Save(&task).Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	return s.GetTaskById(db, id)
}

func (s *TaskService) DeleteTask(db *database.Database, id string) error {
	tx := db.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	var task models.Task
	if err := tx.First(&task, "id = ?", id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return err
	}

	if err := tx.Model(&task).Association("Owners").Clear(); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Delete(&task).Error; err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

// GetTasks lists tasks matching the filter params. An unrecognized priority
// or state value is silently ignored rather than rejected; callers depend
// on this.
func (s *TaskService) GetTasks(db *database.Database, params map[string]interface{}) ([]models.Task, error) {
	query := db.DB.Preload("Owners").Preload("Category")

	if ownerID, ok := params["owner_id"].(string); ok && ownerID != "" {
		query = query.
			Joins("JOIN task_owners ON task_owners.task_id = tasks.id").
			Where("task_owners.user_id = ?", ownerID)
	}
	if priority, ok := params["priority"].(string); ok && models.ValidPriority(priority) {
		query = query.Where("priority = ?", priority)
	}
	if state, ok := params["state"].(string); ok && models.ValidState(state) {
		query = query.Where("state = ?", state)
	}

	var tasks []models.Task
	if err := query.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// SetAttachment records the storage key of an uploaded attachment.
func (s *TaskService) SetAttachment(db *database.Database, id string, key string) (models.Task, error) {
	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Task{}, tx.Error
	}

	var task models.Task
	if err := tx.First(&task, "id = ?", id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Task{}, ErrTaskNotFound
		}
		return models.Task{}, err
	}

	task.Attachment = &key
	if err := tx.Omit(clause.Associations).Save(&task).Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	return s.GetTaskById(db, id)
}

func categoryExists(tx *gorm.DB, id uuid.UUID) error {
	var count int64
	if err := tx.Model(&models.Category{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return NewValidationError("category_id", "Category does not exist.")
	}
	return nil
}

func resolveOwners(tx *gorm.DB, ids []uuid.UUID) ([]models.User, error) {
	var users []models.User
	if len(ids) == 0 {
		return users, nil
	}
	if err := tx.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	if len(users) != len(ids) {
		return nil, NewValidationError("owner_ids", "One or more owners do not exist.")
	}
	return users, nil
}

var TaskServiceInstance TaskServiceInterface = &TaskService{}
