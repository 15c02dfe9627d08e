package services

import (
	"context"
	"log"

	"tasknest-app/tasknest/database"
	"tasknest-app/tasknest/models"
)

// SerializeUser shapes a user for nested task output. The task count is
// aggregated from the ownership relation at read time, never cached.
func SerializeUser(db *database.Database, user models.User) (models.UserResponse, error) {
	var count int64
	if err := db.DB.Table("task_owners").Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
		return models.UserResponse{}, err
	}
	return models.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		TaskCount: count,
	}, nil
}

// SerializeCategory exposes id and name only.
func SerializeCategory(category models.Category) models.CategoryResponse {
	return models.CategoryResponse{ID: category.ID, Name: category.Name}
}

// SerializeTask shapes a task for output, expanding owners and category.
// The task must have been loaded with its Owners and Category associations.
// The attachment field carries a retrievable URL when object storage is
// configured, the raw storage key otherwise.
func SerializeTask(ctx context.Context, db *database.Database, task models.Task) (models.TaskResponse, error) {
	owners := make([]models.UserResponse, 0, len(task.Owners))
	for _, owner := range task.Owners {
		serialized, err := SerializeUser(db, owner)
		if err != nil {
			return models.TaskResponse{}, err
		}
		owners = append(owners, serialized)
	}

	var category *models.CategoryResponse
	if task.Category != nil {
		c := SerializeCategory(*task.Category)
		category = &c
	}

	attachment := task.Attachment
	if attachment != nil && AttachmentStorageInstance != nil {
		url, err := AttachmentStorageInstance.SignedURL(ctx, *attachment)
		if err != nil {
			// Fall back to the raw key rather than failing the whole read.
			log.Printf("Failed to sign attachment URL for task %s: %v", task.ID, err)
		} else {
			attachment = &url
		}
	}

	return models.TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		DueDate:     task.DueDate,
		IsOverdue:   task.IsOverdue,
		Attachment:  attachment,
		Owners:      owners,
		Priority:    task.Priority,
		Category:    category,
		State:       task.State,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}, nil
}

// SerializeTasks shapes a list of tasks for output.
func SerializeTasks(ctx context.Context, db *database.Database, tasks []models.Task) ([]models.TaskResponse, error) {
	responses := make([]models.TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		serialized, err := SerializeTask(ctx, db, task)
		if err != nil {
			return nil, err
		}
		responses = append(responses, serialized)
	}
	return responses, nil
}
