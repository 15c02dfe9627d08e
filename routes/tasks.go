package routes

import (
	"net/http"

	"tasknest-app/tasknest/database"
	"tasknest-app/tasknest/models"
	"tasknest-app/tasknest/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func RegisterTaskRoutes(group *gin.RouterGroup, db *database.Database, taskService services.TaskServiceInterface) {
	group.GET("/tasks", func(c *gin.Context) { GetTasks(c, db, taskService) })
	group.POST("/tasks", func(c *gin.Context) { CreateTask(c, db, taskService) })
	group.GET("/tasks/:id", func(c *gin.Context) { GetTaskById(c, db, taskService) })
	group.PUT("/tasks/:id", func(c *gin.Context) { UpdateTask(c, db, taskService) })
	group.PATCH("/tasks/:id", func(c *gin.Context) { UpdateTask(c, db, taskService) })
	group.DELETE("/tasks/:id", func(c *gin.Context) { DeleteTask(c, db, taskService) })
	group.PUT("/tasks/:id/attachment", func(c *gin.Context) { UploadAttachment(c, db, taskService) })
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userIDInterface, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return uuid.Nil, false
	}
	return userIDInterface.(uuid.UUID), true
}

// isOwner reports whether userID is in the task's owners set. Ownership is
// the single authorization rule for task-specific operations.
func isOwner(task models.Task, userID uuid.UUID) bool {
	for _, owner := range task.Owners {
		if owner.ID == userID {
			return true
		}
	}
	return false
}

// ownedTask loads a task and enforces the ownership rule, writing the 404
// or 403 response itself when the check fails.
func ownedTask(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface, userID uuid.UUID) (models.Task, bool) {
	task, err := taskService.GetTaskById(db, c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return models.Task{}, false
	}
	if !isOwner(task, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to access this task"})
		return models.Task{}, false
	}
	return task, true
}

func CreateTask(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input models.TaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	// Owner assignment is not accepted from the client on create; the
	// caller becomes the sole owner.
	input.OwnerIDs = nil

	task, err := taskService.CreateTask(db, input, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response, err := services.SerializeTask(c.Request.Context(), db, task)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response)
}

func GetTaskById(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	task, ok := ownedTask(c, db, taskService, userID)
	if !ok {
		return
	}

	response, err := services.SerializeTask(c.Request.Context(), db, task)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

func UpdateTask(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input models.TaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, ok := ownedTask(c, db, taskService, userID); !ok {
		return
	}

	task, err := taskService.UpdateTask(db, c.Param("id"), input)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response, err := services.SerializeTask(c.Request.Context(), db, task)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

func DeleteTask(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if _, ok := ownedTask(c, db, taskService, userID); !ok {
		return
	}

	if err := taskService.DeleteTask(db, c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusNoContent, gin.H{})
}

// UploadAttachment stores a multipart file in object storage and records
// its key on the task.
func UploadAttachment(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if _, ok := ownedTask(c, db, taskService, userID); !ok {
		return
	}

	storage := services.AttachmentStorageInstance
	if storage == nil {
		handleServiceError(c, services.ErrStorageUnavailable)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		handleServiceError(c, err)
		return
	}
	defer file.Close()

	key := services.StorageKey(fileHeader.Filename)
	contentType := fileHeader.Header.Get("Content-Type")
	if err := storage.Upload(c.Request.Context(), key, contentType, file); err != nil {
		handleServiceError(c, err)
		return
	}

	task, err := taskService.SetAttachment(db, c.Param("id"), key)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response, err := services.SerializeTask(c.Request.Context(), db, task)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

func GetTasks(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	// The list is always scoped to the caller's own tasks.
	params := map[string]interface{}{
		"owner_id": userID.String(),
	}
	if priority := c.Query("priority"); priority != "" {
		params["priority"] = priority
	}
	if state := c.Query("state"); state != "" {
		params["state"] = state
	}

	tasks, err := taskService.GetTasks(db, params)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response, err := services.SerializeTasks(c.Request.Context(), db, tasks)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}
