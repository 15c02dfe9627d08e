package routes

import (
	"net/http"

	"tasknest-app/tasknest/database"
	"tasknest-app/tasknest/models"
	"tasknest-app/tasknest/services"

	"github.com/gin-gonic/gin"
)

type categoryRequest struct {
	Name string `json:"name"`
}

// Category operations require authentication but no ownership: categories
// are shared between users.
func RegisterCategoryRoutes(group *gin.RouterGroup, db *database.Database, categoryService services.CategoryServiceInterface) {
	group.GET("/categories", func(c *gin.Context) { GetCategories(c, db, categoryService) })
	group.POST("/categories", func(c *gin.Context) { CreateCategory(c, db, categoryService) })
	group.GET("/categories/:id", func(c *gin.Context) { GetCategoryById(c, db, categoryService) })
	group.PUT("/categories/:id", func(c *gin.Context) { UpdateCategory(c, db, categoryService) })
	group.PATCH("/categories/:id", func(c *gin.Context) { UpdateCategory(c, db, categoryService) })
	group.DELETE("/categories/:id", func(c *gin.Context) { DeleteCategory(c, db, categoryService) })
}

func CreateCategory(c *gin.Context, db *database.Database, categoryService services.CategoryServiceInterface) {
	var request categoryRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := categoryService.CreateCategory(db, request.Name)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, services.SerializeCategory(category))
}

func GetCategoryById(c *gin.Context, db *database.Database, categoryService services.CategoryServiceInterface) {
	category, err := categoryService.GetCategoryById(db, c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, services.SerializeCategory(category))
}

func UpdateCategory(c *gin.Context, db *database.Database, categoryService services.CategoryServiceInterface) {
	var request categoryRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := categoryService.UpdateCategory(db, c.Param("id"), request.Name)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, services.SerializeCategory(category))
}

func DeleteCategory(c *gin.Context, db *database.Database, categoryService services.CategoryServiceInterface) {
	if err := categoryService.DeleteCategory(db, c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusNoContent, gin.H{})
}

func GetCategories(c *gin.Context, db *database.Database, categoryService services.CategoryServiceInterface) {
	categories, err := categoryService.GetCategories(db)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response := make([]models.CategoryResponse, 0, len(categories))
	for _, category := range categories {
		response = append(response, services.SerializeCategory(category))
	}
	c.JSON(http.StatusOK, response)
}
