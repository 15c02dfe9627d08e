package routes

import (
	"net/http"

	"tasknest-app/tasknest/database"
	"tasknest-app/tasknest/middleware"
	"tasknest-app/tasknest/services"
	"tasknest-app/tasknest/utils/token"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

func RegisterAuthRoutes(router *gin.Engine, db *database.Database, authService services.AuthServiceInterface, userService services.UserServiceInterface) {
	group := router.Group("/api/v1/auth")
	{
		group.POST("/register", func(c *gin.Context) { Register(c, db, userService) })
		group.POST("/login", func(c *gin.Context) { Login(c, db, authService) })
		group.POST("/refresh", func(c *gin.Context) { Refresh(c, db, authService) })
		group.POST("/logout", middleware.AuthMiddleware(authService), func(c *gin.Context) { Logout(c, db, authService) })
		group.GET("/check-auth", func(c *gin.Context) { CheckAuth(c, db, authService, userService) })
		group.GET("/check-email", func(c *gin.Context) { CheckEmail(c, db, userService) })
	}
}

func Register(c *gin.Context, db *database.Database, userService services.UserServiceInterface) {
	var input services.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := userService.Register(db, input); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully."})
}

func Login(c *gin.Context, db *database.Database, authService services.AuthServiceInterface) {
	var request loginRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	_, tokens, err := authService.Login(db, request.Username, request.Password)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokens)
}

func Refresh(c *gin.Context, db *database.Database, authService services.AuthServiceInterface) {
	var request refreshRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	access, err := authService.Refresh(db, request.Refresh)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"access": access})
}

func Logout(c *gin.Context, db *database.Database, authService services.AuthServiceInterface) {
	var request refreshRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := authService.Logout(db, request.Refresh); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully."})
}

// CheckAuth reports whether the request carries a valid access token. It
// never fails: an anonymous caller gets isAuthenticated=false.
func CheckAuth(c *gin.Context, db *database.Database, authService services.AuthServiceInterface, userService services.UserServiceInterface) {
	tokenString, err := token.ExtractToken(c)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"isAuthenticated": false})
		return
	}

	claims, err := authService.ValidateToken(tokenString)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"isAuthenticated": false})
		return
	}

	user, err := userService.GetUserById(db, claims.UserID.String())
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"isAuthenticated": false})
		return
	}

	serialized, err := services.SerializeUser(db, user)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"isAuthenticated": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"isAuthenticated": true, "user": serialized})
}

func CheckEmail(c *gin.Context, db *database.Database, userService services.UserServiceInterface) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email query parameter is required"})
		return
	}

	exists, err := userService.EmailExists(db, email)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"email_exists": exists})
}
