package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"tasknest-app/tasknest/database"
	"tasknest-app/tasknest/middleware"
	"tasknest-app/tasknest/models"
	"tasknest-app/tasknest/services"
	"tasknest-app/tasknest/testutils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// setupFullRouter wires the real services and middleware against an
// in-memory database, mirroring cmd/main.go.
func setupFullRouter(t *testing.T) (*gin.Engine, *database.Database) {
	gin.SetMode(gin.TestMode)
	db := testutils.SetupTestDB(t)

	authService := services.NewAuthService("integration-secret", 60, 24)
	userService := services.NewUserService(authService)

	router := gin.New()
	RegisterAuthRoutes(router, db, authService, userService)

	apiGroup := router.Group("/api/v1", middleware.AuthMiddleware(authService))
	RegisterTaskRoutes(apiGroup, db, &services.TaskService{})
	RegisterCategoryRoutes(apiGroup, db, &services.CategoryService{})

	return router, db
}

func doJSON(router *gin.Engine, method, path, token string, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var buf *bytes.Buffer
	if body != "" {
		buf = bytes.NewBufferString(body)
	} else {
		buf = &bytes.Buffer{}
	}
	req, _ := http.NewRequest(method, path, buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	router.ServeHTTP(w, req)
	return w
}

func registerAndLogin(t *testing.T, router *gin.Engine, email string) services.TokenPair {
	t.Helper()

	w := doJSON(router, "POST", "/api/v1/auth/register", "",
		`{"email":"`+email+`","password":"longpass1","confirm_password":"longpass1"}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, "POST", "/api/v1/auth/login", "",
		`{"username":"`+email+`","password":"longpass1"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	var tokens services.TokenPair
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &tokens))
	assert.NotEmpty(t, tokens.Access)
	assert.NotEmpty(t, tokens.Refresh)
	return tokens
}

func TestEndToEnd_RegisterLoginCreateList(t *testing.T) {
	router, _ := setupFullRouter(t)
	tokens := registerAndLogin(t, router, "a@x.com")

	// Create a task with the access token; the caller is the sole owner.
	w := doJSON(router, "POST", "/api/v1/tasks", tokens.Access,
		`{"title":"Ship release","description":"Cut and publish 1.0","due_date":"2030-06-01T12:00:00Z"}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	var created models.TaskResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Len(t, created.Owners, 1)
	assert.Equal(t, "a@x.com", created.Owners[0].Username)
	assert.False(t, created.IsOverdue)

	// Listing as the caller returns exactly that task.
	w = doJSON(router, "GET", "/api/v1/tasks", tokens.Access, "")
	assert.Equal(t, http.StatusOK, w.Code)

	var listed []models.TaskResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)

	// Without a token the list is unreachable.
	w = doJSON(router, "GET", "/api/v1/tasks", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestEndToEnd_OwnershipIsEnforced(t *testing.T) {
	router, _ := setupFullRouter(t)
	alice := registerAndLogin(t, router, "alice@x.com")
	bob := registerAndLogin(t, router, "bob@x.com")

	w := doJSON(router, "POST", "/api/v1/tasks", alice.Access,
		`{"title":"Private","description":"Alice only","due_date":"2030-06-01T12:00:00Z"}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	var task models.TaskResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &task))

	// Bob can neither see, change, nor delete Alice's task.
	assert.Equal(t, http.StatusForbidden, doJSON(router, "GET", "/api/v1/tasks/"+task.ID.String(), bob.Access, "").Code)
	assert.Equal(t, http.StatusForbidden, doJSON(router, "PATCH", "/api/v1/tasks/"+task.ID.String(), bob.Access, `{"state":"done"}`).Code)
	assert.Equal(t, http.StatusForbidden, doJSON(router, "DELETE", "/api/v1/tasks/"+task.ID.String(), bob.Access, "").Code)

	// Bob's list does not leak it either.
	w = doJSON(router, "GET", "/api/v1/tasks", bob.Access, "")
	assert.Equal(t, http.StatusOK, w.Code)
	var listed []models.TaskResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Len(t, listed, 0)

	// Alice still has full access.
	assert.Equal(t, http.StatusOK, doJSON(router, "GET", "/api/v1/tasks/"+task.ID.String(), alice.Access, "").Code)
}

func TestEndToEnd_CategoryDeleteClearsReference(t *testing.T) {
	router, _ := setupFullRouter(t)
	tokens := registerAndLogin(t, router, "a@x.com")

	w := doJSON(router, "POST", "/api/v1/categories", tokens.Access, `{"name":"Work"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	var category models.CategoryResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &category))

	w = doJSON(router, "POST", "/api/v1/tasks", tokens.Access,
		`{"title":"Filed","description":"In a category","due_date":"2030-06-01T12:00:00Z","category_id":"`+category.ID.String()+`"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	var task models.TaskResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &task))
	if assert.NotNil(t, task.Category) {
		assert.Equal(t, "Work", task.Category.Name)
	}

	assert.Equal(t, http.StatusNoContent, doJSON(router, "DELETE", "/api/v1/categories/"+category.ID.String(), tokens.Access, "").Code)

	// The task survives with a null category.
	w = doJSON(router, "GET", "/api/v1/tasks/"+task.ID.String(), tokens.Access, "")
	assert.Equal(t, http.StatusOK, w.Code)
	var reloaded models.TaskResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &reloaded))
	assert.Nil(t, reloaded.Category)
}

func TestEndToEnd_NullCategoryIDClearsCategory(t *testing.T) {
	router, _ := setupFullRouter(t)
	tokens := registerAndLogin(t, router, "a@x.com")

	w := doJSON(router, "POST", "/api/v1/categories", tokens.Access, `{"name":"Work"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	var category models.CategoryResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &category))

	w = doJSON(router, "POST", "/api/v1/tasks", tokens.Access,
		`{"title":"Filed","description":"In a category","due_date":"2030-06-01T12:00:00Z","category_id":"`+category.ID.String()+`"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	var task models.TaskResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &task))
	assert.NotNil(t, task.Category)

	// A patch that omits category_id leaves it alone.
	w = doJSON(router, "PATCH", "/api/v1/tasks/"+task.ID.String(), tokens.Access, `{"state":"done"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	var patched models.TaskResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &patched))
	assert.NotNil(t, patched.Category)

	// An explicit category_id null un-categorizes the task.
	w = doJSON(router, "PATCH", "/api/v1/tasks/"+task.ID.String(), tokens.Access, `{"category_id":null}`)
	assert.Equal(t, http.StatusOK, w.Code)
	var cleared models.TaskResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &cleared))
	assert.Nil(t, cleared.Category)

	// The category itself still exists.
	assert.Equal(t, http.StatusOK, doJSON(router, "GET", "/api/v1/categories/"+category.ID.String(), tokens.Access, "").Code)
}

func TestEndToEnd_LogoutBlacklistsRefreshToken(t *testing.T) {
	router, _ := setupFullRouter(t)
	tokens := registerAndLogin(t, router, "a@x.com")

	w := doJSON(router, "POST", "/api/v1/auth/refresh", "", `{"refresh":"`+tokens.Refresh+`"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, "POST", "/api/v1/auth/logout", tokens.Access, `{"refresh":"`+tokens.Refresh+`"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	// The blacklisted refresh token is dead.
	w = doJSON(router, "POST", "/api/v1/auth/refresh", "", `{"refresh":"`+tokens.Refresh+`"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, "POST", "/api/v1/auth/logout", tokens.Access, `{"refresh":"`+tokens.Refresh+`"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid token")
}

func TestEndToEnd_PermissiveFilterQuirk(t *testing.T) {
	router, _ := setupFullRouter(t)
	tokens := registerAndLogin(t, router, "a@x.com")

	w := doJSON(router, "POST", "/api/v1/tasks", tokens.Access,
		`{"title":"One","description":"d","due_date":"2030-06-01T12:00:00Z","priority":"high"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	w = doJSON(router, "POST", "/api/v1/tasks", tokens.Access,
		`{"title":"Two","description":"d","due_date":"2030-06-01T12:00:00Z"}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	// A recognized priority filters the list.
	w = doJSON(router, "GET", "/api/v1/tasks?priority=high", tokens.Access, "")
	assert.Equal(t, http.StatusOK, w.Code)
	var listed []models.TaskResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Len(t, listed, 1)

	// An unrecognized one is silently ignored rather than rejected.
	w = doJSON(router, "GET", "/api/v1/tasks?priority=bogus", tokens.Access, "")
	assert.Equal(t, http.StatusOK, w.Code)
	listed = nil
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Len(t, listed, 2)
}
