package services

import (
	"errors"
	"testing"

	"tasknest-app/tasknest/testutils"

	"github.com/stretchr/testify/assert"
)

func newTestUserService() *UserService {
	return NewUserService(NewAuthService("test-secret", 60, 24))
}

func TestRegister_Success(t *testing.T) {
	db := testutils.SetupTestDB(t)
	userService := newTestUserService()

	user, err := userService.Register(db, RegisterInput{
		Email:           "a@x.com",
		Password:        "longpass1",
		ConfirmPassword: "longpass1",
	})
	assert.NoError(t, err)
	assert.Equal(t, "a@x.com", user.Email)
	// The username of a registered user is the email.
	assert.Equal(t, "a@x.com", user.Username)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "longpass1", user.PasswordHash)
}

func TestRegister_PasswordMismatch(t *testing.T) {
	db := testutils.SetupTestDB(t)
	userService := newTestUserService()

	_, err := userService.Register(db, RegisterInput{
		Email:           "a@x.com",
		Password:        "longpass1",
		ConfirmPassword: "longpass2",
	})

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, "Passwords do not match.", verr.Fields["confirm_password"])
}

func TestRegister_PasswordTooShort(t *testing.T) {
	db := testutils.SetupTestDB(t)
	userService := newTestUserService()

	_, err := userService.Register(db, RegisterInput{
		Email:           "a@x.com",
		Password:        "short",
		ConfirmPassword: "short",
	})

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, "Password must be at least 8 characters long.", verr.Fields["password"])
}

func TestRegister_DuplicateEmail(t *testing.T) {
	db := testutils.SetupTestDB(t)
	userService := newTestUserService()

	input := RegisterInput{
		Email:           "a@x.com",
		Password:        "longpass1",
		ConfirmPassword: "longpass1",
	}
	_, err := userService.Register(db, input)
	assert.NoError(t, err)

	_, err = userService.Register(db, input)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, "A user with this email already exists.", verr.Fields["email"])
}

func TestRegister_MissingFields(t *testing.T) {
	db := testutils.SetupTestDB(t)
	userService := newTestUserService()

	_, err := userService.Register(db, RegisterInput{})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "email")
}

func TestEmailExists_DatabaseError(t *testing.T) {
	db, mock, closeDB := testutils.SetupMockDB()
	defer closeDB()
	userService := newTestUserService()

	mock.ExpectQuery("SELECT count").WillReturnError(errors.New("connection refused"))

	_, err := userService.EmailExists(db, "a@x.com")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmailExists(t *testing.T) {
	db := testutils.SetupTestDB(t)
	userService := newTestUserService()

	exists, err := userService.EmailExists(db, "a@x.com")
	assert.NoError(t, err)
	assert.False(t, exists)

	_, err = userService.Register(db, RegisterInput{
		Email:           "a@x.com",
		Password:        "longpass1",
		ConfirmPassword: "longpass1",
	})
	assert.NoError(t, err)

	exists, err = userService.EmailExists(db, "a@x.com")
	assert.NoError(t, err)
	assert.True(t, exists)
}
