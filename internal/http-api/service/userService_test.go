package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"reviewhub/internal/http-api/dto"
	"reviewhub/internal/http-api/models"
)

func TestCreateUser_WithRole(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mailer := newCaptureMailer()
	userService := NewUserService(mockUserRepo, mailer, testLogger())

	mockUserRepo.On("FindByEmail", mock.Anything, "mod@example.com").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("FindByUsernameFold", mock.Anything, "newmod").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)

	role := models.RoleModerator
	user, err := userService.Create(context.Background(), dto.CreateUserRequest{
		Username: "newmod",
		Email:    "mod@example.com",
		Role:     &role,
	})

	assert.NoError(t, err)
	assert.Equal(t, models.RoleModerator, user.Role)
	mailer.waitForSend(t)
	mockUserRepo.AssertExpectations(t)
}

func TestCreateUser_DefaultRole(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mailer := newCaptureMailer()
	userService := NewUserService(mockUserRepo, mailer, testLogger())

	mockUserRepo.On("FindByEmail", mock.Anything, "plain@example.com").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("FindByUsernameFold", mock.Anything, "plain").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)

	user, err := userService.Create(context.Background(), dto.CreateUserRequest{
		Username: "plain",
		Email:    "plain@example.com",
	})

	assert.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
	mailer.waitForSend(t)
	mockUserRepo.AssertExpectations(t)
}

func TestCreateUser_ReservedUsername(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	userService := NewUserService(mockUserRepo, newCaptureMailer(), testLogger())

	user, err := userService.Create(context.Background(), dto.CreateUserRequest{
		Username: "me",
		Email:    "me@example.com",
	})

	assert.Equal(t, ErrReservedUsername, err)
	assert.Nil(t, user)
	mockUserRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdateMe_RoleIgnoredForRegularUser(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	userService := NewUserService(mockUserRepo, newCaptureMailer(), testLogger())

	stored := &models.User{ID: 10, Username: "reader", Email: "reader@example.com", Role: models.RoleUser}
	mockUserRepo.On("FindByUsername", mock.Anything, "reader").Return(stored, nil)
	mockUserRepo.On("Update", mock.Anything, stored).Return(nil)

	actor := &models.User{ID: 10, Username: "reader", Role: models.RoleUser}
	role := models.RoleAdmin
	bio := "hello"
	user, err := userService.UpdateMe(context.Background(), actor, dto.UpdateUserRequest{
		Role: &role,
		Bio:  &bio,
	})

	assert.NoError(t, err)
	// the role field is silently dropped, the rest applies
	assert.Equal(t, models.RoleUser, user.Role)
	assert.Equal(t, "hello", *user.Bio)
	mockUserRepo.AssertExpectations(t)
}

func TestUpdateMe_SuperuserMayChangeOwnRole(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	userService := NewUserService(mockUserRepo, newCaptureMailer(), testLogger())

	stored := &models.User{ID: 1, Username: "root", Email: "root@example.com", Role: models.RoleUser, IsSuperuser: true}
	mockUserRepo.On("FindByUsername", mock.Anything, "root").Return(stored, nil)
	mockUserRepo.On("Update", mock.Anything, stored).Return(nil)

	actor := &models.User{ID: 1, Username: "root", IsSuperuser: true}
	role := models.RoleAdmin
	user, err := userService.UpdateMe(context.Background(), actor, dto.UpdateUserRequest{Role: &role})

	assert.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)
	mockUserRepo.AssertExpectations(t)
}

func TestUpdateUser_EmailTakenByAnother(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	userService := NewUserService(mockUserRepo, newCaptureMailer(), testLogger())

	stored := &models.User{ID: 10, Username: "reader", Email: "reader@example.com"}
	other := &models.User{ID: 20, Username: "other", Email: "taken@example.com"}
	mockUserRepo.On("FindByUsername", mock.Anything, "reader").Return(stored, nil)
	mockUserRepo.On("FindByEmail", mock.Anything, "taken@example.com").Return(other, nil)

	email := "Taken@example.com"
	user, err := userService.Update(context.Background(), "reader", dto.UpdateUserRequest{Email: &email})

	assert.Equal(t, ErrEmailInUse, err)
	assert.Nil(t, user)
	mockUserRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateUser_AdminSetsRole(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	userService := NewUserService(mockUserRepo, newCaptureMailer(), testLogger())

	stored := &models.User{ID: 10, Username: "reader", Email: "reader@example.com", Role: models.RoleUser}
	mockUserRepo.On("FindByUsername", mock.Anything, "reader").Return(stored, nil)
	mockUserRepo.On("Update", mock.Anything, stored).Return(nil)

	role := models.RoleModerator
	user, err := userService.Update(context.Background(), "reader", dto.UpdateUserRequest{Role: &role})

	assert.NoError(t, err)
	assert.Equal(t, models.RoleModerator, user.Role)
	mockUserRepo.AssertExpectations(t)
}

func TestUpdateUser_Rename(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	userService := NewUserService(mockUserRepo, newCaptureMailer(), testLogger())

	stored := &models.User{ID: 10, Username: "reader", Email: "reader@example.com"}
	mockUserRepo.On("FindByUsername", mock.Anything, "reader").Return(stored, nil)
	mockUserRepo.On("FindByUsernameFold", mock.Anything, "bookworm").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("Update", mock.Anything, stored).Return(nil)

	username := "bookworm"
	user, err := userService.Update(context.Background(), "reader", dto.UpdateUserRequest{Username: &username})

	assert.NoError(t, err)
	assert.Equal(t, "bookworm", user.Username)
	mockUserRepo.AssertExpectations(t)
}

func TestUpdateUser_RenameToReserved(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	userService := NewUserService(mockUserRepo, newCaptureMailer(), testLogger())

	stored := &models.User{ID: 10, Username: "reader", Email: "reader@example.com"}
	mockUserRepo.On("FindByUsername", mock.Anything, "reader").Return(stored, nil)

	username := "Me"
	user, err := userService.Update(context.Background(), "reader", dto.UpdateUserRequest{Username: &username})

	assert.Equal(t, ErrReservedUsername, err)
	assert.Nil(t, user)
	mockUserRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateUser_RenameTakenCaseInsensitive(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	userService := NewUserService(mockUserRepo, newCaptureMailer(), testLogger())

	stored := &models.User{ID: 10, Username: "reader", Email: "reader@example.com"}
	other := &models.User{ID: 20, Username: "Bookworm", Email: "other@example.com"}
	mockUserRepo.On("FindByUsername", mock.Anything, "reader").Return(stored, nil)
	mockUserRepo.On("FindByUsernameFold", mock.Anything, "bookworm").Return(other, nil)

	username := "bookworm"
	user, err := userService.Update(context.Background(), "reader", dto.UpdateUserRequest{Username: &username})

	assert.Equal(t, ErrNameInUse, err)
	assert.Nil(t, user)
	mockUserRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateMe_CaseOnlyRename(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	userService := NewUserService(mockUserRepo, newCaptureMailer(), testLogger())

	stored := &models.User{ID: 10, Username: "reader", Email: "reader@example.com"}
	mockUserRepo.On("FindByUsername", mock.Anything, "reader").Return(stored, nil)
	// the folded lookup finds the caller's own row, which is not a conflict
	mockUserRepo.On("FindByUsernameFold", mock.Anything, "Reader").Return(stored, nil)
	mockUserRepo.On("Update", mock.Anything, stored).Return(nil)

	username := "Reader"
	actor := &models.User{ID: 10, Username: "reader", Role: models.RoleUser}
	user, err := userService.UpdateMe(context.Background(), actor, dto.UpdateUserRequest{Username: &username})

	assert.NoError(t, err)
	assert.Equal(t, "Reader", user.Username)
	mockUserRepo.AssertExpectations(t)
}

func TestDeleteUser_NotFound(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	userService := NewUserService(mockUserRepo, newCaptureMailer(), testLogger())

	mockUserRepo.On("FindByUsername", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)

	err := userService.Delete(context.Background(), "ghost")

	assert.Equal(t, ErrUserNotFound, err)
}
