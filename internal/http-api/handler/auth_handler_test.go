package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"reviewhub/internal/http-api/dto"
	"reviewhub/internal/http-api/models"
	"reviewhub/internal/http-api/service"
)

// MockAuthService mocks the AuthService interface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Signup(ctx context.Context, username, email string) (*models.User, error) {
	args := m.Called(ctx, username, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) IssueToken(ctx context.Context, username, code string) (string, error) {
	args := m.Called(ctx, username, code)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*service.TokenClaims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TokenClaims), args.Error(1)
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func postJSON(router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req, _ := http.NewRequest("POST", path, bytes.NewBuffer(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSignupEndpoint_Success(t *testing.T) {
	mockAuthService := new(MockAuthService)
	h := NewAuthHandler(mockAuthService)
	router := setupRouter()
	router.POST("/signup", h.Signup)

	user := &models.User{Username: "testuser", Email: "test@example.com"}
	mockAuthService.On("Signup", mock.Anything, "testuser", "test@example.com").Return(user, nil)

	w := postJSON(router, "/signup", dto.SignupRequest{
		Username: "testuser",
		Email:    "test@example.com",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.SignupResponse
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "testuser", response.Username)
	assert.Equal(t, "test@example.com", response.Email)
	mockAuthService.AssertExpectations(t)
}

func TestSignupEndpoint_ReservedUsername(t *testing.T) {
	mockAuthService := new(MockAuthService)
	h := NewAuthHandler(mockAuthService)
	router := setupRouter()
	router.POST("/signup", h.Signup)

	mockAuthService.On("Signup", mock.Anything, "me", "me@example.com").
		Return(nil, service.ErrReservedUsername)

	w := postJSON(router, "/signup", dto.SignupRequest{
		Username: "me",
		Email:    "me@example.com",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response struct {
		Errors map[string]string `json:"errors"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Contains(t, response.Errors, "username")
	mockAuthService.AssertExpectations(t)
}

func TestSignupEndpoint_MissingEmail(t *testing.T) {
	mockAuthService := new(MockAuthService)
	h := NewAuthHandler(mockAuthService)
	router := setupRouter()
	router.POST("/signup", h.Signup)

	w := postJSON(router, "/signup", map[string]string{"username": "testuser"})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response struct {
		Errors map[string]string `json:"errors"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Contains(t, response.Errors, "email")
	mockAuthService.AssertNotCalled(t, "Signup", mock.Anything, mock.Anything, mock.Anything)
}

func TestSignupEndpoint_InvalidJSON(t *testing.T) {
	mockAuthService := new(MockAuthService)
	h := NewAuthHandler(mockAuthService)
	router := setupRouter()
	router.POST("/signup", h.Signup)

	req, _ := http.NewRequest("POST", "/signup", bytes.NewBufferString("invalid json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTokenEndpoint_Success(t *testing.T) {
	mockAuthService := new(MockAuthService)
	h := NewAuthHandler(mockAuthService)
	router := setupRouter()
	router.POST("/token", h.Token)

	mockAuthService.On("IssueToken", mock.Anything, "testuser", "the-code").
		Return("signed-token", nil)

	w := postJSON(router, "/token", dto.TokenRequest{
		Username:         "testuser",
		ConfirmationCode: "the-code",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.TokenResponse
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "signed-token", response.Token)
	mockAuthService.AssertExpectations(t)
}

func TestTokenEndpoint_WrongCode(t *testing.T) {
	mockAuthService := new(MockAuthService)
	h := NewAuthHandler(mockAuthService)
	router := setupRouter()
	router.POST("/token", h.Token)

	mockAuthService.On("IssueToken", mock.Anything, "testuser", "wrong").
		Return("", service.ErrInvalidConfirmationCode)

	w := postJSON(router, "/token", dto.TokenRequest{
		Username:         "testuser",
		ConfirmationCode: "wrong",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response struct {
		Errors map[string]string `json:"errors"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Contains(t, response.Errors, "confirmation_code")
	mockAuthService.AssertExpectations(t)
}

func TestTokenEndpoint_UnknownUser(t *testing.T) {
	mockAuthService := new(MockAuthService)
	h := NewAuthHandler(mockAuthService)
	router := setupRouter()
	router.POST("/token", h.Token)

	mockAuthService.On("IssueToken", mock.Anything, "ghost", "code").
		Return("", service.ErrUserNotFound)

	w := postJSON(router, "/token", dto.TokenRequest{
		Username:         "ghost",
		ConfirmationCode: "code",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockAuthService.AssertExpectations(t)
}
