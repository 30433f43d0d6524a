package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"reviewhub/internal/http-api/dto"
	"reviewhub/internal/http-api/models"
	"reviewhub/internal/http-api/repository"
)

// MockReviewRepository mocks the ReviewRepository interface
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, review *models.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) Update(ctx context.Context, review *models.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) Delete(ctx context.Context, review *models.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) GetByID(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	args := m.Called(ctx, titleID, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewRepository) GetByTitleAndAuthor(ctx context.Context, titleID, authorID int64) (*models.Review, error) {
	args := m.Called(ctx, titleID, authorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewRepository) GetByTitle(ctx context.Context, titleID int64, page, pageSize int) ([]models.Review, int64, error) {
	args := m.Called(ctx, titleID, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Review), args.Get(1).(int64), args.Error(2)
}

// MockTitleRepository mocks the TitleRepository interface
type MockTitleRepository struct {
	mock.Mock
}

func (m *MockTitleRepository) GetAll(ctx context.Context, filter repository.TitleFilter, page, pageSize int) ([]models.Title, int64, error) {
	args := m.Called(ctx, filter, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Title), args.Get(1).(int64), args.Error(2)
}

func (m *MockTitleRepository) GetByID(ctx context.Context, id int64) (*models.Title, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Title), args.Error(1)
}

func (m *MockTitleRepository) Create(ctx context.Context, t *models.Title) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTitleRepository) Update(ctx context.Context, t *models.Title) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTitleRepository) ReplaceGenres(ctx context.Context, t *models.Title, genres []models.Genre) error {
	args := m.Called(ctx, t, genres)
	return args.Error(0)
}

func (m *MockTitleRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func reviewActor() *models.User {
	return &models.User{ID: 10, Username: "reader", Role: models.RoleUser}
}

func TestCreateReview_Success(t *testing.T) {
	mockReviewRepo := new(MockReviewRepository)
	mockTitleRepo := new(MockTitleRepository)
	reviewService := NewReviewService(mockReviewRepo, mockTitleRepo)

	mockTitleRepo.On("GetByID", mock.Anything, int64(1)).Return(&models.Title{ID: 1}, nil)
	mockReviewRepo.On("GetByTitleAndAuthor", mock.Anything, int64(1), int64(10)).Return(nil, gorm.ErrRecordNotFound)
	mockReviewRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Review")).Return(nil)

	review, err := reviewService.Create(context.Background(), reviewActor(), 1, dto.CreateReviewRequest{
		Text:  "great stuff",
		Score: 9,
	})

	assert.NoError(t, err)
	assert.NotNil(t, review)
	assert.Equal(t, 9, review.Score)
	assert.Equal(t, "reader", review.Author)
	mockReviewRepo.AssertExpectations(t)
	mockTitleRepo.AssertExpectations(t)
}

func TestCreateReview_TitleNotFound(t *testing.T) {
	mockReviewRepo := new(MockReviewRepository)
	mockTitleRepo := new(MockTitleRepository)
	reviewService := NewReviewService(mockReviewRepo, mockTitleRepo)

	mockTitleRepo.On("GetByID", mock.Anything, int64(99)).Return(nil, gorm.ErrRecordNotFound)

	review, err := reviewService.Create(context.Background(), reviewActor(), 99, dto.CreateReviewRequest{
		Text:  "text",
		Score: 5,
	})

	assert.Equal(t, ErrTitleNotFound, err)
	assert.Nil(t, review)
	mockReviewRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateReview_AlreadyReviewed(t *testing.T) {
	mockReviewRepo := new(MockReviewRepository)
	mockTitleRepo := new(MockTitleRepository)
	reviewService := NewReviewService(mockReviewRepo, mockTitleRepo)

	mockTitleRepo.On("GetByID", mock.Anything, int64(1)).Return(&models.Title{ID: 1}, nil)
	existing := &models.Review{ID: 3, TitleID: 1, AuthorID: 10}
	mockReviewRepo.On("GetByTitleAndAuthor", mock.Anything, int64(1), int64(10)).Return(existing, nil)

	review, err := reviewService.Create(context.Background(), reviewActor(), 1, dto.CreateReviewRequest{
		Text:  "again",
		Score: 5,
	})

	assert.Equal(t, ErrReviewExists, err)
	assert.Nil(t, review)
	mockReviewRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateReview_UniqueIndexRace(t *testing.T) {
	mockReviewRepo := new(MockReviewRepository)
	mockTitleRepo := new(MockTitleRepository)
	reviewService := NewReviewService(mockReviewRepo, mockTitleRepo)

	mockTitleRepo.On("GetByID", mock.Anything, int64(1)).Return(&models.Title{ID: 1}, nil)
	mockReviewRepo.On("GetByTitleAndAuthor", mock.Anything, int64(1), int64(10)).Return(nil, gorm.ErrRecordNotFound)
	// the early lookup missed but the insert ran into the index
	mockReviewRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Review")).
		Return(&pgconn.PgError{Code: "23505", ConstraintName: "idx_reviews_title_author"})

	review, err := reviewService.Create(context.Background(), reviewActor(), 1, dto.CreateReviewRequest{
		Text:  "race",
		Score: 5,
	})

	assert.Equal(t, ErrReviewExists, err)
	assert.Nil(t, review)
	mockReviewRepo.AssertExpectations(t)
}

func TestUpdateReview_ByAuthor(t *testing.T) {
	mockReviewRepo := new(MockReviewRepository)
	mockTitleRepo := new(MockTitleRepository)
	reviewService := NewReviewService(mockReviewRepo, mockTitleRepo)

	stored := &models.Review{
		ID:       3,
		TitleID:  1,
		AuthorID: 10,
		Text:     "old",
		Score:    4,
		Author:   models.User{ID: 10, Username: "reader"},
	}
	mockReviewRepo.On("GetByID", mock.Anything, int64(1), int64(3)).Return(stored, nil)
	mockReviewRepo.On("Update", mock.Anything, stored).Return(nil)

	newScore := 8
	review, err := reviewService.Update(context.Background(), reviewActor(), 1, 3, dto.UpdateReviewRequest{
		Score: &newScore,
	})

	assert.NoError(t, err)
	assert.Equal(t, 8, review.Score)
	// an omitted field stays untouched
	assert.Equal(t, "old", review.Text)
	mockReviewRepo.AssertExpectations(t)
}

func TestUpdateReview_ByModerator(t *testing.T) {
	mockReviewRepo := new(MockReviewRepository)
	mockTitleRepo := new(MockTitleRepository)
	reviewService := NewReviewService(mockReviewRepo, mockTitleRepo)

	stored := &models.Review{ID: 3, TitleID: 1, AuthorID: 10, Text: "old", Score: 4}
	mockReviewRepo.On("GetByID", mock.Anything, int64(1), int64(3)).Return(stored, nil)
	mockReviewRepo.On("Update", mock.Anything, stored).Return(nil)

	moderator := &models.User{ID: 55, Username: "mod", Role: models.RoleModerator}
	newText := "cleaned up"
	review, err := reviewService.Update(context.Background(), moderator, 1, 3, dto.UpdateReviewRequest{
		Text: &newText,
	})

	assert.NoError(t, err)
	assert.Equal(t, "cleaned up", review.Text)
	mockReviewRepo.AssertExpectations(t)
}

func TestUpdateReview_ByStranger(t *testing.T) {
	mockReviewRepo := new(MockReviewRepository)
	mockTitleRepo := new(MockTitleRepository)
	reviewService := NewReviewService(mockReviewRepo, mockTitleRepo)

	stored := &models.Review{ID: 3, TitleID: 1, AuthorID: 10}
	mockReviewRepo.On("GetByID", mock.Anything, int64(1), int64(3)).Return(stored, nil)

	stranger := &models.User{ID: 77, Username: "other", Role: models.RoleUser}
	newText := "vandalism"
	review, err := reviewService.Update(context.Background(), stranger, 1, 3, dto.UpdateReviewRequest{
		Text: &newText,
	})

	assert.Equal(t, ErrForbidden, err)
	assert.Nil(t, review)
	mockReviewRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestGetReview_WrongTitleScope(t *testing.T) {
	mockReviewRepo := new(MockReviewRepository)
	mockTitleRepo := new(MockTitleRepository)
	reviewService := NewReviewService(mockReviewRepo, mockTitleRepo)

	// the review exists but under a different title
	mockReviewRepo.On("GetByID", mock.Anything, int64(2), int64(3)).Return(nil, gorm.ErrRecordNotFound)

	review, err := reviewService.Get(context.Background(), 2, 3)

	assert.Equal(t, ErrReviewNotFound, err)
	assert.Nil(t, review)
}

func TestDeleteReview_ByAdmin(t *testing.T) {
	mockReviewRepo := new(MockReviewRepository)
	mockTitleRepo := new(MockTitleRepository)
	reviewService := NewReviewService(mockReviewRepo, mockTitleRepo)

	stored := &models.Review{ID: 3, TitleID: 1, AuthorID: 10}
	mockReviewRepo.On("GetByID", mock.Anything, int64(1), int64(3)).Return(stored, nil)
	mockReviewRepo.On("Delete", mock.Anything, stored).Return(nil)

	admin := &models.User{ID: 1, Username: "admin", Role: models.RoleAdmin}
	err := reviewService.Delete(context.Background(), admin, 1, 3)

	assert.NoError(t, err)
	mockReviewRepo.AssertExpectations(t)
}

func TestDeleteReview_ByStranger(t *testing.T) {
	mockReviewRepo := new(MockReviewRepository)
	mockTitleRepo := new(MockTitleRepository)
	reviewService := NewReviewService(mockReviewRepo, mockTitleRepo)

	stored := &models.Review{ID: 3, TitleID: 1, AuthorID: 10}
	mockReviewRepo.On("GetByID", mock.Anything, int64(1), int64(3)).Return(stored, nil)

	stranger := &models.User{ID: 77, Username: "other", Role: models.RoleUser}
	err := reviewService.Delete(context.Background(), stranger, 1, 3)

	assert.Equal(t, ErrForbidden, err)
	mockReviewRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
