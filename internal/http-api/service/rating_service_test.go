package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"kostfinder/internal/http-api/models"
	"kostfinder/internal/http-api/repository"
)

// MockRatingRepository mocks the RatingRepository interface
type MockRatingRepository struct {
	mock.Mock
}

func (m *MockRatingRepository) Create(ctx context.Context, rating *models.Rating) error {
	args := m.Called(ctx, rating)
	return args.Error(0)
}

func (m *MockRatingRepository) Delete(ctx context.Context, userID string, kostID int64) error {
	args := m.Called(ctx, userID, kostID)
	return args.Error(0)
}

func (m *MockRatingRepository) GetByUserAndKost(ctx context.Context, userID string, kostID int64) (*models.Rating, error) {
	args := m.Called(ctx, userID, kostID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rating), args.Error(1)
}

func (m *MockRatingRepository) GetByKost(ctx context.Context, kostID int64) ([]models.Rating, error) {
	args := m.Called(ctx, kostID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Rating), args.Error(1)
}

func (m *MockRatingRepository) CalculateAverageRating(ctx context.Context, kostID int64) (float64, error) {
	args := m.Called(ctx, kostID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockRatingRepository) CountRatings(ctx context.Context, kostID int64) (int64, error) {
	args := m.Called(ctx, kostID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRatingRepository) AggregateByKost(ctx context.Context) ([]repository.RatingAggregate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.RatingAggregate), args.Error(1)
}

func (m *MockRatingRepository) AggregateForKosts(ctx context.Context, kostIDs []int64) (map[int64]repository.RatingAggregate, error) {
	args := m.Called(ctx, kostIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]repository.RatingAggregate), args.Error(1)
}

func TestCreateRating_RejectsOutOfRangeValue(t *testing.T) {
	svc := NewRatingService(new(MockRatingRepository), nil)

	_, err := svc.Create(context.Background(), "u1", 1, 0, "a perfectly fine review")
	assert.ErrorIs(t, err, ErrInvalidRating)

	_, err = svc.Create(context.Background(), "u1", 1, 6, "a perfectly fine review")
	assert.ErrorIs(t, err, ErrInvalidRating)
}

func TestCreateRating_RejectsShortReview(t *testing.T) {
	svc := NewRatingService(new(MockRatingRepository), nil)

	_, err := svc.Create(context.Background(), "u1", 1, 5, "short")
	assert.ErrorIs(t, err, ErrReviewTooShort)

	// whitespace padding does not count toward the minimum
	_, err = svc.Create(context.Background(), "u1", 1, 5, "   hi        ")
	assert.ErrorIs(t, err, ErrReviewTooShort)
}

func TestCreateRating_ConcurrentDuplicate(t *testing.T) {
	ratingRepo := new(MockRatingRepository)
	kostRepo := new(MockKostRepository)
	svc := NewRatingService(ratingRepo, kostRepo)

	kostRepo.On("GetByID", mock.Anything, int64(7)).
		Return(&models.Kost{ID: 7, Title: "Kost Melati"}, nil)
	// the racing submission commits between the existence check and the insert
	ratingRepo.On("GetByUserAndKost", mock.Anything, "u1", int64(7)).
		Return(nil, gorm.ErrRecordNotFound)
	ratingRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Rating")).
		Return(gorm.ErrDuplicatedKey)

	_, err := svc.Create(context.Background(), "u1", 7, 5, "great place to live in")

	assert.ErrorIs(t, err, ErrAlreadyRated)
}

func TestListForKost(t *testing.T) {
	repo := new(MockRatingRepository)
	svc := NewRatingService(repo, nil)

	ratings := []models.Rating{
		{ID: 2, Rating: 5, Review: "very clean and quiet", User: models.User{Name: "Budi"}},
		{ID: 1, Rating: 4, Review: "good value for money", User: models.User{Name: "Sari"}},
	}
	repo.On("GetByKost", mock.Anything, int64(7)).Return(ratings, nil)

	out, err := svc.ListForKost(context.Background(), 7)

	assert.NoError(t, err)
	assert.Len(t, out, 2)
	assert.Equal(t, "Budi", out[0].User.Name)
	assert.Equal(t, int64(2), out[0].ID)
}

func TestCheck_NotRated(t *testing.T) {
	repo := new(MockRatingRepository)
	svc := NewRatingService(repo, nil)

	repo.On("GetByUserAndKost", mock.Anything, "u1", int64(7)).Return(nil, gorm.ErrRecordNotFound)

	resp, err := svc.Check(context.Background(), "u1", 7)

	assert.NoError(t, err)
	assert.False(t, resp.HasRated)
	assert.Nil(t, resp.Rating)
}

func TestCheck_AlreadyRated(t *testing.T) {
	repo := new(MockRatingRepository)
	svc := NewRatingService(repo, nil)

	rating := &models.Rating{ID: 9, Rating: 4, Review: "spacious rooms, friendly owner", User: models.User{Name: "Sari"}}
	repo.On("GetByUserAndKost", mock.Anything, "u1", int64(7)).Return(rating, nil)

	resp, err := svc.Check(context.Background(), "u1", 7)

	assert.NoError(t, err)
	assert.True(t, resp.HasRated)
	assert.Equal(t, int64(9), resp.Rating.ID)
}
