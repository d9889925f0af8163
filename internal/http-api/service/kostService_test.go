package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"kostfinder/internal/http-api/dto"
	"kostfinder/internal/http-api/models"
	"kostfinder/internal/http-api/repository"
)

// MockKostRepository mocks the KostRepository interface
type MockKostRepository struct {
	mock.Mock
}

func (m *MockKostRepository) GetAll(ctx context.Context) ([]models.Kost, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Kost), args.Error(1)
}

func (m *MockKostRepository) GetByID(ctx context.Context, id int64) (*models.Kost, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Kost), args.Error(1)
}

func (m *MockKostRepository) GetByIDs(ctx context.Context, ids []int64) ([]models.Kost, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Kost), args.Error(1)
}

func (m *MockKostRepository) Create(ctx context.Context, k *models.Kost) error {
	args := m.Called(ctx, k)
	return args.Error(0)
}

func (m *MockKostRepository) Update(ctx context.Context, id int64, k *models.Kost) error {
	args := m.Called(ctx, id, k)
	return args.Error(0)
}

func (m *MockKostRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockKostRepository) Search(ctx context.Context, f dto.SearchFilters) ([]models.Kost, int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]models.Kost), args.Get(1).(int64), args.Error(2)
}

func (m *MockKostRepository) ReplaceFacilities(ctx context.Context, kostID int64, names []string) error {
	args := m.Called(ctx, kostID, names)
	return args.Error(0)
}

func TestRankTopRated_QualificationRules(t *testing.T) {
	rows := []repository.RatingAggregate{
		{KostID: 1, Average: 4.5, Count: 4},  // qualifies
		{KostID: 2, Average: 3.9, Count: 10}, // average too low
		{KostID: 3, Average: 5.0, Count: 1},  // too few reviews
		{KostID: 4, Average: 4.0, Count: 2},  // boundary values qualify
	}

	ranked := RankTopRated(rows)

	ids := make([]int64, 0, len(ranked))
	for _, r := range ranked {
		ids = append(ids, r.KostID)
	}
	assert.Equal(t, []int64{1, 4}, ids)
}

func TestRankTopRated_OrderByCountThenAverage(t *testing.T) {
	rows := []repository.RatingAggregate{
		{KostID: 1, Average: 4.2, Count: 3},
		{KostID: 2, Average: 4.9, Count: 3},
		{KostID: 3, Average: 4.1, Count: 8},
	}

	ranked := RankTopRated(rows)

	assert.Len(t, ranked, 3)
	assert.Equal(t, int64(3), ranked[0].KostID) // most reviews first
	assert.Equal(t, int64(2), ranked[1].KostID) // then higher average wins
	assert.Equal(t, int64(1), ranked[2].KostID)
}

func TestRankTopRated_CapsAtSix(t *testing.T) {
	rows := make([]repository.RatingAggregate, 0, 10)
	for i := int64(1); i <= 10; i++ {
		rows = append(rows, repository.RatingAggregate{KostID: i, Average: 4.5, Count: i + 1})
	}

	ranked := RankTopRated(rows)

	assert.Len(t, ranked, 6)
	// highest review counts survive the cut
	assert.Equal(t, int64(10), ranked[0].KostID)
	assert.Equal(t, int64(5), ranked[5].KostID)
}

func TestRankTopRated_Empty(t *testing.T) {
	assert.Empty(t, RankTopRated(nil))
}

func TestSearch_RejectsUnknownType(t *testing.T) {
	svc := NewKostService(nil, nil, nil)

	_, err := svc.Search(context.Background(), dto.SearchFilters{Type: "mixed"})

	assert.ErrorIs(t, err, ErrInvalidType)
}

func TestGetDetail_AverageFromRatings(t *testing.T) {
	kostRepo := new(MockKostRepository)
	ratingRepo := new(MockRatingRepository)
	svc := NewKostService(kostRepo, ratingRepo, nil)

	kostRepo.On("GetByID", mock.Anything, int64(7)).
		Return(&models.Kost{ID: 7, Title: "Kost Melati"}, nil)
	ratingRepo.On("GetByKost", mock.Anything, int64(7)).Return([]models.Rating{
		{ID: 4, Rating: 5, Review: "spotless and quiet rooms", User: models.User{Name: "Budi"}},
		{ID: 3, Rating: 5, Review: "great owner, fast wifi", User: models.User{Name: "Sari"}},
		{ID: 2, Rating: 4, Review: "decent value for the area", User: models.User{Name: "Tono"}},
		{ID: 1, Rating: 4, Review: "clean shared kitchen", User: models.User{Name: "Rina"}},
	}, nil)

	detail, err := svc.GetDetail(context.Background(), 7)

	assert.NoError(t, err)
	assert.Equal(t, 4.5, detail.AverageRating)
	assert.Equal(t, int64(4), detail.TotalReviews)
	assert.Len(t, detail.Ratings, 4)
	assert.Equal(t, "Budi", detail.Ratings[0].User.Name)
}

func TestGetDetail_UnratedKost(t *testing.T) {
	kostRepo := new(MockKostRepository)
	ratingRepo := new(MockRatingRepository)
	svc := NewKostService(kostRepo, ratingRepo, nil)

	kostRepo.On("GetByID", mock.Anything, int64(8)).
		Return(&models.Kost{ID: 8, Title: "Kost Mawar"}, nil)
	ratingRepo.On("GetByKost", mock.Anything, int64(8)).Return([]models.Rating{}, nil)

	detail, err := svc.GetDetail(context.Background(), 8)

	assert.NoError(t, err)
	assert.Equal(t, 0.0, detail.AverageRating)
	assert.Equal(t, int64(0), detail.TotalReviews)
	assert.Empty(t, detail.Ratings)
}

func TestRoundRating(t *testing.T) {
	assert.Equal(t, 4.3, roundRating(4.333333))
	assert.Equal(t, 4.7, roundRating(4.666666))
	assert.Equal(t, 0.0, roundRating(0))
}
