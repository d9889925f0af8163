package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"kostfinder/internal/http-api/dto"
	"kostfinder/internal/http-api/models"
	"kostfinder/internal/http-api/repository"
)

var (
	ErrAlreadyRated   = errors.New("you have already rated this kost")
	ErrRatingNotFound = errors.New("rating not found")
	ErrInvalidRating  = errors.New("rating must be between 1 and 5")
	ErrReviewTooShort = errors.New("review must be at least 10 characters")
)

const minReviewLength = 10

type RatingService interface {
	Create(ctx context.Context, userID string, kostID int64, ratingValue int, review string) (*dto.RatingResponse, error)
	Delete(ctx context.Context, userID string, kostID int64) error
	ListForKost(ctx context.Context, kostID int64) ([]dto.RatingResponse, error)
	Check(ctx context.Context, userID string, kostID int64) (*dto.CheckRatingResponse, error)
}

type ratingService struct {
	ratingRepo repository.RatingRepository
	kostRepo   repository.KostRepository
}

func NewRatingService(ratingRepo repository.RatingRepository, kostRepo repository.KostRepository) RatingService {
	return &ratingService{
		ratingRepo: ratingRepo,
		kostRepo:   kostRepo,
	}
}

// Create stores a user's one-and-only rating for a kost. Ratings are not
// updated in place; the author deletes and resubmits instead.
func (s *ratingService) Create(ctx context.Context, userID string, kostID int64, ratingValue int, review string) (*dto.RatingResponse, error) {
	if ratingValue < 1 || ratingValue > 5 {
		return nil, ErrInvalidRating
	}
	review = strings.TrimSpace(review)
	if len(review) < minReviewLength {
		return nil, ErrReviewTooShort
	}

	if _, err := s.kostRepo.GetByID(ctx, kostID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrKostNotFound
		}
		return nil, err
	}

	existing, err := s.ratingRepo.GetByUserAndKost(ctx, userID, kostID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyRated
	}

	newRating := &models.Rating{
		UserID: userID,
		KostID: kostID,
		Rating: ratingValue,
		Review: review,
	}
	if err := s.ratingRepo.Create(ctx, newRating); err != nil {
		// a concurrent submission can slip past the existence check; the
		// (user_id, kost_id) unique index catches it
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyRated
		}
		return nil, err
	}

	// Reload with the reviewer's name for the response
	rating, err := s.ratingRepo.GetByUserAndKost(ctx, userID, kostID)
	if err != nil {
		return nil, err
	}

	return dto.FromModelToRatingResponse(rating), nil
}

// Delete removes the caller's own rating so they can submit a fresh one.
func (s *ratingService) Delete(ctx context.Context, userID string, kostID int64) error {
	if _, err := s.kostRepo.GetByID(ctx, kostID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrKostNotFound
		}
		return err
	}

	if err := s.ratingRepo.Delete(ctx, userID, kostID); err != nil {
		return ErrRatingNotFound
	}
	return nil
}

// ListForKost returns all reviews for a kost, newest first.
func (s *ratingService) ListForKost(ctx context.Context, kostID int64) ([]dto.RatingResponse, error) {
	ratings, err := s.ratingRepo.GetByKost(ctx, kostID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.RatingResponse, 0, len(ratings))
	for i := range ratings {
		out = append(out, *dto.FromModelToRatingResponse(&ratings[i]))
	}
	return out, nil
}

// Check reports whether the user has already reviewed this kost. Used by the
// UI to decide whether to show the review form.
func (s *ratingService) Check(ctx context.Context, userID string, kostID int64) (*dto.CheckRatingResponse, error) {
	rating, err := s.ratingRepo.GetByUserAndKost(ctx, userID, kostID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &dto.CheckRatingResponse{HasRated: false, Rating: nil}, nil
		}
		return nil, err
	}

	return &dto.CheckRatingResponse{
		HasRated: true,
		Rating:   dto.FromModelToRatingResponse(rating),
	}, nil
}
