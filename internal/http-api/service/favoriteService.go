package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"kostfinder/internal/http-api/dto"
	"kostfinder/internal/http-api/models"
	"kostfinder/internal/http-api/repository"
)

type FavoriteService interface {
	Add(ctx context.Context, userID string, kostID int64) error
	Remove(ctx context.Context, userID string, kostID int64) error
	List(ctx context.Context, userID string) ([]dto.KostResponse, error)
	IsFavorite(ctx context.Context, userID string, kostID int64) (bool, error)
}

type favoriteService struct {
	repo       repository.FavoriteRepository
	kostRepo   repository.KostRepository
	ratingRepo repository.RatingRepository
}

func NewFavoriteService(repo repository.FavoriteRepository, kostRepo repository.KostRepository, ratingRepo repository.RatingRepository) FavoriteService {
	return &favoriteService{
		repo:       repo,
		kostRepo:   kostRepo,
		ratingRepo: ratingRepo,
	}
}

// Add favorites a kost for the user. Adding an already-favorited kost is a
// no-op, not an error.
func (s *favoriteService) Add(ctx context.Context, userID string, kostID int64) error {
	if _, err := s.kostRepo.GetByID(ctx, kostID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrKostNotFound
		}
		return err
	}

	exists, err := s.repo.Exists(ctx, userID, kostID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	if err := s.repo.Add(ctx, userID, kostID); err != nil {
		// a concurrent add can slip past the existence check; the unique
		// index makes the second insert fail, which is still a no-op here
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return err
	}
	return nil
}

// Remove unfavorites a kost; removing a non-favorite is a no-op.
func (s *favoriteService) Remove(ctx context.Context, userID string, kostID int64) error {
	return s.repo.Remove(ctx, userID, kostID)
}

// List returns the full kost records for everything the user favorited.
func (s *favoriteService) List(ctx context.Context, userID string) ([]dto.KostResponse, error) {
	favorites, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	kosts := make([]models.Kost, 0, len(favorites))
	for _, f := range favorites {
		if f.Kost != nil {
			kosts = append(kosts, *f.Kost)
		}
	}

	ids := make([]int64, 0, len(kosts))
	for _, k := range kosts {
		ids = append(ids, k.ID)
	}
	aggs, err := s.ratingRepo.AggregateForKosts(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]dto.KostResponse, 0, len(kosts))
	for _, k := range kosts {
		agg := aggs[k.ID]
		out = append(out, dto.FromModelToResponse(k, roundRating(agg.Average), agg.Count))
	}
	return out, nil
}

func (s *favoriteService) IsFavorite(ctx context.Context, userID string, kostID int64) (bool, error) {
	return s.repo.Exists(ctx, userID, kostID)
}
