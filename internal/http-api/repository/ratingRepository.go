package repository

import (
	"context"
	"errors"

	"kostfinder/internal/http-api/models"

	"gorm.io/gorm"
)

// RatingAggregate is one per-kost grouping row of the ratings table.
type RatingAggregate struct {
	KostID  int64
	Average float64
	Count   int64
}

type RatingRepository interface {
	Create(ctx context.Context, rating *models.Rating) error
	Delete(ctx context.Context, userID string, kostID int64) error
	GetByUserAndKost(ctx context.Context, userID string, kostID int64) (*models.Rating, error)
	GetByKost(ctx context.Context, kostID int64) ([]models.Rating, error)
	CalculateAverageRating(ctx context.Context, kostID int64) (float64, error)
	CountRatings(ctx context.Context, kostID int64) (int64, error)
	AggregateByKost(ctx context.Context) ([]RatingAggregate, error)
	AggregateForKosts(ctx context.Context, kostIDs []int64) (map[int64]RatingAggregate, error)
}

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

// Create a new rating; the (user_id, kost_id) unique index rejects duplicates
func (r *ratingRepository) Create(ctx context.Context, rating *models.Rating) error {
	return r.db.WithContext(ctx).Create(rating).Error
}

// Delete a rating by user and kost
func (r *ratingRepository) Delete(ctx context.Context, userID string, kostID int64) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND kost_id = ?", userID, kostID).
		Delete(&models.Rating{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("rating not found")
	}
	return nil
}

// GetByUserAndKost retrieves a user's rating for a specific kost
func (r *ratingRepository) GetByUserAndKost(ctx context.Context, userID string, kostID int64) (*models.Rating, error) {
	var rating models.Rating
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND kost_id = ?", userID, kostID).
		Preload("User").
		First(&rating).Error
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

// GetByKost retrieves all ratings for a kost, newest first, with reviewer names
func (r *ratingRepository) GetByKost(ctx context.Context, kostID int64) ([]models.Rating, error) {
	var ratings []models.Rating
	err := r.db.WithContext(ctx).
		Where("kost_id = ?", kostID).
		Preload("User").
		Order("created_at DESC").
		Find(&ratings).Error
	if err != nil {
		return nil, err
	}
	return ratings, nil
}

// CalculateAverageRating calculates the average rating for a kost
func (r *ratingRepository) CalculateAverageRating(ctx context.Context, kostID int64) (float64, error) {
	var avg struct {
		Average float64
	}

	err := r.db.WithContext(ctx).Model(&models.Rating{}).
		Select("COALESCE(AVG(rating), 0) as average").
		Where("kost_id = ?", kostID).
		Scan(&avg).Error
	if err != nil {
		return 0, err
	}

	return avg.Average, nil
}

// CountRatings counts the total number of ratings for a kost
func (r *ratingRepository) CountRatings(ctx context.Context, kostID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Rating{}).
		Where("kost_id = ?", kostID).
		Count(&count).Error
	return count, err
}

// AggregateByKost groups every rating row by kost for the ranked surfaces
func (r *ratingRepository) AggregateByKost(ctx context.Context) ([]RatingAggregate, error) {
	var rows []RatingAggregate
	err := r.db.WithContext(ctx).Model(&models.Rating{}).
		Select("kost_id, AVG(rating) as average, COUNT(*) as count").
		Group("kost_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// AggregateForKosts returns rating aggregates keyed by kost id for the given set
func (r *ratingRepository) AggregateForKosts(ctx context.Context, kostIDs []int64) (map[int64]RatingAggregate, error) {
	out := make(map[int64]RatingAggregate, len(kostIDs))
	if len(kostIDs) == 0 {
		return out, nil
	}

	var rows []RatingAggregate
	err := r.db.WithContext(ctx).Model(&models.Rating{}).
		Select("kost_id, AVG(rating) as average, COUNT(*) as count").
		Where("kost_id IN ?", kostIDs).
		Group("kost_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		out[row.KostID] = row
	}
	return out, nil
}
