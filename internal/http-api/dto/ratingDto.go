package dto

import (
	"time"

	"kostfinder/internal/http-api/models"
)

// CreateRatingDTO for submitting a review
type CreateRatingDTO struct {
	Rating int    `json:"rating" binding:"required,min=1,max=5"`
	Review string `json:"review" binding:"required"`
}

// RatingUser exposes only the reviewer's display name
type RatingUser struct {
	Name string `json:"name"`
}

// RatingResponse for returning rating information
type RatingResponse struct {
	ID        int64      `json:"_id"`
	Rating    int        `json:"rating"`
	Review    string     `json:"review"`
	CreatedAt time.Time  `json:"createdAt"`
	User      RatingUser `json:"user"`
}

// FromModelToRatingResponse converts a Rating model to RatingResponse DTO
func FromModelToRatingResponse(rating *models.Rating) *RatingResponse {
	return &RatingResponse{
		ID:        rating.ID,
		Rating:    rating.Rating,
		Review:    rating.Review,
		CreatedAt: rating.CreatedAt,
		User:      RatingUser{Name: rating.User.Name},
	}
}

// CheckRatingResponse for the has-the-user-rated probe
type CheckRatingResponse struct {
	HasRated bool            `json:"hasRated"`
	Rating   *RatingResponse `json:"rating"`
}
