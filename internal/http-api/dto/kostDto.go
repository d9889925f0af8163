package dto

import (
	"time"

	"kostfinder/internal/http-api/models"
)

// CreateKostDTO used for POST /api/admin/kosts
type CreateKostDTO struct {
	Title       string   `json:"title" binding:"required"`
	Location    string   `json:"location" binding:"required"`
	Price       *int64   `json:"price" binding:"required"`
	Type        string   `json:"type" binding:"required"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Phone       string   `json:"phone"`
	OwnerName   string   `json:"owner_name"`
	Facilities  []string `json:"facilities"`
}

// UpdateKostDTO used for PUT /api/admin/kosts/:id (partial updates allowed)
type UpdateKostDTO struct {
	Title       *string  `json:"title,omitempty"`
	Location    *string  `json:"location,omitempty"`
	Price       *int64   `json:"price,omitempty"`
	Type        *string  `json:"type,omitempty"`
	Description *string  `json:"description,omitempty"`
	Images      []string `json:"images,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	Phone       *string  `json:"phone,omitempty"`
	OwnerName   *string  `json:"owner_name,omitempty"`
	Facilities  []string `json:"facilities,omitempty"`
}

// KostResponse DTO for responses; rating aggregates default to 0 when unrated
type KostResponse struct {
	ID            int64     `json:"_id"`
	Title         string    `json:"title"`
	Location      string    `json:"location"`
	Price         int64     `json:"price"`
	Type          string    `json:"type"`
	Description   string    `json:"description"`
	Images        []string  `json:"images"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	Phone         string    `json:"phone"`
	OwnerName     string    `json:"owner_name"`
	Facilities    []string  `json:"facilities"`
	AverageRating float64   `json:"averageRating"`
	TotalReviews  int64     `json:"totalReviews"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// KostDetailResponse adds the ratings list for the detail page
type KostDetailResponse struct {
	KostResponse
	Ratings []RatingResponse `json:"ratings"`
}

// SearchFilters holds the parsed query parameters for GET /api/kosts
type SearchFilters struct {
	Search     string
	Type       string // empty or "all" means any
	MinPrice   *int64
	MaxPrice   *int64
	Facilities []string // matches kosts carrying any of these tags
	Page       int
	Limit      int
}

// Pagination block returned alongside listing pages
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

type PaginatedKostResponse struct {
	Kosts      []KostResponse `json:"kosts"`
	Pagination Pagination     `json:"pagination"`
}

func NewPagination(total int64, page, limit int) Pagination {
	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

// Converters
func (d CreateKostDTO) ToModel() models.Kost {
	k := models.Kost{
		Title:       d.Title,
		Location:    d.Location,
		Type:        d.Type,
		Description: d.Description,
		Images:      d.Images,
		Phone:       d.Phone,
		OwnerName:   d.OwnerName,
	}
	if d.Price != nil {
		k.Price = *d.Price
	}
	if d.Latitude != nil {
		k.Latitude = *d.Latitude
	}
	if d.Longitude != nil {
		k.Longitude = *d.Longitude
	}
	return k
}

func (d UpdateKostDTO) ApplyTo(k *models.Kost) {
	if d.Title != nil {
		k.Title = *d.Title
	}
	if d.Location != nil {
		k.Location = *d.Location
	}
	if d.Price != nil {
		k.Price = *d.Price
	}
	if d.Type != nil {
		k.Type = *d.Type
	}
	if d.Description != nil {
		k.Description = *d.Description
	}
	if d.Images != nil {
		k.Images = d.Images
	}
	if d.Latitude != nil {
		k.Latitude = *d.Latitude
	}
	if d.Longitude != nil {
		k.Longitude = *d.Longitude
	}
	if d.Phone != nil {
		k.Phone = *d.Phone
	}
	if d.OwnerName != nil {
		k.OwnerName = *d.OwnerName
	}
}

func FromModelToResponse(k models.Kost, avgRating float64, totalReviews int64) KostResponse {
	images := k.Images
	if images == nil {
		images = []string{}
	}
	return KostResponse{
		ID:            k.ID,
		Title:         k.Title,
		Location:      k.Location,
		Price:         k.Price,
		Type:          k.Type,
		Description:   k.Description,
		Images:        images,
		Latitude:      k.Latitude,
		Longitude:     k.Longitude,
		Phone:         k.Phone,
		OwnerName:     k.OwnerName,
		Facilities:    k.FacilityNames(),
		AverageRating: avgRating,
		TotalReviews:  totalReviews,
		CreatedAt:     k.CreatedAt,
		UpdatedAt:     k.UpdatedAt,
	}
}
