package dto

// FavoriteRequest: payload to add or remove a favorite
type FavoriteRequest struct {
	KostID int64 `json:"kostId" binding:"required"`
}

// CheckFavoriteResponse for the is-it-favorited probe
type CheckFavoriteResponse struct {
	IsFavorite bool `json:"isFavorite"`
}
