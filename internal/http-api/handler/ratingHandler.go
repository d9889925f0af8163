package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"kostfinder/internal/http-api/dto"
	"kostfinder/internal/http-api/service"
)

type RatingHandler struct {
	svc service.RatingService
}

func NewRatingHandler(svc service.RatingService) *RatingHandler {
	return &RatingHandler{svc: svc}
}

// RegisterRoutes mounts the review surface under the kost routes. The
// check probe lives under /user and is registered separately.
func (h *RatingHandler) RegisterRoutes(rg *gin.RouterGroup, authRequired gin.HandlerFunc) {
	rg.GET("/:kost_id/ratings", h.List)
	rg.POST("/:kost_id/ratings", authRequired, h.Create)
	rg.DELETE("/:kost_id/ratings", authRequired, h.Delete)
}

func (h *RatingHandler) List(c *gin.Context) {
	kostID, err := strconv.ParseInt(c.Param("kost_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	list, err := h.svc.ListForKost(ctx, kostID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ratings": list})
}

func (h *RatingHandler) Create(c *gin.Context) {
	kostID, err := strconv.ParseInt(c.Param("kost_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var in dto.CreateRatingDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetString("userID")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	created, err := h.svc.Create(ctx, userID, kostID, in.Rating, in.Review)
	switch {
	case errors.Is(err, service.ErrKostNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "kost not found"})
		return
	case errors.Is(err, service.ErrAlreadyRated):
		c.JSON(http.StatusConflict, gin.H{"error": "you have already rated this kost"})
		return
	case errors.Is(err, service.ErrInvalidRating), errors.Is(err, service.ErrReviewTooShort):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, created)
}

// Delete removes the caller's own review. The UI uses this to let a user
// replace a review with a fresh submission.
func (h *RatingHandler) Delete(c *gin.Context) {
	kostID, err := strconv.ParseInt(c.Param("kost_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	userID := c.GetString("userID")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Delete(ctx, userID, kostID); err != nil {
		switch {
		case errors.Is(err, service.ErrKostNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "kost not found"})
		case errors.Is(err, service.ErrRatingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "rating not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "rating deleted"})
}

// Check answers whether the caller has reviewed this kost. Anonymous
// callers get a plain no.
func (h *RatingHandler) Check(c *gin.Context) {
	kostID, err := strconv.ParseInt(c.Param("kost_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	userID := c.GetString("userID")
	if userID == "" {
		c.JSON(http.StatusOK, dto.CheckRatingResponse{HasRated: false})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	resp, err := h.svc.Check(ctx, userID, kostID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}
