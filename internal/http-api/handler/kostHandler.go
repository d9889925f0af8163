package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"kostfinder/internal/http-api/dto"
	"kostfinder/internal/http-api/service"
)

type KostHandler struct {
	svc service.KostService
}

func NewKostHandler(svc service.KostService) *KostHandler {
	return &KostHandler{svc: svc}
}

// RegisterRoutes wires the public catalog surface.
func (h *KostHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.Search)
	rg.GET("/featured", h.Featured)
	rg.GET("/top-rated", h.TopRated)
	rg.GET("/:kost_id", h.Get)
}

// RegisterAdminRoutes wires the management surface. Callers must stack
// the auth and admin middleware on rg before calling this.
func (h *KostHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.ListAll)
	rg.POST("", h.Create)
	rg.PUT("/:kost_id", h.Update)
	rg.DELETE("/:kost_id", h.Delete)
}

// Search handles GET /api/kosts with the full filter set.
func (h *KostHandler) Search(c *gin.Context) {
	var filters dto.SearchFilters

	filters.Search = strings.TrimSpace(c.Query("search"))
	filters.Type = strings.TrimSpace(c.Query("type"))

	if minStr := strings.TrimSpace(c.Query("minPrice")); minStr != "" {
		min, err := strconv.ParseInt(minStr, 10, 64)
		if err != nil || min < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid minPrice parameter"})
			return
		}
		filters.MinPrice = &min
	}
	if maxStr := strings.TrimSpace(c.Query("maxPrice")); maxStr != "" {
		max, err := strconv.ParseInt(maxStr, 10, 64)
		if err != nil || max < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid maxPrice parameter"})
			return
		}
		filters.MaxPrice = &max
	}

	// Facilities arrive comma-separated; a kost matches when it carries any of them.
	if facStr := strings.TrimSpace(c.Query("facilities")); facStr != "" {
		parts := strings.Split(facStr, ",")
		filters.Facilities = make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				filters.Facilities = append(filters.Facilities, trimmed)
			}
		}
	}

	filters.Page = 1
	if pageStr := strings.TrimSpace(c.Query("page")); pageStr != "" {
		if page, err := strconv.Atoi(pageStr); err == nil && page >= 1 {
			filters.Page = page
		}
	}

	filters.Limit = 12
	if limitStr := strings.TrimSpace(c.Query("limit")); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit >= 1 && limit <= 100 {
			filters.Limit = limit
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	resp, err := h.svc.Search(ctx, filters)
	if errors.Is(err, service.ErrInvalidType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid type, must be one of: putra, putri, campur, exclusive"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *KostHandler) Featured(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	list, err := h.svc.Featured(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"kosts": list})
}

func (h *KostHandler) TopRated(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	list, err := h.svc.TopRated(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"kosts": list})
}

func (h *KostHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("kost_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	detail, err := h.svc.GetDetail(ctx, id)
	if errors.Is(err, service.ErrKostNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "kost not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, detail)
}

func (h *KostHandler) ListAll(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	list, err := h.svc.ListAll(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"kosts": list})
}

func (h *KostHandler) Create(c *gin.Context) {
	var in dto.CreateKostDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	created, err := h.svc.Create(ctx, in)
	if errors.Is(err, service.ErrInvalidType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid type, must be one of: putra, putri, campur, exclusive"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *KostHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("kost_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var in dto.UpdateKostDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	updated, err := h.svc.Update(ctx, id, in)
	if errors.Is(err, service.ErrKostNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "kost not found"})
		return
	}
	if errors.Is(err, service.ErrInvalidType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid type, must be one of: putra, putri, campur, exclusive"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *KostHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("kost_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Delete(ctx, id); err != nil {
		if errors.Is(err, service.ErrKostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "kost not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "kost deleted"})
}
