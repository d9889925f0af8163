package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"kostfinder/internal/http-api/upload"
)

type UploadHandler struct {
	uploader        upload.Uploader
	maxBytes        int64
	placeholderBase string
	logger          *zap.Logger
}

func NewUploadHandler(uploader upload.Uploader, maxBytes int64, placeholderBase string, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{
		uploader:        uploader,
		maxBytes:        maxBytes,
		placeholderBase: placeholderBase,
		logger:          logger,
	}
}

func (h *UploadHandler) RegisterRoutes(rg *gin.RouterGroup, authRequired gin.HandlerFunc) {
	rg.POST("", authRequired, h.Upload)
}

// Upload accepts one image under the "file" form field and returns its
// public URL. A failing image host degrades to a placeholder URL so the
// admin flow never blocks on the upstream.
func (h *UploadHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	if fileHeader.Size > h.maxBytes {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("file too large, maximum is %d bytes", h.maxBytes),
		})
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only image files are allowed"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read file"})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxBytes))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read file"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	url, err := h.uploader.Upload(ctx, fileHeader.Filename, contentType, data)
	if err != nil {
		h.logger.Warn("image upload failed, serving placeholder",
			zap.String("filename", fileHeader.Filename),
			zap.Error(err))
		c.JSON(http.StatusOK, gin.H{
			"url":         upload.Placeholder(h.placeholderBase),
			"placeholder": true,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}
