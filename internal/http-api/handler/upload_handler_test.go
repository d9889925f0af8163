package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// fakeUploader returns a fixed URL or error without touching the network
type fakeUploader struct {
	url string
	err error
}

func (f *fakeUploader) Upload(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	return f.url, f.err
}

func multipartImageBody(t *testing.T, filename, contentType, content string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)

	part, err := w.CreatePart(header)
	assert.NoError(t, err)
	_, err = part.Write([]byte(content))
	assert.NoError(t, err)
	assert.NoError(t, w.Close())

	return &body, w.FormDataContentType()
}

func TestUpload_Success(t *testing.T) {
	h := NewUploadHandler(&fakeUploader{url: "https://images.example.com/kost.png"}, 5<<20, "https://picsum.photos/400/300", zap.NewNop())
	router := setupRouter()
	router.POST("/upload", h.Upload)

	body, contentType := multipartImageBody(t, "kost.png", "image/png", "fake png bytes")

	req, _ := http.NewRequest("POST", "/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, "https://images.example.com/kost.png", resp["url"])
}

func TestUpload_HostFailureServesPlaceholder(t *testing.T) {
	h := NewUploadHandler(&fakeUploader{err: errors.New("host unreachable")}, 5<<20, "https://picsum.photos/400/300", zap.NewNop())
	router := setupRouter()
	router.POST("/upload", h.Upload)

	body, contentType := multipartImageBody(t, "kost.png", "image/png", "fake png bytes")

	req, _ := http.NewRequest("POST", "/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	// the admin flow still gets a usable URL
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, true, resp["placeholder"])
	assert.True(t, strings.HasPrefix(resp["url"].(string), "https://picsum.photos/400/300?random="))
}

func TestUpload_RejectsNonImage(t *testing.T) {
	h := NewUploadHandler(&fakeUploader{url: "unused"}, 5<<20, "https://picsum.photos/400/300", zap.NewNop())
	router := setupRouter()
	router.POST("/upload", h.Upload)

	body, contentType := multipartImageBody(t, "notes.txt", "text/plain", "just text")

	req, _ := http.NewRequest("POST", "/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpload_RejectsOversizedFile(t *testing.T) {
	h := NewUploadHandler(&fakeUploader{url: "unused"}, 10, "https://picsum.photos/400/300", zap.NewNop())
	router := setupRouter()
	router.POST("/upload", h.Upload)

	body, contentType := multipartImageBody(t, "big.png", "image/png", "this content is longer than ten bytes")

	req, _ := http.NewRequest("POST", "/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpload_MissingFile(t *testing.T) {
	h := NewUploadHandler(&fakeUploader{url: "unused"}, 5<<20, "https://picsum.photos/400/300", zap.NewNop())
	router := setupRouter()
	router.POST("/upload", h.Upload)

	req, _ := http.NewRequest("POST", "/upload", strings.NewReader(""))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
