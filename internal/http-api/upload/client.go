package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// Uploader pushes an image to a hosting service and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, filename, contentType string, data []byte) (string, error)
}

// Client talks to a Cloudinary-style unsigned upload endpoint.
type Client struct {
	Endpoint string
	Preset   string
	Folder   string
	HTTP     *http.Client
}

func NewClient(endpoint, preset string) *Client {
	return &Client{
		Endpoint: endpoint,
		Preset:   preset,
		Folder:   "kostfinder",
		HTTP:     &http.Client{Timeout: 30 * time.Second},
	}
}

type uploadResult struct {
	SecureURL string `json:"secure_url"`
}

func (c *Client) Upload(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("write file part: %w", err)
	}
	if err := w.WriteField("upload_preset", c.Preset); err != nil {
		return "", fmt.Errorf("write preset field: %w", err)
	}
	if err := w.WriteField("folder", c.Folder); err != nil {
		return "", fmt.Errorf("write folder field: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("image host returned %d: %s", resp.StatusCode, string(msg))
	}

	var result uploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	if result.SecureURL == "" {
		return "", fmt.Errorf("image host returned no url")
	}
	return result.SecureURL, nil
}

// Placeholder builds the stand-in image URL used when the upstream host fails.
func Placeholder(base string) string {
	return fmt.Sprintf("%s?random=%d", base, time.Now().UnixMilli())
}
