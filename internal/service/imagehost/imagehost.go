package imagehost

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Uploader publishes a local image file and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, path string) (string, error)
}

// Lsky uploads images to a Lsky Pro image host through its v1 API.
type Lsky struct {
	baseURL    string
	token      string
	strategyID int
	client     *http.Client
}

// NewLsky creates a client for the Lsky Pro instance at baseURL.
// strategyID selects the storage strategy; 0 keeps the server default.
func NewLsky(baseURL, token string, strategyID int) *Lsky {
	return &Lsky{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		strategyID: strategyID,
		client:     &http.Client{Timeout: 30 * time.Second},
	}
}

type lskyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Key   string `json:"key"`
		Links struct {
			URL string `json:"url"`
		} `json:"links"`
	} `json:"data"`
}

// Upload sends the file at path and returns the direct link.
func (l *Lsky) Upload(ctx context.Context, path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("copy image data: %w", err)
	}
	if l.strategyID > 0 {
		writer.WriteField("strategy_id", strconv.Itoa(l.strategyID))
	}
	writer.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.baseURL+"/api/v1/upload", body)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	if l.token != "" {
		req.Header.Set("Authorization", "Bearer "+l.token)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	var result lskyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK || !result.Status {
		return "", fmt.Errorf("upload rejected (status %d): %s", resp.StatusCode, result.Message)
	}
	if result.Data.Links.URL == "" {
		return "", fmt.Errorf("upload response has no url")
	}
	return result.Data.Links.URL, nil
}

// Local copies images into a directory served by this application.
type Local struct {
	directory string
	baseURL   string
}

// NewLocal hosts files in directory under baseURL + "/hosted/".
func NewLocal(directory, baseURL string) *Local {
	return &Local{directory: directory, baseURL: strings.TrimRight(baseURL, "/")}
}

// Upload copies the file into the hosted directory and returns its URL.
func (l *Local) Upload(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(l.directory, 0755); err != nil {
		return "", fmt.Errorf("create hosted directory: %w", err)
	}

	src, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer src.Close()

	name := filepath.Base(path)
	dst, err := os.Create(filepath.Join(l.directory, name))
	if err != nil {
		return "", fmt.Errorf("create hosted file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return "", fmt.Errorf("copy hosted file: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("close hosted file: %w", err)
	}

	return l.baseURL + "/hosted/" + url.PathEscape(name), nil
}
