package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// PDFServiceExtractor calls the PDF sidecar service over HTTP. The sidecar
// owns the binary parsing; this adapter only moves bytes and maps failures.
type PDFServiceExtractor struct {
	baseURL string
	client  *http.Client
}

func NewPDFServiceExtractor(baseURL string) *PDFServiceExtractor {
	if baseURL == "" {
		baseURL = "http://localhost:8081"
	}
	return &PDFServiceExtractor{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type pdfParseResponse struct {
	Success bool   `json:"success"`
	Text    string `json:"text"`
	Error   string `json:"error,omitempty"`
}

func (e *PDFServiceExtractor) Extract(ctx context.Context, data []byte, filename string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", e.baseURL+"/parse", bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("X-Filename", filename)

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("pdf service request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var result pdfParseResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if !result.Success || result.Error != "" {
		msg := result.Error
		if msg == "" {
			msg = "failed to parse file"
		}
		return "", fmt.Errorf("pdf parse error: %s", msg)
	}

	return result.Text, nil
}

// Healthy reports whether the sidecar responds on its health endpoint.
func (e *PDFServiceExtractor) Healthy(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, "GET", e.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
