package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Shortener is the external link-shortening collaborator. Implementations
// must be safe for concurrent use.
type Shortener interface {
	Shorten(ctx context.Context, longURL string) (string, error)
}

// HTTPShortener calls a hosted shortening API. All calls are bounded by the
// client timeout; failures are the caller's to swallow (link creation is
// best-effort).
type HTTPShortener struct {
	endpoint string
	apiKey   string
	client   *http.Client
	logger   zerolog.Logger
}

func NewHTTPShortener(endpoint, apiKey string) *HTTPShortener {
	return &HTTPShortener{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 5 * time.Second},
		logger:   log.With().Str("serviceName", "shortener").Logger(),
	}
}

type shortenRequest struct {
	URL string `json:"url"`
}

type shortenResponse struct {
	ShortURL string `json:"short_url"`
}

func (s *HTTPShortener) Shorten(ctx context.Context, longURL string) (string, error) {
	body, err := json.Marshal(shortenRequest{URL: longURL})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("shortener responded with %s: %s", resp.Status, string(raw))
	}

	var parsed shortenResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if parsed.ShortURL == "" {
		return "", fmt.Errorf("shortener response did not contain short_url")
	}
	return parsed.ShortURL, nil
}
