package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/toolgrid/toolgrid-backend/database"
	"github.com/toolgrid/toolgrid-backend/errs"
)

// Capturer is the external browser-automation collaborator that renders a
// website and returns PNG bytes.
type Capturer interface {
	Capture(ctx context.Context, pageURL string) ([]byte, error)
}

// HTTPCapturer calls a hosted capture API: GET <endpoint>?url=<page> with an
// API key header, PNG bytes back.
type HTTPCapturer struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func NewHTTPCapturer(endpoint, apiKey string) *HTTPCapturer {
	return &HTTPCapturer{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPCapturer) Capture(ctx context.Context, pageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?url="+url.QueryEscape(pageURL), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("capture service responded with %s: %s", resp.Status, string(raw))
	}
	return io.ReadAll(resp.Body)
}

// ScreenshotService captures a project's website through the external
// collaborator, stores the image and records the reference on the project.
// Failures are reported to the caller and never retried automatically.
type ScreenshotService struct {
	projects *database.ProjectRepo
	capturer Capturer
	store    ObjectStore
	logger   zerolog.Logger
}

func NewScreenshotService(projects *database.ProjectRepo, capturer Capturer, store ObjectStore) *ScreenshotService {
	return &ScreenshotService{
		projects: projects,
		capturer: capturer,
		store:    store,
		logger:   log.With().Str("serviceName", "screenshotService").Logger(),
	}
}

// CaptureAndStore renders the project's website, uploads the PNG and points
// the project's image at the stored object. Returns the image URL.
func (s *ScreenshotService) CaptureAndStore(ctx context.Context, projectID uuid.UUID) (string, error) {
	if s.capturer == nil || s.store == nil {
		return "", errs.NewInternalError("screenshot capture is not configured")
	}

	project, err := s.projects.FindByID(projectID)
	if err != nil {
		return "", errs.NewDatabaseError("find", "project", err)
	}
	if project == nil {
		return "", errs.NewNotFound("project")
	}

	data, err := s.capturer.Capture(ctx, project.URL)
	if err != nil {
		s.logger.Error().Err(err).Str("url", project.URL).Msg("screenshot capture failed")
		return "", errs.NewInternalError("screenshot capture failed")
	}

	key := "screenshots/" + project.Slug + ".png"
	imageURL, err := s.store.Put(ctx, key, "image/png", data)
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("screenshot upload failed")
		return "", errs.NewInternalError("screenshot upload failed")
	}

	if _, err := s.projects.SetImage(projectID, imageURL); err != nil {
		return "", errs.NewDatabaseError("update", "project", err)
	}
	return imageURL, nil
}
