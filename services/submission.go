package services

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"

	"github.com/toolgrid/toolgrid-backend/database"
	"github.com/toolgrid/toolgrid-backend/errs"
	"github.com/toolgrid/toolgrid-backend/metrics"
	"github.com/toolgrid/toolgrid-backend/models"
)

const (
	maxNameLength        = 100
	maxDescriptionLength = 1000
	maxMetaDescription   = 160
)

// SubmissionInput is the untrusted payload accepted from the public
// submission form and the admin panel alike. Features and Stats take either
// pre-parsed values or serialized JSON strings; unparsable input coerces to
// empty, non-fatally.
type SubmissionInput struct {
	Name            string `json:"name" validate:"required,max=100"`
	Description     string `json:"description" validate:"required,max=1000"`
	URL             string `json:"url" validate:"required"`
	Category        string `json:"category"`
	Keywords        string `json:"keywords"`
	MetaDescription string `json:"meta_description"`
	Logo            string `json:"logo"`
	Image           string `json:"image"`
	Features        any    `json:"features"`
	Instructions    string `json:"instructions"`
	Stats           any    `json:"stats"`
	GithubURL       string `json:"github_url"`
	SubmitterEmail  string `json:"submitter_email" validate:"omitempty,email"`
}

// SubmissionResult is the confirmation payload returned on success.
type SubmissionResult struct {
	ID            uuid.UUID `json:"id"`
	Slug          string    `json:"slug"`
	NeedsApproval bool      `json:"needsApproval"`
}

// SubmissionService validates and normalizes incoming project data, computes
// a unique slug and persists the record in either pending or verified state.
type SubmissionService struct {
	projects  *database.ProjectRepo
	links     *database.LinkRepo
	users     *database.UserRepo
	shortener Shortener
	validate  *validator.Validate
	logger    zerolog.Logger
}

func NewSubmissionService(projects *database.ProjectRepo, links *database.LinkRepo, users *database.UserRepo, shortener Shortener) *SubmissionService {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report violations under the json field names the caller sent.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return field.Name
		}
		return name
	})

	return &SubmissionService{
		projects:  projects,
		links:     links,
		users:     users,
		shortener: shortener,
		validate:  v,
		logger:    log.With().Str("serviceName", "submissionService").Logger(),
	}
}

// Submit runs the full pipeline: collect-all validation, normalization, slug
// generation and a single insert. submitterIsAdmin bypasses moderation and
// publishes directly. Link creation and submitter bookkeeping are
// best-effort side effects that never fail the submission.
func (s *SubmissionService) Submit(ctx context.Context, input SubmissionInput, submitterIsAdmin bool) (*SubmissionResult, error) {
	if violations := s.collectViolations(input); len(violations) > 0 {
		metrics.SubmissionsTotal.WithLabelValues("rejected_validation").Inc()
		return nil, errs.NewValidationError(violations)
	}

	slug, err := NewSlug(input.Name)
	if err != nil {
		return nil, errs.NewInternalError("could not generate slug")
	}

	project := &models.Project{
		Name:            strings.TrimSpace(input.Name),
		Slug:            slug,
		Description:     strings.TrimSpace(input.Description),
		URL:             NormalizeURL(input.URL),
		Category:        NormalizeCategory(input.Category),
		Keywords:        input.Keywords,
		MetaDescription: TruncateMetaDescription(input.MetaDescription),
		Logo:            input.Logo,
		Image:           input.Image,
		Instructions:    input.Instructions,
		Features:        marshalJSON(CoerceFeatures(input.Features)),
		Stats:           marshalJSON(CoerceStats(input.Stats)),
		Verified:        submitterIsAdmin,
	}

	if err := s.projects.Add(project); err != nil {
		if errs.IsDuplicateKey(err) {
			metrics.SubmissionsTotal.WithLabelValues("rejected_conflict").Inc()
			return nil, errs.NewDuplicateSlug(slug, err)
		}
		metrics.SubmissionsTotal.WithLabelValues("failed").Inc()
		return nil, errs.NewDatabaseError("create", "project", err)
	}

	s.recordSubmitter(input.SubmitterEmail)
	s.createLinks(ctx, project, input)

	outcome := "accepted_pending"
	if submitterIsAdmin {
		outcome = "accepted_verified"
	}
	metrics.SubmissionsTotal.WithLabelValues(outcome).Inc()

	return &SubmissionResult{
		ID:            project.ID,
		Slug:          project.Slug,
		NeedsApproval: !submitterIsAdmin,
	}, nil
}

// collectViolations gathers every problem with the input instead of
// short-circuiting on the first one.
func (s *SubmissionService) collectViolations(input SubmissionInput) []errs.FieldViolation {
	err := s.validate.Struct(input)
	if err == nil {
		return nil
	}

	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []errs.FieldViolation{{Field: "payload", Message: "invalid payload"}}
	}

	violations := make([]errs.FieldViolation, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		violations = append(violations, errs.FieldViolation{
			Field:   fe.Field(),
			Message: violationMessage(fe),
		})
	}
	return violations
}

func violationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// recordSubmitter keeps the submitter's contact email for moderators.
// Best-effort: failure never blocks the submission.
func (s *SubmissionService) recordSubmitter(email string) {
	if email == "" {
		return
	}
	if err := s.users.UpsertByEmail(&models.User{Email: email}); err != nil {
		s.logger.Warn().Err(err).Msg("failed to record submitter email")
	}
}

// createLinks persists the project's links, shortening them when the
// external collaborator is configured. Best-effort throughout.
func (s *SubmissionService) createLinks(ctx context.Context, project *models.Project, input SubmissionInput) {
	candidates := []models.Link{
		{ProjectID: project.ID, Type: models.LinkTypeWebsite, URL: project.URL, Order: 0},
	}
	if input.GithubURL != "" {
		candidates = append(candidates, models.Link{
			ProjectID: project.ID,
			Type:      models.LinkTypeGithub,
			URL:       NormalizeURL(input.GithubURL),
			Order:     1,
		})
	}

	for i := range candidates {
		link := &candidates[i]
		if s.shortener != nil {
			shortCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			short, err := s.shortener.Shorten(shortCtx, link.URL)
			cancel()
			if err != nil {
				s.logger.Warn().Err(err).Str("url", link.URL).Msg("link shortening failed")
			} else {
				link.ShortURL = short
			}
		}
		if err := s.links.Add(link); err != nil {
			s.logger.Warn().Err(err).Str("type", link.Type).Msg("failed to create project link")
		}
	}
}

// NormalizeURL prefixes https:// when the url lacks a recognized scheme.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return raw
	}
	return "https://" + raw
}

// NormalizeCategory falls back to the default category for anything outside
// the fixed set.
func NormalizeCategory(category string) string {
	category = strings.ToLower(strings.TrimSpace(category))
	if models.ValidCategory(category) {
		return category
	}
	return models.CategoryOther
}

// TruncateMetaDescription caps the meta description at 160 characters total,
// truncating to 157 and appending an ellipsis marker when it runs over.
// Counted in runes, like the validator limits on name and description, so
// multibyte input is never over-truncated or cut mid-rune.
func TruncateMetaDescription(meta string) string {
	runes := []rune(meta)
	if len(runes) <= maxMetaDescription {
		return meta
	}
	return string(runes[:maxMetaDescription-3]) + "..."
}

// CoerceFeatures turns the raw features value into an ordered string list.
// Accepts a pre-parsed list or a serialized JSON array; anything else
// coerces to empty.
func CoerceFeatures(raw any) []string {
	switch v := raw.(type) {
	case nil:
		return []string{}
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		var out []string
		if err := json.Unmarshal([]byte(v), &out); err != nil {
			return []string{}
		}
		return out
	default:
		return []string{}
	}
}

// CoerceStats turns the raw stats value into a key-value mapping with the
// same fallback behavior as CoerceFeatures.
func CoerceStats(raw any) map[string]string {
	switch v := raw.(type) {
	case nil:
		return map[string]string{}
	case map[string]string:
		return v
	case map[string]any:
		out := make(map[string]string, len(v))
		for k, item := range v {
			out[k] = fmt.Sprint(item)
		}
		return out
	case string:
		var out map[string]string
		if err := json.Unmarshal([]byte(v), &out); err != nil {
			return map[string]string{}
		}
		return out
	default:
		return map[string]string{}
	}
}

func marshalJSON(v any) datatypes.JSON {
	data, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("null")
	}
	return datatypes.JSON(data)
}
