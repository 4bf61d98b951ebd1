package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/toolgrid/toolgrid-backend/database"
	"github.com/toolgrid/toolgrid-backend/errs"
	"github.com/toolgrid/toolgrid-backend/models"
	"github.com/toolgrid/toolgrid-backend/services"

	"github.com/go-chi/chi/v5"
)

type projectHandler struct {
	responder   Responder
	logger      zerolog.Logger
	projectRepo *database.ProjectRepo
	submissions *services.SubmissionService
	sessions    *services.SessionService
}

func newProjectHandler(projectRepo *database.ProjectRepo, submissions *services.SubmissionService, sessions *services.SessionService) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		projectRepo: projectRepo,
		submissions: submissions,
		sessions:    sessions,
	}
}

// ProjectCollection represents a list of published projects
type ProjectCollection struct {
	Projects []*models.Project `json:"projects"`
	Total    int               `json:"total"`
}

// getProjects retrieves published projects, optionally filtered by category.
// Pending projects never appear here.
// @Summary List projects
// @Tags Projects
// @Produce json
// @Param category query string false "Category filter"
// @Success 200 {object} ProjectCollection "List of published projects"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error fetching projects"
// @Router /api/projects [get]
func (h projectHandler) getProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category := r.URL.Query().Get("category")

		projects, err := h.projectRepo.FindVerified(category)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "projects", err))
			return
		}

		h.responder.WriteJSON(w, ProjectCollection{
			Projects: projects,
			Total:    len(projects),
		})
	}
}

// getProjectBySlug retrieves a published project by slug and bumps its click
// counter. The increment is best-effort: a failed bump never fails the view.
// @Summary Get project
// @Tags Projects
// @Produce json
// @Param slug path string true "Project slug"
// @Success 200 {object} models.Project "Project details"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error fetching project"
// @Router /api/projects/{slug} [get]
func (h projectHandler) getProjectBySlug() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		if slug == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing slug"))
			return
		}

		project, err := h.projectRepo.FindBySlug(slug)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "project", err))
			return
		}

		// Pending projects are invisible on public surfaces.
		if project == nil || !project.Verified {
			h.responder.WriteError(w, errs.NewNotFound("project"))
			return
		}

		if err := h.projectRepo.IncrementClicks(project.ID); err != nil {
			h.logger.Warn().Err(err).Str("slug", slug).Msg("failed to increment clicks")
		} else {
			project.Clicks++
		}

		h.responder.WriteJSON(w, project)
	}
}

// submitProject accepts an untrusted submission. A submitter holding a valid
// admin session publishes directly; everyone else lands in the moderation
// queue.
// @Summary Submit project
// @Tags Projects
// @Accept json
// @Produce json
// @Param project body services.SubmissionInput true "Project data"
// @Success 201 {object} map[string]any "Confirmation with id, slug and needsApproval"
// @Failure 400 {object} ErrorResponse "Bad Request - Validation violations"
// @Failure 409 {object} ErrorResponse "Conflict - Duplicate slug"
// @Router /api/projects [post]
func (h projectHandler) submitProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			h.logger.Error().Err(err).Msg("Failed to read request body")
			h.responder.WriteError(w, errs.NewBadRequestError("failed to read request body"))
			return
		}

		var input services.SubmissionInput
		if err := json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&input); err != nil {
			h.logger.Error().Err(err).Str("body", string(bodyBytes)).Msg("Failed to decode submission body")
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		submitterIsAdmin := false
		if cookie, cookieErr := r.Cookie(sessionCookieName); cookieErr == nil && cookie.Value != "" {
			submitterIsAdmin = h.sessions.ValidateSession(cookie.Value)
		}

		result, err := h.submissions.Submit(r.Context(), input, submitterIsAdmin)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		message := "project published"
		if result.NeedsApproval {
			message = "project submitted for review"
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, map[string]any{
			"success": true,
			"message": message,
			"data":    result,
		})
	}
}
