package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/toolgrid/toolgrid-backend/database"
	"github.com/toolgrid/toolgrid-backend/errs"
	"github.com/toolgrid/toolgrid-backend/models"
	"github.com/toolgrid/toolgrid-backend/services"

	"github.com/go-chi/chi/v5"
)

type adminHandler struct {
	responder   Responder
	logger      zerolog.Logger
	sessions    *services.SessionService
	moderation  *services.ModerationService
	screenshots *services.ScreenshotService
	projectRepo *database.ProjectRepo
	logRepo     *database.AdminLogRepo
	sessionTTL  time.Duration
}

func newAdminHandler(
	sessions *services.SessionService,
	moderation *services.ModerationService,
	screenshots *services.ScreenshotService,
	projectRepo *database.ProjectRepo,
	logRepo *database.AdminLogRepo,
	sessionTTL time.Duration,
) adminHandler {
	logger := log.With().Str("handlerName", "adminHandler").Logger()

	return adminHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		sessions:    sessions,
		moderation:  moderation,
		screenshots: screenshots,
		projectRepo: projectRepo,
		logRepo:     logRepo,
		sessionTTL:  sessionTTL,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// login checks admin credentials and, on success, sets the http-only session
// cookie.
// @Summary Admin login
// @Tags Admin
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any "success:true"
// @Failure 401 {object} ErrorResponse "Unauthorized - Invalid credentials"
// @Router /api/admin/login [post]
func (h adminHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("failed to read request body"))
			return
		}

		var req loginRequest
		if err := json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		token, err := h.sessions.CreateSession(req.Username, req.Password, clientIP(r))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookieName,
			Value:    token,
			Path:     "/",
			Expires:  time.Now().Add(h.sessionTTL),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})

		h.responder.WriteJSON(w, map[string]any{"success": true})
	}
}

// sessionCheck reports whether the caller holds a valid session. An absent
// cookie is a normal "false" outcome, never an error.
// @Summary Admin session check
// @Tags Admin
// @Produce json
// @Success 200 {object} map[string]bool "authenticated flag"
// @Router /api/admin/session [get]
func (h adminHandler) sessionCheck() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authenticated := false
		if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
			authenticated = h.sessions.ValidateSession(cookie.Value)
		}
		h.responder.WriteJSON(w, map[string]bool{"authenticated": authenticated})
	}
}

// logout revokes the server-side session and clears the cookie. Always
// reports success, even when the server-side delete was a no-op.
// @Summary Admin logout
// @Tags Admin
// @Produce json
// @Success 200 {object} map[string]any "success:true"
// @Router /api/admin/logout [post]
func (h adminHandler) logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
			h.sessions.RevokeSession(cookie.Value, clientIP(r))
		}

		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})

		h.responder.WriteJSON(w, map[string]any{"success": true})
	}
}

// listProjects returns projects for the moderation panel, filtered by
// verification status.
// @Summary List projects for moderation
// @Tags Admin
// @Produce json
// @Param status query string false "pending | verified | all" default(pending)
// @Success 200 {object} ProjectCollection "Projects in the requested state"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /api/admin/projects [get]
func (h adminHandler) listProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			projects []*models.Project
			err      error
		)

		switch r.URL.Query().Get("status") {
		case "verified":
			projects, err = h.projectRepo.FindVerified("")
		case "all":
			projects, err = h.projectRepo.FindAll()
		default:
			projects, err = h.projectRepo.FindPending()
		}
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

// approveProject publishes a pending project. Idempotent.
// @Summary Approve project
// @Tags Admin
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} map[string]any "success:true"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /api/admin/projects/{projectID}/approve [post]
func (h adminHandler) approveProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, ok := h.parseProjectID(w, r)
		if !ok {
			return
		}

		if err := h.moderation.Approve(projectID, adminUserFromCtx(r.Context()), clientIP(r)); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]any{
			"success": true,
			"message": "project approved",
		})
	}
}

// rejectProject permanently deletes a submission. The decision survives only
// in the audit trail.
// @Summary Reject project
// @Tags Admin
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} map[string]any "success:true"
// @Router /api/admin/projects/{projectID}/reject [post]
func (h adminHandler) rejectProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, ok := h.parseProjectID(w, r)
		if !ok {
			return
		}

		if err := h.moderation.Reject(projectID, adminUserFromCtx(r.Context()), clientIP(r)); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]any{
			"success": true,
			"message": "project rejected",
		})
	}
}

// deleteProject removes a project unconditionally, whatever its state.
// @Summary Delete project
// @Tags Admin
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} map[string]any "success:true"
// @Router /api/admin/projects/{projectID} [delete]
func (h adminHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, ok := h.parseProjectID(w, r)
		if !ok {
			return
		}

		if err := h.moderation.Delete(projectID, adminUserFromCtx(r.Context()), clientIP(r)); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]any{
			"success": true,
			"message": "project deleted",
		})
	}
}

// captureScreenshot renders the project's website through the external
// capture collaborator and stores the result.
// @Summary Capture project screenshot
// @Tags Admin
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} map[string]any "image URL"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /api/admin/projects/{projectID}/screenshot [post]
func (h adminHandler) captureScreenshot() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, ok := h.parseProjectID(w, r)
		if !ok {
			return
		}

		imageURL, err := h.screenshots.CaptureAndStore(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]any{
			"success": true,
			"message": "screenshot captured",
			"data":    map[string]string{"image": imageURL},
		})
	}
}

// recentLogs returns the latest audit records for the admin panel.
// @Summary Recent admin logs
// @Tags Admin
// @Produce json
// @Success 200 {object} map[string]any "audit entries"
// @Router /api/admin/logs [get]
func (h adminHandler) recentLogs() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := h.logRepo.FindRecent(100)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "admin logs", err))
			return
		}
		h.responder.WriteJSON(w, map[string]any{"logs": entries, "total": len(entries)})
	}
}

func (h adminHandler) parseProjectID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	projectIDStr := chi.URLParam(r, "projectID")
	if projectIDStr == "" {
		h.responder.WriteError(w, errs.NewBadRequestError("missing projectID"))
		return uuid.Nil, false
	}

	projectID, err := uuid.Parse(projectIDStr)
	if err != nil {
		h.responder.WriteError(w, errs.NewBadRequestError("invalid projectID"))
		return uuid.Nil, false
	}
	return projectID, true
}
