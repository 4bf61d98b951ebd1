package api

import (
	"time"

	"github.com/toolgrid/toolgrid-backend/database"
	"github.com/toolgrid/toolgrid-backend/services"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(
	db database.Database,
	sessions *services.SessionService,
	submissions *services.SubmissionService,
	moderation *services.ModerationService,
	screenshots *services.ScreenshotService,
	sessionTTL time.Duration,
) *routeHandlers {
	return &routeHandlers{
		projectHandler: newProjectHandler(db.ProjectRepo(), submissions, sessions),
		adminHandler:   newAdminHandler(sessions, moderation, screenshots, db.ProjectRepo(), db.AdminLogRepo(), sessionTTL),
	}
}
