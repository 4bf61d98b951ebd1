package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/toolgrid/toolgrid-backend/database"
	"github.com/toolgrid/toolgrid-backend/errs"
	"github.com/toolgrid/toolgrid-backend/models"
)

func newTestModerationService(t *testing.T) (*ModerationService, *database.ProjectRepo, *gorm.DB) {
	t.Helper()

	db := openTestDB(t)
	projects := database.NewProjectRepo(db)
	svc := NewModerationService(projects, database.NewAdminLogRepo(db))
	return svc, projects, db
}

func addPendingProject(t *testing.T, projects *database.ProjectRepo) *models.Project {
	t.Helper()

	project := &models.Project{
		Name:        "Pending Tool",
		Slug:        "pending-tool-" + uuid.NewString()[:6],
		Description: "d",
		URL:         "https://example.com",
		Category:    models.CategoryOther,
	}
	require.NoError(t, projects.Add(project))
	return project
}

func TestApproveNonexistentProject(t *testing.T) {
	svc, _, _ := newTestModerationService(t)

	err := svc.Approve(uuid.New(), "admin", "")
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
}

func TestApprovePublishesProject(t *testing.T) {
	svc, projects, db := newTestModerationService(t)
	project := addPendingProject(t, projects)

	before := project.UpdatedAt
	time.Sleep(10 * time.Millisecond)

	require.NoError(t, svc.Approve(project.ID, "admin", "203.0.113.9"))

	stored, err := projects.FindByID(project.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.Verified)
	assert.True(t, stored.UpdatedAt.After(before))

	// The decision is audited.
	var entry models.AdminLog
	require.NoError(t, db.First(&entry, "action = ?", models.ActionApprove).Error)
	assert.Equal(t, "admin", entry.Username)
	assert.Contains(t, entry.Detail, project.ID.String())
}

func TestApproveIsIdempotent(t *testing.T) {
	svc, projects, _ := newTestModerationService(t)
	project := addPendingProject(t, projects)

	require.NoError(t, svc.Approve(project.ID, "admin", ""))
	require.NoError(t, svc.Approve(project.ID, "admin", ""))

	stored, err := projects.FindByID(project.ID)
	require.NoError(t, err)
	assert.True(t, stored.Verified)
}

func TestRejectDeletesProject(t *testing.T) {
	svc, projects, db := newTestModerationService(t)
	project := addPendingProject(t, projects)

	require.NoError(t, svc.Reject(project.ID, "admin", ""))

	stored, err := projects.FindByID(project.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)

	// No rejected state survives in projects; only the audit row remains.
	var entry models.AdminLog
	require.NoError(t, db.First(&entry, "action = ?", models.ActionReject).Error)
	assert.True(t, entry.Success)
}

func TestRejectTwiceIsEmptySuccess(t *testing.T) {
	svc, projects, _ := newTestModerationService(t)
	project := addPendingProject(t, projects)

	require.NoError(t, svc.Reject(project.ID, "admin", ""))
	// The racing loser sees no row; still a success.
	require.NoError(t, svc.Reject(project.ID, "admin", ""))
}

func TestDeleteRemovesVerifiedProject(t *testing.T) {
	svc, projects, _ := newTestModerationService(t)
	project := addPendingProject(t, projects)
	require.NoError(t, svc.Approve(project.ID, "admin", ""))

	require.NoError(t, svc.Delete(project.ID, "admin", ""))

	stored, err := projects.FindByID(project.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)
}
