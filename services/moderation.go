package services

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/toolgrid/toolgrid-backend/database"
	"github.com/toolgrid/toolgrid-backend/errs"
	"github.com/toolgrid/toolgrid-backend/metrics"
	"github.com/toolgrid/toolgrid-backend/models"
)

// ModerationService owns the pending -> verified | deleted state machine.
// Approvals and deletions are single-row, single-statement mutations; there
// is no multi-step transaction to roll back.
type ModerationService struct {
	projects *database.ProjectRepo
	logs     *database.AdminLogRepo
	logger   zerolog.Logger
}

func NewModerationService(projects *database.ProjectRepo, logs *database.AdminLogRepo) *ModerationService {
	return &ModerationService{
		projects: projects,
		logs:     logs,
		logger:   log.With().Str("serviceName", "moderationService").Logger(),
	}
}

// Approve publishes a project. Approving an already-verified project is a
// no-op success; approving an absent one is NotFound, reported distinctly
// from store failures so callers can tell a stale reference from a transient
// fault.
func (m *ModerationService) Approve(id uuid.UUID, actor, ip string) error {
	affected, err := m.projects.SetVerified(id)
	if err != nil {
		return errs.NewDatabaseError("approve", "project", err)
	}
	if affected == 0 {
		return errs.NewNotFound("project")
	}

	m.audit(models.ActionApprove, actor, ip, id)
	metrics.ModerationTotal.WithLabelValues(models.ActionApprove).Inc()
	return nil
}

// Reject permanently deletes a submission. The delete is idempotent: when
// two rejections race, the loser sees no row and still succeeds. The
// decision is preserved in the audit trail since no rejected state survives
// in the projects table.
func (m *ModerationService) Reject(id uuid.UUID, actor, ip string) error {
	affected, err := m.projects.Delete(id)
	if err != nil {
		return errs.NewDatabaseError("reject", "project", err)
	}
	if affected == 0 {
		// Already gone, successfully rejected by someone else.
		return nil
	}

	m.audit(models.ActionReject, actor, ip, id)
	metrics.ModerationTotal.WithLabelValues(models.ActionReject).Inc()
	return nil
}

// Delete removes a project unconditionally, whatever its verification
// state. Same idempotent delete semantics as Reject.
func (m *ModerationService) Delete(id uuid.UUID, actor, ip string) error {
	affected, err := m.projects.Delete(id)
	if err != nil {
		return errs.NewDatabaseError("delete", "project", err)
	}
	if affected == 0 {
		return nil
	}

	m.audit(models.ActionDelete, actor, ip, id)
	metrics.ModerationTotal.WithLabelValues(models.ActionDelete).Inc()
	return nil
}

func (m *ModerationService) audit(action, actor, ip string, projectID uuid.UUID) {
	entry := &models.AdminLog{
		Action:   action,
		Username: actor,
		Success:  true,
		IP:       ip,
		Detail:   "project " + projectID.String(),
	}
	if err := m.logs.Add(entry); err != nil {
		m.logger.Error().Err(err).Str("action", action).Msg("failed to append admin log entry")
	}
}
