package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/toolgrid/toolgrid-backend/config"
	"github.com/toolgrid/toolgrid-backend/database"
	"github.com/toolgrid/toolgrid-backend/errs"
	"github.com/toolgrid/toolgrid-backend/models"
)

const (
	testAdminUser     = "admin"
	testAdminPassword = "correct-horse-battery"
)

func testAppConfig(t *testing.T) config.App {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testAdminPassword), bcrypt.MinCost)
	require.NoError(t, err)

	return config.App{
		AdminUsername:     testAdminUser,
		AdminPasswordHash: hash,
		SessionSigningKey: []byte("test-signing-key"),
		SessionTTL:        72 * time.Hour,
	}
}

func newTestSessionService(t *testing.T) (*SessionService, *gorm.DB) {
	t.Helper()

	db := openTestDB(t)
	svc := NewSessionService(database.NewAdminSessionRepo(db), database.NewAdminLogRepo(db), testAppConfig(t))
	return svc, db
}

func TestCreateSessionWrongPassword(t *testing.T) {
	svc, db := newTestSessionService(t)

	token, err := svc.CreateSession(testAdminUser, "wrong-password", "203.0.113.9")
	require.Error(t, err)
	assert.Empty(t, token)
	assert.True(t, errs.IsUnauthorized(err))

	// A failed attempt is audited and no session is created.
	var entry models.AdminLog
	require.NoError(t, db.First(&entry, "action = ?", models.ActionLogin).Error)
	assert.False(t, entry.Success)
	assert.Equal(t, testAdminUser, entry.Username)
	assert.Equal(t, "203.0.113.9", entry.IP)

	var sessionCount int64
	require.NoError(t, db.Model(&models.AdminSession{}).Count(&sessionCount).Error)
	assert.Zero(t, sessionCount)
}

func TestCreateSessionWrongUsername(t *testing.T) {
	svc, _ := newTestSessionService(t)

	_, err := svc.CreateSession("root", testAdminPassword, "")
	require.Error(t, err)
	assert.True(t, errs.IsUnauthorized(err))
}

func TestCreateSessionAndValidate(t *testing.T) {
	svc, db := newTestSessionService(t)

	token, err := svc.CreateSession(testAdminUser, testAdminPassword, "203.0.113.9")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.True(t, svc.ValidateSession(token))
	assert.Equal(t, testAdminUser, svc.SessionUsername(token))

	// The successful login is audited and the row carries the fixed TTL.
	var entry models.AdminLog
	require.NoError(t, db.First(&entry, "action = ? AND success = ?", models.ActionLogin, true).Error)
	assert.Equal(t, testAdminUser, entry.Username)

	var session models.AdminSession
	require.NoError(t, db.First(&session).Error)
	assert.Equal(t, "203.0.113.9", session.IP)
	assert.WithinDuration(t, session.CreatedAt.Add(72*time.Hour), session.ExpiresAt, time.Second)
}

func TestValidateSessionExpired(t *testing.T) {
	svc, _ := newTestSessionService(t)

	token, err := svc.CreateSession(testAdminUser, testAdminPassword, "")
	require.NoError(t, err)
	require.True(t, svc.ValidateSession(token))

	// Move the clock past expiry; no sliding window, so the session dies.
	svc.now = func() time.Time { return time.Now().Add(73 * time.Hour) }
	assert.False(t, svc.ValidateSession(token))
	assert.Empty(t, svc.SessionUsername(token))
}

func TestValidateSessionTamperedToken(t *testing.T) {
	svc, _ := newTestSessionService(t)

	token, err := svc.CreateSession(testAdminUser, testAdminPassword, "")
	require.NoError(t, err)

	assert.False(t, svc.ValidateSession(token+"x"))
	assert.False(t, svc.ValidateSession("not-a-token"))
	assert.False(t, svc.ValidateSession(""))
}

func TestLoginSweepsExpiredSessions(t *testing.T) {
	svc, db := newTestSessionService(t)

	stale := &models.AdminSession{
		SessionID: "stale-session",
		Username:  testAdminUser,
		CreatedAt: time.Now().Add(-80 * time.Hour),
		ExpiresAt: time.Now().Add(-8 * time.Hour),
	}
	require.NoError(t, db.Create(stale).Error)

	token, err := svc.CreateSession(testAdminUser, testAdminPassword, "")
	require.NoError(t, err)
	assert.True(t, svc.ValidateSession(token))

	// The expired row was swept by the login; the fresh one remains.
	var staleCount, total int64
	require.NoError(t, db.Model(&models.AdminSession{}).Where("session_id = ?", "stale-session").Count(&staleCount).Error)
	require.NoError(t, db.Model(&models.AdminSession{}).Count(&total).Error)
	assert.Zero(t, staleCount)
	assert.Equal(t, int64(1), total)
}

func TestRevokeSessionIdempotent(t *testing.T) {
	svc, db := newTestSessionService(t)

	token, err := svc.CreateSession(testAdminUser, testAdminPassword, "203.0.113.9")
	require.NoError(t, err)

	svc.RevokeSession(token, "203.0.113.9")
	assert.False(t, svc.ValidateSession(token))

	var sessionCount int64
	require.NoError(t, db.Model(&models.AdminSession{}).Count(&sessionCount).Error)
	assert.Zero(t, sessionCount)

	// Revoking again is a no-op, not an error.
	svc.RevokeSession(token, "203.0.113.9")

	// Logout was audited once.
	var logoutCount int64
	require.NoError(t, db.Model(&models.AdminLog{}).Where("action = ?", models.ActionLogout).Count(&logoutCount).Error)
	assert.Equal(t, int64(1), logoutCount)
}
