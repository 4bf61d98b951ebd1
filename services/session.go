package services

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/toolgrid/toolgrid-backend/config"
	"github.com/toolgrid/toolgrid-backend/database"
	"github.com/toolgrid/toolgrid-backend/errs"
	"github.com/toolgrid/toolgrid-backend/metrics"
	"github.com/toolgrid/toolgrid-backend/models"
)

// SessionService is the single source of truth for "is this caller an
// authenticated admin". A session is valid iff its row exists in the store
// and the current time is before expires_at; the signed cookie token only
// protects the session id in transit, the row stays authoritative.
type SessionService struct {
	sessions *database.AdminSessionRepo
	logs     *database.AdminLogRepo
	cfg      config.App
	logger   zerolog.Logger
	now      func() time.Time
}

func NewSessionService(sessions *database.AdminSessionRepo, logs *database.AdminLogRepo, cfg config.App) *SessionService {
	return &SessionService{
		sessions: sessions,
		logs:     logs,
		cfg:      cfg,
		logger:   log.With().Str("serviceName", "sessionService").Logger(),
		now:      time.Now,
	}
}

// CreateSession checks the supplied credentials against the injected admin
// configuration and, on success, persists a session row and returns a signed
// token for the http-only cookie. Both outcomes append an audit record;
// a broken audit path never blocks login.
func (s *SessionService) CreateSession(username, password, clientIP string) (string, error) {
	usernameOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.AdminUsername)) == 1
	passwordErr := bcrypt.CompareHashAndPassword(s.cfg.AdminPasswordHash, []byte(password))

	if !usernameOK || passwordErr != nil {
		s.audit(models.ActionLogin, username, false, clientIP, "credential mismatch")
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		return "", errs.NewInvalidCredentialsError()
	}

	sessionID, err := newSessionID()
	if err != nil {
		return "", errs.NewInternalError("could not generate session id")
	}

	now := s.now()

	// Sweep expired rows while we are here; a failed sweep never blocks login.
	if _, err := s.sessions.DeleteExpired(now); err != nil {
		s.logger.Warn().Err(err).Msg("failed to sweep expired admin sessions")
	}

	session := &models.AdminSession{
		SessionID: sessionID,
		Username:  username,
		IP:        clientIP,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.SessionTTL),
	}

	// A persistence failure here is a hard error: login fails.
	if err := s.sessions.Add(session); err != nil {
		s.logger.Error().Err(err).Msg("failed to persist admin session")
		return "", errs.NewDatabaseError("create", "admin session", err)
	}

	token, err := s.signToken(sessionID, session.ExpiresAt)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to sign session token")
		return "", errs.NewInternalError("could not issue session token")
	}

	s.audit(models.ActionLogin, username, true, clientIP, "")
	metrics.LoginAttempts.WithLabelValues("success").Inc()
	return token, nil
}

// ValidateSession reports whether the token names a live session. Every
// failure mode (bad signature, missing row, expired row, store error) is the
// same "not authenticated" outcome: validation fails closed.
func (s *SessionService) ValidateSession(token string) bool {
	sessionID, err := s.parseToken(token)
	if err != nil {
		return false
	}

	session, err := s.sessions.FindBySessionID(sessionID)
	if err != nil {
		s.logger.Warn().Err(err).Msg("session lookup failed, treating as unauthenticated")
		return false
	}
	if session == nil || session.Expired(s.now()) {
		return false
	}
	return true
}

// SessionUsername returns the username attached to a valid session, for
// audit attribution. Empty string when the token does not validate.
func (s *SessionService) SessionUsername(token string) string {
	sessionID, err := s.parseToken(token)
	if err != nil {
		return ""
	}
	session, err := s.sessions.FindBySessionID(sessionID)
	if err != nil || session == nil || session.Expired(s.now()) {
		return ""
	}
	return session.Username
}

// RevokeSession deletes the server-side session. Idempotent: revoking an
// absent or malformed token is not an error, and store failures are logged
// and swallowed so logout always appears to succeed client-side. Clearing
// the cookie is the caller's job.
func (s *SessionService) RevokeSession(token string, clientIP string) {
	sessionID, err := s.parseToken(token)
	if err != nil {
		return
	}

	username := ""
	if session, lookupErr := s.sessions.FindBySessionID(sessionID); lookupErr == nil && session != nil {
		username = session.Username
	}

	if err := s.sessions.DeleteBySessionID(sessionID); err != nil {
		s.logger.Warn().Err(err).Msg("failed to delete admin session on logout")
		return
	}
	if username != "" {
		s.audit(models.ActionLogout, username, true, clientIP, "")
	}
}

// audit appends an AdminLog row. Failures are isolated so a broken audit
// path never blocks the primary operation.
func (s *SessionService) audit(action, username string, success bool, ip, detail string) {
	entry := &models.AdminLog{
		Action:    action,
		Username:  username,
		Success:   success,
		IP:        ip,
		Detail:    detail,
		Timestamp: s.now(),
	}
	if err := s.logs.Add(entry); err != nil {
		s.logger.Error().Err(err).Str("action", action).Msg("failed to append admin log entry")
	}
}

// signToken wraps the opaque session id in a signed JWT so the cookie value
// is tamper-evident. Expiry is carried in both the claim and the store row.
func (s *SessionService) signToken(sessionID string, expiresAt time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   sessionID,
		IssuedAt:  jwt.NewNumericDate(s.now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.cfg.SessionSigningKey)
}

// parseToken verifies the cookie JWT and extracts the session id.
func (s *SessionService) parseToken(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errs.ErrInvalidToken
		}
		return s.cfg.SessionSigningKey, nil
	})
	if err != nil || !parsed.Valid {
		return "", errs.ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", errs.ErrInvalidToken
	}
	return claims.Subject, nil
}

// newSessionID returns a cryptographically-unpredictable session identifier.
func newSessionID() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
