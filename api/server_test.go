package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/toolgrid/toolgrid-backend/config"
	"github.com/toolgrid/toolgrid-backend/database"
	"github.com/toolgrid/toolgrid-backend/models"
)

const (
	testAdminUser     = "admin"
	testAdminPassword = "correct-horse-battery"
)

// newTestServer spins up the full router over an isolated in-memory store.
func newTestServer(t *testing.T) (*httptest.Server, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:api_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Project{},
		&models.Link{},
		&models.AdminSession{},
		&models.AdminLog{},
		&models.User{},
	))

	hash, err := bcrypt.GenerateFromPassword([]byte(testAdminPassword), bcrypt.MinCost)
	require.NoError(t, err)

	app := config.App{
		AdminUsername:     testAdminUser,
		AdminPasswordHash: hash,
		SessionSigningKey: []byte("test-signing-key"),
		SessionTTL:        time.Hour,
	}

	router, err := newRouter(database.New(db), app)
	require.NoError(t, err)

	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)

	return ts, db
}

// newTestClient returns a client that remembers cookies across requests.
func newTestClient(t *testing.T) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func postJSON(t *testing.T, client *http.Client, url string, payload any) *http.Response {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	resp, err := client.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, target any) {
	t.Helper()

	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}

// login authenticates the client's cookie jar as the test admin.
func login(t *testing.T, client *http.Client, baseURL string) {
	t.Helper()

	resp := postJSON(t, client, baseURL+"/api/admin/login", map[string]string{
		"username": testAdminUser,
		"password": testAdminPassword,
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
