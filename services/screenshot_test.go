package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toolgrid/toolgrid-backend/database"
	"github.com/toolgrid/toolgrid-backend/errs"
	"github.com/toolgrid/toolgrid-backend/models"
)

type fakeCapturer struct {
	data []byte
	err  error
	url  string
}

func (f *fakeCapturer) Capture(ctx context.Context, pageURL string) ([]byte, error) {
	f.url = pageURL
	return f.data, f.err
}

type fakeStore struct {
	key  string
	data []byte
	err  error
}

func (f *fakeStore) Put(ctx context.Context, key string, contentType string, data []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.key = key
	f.data = data
	return "https://cdn.example.com/" + key, nil
}

func TestCaptureAndStore(t *testing.T) {
	db := openTestDB(t)
	projects := database.NewProjectRepo(db)

	project := &models.Project{
		Name:        "Tool",
		Slug:        "tool-xyz",
		Description: "d",
		URL:         "https://tool.example.com",
		Category:    models.CategoryOther,
	}
	require.NoError(t, projects.Add(project))

	capturer := &fakeCapturer{data: []byte("png-bytes")}
	store := &fakeStore{}
	svc := NewScreenshotService(projects, capturer, store)

	imageURL, err := svc.CaptureAndStore(context.Background(), project.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/screenshots/tool-xyz.png", imageURL)
	assert.Equal(t, "https://tool.example.com", capturer.url)
	assert.Equal(t, "screenshots/tool-xyz.png", store.key)

	stored, err := projects.FindByID(project.ID)
	require.NoError(t, err)
	assert.Equal(t, imageURL, stored.Image)
}

func TestCaptureAndStoreUnknownProject(t *testing.T) {
	db := openTestDB(t)
	svc := NewScreenshotService(database.NewProjectRepo(db), &fakeCapturer{}, &fakeStore{})

	_, err := svc.CaptureAndStore(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
}

func TestCaptureAndStoreNotConfigured(t *testing.T) {
	db := openTestDB(t)
	svc := NewScreenshotService(database.NewProjectRepo(db), nil, nil)

	_, err := svc.CaptureAndStore(context.Background(), uuid.New())
	require.Error(t, err)
}

func TestCaptureAndStoreCaptureFailure(t *testing.T) {
	db := openTestDB(t)
	projects := database.NewProjectRepo(db)

	project := &models.Project{
		Name: "Tool", Slug: "tool-cap", Description: "d",
		URL: "https://tool.example.com", Category: models.CategoryOther,
	}
	require.NoError(t, projects.Add(project))

	svc := NewScreenshotService(projects, &fakeCapturer{err: errors.New("render timeout")}, &fakeStore{})

	_, err := svc.CaptureAndStore(context.Background(), project.ID)
	require.Error(t, err)

	stored, findErr := projects.FindByID(project.ID)
	require.NoError(t, findErr)
	assert.Empty(t, stored.Image)
}
