package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	echoapi "github.com/trezcool/cptracker/apps/api/echo"
	"github.com/trezcool/cptracker/core"
	"github.com/trezcool/cptracker/core/analytics"
	"github.com/trezcool/cptracker/core/settings"
	"github.com/trezcool/cptracker/core/student"
	"github.com/trezcool/cptracker/core/syncjob"
	emailsvc "github.com/trezcool/cptracker/services/email"
	inmemdb "github.com/trezcool/cptracker/storage/database/inmem"
	"github.com/trezcool/cptracker/tests"
)

const adminPassword = "s3cret-pa55"

func setupAPI(t *testing.T) string {
	t.Helper()
	db := inmemdb.Open()
	logger := testutil.NewLogger()
	validate, translator := core.NewValidator()

	studentSvc := student.NewService(inmemdb.NewStudentRepository(db))
	settingsSvc := settings.NewService(inmemdb.NewSettingsStore(db), validate)
	syncSvc := syncjob.NewService(syncjob.Options{
		Students:         studentSvc,
		Settings:         settingsSvc,
		Runs:             inmemdb.NewSyncRunRepository(db),
		Source:           syncjob.NewMockSource(1),
		MailSvc:          emailsvc.NewConsoleServiceMock(logger),
		Logger:           logger,
		SimulatedLatency: time.Millisecond,
		InactivityWindow: 7 * 24 * time.Hour,
	})

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.MinCost)
	require.NoError(t, err)

	srv := httptest.NewServer(echoapi.NewServer(&echoapi.Options{
		DisableReqLogs:    true,
		AdminPasswordHash: string(hash),
		Logger:            logger,
		Validate:          validate,
		Translator:        translator,
		StudentSvc:        studentSvc,
		AnalyticsSvc:      analytics.NewService(studentSvc),
		SettingsSvc:       settingsSvc,
		SyncSvc:           syncSvc,
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func loggedInClient(t *testing.T) *Client {
	t.Helper()
	c := NewClient(setupAPI(t)+"/", "")
	require.NoError(t, c.Login(context.Background(), adminPassword))
	return c
}

func TestClient_Login(t *testing.T) {
	url := setupAPI(t)
	ctx := context.Background()

	t.Run("wrong password", func(t *testing.T) {
		c := NewClient(url, "")
		err := c.Login(ctx, "nope")
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadRequest, apiErr.Status)
		assert.Equal(t, "authentication failed", apiErr.Error())
		assert.False(t, c.Authenticated())
	})

	t.Run("no token", func(t *testing.T) {
		c := NewClient(url, "")
		_, err := c.Students(ctx, "")
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	})

	t.Run("ok", func(t *testing.T) {
		c := NewClient(url, "")
		require.NoError(t, c.Login(ctx, adminPassword))
		assert.True(t, c.Authenticated())
		students, err := c.Students(ctx, "")
		require.NoError(t, err)
		assert.Empty(t, students)
	})
}

func TestClient_students(t *testing.T) {
	c := loggedInClient(t)
	ctx := context.Background()

	enabled := false
	ada, err := c.CreateStudent(ctx, student.NewStudent{
		Name:                  "Ada Lovelace",
		Email:                 "ADA@test.io",
		Phone:                 "+15555555555",
		CodeforcesHandle:      "ada_l",
		CurrentRating:         1500,
		MaxRating:             1400,
		EmailRemindersEnabled: &enabled,
	})
	require.NoError(t, err)
	assert.Equal(t, "ada@test.io", ada.Email)
	assert.Equal(t, 1400, ada.MaxRating)
	assert.False(t, ada.EmailRemindersEnabled)

	t.Run("create invalid", func(t *testing.T) {
		_, err := c.CreateStudent(ctx, student.NewStudent{Name: "Bob", Email: "bob", Phone: "1", CodeforcesHandle: "bob"})
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadRequest, apiErr.Status)
		assert.Contains(t, apiErr.Fields, "email")
	})

	t.Run("search", func(t *testing.T) {
		students, err := c.Students(ctx, "LOVE")
		require.NoError(t, err)
		require.Len(t, students, 1)
		assert.Equal(t, ada.ID, students[0].ID)

		students, err = c.Students(ctx, "nobody")
		require.NoError(t, err)
		assert.Empty(t, students)
	})

	t.Run("update", func(t *testing.T) {
		rating := 1700
		updated, err := c.UpdateStudent(ctx, ada.ID, student.UpdateStudent{CurrentRating: &rating})
		require.NoError(t, err)
		assert.Equal(t, "Ada Lovelace", updated.Name)
		assert.Equal(t, 1700, updated.CurrentRating)
		assert.Equal(t, 1400, updated.MaxRating)
	})

	t.Run("profile", func(t *testing.T) {
		p, err := c.Profile(ctx, ada.ID, 365, 7)
		require.NoError(t, err)
		assert.Equal(t, ada.ID, p.Student.ID)
		assert.Equal(t, 365, p.Contests.Days)
		assert.Equal(t, 7, p.Problems.Days)
		assert.Len(t, p.Problems.Heatmap, 7)

		_, err = c.Profile(ctx, ada.ID, 12, 7)
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	})

	t.Run("export", func(t *testing.T) {
		data, filename, err := c.Export(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, student.ExportFilename(time.Now().UTC()), filename)
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		require.Len(t, lines, 2)
		assert.Contains(t, lines[1], "Ada Lovelace")
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, c.DeleteStudent(ctx, ada.ID))

		err := c.DeleteStudent(ctx, ada.ID)
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusNotFound, apiErr.Status)
	})
}

func TestClient_settings(t *testing.T) {
	c := loggedInClient(t)
	ctx := context.Background()

	ov, err := c.SyncOverview(ctx)
	require.NoError(t, err)
	assert.Equal(t, settings.DefaultSyncSettings(), ov.SyncSettings)
	assert.Equal(t, settings.StatusActive, ov.Status)
	assert.NotNil(t, ov.NextRun)

	enabled := false
	weekly := settings.Weekly
	ov, err = c.UpdateSync(ctx, settings.SyncSettingsPatch{Frequency: &weekly, Enabled: &enabled})
	require.NoError(t, err)
	assert.Equal(t, settings.Weekly, ov.Frequency)
	assert.Equal(t, settings.StatusDisabled, ov.Status)
	assert.Nil(t, ov.NextRun)

	bad := "25:00"
	_, err = c.UpdateSync(ctx, settings.SyncSettingsPatch{Time: &bad})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Fields, "time")

	theme, err := c.Theme(ctx)
	require.NoError(t, err)
	assert.Equal(t, settings.Light, theme)
	theme, err = c.ToggleTheme(ctx)
	require.NoError(t, err)
	assert.Equal(t, settings.Dark, theme)
}

func TestClient_sync(t *testing.T) {
	c := loggedInClient(t)
	ctx := context.Background()

	msg, err := c.TestSync(ctx)
	require.NoError(t, err)
	assert.Equal(t, syncjob.TestSuccessMessage, msg)

	run, err := c.RunSync(ctx)
	require.NoError(t, err)
	assert.Equal(t, syncjob.StatusSucceeded, run.Status)
	assert.Equal(t, syncjob.TriggerManual, run.Trigger)
}

func TestAPIError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  APIError
		want string
	}{
		{name: "message", err: APIError{Status: 404, Message: "not found"}, want: "not found"},
		{name: "fields", err: APIError{Status: 400, Fields: map[string]string{"phone": "b", "email": "a"}}, want: "a; b"},
		{name: "status only", err: APIError{Status: 502}, want: "Bad Gateway"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}
