package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/trezcool/cptracker/apps/api/echo"
	"github.com/trezcool/cptracker/core/syncjob"
	"github.com/trezcool/cptracker/tests"
)

func Test_syncApi_test(t *testing.T) {
	app := setup(t)

	tests := []httpTest{
		{
			name: "test sync", method: http.MethodPost, path: "/v1/sync/test", token: getToken(t),
			wantCode: http.StatusOK, wantData: marchallObj(t, SuccessResponse{Success: syncjob.TestSuccessMessage}),
		},
	}
	runHTTPTests(t, app, tests)
}

func Test_syncApi_run(t *testing.T) {
	app := setup(t)
	token := getToken(t)

	ada := testutil.CreateStudent(t, studentRepo, "Ada", "ada@test.io", "ada", 1500, true)
	testutil.CreateStudent(t, studentRepo, "Bob", "bob@test.io", "bob", 1200, false)

	runHTTPTests(t, app, []httpTest{
		{name: "no runs yet", path: "/v1/sync/runs", token: token, wantCode: http.StatusOK, wantData: marchallList(t)},
	})

	req, rec := newAuthRequest(http.MethodPost, "/v1/sync/run", token)
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var run syncjob.Run
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &run))
	assert.Equal(t, syncjob.StatusSucceeded, run.Status)
	assert.Equal(t, syncjob.TriggerManual, run.Trigger)
	assert.Equal(t, 2, run.StudentsSynced)
	assert.True(t, run.FinishedAt.Valid)

	synced, err := studentRepo.GetStudentByID(context.Background(), ada.ID)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, synced.MaxRating, synced.CurrentRating)
	assert.WithinDuration(t, time.Now(), synced.LastUpdated, time.Minute)

	req, rec = newAuthRequest(http.MethodGet, "/v1/sync/runs?limit=5", token)
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var runs []syncjob.Run
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
	assert.Equal(t, run.StudentsSynced, runs[0].StudentsSynced)

	runHTTPTests(t, app, []httpTest{
		{
			name: "bad limit", path: "/v1/sync/runs?limit=lol", token: token, wantCode: http.StatusBadRequest,
			wantData: []byte(`{"limit": "limit must be a number"}`),
		},
	})
}

