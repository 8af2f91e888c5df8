package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	. "github.com/trezcool/cptracker/apps/api/echo"
	"github.com/trezcool/cptracker/core"
	"github.com/trezcool/cptracker/core/analytics"
	"github.com/trezcool/cptracker/core/settings"
	"github.com/trezcool/cptracker/core/student"
	"github.com/trezcool/cptracker/core/syncjob"
	emailsvc "github.com/trezcool/cptracker/services/email"
	sqlxrepos "github.com/trezcool/cptracker/storage/database/sqlx"
	"github.com/trezcool/cptracker/tests"
)

const adminPassword = "s3cret-pa55"

var (
	studentRepo student.Repository
	runRepo     syncjob.Repository

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	errNotFound     = httpErr{Error: "not found"}
)

func setup(t *testing.T) Server {
	// set up DB & repos
	db := testutil.PrepareDB(t)
	studentRepo = sqlxrepos.NewStudentRepository(db)
	runRepo = sqlxrepos.NewSyncRunRepository(db)

	// set up services
	logger := testutil.NewLogger()
	validate, translator := core.NewValidator()
	studentSvc := student.NewService(studentRepo)
	settingsSvc := settings.NewService(sqlxrepos.NewSettingsStore(db), validate)
	syncSvc := syncjob.NewService(syncjob.Options{
		Students:         studentSvc,
		Settings:         settingsSvc,
		Runs:             runRepo,
		Source:           syncjob.NewMockSource(1),
		MailSvc:          emailsvc.NewConsoleServiceMock(logger),
		Logger:           logger,
		SimulatedLatency: 10 * time.Millisecond,
		InactivityWindow: 7 * 24 * time.Hour,
	})

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt.GenerateFromPassword() failed: %v", err)
	}

	// set up server
	return NewServer(
		&Options{
			DisableReqLogs:    true,
			AdminPasswordHash: string(hash),
			Logger:            logger,
			Validate:          validate,
			Translator:        translator,
			StudentSvc:        studentSvc,
			AnalyticsSvc:      analytics.NewService(studentSvc),
			SettingsSvc:       settingsSvc,
			SyncSvc:           syncSvc,
		},
	)
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T) string {
	token, err := GenerateToken(GetAdminClaims())
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	if objs == nil {
		objs = []interface{}{}
	}
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	assert.Equal(t, tt.wantCode, rec.Code, "code")
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runHTTPTests(t *testing.T, app Server, tests []httpTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			req, rec := newAuthRequest(method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
