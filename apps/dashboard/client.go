package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	echoapi "github.com/trezcool/cptracker/apps/api/echo"
	"github.com/trezcool/cptracker/core/analytics"
	"github.com/trezcool/cptracker/core/settings"
	"github.com/trezcool/cptracker/core/student"
	"github.com/trezcool/cptracker/core/syncjob"
)

// APIError is a non 2xx answer of the API.
type APIError struct {
	Status  int
	Message string
	Fields  map[string]string // validation errors
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		msgs := make([]string, 0, len(keys))
		for _, k := range keys {
			msgs = append(msgs, e.Fields[k])
		}
		return strings.Join(msgs, "; ")
	}
	return http.StatusText(e.Status)
}

// Client talks to the HTTP API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) Authenticated() bool { return c.token != "" }

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body interface{}) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "encoding request")
		}
		r = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, r)
	if err != nil {
		return nil, errors.Wrap(err, "creating request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// do sends the request and decodes a JSON answer into out, when not nil.
func (c *Client) do(req *http.Request, out interface{}) (*http.Response, []byte, error) {
	res, err := c.http.Do(req)
	if err != nil {
		return nil, nil, errors.Wrap(err, req.Method+" "+req.URL.Path)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return res, nil, errors.Wrap(err, "reading response")
	}
	if res.StatusCode >= http.StatusBadRequest {
		return res, data, decodeError(res.StatusCode, data)
	}
	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return res, data, errors.Wrap(err, "decoding response")
		}
	}
	return res, data, nil
}

func decodeError(status int, data []byte) error {
	apiErr := &APIError{Status: status}
	var body map[string]interface{}
	if err := json.Unmarshal(data, &body); err != nil {
		return apiErr
	}
	if msg, ok := body["error"].(string); ok && len(body) == 1 {
		apiErr.Message = msg
		return apiErr
	}
	apiErr.Fields = make(map[string]string, len(body))
	for k, v := range body {
		if s, ok := v.(string); ok {
			apiErr.Fields[k] = s
		}
	}
	return apiErr
}

func (c *Client) call(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	_, _, err = c.do(req, out)
	return err
}

// Login exchanges the admin password for a token, kept for the next calls.
func (c *Client) Login(ctx context.Context, password string) error {
	var res echoapi.LoginResponse
	if err := c.call(ctx, http.MethodPost, "/v1/auth/login", nil, echoapi.LoginRequest{Password: password}, &res); err != nil {
		return err
	}
	c.token = res.Token
	return nil
}

func (c *Client) Students(ctx context.Context, search string) ([]student.Student, error) {
	q := make(url.Values)
	if search != "" {
		q.Set("search", search)
	}
	var students []student.Student
	err := c.call(ctx, http.MethodGet, "/v1/students", q, nil, &students)
	return students, err
}

func (c *Client) CreateStudent(ctx context.Context, ns student.NewStudent) (student.Student, error) {
	var s student.Student
	err := c.call(ctx, http.MethodPost, "/v1/students", nil, ns, &s)
	return s, err
}

func (c *Client) UpdateStudent(ctx context.Context, id int, us student.UpdateStudent) (student.Student, error) {
	var s student.Student
	err := c.call(ctx, http.MethodPut, "/v1/students/"+strconv.Itoa(id), nil, us, &s)
	return s, err
}

func (c *Client) DeleteStudent(ctx context.Context, id int) error {
	return c.call(ctx, http.MethodDelete, "/v1/students/"+strconv.Itoa(id), nil, nil, nil)
}

// Export downloads the CSV export and returns its content along with the suggested file name.
func (c *Client) Export(ctx context.Context, search string) ([]byte, string, error) {
	q := make(url.Values)
	if search != "" {
		q.Set("search", search)
	}
	req, err := c.newRequest(ctx, http.MethodGet, "/v1/students/export", q, nil)
	if err != nil {
		return nil, "", err
	}
	res, data, err := c.do(req, nil)
	if err != nil {
		return nil, "", err
	}

	filename := student.ExportFilename(time.Now().UTC())
	if _, params, err := mime.ParseMediaType(res.Header.Get("Content-Disposition")); err == nil && params["filename"] != "" {
		filename = params["filename"]
	}
	return data, filename, nil
}

func (c *Client) Profile(ctx context.Context, id, contestDays, problemDays int) (analytics.Profile, error) {
	q := make(url.Values)
	q.Set("contest_days", strconv.Itoa(contestDays))
	q.Set("problem_days", strconv.Itoa(problemDays))
	var p analytics.Profile
	err := c.call(ctx, http.MethodGet, "/v1/students/"+strconv.Itoa(id)+"/profile", q, nil, &p)
	return p, err
}

func (c *Client) SyncOverview(ctx context.Context) (settings.SyncOverview, error) {
	var ov settings.SyncOverview
	err := c.call(ctx, http.MethodGet, "/v1/settings/sync", nil, nil, &ov)
	return ov, err
}

func (c *Client) UpdateSync(ctx context.Context, patch settings.SyncSettingsPatch) (settings.SyncOverview, error) {
	var ov settings.SyncOverview
	err := c.call(ctx, http.MethodPatch, "/v1/settings/sync", nil, patch, &ov)
	return ov, err
}

func (c *Client) TestSync(ctx context.Context) (string, error) {
	var res echoapi.SuccessResponse
	err := c.call(ctx, http.MethodPost, "/v1/sync/test", nil, nil, &res)
	return res.Success, err
}

func (c *Client) RunSync(ctx context.Context) (syncjob.Run, error) {
	var run syncjob.Run
	err := c.call(ctx, http.MethodPost, "/v1/sync/run", nil, nil, &run)
	return run, err
}

func (c *Client) Theme(ctx context.Context) (settings.Theme, error) {
	var res echoapi.ThemeResponse
	err := c.call(ctx, http.MethodGet, "/v1/settings/theme", nil, nil, &res)
	return res.Theme, err
}

func (c *Client) ToggleTheme(ctx context.Context) (settings.Theme, error) {
	var res echoapi.ThemeResponse
	err := c.call(ctx, http.MethodPost, "/v1/settings/theme/toggle", nil, nil, &res)
	return res.Theme, err
}
