package practicum

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"homework_status_bot/internal/domain/homework"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "y0_AgAAAAsecret-token"

type capturedRequest struct {
	mu    sync.Mutex
	path  string
	query url.Values
	auth  string
}

func (c *capturedRequest) get() (string, url.Values, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.path, c.query, c.auth
}

func newTestServer(t *testing.T, status int, body string) (*httptest.Server, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.mu.Lock()
		captured.path = r.URL.Path
		captured.query = r.URL.Query()
		captured.auth = r.Header.Get("Authorization")
		captured.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, captured
}

func TestFetchStatuses_Success(t *testing.T) {
	srv, req := newTestServer(t, http.StatusOK,
		`{"homeworks":[{"homework_name":"hw2","status":"reviewing"},{"homework_name":"hw1","status":"approved"}],"current_date":1700000010}`)
	client := NewClient(srv.URL+"/api/user_api/homework_statuses/", testToken, time.Second)

	resp, err := client.FetchStatuses(context.Background(), 1700000000)
	require.NoError(t, err)

	path, query, auth := req.get()
	assert.Equal(t, "/api/user_api/homework_statuses/", path)
	assert.Equal(t, "1700000000", query.Get("from_date"))
	assert.Equal(t, "OAuth "+testToken, auth)

	require.Len(t, resp.Homeworks, 2)
	assert.Equal(t, homework.Report{HomeworkName: "hw2", Status: homework.StatusReviewing}, resp.Homeworks[0])
	assert.True(t, resp.HasCurrentDate)
	assert.Equal(t, int64(1700000010), resp.CurrentDate)
}

func TestFetchStatuses_EmptyHomeworks(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `{"homeworks":[]}`)
	client := NewClient(srv.URL, testToken, time.Second)

	resp, err := client.FetchStatuses(context.Background(), 0)
	require.NoError(t, err)
	_, ok := resp.Latest()
	assert.False(t, ok)
	assert.False(t, resp.HasCurrentDate)
}

func TestFetchStatuses_ServerError(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantReason string
	}{
		{"flat error", http.StatusBadRequest, `{"error":"bad_request"}`, "error=bad_request"},
		{"nested error with code", http.StatusBadRequest,
			`{"code":"UnknownError","error":{"error":"Wrong from_date format"}}`,
			"code=UnknownError error=Wrong from_date format"},
		{"code only", http.StatusUnauthorized, `{"code":"not_authenticated","message":"bad token"}`, "code=not_authenticated"},
		{"error payload with 200", http.StatusOK, `{"error":"maintenance"}`, "error=maintenance"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t, tt.status, tt.body)
			client := NewClient(srv.URL, testToken, time.Second)

			_, err := client.FetchStatuses(context.Background(), 42)

			var serverErr *homework.ServerError
			require.True(t, errors.As(err, &serverErr), "got %v", err)
			assert.Equal(t, tt.status, serverErr.StatusCode)
			assert.Equal(t, tt.wantReason, serverErr.Reason)
			assert.Contains(t, err.Error(), srv.URL)
			assert.NotContains(t, err.Error(), testToken)
		})
	}
}

func TestFetchStatuses_UnexpectedStatusCode(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusInternalServerError, `<html>oops</html>`)
	client := NewClient(srv.URL, testToken, time.Second)

	_, err := client.FetchStatuses(context.Background(), 1700000000)

	var codeErr *homework.UnexpectedStatusCodeError
	require.True(t, errors.As(err, &codeErr), "got %v", err)
	assert.Equal(t, http.StatusInternalServerError, codeErr.StatusCode)

	msg := err.Error()
	assert.Contains(t, msg, srv.URL)
	assert.Contains(t, msg, "500")
	assert.Contains(t, msg, "from_date:1700000000")
	assert.NotContains(t, msg, testToken)
}

func TestFetchStatuses_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `homeworks: none`},
		{"array root", `[{"homework_name":"hw1","status":"approved"}]`},
		{"missing homeworks", `{"current_date":1700000000}`},
		{"homeworks not a list", `{"homeworks":{"homework_name":"hw1"}}`},
		{"entry not an object", `{"homeworks":["hw1"]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t, http.StatusOK, tt.body)
			client := NewClient(srv.URL, testToken, time.Second)

			_, err := client.FetchStatuses(context.Background(), 0)

			var malformed *homework.MalformedResponseError
			assert.True(t, errors.As(err, &malformed), "got %v", err)
		})
	}
}

func TestFetchStatuses_MissingField(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"no status", `{"homeworks":[{"homework_name":"hw1"}]}`, "status"},
		{"null status", `{"homeworks":[{"homework_name":"hw1","status":null}]}`, "status"},
		{"no name", `{"homeworks":[{"status":"approved"}]}`, "homework_name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t, http.StatusOK, tt.body)
			client := NewClient(srv.URL, testToken, time.Second)

			_, err := client.FetchStatuses(context.Background(), 0)

			var missing *homework.MissingFieldError
			require.True(t, errors.As(err, &missing), "got %v", err)
			assert.Equal(t, tt.field, missing.Field)
		})
	}
}

func TestFetchStatuses_SkipsIncompleteOlderEntries(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK,
		`{"homeworks":[{"homework_name":"hw3","status":"rejected"},{"homework_name":"hw2"},{"homework_name":"hw1","status":"approved"}]}`)
	client := NewClient(srv.URL, testToken, time.Second)

	resp, err := client.FetchStatuses(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, resp.Homeworks, 2)
	assert.Equal(t, "hw3", resp.Homeworks[0].HomeworkName)
	assert.Equal(t, "hw1", resp.Homeworks[1].HomeworkName)
}

func TestFetchStatuses_UnknownStatusIsPassedThrough(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `{"homeworks":[{"homework_name":"hw1","status":"on_hold"}]}`)
	client := NewClient(srv.URL, testToken, time.Second)

	resp, err := client.FetchStatuses(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, homework.Status("on_hold"), resp.Homeworks[0].Status)
}

func TestFetchStatuses_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL
	srv.Close()

	client := NewClient(endpoint, testToken, time.Second)
	_, err := client.FetchStatuses(context.Background(), 7)

	var transportErr *homework.TransportError
	require.True(t, errors.As(err, &transportErr), "got %v", err)
	assert.Equal(t, endpoint, transportErr.Request.Endpoint)
	assert.Equal(t, "7", transportErr.Request.Params["from_date"])
}

func TestFetchStatuses_ContextCancelled(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `{"homeworks":[]}`)
	client := NewClient(srv.URL, testToken, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchStatuses(ctx, 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetchStatuses_ContractErrorsCarryRequestContext(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `{"current_date":1}`)
	client := NewClient(srv.URL, testToken, time.Second)

	_, err := client.FetchStatuses(context.Background(), 99)
	require.Error(t, err)
	assert.Contains(t, err.Error(), srv.URL)
	assert.Contains(t, err.Error(), "from_date:99")
	assert.Contains(t, err.Error(), "OAuth y0_A...")
	assert.NotContains(t, err.Error(), testToken)
}
