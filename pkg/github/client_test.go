package github

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCreds = Credentials{Owner: "acme", Repo: "widgets", Token: "tkn123"}

// createTestClient creates a client configured to use the test server
func createTestClient(t *testing.T, server *httptest.Server, opts ClientOptions) *Client {
	t.Helper()
	opts.BaseURL = server.URL
	client, err := NewClient(testCreds, opts)
	require.NoError(t, err)
	return client
}

func respondWith(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func TestNewClient(t *testing.T) {
	t.Run("default base URL", func(t *testing.T) {
		client, err := NewClient(testCreds, ClientOptions{})
		require.NoError(t, err)
		assert.Equal(t, DefaultBaseURL, client.client.BaseURL.String())
		assert.Equal(t, "acme", client.client.UserAgent)
	})

	t.Run("base URL gets a trailing slash", func(t *testing.T) {
		client, err := NewClient(testCreds, ClientOptions{BaseURL: "https://ghe.example.com/api/v3"})
		require.NoError(t, err)
		assert.Equal(t, "https://ghe.example.com/api/v3/", client.client.BaseURL.String())
	})

	t.Run("invalid base URL", func(t *testing.T) {
		_, err := NewClient(testCreds, ClientOptions{BaseURL: "://bad"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid API base URL")
	})

	t.Run("timeout is applied", func(t *testing.T) {
		client, err := NewClient(testCreds, ClientOptions{Timeout: 5 * time.Second})
		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, client.http.Timeout)
	})
}

func TestClient_CallHeaders(t *testing.T) {
	var got *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := createTestClient(t, server, ClientOptions{})

	_, err := client.Call(context.Background(), &Request{Method: http.MethodGet, Path: "repos/acme/widgets/labels"})
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, http.MethodGet, got.Method)
	assert.Equal(t, "/repos/acme/widgets/labels", got.URL.Path)
	assert.Equal(t, "acme", got.Header.Get("User-Agent"))
	assert.Equal(t, "token tkn123", got.Header.Get("Authorization"))
}

func TestClient_CallStatusHandling(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		expectBody  string
		expectErr   string
		expectType  interface{}
		expectEmpty bool
	}{
		{
			name:        "204 is success with no result",
			status:      http.StatusNoContent,
			expectEmpty: true,
		},
		{
			name:       "404 reports the message field",
			status:     http.StatusNotFound,
			body:       `{"message":"X"}`,
			expectErr:  "HTTP status code 404: X",
			expectType: &HTTPStatusError{},
		},
		{
			name:       "422 reports the message field",
			status:     http.StatusUnprocessableEntity,
			body:       `{"message":"Validation Failed","errors":[{"code":"already_exists"}]}`,
			expectErr:  "HTTP status code 422: Validation Failed",
			expectType: &HTTPStatusError{},
		},
		{
			name:       "200 with JSON returns the parsed body",
			status:     http.StatusOK,
			body:       `[{"name":"bug","color":"fff"}]`,
			expectBody: `[{"name":"bug","color":"fff"}]`,
		},
		{
			name:       "201 with JSON returns the parsed body",
			status:     http.StatusCreated,
			body:       `{"name":"bug","color":"fff"}`,
			expectBody: `{"name":"bug","color":"fff"}`,
		},
		{
			name:       "200 with an unparsable body is malformed",
			status:     http.StatusOK,
			body:       `not json`,
			expectErr:  "malformed response",
			expectType: &MalformedResponseError{},
		},
		{
			name:       "200 with an empty body is malformed",
			status:     http.StatusOK,
			body:       ``,
			expectErr:  "malformed response",
			expectType: &MalformedResponseError{},
		},
		{
			name:       "500 with an HTML body is malformed",
			status:     http.StatusInternalServerError,
			body:       `<html>oops</html>`,
			expectErr:  "HTTP status code 500",
			expectType: &MalformedResponseError{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(respondWith(tt.status, tt.body))
			defer server.Close()

			client := createTestClient(t, server, ClientOptions{})
			body, err := client.Call(context.Background(), &Request{Method: http.MethodGet, Path: "repos/acme/widgets/labels"})

			if tt.expectErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectErr)
				assert.Nil(t, body)
				switch tt.expectType.(type) {
				case *HTTPStatusError:
					var statusErr *HTTPStatusError
					require.True(t, errors.As(err, &statusErr))
					assert.Equal(t, tt.status, statusErr.StatusCode)
				case *MalformedResponseError:
					var malformed *MalformedResponseError
					require.True(t, errors.As(err, &malformed))
					assert.Equal(t, tt.status, malformed.StatusCode)
				}
				return
			}

			require.NoError(t, err)
			if tt.expectEmpty {
				assert.Nil(t, body)
				return
			}
			assert.JSONEq(t, tt.expectBody, string(body))
		})
	}
}

func TestClient_CallSendsJSONBody(t *testing.T) {
	var received map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_ = json.NewDecoder(r.Body).Decode(&received)
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"name":"bug","color":"fff"}`)
	}))
	defer server.Close()

	client := createTestClient(t, server, ClientOptions{})
	_, err := client.Call(context.Background(), &Request{
		Method: http.MethodPost,
		Path:   "repos/acme/widgets/labels",
		Body:   map[string]string{"name": "bug", "color": "fff"},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"name": "bug", "color": "fff"}, received)
}

func TestClient_CallTransportError(t *testing.T) {
	server := httptest.NewServer(respondWith(http.StatusOK, `[]`))
	client := createTestClient(t, server, ClientOptions{})
	server.Close()

	_, err := client.Call(context.Background(), &Request{Method: http.MethodGet, Path: "repos/acme/widgets/labels"})
	require.Error(t, err)

	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, http.MethodGet, transportErr.Method)
	assert.Equal(t, "repos/acme/widgets/labels", transportErr.Path)
	assert.Equal(t, transportErr.Err.Error(), err.Error())
}

func TestClient_CallTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()
	defer close(release)

	client := createTestClient(t, server, ClientOptions{Timeout: 50 * time.Millisecond})

	_, err := client.Call(context.Background(), &Request{Method: http.MethodDelete, Path: "repos/acme/widgets/labels/bug"})
	require.Error(t, err)

	var transportErr *TransportError
	assert.True(t, errors.As(err, &transportErr))
}

func TestClient_CallUpdatesRateLimiter(t *testing.T) {
	reset := time.Now().Add(time.Hour).Unix()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("X-RateLimit-Remaining", "42")
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset, 10))
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, `[]`)
	}))
	defer server.Close()

	limiter := NewRateLimiter(nil)
	client := createTestClient(t, server, ClientOptions{RateLimiter: limiter})

	_, err := client.Call(context.Background(), &Request{Method: http.MethodGet, Path: "repos/acme/widgets/labels"})
	require.NoError(t, err)

	stats := limiter.GetStats()
	assert.Equal(t, 42, stats.RemainingRequests)
	assert.Equal(t, reset, stats.ResetTime.Unix())
}

func TestHasNextPage(t *testing.T) {
	header := http.Header{}
	assert.False(t, hasNextPage(header))

	header.Set("Link", `<https://api.github.com/repositories/1/labels?page=2>; rel="next", <https://api.github.com/repositories/1/labels?page=3>; rel="last"`)
	assert.True(t, hasNextPage(header))

	header.Set("Link", `<https://api.github.com/repositories/1/labels?page=1>; rel="prev"`)
	assert.False(t, hasNextPage(header))
}
