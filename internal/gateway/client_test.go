package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func basicConfig(baseURL string) Config {
	return Config{BaseURL: baseURL, Username: "admin", Password: "hunter2"}
}

func TestClient_BasicAuthHeader(t *testing.T) {
	var gotUser, gotPass string
	var gotOK bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotPass, gotOK = r.BasicAuth()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results": []}`))
	}))
	defer server.Close()

	client, err := NewClient(basicConfig(server.URL))
	require.NoError(t, err)

	_, err = client.Get(context.Background(), "/api/gateway/v1/users/")
	require.NoError(t, err)
	assert.True(t, gotOK)
	assert.Equal(t, "admin", gotUser)
	assert.Equal(t, "hunter2", gotPass)
}

func TestClient_BearerTokenHeader(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client, err := NewClient(Config{BaseURL: server.URL, Token: "abc123"})
	require.NoError(t, err)

	_, err = client.Get(context.Background(), "/api/gateway/v1/ping/")
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc123", gotAuth)
}

func TestClient_TrailingSlashBaseURL(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client, err := NewClient(basicConfig(server.URL + "/"))
	require.NoError(t, err)

	_, err = client.Get(context.Background(), "/api/gateway/v1/users/")
	require.NoError(t, err)
	assert.Equal(t, "/api/gateway/v1/users/", gotPath)
}

func TestClient_UnexpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"detail": "You do not have permission to perform this action."}`))
	}))
	defer server.Close()

	client, err := NewClient(basicConfig(server.URL))
	require.NoError(t, err)

	_, err = client.Post(context.Background(), "/api/gateway/v1/users/", map[string]any{"username": "jdoe"})
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.MethodPost, statusErr.Method)
	assert.Equal(t, "/api/gateway/v1/users/", statusErr.Path)
	assert.Equal(t, http.StatusForbidden, statusErr.Status)
	assert.Equal(t, []int{http.StatusCreated}, statusErr.Expected)
	assert.Contains(t, statusErr.Body, "permission")
	assert.True(t, IsUnexpectedStatus(err))
	assert.Equal(t, http.StatusForbidden, StatusOf(err))
}

func TestClient_ExpectedStatusOverride(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client, err := NewClient(basicConfig(server.URL))
	require.NoError(t, err)

	// A DELETE tolerating 404 treats the miss as success.
	_, err = client.Delete(context.Background(), "/api/gateway/v1/users/9/",
		http.StatusNoContent, http.StatusNotFound)
	require.NoError(t, err)
}

func TestClient_DecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer server.Close()

	client, err := NewClient(basicConfig(server.URL))
	require.NoError(t, err)

	_, err = client.Get(context.Background(), "/api/gateway/v1/users/")
	require.Error(t, err)
	assert.True(t, IsDecode(err))
}

func TestClient_BareArrayResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id": 1}, {"id": 2}]`))
	}))
	defer server.Close()

	client, err := NewClient(basicConfig(server.URL))
	require.NoError(t, err)

	body, err := client.Get(context.Background(), "/api/gateway/v1/ping/")
	require.NoError(t, err)
	assert.Len(t, Results(body), 2)
}

func TestClient_EmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client, err := NewClient(basicConfig(server.URL))
	require.NoError(t, err)

	body, err := client.Delete(context.Background(), "/api/gateway/v1/users/9/")
	require.NoError(t, err)
	assert.Empty(t, body)
}

func TestClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer server.Close()

	cfg := basicConfig(server.URL)
	cfg.Timeout = 50 * time.Millisecond
	client, err := NewClient(cfg)
	require.NoError(t, err)

	_, err = client.Get(context.Background(), "/api/gateway/v1/users/")
	require.Error(t, err)
	assert.True(t, IsTimeout(err))
	assert.True(t, IsTransport(err))
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "basic auth",
			cfg:  Config{BaseURL: "https://aap.example.com", Username: "admin", Password: "x"},
		},
		{
			name: "token auth",
			cfg:  Config{BaseURL: "https://aap.example.com", Token: "abc"},
		},
		{
			name:    "missing hostname",
			cfg:     Config{Username: "admin", Password: "x"},
			wantErr: "hostname is required",
		},
		{
			name:    "no credentials",
			cfg:     Config{BaseURL: "https://aap.example.com"},
			wantErr: "authentication is required",
		},
		{
			name:    "both credential kinds",
			cfg:     Config{BaseURL: "https://aap.example.com", Username: "admin", Password: "x", Token: "abc"},
			wantErr: "ambiguous",
		},
		{
			name:    "username without password",
			cfg:     Config{BaseURL: "https://aap.example.com", Username: "admin"},
			wantErr: "both username and password",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.cfg.Validate()
			if test.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), test.wantErr)
		})
	}
}

func TestResults(t *testing.T) {
	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{
			name: "paginated collection",
			body: map[string]any{"results": []any{map[string]any{"id": float64(1)}, map[string]any{"id": float64(2)}}},
			want: 2,
		},
		{
			name: "single item",
			body: map[string]any{"id": float64(3), "name": "Dev"},
			want: 1,
		},
		{
			name: "empty collection",
			body: map[string]any{"results": []any{}},
			want: 0,
		},
		{
			name: "no results and no id",
			body: map[string]any{"detail": "ok"},
			want: 0,
		},
		{
			name: "nil body",
			want: 0,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Len(t, Results(test.body), test.want)
		})
	}
}
