package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aapctl/internal/gateway"
	"aapctl/internal/manifest"
)

// fakeGateway is a minimal stateful stand-in for the users collection,
// enough to drive the applier end to end.
type fakeGateway struct {
	users  map[string]map[string]any
	nextID int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{users: make(map[string]map[string]any), nextID: 1}
}

func (g *fakeGateway) seed(username string) {
	g.users[username] = map[string]any{"id": g.nextID, "username": username}
	g.nextID++
}

func (g *fakeGateway) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/gateway/v1/users/":
			var results []map[string]any
			want := r.URL.Query().Get("username")
			for username, user := range g.users {
				if want == "" || want == username {
					results = append(results, user)
				}
			}
			json.NewEncoder(w).Encode(map[string]any{"results": results})

		case r.Method == http.MethodPost && r.URL.Path == "/api/gateway/v1/users/":
			var body map[string]any
			json.NewDecoder(r.Body).Decode(&body)
			body["id"] = g.nextID
			g.nextID++
			g.users[body["username"].(string)] = body
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(body)

		case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/api/gateway/v1/users/"):
			id, _ := strconv.Atoi(strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/gateway/v1/users/"), "/"))
			for username, user := range g.users {
				if user["id"] == id {
					delete(g.users, username)
				}
			}
			w.WriteHeader(http.StatusNoContent)

		default:
			http.NotFound(w, r)
		}
	})
}

func testClient(t *testing.T, server *httptest.Server) *gateway.Client {
	t.Helper()
	client, err := gateway.NewClient(gateway.Config{
		BaseURL:  server.URL,
		Username: "admin",
		Password: "hunter2",
	})
	require.NoError(t, err)
	return client
}

func TestApplier_CreatesMissingUser(t *testing.T) {
	fake := newFakeGateway()
	server := httptest.NewServer(fake.handler())
	defer server.Close()

	applier := NewApplier(testClient(t, server), false, true)
	summary, err := applier.Run(context.Background(), []manifest.Entry{
		{Kind: "user", Fields: map[string]any{"username": "jdoe", "email": "jdoe@example.com"}},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Changed)
	require.Len(t, summary.Results, 1)
	assert.Equal(t, "user", summary.Results[0].Kind)
	assert.Equal(t, "jdoe", summary.Results[0].Name)
	assert.Equal(t, "present", summary.Results[0].State)
	assert.True(t, summary.Results[0].Changed)
	assert.Contains(t, fake.users, "jdoe")
}

func TestApplier_Idempotent(t *testing.T) {
	fake := newFakeGateway()
	fake.seed("jdoe")
	server := httptest.NewServer(fake.handler())
	defer server.Close()

	applier := NewApplier(testClient(t, server), false, true)
	summary, err := applier.Run(context.Background(), []manifest.Entry{
		{Kind: "user", Fields: map[string]any{"username": "jdoe"}},
	})
	require.NoError(t, err)

	assert.Zero(t, summary.Changed)
	assert.False(t, summary.Results[0].Changed)
}

func TestApplier_DeletesAbsentUser(t *testing.T) {
	fake := newFakeGateway()
	fake.seed("jdoe")
	server := httptest.NewServer(fake.handler())
	defer server.Close()

	applier := NewApplier(testClient(t, server), false, true)
	summary, err := applier.Run(context.Background(), []manifest.Entry{
		{Kind: "user", State: "absent", Fields: map[string]any{"username": "jdoe"}},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Changed)
	assert.NotContains(t, fake.users, "jdoe")
}

func TestApplier_CheckModeLeavesGatewayUntouched(t *testing.T) {
	fake := newFakeGateway()
	server := httptest.NewServer(fake.handler())
	defer server.Close()

	applier := NewApplier(testClient(t, server), true, true)
	summary, err := applier.Run(context.Background(), []manifest.Entry{
		{Kind: "user", Fields: map[string]any{"username": "jdoe"}},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Changed)
	assert.True(t, summary.Check)
	assert.Empty(t, fake.users, "check mode must not create anything")
}

func TestApplier_UnknownKindAborts(t *testing.T) {
	server := httptest.NewServer(newFakeGateway().handler())
	defer server.Close()

	applier := NewApplier(testClient(t, server), false, true)
	_, err := applier.Run(context.Background(), []manifest.Entry{
		{Kind: "unicorn", Fields: map[string]any{"name": "x"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown resource kind "unicorn"`)
}

func TestApplier_ErrorCarriesEntryContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	applier := NewApplier(testClient(t, server), false, true)
	_, err := applier.Run(context.Background(), []manifest.Entry{
		{Kind: "user", Fields: map[string]any{"username": "jdoe"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resources[0] (user jdoe)")
	assert.True(t, gateway.IsUnexpectedStatus(err))
}

func TestApply_EndToEnd(t *testing.T) {
	fake := newFakeGateway()
	server := httptest.NewServer(fake.handler())
	defer server.Close()

	path := filepath.Join(t.TempDir(), "aap.yaml")
	content := fmt.Sprintf(`
gateway:
  hostname: %s
  username: admin
  password: hunter2
resources:
  - kind: user
    fields:
      username: jdoe
  - kind: user
    fields:
      username: asmith
`, server.URL)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	summary, err := Apply(context.Background(), ApplyOptions{
		ManifestPath: path,
		Quiet:        true,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Changed)
	assert.Contains(t, fake.users, "jdoe")
	assert.Contains(t, fake.users, "asmith")

	// A second run against the same manifest converges to no changes.
	summary, err = Apply(context.Background(), ApplyOptions{
		ManifestPath: path,
		Quiet:        true,
	})
	require.NoError(t, err)
	assert.Zero(t, summary.Changed)
}

func TestApply_InvalidManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aap.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
resources:
  - kind: unicorn
    fields:
      name: x
`), 0o644))

	_, err := Apply(context.Background(), ApplyOptions{ManifestPath: path, Quiet: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid manifest")
}
