package manifest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "aap.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeManifest(t, `
gateway:
  hostname: https://aap.example.com
  username: admin
  password: hunter2
resources:
  - kind: organization
    state: enforced
    fields:
      name: Dev
    relations:
      galaxy_credentials: [Galaxy]
  - kind: user
    fields:
      username: jdoe
      email: jdoe@example.com
`)

	m, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "https://aap.example.com", m.Gateway.BaseURL)
	assert.Equal(t, "admin", m.Gateway.Username)
	require.Len(t, m.Resources, 2)

	org := m.Resources[0]
	assert.Equal(t, "organization", org.Kind)
	assert.Equal(t, "enforced", org.State)
	assert.Equal(t, "Dev", org.Fields["name"])
	assert.Equal(t, []any{"Galaxy"}, org.Relations["galaxy_credentials"])

	user := m.Resources[1]
	assert.Equal(t, "user", user.Kind)
	assert.Empty(t, user.State, "state defaults at reconcile time, not at parse time")
}

func TestLoad_TemplatedValues(t *testing.T) {
	path := writeManifest(t, `
resources:
  - kind: user
    fields:
      username: {{ .Values.user | lower }}
      email: {{ printf "%s@%s" .Values.user .Values.domain | quote }}
`)

	m, err := Load(path, map[string]any{"user": "JDoe", "domain": "example.com"})
	require.NoError(t, err)

	require.Len(t, m.Resources, 1)
	assert.Equal(t, "jdoe", m.Resources[0].Fields["username"])
	assert.Equal(t, "JDoe@example.com", m.Resources[0].Fields["email"])
}

func TestLoad_MissingValueFails(t *testing.T) {
	path := writeManifest(t, `
resources:
  - kind: user
    fields:
      username: {{ .Values.user }}
`)

	_, err := Load(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rendering manifest")
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeManifest(t, "resources: [kind: user")

	_, err := Load(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing manifest")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading manifest")
}

func TestValidate(t *testing.T) {
	kinds := []string{"user", "organization"}

	valid := &Manifest{Resources: []Entry{
		{Kind: "user", Fields: map[string]any{"username": "jdoe"}},
		{Kind: "organization", State: "absent", Fields: map[string]any{"name": "Dev"}},
	}}
	assert.NoError(t, valid.Validate(kinds))

	broken := &Manifest{Resources: []Entry{
		{Kind: "unicorn", Fields: map[string]any{"name": "x"}},
		{Kind: "user", State: "frozen", Fields: map[string]any{"username": "jdoe"}},
		{Kind: "user"},
		{},
	}}
	err := broken.Validate(kinds)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown kind "unicorn"`)
	assert.Contains(t, err.Error(), `unsupported state "frozen"`)
	assert.Contains(t, err.Error(), "fields are required")
	assert.Contains(t, err.Error(), "kind is required")
}

func TestParseValues(t *testing.T) {
	values, err := ParseValues([]string{"env=prod", "region=eu-west-1", "empty="})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"env": "prod", "region": "eu-west-1", "empty": ""}, values)

	_, err = ParseValues([]string{"no-separator"})
	require.Error(t, err)

	_, err = ParseValues([]string{"=value"})
	require.Error(t, err)
}

func TestRender_PlainDocumentPassesThrough(t *testing.T) {
	doc := []byte("resources: []\n")
	out, err := Render("aap.yaml", doc, nil)
	require.NoError(t, err)
	assert.Equal(t, doc, out)
}

func TestWatchFile_NotifiesOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aap.yaml")
	require.NoError(t, os.WriteFile(path, []byte("resources: []\n"), 0o644))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	changed := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- WatchFile(ctx, path, 20*time.Millisecond, func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
	}()

	// Give the watcher a moment to register before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("resources: [] # edited\n"), 0o644))

	select {
	case <-changed:
	case <-ctx.Done():
		t.Fatal("watcher did not report the write")
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestWatchFile_IgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aap.yaml")
	require.NoError(t, os.WriteFile(path, []byte("resources: []\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 1)
	go WatchFile(ctx, path, 20*time.Millisecond, func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x\n"), 0o644))

	select {
	case <-changed:
		t.Fatal("watcher reported a change for an unrelated file")
	case <-time.After(300 * time.Millisecond):
	}
}
