package cmd

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/naka-gawa/wuwu/internal/config"
	"github.com/naka-gawa/wuwu/internal/store"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seededState = `{
  "owner": "octocat",
  "status": {"food": 70, "health": 60, "intelligence": 20, "knowledge": 5, "mood": "grumpy", "age_months": 1},
  "aging": {"current_age_months": 1, "growth_rate_per_month": 1},
  "last_updated": "2026-10-01T08:30:00Z"
}`

func setupWorkspace(t *testing.T) (statePath, readmePath, assetsDir string) {
	t.Helper()
	for _, key := range []string{"GH_TOKEN", "GITHUB_TOKEN", "GITHUB_API_URL", "MAIN_REPO"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	root := t.TempDir()
	statePath = filepath.Join(root, "data", "wuwu.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(statePath), 0o755))
	require.NoError(t, os.WriteFile(statePath, []byte(seededState), 0o644))
	return statePath, filepath.Join(root, "README.md"), filepath.Join(root, "assets")
}

// resetFlags restores every flag of c and its subcommands to its default,
// since rootCmd is shared between executions.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// fakeGitHub serves the three lookups under the enterprise /api/v3 prefix
// and records every requested path.
type fakeGitHub struct {
	mu    sync.Mutex
	paths []string
}

func (f *fakeGitHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.paths = append(f.paths, r.URL.Path)
	f.mu.Unlock()

	now := time.Now().UTC().Format(time.RFC3339)
	switch r.URL.Path {
	case "/api/v3/users/octocat/events/public":
		fmt.Fprintf(w, `[
			{"type": "PushEvent", "created_at": %q},
			{"type": "PushEvent", "created_at": %q},
			{"type": "PushEvent", "created_at": %q}
		]`, now, now, now)
	case "/api/v3/users/octocat":
		fmt.Fprint(w, `{"login": "octocat", "followers": 15, "public_repos": 8}`)
	case "/api/v3/repos/octocat/hello", "/api/v3/repos/octocat/other":
		fmt.Fprint(w, `{"stargazers_count": 7}`)
	default:
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message": "Not Found"}`)
	}
}

func (f *fakeGitHub) requested(path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.paths {
		if p == path {
			return true
		}
	}
	return false
}

func setupGitHub(t *testing.T) *fakeGitHub {
	t.Helper()
	fake := &fakeGitHub{}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)
	t.Setenv("GH_TOKEN", "test-token")
	t.Setenv("GITHUB_API_URL", server.URL+"/")
	t.Setenv("MAIN_REPO", "octocat/hello")
	return fake
}

func TestStatusCommand(t *testing.T) {
	statePath, readmePath, assetsDir := setupWorkspace(t)

	out, err := execute(t, "status", "--state", statePath, "--readme", readmePath, "--assets", assetsDir)
	require.NoError(t, err)
	assert.Contains(t, out, `"owner": "octocat"`)
	assert.Contains(t, out, `"mood": "grumpy"`)
}

func TestRenderCommand(t *testing.T) {
	statePath, readmePath, assetsDir := setupWorkspace(t)

	_, err := execute(t, "render", "--state", statePath, "--readme", readmePath, "--assets", assetsDir)
	require.NoError(t, err)

	content, err := os.ReadFile(readmePath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "# Meet Wuwu")
	assert.Contains(t, string(content), "| **Mood** | grumpy |")
}

func TestRenderCommand_RunInProgress(t *testing.T) {
	statePath, readmePath, assetsDir := setupWorkspace(t)

	unlock, err := store.NewStateFile(statePath).Lock()
	require.NoError(t, err)
	defer unlock()

	_, err = execute(t, "render", "--state", statePath, "--readme", readmePath, "--assets", assetsDir)
	assert.ErrorIs(t, err, errRunInProgress)
	assert.NoFileExists(t, readmePath)
}

func TestUpdateCommand(t *testing.T) {
	statePath, readmePath, assetsDir := setupWorkspace(t)
	fake := setupGitHub(t)

	out, err := execute(t, "update", "--state", statePath, "--readme", readmePath, "--assets", assetsDir)
	require.NoError(t, err)
	assert.Contains(t, out, "Wuwu is ")
	assert.Contains(t, out, "| Food 85% | Health 53%")
	assert.True(t, fake.requested("/api/v3/repos/octocat/hello"))

	state, err := store.NewStateFile(statePath).Load()
	require.NoError(t, err)
	assert.Equal(t, 85, state.Status.Food)
	assert.Equal(t, 21, state.Status.Intelligence)
	assert.Equal(t, 53, state.Status.Health)
	assert.Equal(t, 6, state.Status.Knowledge)
	require.NotNil(t, state.Activity)
	assert.Equal(t, 3, state.Activity.CommitsToday)
	assert.Equal(t, 7, state.Activity.Stars)

	content, err := os.ReadFile(readmePath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "| **Food** | 85% |")
	assert.Contains(t, string(content), "| **Public Repos** | 8 |")
}

func TestUpdateCommand_RepoFlag(t *testing.T) {
	statePath, readmePath, assetsDir := setupWorkspace(t)
	fake := setupGitHub(t)

	_, err := execute(t, "update", "--repo", "octocat/other", "--state", statePath, "--readme", readmePath, "--assets", assetsDir)
	require.NoError(t, err)
	assert.True(t, fake.requested("/api/v3/repos/octocat/other"))
	assert.False(t, fake.requested("/api/v3/repos/octocat/hello"))
}

func TestUpdateCommand_DryRun(t *testing.T) {
	statePath, readmePath, assetsDir := setupWorkspace(t)
	setupGitHub(t)
	before, err := os.ReadFile(statePath)
	require.NoError(t, err)

	out, err := execute(t, "update", "--dry-run", "--state", statePath, "--readme", readmePath, "--assets", assetsDir)
	require.NoError(t, err)
	assert.Contains(t, out, `"owner": "octocat"`)
	assert.Contains(t, out, `"food": 85`)

	after, err := os.ReadFile(statePath)
	require.NoError(t, err)
	assert.Equal(t, before, after, "dry run must not touch the state")
	assert.NoFileExists(t, readmePath)

	// Flags from this run must not leak into the next one.
	_, err = execute(t, "update", "--state", statePath, "--readme", readmePath, "--assets", assetsDir)
	require.NoError(t, err)
	assert.FileExists(t, readmePath)
}

func TestUpdateCommand_MissingToken(t *testing.T) {
	statePath, readmePath, assetsDir := setupWorkspace(t)
	before, err := os.ReadFile(statePath)
	require.NoError(t, err)

	_, err = execute(t, "update", "--state", statePath, "--readme", readmePath, "--assets", assetsDir)
	assert.ErrorIs(t, err, config.ErrMissingToken)

	after, err := os.ReadFile(statePath)
	require.NoError(t, err)
	assert.Equal(t, before, after, "state must be untouched")
	assert.NoFileExists(t, readmePath)
}
