package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const inceptionJSON = `{"Title":"Inception","Year":"2010","Rated":"PG-13","Runtime":"148 min",
"Genre":"Action, Sci-Fi, Thriller","Director":"Christopher Nolan","Plot":"Dreams within dreams.",
"Poster":"N/A","imdbRating":"8.8","imdbID":"tt1375666","Type":"movie","Response":"True"}`

const searchJSON = `{"Search":[{"Title":"Inception","Year":"2010","imdbID":"tt1375666","Type":"movie","Poster":"N/A"}],
"totalResults":"1","Response":"True"}`

type cliTestEnv struct {
	configPath string
	storePath  string
	omdb       *httptest.Server
}

func newFakeOMDB(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		q := r.URL.Query()
		switch {
		case q.Get("i") == "tt1375666":
			_, _ = w.Write([]byte(inceptionJSON))
		case strings.EqualFold(q.Get("s"), "inception"):
			_, _ = w.Write([]byte(searchJSON))
		default:
			_, _ = w.Write([]byte(`{"Response":"False","Error":"Movie not found!"}`))
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("OMDB_API_KEY", "")
	t.Setenv("PORT", "")

	omdb := newFakeOMDB(t)
	env := &cliTestEnv{
		configPath: filepath.Join(homeDir, ".config", "cinedex", "config.toml"),
		storePath:  filepath.Join(base, "movies.json"),
		omdb:       omdb,
	}
	writeTestConfig(t, env.configPath, env.storePath, omdb.URL)
	return env
}

func writeTestConfig(t *testing.T, path, storePath, omdbURL string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	content := fmt.Sprintf(`[omdb]
api_key = "test-key"
base_url = %q

[store]
backend = "json"
path = %q

[api]
bind = "127.0.0.1:0"

[logging]
level = "error"
`, omdbURL, storePath)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
