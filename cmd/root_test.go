package cmd

import (
	"bytes"
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startBackend(t *testing.T) *httptest.Server {
	t.Helper()
	bodies := map[string]string{
		"/tree": `{"a": 1, "go": "x"}`,
		"/a/b":  `{"c": true, "d": false}`,
		"/go/b": `{}`,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := bodies[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writeConfig(t *testing.T, url string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "url: " + url + "\napis:\n  - path: tree\n    apis:\n      - path: b\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestListCommand(t *testing.T) {
	srv := startBackend(t)
	cfg := writeConfig(t, srv.URL)

	out, err := run(t, "-q", "-f", cfg, "list")
	require.NoError(t, err)
	assert.Equal(t, "/a:\n  1\n  /c: yes\n  /d: no\n/go: x\n", out)

	out, err = run(t, "-q", "-f", cfg, "list", "/a/d")
	require.NoError(t, err)
	assert.Equal(t, "/a/d: no\n", out)

	_, err = run(t, "-q", "-f", cfg, "list", "/missing")
	assert.ErrorContains(t, err, "/missing")
}

func TestExportCommand(t *testing.T) {
	srv := startBackend(t)
	cfg := writeConfig(t, srv.URL)
	dbPath := filepath.Join(t.TempDir(), "out.db")

	_, err := run(t, "-q", "-f", cfg, "export", dbPath)
	require.NoError(t, err)

	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM records`).Scan(&count))
	assert.Equal(t, 4, count)
}

func TestMissingConfig(t *testing.T) {
	_, err := run(t, "-q", "-f", filepath.Join(t.TempDir(), "nope.yaml"), "list")
	assert.ErrorContains(t, err, "read config")
}
