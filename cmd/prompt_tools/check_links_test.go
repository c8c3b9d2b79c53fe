package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLinkServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/gone" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestCheckLinksCommand_BrokenLink(t *testing.T) {
	server := newLinkServer(t)
	dir := t.TempDir()
	writePrompt(t, filepath.Join(dir, "a.yaml"), "title: Alpha\ndemo_link: "+server.URL+"/ok\n")
	writePrompt(t, filepath.Join(dir, "b.yaml"), "title: Bravo\n")
	writePrompt(t, filepath.Join(dir, "c.yaml"), "title: Charlie\ndemo_link: "+server.URL+"/gone\n")
	metricsPath := filepath.Join(t.TempDir(), "links.prom")

	stdout, _, err := executeCommand(t, "check-links", dir, "--timeout", "2", "--concurrency", "2", "--metrics-out", metricsPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 broken link(s) found")
	assert.Equal(t, 1, exitCode(err))

	assert.Contains(t, stdout, "Found 3 prompt files")
	assert.Contains(t, stdout, "[1/3] Checking a.yaml... ✅")
	assert.Contains(t, stdout, "[2/3] Checking b.yaml... ⏭️  (no demo link)")
	assert.Contains(t, stdout, "[3/3] Checking c.yaml... ❌")
	assert.Contains(t, stdout, "Total Links Checked: 2")
	assert.Contains(t, stdout, "❌ Charlie")
	assert.Contains(t, stdout, "HTTP Code: 404")
	assert.NotContains(t, stdout, "All demo links are accessible")

	content, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "prompt_links_checked 2")
	assert.Contains(t, string(content), "prompt_links_broken 1")
}

func TestCheckLinksCommand_AllAccessible(t *testing.T) {
	server := newLinkServer(t)
	dir := t.TempDir()
	writePrompt(t, filepath.Join(dir, "a.yaml"), "title: Alpha\ndemo_link: "+server.URL+"/ok\n")

	stdout, _, err := executeCommand(t, "check-links", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "✅ Accessible: 1")
	assert.Contains(t, stdout, "✨ All demo links are accessible!")
}

func TestCheckLinksCommand_SingleFile(t *testing.T) {
	server := newLinkServer(t)
	path := writePrompt(t, filepath.Join(t.TempDir(), "a.yaml"), "title: Alpha\ndemo_link: "+server.URL+"/ok\n")

	stdout, _, err := executeCommand(t, "check-links", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Found 1 prompt files")
}

func TestCheckLinksCommand_NoFiles(t *testing.T) {
	dir := t.TempDir()

	stdout, _, err := executeCommand(t, "check-links", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "No YAML files found in: "+dir)
}

func TestCheckLinksCommand_MissingPath(t *testing.T) {
	_, _, err := executeCommand(t, "check-links", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path not found")
}
