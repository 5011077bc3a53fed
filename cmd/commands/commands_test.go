package commands

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/symbol/symbol-faucet/pkg/logger"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	logger.UseTestLogger(t)

	root := newRootCmd()
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestVersionCommand(t *testing.T) {
	out, err := runCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "symbol-faucet dev")

	out, err = runCommand(t, "version", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"service":"symbol-faucet"`)
}

func TestNodesCommand(t *testing.T) {
	var gotQuery string
	stats := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = io.WriteString(w, `[
  {"host":"secure.example.org","apiStatus":{"isHttpsEnabled":true}},
  {"host":"peer-only.example.org"}
]`)
	}))
	defer stats.Close()

	path := writeConfig(t, fmt.Sprintf(`
network:
  defaultNode: "http://localhost:3000"
statistics:
  url: %q
`, stats.URL))

	out, err := runCommand(t, "nodes", "--config", path, "--filter", "suggested", "--limit", "5")
	require.NoError(t, err)
	assert.Equal(t, "https://secure.example.org:3001", strings.TrimSpace(out))
	assert.Contains(t, gotQuery, "nodeFilter=suggested")
	assert.Contains(t, gotQuery, "limit=5")

	_, err = runCommand(t, "nodes", "--config", path, "--filter", "everything")
	assert.Error(t, err)
}

func TestCommandsWithoutConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	tests := [][]string{
		{"help"},
		{"help", "serve"},
		{"completion", "bash"},
		{"serve", "--help"},
		{"version"},
	}
	for _, args := range tests {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			out, err := runCommand(t, args...)
			require.NoError(t, err)
			assert.NotEmpty(t, out)
		})
	}

	_, err := runCommand(t, "nodes")
	assert.Error(t, err)
}

func TestMissingConfig(t *testing.T) {
	_, err := runCommand(t, "nodes", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestServeRejectsInvalidConfig(t *testing.T) {
	path := writeConfig(t, `
network:
  defaultNode: "localhost"
`)
	_, err := runCommand(t, "serve", "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "network.defaultNode")
	assert.Contains(t, err.Error(), "network.faucetPrivateKey")
}
