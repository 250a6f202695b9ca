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

type cliTestEnv struct {
	baseDir     string
	configPath  string
	catalogPath string
	server      *httptest.Server
}

func setupCLITestEnv(t *testing.T, searchBody string) *cliTestEnv {
	t.Helper()

	base := t.TempDir()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/search-works") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, searchBody)
	}))
	t.Cleanup(server.Close)

	catalogPath := filepath.Join(base, "catalog.json")
	catalogBody := `[{"id": 7, "title": "Пикник на обочине", "author": "Стругацкие"}]`
	if err := os.WriteFile(catalogPath, []byte(catalogBody), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	configPath := filepath.Join(base, "config.toml")
	configBody := fmt.Sprintf(`[paths]
data_dir = %q
cache_dir = %q
log_dir = %q

[catalog]
path = %q

[sources]
priority = ["fantlab"]

[sources.fantlab]
enabled = true
base_url = %q
timeout_seconds = 5

[sources.knigopoisk]
enabled = false

[verify]
policy = "always"

[logging]
format = "json"
level = "error"
`,
		filepath.Join(base, "data"),
		filepath.Join(base, "cache"),
		filepath.Join(base, "logs"),
		catalogPath,
		server.URL,
	)
	if err := os.WriteFile(configPath, []byte(configBody), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &cliTestEnv{
		baseDir:     base,
		configPath:  configPath,
		catalogPath: catalogPath,
		server:      server,
	}
}

func runCLI(t *testing.T, configPath string, args []string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, want string) {
	t.Helper()
	if !strings.Contains(output, want) {
		t.Fatalf("expected output to contain %q, got:\n%s", want, output)
	}
}

func TestCLIVerifyAndOutcomeCommands(t *testing.T) {
	// The source returns a candidate that does not match the catalogued work,
	// so the run records a negative outcome the outcome commands can inspect.
	env := setupCLITestEnv(t, `[{"work_id": 41, "work_name": "Град обреченный", "autor_rusname": "Стругацкие"}]`)

	out, _, err := runCLI(t, env.configPath, []string{"verify"})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	requireContains(t, out, "NEGATIVE")

	out, _, err = runCLI(t, env.configPath, []string{"outcomes", "list"})
	if err != nil {
		t.Fatalf("outcomes list: %v", err)
	}
	requireContains(t, out, "7")
	requireContains(t, out, "negative")
	requireContains(t, out, "Пикник на обочине")

	out, _, err = runCLI(t, env.configPath, []string{"outcomes", "show", "7"})
	if err != nil {
		t.Fatalf("outcomes show: %v", err)
	}
	requireContains(t, out, "Verdict: negative")
	requireContains(t, out, "Пикник на обочине - Стругацкие")

	out, _, err = runCLI(t, env.configPath, []string{"outcomes", "remove", "7"})
	if err != nil {
		t.Fatalf("outcomes remove: %v", err)
	}
	requireContains(t, out, "Removed outcome for work id 7")

	out, _, err = runCLI(t, env.configPath, []string{"outcomes", "list"})
	if err != nil {
		t.Fatalf("outcomes list after remove: %v", err)
	}
	requireContains(t, out, "No outcomes stored")
}

func TestCLICacheCommands(t *testing.T) {
	env := setupCLITestEnv(t, `[]`)

	if _, _, err := runCLI(t, env.configPath, []string{"verify"}); err != nil {
		t.Fatalf("verify: %v", err)
	}

	out, _, err := runCLI(t, env.configPath, []string{"cache", "stats"})
	if err != nil {
		t.Fatalf("cache stats: %v", err)
	}
	requireContains(t, out, "Entries:    1")

	out, _, err = runCLI(t, env.configPath, []string{"cache", "clear"})
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	requireContains(t, out, "Cleared 1 entries")

	out, _, err = runCLI(t, env.configPath, []string{"cache", "stats"})
	if err != nil {
		t.Fatalf("cache stats after clear: %v", err)
	}
	requireContains(t, out, "Entries:    0")
}

func TestCLIConfigInit(t *testing.T) {
	tmp := t.TempDir()
	target := filepath.Join(tmp, "config.toml")

	out, _, err := runCLI(t, "", []string{"config", "init", "--path", target})
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")

	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, "", []string{"config", "init", "--path", target}); err == nil {
		t.Fatal("expected error when target already exists")
	}
}
