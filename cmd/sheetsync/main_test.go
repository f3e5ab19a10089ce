package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sheetsync/internal/config"
)

type cliResult struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, stdin string, args ...string) cliResult {
	t.Helper()
	var out, errOut bytes.Buffer
	args = append([]string{"--env-file=", "--metrics-backend", "none"}, args...)
	code := execute(context.Background(), args, strings.NewReader(stdin), &out, &errOut)
	return cliResult{code: code, stdout: out.String(), stderr: errOut.String()}
}

func sheetServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/items.csv":
			fmt.Fprint(w, "id,name\n1,bolt\n2,nut\n")
		case "/objects.csv":
			fmt.Fprint(w, "code\nA\n")
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sheetsync.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{config.EnvStoreKind, config.EnvDatabase, config.EnvLogLevel, config.EnvSeqURL} {
		t.Setenv(k, "")
	}
}

func TestCLI_LoadTablesDrop(t *testing.T) {
	clearEnv(t)
	srv := sheetServer(t)
	dsn := filepath.Join(t.TempDir(), "sync.db")
	cfg := writeConfig(t, fmt.Sprintf(`job: cli-test
store:
  kind: sqlite
  dsn: %q
sources:
  items: %q
  objects: %q
ddl:
  build:
    audit: CREATE TABLE IF NOT EXISTS audit (id INTEGER)
  drop:
    items: DROP TABLE IF EXISTS items
    objects: DROP TABLE IF EXISTS objects
`, dsn, srv.URL+"/items.csv", srv.URL+"/objects.csv"))

	res := runCLI(t, "", "--config", cfg, "run", "load")
	if res.code != 0 {
		t.Fatalf("run load exit = %d, stderr = %q", res.code, res.stderr)
	}
	if strings.Contains(res.stdout, "You are about to") {
		t.Fatalf("fresh load prompted: %q", res.stdout)
	}
	if !strings.Contains(res.stdout, "Finished loading 2 of 2 tables") {
		t.Fatalf("run load stdout = %q", res.stdout)
	}

	res = runCLI(t, "", "--config", cfg, "tables")
	if res.code != 0 || !strings.Contains(res.stdout, "items") || !strings.Contains(res.stdout, "2 tables") {
		t.Fatalf("tables = %+v", res)
	}

	res = runCLI(t, "n\n", "--config", cfg, "run", "load")
	if res.code != 0 {
		t.Fatalf("declined load exit = %d, want 0", res.code)
	}
	if !strings.Contains(res.stdout, "You are about to overwrite the following 2 tables: [items, objects]") ||
		!strings.Contains(res.stdout, "Aborting...") {
		t.Fatalf("declined load stdout = %q", res.stdout)
	}
	if strings.Contains(res.stdout, "Finished loading") {
		t.Fatalf("tables written after decline: %q", res.stdout)
	}

	res = runCLI(t, "y\n", "--config", cfg, "run", "drop")
	if res.code != 0 {
		t.Fatalf("run drop exit = %d, stderr = %q", res.code, res.stderr)
	}
	for _, want := range []string{"Tables to drop: 2", "Successfully dropped table items", "Finished dropping 2 of 2 tables"} {
		if !strings.Contains(res.stdout, want) {
			t.Fatalf("run drop stdout missing %q: %q", want, res.stdout)
		}
	}

	res = runCLI(t, "", "--config", cfg, "run", "drop")
	if res.code != 0 || !strings.Contains(res.stdout, "No tables to drop, exiting process") {
		t.Fatalf("second drop = %+v", res)
	}

	res = runCLI(t, "", "--config", cfg, "run", "build")
	if res.code != 0 || !strings.Contains(res.stdout, "Finished building 1 of 1 tables") {
		t.Fatalf("run build = %+v", res)
	}
}

func TestCLI_FailingTableExitsNonZero(t *testing.T) {
	clearEnv(t)
	cfg := writeConfig(t, fmt.Sprintf(`store:
  dsn: %q
ddl:
  build:
    good: CREATE TABLE IF NOT EXISTS good (id INTEGER)
    bad: CREATE TABLE bad (
`, filepath.Join(t.TempDir(), "sync.db")))

	res := runCLI(t, "", "--config", cfg, "run", "build")
	if res.code != 1 {
		t.Fatalf("exit = %d, want 1", res.code)
	}
	if !strings.Contains(res.stdout, "Successfully built table good") ||
		!strings.Contains(res.stdout, "Error with building table bad: ") {
		t.Fatalf("stdout = %q", res.stdout)
	}
	if !strings.Contains(res.stderr, "1 of 2 tables failed") {
		t.Fatalf("stderr = %q", res.stderr)
	}
}

func TestCLI_Errors(t *testing.T) {
	clearEnv(t)
	good := writeConfig(t, fmt.Sprintf("store:\n  dsn: %q\n", filepath.Join(t.TempDir(), "sync.db")))
	bad := writeConfig(t, "store:\n  kind: oracle\n")

	tests := []struct {
		name   string
		args   []string
		code   int
		stderr string
		stdout string
	}{
		{name: "unknown process", args: []string{"--config", good, "run", "migrate"}, code: 1, stderr: `unknown operation "migrate"`},
		{name: "missing process", args: []string{"--config", good, "run"}, code: 1, stderr: "accepts 1 arg"},
		{name: "missing config", args: []string{"--config", filepath.Join(t.TempDir(), "nope.yaml"), "tables"}, code: 1, stderr: "config: read"},
		{name: "invalid config", args: []string{"--config", bad, "validate"}, code: 1, stdout: "store.kind"},
		{name: "valid config", args: []string{"--config", good, "validate"}, code: 0, stdout: "Configuration is valid"},
		{name: "build without ddl", args: []string{"--config", good, "run", "build"}, code: 1, stderr: "config error during build"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCLI(t, "", tt.args...)
			if res.code != tt.code {
				t.Fatalf("exit = %d, want %d (stderr %q)", res.code, tt.code, res.stderr)
			}
			if tt.stderr != "" && !strings.Contains(res.stderr, tt.stderr) {
				t.Fatalf("stderr = %q, want substring %q", res.stderr, tt.stderr)
			}
			if tt.stdout != "" && !strings.Contains(res.stdout, tt.stdout) {
				t.Fatalf("stdout = %q, want substring %q", res.stdout, tt.stdout)
			}
		})
	}
}

func TestCLI_DDLDraft(t *testing.T) {
	clearEnv(t)
	srv := sheetServer(t)
	cfg := writeConfig(t, fmt.Sprintf(`store:
  kind: postgres
  dsn: postgres://user:pw@localhost:5432/sheets
sources:
  items: %q
`, srv.URL+"/items.csv"))

	res := runCLI(t, "", "--config", cfg, "ddl")
	if res.code != 0 {
		t.Fatalf("ddl exit = %d, stderr = %q", res.code, res.stderr)
	}
	for _, want := range []string{
		"ddl:",
		`CREATE TABLE IF NOT EXISTS "items" (`,
		`"id" BIGINT`,
		`DROP TABLE IF EXISTS "items"`,
	} {
		if !strings.Contains(res.stdout, want) {
			t.Fatalf("ddl stdout missing %q: %q", want, res.stdout)
		}
	}
}
