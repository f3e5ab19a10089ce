package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"sheetsync/internal/schema"
)

const sample = `
job: spirit-island
store:
  kind: SQLite
  dsn: data/master.db
sources:
  spirit: https://docs.google.com/spreadsheets/d/abc/edit?gid=1
  adversary: https://docs.google.com/spreadsheets/d/abc/edit?gid=2
  aspect: https://docs.google.com/spreadsheets/d/abc/edit?gid=3
load:
  index_column: index
http:
  timeout: 5s
  headers:
    Authorization: Bearer x
ddl:
  build:
    objects: CREATE TABLE IF NOT EXISTS objects (id INTEGER)
    items: CREATE TABLE IF NOT EXISTS items (id INTEGER)
  drop:
    items: DROP TABLE IF EXISTS items
    objects: DROP TABLE IF EXISTS objects
`

func TestDecode_PreservesOrder(t *testing.T) {
	t.Parallel()

	cfg, err := Decode(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Decode error = %v", err)
	}

	if got, want := cfg.Sources.Names(), []string{"spirit", "adversary", "aspect"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("source order = %v, want %v", got, want)
	}
	if cfg.Store.Kind != "sqlite" {
		t.Fatalf("Store.Kind = %q, want lower-cased sqlite", cfg.Store.Kind)
	}
	if cfg.HTTP.Timeout != 5*time.Second {
		t.Fatalf("HTTP.Timeout = %v, want 5s", cfg.HTTP.Timeout)
	}
	if cfg.Load.IndexColumn != "index" {
		t.Fatalf("Load.IndexColumn = %q", cfg.Load.IndexColumn)
	}

	reg, err := cfg.Registry()
	if err != nil {
		t.Fatalf("Registry error = %v", err)
	}
	build, err := reg.Statements(schema.OpBuild)
	if err != nil {
		t.Fatalf("Statements(build) error = %v", err)
	}
	if got, want := schema.Tables(build), []string{"objects", "items"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("build order = %v, want %v", got, want)
	}
}

func TestDecode_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := Decode(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Decode error = %v", err)
	}
	if cfg.Job != "sheetsync" || cfg.Store.Kind != "sqlite" || cfg.Store.DSN != "sheetsync.db" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Log.Level != "info" || cfg.Metrics.Backend != "none" || cfg.HTTP.Timeout != 30*time.Second {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestDecode_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"unknown key", "jobs: x\n", "jobs"},
		{"sources not a mapping", "sources:\n  - a\n", "mapping"},
		{"duplicate source", "sources:\n  a: http://x/1\n  a: http://x/2\n", "repeats"},
		{"nested value", "ddl:\n  build:\n    items:\n      sql: x\n", "must be a string"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Decode(strings.NewReader(tt.doc))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Decode error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sheetsync.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}
	if cfg.Job != "spirit-island" {
		t.Fatalf("Job = %q", cfg.Job)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("Load(missing) error = nil, want non-nil")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Parallel()

	cfg, _ := Decode(strings.NewReader(sample))
	env := map[string]string{
		EnvStoreKind:      "Postgres",
		EnvDatabase:       "postgres://localhost/sheets",
		EnvLogLevel:       "debug",
		EnvMetricsBackend: "pushgateway",
		EnvPushgatewayURL: "http://pgw:9091",
		EnvSeqURL:         "  ",
	}
	ApplyEnv(cfg, func(k string) string { return env[k] })

	if cfg.Store.Kind != "postgres" || cfg.Store.DSN != "postgres://localhost/sheets" {
		t.Fatalf("store = %+v", cfg.Store)
	}
	if cfg.Log.Level != "debug" || cfg.Log.SeqURL != "" {
		t.Fatalf("log = %+v", cfg.Log)
	}
	if cfg.Metrics.Backend != "pushgateway" || cfg.Metrics.PushgatewayURL != "http://pgw:9091" {
		t.Fatalf("metrics = %+v", cfg.Metrics)
	}
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	if err := LoadEnv(filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadEnv(missing) error = %v, want nil", err)
	}

	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("SHEETSYNC_TEST_DOTENV=from-file\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("SHEETSYNC_TEST_DOTENV", "")
	os.Unsetenv("SHEETSYNC_TEST_DOTENV")

	if err := LoadEnv(path); err != nil {
		t.Fatalf("LoadEnv error = %v", err)
	}
	if got := os.Getenv("SHEETSYNC_TEST_DOTENV"); got != "from-file" {
		t.Fatalf("SHEETSYNC_TEST_DOTENV = %q, want from-file", got)
	}
}
