// Package config defines the sheetsync configuration file and its
// environment overrides.
//
// The file is YAML (JSON is accepted too, being a subset):
//
//	job: sheetsync
//	store:
//	  kind: sqlite
//	  dsn: sheetsync.db
//	sources:
//	  items:   https://docs.google.com/spreadsheets/d/<id>/edit?gid=0
//	  objects: https://docs.google.com/spreadsheets/d/<id>/edit?gid=1
//	load:
//	  normalize_headers: false
//	  index_column: index
//	http:
//	  timeout: 30s
//	ddl:
//	  build:
//	    items: CREATE TABLE IF NOT EXISTS items (id INTEGER, name TEXT)
//	  drop:
//	    items: DROP TABLE IF EXISTS items
//
// The sources and ddl.<operation> mappings keep their file order: tables are
// read, created and dropped in the order they are written.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"sheetsync/internal/schema"
)

// Config is the top-level object decoded from the config file.
type Config struct {
	// Job labels metrics and log lines.
	Job     string      `yaml:"job"`
	Store   Store       `yaml:"store"`
	Sources Sources     `yaml:"sources"`
	Load    LoadOptions `yaml:"load"`
	HTTP    HTTP        `yaml:"http"`
	DDL     DDL         `yaml:"ddl"`
	Log     Log         `yaml:"log"`
	Metrics Metrics     `yaml:"metrics"`
}

// Store selects the relational store.
type Store struct {
	// Kind is one of sqlite (default), postgres, mssql, mysql.
	Kind string `yaml:"kind"`
	DSN  string `yaml:"dsn"`
}

// Source is one named spreadsheet tab. Name becomes the table name.
type Source struct {
	Name string
	URL  string
}

// Sources is an ordered name -> URL mapping.
type Sources []Source

// Names returns the source names in file order.
func (s Sources) Names() []string {
	out := make([]string, len(s))
	for i, src := range s {
		out[i] = src.Name
	}
	return out
}

// UnmarshalYAML decodes a mapping while keeping key order.
func (s *Sources) UnmarshalYAML(node *yaml.Node) error {
	var out Sources
	err := decodeOrderedMap(node, "sources", func(k, v string) {
		out = append(out, Source{Name: k, URL: v})
	})
	if err != nil {
		return err
	}
	*s = out
	return nil
}

// LoadOptions tunes how datasets are read and written during load.
type LoadOptions struct {
	// NormalizeHeaders maps column headers to lower snake_case ASCII.
	NormalizeHeaders bool `yaml:"normalize_headers"`
	// TrimSpace trims whitespace around every cell.
	TrimSpace bool `yaml:"trim_space"`
	// IndexColumn, when set, writes a 0-based row number column first.
	IndexColumn string `yaml:"index_column"`
}

// HTTP configures the source client.
type HTTP struct {
	Timeout            time.Duration     `yaml:"timeout"`
	InsecureSkipVerify bool              `yaml:"insecure_skip_verify"`
	Headers            map[string]string `yaml:"headers"`
}

// DDL maps an operation name (build, drop) to its ordered statements.
type DDL map[string]StatementList

// StatementList is an ordered table -> SQL mapping.
type StatementList []schema.Statement

// UnmarshalYAML decodes a mapping while keeping key order.
func (l *StatementList) UnmarshalYAML(node *yaml.Node) error {
	var out StatementList
	err := decodeOrderedMap(node, "ddl", func(k, v string) {
		out = append(out, schema.Statement{Table: k, SQL: v})
	})
	if err != nil {
		return err
	}
	*l = out
	return nil
}

// Registry validates the DDL section and returns it as a schema.Registry.
func (c *Config) Registry() (*schema.Registry, error) {
	sets := make(map[string][]schema.Statement, len(c.DDL))
	for op, list := range c.DDL {
		sets[op] = list
	}
	return schema.NewRegistry(sets)
}

// Log configures the process logger.
type Log struct {
	// Level is debug, info, warn or error.
	Level string `yaml:"level"`
	// SeqURL enables shipping logs to a Seq server.
	SeqURL string `yaml:"seq_url"`
}

// Metrics selects the metrics backend.
type Metrics struct {
	// Backend is none, pushgateway or datadog.
	Backend        string `yaml:"backend"`
	PushgatewayURL string `yaml:"pushgateway_url"`
	StatsdAddr     string `yaml:"statsd_addr"`
}

// Load reads and decodes path, then fills defaults. Unknown keys are errors.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses a config document from r and fills defaults.
func Decode(r io.Reader) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode: %w", err)
	}
	cfg.SetDefaults()
	return &cfg, nil
}

// SetDefaults fills zero values.
func (c *Config) SetDefaults() {
	if strings.TrimSpace(c.Job) == "" {
		c.Job = "sheetsync"
	}
	if strings.TrimSpace(c.Store.Kind) == "" {
		c.Store.Kind = "sqlite"
	}
	c.Store.Kind = strings.ToLower(strings.TrimSpace(c.Store.Kind))
	if strings.TrimSpace(c.Store.DSN) == "" && c.Store.Kind == "sqlite" {
		c.Store.DSN = "sheetsync.db"
	}
	if c.HTTP.Timeout == 0 {
		c.HTTP.Timeout = 30 * time.Second
	}
	if strings.TrimSpace(c.Log.Level) == "" {
		c.Log.Level = "info"
	}
	if strings.TrimSpace(c.Metrics.Backend) == "" {
		c.Metrics.Backend = "none"
	}
}

// Environment variables that override the file.
const (
	EnvStoreKind      = "SHEETSYNC_STORE_KIND"
	EnvDatabase       = "SHEETSYNC_DATABASE"
	EnvLogLevel       = "SHEETSYNC_LOG_LEVEL"
	EnvSeqURL         = "SHEETSYNC_SEQ_URL"
	EnvMetricsBackend = "METRICS_BACKEND"
	EnvPushgatewayURL = "PUSHGATEWAY_URL"
	EnvStatsdAddr     = "DD_AGENT_ADDR"
)

// ApplyEnv overrides file values with non-empty environment variables.
// getenv is usually os.Getenv.
func ApplyEnv(c *Config, getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&c.Store.Kind, EnvStoreKind)
	set(&c.Store.DSN, EnvDatabase)
	set(&c.Log.Level, EnvLogLevel)
	set(&c.Log.SeqURL, EnvSeqURL)
	set(&c.Metrics.Backend, EnvMetricsBackend)
	set(&c.Metrics.PushgatewayURL, EnvPushgatewayURL)
	set(&c.Metrics.StatsdAddr, EnvStatsdAddr)
	c.Store.Kind = strings.ToLower(c.Store.Kind)
}

// LoadEnv loads a dotenv file into the process environment without
// overriding variables that are already set. A missing file is not an error.
func LoadEnv(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: load env %s: %w", path, err)
	}
	return nil
}

// decodeOrderedMap walks a YAML mapping of scalar to scalar in file order.
func decodeOrderedMap(node *yaml.Node, what string, fn func(k, v string)) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: %s must be a mapping of name to value", node.Line, what)
	}
	seen := make(map[string]int, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		if v.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: %s.%s must be a string", v.Line, what, k.Value)
		}
		if first, dup := seen[k.Value]; dup {
			return fmt.Errorf("line %d: %s.%s repeats the key from line %d", k.Line, what, k.Value, first)
		}
		seen[k.Value] = k.Line
		fn(k.Value, v.Value)
	}
	return nil
}
